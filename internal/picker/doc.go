// Package picker orders and filters library entries for destination choice.
//
// Sort and Filter are pure: they never touch the filesystem, so a Session can
// fetch the entry list once and re-run the policy on every keystroke of the
// search text. A search that does not name an existing directory yields a
// synthetic "create new" item in first position.
package picker
