// Package preflight provides readiness checks for the filesystem paths and
// external tools pix depends on.
//
// These checks run in two contexts:
//   - Commands that list or move into the pictures root call
//     CheckPicturesAccess first and stop with its remedy when access is
//     denied.
//   - The CLI "pix status" command runs RunAll to display overall health.
package preflight
