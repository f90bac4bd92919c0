// Package mover files selected pictures into a named subdirectory of the
// pictures root.
//
// A move creates the destination directory, then renames every source into it
// concurrently. Renames that succeed are never rolled back when a sibling
// fails; the returned MoveError lists both sides so the caller can report
// exactly what happened. Each batch is optionally written to the history
// ledger.
package mover
