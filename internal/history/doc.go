// Package history keeps a SQLite ledger of move batches.
//
// Each call to the mover produces one Batch, including batches that only
// partially succeeded, so files scattered by an interrupted move can be found
// again. The ledger is advisory: callers log recording failures and carry on.
//
// Schema changes bump schemaVersion in schema.go; users delete history.db to
// adopt the new schema.
package history
