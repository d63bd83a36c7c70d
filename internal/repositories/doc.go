// package repositories provides the persistence layer for the library
// mirror.
//
// Each entity repository implements the reconcile contract: insert rows
// that are absent (never overwriting an existing row, since the remote is
// append-mostly) and delete rows the current pass no longer observes.
// Pruning is always scoped to one library so passes for different libraries
// cannot touch each other's rows.
package repositories
