// package tasks implements the library synchronization engine.
//
// The core abstraction is SyncEngine, which drives the pull → transform →
// reconcile pipeline for one library: fetch the artist index, fan out
// per-artist album requests and per-album song and cover art requests with
// bounded concurrency, transform the raw payloads into normalized rows, and
// hand complete desired-id sets to the repositories for upsert-and-prune.
// Operations emit progress updates via channels for non-blocking status
// reporting to CLI/UI layers.
package tasks
