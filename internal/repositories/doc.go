// Package repositories implements the local SQLite cache behind offline
// listings and bulk operations.
//
// The backend stays the source of truth: each repository mirrors one backend
// listing and is refreshed wholesale via ReplaceAll during a cache sync.
// Reads never fall through to the network, so stale rows are expected between
// syncs.
//
// Key Implementations:
//   - [ScriptRepository] : cached script listings with topic search
//   - [HookRepository] : cached hook library with type and mode filters
//   - [VideoRepository] : cached render jobs with status filters
package repositories
