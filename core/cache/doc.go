// Package cache provides the Redis-backed result cache.
//
// The cache holds serialized query results keyed by query shape: point reads
// under book:<id>, paginated list reads under books:<pageSize>:<cursor>.
// It follows the cache-aside pattern: the read path checks the cache first,
// falls back to the store, and populates the cache on miss.
//
// # Consistency
//
// Writes that change a book's visible fields invalidate the point-read key
// synchronously within the same logical operation. List keys are not
// invalidated on inserts or deletes of list members; they rely on the TTL as
// a safety net. A crash between store commit and invalidation leaves a stale
// entry until the TTL expires; callers log this class of failure and move on.
//
// # Degradation
//
// The cache is reachable over the network and may fail independently of the
// store. Every operation returns an error the caller recovers from locally
// by reading the store directly; cache failures are never surfaced to the
// API caller.
//
// The store is constructed explicitly and passed to services; there is no
// package-level client.
package cache
