// Package rental applies rental mutations against the inventory store.
//
// Every mutation runs in a single request-scoped transaction: the rental row
// change and the available-copies adjustment commit together or not at all.
// Concurrent rents for the same book serialize on a guarded conditional
// decrement (available_copies > 0), so the store can never oversell.
//
// Cache invalidation of the book's point-read key happens after commit,
// within the same logical operation; a cache failure there leaves a stale
// entry until TTL and is logged, never surfaced.
package rental
