// Package sync reconciles client-originated records with the inventory store.
//
// Clients queue rentals and favorites locally while offline, assigning their
// own record ids and timestamps, then submit the whole set on reconnect. The
// merge is keyed by record id and idempotent: inserts happen at most once,
// and copy-count side effects fire only on the open-to-closed transition of a
// rental, so replaying a batch cannot double-count.
//
// The batch is processed sequentially and aborts at the first failure; the
// client retries the entire batch later. Only a success/failure summary is
// returned, never per-record results.
package sync
