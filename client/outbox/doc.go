// Package outbox implements the client-side sync ledger: a durable FIFO
// queue of mutations attempted while offline.
//
// Records get a locally generated monotonic sequence key and are replayed
// strictly in enqueue order — later records may reference ids created by
// earlier ones, so draining is sequential with a single in-flight apply.
// Draining halts at the first failure with no partial skip and no
// reordering, and a re-entrancy guard keeps rapid connectivity flapping
// from starting overlapping drains.
package outbox
