// Package errs defines the typed failure kinds of the rental domain.
//
// Every user-facing failure is one of the sentinel errors declared here,
// surfaced to the API layer as-is and mapped to a stable error code by Code().
// Infrastructure failures (database, cache) are never coerced into these kinds;
// they bubble up wrapped and map to INTERNAL.
package errs
