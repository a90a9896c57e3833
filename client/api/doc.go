// Package api is the client-side GraphQL client for the rental API.
//
// Besides direct mutation helpers it provides Apply, the dispatch function
// that replays queued sync-ledger records against the server during a drain.
package api
