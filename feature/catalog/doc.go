// Package catalog serves the book catalog.
//
// Reads follow the cache-aside pattern: paginated list reads are cached per
// (pageSize, cursor) combination, point reads per book id. Point-read keys
// are invalidated synchronously by every write path that changes a book's
// visible fields (rentals, sync, cover uploads); list keys rely on the TTL.
//
// Cover images live in object storage under covers/<bookID> and are served
// over plain HTTP next to the GraphQL endpoint.
package catalog
