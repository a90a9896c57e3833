package cache

import (
	"fmt"
	"time"
)

// DefaultTTL is the safety-net lifetime for cached query results.
// Point-read keys are invalidated explicitly on writes; list keys are allowed
// to go stale until this expires.
const DefaultTTL = time.Hour

// BookKey returns the point-read cache key for a single book.
func BookKey(bookID string) string {
	return "book:" + bookID
}

// BooksPageKey returns the list-read cache key for one page of the catalog.
// An empty cursor maps to the sentinel "first" so the opening page has a
// stable key.
func BooksPageKey(first int, after string) string {
	if after == "" {
		after = "first"
	}
	return fmt.Sprintf("books:%d:%s", first, after)
}
