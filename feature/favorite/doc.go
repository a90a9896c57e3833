// Package favorite manages per-user book favorites.
//
// Favorites carry no inventory side effects and are not cached; the only
// invariant is uniqueness of the (user, book) pair.
package favorite
