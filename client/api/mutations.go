package api

import (
	"context"
	"fmt"

	"library-rental/client/outbox"
)

// Mutation kinds recorded in the sync ledger.
const (
	KindRentBook       = "RENT_BOOK"
	KindReturnBook     = "RETURN_BOOK"
	KindAddFavorite    = "ADD_FAVORITE"
	KindRemoveFavorite = "REMOVE_FAVORITE"
)

const (
	rentBookMutation = `mutation RentBook($bookId: ID!) {
  rentBook(bookId: $bookId) { id rentedAt dueDate book { id availableCopies } }
}`
	returnBookMutation = `mutation ReturnBook($rentalId: ID!) {
  returnBook(rentalId: $rentalId) { id returnedAt book { id availableCopies } }
}`
	addFavoriteMutation = `mutation AddFavorite($bookId: ID!) {
  addFavorite(bookId: $bookId) { id createdAt }
}`
	removeFavoriteMutation = `mutation RemoveFavorite($favoriteId: ID!) {
  removeFavorite(favoriteId: $favoriteId)
}`
)

// RentBook rents a book for the authenticated user.
func (c *Client) RentBook(ctx context.Context, bookID string) error {
	return c.Do(ctx, rentBookMutation, map[string]interface{}{"bookId": bookID}, nil)
}

// ReturnBook returns a rented book.
func (c *Client) ReturnBook(ctx context.Context, rentalID string) error {
	return c.Do(ctx, returnBookMutation, map[string]interface{}{"rentalId": rentalID}, nil)
}

// AddFavorite favorites a book.
func (c *Client) AddFavorite(ctx context.Context, bookID string) error {
	return c.Do(ctx, addFavoriteMutation, map[string]interface{}{"bookId": bookID}, nil)
}

// RemoveFavorite removes a favorite.
func (c *Client) RemoveFavorite(ctx context.Context, favoriteID string) error {
	return c.Do(ctx, removeFavoriteMutation, map[string]interface{}{"favoriteId": favoriteID}, nil)
}

// Apply replays one queued mutation. It is the apply function handed to
// outbox.Ledger.Drain.
func (c *Client) Apply(ctx context.Context, rec outbox.Record) error {
	var args map[string]interface{}
	if err := rec.UnmarshalArguments(&args); err != nil {
		return fmt.Errorf("corrupt queued arguments: %w", err)
	}

	switch rec.Kind {
	case KindRentBook:
		return c.Do(ctx, rentBookMutation, args, nil)
	case KindReturnBook:
		return c.Do(ctx, returnBookMutation, args, nil)
	case KindAddFavorite:
		return c.Do(ctx, addFavoriteMutation, args, nil)
	case KindRemoveFavorite:
		return c.Do(ctx, removeFavoriteMutation, args, nil)
	default:
		return fmt.Errorf("unknown mutation kind %q", rec.Kind)
	}
}
