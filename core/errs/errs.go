package errs

import "errors"

// Sentinel errors for the domain failure kinds. Services wrap these with
// context via fmt.Errorf("...: %w", ...) so callers can match with errors.Is.
var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrForbidden indicates the entity belongs to another user.
	ErrForbidden = errors.New("forbidden")
	// ErrUnavailable indicates a book has no copies left to rent.
	ErrUnavailable = errors.New("no copies available")
	// ErrDuplicateActiveRental indicates the user already has an open rental for the book.
	ErrDuplicateActiveRental = errors.New("active rental already exists")
	// ErrAlreadyReturned indicates the rental was already closed.
	ErrAlreadyReturned = errors.New("rental already returned")
	// ErrAlreadyFavorited indicates the (user, book) pair is already favorited.
	ErrAlreadyFavorited = errors.New("book already favorited")
	// ErrAuthRequired indicates the operation needs an authenticated user.
	ErrAuthRequired = errors.New("authentication required")
)

// Code returns the stable machine-readable code for a domain error,
// or "INTERNAL" for anything that is not a known kind.
func Code(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return "NOT_FOUND"
	case errors.Is(err, ErrForbidden):
		return "FORBIDDEN"
	case errors.Is(err, ErrUnavailable):
		return "UNAVAILABLE"
	case errors.Is(err, ErrDuplicateActiveRental):
		return "DUPLICATE_ACTIVE_RENTAL"
	case errors.Is(err, ErrAlreadyReturned):
		return "ALREADY_RETURNED"
	case errors.Is(err, ErrAlreadyFavorited):
		return "ALREADY_FAVORITED"
	case errors.Is(err, ErrAuthRequired):
		return "UNAUTHENTICATED"
	default:
		return "INTERNAL"
	}
}
