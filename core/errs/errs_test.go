package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCode(t *testing.T) {
	cases := []struct {
		err  error
		code string
	}{
		{ErrNotFound, "NOT_FOUND"},
		{ErrForbidden, "FORBIDDEN"},
		{ErrUnavailable, "UNAVAILABLE"},
		{ErrDuplicateActiveRental, "DUPLICATE_ACTIVE_RENTAL"},
		{ErrAlreadyReturned, "ALREADY_RETURNED"},
		{ErrAlreadyFavorited, "ALREADY_FAVORITED"},
		{ErrAuthRequired, "UNAUTHENTICATED"},
		{errors.New("disk on fire"), "INTERNAL"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.code, Code(tc.err), tc.code)
	}
}

func TestCodeUnwrapsChains(t *testing.T) {
	err := fmt.Errorf("rental r1: %w", fmt.Errorf("book b1: %w", ErrUnavailable))
	assert.Equal(t, "UNAVAILABLE", Code(err))
}
