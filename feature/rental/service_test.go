package rental

import (
	"context"
	"testing"
	"time"

	"library-rental/core/cache/mocks"
	"library-rental/core/database"
	"library-rental/core/errs"
	accountmodels "library-rental/feature/account/models"
	catalogmodels "library-rental/feature/catalog/models"
	"library-rental/feature/rental/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()

	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&accountmodels.User{}, &catalogmodels.Book{}, &models.Rental{}))

	cacheStore := new(mocks.Store)
	cacheStore.On("Del", mock.Anything, mock.Anything).Return(nil).Maybe()

	return NewService(db, cacheStore, zap.NewNop()), db
}

func seedUser(t *testing.T, db *gorm.DB, id string) {
	t.Helper()
	require.NoError(t, db.Create(&accountmodels.User{ID: id, Email: id + "@example.com"}).Error)
}

func seedBook(t *testing.T, db *gorm.DB, id string, total, available int) {
	t.Helper()
	require.NoError(t, db.Create(&catalogmodels.Book{
		ID:              id,
		Title:           "Book " + id,
		Author:          "Author",
		ISBN:            "isbn-" + id,
		TotalCopies:     total,
		AvailableCopies: available,
	}).Error)
}

func availableCopies(t *testing.T, db *gorm.DB, bookID string) int {
	t.Helper()
	var book catalogmodels.Book
	require.NoError(t, db.First(&book, "id = ?", bookID).Error)
	return book.AvailableCopies
}

func TestRent(t *testing.T) {
	svc, db := newTestService(t)
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	seedUser(t, db, "u1")
	seedBook(t, db, "b1", 3, 3)

	view, err := svc.Rent(context.Background(), "u1", "b1")
	require.NoError(t, err)

	assert.Equal(t, "u1", view.UserID)
	assert.Equal(t, "b1", view.BookID)
	assert.Equal(t, fixed.Format(time.RFC3339), view.RentedAt)
	assert.Equal(t, fixed.Add(Period).Format(time.RFC3339), view.DueDate)
	assert.Nil(t, view.ReturnedAt)
	require.NotNil(t, view.Book)
	assert.Equal(t, 2, view.Book.AvailableCopies)
	assert.Equal(t, 2, availableCopies(t, db, "b1"))
}

func TestRentUnknownBook(t *testing.T) {
	svc, db := newTestService(t)
	seedUser(t, db, "u1")

	_, err := svc.Rent(context.Background(), "u1", "missing")
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestRentNoCopiesLeft(t *testing.T) {
	svc, db := newTestService(t)
	seedUser(t, db, "u1")
	seedBook(t, db, "b1", 2, 0)

	_, err := svc.Rent(context.Background(), "u1", "b1")
	assert.ErrorIs(t, err, errs.ErrUnavailable)

	// The failed rent must not leave a rental row behind.
	var count int64
	require.NoError(t, db.Model(&models.Rental{}).Count(&count).Error)
	assert.Zero(t, count)
	assert.Equal(t, 0, availableCopies(t, db, "b1"))
}

func TestRentDuplicateActiveRental(t *testing.T) {
	svc, db := newTestService(t)
	seedUser(t, db, "u1")
	seedBook(t, db, "b1", 3, 3)

	_, err := svc.Rent(context.Background(), "u1", "b1")
	require.NoError(t, err)

	_, err = svc.Rent(context.Background(), "u1", "b1")
	assert.ErrorIs(t, err, errs.ErrDuplicateActiveRental)
	assert.Equal(t, 2, availableCopies(t, db, "b1"))
}

func TestReturn(t *testing.T) {
	svc, db := newTestService(t)
	seedUser(t, db, "u1")
	seedBook(t, db, "b1", 3, 3)

	rented, err := svc.Rent(context.Background(), "u1", "b1")
	require.NoError(t, err)

	returned, err := svc.Return(context.Background(), "u1", rented.ID)
	require.NoError(t, err)
	assert.NotNil(t, returned.ReturnedAt)
	assert.Equal(t, 3, availableCopies(t, db, "b1"))
}

func TestReturnForbidden(t *testing.T) {
	svc, db := newTestService(t)
	seedUser(t, db, "u1")
	seedUser(t, db, "u2")
	seedBook(t, db, "b1", 3, 3)

	rented, err := svc.Rent(context.Background(), "u1", "b1")
	require.NoError(t, err)

	_, err = svc.Return(context.Background(), "u2", rented.ID)
	assert.ErrorIs(t, err, errs.ErrForbidden)
	assert.Equal(t, 2, availableCopies(t, db, "b1"))
}

func TestReturnAlreadyReturned(t *testing.T) {
	svc, db := newTestService(t)
	seedUser(t, db, "u1")
	seedBook(t, db, "b1", 3, 3)

	rented, err := svc.Rent(context.Background(), "u1", "b1")
	require.NoError(t, err)
	_, err = svc.Return(context.Background(), "u1", rented.ID)
	require.NoError(t, err)

	_, err = svc.Return(context.Background(), "u1", rented.ID)
	assert.ErrorIs(t, err, errs.ErrAlreadyReturned)

	// The failed second return must not increment again.
	assert.Equal(t, 3, availableCopies(t, db, "b1"))
}

func TestLastCopyCycle(t *testing.T) {
	svc, db := newTestService(t)
	seedUser(t, db, "u1")
	seedUser(t, db, "u2")
	seedBook(t, db, "b1", 1, 1)

	rented, err := svc.Rent(context.Background(), "u1", "b1")
	require.NoError(t, err)

	_, err = svc.Rent(context.Background(), "u2", "b1")
	assert.ErrorIs(t, err, errs.ErrUnavailable)

	_, err = svc.Return(context.Background(), "u1", rented.ID)
	require.NoError(t, err)

	_, err = svc.Rent(context.Background(), "u2", "b1")
	require.NoError(t, err)
	assert.Equal(t, 0, availableCopies(t, db, "b1"))
}

func TestMyRentals(t *testing.T) {
	svc, db := newTestService(t)
	seedUser(t, db, "u1")
	seedBook(t, db, "b1", 3, 3)
	seedBook(t, db, "b2", 3, 3)

	_, err := svc.Rent(context.Background(), "u1", "b1")
	require.NoError(t, err)
	_, err = svc.Rent(context.Background(), "u1", "b2")
	require.NoError(t, err)

	views, err := svc.MyRentals(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, views, 2)
	require.NotNil(t, views[0].User)
	require.NotNil(t, views[0].Book)
}

func TestOverdueRentals(t *testing.T) {
	svc, db := newTestService(t)
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	seedUser(t, db, "u1")
	seedBook(t, db, "b1", 3, 3)

	returned := fixed.Add(-time.Hour)
	rentals := []models.Rental{
		{ID: "r-overdue", UserID: "u1", BookID: "b1", RentedAt: fixed.Add(-20 * 24 * time.Hour), DueDate: fixed.Add(-6 * 24 * time.Hour)},
		{ID: "r-current", UserID: "u1", BookID: "b1", RentedAt: fixed.Add(-24 * time.Hour), DueDate: fixed.Add(13 * 24 * time.Hour)},
		{ID: "r-closed", UserID: "u1", BookID: "b1", RentedAt: fixed.Add(-20 * 24 * time.Hour), DueDate: fixed.Add(-6 * 24 * time.Hour), ReturnedAt: &returned},
	}
	for i := range rentals {
		require.NoError(t, db.Create(&rentals[i]).Error)
	}

	views, err := svc.OverdueRentals(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "r-overdue", views[0].ID)
}
