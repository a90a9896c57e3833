package favorite

import (
	"context"
	"testing"

	"library-rental/core/database"
	"library-rental/core/errs"
	catalogmodels "library-rental/feature/catalog/models"
	"library-rental/feature/favorite/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()

	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&catalogmodels.Book{}, &models.Favorite{}))

	return NewService(db, zap.NewNop()), db
}

func seedBook(t *testing.T, db *gorm.DB, id string) {
	t.Helper()
	require.NoError(t, db.Create(&catalogmodels.Book{
		ID:              id,
		Title:           "Book " + id,
		Author:          "Author",
		ISBN:            "isbn-" + id,
		TotalCopies:     1,
		AvailableCopies: 1,
	}).Error)
}

func TestAdd(t *testing.T) {
	svc, db := newTestService(t)
	seedBook(t, db, "b1")

	view, err := svc.Add(context.Background(), "u1", "b1")
	require.NoError(t, err)
	assert.Equal(t, "u1", view.UserID)
	assert.Equal(t, "b1", view.BookID)
	require.NotNil(t, view.Book)
	assert.Equal(t, "b1", view.Book.ID)
}

func TestAddUnknownBook(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Add(context.Background(), "u1", "missing")
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestAddTwice(t *testing.T) {
	svc, db := newTestService(t)
	seedBook(t, db, "b1")

	_, err := svc.Add(context.Background(), "u1", "b1")
	require.NoError(t, err)

	_, err = svc.Add(context.Background(), "u1", "b1")
	assert.ErrorIs(t, err, errs.ErrAlreadyFavorited)

	var count int64
	require.NoError(t, db.Model(&models.Favorite{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestAddSameBookDifferentUsers(t *testing.T) {
	svc, db := newTestService(t)
	seedBook(t, db, "b1")

	_, err := svc.Add(context.Background(), "u1", "b1")
	require.NoError(t, err)
	_, err = svc.Add(context.Background(), "u2", "b1")
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&models.Favorite{}).Count(&count).Error)
	assert.EqualValues(t, 2, count)
}

func TestRemove(t *testing.T) {
	svc, db := newTestService(t)
	seedBook(t, db, "b1")

	view, err := svc.Add(context.Background(), "u1", "b1")
	require.NoError(t, err)

	require.NoError(t, svc.Remove(context.Background(), "u1", view.ID))

	var count int64
	require.NoError(t, db.Model(&models.Favorite{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestRemoveForbidden(t *testing.T) {
	svc, db := newTestService(t)
	seedBook(t, db, "b1")

	view, err := svc.Add(context.Background(), "u1", "b1")
	require.NoError(t, err)

	err = svc.Remove(context.Background(), "u2", view.ID)
	assert.ErrorIs(t, err, errs.ErrForbidden)
}

func TestRemoveUnknown(t *testing.T) {
	svc, _ := newTestService(t)

	err := svc.Remove(context.Background(), "u1", "missing")
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestList(t *testing.T) {
	svc, db := newTestService(t)
	seedBook(t, db, "b1")
	seedBook(t, db, "b2")

	_, err := svc.Add(context.Background(), "u1", "b1")
	require.NoError(t, err)
	_, err = svc.Add(context.Background(), "u1", "b2")
	require.NoError(t, err)
	_, err = svc.Add(context.Background(), "u2", "b1")
	require.NoError(t, err)

	views, err := svc.List(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, views, 2)
	for _, v := range views {
		assert.Equal(t, "u1", v.UserID)
		require.NotNil(t, v.Book)
	}
}
