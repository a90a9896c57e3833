package gateway

import (
	"context"
	"testing"

	cachemocks "library-rental/core/cache/mocks"
	"library-rental/core/database"
	storagemocks "library-rental/core/storage/mocks"
	"library-rental/feature/account"
	accountmodels "library-rental/feature/account/models"
	"library-rental/feature/catalog"
	catalogmodels "library-rental/feature/catalog/models"
	"library-rental/feature/favorite"
	favoritemodels "library-rental/feature/favorite/models"
	"library-rental/feature/rental"
	rentalmodels "library-rental/feature/rental/models"
	"library-rental/feature/sync"

	"github.com/graphql-go/graphql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestSchema(t *testing.T) (graphql.Schema, *gorm.DB) {
	t.Helper()

	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&accountmodels.User{},
		&catalogmodels.Book{},
		&rentalmodels.Rental{},
		&favoritemodels.Favorite{},
	))

	cacheStore := new(cachemocks.Store)
	cacheStore.On("Get", mock.Anything, mock.Anything).Return(nil, assert.AnError).Maybe()
	cacheStore.On("Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	cacheStore.On("Del", mock.Anything, mock.Anything).Return(nil).Maybe()

	storageClient := new(storagemocks.Client)
	log := zap.NewNop()

	schema, err := NewSchema(&Services{
		Accounts:  account.NewService(db, log),
		Catalog:   catalog.NewService(db, cacheStore, storageClient, "covers", log),
		Rentals:   rental.NewService(db, cacheStore, log),
		Favorites: favorite.NewService(db, log),
		Sync:      sync.NewService(db, cacheStore, log),
	})
	require.NoError(t, err)

	return schema, db
}

func seedFixtures(t *testing.T, db *gorm.DB) *accountmodels.User {
	t.Helper()

	user := &accountmodels.User{ID: "u1", Email: "reader@example.com"}
	require.NoError(t, db.Create(user).Error)
	require.NoError(t, db.Create(&catalogmodels.Book{
		ID:              "b1",
		Title:           "The Hobbit",
		Author:          "J.R.R. Tolkien",
		ISBN:            "9780547928227",
		TotalCopies:     2,
		AvailableCopies: 2,
	}).Error)
	return user
}

func exec(schema graphql.Schema, ctx context.Context, query string, vars map[string]interface{}) *graphql.Result {
	return graphql.Do(graphql.Params{
		Schema:         schema,
		RequestString:  query,
		Context:        ctx,
		VariableValues: vars,
	})
}

func data(t *testing.T, result *graphql.Result) map[string]interface{} {
	t.Helper()
	require.Empty(t, result.Errors)
	m, ok := result.Data.(map[string]interface{})
	require.True(t, ok)
	return m
}

func errorCode(result *graphql.Result) string {
	if len(result.Errors) == 0 {
		return ""
	}
	code, _ := result.Errors[0].Extensions["code"].(string)
	return code
}

func TestQueryMe(t *testing.T) {
	schema, db := newTestSchema(t)
	user := seedFixtures(t, db)
	ctx := account.WithUser(context.Background(), user)

	result := exec(schema, ctx, `{ me { id email name } }`, nil)
	me := data(t, result)["me"].(map[string]interface{})
	assert.Equal(t, "u1", me["id"])
	assert.Equal(t, "reader@example.com", me["email"])
	assert.Nil(t, me["name"])
}

func TestQueryMeUnauthenticated(t *testing.T) {
	schema, _ := newTestSchema(t)

	result := exec(schema, context.Background(), `{ me { id } }`, nil)
	assert.Equal(t, "UNAUTHENTICATED", errorCode(result))
}

func TestQueryBooks(t *testing.T) {
	schema, db := newTestSchema(t)
	seedFixtures(t, db)

	// Catalog reads are public.
	result := exec(schema, context.Background(), `{
		books(first: 10) {
			totalCount
			edges { node { id title availableCopies } cursor }
			pageInfo { hasNextPage hasPreviousPage }
		}
	}`, nil)

	books := data(t, result)["books"].(map[string]interface{})
	assert.Equal(t, 1, books["totalCount"])
	edges := books["edges"].([]interface{})
	require.Len(t, edges, 1)
	node := edges[0].(map[string]interface{})["node"].(map[string]interface{})
	assert.Equal(t, "b1", node["id"])
	assert.Equal(t, 2, node["availableCopies"])
}

func TestQueryBookNotFound(t *testing.T) {
	schema, _ := newTestSchema(t)

	result := exec(schema, context.Background(), `{ book(id: "missing") { id } }`, nil)
	assert.Equal(t, "NOT_FOUND", errorCode(result))
}

func TestRentAndReturnFlow(t *testing.T) {
	schema, db := newTestSchema(t)
	user := seedFixtures(t, db)
	ctx := account.WithUser(context.Background(), user)

	result := exec(schema, ctx, `mutation {
		rentBook(bookId: "b1") { id returnedAt book { availableCopies } user { id } }
	}`, nil)
	rented := data(t, result)["rentBook"].(map[string]interface{})
	assert.Nil(t, rented["returnedAt"])
	assert.Equal(t, 1, rented["book"].(map[string]interface{})["availableCopies"])
	assert.Equal(t, "u1", rented["user"].(map[string]interface{})["id"])

	rentalID := rented["id"].(string)
	result = exec(schema, ctx, `mutation($id: ID!) {
		returnBook(rentalId: $id) { returnedAt book { availableCopies } }
	}`, map[string]interface{}{"id": rentalID})
	returned := data(t, result)["returnBook"].(map[string]interface{})
	assert.NotNil(t, returned["returnedAt"])
	assert.Equal(t, 2, returned["book"].(map[string]interface{})["availableCopies"])
}

func TestRentBookUnavailable(t *testing.T) {
	schema, db := newTestSchema(t)
	user := seedFixtures(t, db)
	require.NoError(t, db.Model(&catalogmodels.Book{}).
		Where("id = ?", "b1").
		Update("available_copies", 0).Error)
	ctx := account.WithUser(context.Background(), user)

	result := exec(schema, ctx, `mutation { rentBook(bookId: "b1") { id } }`, nil)
	assert.Equal(t, "UNAVAILABLE", errorCode(result))
}

func TestFavoriteFlow(t *testing.T) {
	schema, db := newTestSchema(t)
	user := seedFixtures(t, db)
	ctx := account.WithUser(context.Background(), user)

	result := exec(schema, ctx, `mutation { addFavorite(bookId: "b1") { id book { title } } }`, nil)
	added := data(t, result)["addFavorite"].(map[string]interface{})
	assert.Equal(t, "The Hobbit", added["book"].(map[string]interface{})["title"])

	result = exec(schema, ctx, `mutation { addFavorite(bookId: "b1") { id } }`, nil)
	assert.Equal(t, "ALREADY_FAVORITED", errorCode(result))

	result = exec(schema, ctx, `{ myFavorites { id } }`, nil)
	favorites := data(t, result)["myFavorites"].([]interface{})
	require.Len(t, favorites, 1)

	favoriteID := added["id"].(string)
	result = exec(schema, ctx, `mutation($id: ID!) { removeFavorite(favoriteId: $id) }`, map[string]interface{}{"id": favoriteID})
	assert.Equal(t, true, data(t, result)["removeFavorite"])
}

func TestSyncOfflineData(t *testing.T) {
	schema, db := newTestSchema(t)
	user := seedFixtures(t, db)
	ctx := account.WithUser(context.Background(), user)

	result := exec(schema, ctx, `mutation($rentals: [RentalInput!], $favorites: [FavoriteInput!]) {
		syncOfflineData(rentals: $rentals, favorites: $favorites) { success message }
	}`, map[string]interface{}{
		"rentals": []interface{}{map[string]interface{}{
			"id":       "offline-r1",
			"bookId":   "b1",
			"rentedAt": "2026-02-01T10:00:00Z",
			"dueDate":  "2026-02-15T10:00:00Z",
		}},
		"favorites": []interface{}{map[string]interface{}{
			"id":        "offline-f1",
			"bookId":    "b1",
			"createdAt": "2026-02-01T10:00:00Z",
		}},
	})

	payload := data(t, result)["syncOfflineData"].(map[string]interface{})
	assert.Equal(t, true, payload["success"])

	var count int64
	require.NoError(t, db.Model(&rentalmodels.Rental{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	var book catalogmodels.Book
	require.NoError(t, db.First(&book, "id = ?", "b1").Error)
	assert.Equal(t, 1, book.AvailableCopies)
}
