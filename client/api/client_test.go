package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"library-rental/client/outbox"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestDoSendsBearerToken(t *testing.T) {
	var gotAuth string
	var gotBody struct {
		Query     string                 `json:"query"`
		Variables map[string]interface{} `json:"variables"`
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Write([]byte(`{"data":{"rentBook":{"id":"r1"}}}`))
	}))
	defer srv.Close()

	client := New(srv.URL, func(context.Context) (string, error) { return "tok-1", nil }, zap.NewNop())

	var out struct {
		RentBook struct {
			ID string `json:"id"`
		} `json:"rentBook"`
	}
	require.NoError(t, client.Do(context.Background(), "mutation { x }", map[string]interface{}{"bookId": "b1"}, &out))

	assert.Equal(t, "Bearer tok-1", gotAuth)
	assert.Equal(t, "mutation { x }", gotBody.Query)
	assert.Equal(t, "b1", gotBody.Variables["bookId"])
	assert.Equal(t, "r1", out.RentBook.ID)
}

func TestDoReturnsGraphQLError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":null,"errors":[{"message":"book b1: not found","extensions":{"code":"NOT_FOUND"}}]}`))
	}))
	defer srv.Close()

	client := New(srv.URL, nil, zap.NewNop())

	err := client.Do(context.Background(), "{ book }", nil, nil)
	require.Error(t, err)

	var gqlErr *GraphQLError
	require.ErrorAs(t, err, &gqlErr)
	assert.Equal(t, "NOT_FOUND", gqlErr.Code())
}

func TestApplyDispatchesByKind(t *testing.T) {
	var queries []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Query string `json:"query"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		queries = append(queries, body.Query)
		w.Write([]byte(`{"data":{}}`))
	}))
	defer srv.Close()

	client := New(srv.URL, nil, zap.NewNop())

	records := []outbox.Record{
		{Kind: KindRentBook, Arguments: `{"bookId":"b1"}`},
		{Kind: KindReturnBook, Arguments: `{"rentalId":"r1"}`},
		{Kind: KindAddFavorite, Arguments: `{"bookId":"b1"}`},
		{Kind: KindRemoveFavorite, Arguments: `{"favoriteId":"f1"}`},
	}
	for _, rec := range records {
		require.NoError(t, client.Apply(context.Background(), rec))
	}

	require.Len(t, queries, 4)
	assert.Contains(t, queries[0], "rentBook")
	assert.Contains(t, queries[1], "returnBook")
	assert.Contains(t, queries[2], "addFavorite")
	assert.Contains(t, queries[3], "removeFavorite")
}

func TestApplyRejectsUnknownKind(t *testing.T) {
	client := New("http://localhost:0", nil, zap.NewNop())

	err := client.Apply(context.Background(), outbox.Record{Kind: "REINDEX", Arguments: `{}`})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown mutation kind")
}
