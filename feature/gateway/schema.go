package gateway

import (
	"context"

	"library-rental/core/errs"
	"library-rental/feature/account"
	accountmodels "library-rental/feature/account/models"
	"library-rental/feature/catalog"
	"library-rental/feature/favorite"
	"library-rental/feature/rental"
	"library-rental/feature/sync"

	"github.com/graphql-go/graphql"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Services bundles the feature services the resolvers dispatch to.
type Services struct {
	Accounts  *account.Service
	Catalog   *catalog.Service
	Rentals   *rental.Service
	Favorites *favorite.Service
	Sync      *sync.Service
}

// NewSchema builds the GraphQL schema over the feature services.
func NewSchema(s *Services) (graphql.Schema, error) {
	userType := graphql.NewObject(graphql.ObjectConfig{
		Name: "User",
		Fields: graphql.Fields{
			"id":        &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"email":     &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"name":      &graphql.Field{Type: graphql.String},
			"photoURL":  &graphql.Field{Type: graphql.String},
			"createdAt": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"updatedAt": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		},
	})

	bookType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Book",
		Fields: graphql.Fields{
			"id":              &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"title":           &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"author":          &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"description":     &graphql.Field{Type: graphql.String},
			"coverImage":      &graphql.Field{Type: graphql.String},
			"isbn":            &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"publishedDate":   &graphql.Field{Type: graphql.String},
			"genre":           &graphql.Field{Type: graphql.String},
			"totalCopies":     &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"availableCopies": &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"createdAt":       &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"updatedAt":       &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		},
	})

	rentalType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Rental",
		Fields: graphql.Fields{
			"id":         &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"userId":     &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"bookId":     &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"rentedAt":   &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"dueDate":    &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"returnedAt": &graphql.Field{Type: graphql.String},
			"user":       &graphql.Field{Type: graphql.NewNonNull(userType)},
			"book":       &graphql.Field{Type: graphql.NewNonNull(bookType)},
		},
	})

	favoriteType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Favorite",
		Fields: graphql.Fields{
			"id":        &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"userId":    &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"bookId":    &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"createdAt": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"book":      &graphql.Field{Type: graphql.NewNonNull(bookType)},
		},
	})

	pageInfoType := graphql.NewObject(graphql.ObjectConfig{
		Name: "PageInfo",
		Fields: graphql.Fields{
			"hasNextPage":     &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean)},
			"hasPreviousPage": &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean)},
			"startCursor":     &graphql.Field{Type: graphql.String},
			"endCursor":       &graphql.Field{Type: graphql.String},
		},
	})

	bookEdgeType := graphql.NewObject(graphql.ObjectConfig{
		Name: "BookEdge",
		Fields: graphql.Fields{
			"node":   &graphql.Field{Type: graphql.NewNonNull(bookType)},
			"cursor": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		},
	})

	bookConnectionType := graphql.NewObject(graphql.ObjectConfig{
		Name: "BookConnection",
		Fields: graphql.Fields{
			"edges":      &graphql.Field{Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(bookEdgeType)))},
			"pageInfo":   &graphql.Field{Type: graphql.NewNonNull(pageInfoType)},
			"totalCount": &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		},
	})

	syncPayloadType := graphql.NewObject(graphql.ObjectConfig{
		Name: "SyncPayload",
		Fields: graphql.Fields{
			"success": &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean)},
			"message": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		},
	})

	rentalInputType := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "RentalInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"id":         &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.ID)},
			"bookId":     &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.ID)},
			"rentedAt":   &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"dueDate":    &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"returnedAt": &graphql.InputObjectFieldConfig{Type: graphql.String},
		},
	})

	favoriteInputType := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "FavoriteInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"id":        &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.ID)},
			"bookId":    &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.ID)},
			"createdAt": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"me": &graphql.Field{
				Type: userType,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					user, err := requireUser(p.Context)
					if err != nil {
						return nil, wrapErr(err)
					}
					view, err := s.Accounts.Me(p.Context, user.ID)
					return view, wrapErr(err)
				},
			},
			"books": &graphql.Field{
				Type: graphql.NewNonNull(bookConnectionType),
				Args: graphql.FieldConfigArgument{
					"first": &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: catalog.DefaultPageSize},
					"after": &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					first, _ := p.Args["first"].(int)
					after, _ := p.Args["after"].(string)
					conn, err := s.Catalog.ListBooks(p.Context, first, after)
					return conn, wrapErr(err)
				},
			},
			"book": &graphql.Field{
				Type: bookType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, _ := p.Args["id"].(string)
					view, err := s.Catalog.GetBook(p.Context, id)
					return view, wrapErr(err)
				},
			},
			"myRentals": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(rentalType))),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					user, err := requireUser(p.Context)
					if err != nil {
						return nil, wrapErr(err)
					}
					views, err := s.Rentals.MyRentals(p.Context, user.ID)
					return views, wrapErr(err)
				},
			},
			"overdueRentals": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(rentalType))),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					user, err := requireUser(p.Context)
					if err != nil {
						return nil, wrapErr(err)
					}
					views, err := s.Rentals.OverdueRentals(p.Context, user.ID)
					return views, wrapErr(err)
				},
			},
			"myFavorites": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(favoriteType))),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					user, err := requireUser(p.Context)
					if err != nil {
						return nil, wrapErr(err)
					}
					views, err := s.Favorites.List(p.Context, user.ID)
					return views, wrapErr(err)
				},
			},
		},
	})

	mutationType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"rentBook": &graphql.Field{
				Type: graphql.NewNonNull(rentalType),
				Args: graphql.FieldConfigArgument{
					"bookId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					user, err := requireUser(p.Context)
					if err != nil {
						return nil, wrapErr(err)
					}
					bookID, _ := p.Args["bookId"].(string)
					view, err := s.Rentals.Rent(p.Context, user.ID, bookID)
					return view, wrapErr(err)
				},
			},
			"returnBook": &graphql.Field{
				Type: graphql.NewNonNull(rentalType),
				Args: graphql.FieldConfigArgument{
					"rentalId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					user, err := requireUser(p.Context)
					if err != nil {
						return nil, wrapErr(err)
					}
					rentalID, _ := p.Args["rentalId"].(string)
					view, err := s.Rentals.Return(p.Context, user.ID, rentalID)
					return view, wrapErr(err)
				},
			},
			"addFavorite": &graphql.Field{
				Type: graphql.NewNonNull(favoriteType),
				Args: graphql.FieldConfigArgument{
					"bookId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					user, err := requireUser(p.Context)
					if err != nil {
						return nil, wrapErr(err)
					}
					bookID, _ := p.Args["bookId"].(string)
					view, err := s.Favorites.Add(p.Context, user.ID, bookID)
					return view, wrapErr(err)
				},
			},
			"removeFavorite": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Boolean),
				Args: graphql.FieldConfigArgument{
					"favoriteId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					user, err := requireUser(p.Context)
					if err != nil {
						return nil, wrapErr(err)
					}
					favoriteID, _ := p.Args["favoriteId"].(string)
					if err := s.Favorites.Remove(p.Context, user.ID, favoriteID); err != nil {
						return nil, wrapErr(err)
					}
					return true, nil
				},
			},
			"syncOfflineData": &graphql.Field{
				Type: graphql.NewNonNull(syncPayloadType),
				Args: graphql.FieldConfigArgument{
					"rentals":   &graphql.ArgumentConfig{Type: graphql.NewList(graphql.NewNonNull(rentalInputType))},
					"favorites": &graphql.ArgumentConfig{Type: graphql.NewList(graphql.NewNonNull(favoriteInputType))},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					user, err := requireUser(p.Context)
					if err != nil {
						return nil, wrapErr(err)
					}

					var rentals []sync.RentalRecord
					if err := decodeArg(p.Args["rentals"], &rentals); err != nil {
						return nil, wrapErr(err)
					}
					var favorites []sync.FavoriteRecord
					if err := decodeArg(p.Args["favorites"], &favorites); err != nil {
						return nil, wrapErr(err)
					}

					result, err := s.Sync.Apply(p.Context, user.ID, rentals, favorites)
					return result, wrapErr(err)
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    queryType,
		Mutation: mutationType,
	})
}

// requireUser returns the authenticated user or ErrAuthRequired.
func requireUser(ctx context.Context) (*accountmodels.User, error) {
	user, ok := account.UserFrom(ctx)
	if !ok {
		return nil, errs.ErrAuthRequired
	}
	return user, nil
}

// decodeArg converts a GraphQL input value (maps and slices) into a typed
// record via a JSON round trip. Nil inputs decode to empty.
func decodeArg(arg interface{}, out interface{}) error {
	if arg == nil {
		return nil
	}
	data, err := json.Marshal(arg)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}
