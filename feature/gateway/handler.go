package gateway

import (
	"library-rental/core/logger"
	"library-rental/core/middleware/auth"
	"library-rental/feature/account"

	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"
	"go.uber.org/zap"
)

// request is the standard GraphQL HTTP request envelope.
type request struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

// Handler serves the GraphQL endpoint.
type Handler struct {
	schema   graphql.Schema
	accounts *account.Service
	logger   *zap.Logger
}

// NewHandler creates a new GraphQL HTTP handler.
func NewHandler(schema graphql.Schema, accounts *account.Service, log *zap.Logger) *Handler {
	return &Handler{schema: schema, accounts: accounts, logger: log}
}

// RegisterRoutes registers the GraphQL endpoint.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/api")
	group.Post("/graphql", h.HandleGraphQL)
	group.Get("/graphql", h.HandleGraphQL)
}

// HandleGraphQL executes one GraphQL request. The verified identity from the
// auth middleware is mirrored into the store and attached to the resolver
// context; requests without identity run unauthenticated and individual
// resolvers enforce their own requirements.
func (h *Handler) HandleGraphQL(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	var req request
	if c.Method() == fiber.MethodGet {
		req.Query = c.Query("query")
		req.OperationName = c.Query("operationName")
	} else if err := json.Unmarshal(c.Body(), &req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"errors": []fiber.Map{{"message": "invalid request body"}},
		})
	}

	ctx := c.UserContext()
	if identity, ok := auth.FromContext(c); ok {
		user, err := h.accounts.Ensure(ctx, identity)
		if err != nil {
			// Proceed unauthenticated; the store hiccup is ours, not the
			// caller's token.
			l.Warn("Failed to mirror identity", zap.String("user_id", identity.ID), zap.Error(err))
		} else {
			ctx = account.WithUser(ctx, user)
		}
	}

	result := graphql.Do(graphql.Params{
		Schema:         h.schema,
		RequestString:  req.Query,
		VariableValues: req.Variables,
		OperationName:  req.OperationName,
		Context:        ctx,
	})

	if len(result.Errors) > 0 {
		l.Info("GraphQL request completed with errors",
			zap.String("operation", req.OperationName),
			zap.Int("error_count", len(result.Errors)))
	}

	return c.JSON(result)
}
