package gateway

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature wires the GraphQL endpoint into the feature loader.
type Feature struct {
	services *Services
	logger   *zap.Logger
}

// NewFeature creates the gateway feature.
func NewFeature(services *Services, logger *zap.Logger) *Feature {
	return &Feature{services: services, logger: logger}
}

func (f *Feature) Name() string { return "gateway" }

func (f *Feature) IsEnabled() bool { return true }

func (f *Feature) Load(app fiber.Router) error {
	schema, err := NewSchema(f.services)
	if err != nil {
		return fmt.Errorf("failed to build schema: %w", err)
	}
	NewHandler(schema, f.services.Accounts, f.logger).RegisterRoutes(app)
	return nil
}