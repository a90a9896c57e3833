package catalog

import (
	"github.com/gofiber/fiber/v2"
)

// Feature wires the catalog's HTTP routes into the feature loader.
type Feature struct {
	handler *Handler
}

// NewFeature creates the catalog feature.
func NewFeature(service *Service) *Feature {
	return &Feature{handler: NewHandler(service)}
}

func (f *Feature) Name() string { return "catalog" }

func (f *Feature) IsEnabled() bool { return true }

func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
