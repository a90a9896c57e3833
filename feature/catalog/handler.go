package catalog

import (
	"bytes"
	"errors"

	"library-rental/core/errs"
	"library-rental/core/logger"
	"library-rental/core/middleware/auth"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles the cover image HTTP routes. The rest of the catalog is
// served through the GraphQL gateway.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the cover routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/books")
	group.Get("/:id/cover", h.HandleGetCover)
	group.Put("/:id/cover", h.HandleUploadCover)
}

// HandleGetCover streams the cover image for a book.
func (h *Handler) HandleGetCover(c *fiber.Ctx) error {
	id := c.Params("id")
	l := logger.WithRayID(h.service.logger, c)

	rc, err := h.service.GetCover(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		l.Error("Cover read failed", zap.String("book_id", id), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	defer rc.Close()

	return c.SendStream(rc)
}

// HandleUploadCover stores a new cover image for a book.
func (h *Handler) HandleUploadCover(c *fiber.Ctx) error {
	id := c.Params("id")
	l := logger.WithRayID(h.service.logger, c)

	if _, ok := auth.FromContext(c); !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": errs.ErrAuthRequired.Error()})
	}

	body := c.Body()
	if len(body) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "empty request body"})
	}

	contentType := c.Get(fiber.HeaderContentType)
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	view, err := h.service.UploadCover(c.UserContext(), id, bytes.NewReader(body), int64(len(body)), contentType)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		l.Error("Cover upload failed", zap.String("book_id", id), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(view)
}
