package sync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"library-rental/core/cache"
	"library-rental/core/errs"
	catalogmodels "library-rental/feature/catalog/models"
	favoritemodels "library-rental/feature/favorite/models"
	rentalmodels "library-rental/feature/rental/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RentalRecord is a client-originated rental with a client-generated id and
// client timestamps (RFC 3339).
type RentalRecord struct {
	ID         string  `json:"id"`
	BookID     string  `json:"bookId"`
	RentedAt   string  `json:"rentedAt"`
	DueDate    string  `json:"dueDate"`
	ReturnedAt *string `json:"returnedAt"`
}

// FavoriteRecord is a client-originated favorite.
type FavoriteRecord struct {
	ID        string `json:"id"`
	BookID    string `json:"bookId"`
	CreatedAt string `json:"createdAt"`
}

// Result is the batch summary returned to the client. Per-record outcomes are
// deliberately not reported.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// Service merges client-originated records into the inventory store.
//
// Batch policy: records are processed sequentially and the first failure
// aborts the remainder, leaving earlier merges committed. The client retries
// the whole batch on the next connectivity signal; every merge is idempotent,
// so replaying already-applied records is harmless.
type Service struct {
	db     *gorm.DB
	cache  cache.Store
	logger *zap.Logger
}

// NewService creates a new sync service.
func NewService(db *gorm.DB, cacheStore cache.Store, logger *zap.Logger) *Service {
	return &Service{db: db, cache: cacheStore, logger: logger}
}

// Apply merges the batch for the authenticated user, keyed by the
// client-supplied record ids.
func (s *Service) Apply(ctx context.Context, userID string, rentals []RentalRecord, favorites []FavoriteRecord) (*Result, error) {
	for i := range rentals {
		if err := s.mergeRental(ctx, userID, &rentals[i]); err != nil {
			return nil, fmt.Errorf("rental %s: %w", rentals[i].ID, err)
		}
	}
	for i := range favorites {
		if err := s.mergeFavorite(ctx, userID, &favorites[i]); err != nil {
			return nil, fmt.Errorf("favorite %s: %w", favorites[i].ID, err)
		}
	}
	return &Result{Success: true, Message: "offline data synced"}, nil
}

// mergeRental applies one rental record in its own transaction.
//
// Unknown id: insert verbatim, trusting client timestamps; if the record is
// an open rental, decrement the book's available copies with the same
// availability guard as the online path.
//
// Known id: last write wins on returnedAt. The increment side effect fires
// only on the open-to-closed transition, which is what makes replaying the
// same batch idempotent with respect to copy counts.
func (s *Service) mergeRental(ctx context.Context, userID string, rec *RentalRecord) error {
	rentedAt, err := time.Parse(time.RFC3339, rec.RentedAt)
	if err != nil {
		return fmt.Errorf("invalid rentedAt %q: %w", rec.RentedAt, err)
	}
	dueDate, err := time.Parse(time.RFC3339, rec.DueDate)
	if err != nil {
		return fmt.Errorf("invalid dueDate %q: %w", rec.DueDate, err)
	}
	var returnedAt *time.Time
	if rec.ReturnedAt != nil {
		t, err := time.Parse(time.RFC3339, *rec.ReturnedAt)
		if err != nil {
			return fmt.Errorf("invalid returnedAt %q: %w", *rec.ReturnedAt, err)
		}
		returnedAt = &t
	}

	var touchedBook string
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing rentalmodels.Rental
		ferr := tx.First(&existing, "id = ?", rec.ID).Error

		switch {
		case errors.Is(ferr, gorm.ErrRecordNotFound):
			rental := rentalmodels.Rental{
				ID:         rec.ID,
				UserID:     userID,
				BookID:     rec.BookID,
				RentedAt:   rentedAt,
				DueDate:    dueDate,
				ReturnedAt: returnedAt,
			}
			if err := tx.Create(&rental).Error; err != nil {
				return fmt.Errorf("failed to insert: %w", err)
			}
			if returnedAt == nil {
				// A newly synced open rental claims a copy now.
				res := tx.Model(&catalogmodels.Book{}).
					Where("id = ? AND available_copies > 0", rec.BookID).
					Update("available_copies", gorm.Expr("available_copies - 1"))
				if res.Error != nil {
					return res.Error
				}
				if res.RowsAffected == 0 {
					return fmt.Errorf("book %s: %w", rec.BookID, errs.ErrUnavailable)
				}
				touchedBook = rec.BookID
			}
			return nil

		case ferr != nil:
			return ferr

		default:
			wasOpen := existing.Open()
			res := tx.Model(&rentalmodels.Rental{}).
				Where("id = ?", rec.ID).
				Update("returned_at", returnedAt)
			if res.Error != nil {
				return res.Error
			}
			if wasOpen && returnedAt != nil {
				err := tx.Model(&catalogmodels.Book{}).
					Where("id = ?", existing.BookID).
					Update("available_copies", gorm.Expr("available_copies + 1")).Error
				if err != nil {
					return err
				}
				touchedBook = existing.BookID
			}
			return nil
		}
	})
	if err != nil {
		return err
	}

	if touchedBook != "" {
		if derr := s.cache.Del(ctx, cache.BookKey(touchedBook)); derr != nil {
			s.logger.Warn("Cache invalidation failed, stale entry until TTL",
				zap.String("key", cache.BookKey(touchedBook)), zap.Error(derr))
		}
	}
	return nil
}

// mergeFavorite inserts the favorite if its id is unknown; duplicates are
// silent no-ops with no side effects.
func (s *Service) mergeFavorite(ctx context.Context, userID string, rec *FavoriteRecord) error {
	createdAt, err := time.Parse(time.RFC3339, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("invalid createdAt %q: %w", rec.CreatedAt, err)
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing favoritemodels.Favorite
		ferr := tx.First(&existing, "id = ?", rec.ID).Error
		if ferr == nil {
			return nil
		}
		if !errors.Is(ferr, gorm.ErrRecordNotFound) {
			return ferr
		}

		return tx.Create(&favoritemodels.Favorite{
			ID:        rec.ID,
			UserID:    userID,
			BookID:    rec.BookID,
			CreatedAt: createdAt,
		}).Error
	})
}
