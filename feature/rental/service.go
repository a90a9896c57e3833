package rental

import (
	"context"
	"errors"
	"fmt"
	"time"

	"library-rental/core/cache"
	"library-rental/core/errs"
	catalogmodels "library-rental/feature/catalog/models"
	"library-rental/feature/rental/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Period is the default loan duration applied by the server.
const Period = 14 * 24 * time.Hour

// Service applies rental mutations against the inventory store with
// availability and idempotence guarantees.
type Service struct {
	db     *gorm.DB
	cache  cache.Store
	logger *zap.Logger
	now    func() time.Time
}

// NewService creates a new rental service.
func NewService(db *gorm.DB, cacheStore cache.Store, logger *zap.Logger) *Service {
	return &Service{
		db:     db,
		cache:  cacheStore,
		logger: logger,
		now:    time.Now,
	}
}

// Rent creates an open rental for (userID, bookID) and decrements the book's
// available copies in the same transaction. The decrement carries a
// available_copies > 0 guard so concurrent rents for the last copy serialize
// on the row and cannot oversell.
func (s *Service) Rent(ctx context.Context, userID, bookID string) (*models.RentalView, error) {
	rentalID := uuid.NewString()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var book catalogmodels.Book
		if err := tx.First(&book, "id = ?", bookID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("book %s: %w", bookID, errs.ErrNotFound)
			}
			return err
		}
		if book.AvailableCopies <= 0 {
			return fmt.Errorf("book %s: %w", bookID, errs.ErrUnavailable)
		}

		var open int64
		err := tx.Model(&models.Rental{}).
			Where("user_id = ? AND book_id = ? AND returned_at IS NULL", userID, bookID).
			Count(&open).Error
		if err != nil {
			return err
		}
		if open > 0 {
			return fmt.Errorf("book %s: %w", bookID, errs.ErrDuplicateActiveRental)
		}

		now := s.now()
		rental := models.Rental{
			ID:       rentalID,
			UserID:   userID,
			BookID:   bookID,
			RentedAt: now,
			DueDate:  now.Add(Period),
		}
		if err := tx.Create(&rental).Error; err != nil {
			return fmt.Errorf("failed to create rental: %w", err)
		}

		res := tx.Model(&catalogmodels.Book{}).
			Where("id = ? AND available_copies > 0", bookID).
			Update("available_copies", gorm.Expr("available_copies - 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Another transaction took the last copy first.
			return fmt.Errorf("book %s: %w", bookID, errs.ErrUnavailable)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateBook(ctx, bookID)
	return s.loadView(ctx, rentalID)
}

// Return closes the rental and increments the book's available copies in one
// transaction. Only the rental's owner may return it, and a closed rental can
// never be closed again (no double increment on replay).
func (s *Service) Return(ctx context.Context, userID, rentalID string) (*models.RentalView, error) {
	var bookID string

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rental models.Rental
		if err := tx.First(&rental, "id = ?", rentalID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("rental %s: %w", rentalID, errs.ErrNotFound)
			}
			return err
		}
		if rental.UserID != userID {
			return fmt.Errorf("rental %s: %w", rentalID, errs.ErrForbidden)
		}
		if !rental.Open() {
			return fmt.Errorf("rental %s: %w", rentalID, errs.ErrAlreadyReturned)
		}

		now := s.now()
		res := tx.Model(&models.Rental{}).
			Where("id = ? AND returned_at IS NULL", rentalID).
			Update("returned_at", now)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("rental %s: %w", rentalID, errs.ErrAlreadyReturned)
		}

		err := tx.Model(&catalogmodels.Book{}).
			Where("id = ?", rental.BookID).
			Update("available_copies", gorm.Expr("available_copies + 1")).Error
		if err != nil {
			return err
		}
		bookID = rental.BookID
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateBook(ctx, bookID)
	return s.loadView(ctx, rentalID)
}

// MyRentals returns all of the user's rentals, newest first.
func (s *Service) MyRentals(ctx context.Context, userID string) ([]*models.RentalView, error) {
	var rentals []models.Rental
	err := s.db.WithContext(ctx).
		Preload("User").Preload("Book").
		Where("user_id = ?", userID).
		Order("rented_at DESC").
		Find(&rentals).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list rentals: %w", err)
	}
	return views(rentals), nil
}

// OverdueRentals returns the user's open rentals whose due date has passed.
func (s *Service) OverdueRentals(ctx context.Context, userID string) ([]*models.RentalView, error) {
	var rentals []models.Rental
	err := s.db.WithContext(ctx).
		Preload("User").Preload("Book").
		Where("user_id = ? AND due_date < ? AND returned_at IS NULL", userID, s.now()).
		Find(&rentals).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list overdue rentals: %w", err)
	}
	return views(rentals), nil
}

// invalidateBook drops the book's point-read cache entry. Cache failures are
// recovered locally: the entry stays stale until TTL, which is the documented
// trade-off, so the write itself still succeeds.
func (s *Service) invalidateBook(ctx context.Context, bookID string) {
	if bookID == "" {
		return
	}
	if err := s.cache.Del(ctx, cache.BookKey(bookID)); err != nil {
		s.logger.Warn("Cache invalidation failed, stale entry until TTL",
			zap.String("key", cache.BookKey(bookID)), zap.Error(err))
	}
}

func (s *Service) loadView(ctx context.Context, rentalID string) (*models.RentalView, error) {
	var rental models.Rental
	err := s.db.WithContext(ctx).
		Preload("User").Preload("Book").
		First(&rental, "id = ?", rentalID).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load rental %s: %w", rentalID, err)
	}
	return rental.View(), nil
}

func views(rentals []models.Rental) []*models.RentalView {
	out := make([]*models.RentalView, 0, len(rentals))
	for i := range rentals {
		out = append(out, rentals[i].View())
	}
	return out
}
