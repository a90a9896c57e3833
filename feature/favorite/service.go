package favorite

import (
	"context"
	"errors"
	"fmt"

	"library-rental/core/errs"
	catalogmodels "library-rental/feature/catalog/models"
	"library-rental/feature/favorite/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service manages per-user favorites. Favorites are not cached, so there is
// no cache interaction on any of these paths.
type Service struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewService creates a new favorite service.
func NewService(db *gorm.DB, logger *zap.Logger) *Service {
	return &Service{db: db, logger: logger}
}

// Add favorites a book for the user. The (user, book) pair is unique.
func (s *Service) Add(ctx context.Context, userID, bookID string) (*models.FavoriteView, error) {
	favoriteID := uuid.NewString()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var book catalogmodels.Book
		if err := tx.First(&book, "id = ?", bookID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("book %s: %w", bookID, errs.ErrNotFound)
			}
			return err
		}

		var existing int64
		err := tx.Model(&models.Favorite{}).
			Where("user_id = ? AND book_id = ?", userID, bookID).
			Count(&existing).Error
		if err != nil {
			return err
		}
		if existing > 0 {
			return fmt.Errorf("book %s: %w", bookID, errs.ErrAlreadyFavorited)
		}

		return tx.Create(&models.Favorite{
			ID:     favoriteID,
			UserID: userID,
			BookID: bookID,
		}).Error
	})
	if err != nil {
		return nil, err
	}

	var favorite models.Favorite
	if err := s.db.WithContext(ctx).Preload("Book").First(&favorite, "id = ?", favoriteID).Error; err != nil {
		return nil, fmt.Errorf("failed to load favorite %s: %w", favoriteID, err)
	}
	return favorite.View(), nil
}

// Remove deletes the favorite. Only its owner may remove it.
func (s *Service) Remove(ctx context.Context, userID, favoriteID string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var favorite models.Favorite
		if err := tx.First(&favorite, "id = ?", favoriteID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("favorite %s: %w", favoriteID, errs.ErrNotFound)
			}
			return err
		}
		if favorite.UserID != userID {
			return fmt.Errorf("favorite %s: %w", favoriteID, errs.ErrForbidden)
		}
		return tx.Delete(&favorite).Error
	})
}

// List returns the user's favorites, newest first.
func (s *Service) List(ctx context.Context, userID string) ([]*models.FavoriteView, error) {
	var favorites []models.Favorite
	err := s.db.WithContext(ctx).
		Preload("Book").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&favorites).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}

	out := make([]*models.FavoriteView, 0, len(favorites))
	for i := range favorites {
		out = append(out, favorites[i].View())
	}
	return out, nil
}
