package account

import (
	"context"
	"errors"
	"fmt"

	"library-rental/core/errs"
	"library-rental/core/middleware/auth"
	"library-rental/feature/account/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Service maintains the user records behind the identity boundary.
type Service struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewService creates a new account service.
func NewService(db *gorm.DB, logger *zap.Logger) *Service {
	return &Service{db: db, logger: logger}
}

// Ensure upserts the store record for a verified identity and returns it.
// Profile fields follow the identity provider on every request.
func (s *Service) Ensure(ctx context.Context, identity *auth.User) (*models.User, error) {
	user := models.User{
		ID:       identity.ID,
		Email:    identity.Email,
		Name:     identity.Name,
		PhotoURL: identity.PhotoURL,
	}

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"email", "name", "photo_url", "updated_at"}),
	}).Create(&user).Error
	if err != nil {
		return nil, fmt.Errorf("failed to upsert user %s: %w", identity.ID, err)
	}
	return &user, nil
}

// Me returns the caller's own user record.
func (s *Service) Me(ctx context.Context, userID string) (*models.UserView, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %s: %w", userID, errs.ErrNotFound)
		}
		return nil, err
	}
	return user.View(), nil
}
