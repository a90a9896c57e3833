package models

import (
	"time"

	catalogmodels "library-rental/feature/catalog/models"
)

// Favorite marks a book as favorited by a user. The (UserID, BookID) pair is
// unique; duplicates are rejected before insert and backstopped by the index.
type Favorite struct {
	ID        string    `gorm:"type:varchar(36);primaryKey"`
	UserID    string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_favorites_user_book"`
	BookID    string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_favorites_user_book"`
	CreatedAt time.Time `gorm:"not null"`

	Book catalogmodels.Book `gorm:"foreignKey:BookID"`
}

func (Favorite) TableName() string { return "favorites" }

// FavoriteView is the API shape of a favorite.
type FavoriteView struct {
	ID        string                  `json:"id"`
	UserID    string                  `json:"userId"`
	BookID    string                  `json:"bookId"`
	CreatedAt string                  `json:"createdAt"`
	Book      *catalogmodels.BookView `json:"book"`
}

// View converts the store record to its API shape.
func (f *Favorite) View() *FavoriteView {
	view := &FavoriteView{
		ID:        f.ID,
		UserID:    f.UserID,
		BookID:    f.BookID,
		CreatedAt: f.CreatedAt.Format(time.RFC3339),
	}
	if f.Book.ID != "" {
		view.Book = f.Book.View()
	}
	return view
}
