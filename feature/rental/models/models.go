package models

import (
	"time"

	accountmodels "library-rental/feature/account/models"
	catalogmodels "library-rental/feature/catalog/models"
)

// Rental records one borrowing of one book copy. A rental with ReturnedAt nil
// is open and accounts for exactly one decrement of the book's available
// copies. IDs may be assigned by the server (online path) or by the client
// (offline sync path).
type Rental struct {
	ID         string    `gorm:"type:varchar(36);primaryKey"`
	UserID     string    `gorm:"type:varchar(36);index;not null"`
	BookID     string    `gorm:"type:varchar(36);index;not null"`
	RentedAt   time.Time `gorm:"not null"`
	DueDate    time.Time `gorm:"not null"`
	ReturnedAt *time.Time

	User accountmodels.User `gorm:"foreignKey:UserID"`
	Book catalogmodels.Book `gorm:"foreignKey:BookID"`
}

func (Rental) TableName() string { return "rentals" }

// Open reports whether the rental has not been returned yet.
func (r *Rental) Open() bool { return r.ReturnedAt == nil }

// RentalView is the API shape of a rental.
type RentalView struct {
	ID         string                    `json:"id"`
	UserID     string                    `json:"userId"`
	BookID     string                    `json:"bookId"`
	RentedAt   string                    `json:"rentedAt"`
	DueDate    string                    `json:"dueDate"`
	ReturnedAt *string                   `json:"returnedAt"`
	User       *accountmodels.UserView   `json:"user"`
	Book       *catalogmodels.BookView   `json:"book"`
}

// View converts the store record to its API shape. Associations must be
// preloaded; zero-valued associations yield nil views.
func (r *Rental) View() *RentalView {
	var returned *string
	if r.ReturnedAt != nil {
		s := r.ReturnedAt.Format(time.RFC3339)
		returned = &s
	}

	view := &RentalView{
		ID:         r.ID,
		UserID:     r.UserID,
		BookID:     r.BookID,
		RentedAt:   r.RentedAt.Format(time.RFC3339),
		DueDate:    r.DueDate.Format(time.RFC3339),
		ReturnedAt: returned,
	}
	if r.User.ID != "" {
		view.User = r.User.View()
	}
	if r.Book.ID != "" {
		view.Book = r.Book.View()
	}
	return view
}
