package models

import "time"

// Book is the authoritative inventory record for a title.
// availableCopies is mutated only by rental create/return and offline sync;
// the invariant 0 <= availableCopies <= totalCopies is enforced by guarded
// updates in those paths.
type Book struct {
	ID              string  `gorm:"type:varchar(36);primaryKey"`
	Title           string  `gorm:"size:255;not null"`
	Author          string  `gorm:"size:255;not null"`
	Description     *string `gorm:"type:text"`
	CoverImage      *string `gorm:"size:512"`
	ISBN            string  `gorm:"size:20;uniqueIndex;not null"`
	PublishedDate   *time.Time
	Genre           *string `gorm:"size:100"`
	TotalCopies     int     `gorm:"not null"`
	AvailableCopies int     `gorm:"not null"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (Book) TableName() string { return "books" }

// BookView is the API shape of a book: optional fields stay nil and serialize
// to null, timestamps become RFC 3339 strings. This is the single
// store-to-API boundary for books; resolvers never convert fields ad hoc.
type BookView struct {
	ID              string  `json:"id"`
	Title           string  `json:"title"`
	Author          string  `json:"author"`
	Description     *string `json:"description"`
	CoverImage      *string `json:"coverImage"`
	ISBN            string  `json:"isbn"`
	PublishedDate   *string `json:"publishedDate"`
	Genre           *string `json:"genre"`
	TotalCopies     int     `json:"totalCopies"`
	AvailableCopies int     `json:"availableCopies"`
	CreatedAt       string  `json:"createdAt"`
	UpdatedAt       string  `json:"updatedAt"`
}

// View converts the store record to its API shape.
func (b *Book) View() *BookView {
	var published *string
	if b.PublishedDate != nil {
		s := b.PublishedDate.Format(time.RFC3339)
		published = &s
	}
	return &BookView{
		ID:              b.ID,
		Title:           b.Title,
		Author:          b.Author,
		Description:     b.Description,
		CoverImage:      b.CoverImage,
		ISBN:            b.ISBN,
		PublishedDate:   published,
		Genre:           b.Genre,
		TotalCopies:     b.TotalCopies,
		AvailableCopies: b.AvailableCopies,
		CreatedAt:       b.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       b.UpdatedAt.Format(time.RFC3339),
	}
}

// BookEdge pairs a book with its opaque cursor.
type BookEdge struct {
	Node   *BookView `json:"node"`
	Cursor string    `json:"cursor"`
}

// PageInfo describes the position of a page within the catalog.
type PageInfo struct {
	HasNextPage     bool    `json:"hasNextPage"`
	HasPreviousPage bool    `json:"hasPreviousPage"`
	StartCursor     *string `json:"startCursor"`
	EndCursor       *string `json:"endCursor"`
}

// BookConnection is one cached page of the catalog.
type BookConnection struct {
	Edges      []BookEdge `json:"edges"`
	PageInfo   PageInfo   `json:"pageInfo"`
	TotalCount int        `json:"totalCount"`
}
