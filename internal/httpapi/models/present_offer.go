package models

// PresentOffer is a gift-threshold promotion: buy BooksRequired other books
// and receive the referenced book as a present. Premium-only; at most one
// per expert. The referenced book must be one of the owner's available books.
type PresentOffer struct {
	ExpertID      string  `gorm:"primaryKey;type:uuid" json:"expert_id"`
	BookID        string  `gorm:"type:uuid;not null" json:"book_id"`
	BooksRequired int     `gorm:"not null" json:"books_required"`
	Message       *string `json:"message,omitempty"`
}

func (PresentOffer) TableName() string {
	return "present_offers"
}
