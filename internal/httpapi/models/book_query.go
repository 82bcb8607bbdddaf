package models

import "errors"

var ErrIncompleteWant = errors.New("a want needs both title and author")

// BookQuery is the "want" an expert registers: a demand signal for a book
// they are trying to acquire. At most one per expert; replaced wholly on
// profile save and deleted by omission. Only premium wants participate in
// Title Hive alerting, but the record itself carries no tier information.
type BookQuery struct {
	ExpertID  string  `gorm:"primaryKey;type:uuid" json:"expert_id"`
	Title     string  `gorm:"not null" json:"title"`
	Author    string  `gorm:"not null" json:"author"`
	Publisher *string `json:"publisher,omitempty"`
	Edition   *string `json:"edition,omitempty"`
	Year      *int    `json:"year,omitempty"`
}

// NewBookQuery enforces the "both title and author present" invariant.
func NewBookQuery(expertID, title, author string) (*BookQuery, error) {
	if title == "" || author == "" {
		return nil, ErrIncompleteWant
	}
	return &BookQuery{ExpertID: expertID, Title: title, Author: author}, nil
}

func (BookQuery) TableName() string {
	return "book_queries"
}
