package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	BookAvailable = "available"
	BookReserved  = "reserved"
	BookSold      = "sold"
)

// Book belongs to exactly one Expert. The ID is assigned once and stays
// stable across edits; a book dropped from the owner's list is deleted, there
// is no tombstoning.
type Book struct {
	ID        string    `gorm:"primaryKey;type:uuid" json:"id"`
	ExpertID  string    `gorm:"type:uuid;not null;index" json:"expert_id"`
	Title     string    `gorm:"not null" json:"title"`
	Author    string    `gorm:"not null" json:"author"`
	Year      int       `json:"year"`
	Status    string    `gorm:"default:'available';not null" json:"status"`
	Price     *float64  `json:"price,omitempty"`
	Currency  *string   `json:"currency,omitempty"`
	ImageURL  *string   `json:"image_url,omitempty"`
	Condition *string   `json:"condition,omitempty"`
	ISBN      *string   `json:"isbn,omitempty"`
	AddedAt   time.Time `json:"added_at"` // default freshness ordering key
}

func (b *Book) BeforeCreate(tx *gorm.DB) (err error) {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	if b.AddedAt.IsZero() {
		b.AddedAt = time.Now()
	}
	return
}

func (Book) TableName() string {
	return "books"
}
