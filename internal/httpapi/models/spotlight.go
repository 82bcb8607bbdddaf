package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SpotlightContentMax bounds the free-text content of a spotlight entry.
const SpotlightContentMax = 2000

// Spotlight is a short editorial entry on an expert's profile, optionally
// featuring one of the owner's books and an audio attachment.
type Spotlight struct {
	ID             string  `gorm:"primaryKey;type:uuid" json:"id"`
	ExpertID       string  `gorm:"type:uuid;not null;index" json:"expert_id"`
	Title          string  `gorm:"not null" json:"title"`
	Content        string  `gorm:"not null" json:"content"`
	FeaturedBookID *string `gorm:"type:uuid" json:"featured_book_id,omitempty"`
	AudioURL       *string `json:"audio_url,omitempty"`
	Position       int     `gorm:"default:0" json:"position"`
}

func (s *Spotlight) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	return
}

func (Spotlight) TableName() string {
	return "spotlights"
}
