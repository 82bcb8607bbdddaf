package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Roles an account can hold. Only "admin" unlocks the admin panel API.
const (
	RoleAdmin  = "admin"
	RoleExpert = "expert"
	RoleBuyer  = "buyer"
)

const (
	StatusActive   = "active"
	StatusDisabled = "disabled"
)

// SocialLinks are optional outbound profile links, stored as flat columns.
type SocialLinks struct {
	X         string `json:"x,omitempty"`
	Facebook  string `json:"facebook,omitempty"`
	LinkedIn  string `json:"linkedin,omitempty"`
	Instagram string `json:"instagram,omitempty"`
	YouTube   string `json:"youtube,omitempty"`
}

// Expert is a marketplace participant: profile, book inventory, spotlights,
// and at most one want (BookQuery) and one present offer.
type Expert struct {
	ID               string  `gorm:"primaryKey;type:uuid" json:"id"`
	Name             string  `gorm:"not null" json:"name"`
	Email            string  `gorm:"uniqueIndex;not null" json:"email"` // stored lowercase
	Password         string  `gorm:"column:password_hash;not null" json:"-"`
	Role             string  `gorm:"default:'expert';not null" json:"role"`
	Status           string  `gorm:"default:'active';not null" json:"status"`
	SubscriptionTier string  `gorm:"default:'free';not null" json:"subscription_tier"`
	Genre            string  `gorm:"not null" json:"genre"`
	Country          *string `json:"country,omitempty"`
	Bio              string  `json:"bio"`
	AvatarURL        *string `json:"avatar_url,omitempty"`
	// OnLeave is only meaningful for premium accounts (away status feature).
	OnLeave bool `gorm:"default:false" json:"on_leave"`
	// IsExample marks seed/demo records. They are shown in listings but are
	// excluded from persistence-affecting admin operations.
	IsExample   bool        `gorm:"default:false" json:"is_example"`
	SocialLinks SocialLinks `gorm:"embedded;embeddedPrefix:social_" json:"social_links"`

	Books        []Book        `gorm:"foreignKey:ExpertID;constraint:OnDelete:CASCADE" json:"books"`
	Spotlights   []Spotlight   `gorm:"foreignKey:ExpertID;constraint:OnDelete:CASCADE" json:"spotlights"`
	BookQuery    *BookQuery    `gorm:"foreignKey:ExpertID;constraint:OnDelete:CASCADE" json:"book_query,omitempty"`
	PresentOffer *PresentOffer `gorm:"foreignKey:ExpertID;constraint:OnDelete:CASCADE" json:"present_offer,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate hook to set UUID before creating an Expert
func (e *Expert) BeforeCreate(tx *gorm.DB) (err error) {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	return
}

func (Expert) TableName() string {
	return "experts"
}
