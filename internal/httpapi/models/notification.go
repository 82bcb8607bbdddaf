package models

import "time"

const NotificationTitleHiveMatch = "TITLE_HIVE_MATCH"

// Notification is an in-app record of an alert sent to an expert. For Title
// Hive matches it references the seller so the UI can deep-link back to the
// seller's profile.
type Notification struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ExpertID   string    `gorm:"type:uuid;not null;index" json:"expert_id"`
	Type       string    `gorm:"not null" json:"type"`
	BookTitle  string    `json:"book_title"`
	BookAuthor string    `json:"book_author"`
	SellerID   string    `gorm:"type:uuid" json:"seller_id"`
	SellerName string    `json:"seller_name"`
	Message    string    `json:"message"`
	Read       bool      `gorm:"default:false" json:"read"`
	CreatedAt  time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`

	// Associations
	Expert *Expert `gorm:"foreignKey:ExpertID" json:"expert,omitempty"`
}

func (Notification) TableName() string {
	return "notifications"
}
