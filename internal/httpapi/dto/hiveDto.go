package dto

import "bookdocker/internal/httpapi/models"

// Buzz is one want displayed in the Title Hive: the searcher and what they
// are looking for.
type Buzz struct {
	ExpertID   string           `json:"expert_id"`
	ExpertName string           `json:"expert_name"`
	Genre      string           `json:"genre"`
	Country    *string          `json:"country,omitempty"`
	Want       models.BookQuery `json:"want"`
}

// HiveResponse wraps the Title Hive listing.
type HiveResponse struct {
	Buzzes []Buzz `json:"buzzes"`
	Total  int    `json:"total"`
}
