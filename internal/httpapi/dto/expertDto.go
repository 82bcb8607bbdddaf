package dto

import (
	"time"

	"bookdocker/internal/httpapi/models"
)

// BookPayload is one book row in a full-list replacement. A missing ID means
// the book is new; IDs assigned by a previous save must be sent back
// unchanged so they stay stable across edits.
type BookPayload struct {
	ID        string     `json:"id"`
	Title     string     `json:"title" binding:"required"`
	Author    string     `json:"author" binding:"required"`
	Year      int        `json:"year"`
	Status    string     `json:"status" binding:"omitempty,oneof=available reserved sold"`
	Price     *float64   `json:"price,omitempty"`
	Currency  *string    `json:"currency,omitempty"`
	ImageURL  *string    `json:"image_url,omitempty"`
	Condition *string    `json:"condition,omitempty"`
	ISBN      *string    `json:"isbn,omitempty"`
	AddedAt   *time.Time `json:"added_at,omitempty"`
}

// ReplaceBooksRequest replaces the expert's whole inventory.
type ReplaceBooksRequest struct {
	Books []BookPayload `json:"books" binding:"dive"`
}

func (r ReplaceBooksRequest) ToModels() []models.Book {
	books := make([]models.Book, 0, len(r.Books))
	for _, p := range r.Books {
		status := p.Status
		if status == "" {
			status = models.BookAvailable
		}
		book := models.Book{
			ID:        p.ID,
			Title:     p.Title,
			Author:    p.Author,
			Year:      p.Year,
			Status:    status,
			Price:     p.Price,
			Currency:  p.Currency,
			ImageURL:  p.ImageURL,
			Condition: p.Condition,
			ISBN:      p.ISBN,
		}
		if p.AddedAt != nil {
			book.AddedAt = *p.AddedAt
		}
		books = append(books, book)
	}
	return books
}

type SpotlightPayload struct {
	ID             string  `json:"id"`
	Title          string  `json:"title" binding:"required"`
	Content        string  `json:"content" binding:"required"`
	FeaturedBookID *string `json:"featured_book_id,omitempty"`
	AudioURL       *string `json:"audio_url,omitempty"`
}

type ReplaceSpotlightsRequest struct {
	Spotlights []SpotlightPayload `json:"spotlights" binding:"dive"`
}

func (r ReplaceSpotlightsRequest) ToModels() []models.Spotlight {
	spotlights := make([]models.Spotlight, 0, len(r.Spotlights))
	for _, p := range r.Spotlights {
		spotlights = append(spotlights, models.Spotlight{
			ID:             p.ID,
			Title:          p.Title,
			Content:        p.Content,
			FeaturedBookID: p.FeaturedBookID,
			AudioURL:       p.AudioURL,
		})
	}
	return spotlights
}

type BookQueryPayload struct {
	Title     string  `json:"title" binding:"required"`
	Author    string  `json:"author" binding:"required"`
	Publisher *string `json:"publisher,omitempty"`
	Edition   *string `json:"edition,omitempty"`
	Year      *int    `json:"year,omitempty"`
}

type PresentOfferPayload struct {
	BookID        string  `json:"book_id" binding:"required"`
	BooksRequired int     `json:"books_required" binding:"required,min=1"`
	Message       *string `json:"message,omitempty"`
}

// UpdateProfileRequest is a whole-profile save. BookQuery and PresentOffer
// follow replace-by-inclusion semantics: omitting them clears the stored
// record.
type UpdateProfileRequest struct {
	Name         string               `json:"name" binding:"required"`
	Genre        string               `json:"genre" binding:"required"`
	Bio          string               `json:"bio"`
	Country      *string              `json:"country,omitempty"`
	AvatarURL    *string              `json:"avatar_url,omitempty"`
	OnLeave      bool                 `json:"on_leave"`
	SocialLinks  models.SocialLinks   `json:"social_links"`
	BookQuery    *BookQueryPayload    `json:"book_query,omitempty"`
	PresentOffer *PresentOfferPayload `json:"present_offer,omitempty"`
}

// ExpertListResponse wraps a paginated directory listing.
type ExpertListResponse struct {
	Experts []models.Expert `json:"experts"`
	Total   int64           `json:"total"`
	Page    int             `json:"page"`
	Limit   int             `json:"limit"`
}

// GenerateBioRequest asks the AI collaborator for a profile biography.
type GenerateBioRequest struct {
	Name  string `json:"name" binding:"required"`
	Genre string `json:"genre" binding:"required"`
}
