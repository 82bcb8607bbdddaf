package repository

import (
	"context"
	"strings"

	"bookdocker/internal/httpapi/models"

	"gorm.io/gorm"
)

// ExpertFilters narrows the public directory listing.
type ExpertFilters struct {
	Genre  string
	Search string
	Page   int
	Limit  int
}

// ExpertRepository defines the interface for expert data operations.
type ExpertRepository interface {
	Create(ctx context.Context, expert *models.Expert) error
	FindByID(ctx context.Context, id string) (*models.Expert, error)
	FindByEmail(ctx context.Context, email string) (*models.Expert, error)
	List(ctx context.Context, filters ExpertFilters) ([]models.Expert, int64, error)
	ListAll(ctx context.Context) ([]models.Expert, error)
	UpdateFields(ctx context.Context, id string, fields map[string]any) error
	ReplaceBooks(ctx context.Context, expertID string, books []models.Book) error
	ReplaceSpotlights(ctx context.Context, expertID string, spotlights []models.Spotlight) error
	SetBookQuery(ctx context.Context, expertID string, query *models.BookQuery) error
	SetPresentOffer(ctx context.Context, expertID string, offer *models.PresentOffer) error
	UpdateStatus(ctx context.Context, ids []string, status string) error
	DeleteMany(ctx context.Context, ids []string) error
}

// expertRepository is the GORM implementation of ExpertRepository.
type expertRepository struct {
	db *gorm.DB
}

// NewExpertRepository creates a new instance of ExpertRepository in a GORM implementation
func NewExpertRepository(db *gorm.DB) ExpertRepository {
	return &expertRepository{db: db}
}

func (r *expertRepository) Create(ctx context.Context, expert *models.Expert) error {
	return r.db.WithContext(ctx).Create(expert).Error
}

func (r *expertRepository) FindByID(ctx context.Context, id string) (*models.Expert, error) {
	var expert models.Expert
	// return nil on miss so callers never see a zero-value expert
	if err := r.preloaded(ctx).First(&expert, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &expert, nil
}

func (r *expertRepository) FindByEmail(ctx context.Context, email string) (*models.Expert, error) {
	var expert models.Expert
	if err := r.preloaded(ctx).Where("email = ?", strings.ToLower(email)).First(&expert).Error; err != nil {
		return nil, err
	}
	return &expert, nil
}

func (r *expertRepository) List(ctx context.Context, filters ExpertFilters) ([]models.Expert, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Expert{}).Where("role <> ?", models.RoleAdmin)

	if filters.Genre != "" {
		q = q.Where("genre = ?", filters.Genre)
	}
	if filters.Search != "" {
		pattern := "%" + strings.ToLower(filters.Search) + "%"
		q = q.Where(
			`LOWER(name) LIKE ? OR LOWER(bio) LIKE ? OR LOWER(genre) LIKE ?
			 OR EXISTS (SELECT 1 FROM books WHERE books.expert_id = experts.id
			            AND (LOWER(books.title) LIKE ? OR LOWER(books.author) LIKE ?))`,
			pattern, pattern, pattern, pattern, pattern,
		)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filters.Page
	if page < 1 {
		page = 1
	}
	limit := filters.Limit
	if limit < 1 || limit > 100 {
		limit = 20
	}

	var experts []models.Expert
	err := q.
		Preload("Books").Preload("Spotlights").Preload("BookQuery").Preload("PresentOffer").
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&experts).Error
	if err != nil {
		return nil, 0, err
	}
	return experts, total, nil
}

// ListAll returns a fresh snapshot of every expert with associations loaded.
// The alert scan runs against this snapshot, never against cached state.
func (r *expertRepository) ListAll(ctx context.Context) ([]models.Expert, error) {
	var experts []models.Expert
	if err := r.preloaded(ctx).Order("created_at DESC").Find(&experts).Error; err != nil {
		return nil, err
	}
	return experts, nil
}

func (r *expertRepository) UpdateFields(ctx context.Context, id string, fields map[string]any) error {
	return r.db.WithContext(ctx).Model(&models.Expert{}).Where("id = ?", id).Updates(fields).Error
}

// ReplaceBooks swaps the expert's whole book list in one transaction. The UI
// always submits a full replacement, not a patch; IDs already assigned by a
// previous save come back unchanged so they stay stable across edits.
func (r *expertRepository) ReplaceBooks(ctx context.Context, expertID string, books []models.Book) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("expert_id = ?", expertID).Delete(&models.Book{}).Error; err != nil {
			return err
		}
		for i := range books {
			books[i].ExpertID = expertID
		}
		if len(books) > 0 {
			if err := tx.Create(&books).Error; err != nil {
				return err
			}
		}
		return tx.Model(&models.Expert{}).Where("id = ?", expertID).
			Update("updated_at", tx.NowFunc()).Error
	})
}

func (r *expertRepository) ReplaceSpotlights(ctx context.Context, expertID string, spotlights []models.Spotlight) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("expert_id = ?", expertID).Delete(&models.Spotlight{}).Error; err != nil {
			return err
		}
		for i := range spotlights {
			spotlights[i].ExpertID = expertID
			spotlights[i].Position = i
		}
		if len(spotlights) > 0 {
			if err := tx.Create(&spotlights).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// SetBookQuery upserts the expert's want; a nil query clears it (deletion by
// omission on profile save).
func (r *expertRepository) SetBookQuery(ctx context.Context, expertID string, query *models.BookQuery) error {
	if query == nil {
		return r.db.WithContext(ctx).Where("expert_id = ?", expertID).Delete(&models.BookQuery{}).Error
	}
	query.ExpertID = expertID
	return r.db.WithContext(ctx).Save(query).Error
}

func (r *expertRepository) SetPresentOffer(ctx context.Context, expertID string, offer *models.PresentOffer) error {
	if offer == nil {
		return r.db.WithContext(ctx).Where("expert_id = ?", expertID).Delete(&models.PresentOffer{}).Error
	}
	offer.ExpertID = expertID
	return r.db.WithContext(ctx).Save(offer).Error
}

func (r *expertRepository) UpdateStatus(ctx context.Context, ids []string, status string) error {
	return r.db.WithContext(ctx).Model(&models.Expert{}).
		Where("id IN ?", ids).
		Update("status", status).Error
}

func (r *expertRepository) DeleteMany(ctx context.Context, ids []string) error {
	return r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&models.Expert{}).Error
}

func (r *expertRepository) preloaded(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Books", func(db *gorm.DB) *gorm.DB { return db.Order("books.added_at DESC") }).
		Preload("Spotlights", func(db *gorm.DB) *gorm.DB { return db.Order("spotlights.position ASC") }).
		Preload("BookQuery").
		Preload("PresentOffer")
}
