package service

import (
	"context"
	"errors"
	"log/slog"

	"bookdocker/internal/entitlement"
	"bookdocker/internal/httpapi/models"
	"bookdocker/internal/httpapi/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrExpertNotFound         = errors.New("expert not found")
	ErrBookLimitExceeded      = errors.New("book limit for your subscription tier exceeded")
	ErrSpotlightLimitExceeded = errors.New("spotlight limit for your subscription tier exceeded")
	ErrSpotlightTooLong       = errors.New("spotlight content is too long")
	ErrFeaturedBookNotOwned   = errors.New("featured book does not belong to this expert")
	ErrOfferRequiresPremium   = errors.New("special offers require a premium subscription")
	ErrAwayRequiresPremium    = errors.New("away status requires a premium subscription")
	ErrOfferBookUnavailable   = errors.New("offer must reference one of your available books")
)

// ProfileUpdate is a whole-profile save. Want and Offer are
// replace-by-inclusion: nil clears the stored record.
type ProfileUpdate struct {
	Name        string
	Genre       string
	Bio         string
	Country     *string
	AvatarURL   *string
	OnLeave     bool
	SocialLinks models.SocialLinks
	Want        *models.BookQuery
	Offer       *models.PresentOffer
}

// HiveInvalidator drops the cached Title Hive listing after a want changes.
type HiveInvalidator interface {
	Invalidate(ctx context.Context)
}

// BioGenerator is the AI collaborator used for profile bio drafts.
type BioGenerator interface {
	GenerateBio(ctx context.Context, name, genre string) (string, error)
}

type ExpertService interface {
	List(ctx context.Context, filters repository.ExpertFilters) ([]models.Expert, int64, error)
	GetByID(ctx context.Context, id string) (*models.Expert, error)
	UpdateProfile(ctx context.Context, expertID string, update ProfileUpdate) (*models.Expert, error)
	ReplaceBooks(ctx context.Context, expertID string, books []models.Book) (*models.Expert, error)
	ReplaceSpotlights(ctx context.Context, expertID string, spotlights []models.Spotlight) (*models.Expert, error)
	UpgradeToPremium(ctx context.Context, expertID string) error
	GenerateBio(ctx context.Context, name, genre string) (string, error)
}

type expertService struct {
	expertRepo repository.ExpertRepository
	alerts     AlertService
	hive       HiveInvalidator
	bio        BioGenerator
	logger     *slog.Logger
}

func NewExpertService(
	expertRepo repository.ExpertRepository,
	alerts AlertService,
	hive HiveInvalidator,
	bio BioGenerator,
	logger *slog.Logger,
) ExpertService {
	return &expertService{
		expertRepo: expertRepo,
		alerts:     alerts,
		hive:       hive,
		bio:        bio,
		logger:     logger,
	}
}

func (s *expertService) List(ctx context.Context, filters repository.ExpertFilters) ([]models.Expert, int64, error) {
	return s.expertRepo.List(ctx, filters)
}

func (s *expertService) GetByID(ctx context.Context, id string) (*models.Expert, error) {
	expert, err := s.expertRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrExpertNotFound
		}
		return nil, err
	}
	return expert, nil
}

// UpdateProfile saves profile fields together with the want and present
// offer. Validation happens before any write; the save either fully
// succeeds or leaves the stored profile unchanged.
func (s *expertService) UpdateProfile(ctx context.Context, expertID string, update ProfileUpdate) (*models.Expert, error) {
	expert, err := s.GetByID(ctx, expertID)
	if err != nil {
		return nil, err
	}
	tier := entitlement.Tier(expert.SubscriptionTier)

	if update.OnLeave && !entitlement.Enabled(tier, entitlement.FeatureAwayStatus) {
		return nil, ErrAwayRequiresPremium
	}
	if update.Want != nil {
		if update.Want.Title == "" || update.Want.Author == "" {
			return nil, models.ErrIncompleteWant
		}
	}
	if update.Offer != nil {
		if !entitlement.Enabled(tier, entitlement.FeatureSpecialOffers) {
			return nil, ErrOfferRequiresPremium
		}
		if !ownsAvailableBook(expert.Books, update.Offer.BookID) {
			return nil, ErrOfferBookUnavailable
		}
	}

	fields := map[string]any{
		"name":             update.Name,
		"genre":            update.Genre,
		"bio":              update.Bio,
		"country":          update.Country,
		"avatar_url":       update.AvatarURL,
		"on_leave":         update.OnLeave,
		"social_x":         update.SocialLinks.X,
		"social_facebook":  update.SocialLinks.Facebook,
		"social_linked_in": update.SocialLinks.LinkedIn,
		"social_instagram": update.SocialLinks.Instagram,
		"social_you_tube":  update.SocialLinks.YouTube,
	}
	if err := s.expertRepo.UpdateFields(ctx, expertID, fields); err != nil {
		return nil, err
	}
	if err := s.expertRepo.SetBookQuery(ctx, expertID, update.Want); err != nil {
		return nil, err
	}
	if err := s.expertRepo.SetPresentOffer(ctx, expertID, update.Offer); err != nil {
		return nil, err
	}

	// The Title Hive shows wants, so any profile save may change it.
	if s.hive != nil {
		s.hive.Invalidate(ctx)
	}

	return s.GetByID(ctx, expertID)
}

// ReplaceBooks is the profile mutation gate for inventory saves: entitlement
// check, delta, persist, and only after a successful persist a single alert
// scan over a fresh roster snapshot. Persistence failure means no alerts.
func (s *expertService) ReplaceBooks(ctx context.Context, expertID string, books []models.Book) (*models.Expert, error) {
	expert, err := s.GetByID(ctx, expertID)
	if err != nil {
		return nil, err
	}

	limits := entitlement.LimitsFor(entitlement.Tier(expert.SubscriptionTier))
	if len(books) > limits.MaxBooks {
		return nil, ErrBookLimitExceeded
	}

	// Assign IDs up front so the delta and the persisted rows agree, and so
	// IDs stay stable on every later edit.
	for i := range books {
		if books[i].ID == "" {
			books[i].ID = uuid.New().String()
		}
	}

	addedBooks := s.alerts.Delta(expert.Books, books)

	if err := s.expertRepo.ReplaceBooks(ctx, expertID, books); err != nil {
		return nil, err
	}

	updated, err := s.GetByID(ctx, expertID)
	if err != nil {
		return nil, err
	}

	// One scan per successful save, over a snapshot fetched after the write.
	if len(addedBooks) > 0 {
		roster, err := s.expertRepo.ListAll(ctx)
		if err != nil {
			// Alerting is best-effort; the save itself already succeeded.
			s.logger.Error("failed to load roster for alert scan", "seller_id", expertID, "error", err)
		} else {
			matches := s.alerts.Scan(*updated, addedBooks, roster)
			s.alerts.Dispatch(ctx, *updated, matches)
		}
	}

	return updated, nil
}

func (s *expertService) ReplaceSpotlights(ctx context.Context, expertID string, spotlights []models.Spotlight) (*models.Expert, error) {
	expert, err := s.GetByID(ctx, expertID)
	if err != nil {
		return nil, err
	}

	limits := entitlement.LimitsFor(entitlement.Tier(expert.SubscriptionTier))
	if len(spotlights) > limits.MaxSpotlights {
		return nil, ErrSpotlightLimitExceeded
	}
	for _, sp := range spotlights {
		if len(sp.Content) > models.SpotlightContentMax {
			return nil, ErrSpotlightTooLong
		}
		if sp.FeaturedBookID != nil && !ownsBook(expert.Books, *sp.FeaturedBookID) {
			return nil, ErrFeaturedBookNotOwned
		}
	}

	if err := s.expertRepo.ReplaceSpotlights(ctx, expertID, spotlights); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, expertID)
}

func (s *expertService) UpgradeToPremium(ctx context.Context, expertID string) error {
	if _, err := s.GetByID(ctx, expertID); err != nil {
		return err
	}
	if err := s.expertRepo.UpdateFields(ctx, expertID, map[string]any{
		"subscription_tier": string(entitlement.TierPremium),
	}); err != nil {
		return err
	}
	if s.hive != nil {
		s.hive.Invalidate(ctx)
	}
	return nil
}

func (s *expertService) GenerateBio(ctx context.Context, name, genre string) (string, error) {
	return s.bio.GenerateBio(ctx, name, genre)
}

func ownsBook(books []models.Book, bookID string) bool {
	for _, b := range books {
		if b.ID == bookID {
			return true
		}
	}
	return false
}

func ownsAvailableBook(books []models.Book, bookID string) bool {
	for _, b := range books {
		if b.ID == bookID && b.Status == models.BookAvailable {
			return true
		}
	}
	return false
}
