package service

import (
	"context"
	"errors"
	"log/slog"

	"bookdocker/internal/ai"
	"bookdocker/internal/httpapi/models"
	"bookdocker/internal/httpapi/repository"
)

var ErrNoDeletableExperts = errors.New("none of the selected experts can be deleted")

// InsightsClient is the AI collaborator surface the admin panel uses.
type InsightsClient interface {
	AdminInsights(ctx context.Context, question string, roster []ai.RosterEntry) (string, error)
	ScanContent(ctx context.Context, subjects []ai.Subject) ([]ai.ModerationAlert, error)
}

// AdminService backs the admin panel: roster management plus the AI-assisted
// insight and moderation endpoints. Example (seed) records are shown but
// excluded from every persistence-affecting operation.
type AdminService interface {
	ListExperts(ctx context.Context) ([]models.Expert, error)
	SetStatus(ctx context.Context, expertIDs []string, status string) error
	SetTier(ctx context.Context, expertIDs []string, tier string) error
	DeleteExperts(ctx context.Context, expertIDs []string) error
	Insights(ctx context.Context, question string) (string, error)
	ModerationScan(ctx context.Context) ([]ai.ModerationAlert, error)
}

type adminService struct {
	expertRepo repository.ExpertRepository
	insights   InsightsClient
	hive       HiveInvalidator
	logger     *slog.Logger
}

func NewAdminService(expertRepo repository.ExpertRepository, insights InsightsClient, hive HiveInvalidator, logger *slog.Logger) AdminService {
	return &adminService{
		expertRepo: expertRepo,
		insights:   insights,
		hive:       hive,
		logger:     logger,
	}
}

func (s *adminService) ListExperts(ctx context.Context) ([]models.Expert, error) {
	return s.expertRepo.ListAll(ctx)
}

// realIDs filters the requested IDs down to non-example records.
func (s *adminService) realIDs(ctx context.Context, expertIDs []string) ([]string, error) {
	roster, err := s.expertRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	example := make(map[string]bool)
	for _, e := range roster {
		if e.IsExample {
			example[e.ID] = true
		}
	}

	real := []string{}
	for _, id := range expertIDs {
		if example[id] {
			s.logger.Warn("skipping example record", "expert_id", id)
			continue
		}
		real = append(real, id)
	}
	return real, nil
}

func (s *adminService) SetStatus(ctx context.Context, expertIDs []string, status string) error {
	real, err := s.realIDs(ctx, expertIDs)
	if err != nil {
		return err
	}
	if len(real) == 0 {
		return nil
	}
	return s.expertRepo.UpdateStatus(ctx, real, status)
}

// SetTier changes subscription tiers in bulk. A downgrade only constrains
// future saves; existing inventories above the free limits stay untouched.
func (s *adminService) SetTier(ctx context.Context, expertIDs []string, tier string) error {
	real, err := s.realIDs(ctx, expertIDs)
	if err != nil {
		return err
	}
	if len(real) == 0 {
		return nil
	}
	for _, id := range real {
		if err := s.expertRepo.UpdateFields(ctx, id, map[string]any{"subscription_tier": tier}); err != nil {
			return err
		}
	}
	// Tier changes add or remove wants from the hive listing.
	if s.hive != nil {
		s.hive.Invalidate(ctx)
	}
	return nil
}

func (s *adminService) DeleteExperts(ctx context.Context, expertIDs []string) error {
	real, err := s.realIDs(ctx, expertIDs)
	if err != nil {
		return err
	}
	if len(real) == 0 {
		return ErrNoDeletableExperts
	}
	if err := s.expertRepo.DeleteMany(ctx, real); err != nil {
		return err
	}
	if s.hive != nil {
		s.hive.Invalidate(ctx)
	}
	return nil
}

func (s *adminService) Insights(ctx context.Context, question string) (string, error) {
	roster, err := s.expertRepo.ListAll(ctx)
	if err != nil {
		return "", err
	}

	entries := make([]ai.RosterEntry, 0, len(roster))
	for _, e := range roster {
		available := 0
		for _, b := range e.Books {
			if b.Status == models.BookAvailable {
				available++
			}
		}
		entry := ai.RosterEntry{
			Name:           e.Name,
			Genre:          e.Genre,
			Tier:           e.SubscriptionTier,
			Status:         e.Status,
			BookCount:      len(e.Books),
			AvailableBooks: available,
		}
		if e.Country != nil {
			entry.Country = *e.Country
		}
		entries = append(entries, entry)
	}

	return s.insights.AdminInsights(ctx, question, entries)
}

func (s *adminService) ModerationScan(ctx context.Context) ([]ai.ModerationAlert, error) {
	roster, err := s.expertRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	subjects := []ai.Subject{}
	for _, e := range roster {
		items := []ai.ContentItem{}
		if e.Bio != "" {
			items = append(items, ai.ContentItem{Type: ai.ContentBio, Content: e.Bio})
		}
		for _, sp := range e.Spotlights {
			if sp.Title != "" {
				items = append(items, ai.ContentItem{Type: ai.ContentSpotlightTitle, Content: sp.Title})
			}
			if sp.Content != "" {
				items = append(items, ai.ContentItem{Type: ai.ContentSpotlightContent, Content: sp.Content})
			}
		}
		if len(items) > 0 {
			subjects = append(subjects, ai.Subject{ExpertID: e.ID, ExpertName: e.Name, Items: items})
		}
	}

	return s.insights.ScanContent(ctx, subjects)
}
