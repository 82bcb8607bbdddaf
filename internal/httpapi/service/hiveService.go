package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"bookdocker/internal/entitlement"
	"bookdocker/internal/httpapi/dto"
	"bookdocker/internal/httpapi/models"
	"bookdocker/internal/httpapi/repository"

	"github.com/redis/go-redis/v9"
)

const hiveCacheKey = "hive:buzzes"

// HiveService serves the public Title Hive: every active premium expert's
// want, newest first. The listing is cached in redis and invalidated when a
// want or tier changes.
type HiveService interface {
	ListBuzzes(ctx context.Context) ([]dto.Buzz, error)
	Invalidate(ctx context.Context)
}

type hiveService struct {
	expertRepo repository.ExpertRepository
	cache      *redis.Client
	cacheTTL   time.Duration
	logger     *slog.Logger
}

func NewHiveService(expertRepo repository.ExpertRepository, cache *redis.Client, cacheTTL time.Duration, logger *slog.Logger) HiveService {
	return &hiveService{
		expertRepo: expertRepo,
		cache:      cache,
		cacheTTL:   cacheTTL,
		logger:     logger,
	}
}

func (s *hiveService) ListBuzzes(ctx context.Context) ([]dto.Buzz, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, hiveCacheKey).Result()
		if err == nil {
			var buzzes []dto.Buzz
			if err := json.Unmarshal([]byte(cached), &buzzes); err == nil {
				return buzzes, nil
			}
			// Corrupt cache entry: fall through to a fresh read.
		}
	}

	experts, err := s.expertRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	buzzes := []dto.Buzz{}
	for _, e := range experts {
		if e.Status != models.StatusActive {
			continue
		}
		if !entitlement.Enabled(entitlement.Tier(e.SubscriptionTier), entitlement.FeatureWantRegistration) {
			continue
		}
		if e.BookQuery == nil || e.BookQuery.Title == "" || e.BookQuery.Author == "" {
			continue
		}
		buzzes = append(buzzes, dto.Buzz{
			ExpertID:   e.ID,
			ExpertName: e.Name,
			Genre:      e.Genre,
			Country:    e.Country,
			Want:       *e.BookQuery,
		})
	}

	if s.cache != nil {
		if encoded, err := json.Marshal(buzzes); err == nil {
			if err := s.cache.Set(ctx, hiveCacheKey, encoded, s.cacheTTL).Err(); err != nil {
				s.logger.Warn("failed to cache title hive listing", "error", err)
			}
		}
	}

	return buzzes, nil
}

func (s *hiveService) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, hiveCacheKey).Err(); err != nil {
		s.logger.Warn("failed to invalidate title hive cache", "error", err)
	}
}
