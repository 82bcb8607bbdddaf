package service

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// WishlistItem pins a book (and its owner, for deep-linking) to a browsing
// session. Wishlists are session-local: they live in redis with a TTL and
// are never written to the shared store.
type WishlistItem struct {
	BookID   string `json:"book_id"`
	ExpertID string `json:"expert_id"`
}

const wishlistTTL = 30 * 24 * time.Hour

type WishlistService interface {
	Add(ctx context.Context, sessionID, bookID, expertID string) error
	Remove(ctx context.Context, sessionID, bookID string) error
	List(ctx context.Context, sessionID string) ([]WishlistItem, error)
}

type wishlistService struct {
	client *redis.Client
}

func NewWishlistService(client *redis.Client) WishlistService {
	return &wishlistService{client: client}
}

func wishlistKey(sessionID string) string {
	return fmt.Sprintf("wishlist:session:%s", sessionID)
}

func (s *wishlistService) Add(ctx context.Context, sessionID, bookID, expertID string) error {
	key := wishlistKey(sessionID)
	if err := s.client.HSet(ctx, key, bookID, expertID).Err(); err != nil {
		return err
	}
	// Refresh the TTL on every touch so active sessions keep their list.
	return s.client.Expire(ctx, key, wishlistTTL).Err()
}

func (s *wishlistService) Remove(ctx context.Context, sessionID, bookID string) error {
	return s.client.HDel(ctx, wishlistKey(sessionID), bookID).Err()
}

func (s *wishlistService) List(ctx context.Context, sessionID string) ([]WishlistItem, error) {
	fields, err := s.client.HGetAll(ctx, wishlistKey(sessionID)).Result()
	if err != nil {
		return nil, err
	}

	items := make([]WishlistItem, 0, len(fields))
	for bookID, expertID := range fields {
		items = append(items, WishlistItem{BookID: bookID, ExpertID: expertID})
	}
	return items, nil
}
