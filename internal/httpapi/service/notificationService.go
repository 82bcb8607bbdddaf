package service

import (
	"context"
	"errors"

	"bookdocker/internal/httpapi/models"
	"bookdocker/internal/httpapi/repository"
)

type NotificationService interface {
	GetUnread(ctx context.Context, expertID string) ([]models.Notification, error)
	MarkAsRead(ctx context.Context, expertID string, notificationID int64) error
	MarkAllAsRead(ctx context.Context, expertID string) error
}

type notificationService struct {
	repo repository.NotificationRepository
}

func NewNotificationService(repo repository.NotificationRepository) NotificationService {
	return &notificationService{repo: repo}
}

func (s *notificationService) GetUnread(ctx context.Context, expertID string) ([]models.Notification, error) {
	return s.repo.GetUnreadByExpert(ctx, expertID)
}

func (s *notificationService) MarkAsRead(ctx context.Context, expertID string, notificationID int64) error {
	// Verify notification belongs to the caller
	notifications, err := s.repo.GetUnreadByExpert(ctx, expertID)
	if err != nil {
		return err
	}

	found := false
	for _, n := range notifications {
		if n.ID == notificationID {
			found = true
			break
		}
	}

	if !found {
		return errors.New("notification not found or already read")
	}

	return s.repo.MarkAsRead(ctx, notificationID)
}

func (s *notificationService) MarkAllAsRead(ctx context.Context, expertID string) error {
	return s.repo.MarkAllAsRead(ctx, expertID)
}
