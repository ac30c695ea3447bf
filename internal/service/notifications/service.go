package notifications

import (
	"context"

	"github.com/researchmatch/researchmatch-server/internal/app"
	"github.com/researchmatch/researchmatch-server/internal/db"
	svcErr "github.com/researchmatch/researchmatch-server/internal/errors"
	"github.com/researchmatch/researchmatch-server/internal/repository"
)

const defaultPageSize = 20

// Service exposes a recipient's notifications: listing, read receipts and
// the unread counter.
type Service struct {
	appCtx           *app.AppContext
	notificationRepo *repository.NotificationRepository
}

// NewService creates a new notifications service with dependencies from AppContext.
func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:           appCtx,
		notificationRepo: repository.NewNotificationRepository(appCtx.DB),
	}
}

// List returns the recipient's notifications, newest first, with an opaque
// cursor for the next page.
func (s *Service) List(ctx context.Context, recipientID uint64, paginationToken *string) ([]db.Notification, *string, error) {
	items, nextToken, err := s.notificationRepo.ListForRecipient(ctx, recipientID, paginationToken, defaultPageSize)
	if err != nil {
		return nil, nil, svcErr.Map(err)
	}
	return items, nextToken, nil
}

// MarkRead flips one of the recipient's notifications to read and drops
// the cached unread count.
func (s *Service) MarkRead(ctx context.Context, recipientID, notificationID uint64) error {
	if err := s.notificationRepo.MarkRead(ctx, recipientID, notificationID); err != nil {
		return svcErr.Map(err)
	}
	if err := s.appCtx.RedisCache.InvalidateUnreadCount(ctx, recipientID); err != nil {
		s.appCtx.Logger.Warn("failed to invalidate unread counter", "recipient", recipientID, "err", err)
	}
	return nil
}

// UnreadCount returns how many unread notifications the recipient has.
// Cache-first strategy:
//  1. Attempts to read from Redis (notifications:unread:userID).
//  2. On cache miss, falls back to the DB.
//  3. On DB fetch, updates Redis with a 1h TTL.
func (s *Service) UnreadCount(ctx context.Context, recipientID uint64) (int64, error) {
	if cached, ok, err := s.appCtx.RedisCache.GetUnreadCount(ctx, recipientID); err == nil && ok {
		return cached, nil
	} else if err != nil {
		s.appCtx.Logger.Warn("unread counter read failed", "recipient", recipientID, "err", err)
	}

	count, err := s.notificationRepo.CountUnread(ctx, recipientID)
	if err != nil {
		return 0, svcErr.Map(err)
	}

	if err := s.appCtx.RedisCache.SetUnreadCount(ctx, recipientID, count); err != nil {
		s.appCtx.Logger.Warn("unread counter write failed", "recipient", recipientID, "err", err)
	}

	return count, nil
}
