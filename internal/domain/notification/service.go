package notification

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const unreadCacheTTL = 5 * time.Minute

// Service handles notification logic
type Service struct {
	repo  Repository
	cache *redis.Client // optional; nil disables unread-count caching
}

// NewService creates notification service
func NewService(repo Repository, cache *redis.Client) *Service {
	return &Service{repo: repo, cache: cache}
}

// Notify inserts an unread notification for targetID.
// A user is never notified about their own action: when targetID equals
// actorID this is a no-op and no row is created.
func (s *Service) Notify(ctx context.Context, targetID, actorID int64, typ Type, message string) error {
	if targetID == actorID {
		return nil
	}

	n := &Notification{
		UserID:    targetID,
		Type:      typ,
		Message:   message,
		IsRead:    false,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, n); err != nil {
		return err
	}

	s.invalidateUnread(ctx, targetID)
	return nil
}

// List returns the user's notifications newest-first
func (s *Service) List(ctx context.Context, userID int64) ([]*Notification, error) {
	return s.repo.ListByUser(ctx, userID)
}

// UnreadCount returns the number of unread notifications, cached in Redis
func (s *Service) UnreadCount(ctx context.Context, userID int64) (int, error) {
	key := unreadKey(userID)

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, key).Result(); err == nil {
			if count, err := strconv.Atoi(cached); err == nil {
				return count, nil
			}
		}
	}

	count, err := s.repo.CountUnreadByUser(ctx, userID)
	if err != nil {
		return 0, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, count, unreadCacheTTL).Err(); err != nil {
			log.Warn().Err(err).Msg("Failed to cache unread count")
		}
	}
	return count, nil
}

// MarkAllRead marks every unread notification for the user as read
func (s *Service) MarkAllRead(ctx context.Context, userID int64) error {
	if err := s.repo.MarkAllAsRead(ctx, userID); err != nil {
		return err
	}
	s.invalidateUnread(ctx, userID)
	return nil
}

// InvalidateUnread drops the cached unread count for a user. Callers that
// insert notification rows inside their own transaction use this after commit.
func (s *Service) InvalidateUnread(ctx context.Context, userID int64) {
	s.invalidateUnread(ctx, userID)
}

func (s *Service) invalidateUnread(ctx context.Context, userID int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, unreadKey(userID)).Err(); err != nil {
		log.Warn().Err(err).Int64("user_id", userID).Msg("Failed to invalidate unread cache")
	}
}

func unreadKey(userID int64) string {
	return fmt.Sprintf("notif:unread:%d", userID)
}

// --- Trigger helpers: thin call sites that compute the message text ---

// NotifyPostComment notifies a post author about a new comment
func (s *Service) NotifyPostComment(ctx context.Context, ownerID, actorID int64, actorName, postTitle string) {
	msg := fmt.Sprintf("%s commented on your post '%s'", actorName, postTitle)
	if err := s.Notify(ctx, ownerID, actorID, TypePostComment, msg); err != nil {
		log.Error().Err(err).Msg("Failed to send comment notification")
	}
}

// NotifyPostLike notifies a post author about a new like
func (s *Service) NotifyPostLike(ctx context.Context, ownerID, actorID int64, actorName, postTitle string) {
	msg := fmt.Sprintf("%s liked your post '%s'", actorName, postTitle)
	if err := s.Notify(ctx, ownerID, actorID, TypePostLike, msg); err != nil {
		log.Error().Err(err).Msg("Failed to send like notification")
	}
}

// NotifyCollectionAdd notifies a user that an anime landed in their collection
func (s *Service) NotifyCollectionAdd(ctx context.Context, ownerID, actorID int64, animeTitle, collectionName string) {
	msg := fmt.Sprintf("'%s' was added to your '%s' collection", animeTitle, collectionName)
	if err := s.Notify(ctx, ownerID, actorID, TypeCollection, msg); err != nil {
		log.Error().Err(err).Msg("Failed to send collection notification")
	}
}
