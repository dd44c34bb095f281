package forum

import (
	"context"
	"time"

	"github.com/anihub/anihub-api/internal/domain/notification"
)

// Service handles forum business logic
type Service struct {
	repo     Repository
	notifSvc *notification.Service
}

// NewService creates forum service
func NewService(repo Repository, notifSvc *notification.Service) *Service {
	return &Service{repo: repo, notifSvc: notifSvc}
}

// CreatePost creates a new forum post
func (s *Service) CreatePost(ctx context.Context, userID int64, req *CreatePostRequest) (*Post, error) {
	post := &Post{
		UserID:    userID,
		Title:     req.Title,
		Content:   req.Content,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.CreatePost(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// ListPosts returns posts newest-first with like/comment tallies
func (s *Service) ListPosts(ctx context.Context, limit, offset int) ([]*PostWithCounts, error) {
	return s.repo.ListPosts(ctx, limit, offset)
}

// CreateComment adds a comment and notifies the post author
func (s *Service) CreateComment(ctx context.Context, actorID int64, actorName string, postID int64, req *CreateCommentRequest) (*PostComment, error) {
	post, err := s.repo.GetPostByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}

	comment := &PostComment{
		PostID:    postID,
		UserID:    actorID,
		Text:      req.Text,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.CreateComment(ctx, comment); err != nil {
		return nil, err
	}

	s.notifSvc.NotifyPostComment(ctx, post.UserID, actorID, actorName, post.Title)
	return comment, nil
}

// ListComments returns a post's comments oldest-first
func (s *Service) ListComments(ctx context.Context, postID int64) ([]*PostComment, error) {
	post, err := s.repo.GetPostByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}
	return s.repo.ListCommentsByPost(ctx, postID)
}

// LikePost records a like or dislike. Repeating the same vote is an
// idempotent success; switching the vote updates the existing row.
// The post author is notified only on a fresh like.
func (s *Service) LikePost(ctx context.Context, actorID int64, actorName string, postID int64, isLike bool) error {
	post, err := s.repo.GetPostByID(ctx, postID)
	if err != nil {
		return err
	}
	if post == nil {
		return ErrPostNotFound
	}

	existing, err := s.repo.GetLike(ctx, actorID, postID)
	if err != nil {
		return err
	}
	if existing != nil {
		if existing.IsLike == isLike {
			return nil
		}
		return s.repo.UpdateLike(ctx, actorID, postID, isLike)
	}

	like := &PostLike{
		PostID:    postID,
		UserID:    actorID,
		IsLike:    isLike,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.CreateLike(ctx, like); err != nil {
		// Concurrent duplicate: the unique constraint turned the race
		// into a clean conflict, which the caller sees as success.
		if err == ErrAlreadyLiked {
			return nil
		}
		return err
	}

	if isLike {
		s.notifSvc.NotifyPostLike(ctx, post.UserID, actorID, actorName, post.Title)
	}
	return nil
}
