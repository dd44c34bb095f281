package anime

import (
	"context"
)

// Notifier is the slice of the notification service the catalog needs.
type Notifier interface {
	NotifyCollectionAdd(ctx context.Context, ownerID, actorID int64, animeTitle, collectionName string)
}

type Service struct {
	repo     Repository
	notifier Notifier
}

func NewService(repo Repository, notifier Notifier) *Service {
	return &Service{repo: repo, notifier: notifier}
}

func (s *Service) Get(ctx context.Context, id int64) (*Anime, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, ErrNotFound
	}
	return a, nil
}

func (s *Service) List(ctx context.Context, filters ListFilters) ([]Anime, error) {
	if filters.Limit <= 0 || filters.Limit > 100 {
		filters.Limit = 50
	}
	if filters.Offset < 0 {
		filters.Offset = 0
	}
	return s.repo.List(ctx, filters)
}

// AddToCollection inserts an entry and drops a confirmation notification.
// Adding the same anime to the same collection twice is a no-op.
func (s *Service) AddToCollection(ctx context.Context, userID, animeID int64, collection string) (*CollectionEntry, error) {
	a, err := s.repo.GetByID(ctx, animeID)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, ErrNotFound
	}

	entry, err := s.repo.AddToCollection(ctx, userID, animeID, collection)
	if err != nil {
		return nil, err
	}

	// actor 0 is the system, so the owner still receives the row
	s.notifier.NotifyCollectionAdd(ctx, userID, 0, a.Title, collection)
	return entry, nil
}

func (s *Service) RemoveFromCollection(ctx context.Context, userID, animeID int64, collection string) error {
	return s.repo.RemoveFromCollection(ctx, userID, animeID, collection)
}

func (s *Service) ListCollection(ctx context.Context, userID int64, collection string) ([]CollectionItem, error) {
	return s.repo.ListCollection(ctx, userID, collection)
}
