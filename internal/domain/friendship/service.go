package friendship

import (
	"context"
	"strings"
	"time"

	"github.com/anihub/anihub-api/internal/domain/user"
)

const searchLimit = 10

// UserRepository is the slice of the user repository the friend graph needs
type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*user.User, error)
	GetByUsername(ctx context.Context, username string) (*user.User, error)
	SearchByUsername(ctx context.Context, query string, limit int) ([]*user.User, error)
}

// Service manages the friend-request lifecycle, the friendship graph and
// friendship-gated messaging.
type Service struct {
	repo  Repository
	users UserRepository
}

func NewService(repo Repository, users UserRepository) *Service {
	return &Service{repo: repo, users: users}
}

// SendRequest files a pending request from sender to target. Fails on
// self-friending, an existing pending request or an existing friendship.
func (s *Service) SendRequest(ctx context.Context, senderID, targetID int64) error {
	if senderID == targetID {
		return ErrCannotFriendSelf
	}

	target, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		return err
	}
	if target == nil {
		return ErrUserNotFound
	}

	existing, err := s.repo.FindPendingRequest(ctx, senderID, targetID)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrRequestAlreadySent
	}

	friends, err := s.repo.HasFriendship(ctx, senderID, targetID)
	if err != nil {
		return err
	}
	if friends {
		return ErrAlreadyFriends
	}

	req := &FriendRequest{
		SenderID:   senderID,
		ReceiverID: targetID,
		Status:     "pending",
		CreatedAt:  time.Now().UTC(),
	}
	return s.repo.CreateRequest(ctx, req)
}

// AcceptRequest creates both friendship edges and removes the request in
// one transaction. Only the receiver may accept.
func (s *Service) AcceptRequest(ctx context.Context, requestID, actorID int64) error {
	req, err := s.repo.GetRequest(ctx, requestID)
	if err != nil {
		return err
	}
	if req == nil {
		return ErrRequestNotFound
	}
	if req.ReceiverID != actorID {
		return ErrNotReceiver
	}

	return s.repo.InTx(ctx, func(tx Tx) error {
		if err := tx.CreateFriendshipIfAbsent(req.SenderID, req.ReceiverID); err != nil {
			return err
		}
		if err := tx.CreateFriendshipIfAbsent(req.ReceiverID, req.SenderID); err != nil {
			return err
		}
		return tx.DeleteRequest(req.ID)
	})
}

// RejectRequest deletes the request without creating any edge. Only the
// receiver may reject. No notification is sent.
func (s *Service) RejectRequest(ctx context.Context, requestID, actorID int64) error {
	req, err := s.repo.GetRequest(ctx, requestID)
	if err != nil {
		return err
	}
	if req == nil {
		return ErrRequestNotFound
	}
	if req.ReceiverID != actorID {
		return ErrNotReceiver
	}
	return s.repo.DeleteRequest(ctx, req.ID)
}

// ListIncomingRequests returns pending requests addressed to the actor
func (s *Service) ListIncomingRequests(ctx context.Context, actorID int64) ([]IncomingRequest, error) {
	return s.repo.ListIncoming(ctx, actorID)
}

// ListFriendUsernames returns just the usernames of the actor's friends
func (s *Service) ListFriendUsernames(ctx context.Context, actorID int64) ([]string, error) {
	friends, err := s.repo.ListFriends(ctx, actorID)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(friends))
	for _, f := range friends {
		names = append(names, f.Username)
	}
	return names, nil
}

// ListFriends returns the actor's friends with identities resolved
func (s *Service) ListFriends(ctx context.Context, actorID int64) ([]Friend, error) {
	return s.repo.ListFriends(ctx, actorID)
}

// GetConversation returns all messages between the actor and the named
// friend in chronological order. Requires a friendship edge from the actor.
func (s *Service) GetConversation(ctx context.Context, actorID int64, username string) ([]Message, error) {
	friend, err := s.requireFriend(ctx, actorID, username)
	if err != nil {
		return nil, err
	}
	return s.repo.ListConversation(ctx, actorID, friend.ID)
}

// PostMessage sends a message to the named friend, gated by the same
// friendship check as reading the conversation.
func (s *Service) PostMessage(ctx context.Context, actorID int64, username, text string) error {
	friend, err := s.requireFriend(ctx, actorID, username)
	if err != nil {
		return err
	}

	msg := &Message{
		SenderID:   actorID,
		ReceiverID: friend.ID,
		Text:       text,
		CreatedAt:  time.Now().UTC(),
	}
	return s.repo.CreateMessage(ctx, msg)
}

// ListConversations builds a summary per friend with the latest message
// exchanged, empty when there is no history yet.
func (s *Service) ListConversations(ctx context.Context, actorID int64) ([]ConversationSummary, error) {
	friends, err := s.repo.ListFriends(ctx, actorID)
	if err != nil {
		return nil, err
	}

	summaries := make([]ConversationSummary, 0, len(friends))
	for _, f := range friends {
		summary := ConversationSummary{
			FriendID:       f.ID,
			FriendUsername: f.Username,
		}
		last, err := s.repo.GetLastMessage(ctx, actorID, f.ID)
		if err != nil {
			return nil, err
		}
		if last != nil {
			summary.LastMessage = last.Text
			t := last.CreatedAt
			summary.LastTime = &t
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// SearchUsers finds users by username fragment; a blank query matches nobody
func (s *Service) SearchUsers(ctx context.Context, query string) ([]Friend, error) {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return []Friend{}, nil
	}

	users, err := s.users.SearchByUsername(ctx, query, searchLimit)
	if err != nil {
		return nil, err
	}
	results := make([]Friend, 0, len(users))
	for _, u := range users {
		results = append(results, Friend{ID: u.ID, Username: u.Username})
	}
	return results, nil
}

func (s *Service) requireFriend(ctx context.Context, actorID int64, username string) (*user.User, error) {
	friend, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if friend == nil {
		return nil, ErrUserNotFound
	}

	ok, err := s.repo.HasFriendship(ctx, actorID, friend.ID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotFriends
	}
	return friend, nil
}
