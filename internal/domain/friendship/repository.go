package friendship

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const uniqueViolation = "23505"

// Tx exposes the write steps of the accept transaction: both friendship
// edges and the request deletion commit or roll back together.
type Tx interface {
	CreateFriendshipIfAbsent(userID, friendID int64) error
	DeleteRequest(requestID int64) error
}

type Repository interface {
	GetRequest(ctx context.Context, id int64) (*FriendRequest, error)
	FindPendingRequest(ctx context.Context, senderID, receiverID int64) (*FriendRequest, error)
	CreateRequest(ctx context.Context, req *FriendRequest) error
	DeleteRequest(ctx context.Context, id int64) error
	ListIncoming(ctx context.Context, receiverID int64) ([]IncomingRequest, error)

	HasFriendship(ctx context.Context, userID, friendID int64) (bool, error)
	ListFriends(ctx context.Context, userID int64) ([]Friend, error)

	CreateMessage(ctx context.Context, msg *Message) error
	ListConversation(ctx context.Context, userID, friendID int64) ([]Message, error)
	GetLastMessage(ctx context.Context, userID, friendID int64) (*Message, error)

	InTx(ctx context.Context, fn func(Tx) error) error
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetRequest(ctx context.Context, id int64) (*FriendRequest, error) {
	var req FriendRequest
	err := r.db.GetContext(ctx, &req, `SELECT * FROM friend_requests WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get friend request: %w", err)
	}
	return &req, nil
}

func (r *repository) FindPendingRequest(ctx context.Context, senderID, receiverID int64) (*FriendRequest, error) {
	var req FriendRequest
	err := r.db.GetContext(ctx, &req, `
		SELECT * FROM friend_requests
		WHERE sender_id = $1 AND receiver_id = $2
		LIMIT 1`, senderID, receiverID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find pending request: %w", err)
	}
	return &req, nil
}

// CreateRequest relies on the unique (sender_id, receiver_id) constraint to
// close the duplicate-check race: a concurrent duplicate surfaces as
// ErrRequestAlreadySent instead of a second row.
func (r *repository) CreateRequest(ctx context.Context, req *FriendRequest) error {
	err := r.db.QueryRowxContext(ctx, `
		INSERT INTO friend_requests (sender_id, receiver_id, status, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		req.SenderID, req.ReceiverID, req.Status, req.CreatedAt,
	).Scan(&req.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return ErrRequestAlreadySent
		}
		return fmt.Errorf("create friend request: %w", err)
	}
	return nil
}

func (r *repository) DeleteRequest(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM friend_requests WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete friend request: %w", err)
	}
	return nil
}

func (r *repository) ListIncoming(ctx context.Context, receiverID int64) ([]IncomingRequest, error) {
	list := []IncomingRequest{}
	err := r.db.SelectContext(ctx, &list, `
		SELECT fr.id, fr.sender_id, fr.receiver_id, u.username AS sender_username
		FROM friend_requests fr
		JOIN users u ON u.id = fr.sender_id
		WHERE fr.receiver_id = $1
		ORDER BY fr.id DESC`, receiverID)
	if err != nil {
		return nil, fmt.Errorf("list incoming requests: %w", err)
	}
	return list, nil
}

func (r *repository) HasFriendship(ctx context.Context, userID, friendID int64) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `
		SELECT EXISTS (
			SELECT 1 FROM friendships WHERE user_id = $1 AND friend_id = $2
		)`, userID, friendID)
	if err != nil {
		return false, fmt.Errorf("check friendship: %w", err)
	}
	return exists, nil
}

func (r *repository) ListFriends(ctx context.Context, userID int64) ([]Friend, error) {
	list := []Friend{}
	err := r.db.SelectContext(ctx, &list, `
		SELECT u.id, u.username
		FROM friendships f
		JOIN users u ON u.id = f.friend_id
		WHERE f.user_id = $1
		ORDER BY u.username`, userID)
	if err != nil {
		return nil, fmt.Errorf("list friends: %w", err)
	}
	return list, nil
}

func (r *repository) CreateMessage(ctx context.Context, msg *Message) error {
	err := r.db.QueryRowxContext(ctx, `
		INSERT INTO messages (sender_id, receiver_id, text, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		msg.SenderID, msg.ReceiverID, msg.Text, msg.CreatedAt,
	).Scan(&msg.ID)
	if err != nil {
		return fmt.Errorf("create message: %w", err)
	}
	return nil
}

func (r *repository) ListConversation(ctx context.Context, userID, friendID int64) ([]Message, error) {
	list := []Message{}
	err := r.db.SelectContext(ctx, &list, `
		SELECT * FROM messages
		WHERE (sender_id = $1 AND receiver_id = $2)
		   OR (sender_id = $2 AND receiver_id = $1)
		ORDER BY created_at ASC, id ASC`, userID, friendID)
	if err != nil {
		return nil, fmt.Errorf("list conversation: %w", err)
	}
	return list, nil
}

func (r *repository) GetLastMessage(ctx context.Context, userID, friendID int64) (*Message, error) {
	var msg Message
	err := r.db.GetContext(ctx, &msg, `
		SELECT * FROM messages
		WHERE (sender_id = $1 AND receiver_id = $2)
		   OR (sender_id = $2 AND receiver_id = $1)
		ORDER BY created_at DESC, id DESC
		LIMIT 1`, userID, friendID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get last message: %w", err)
	}
	return &msg, nil
}

func (r *repository) InTx(ctx context.Context, fn func(Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&txRepository{tx: tx, ctx: ctx}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

type txRepository struct {
	tx  *sqlx.Tx
	ctx context.Context
}

// CreateFriendshipIfAbsent tolerates a pre-existing edge so accepting never
// duplicates one direction that somehow already exists.
func (t *txRepository) CreateFriendshipIfAbsent(userID, friendID int64) error {
	_, err := t.tx.ExecContext(t.ctx, `
		INSERT INTO friendships (user_id, friend_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, friend_id) DO NOTHING`, userID, friendID)
	if err != nil {
		return fmt.Errorf("create friendship: %w", err)
	}
	return nil
}

func (t *txRepository) DeleteRequest(requestID int64) error {
	_, err := t.tx.ExecContext(t.ctx, `DELETE FROM friend_requests WHERE id = $1`, requestID)
	if err != nil {
		return fmt.Errorf("delete friend request: %w", err)
	}
	return nil
}
