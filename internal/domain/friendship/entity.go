package friendship

import "time"

// FriendRequest is a pending request from sender to receiver. There are no
// terminal states: accept and reject both delete the row.
type FriendRequest struct {
	ID         int64     `db:"id" json:"id"`
	SenderID   int64     `db:"sender_id" json:"sender_id"`
	ReceiverID int64     `db:"receiver_id" json:"receiver_id"`
	Status     string    `db:"status" json:"-"`
	CreatedAt  time.Time `db:"created_at" json:"-"`
}

// IncomingRequest is a pending request with the sender's username resolved
type IncomingRequest struct {
	ID             int64  `db:"id" json:"id"`
	SenderID       int64  `db:"sender_id" json:"sender_id"`
	ReceiverID     int64  `db:"receiver_id" json:"receiver_id"`
	SenderUsername string `db:"sender_username" json:"sender_username"`
}

// Friendship is one directed edge. A mutual friendship is two rows, one
// per direction, created together on acceptance.
type Friendship struct {
	ID       int64 `db:"id" json:"id"`
	UserID   int64 `db:"user_id" json:"user_id"`
	FriendID int64 `db:"friend_id" json:"friend_id"`
}

// Friend is a friendship edge resolved to the friend's identity
type Friend struct {
	ID       int64  `db:"id" json:"id"`
	Username string `db:"username" json:"username"`
}

// Message belongs to a conversation between two friends
type Message struct {
	ID         int64     `db:"id" json:"-"`
	SenderID   int64     `db:"sender_id" json:"from"`
	ReceiverID int64     `db:"receiver_id" json:"to"`
	Text       string    `db:"text" json:"text"`
	CreatedAt  time.Time `db:"created_at" json:"time"`
}

// ConversationSummary lists one friend with the latest message exchanged.
// Friends with no message history report an empty last message.
type ConversationSummary struct {
	FriendID       int64      `json:"friend_id"`
	FriendUsername string     `json:"friend_username"`
	LastMessage    string     `json:"last_message"`
	LastTime       *time.Time `json:"last_time"`
}
