package friendship

import "errors"

var (
	ErrCannotFriendSelf   = errors.New("cannot friend yourself")
	ErrUserNotFound       = errors.New("user not found")
	ErrRequestAlreadySent = errors.New("friend request already sent")
	ErrAlreadyFriends     = errors.New("already friends")
	ErrRequestNotFound    = errors.New("friend request not found")
	ErrNotReceiver        = errors.New("actor is not the request receiver")
	ErrNotFriends         = errors.New("users are not friends")
)
