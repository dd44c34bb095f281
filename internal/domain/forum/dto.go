package forum

// CreatePostRequest represents a new forum post
type CreatePostRequest struct {
	Title   string `json:"title" validate:"required,max=255"`
	Content string `json:"content" validate:"required"`
}

// CreateCommentRequest represents a new comment under a post
type CreateCommentRequest struct {
	Text string `json:"text" validate:"required"`
}

// LikeRequest represents a like or dislike on a post
type LikeRequest struct {
	IsLike *bool `json:"is_like" validate:"required"`
}
