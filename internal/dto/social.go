package dto

import "time"

// PostCreateRequest creates a community post. PostType defaults to
// "update" when omitted.
type PostCreateRequest struct {
	Content  string `json:"content" binding:"required"`
	PostType string `json:"post_type"`
}

type PostResponse struct {
	ID            string         `json:"id"`
	PostType      string         `json:"post_type"`
	Content       string         `json:"content"`
	AuthorName    string         `json:"author_name"`
	Reactions     map[string]int `json:"reactions"`
	CommentsCount int            `json:"comments_count"`
	CreatedAt     time.Time      `json:"created_at"`
}

type ReactionRequest struct {
	Reaction string `json:"reaction" binding:"required"`
}

// ReactionResponse returns the post's updated reaction counts plus
// the caller's own reaction after the toggle ("" when removed).
type ReactionResponse struct {
	Reactions    map[string]int `json:"reactions"`
	UserReaction string         `json:"user_reaction"`
}

type CommentCreateRequest struct {
	Content string `json:"content" binding:"required"`
}

type CommentResponse struct {
	ID         string    `json:"id"`
	PostID     string    `json:"post_id"`
	AuthorName string    `json:"author_name"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"created_at"`
}
