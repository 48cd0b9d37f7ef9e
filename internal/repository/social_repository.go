package repository

import (
	"context"

	"github.com/pricehive/pricehive/internal/domain"
)

// PostRow is a post joined with the author name and comment count
type PostRow struct {
	domain.Post
	AuthorName    string
	CommentsCount int
}

// CommentRow is a comment joined with the author name
type CommentRow struct {
	domain.Comment
	AuthorName string
}

// SocialRepository defines data access for posts, reactions and
// comments.
type SocialRepository interface {
	CreatePost(ctx context.Context, p *domain.Post) error
	GetPost(ctx context.Context, id string) (*domain.Post, error)
	ListPosts(ctx context.Context, limit int) ([]PostRow, error)

	// GetReaction returns the user's reaction on a post, nil when none
	GetReaction(ctx context.Context, postID, userID string) (*domain.Reaction, error)
	SetReaction(ctx context.Context, reaction *domain.Reaction) error
	DeleteReaction(ctx context.Context, postID, userID string) error
	ReactionCounts(ctx context.Context, postID string) (map[string]int, error)
	// ReactionCountsForPosts batches ReactionCounts for feed rendering
	ReactionCountsForPosts(ctx context.Context, postIDs []string) (map[string]map[string]int, error)

	CreateComment(ctx context.Context, c *domain.Comment) error
	ListComments(ctx context.Context, postID string) ([]CommentRow, error)
}
