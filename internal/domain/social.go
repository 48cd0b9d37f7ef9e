package domain

import "time"

// PostTypeUpdate is the default kind of community post.
const PostTypeUpdate = "update"

// Post is a community post
type Post struct {
	ID        string
	UserID    string
	Content   string
	PostType  string
	CreatedAt time.Time
}

// ReactionType is the kind of reaction a user can leave on a post.
// A user has at most one reaction per post.
type ReactionType string

const (
	ReactionLike    ReactionType = "like"
	ReactionLove    ReactionType = "love"
	ReactionUseful  ReactionType = "useful"
	ReactionWarning ReactionType = "warning"
)

// ValidReaction reports whether r is a known reaction type
func ValidReaction(r ReactionType) bool {
	switch r {
	case ReactionLike, ReactionLove, ReactionUseful, ReactionWarning:
		return true
	}
	return false
}

// Reaction is a user's reaction on a post
type Reaction struct {
	ID        string
	PostID    string
	UserID    string
	Reaction  ReactionType
	CreatedAt time.Time
}

// Comment is a user comment on a post
type Comment struct {
	ID        string
	PostID    string
	UserID    string
	Content   string
	CreatedAt time.Time
}
