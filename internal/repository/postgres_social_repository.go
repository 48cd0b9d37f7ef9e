package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pricehive/pricehive/internal/domain"
)

// PostgresSocialRepository implements SocialRepository using PostgreSQL
type PostgresSocialRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresSocialRepository creates a new PostgresSocialRepository
func NewPostgresSocialRepository(pool *pgxpool.Pool) *PostgresSocialRepository {
	return &PostgresSocialRepository{pool: pool}
}

// CreatePost inserts a post
func (r *PostgresSocialRepository) CreatePost(ctx context.Context, p *domain.Post) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO posts (id, user_id, content, post_type, created_at) VALUES ($1, $2, $3, $4, $5)`,
		p.ID, p.UserID, p.Content, p.PostType, p.CreatedAt,
	)
	return err
}

// GetPost retrieves a post by ID
func (r *PostgresSocialRepository) GetPost(ctx context.Context, id string) (*domain.Post, error) {
	p := &domain.Post{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, user_id, content, post_type, created_at FROM posts WHERE id = $1`, id,
	).Scan(&p.ID, &p.UserID, &p.Content, &p.PostType, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return p, nil
}

// ListPosts returns recent posts with author names and comment
// counts, newest first.
func (r *PostgresSocialRepository) ListPosts(ctx context.Context, limit int) ([]PostRow, error) {
	query := `
		SELECT po.id, po.user_id, po.content, po.post_type, po.created_at, u.name,
		       (SELECT COUNT(*) FROM comments c WHERE c.post_id = po.id)
		FROM posts po
		JOIN users u ON u.id = po.user_id
		ORDER BY po.created_at DESC
		LIMIT $1
	`
	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PostRow
	for rows.Next() {
		var row PostRow
		if err := rows.Scan(&row.ID, &row.UserID, &row.Content, &row.PostType, &row.CreatedAt, &row.AuthorName, &row.CommentsCount); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// GetReaction returns the user's reaction on a post, nil when none
func (r *PostgresSocialRepository) GetReaction(ctx context.Context, postID, userID string) (*domain.Reaction, error) {
	re := &domain.Reaction{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, post_id, user_id, reaction, created_at
		 FROM post_reactions WHERE post_id = $1 AND user_id = $2`,
		postID, userID,
	).Scan(&re.ID, &re.PostID, &re.UserID, &re.Reaction, &re.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return re, nil
}

// SetReaction inserts or replaces the user's reaction on a post
func (r *PostgresSocialRepository) SetReaction(ctx context.Context, reaction *domain.Reaction) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO post_reactions (id, post_id, user_id, reaction, created_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (post_id, user_id) DO UPDATE SET reaction = EXCLUDED.reaction`,
		reaction.ID, reaction.PostID, reaction.UserID, reaction.Reaction, reaction.CreatedAt,
	)
	return err
}

// DeleteReaction removes the user's reaction on a post
func (r *PostgresSocialRepository) DeleteReaction(ctx context.Context, postID, userID string) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM post_reactions WHERE post_id = $1 AND user_id = $2`,
		postID, userID,
	)
	return err
}

// ReactionCounts returns the per-type reaction counts for a post
func (r *PostgresSocialRepository) ReactionCounts(ctx context.Context, postID string) (map[string]int, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT reaction, COUNT(*) FROM post_reactions WHERE post_id = $1 GROUP BY reaction`,
		postID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var reaction string
		var count int
		if err := rows.Scan(&reaction, &count); err != nil {
			return nil, err
		}
		counts[reaction] = count
	}
	return counts, rows.Err()
}

// ReactionCountsForPosts returns per-type counts for many posts at once
func (r *PostgresSocialRepository) ReactionCountsForPosts(ctx context.Context, postIDs []string) (map[string]map[string]int, error) {
	out := make(map[string]map[string]int, len(postIDs))
	if len(postIDs) == 0 {
		return out, nil
	}

	rows, err := r.pool.Query(ctx,
		`SELECT post_id, reaction, COUNT(*)
		 FROM post_reactions WHERE post_id = ANY($1)
		 GROUP BY post_id, reaction`,
		postIDs,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var postID, reaction string
		var count int
		if err := rows.Scan(&postID, &reaction, &count); err != nil {
			return nil, err
		}
		if out[postID] == nil {
			out[postID] = make(map[string]int)
		}
		out[postID][reaction] = count
	}
	return out, rows.Err()
}

// CreateComment inserts a comment
func (r *PostgresSocialRepository) CreateComment(ctx context.Context, c *domain.Comment) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO comments (id, post_id, user_id, content, created_at) VALUES ($1, $2, $3, $4, $5)`,
		c.ID, c.PostID, c.UserID, c.Content, c.CreatedAt,
	)
	return err
}

// ListComments returns a post's comments oldest first
func (r *PostgresSocialRepository) ListComments(ctx context.Context, postID string) ([]CommentRow, error) {
	query := `
		SELECT c.id, c.post_id, c.user_id, c.content, c.created_at, u.name
		FROM comments c
		JOIN users u ON u.id = c.user_id
		WHERE c.post_id = $1
		ORDER BY c.created_at ASC
	`
	rows, err := r.pool.Query(ctx, query, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CommentRow
	for rows.Next() {
		var row CommentRow
		if err := rows.Scan(&row.ID, &row.PostID, &row.UserID, &row.Content, &row.CreatedAt, &row.AuthorName); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
