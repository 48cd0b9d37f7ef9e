package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/pricehive/pricehive/internal/domain"
	"github.com/pricehive/pricehive/internal/dto"
	"github.com/pricehive/pricehive/internal/repository"
	"github.com/pricehive/pricehive/pkg/logger"
	"github.com/pricehive/pricehive/pkg/telemetry"
)

// SocialService handles community posts, reactions and comments
type SocialService interface {
	CreatePost(ctx context.Context, userID string, req *dto.PostCreateRequest) (*dto.PostResponse, error)
	ListPosts(ctx context.Context, limit int) ([]dto.PostResponse, error)
	// React toggles the caller's reaction: same reaction removes it,
	// a different one replaces it.
	React(ctx context.Context, userID, postID string, reaction string) (*dto.ReactionResponse, error)
	CreateComment(ctx context.Context, userID, postID string, req *dto.CommentCreateRequest) (*dto.CommentResponse, error)
	ListComments(ctx context.Context, postID string) ([]dto.CommentResponse, error)
}

type socialService struct {
	socialRepo repository.SocialRepository
	userRepo   repository.UserRepository
}

// NewSocialService creates a new SocialService
func NewSocialService(socialRepo repository.SocialRepository, userRepo repository.UserRepository) SocialService {
	return &socialService{socialRepo: socialRepo, userRepo: userRepo}
}

// CreatePost publishes a post and awards the author points
func (s *socialService) CreatePost(ctx context.Context, userID string, req *dto.PostCreateRequest) (*dto.PostResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.social.create_post")
	defer span.End()

	span.SetAttributes(attribute.String("user_id", userID))

	postType := req.PostType
	if postType == "" {
		postType = domain.PostTypeUpdate
	}

	post := &domain.Post{
		ID:        uuid.New().String(),
		UserID:    userID,
		Content:   req.Content,
		PostType:  postType,
		CreatedAt: time.Now(),
	}

	if err := s.socialRepo.CreatePost(ctx, post); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if err := s.userRepo.AddPoints(ctx, userID, domain.PointsPost, "community post"); err != nil {
		logger.Get().Warn("failed to award post points",
			zap.String("user_id", userID), zap.Error(err))
	}

	var authorName string
	if user, err := s.userRepo.GetByID(ctx, userID); err == nil && user != nil {
		authorName = user.Name
	}

	span.SetAttributes(attribute.String("post_id", post.ID))
	span.SetStatus(codes.Ok, "")

	return &dto.PostResponse{
		ID:         post.ID,
		PostType:   post.PostType,
		Content:    post.Content,
		AuthorName: authorName,
		Reactions:  map[string]int{},
		CreatedAt:  post.CreatedAt,
	}, nil
}

// ListPosts returns the feed, newest first, with reaction counts
func (s *socialService) ListPosts(ctx context.Context, limit int) ([]dto.PostResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	posts, err := s.socialRepo.ListPosts(ctx, limit)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
	}
	counts, err := s.socialRepo.ReactionCountsForPosts(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]dto.PostResponse, 0, len(posts))
	for _, p := range posts {
		reactions := counts[p.ID]
		if reactions == nil {
			reactions = map[string]int{}
		}
		out = append(out, dto.PostResponse{
			ID:            p.ID,
			PostType:      p.PostType,
			Content:       p.Content,
			AuthorName:    p.AuthorName,
			Reactions:     reactions,
			CommentsCount: p.CommentsCount,
			CreatedAt:     p.CreatedAt,
		})
	}
	return out, nil
}

// React toggles the caller's reaction on a post
func (s *socialService) React(ctx context.Context, userID, postID string, reaction string) (*dto.ReactionResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.social.react")
	defer span.End()

	span.SetAttributes(
		attribute.String("post_id", postID),
		attribute.String("reaction", reaction),
	)

	rt := domain.ReactionType(reaction)
	if !domain.ValidReaction(rt) {
		span.SetStatus(codes.Error, "invalid reaction type")
		return nil, domain.ErrInvalidReaction
	}

	post, err := s.socialRepo.GetPost(ctx, postID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if post == nil {
		span.SetStatus(codes.Error, "post not found")
		return nil, domain.ErrPostNotFound
	}

	existing, err := s.socialRepo.GetReaction(ctx, postID, userID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	userReaction := reaction
	if existing != nil && existing.Reaction == rt {
		// Same reaction again removes it
		if err := s.socialRepo.DeleteReaction(ctx, postID, userID); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
		userReaction = ""
	} else {
		if err := s.socialRepo.SetReaction(ctx, &domain.Reaction{
			ID:        uuid.New().String(),
			PostID:    postID,
			UserID:    userID,
			Reaction:  rt,
			CreatedAt: time.Now(),
		}); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
	}

	counts, err := s.socialRepo.ReactionCounts(ctx, postID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetStatus(codes.Ok, "")
	return &dto.ReactionResponse{Reactions: counts, UserReaction: userReaction}, nil
}

// CreateComment adds a comment and awards the author points
func (s *socialService) CreateComment(ctx context.Context, userID, postID string, req *dto.CommentCreateRequest) (*dto.CommentResponse, error) {
	post, err := s.socialRepo.GetPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, domain.ErrPostNotFound
	}

	comment := &domain.Comment{
		ID:        uuid.New().String(),
		PostID:    postID,
		UserID:    userID,
		Content:   req.Content,
		CreatedAt: time.Now(),
	}
	if err := s.socialRepo.CreateComment(ctx, comment); err != nil {
		return nil, err
	}

	if err := s.userRepo.AddPoints(ctx, userID, domain.PointsComment, "comment"); err != nil {
		logger.Get().Warn("failed to award comment points",
			zap.String("user_id", userID), zap.Error(err))
	}

	var authorName string
	if user, err := s.userRepo.GetByID(ctx, userID); err == nil && user != nil {
		authorName = user.Name
	}

	return &dto.CommentResponse{
		ID:         comment.ID,
		PostID:     comment.PostID,
		AuthorName: authorName,
		Content:    comment.Content,
		CreatedAt:  comment.CreatedAt,
	}, nil
}

// ListComments returns a post's comments, oldest first
func (s *socialService) ListComments(ctx context.Context, postID string) ([]dto.CommentResponse, error) {
	post, err := s.socialRepo.GetPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, domain.ErrPostNotFound
	}

	rows, err := s.socialRepo.ListComments(ctx, postID)
	if err != nil {
		return nil, err
	}

	out := make([]dto.CommentResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.CommentResponse{
			ID:         r.ID,
			PostID:     r.PostID,
			AuthorName: r.AuthorName,
			Content:    r.Content,
			CreatedAt:  r.CreatedAt,
		})
	}
	return out, nil
}
