package service

import (
	"context"
	"testing"

	"github.com/pricehive/pricehive/internal/domain"
	"github.com/pricehive/pricehive/internal/dto"
)

type socialFixture struct {
	socialRepo *mockSocialRepository
	userRepo   *mockUserRepository
	svc        SocialService
}

func newSocialFixture() *socialFixture {
	f := &socialFixture{
		socialRepo: newMockSocialRepository(),
		userRepo:   newMockUserRepository(),
	}
	f.svc = NewSocialService(f.socialRepo, f.userRepo)
	f.userRepo.add(&domain.User{ID: "u1", Email: "ana@example.com", Name: "Ana", Role: domain.RoleUser, Points: 50})
	return f
}

func TestSocialService_CreatePost(t *testing.T) {
	f := newSocialFixture()

	resp, err := f.svc.CreatePost(context.Background(), "u1", &dto.PostCreateRequest{
		Content:  "Half price at Test Market today",
		PostType: "deal",
	})
	if err != nil {
		t.Fatalf("CreatePost() error = %v", err)
	}

	if resp.Content != "Half price at Test Market today" || resp.AuthorName != "Ana" {
		t.Errorf("post = %+v, want deal post by Ana", resp)
	}
	if resp.PostType != "deal" {
		t.Errorf("PostType = %q, want deal", resp.PostType)
	}
	if resp.Reactions == nil || len(resp.Reactions) != 0 {
		t.Errorf("Reactions = %v, want empty map", resp.Reactions)
	}

	user, _ := f.userRepo.GetByID(context.Background(), "u1")
	if user.Points != 50+domain.PointsPost {
		t.Errorf("points = %d, want %d", user.Points, 50+domain.PointsPost)
	}

	t.Run("post type defaults to update", func(t *testing.T) {
		resp, err := f.svc.CreatePost(context.Background(), "u1", &dto.PostCreateRequest{
			Content: "Just the content",
		})
		if err != nil {
			t.Fatalf("CreatePost() error = %v", err)
		}
		if resp.PostType != domain.PostTypeUpdate {
			t.Errorf("PostType = %q, want %q", resp.PostType, domain.PostTypeUpdate)
		}
	})
}

func TestSocialService_React(t *testing.T) {
	f := newSocialFixture()

	post, err := f.svc.CreatePost(context.Background(), "u1", &dto.PostCreateRequest{Content: "C"})
	if err != nil {
		t.Fatalf("CreatePost() error = %v", err)
	}

	t.Run("first reaction sets it", func(t *testing.T) {
		resp, err := f.svc.React(context.Background(), "u1", post.ID, "like")
		if err != nil {
			t.Fatalf("React() error = %v", err)
		}
		if resp.UserReaction != "like" {
			t.Errorf("UserReaction = %q, want like", resp.UserReaction)
		}
		if resp.Reactions["like"] != 1 {
			t.Errorf("Reactions = %v, want like:1", resp.Reactions)
		}
	})

	t.Run("different reaction replaces it", func(t *testing.T) {
		resp, err := f.svc.React(context.Background(), "u1", post.ID, "love")
		if err != nil {
			t.Fatalf("React() error = %v", err)
		}
		if resp.UserReaction != "love" {
			t.Errorf("UserReaction = %q, want love", resp.UserReaction)
		}
		if resp.Reactions["like"] != 0 || resp.Reactions["love"] != 1 {
			t.Errorf("Reactions = %v, want love:1 only", resp.Reactions)
		}
	})

	t.Run("same reaction removes it", func(t *testing.T) {
		resp, err := f.svc.React(context.Background(), "u1", post.ID, "love")
		if err != nil {
			t.Fatalf("React() error = %v", err)
		}
		if resp.UserReaction != "" {
			t.Errorf("UserReaction = %q, want empty", resp.UserReaction)
		}
		if len(resp.Reactions) != 0 {
			t.Errorf("Reactions = %v, want none", resp.Reactions)
		}
	})

	t.Run("invalid reaction", func(t *testing.T) {
		if _, err := f.svc.React(context.Background(), "u1", post.ID, "angry"); err != domain.ErrInvalidReaction {
			t.Errorf("React() error = %v, want ErrInvalidReaction", err)
		}
	})

	t.Run("unknown post", func(t *testing.T) {
		if _, err := f.svc.React(context.Background(), "u1", "missing", "like"); err != domain.ErrPostNotFound {
			t.Errorf("React() error = %v, want ErrPostNotFound", err)
		}
	})
}

func TestSocialService_Comments(t *testing.T) {
	f := newSocialFixture()

	post, err := f.svc.CreatePost(context.Background(), "u1", &dto.PostCreateRequest{Content: "C"})
	if err != nil {
		t.Fatalf("CreatePost() error = %v", err)
	}
	pointsAfterPost := 50 + domain.PointsPost

	resp, err := f.svc.CreateComment(context.Background(), "u1", post.ID, &dto.CommentCreateRequest{Content: "Nice find"})
	if err != nil {
		t.Fatalf("CreateComment() error = %v", err)
	}
	if resp.Content != "Nice find" || resp.AuthorName != "Ana" {
		t.Errorf("comment = %+v", resp)
	}

	user, _ := f.userRepo.GetByID(context.Background(), "u1")
	if user.Points != pointsAfterPost+domain.PointsComment {
		t.Errorf("points = %d, want %d", user.Points, pointsAfterPost+domain.PointsComment)
	}

	comments, err := f.svc.ListComments(context.Background(), post.ID)
	if err != nil {
		t.Fatalf("ListComments() error = %v", err)
	}
	if len(comments) != 1 || comments[0].Content != "Nice find" {
		t.Errorf("comments = %+v, want the one comment", comments)
	}

	if _, err := f.svc.CreateComment(context.Background(), "u1", "missing", &dto.CommentCreateRequest{Content: "x"}); err != domain.ErrPostNotFound {
		t.Errorf("CreateComment() error = %v, want ErrPostNotFound", err)
	}
	if _, err := f.svc.ListComments(context.Background(), "missing"); err != domain.ErrPostNotFound {
		t.Errorf("ListComments() error = %v, want ErrPostNotFound", err)
	}
}

func TestSocialService_ListPosts(t *testing.T) {
	f := newSocialFixture()

	first, err := f.svc.CreatePost(context.Background(), "u1", &dto.PostCreateRequest{Content: "a"})
	if err != nil {
		t.Fatalf("CreatePost() error = %v", err)
	}
	if _, err := f.svc.React(context.Background(), "u1", first.ID, "useful"); err != nil {
		t.Fatalf("React() error = %v", err)
	}

	posts, err := f.svc.ListPosts(context.Background(), 0)
	if err != nil {
		t.Fatalf("ListPosts() error = %v", err)
	}
	if len(posts) != 1 {
		t.Fatalf("got %d posts, want 1", len(posts))
	}
	if posts[0].Reactions["useful"] != 1 {
		t.Errorf("Reactions = %v, want useful:1", posts[0].Reactions)
	}
	if posts[0].AuthorName != "Tester" {
		t.Errorf("AuthorName = %q", posts[0].AuthorName)
	}
}
