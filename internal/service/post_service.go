package service

import (
	"context"

	"blogapi/internal/middleware"
	"blogapi/internal/models"
	"blogapi/internal/observability"
	"blogapi/internal/repository"
)

type PostService struct {
	postRepo repository.PostRepository
}

type CreatePostInput struct {
	UserID  uint
	Title   string
	Content string
}

type UpdatePostInput struct {
	UserID  uint
	PostID  uint
	Title   string
	Content string
}

type DeletePostInput struct {
	UserID uint
	PostID uint
}

func NewPostService(postRepo repository.PostRepository) *PostService {
	return &PostService{postRepo: postRepo}
}

func (s *PostService) ListPosts(ctx context.Context) ([]models.Post, error) {
	return s.postRepo.List(ctx)
}

func (s *PostService) GetPost(ctx context.Context, id uint) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, id)
}

// CreatePost stores a post owned by in.UserID. An owner that no longer exists
// means the token outlived its user, so the caller is unauthorized.
func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (post *models.Post, err error) {
	defer func() { observability.PostOperations.WithLabelValues("create", outcome(err)).Inc() }()

	post = &models.Post{Title: in.Title, Content: in.Content, UserID: in.UserID}
	if err := s.postRepo.Create(ctx, post); err != nil {
		if models.HasCode(err, models.CodeNotFound) {
			return nil, models.NewUnauthorizedError("User no longer exists")
		}
		return nil, err
	}

	middleware.Logger.InfoContext(ctx, "post created", "post_id", post.ID)
	return post, nil
}

func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (post *models.Post, err error) {
	defer func() { observability.PostOperations.WithLabelValues("update", outcome(err)).Inc() }()

	return s.postRepo.UpdateOwned(ctx, in.PostID, in.UserID, in.Title, in.Content)
}

func (s *PostService) DeletePost(ctx context.Context, in DeletePostInput) (err error) {
	defer func() { observability.PostOperations.WithLabelValues("delete", outcome(err)).Inc() }()

	if err := s.postRepo.DeleteOwned(ctx, in.PostID, in.UserID); err != nil {
		return err
	}
	middleware.Logger.InfoContext(ctx, "post deleted", "post_id", in.PostID)
	return nil
}
