package repository

import (
	"context"
	"errors"

	"blogapi/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostRepository defines the interface for post data operations.
// UpdateOwned and DeleteOwned check ownership and write inside one transaction,
// so a rejected caller never causes a write.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	List(ctx context.Context) ([]models.Post, error)
	UpdateOwned(ctx context.Context, id, ownerID uint, title, content string) (*models.Post, error)
	DeleteOwned(ctx context.Context, id, ownerID uint) error
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

// Create inserts post after checking that its owner exists.
func (r *postRepository) Create(ctx context.Context, post *models.Post) (err error) {
	ctx, done := instrument(ctx, r.db, "PostRepository.Create", "posts")
	defer func() { done(err) }()

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var owner models.User
		if err := tx.Select("id").First(&owner, post.UserID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("User", post.UserID)
			}
			return models.NewInternalError(err)
		}

		if err := tx.Create(post).Error; err != nil {
			if isForeignKeyError(err) {
				return models.NewNotFoundError("User", post.UserID)
			}
			return models.NewInternalError(err)
		}
		return nil
	})
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (post *models.Post, err error) {
	ctx, done := instrument(ctx, r.db, "PostRepository.GetByID", "posts")
	defer func() { done(err) }()

	var p models.Post
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &p, nil
}

// List returns every post ordered by id.
func (r *postRepository) List(ctx context.Context) (posts []models.Post, err error) {
	ctx, done := instrument(ctx, r.db, "PostRepository.List", "posts")
	defer func() { done(err) }()

	posts = []models.Post{}
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&posts).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return posts, nil
}

func (r *postRepository) UpdateOwned(ctx context.Context, id, ownerID uint, title, content string) (post *models.Post, err error) {
	ctx, done := instrument(ctx, r.db, "PostRepository.UpdateOwned", "posts")
	defer func() { done(err) }()

	var p models.Post
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := loadOwned(tx, &p, id, ownerID, "You can only edit your own posts"); err != nil {
			return err
		}
		if err := tx.Model(&p).Updates(map[string]any{"title": title, "content": content}).Error; err != nil {
			return models.NewInternalError(err)
		}
		p.Title = title
		p.Content = content
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *postRepository) DeleteOwned(ctx context.Context, id, ownerID uint) (err error) {
	ctx, done := instrument(ctx, r.db, "PostRepository.DeleteOwned", "posts")
	defer func() { done(err) }()

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p models.Post
		if err := loadOwned(tx, &p, id, ownerID, "You can only delete your own posts"); err != nil {
			return err
		}
		if err := tx.Delete(&p).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
}

// loadOwned reads post id into p and rejects callers other than ownerID.
// On PostgreSQL the row stays locked until the transaction ends.
func loadOwned(tx *gorm.DB, p *models.Post, id, ownerID uint, forbidden string) error {
	q := tx
	if tx.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	if err := q.First(p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Post", id)
		}
		return models.NewInternalError(err)
	}
	if p.UserID != ownerID {
		return models.NewForbiddenError(forbidden)
	}
	return nil
}
