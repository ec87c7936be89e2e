package repository

import (
	"context"

	"gorm.io/gorm"

	"inkwell/internal/model"
)

// PostRepository defines blog post persistence operations.
type PostRepository interface {
	Create(ctx context.Context, post *model.BlogPost) error
	Update(ctx context.Context, post *model.BlogPost) error
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (*model.BlogPost, error)
	List(ctx context.Context) ([]model.BlogPost, error)
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository builds a GORM-backed repository.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *model.BlogPost) error {
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *postRepository) Update(ctx context.Context, post *model.BlogPost) error {
	return r.db.WithContext(ctx).Save(post).Error
}

// Delete removes a post. Comments go with it through the OnDelete:CASCADE
// constraint on the relation.
func (r *postRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Select("Comments").Delete(&model.BlogPost{ID: id}).Error
}

// FindByID loads a post with its author and comments (comment authors
// included, the detail page renders their names).
func (r *postRepository) FindByID(ctx context.Context, id uint) (*model.BlogPost, error) {
	var post model.BlogPost
	if err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Comments").
		Preload("Comments.Author").
		First(&post, id).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) List(ctx context.Context) ([]model.BlogPost, error) {
	var posts []model.BlogPost
	if err := r.db.WithContext(ctx).
		Preload("Author").
		Order("id DESC").
		Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}
