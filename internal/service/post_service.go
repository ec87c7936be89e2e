package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"

	"inkwell/internal/cache"
	"inkwell/internal/errors"
	"inkwell/internal/forms"
	"inkwell/internal/model"
	"inkwell/internal/repository"
)

const (
	postListCacheKey = "posts:list"
	postListCacheTTL = 1 * time.Minute
)

// PostService handles blog post operations.
type PostService interface {
	List(ctx context.Context) ([]model.BlogPost, error)
	Get(ctx context.Context, id uint) (*model.BlogPost, error)
	Create(ctx context.Context, author *model.User, form *forms.PostForm) (*model.BlogPost, error)
	Update(ctx context.Context, id uint, form *forms.PostForm) (*model.BlogPost, error)
	Delete(ctx context.Context, id uint, actor *model.User) error
}

type postService struct {
	posts repository.PostRepository
	cache *cache.Client
}

// NewPostService creates a new post service.
func NewPostService(posts repository.PostRepository, cache *cache.Client) PostService {
	return &postService{posts: posts, cache: cache}
}

// List returns all posts, newest first, with a short-lived cache in front of
// the query backing the landing page.
func (s *postService) List(ctx context.Context) ([]model.BlogPost, error) {
	if data, _ := s.cache.Get(ctx, postListCacheKey); data != nil {
		var cached []model.BlogPost
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
	}

	posts, err := s.posts.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}

	if payload, err := json.Marshal(posts); err == nil {
		_ = s.cache.Set(ctx, postListCacheKey, payload, postListCacheTTL)
	}
	return posts, nil
}

// Get returns a post with author and comments.
func (s *postService) Get(ctx context.Context, id uint) (*model.BlogPost, error) {
	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrPostNotFound
		}
		return nil, fmt.Errorf("find post: %w", err)
	}
	return post, nil
}

// Create publishes a new post dated today.
func (s *postService) Create(ctx context.Context, author *model.User, form *forms.PostForm) (*model.BlogPost, error) {
	post := &model.BlogPost{
		AuthorID: author.ID,
		Title:    form.Title,
		Subtitle: form.Subtitle,
		Body:     form.Body,
		ImgURL:   form.ImgURL,
		Date:     time.Now().Format(model.DateLayout),
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	s.invalidateList(ctx)
	return post, nil
}

// Update overwrites the editable fields in place. The original date and
// author are kept.
func (s *postService) Update(ctx context.Context, id uint, form *forms.PostForm) (*model.BlogPost, error) {
	post, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	post.Title = form.Title
	post.Subtitle = form.Subtitle
	post.Body = form.Body
	post.ImgURL = form.ImgURL

	if err := s.posts.Update(ctx, post); err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}
	s.invalidateList(ctx)
	return post, nil
}

// Delete removes a post and, by cascade, its comments. Allowed for the
// administrator or the post's own author.
func (s *postService) Delete(ctx context.Context, id uint, actor *model.User) error {
	post, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if !actor.IsAdmin() && post.AuthorID != actor.ID {
		return errors.ErrNotAllowed
	}
	if err := s.posts.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	s.invalidateList(ctx)
	return nil
}

func (s *postService) invalidateList(ctx context.Context) {
	_ = s.cache.Delete(ctx, postListCacheKey)
}
