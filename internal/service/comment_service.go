package service

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"inkwell/internal/errors"
	"inkwell/internal/model"
	"inkwell/internal/repository"
)

// CommentService handles comment operations.
type CommentService interface {
	Create(ctx context.Context, postID uint, author *model.User, body string) (*model.Comment, error)
	Delete(ctx context.Context, id uint, actor *model.User) error
}

type commentService struct {
	comments repository.CommentRepository
	posts    repository.PostRepository
}

// NewCommentService creates a new comment service.
func NewCommentService(comments repository.CommentRepository, posts repository.PostRepository) CommentService {
	return &commentService{comments: comments, posts: posts}
}

// Create attaches a comment by the author to the given post.
func (s *commentService) Create(ctx context.Context, postID uint, author *model.User, body string) (*model.Comment, error) {
	if _, err := s.posts.FindByID(ctx, postID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrPostNotFound
		}
		return nil, fmt.Errorf("find post: %w", err)
	}

	comment := &model.Comment{
		PostID:   postID,
		AuthorID: author.ID,
		Body:     body,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	return comment, nil
}

// Delete removes a comment. Allowed for the administrator or the comment's
// own author.
func (s *commentService) Delete(ctx context.Context, id uint, actor *model.User) error {
	comment, err := s.comments.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return errors.ErrCommentNotFound
		}
		return fmt.Errorf("find comment: %w", err)
	}
	if !actor.IsAdmin() && comment.AuthorID != actor.ID {
		return errors.ErrNotAllowed
	}
	if err := s.comments.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	return nil
}
