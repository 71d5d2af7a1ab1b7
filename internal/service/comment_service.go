package service

import (
	"context"
	"errors"
	"time"

	"inkwell/internal/models"
	"inkwell/internal/repository"

	"gorm.io/gorm"
)

type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
	pageSize    int
	now         func() time.Time
}

type AddCommentInput struct {
	ActorID uint
	PostID  uint
	Text    string
}

type UpdateCommentInput struct {
	ActorID   uint
	PostID    uint
	CommentID uint
	Text      string
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	postRepo repository.PostRepository,
	pageSize int,
) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		pageSize:    pageSize,
		now:         time.Now,
	}
}

// AddComment attaches a comment to a post. The post's own author may comment
// at any time, even on a draft or a post scheduled for the future; everyone
// else must reach the post through the public visibility composition, and a
// miss answers NotFound just like an absent ID.
func (s *CommentService) AddComment(ctx context.Context, in AddCommentInput) (*models.Comment, error) {
	if in.Text == "" {
		return nil, models.NewValidationError("Text is required")
	}

	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFoundError("Post", in.PostID)
	}
	if err != nil {
		return nil, err
	}

	if post.AuthorID != in.ActorID {
		post, err = s.postRepo.GetVisibleByID(ctx, in.PostID, s.now())
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", in.PostID)
		}
		if err != nil {
			return nil, err
		}
	}

	comment := &models.Comment{
		Text:        in.Text,
		IsPublished: true,
		AuthorID:    in.ActorID,
		PostID:      post.ID,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	return s.commentRepo.GetByID(ctx, comment.ID)
}

// ListForPost returns one page of a post's comments, oldest first, applying
// the same viewer resolution as the detail page.
func (s *CommentService) ListForPost(ctx context.Context, postID, viewerID uint, page int) ([]*models.Comment, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFoundError("Post", postID)
	}
	if err != nil {
		return nil, err
	}

	if viewerID == 0 || post.AuthorID != viewerID {
		if _, err := s.postRepo.GetVisibleByID(ctx, postID, s.now()); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, models.NewNotFoundError("Post", postID)
			}
			return nil, err
		}
	}

	if page < 1 {
		page = 1
	}
	return s.commentRepo.ListByPost(ctx, postID, s.pageSize, (page-1)*s.pageSize)
}

func (s *CommentService) UpdateComment(ctx context.Context, in UpdateCommentInput) (*models.Comment, error) {
	if in.Text == "" {
		return nil, models.NewValidationError("Text is required")
	}

	comment, err := s.commentRepo.GetByID(ctx, in.CommentID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFoundError("Comment", in.CommentID)
	}
	if err != nil {
		return nil, err
	}
	// A comment addressed under the wrong post does not exist.
	if comment.PostID != in.PostID {
		return nil, models.NewNotFoundError("Comment", in.CommentID)
	}

	if err := RequireAuthor(in.ActorID, comment); err != nil {
		return nil, err
	}

	comment.Text = in.Text
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *CommentService) DeleteComment(ctx context.Context, actorID, postID, commentID uint) error {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundError("Comment", commentID)
	}
	if err != nil {
		return err
	}
	if comment.PostID != postID {
		return models.NewNotFoundError("Comment", commentID)
	}

	if err := RequireAuthor(actorID, comment); err != nil {
		return err
	}

	return s.commentRepo.Delete(ctx, commentID)
}
