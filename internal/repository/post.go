// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"
	"time"

	"inkwell/internal/cache"
	"inkwell/internal/models"

	"gorm.io/gorm"
)

// PostRepository defines the interface for post data operations.
//
// The read methods expose the composable visibility stages over posts:
// published-only, published-with-published-category, and the comment-count
// annotation with its fixed ordering. Callers compose them only through these
// methods; the stage helpers themselves stay unexported so they cannot be
// applied out of order.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	// GetByID fetches a post by primary key with no visibility filtering,
	// annotated with its comment count. Author self-views rely on this.
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	// GetVisibleByID fetches a post by primary key through the full public
	// visibility composition. A post that exists but fails visibility comes
	// back as gorm.ErrRecordNotFound, indistinguishable from an absent row.
	GetVisibleByID(ctx context.Context, id uint, now time.Time) (*models.Post, error)
	// ListFeed is the canonical public feed: published post, published
	// category, pub_date not in the future, newest first.
	ListFeed(ctx context.Context, now time.Time, limit, offset int) ([]*models.Post, error)
	// ListByCategory lists a category's published posts. The category's own
	// publication state is the caller's concern; resolving the category with
	// GetPublishedBySlug already confirmed it, so the per-post category check
	// is redundant here and intentionally omitted.
	ListByCategory(ctx context.Context, categoryID uint, now time.Time, limit, offset int) ([]*models.Post, error)
	// ListByAuthor lists an author's posts, annotated and ordered. With
	// visibleOnly the full public composition applies; without it the author
	// sees drafts and future-dated posts too.
	ListByAuthor(ctx context.Context, authorID uint, visibleOnly bool, now time.Time, limit, offset int) ([]*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id uint) error
}

// postRepository implements PostRepository
type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

// scopePublished keeps posts with is_published and pub_date <= now (inclusive),
// eagerly resolving author, category and location for display.
func (r *postRepository) scopePublished(db *gorm.DB, now time.Time) *gorm.DB {
	return db.
		Preload("Author").
		Preload("Category").
		Preload("Location").
		Where("posts.is_published = ? AND posts.pub_date <= ?", true, now)
}

// scopeCategoryPublished narrows scopePublished to posts whose category is
// itself published. The inner join drops posts without a category, matching
// the public-feed contract.
func (r *postRepository) scopeCategoryPublished(db *gorm.DB, now time.Time) *gorm.DB {
	return r.scopePublished(db, now).
		Joins("JOIN categories ON categories.id = posts.category_id AND categories.deleted_at IS NULL").
		Where("categories.is_published = ?", true)
}

// annotateCommentCount attaches the live comment count as a SELECT alias and
// fixes the ordering: newest pub_date first, ties broken by ascending title.
func (r *postRepository) annotateCommentCount(db *gorm.DB) *gorm.DB {
	return db.
		Select("posts.*, (SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id AND comments.deleted_at IS NULL) AS comments_count").
		Order("posts.pub_date DESC, posts.title ASC")
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Create(post).Error; err != nil {
		return err
	}
	cache.InvalidateFeed(ctx)
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	err := r.annotateCommentCount(r.db.WithContext(ctx)).
		Preload("Author").
		Preload("Category").
		Preload("Location").
		Where("posts.id = ?", id).
		First(&post).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) GetVisibleByID(ctx context.Context, id uint, now time.Time) (*models.Post, error) {
	var post models.Post
	err := r.annotateCommentCount(r.scopeCategoryPublished(r.db.WithContext(ctx), now)).
		Where("posts.id = ?", id).
		First(&post).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) ListFeed(ctx context.Context, now time.Time, limit, offset int) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.annotateCommentCount(r.scopeCategoryPublished(r.db.WithContext(ctx), now)).
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	return posts, err
}

func (r *postRepository) ListByCategory(ctx context.Context, categoryID uint, now time.Time, limit, offset int) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.annotateCommentCount(r.scopePublished(r.db.WithContext(ctx), now)).
		Where("posts.category_id = ?", categoryID).
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	return posts, err
}

func (r *postRepository) ListByAuthor(ctx context.Context, authorID uint, visibleOnly bool, now time.Time, limit, offset int) ([]*models.Post, error) {
	base := r.db.WithContext(ctx)
	if visibleOnly {
		base = r.scopeCategoryPublished(base, now)
	} else {
		base = base.Preload("Author").Preload("Category").Preload("Location")
	}

	var posts []*models.Post
	err := r.annotateCommentCount(base).
		Where("posts.author_id = ?", authorID).
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	return posts, err
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Save(post).Error; err != nil {
		return err
	}
	cache.InvalidatePost(ctx, post.ID)
	return nil
}

func (r *postRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Post{}, id).Error; err != nil {
		return err
	}
	cache.InvalidatePost(ctx, id)
	return nil
}
