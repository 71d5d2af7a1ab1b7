package service

import (
	"context"
	"errors"
	"time"

	"inkwell/internal/cache"
	"inkwell/internal/models"
	"inkwell/internal/repository"

	"gorm.io/gorm"
)

const maxTitleLen = 300

type PostService struct {
	postRepo     repository.PostRepository
	categoryRepo repository.CategoryRepository
	locationRepo repository.LocationRepository
	userRepo     repository.UserRepository
	pageSize     int
	now          func() time.Time
}

type CreatePostInput struct {
	AuthorID   uint
	Title      string
	Text       string
	PubDate    *time.Time
	Published  *bool
	CategoryID *uint
	LocationID *uint
}

type UpdatePostInput struct {
	ActorID    uint
	PostID     uint
	Title      string
	Text       string
	PubDate    *time.Time
	Published  *bool
	CategoryID *uint
	LocationID *uint
}

func NewPostService(
	postRepo repository.PostRepository,
	categoryRepo repository.CategoryRepository,
	locationRepo repository.LocationRepository,
	userRepo repository.UserRepository,
	pageSize int,
) *PostService {
	return &PostService{
		postRepo:     postRepo,
		categoryRepo: categoryRepo,
		locationRepo: locationRepo,
		userRepo:     userRepo,
		pageSize:     pageSize,
		now:          time.Now,
	}
}

// validateReferences confirms that an optional category/location ID points at
// an existing row, so bad input answers as a validation failure instead of a
// foreign-key violation. Publication state is irrelevant here.
func (s *PostService) validateReferences(ctx context.Context, categoryID, locationID *uint) error {
	if categoryID != nil {
		if _, err := s.categoryRepo.GetByID(ctx, *categoryID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewValidationError("Unknown category")
			}
			return err
		}
	}
	if locationID != nil {
		if _, err := s.locationRepo.GetByID(ctx, *locationID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewValidationError("Unknown location")
			}
			return err
		}
	}
	return nil
}

// GetPostDetail resolves a post for a viewer. The author always sees their own
// post; any other viewer only gets it through the full visibility composition.
// The second fetch is deliberate: a post that exists but is invisible answers
// exactly like a missing one, so non-authors cannot probe for drafts.
func (s *PostService) GetPostDetail(ctx context.Context, postID, viewerID uint) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFoundError("Post", postID)
	}
	if err != nil {
		return nil, err
	}

	if viewerID != 0 && post.AuthorID == viewerID {
		return post, nil
	}

	// Anonymous viewers take the bulk of detail traffic; serve the filtered
	// fetch cache-aside for them. Visibility misses are never cached.
	if viewerID == 0 {
		var cached models.Post
		err = cache.Aside(ctx, cache.PostKey(postID), &cached, cache.PostTTL, func() error {
			fresh, fetchErr := s.postRepo.GetVisibleByID(ctx, postID, s.now())
			if fetchErr != nil {
				return fetchErr
			}
			cached = *fresh
			return nil
		})
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", postID)
		}
		if err != nil {
			return nil, err
		}
		return &cached, nil
	}

	post, err = s.postRepo.GetVisibleByID(ctx, postID, s.now())
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFoundError("Post", postID)
	}
	if err != nil {
		return nil, err
	}
	return post, nil
}

// ListFeed returns one page of the public feed, newest first. The first page
// is served cache-aside since it takes the bulk of anonymous traffic; any
// post or comment write invalidates it.
func (s *PostService) ListFeed(ctx context.Context, page int) ([]*models.Post, error) {
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * s.pageSize

	var posts []*models.Post
	if page == 1 {
		err := cache.Aside(ctx, cache.FeedFirstPageKey, &posts, cache.FeedTTL, func() error {
			var fetchErr error
			posts, fetchErr = s.postRepo.ListFeed(ctx, s.now(), s.pageSize, 0)
			return fetchErr
		})
		return posts, err
	}
	return s.postRepo.ListFeed(ctx, s.now(), s.pageSize, offset)
}

// ListByCategory resolves a published category by slug and returns one page of
// its published posts. An absent or unpublished slug is NotFound; the per-post
// category-publication check is already covered by the slug lookup.
func (s *PostService) ListByCategory(ctx context.Context, slug string, page int) (*models.Category, []*models.Post, error) {
	category, err := s.categoryRepo.GetPublishedBySlug(ctx, slug)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, models.NewNotFoundError("Category", slug)
	}
	if err != nil {
		return nil, nil, err
	}

	if page < 1 {
		page = 1
	}
	posts, err := s.postRepo.ListByCategory(ctx, category.ID, s.now(), s.pageSize, (page-1)*s.pageSize)
	if err != nil {
		return nil, nil, err
	}
	return category, posts, nil
}

// ListByAuthor resolves a user by handle and returns one page of their posts.
// The profile owner sees everything they wrote, drafts and future posts
// included; everyone else gets the public composition.
func (s *PostService) ListByAuthor(ctx context.Context, username string, viewerID uint, page int) (*models.User, []*models.Post, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		return nil, nil, models.NewNotFoundError("User", username)
	}

	if page < 1 {
		page = 1
	}
	visibleOnly := viewerID != user.ID
	posts, err := s.postRepo.ListByAuthor(ctx, user.ID, visibleOnly, s.now(), s.pageSize, (page-1)*s.pageSize)
	if err != nil {
		return nil, nil, err
	}
	return user, posts, nil
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if in.Title == "" {
		return nil, models.NewValidationError("Title is required")
	}
	if len(in.Title) > maxTitleLen {
		return nil, models.NewValidationError("Title too long (max 300 characters)")
	}
	if in.Text == "" {
		return nil, models.NewValidationError("Text is required")
	}
	if err := s.validateReferences(ctx, in.CategoryID, in.LocationID); err != nil {
		return nil, err
	}

	pubDate := s.now()
	if in.PubDate != nil {
		pubDate = *in.PubDate
	}
	published := true
	if in.Published != nil {
		published = *in.Published
	}

	post := &models.Post{
		Title:       in.Title,
		Text:        in.Text,
		PubDate:     pubDate,
		IsPublished: published,
		AuthorID:    in.AuthorID,
		CategoryID:  in.CategoryID,
		LocationID:  in.LocationID,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, post.ID)
}

func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFoundError("Post", in.PostID)
	}
	if err != nil {
		return nil, err
	}

	if err := RequireAuthor(in.ActorID, post); err != nil {
		return nil, err
	}
	if err := s.validateReferences(ctx, in.CategoryID, in.LocationID); err != nil {
		return nil, err
	}

	if in.Title != "" {
		if len(in.Title) > maxTitleLen {
			return nil, models.NewValidationError("Title too long (max 300 characters)")
		}
		post.Title = in.Title
	}
	if in.Text != "" {
		post.Text = in.Text
	}
	if in.PubDate != nil {
		post.PubDate = *in.PubDate
	}
	if in.Published != nil {
		post.IsPublished = *in.Published
	}
	if in.CategoryID != nil {
		post.CategoryID = in.CategoryID
	}
	if in.LocationID != nil {
		post.LocationID = in.LocationID
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, post.ID)
}

func (s *PostService) DeletePost(ctx context.Context, actorID, postID uint) error {
	post, err := s.postRepo.GetByID(ctx, postID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundError("Post", postID)
	}
	if err != nil {
		return err
	}

	if err := RequireAuthor(actorID, post); err != nil {
		return err
	}

	return s.postRepo.Delete(ctx, postID)
}
