package service

import (
	"context"
	"time"

	"inkwell/internal/models"

	"gorm.io/gorm"
)

// stubPostRepo is an in-memory PostRepository. Visibility is declared per
// post ID instead of being computed, so service tests pin down what the
// service does with each outcome rather than re-testing the SQL.
type stubPostRepo struct {
	posts   map[uint]*models.Post
	visible map[uint]bool
	nextID  uint

	feed            []*models.Post
	lastVisibleOnly bool
	deletedIDs      []uint
}

func newStubPostRepo() *stubPostRepo {
	return &stubPostRepo{
		posts:   make(map[uint]*models.Post),
		visible: make(map[uint]bool),
		nextID:  1,
	}
}

func (s *stubPostRepo) add(post *models.Post, visible bool) *models.Post {
	if post.ID == 0 {
		post.ID = s.nextID
		s.nextID++
	}
	s.posts[post.ID] = post
	s.visible[post.ID] = visible
	return post
}

func (s *stubPostRepo) Create(ctx context.Context, post *models.Post) error {
	s.add(post, post.IsPublished)
	return nil
}

func (s *stubPostRepo) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	post, ok := s.posts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return post, nil
}

func (s *stubPostRepo) GetVisibleByID(ctx context.Context, id uint, now time.Time) (*models.Post, error) {
	post, ok := s.posts[id]
	if !ok || !s.visible[id] {
		return nil, gorm.ErrRecordNotFound
	}
	return post, nil
}

func (s *stubPostRepo) ListFeed(ctx context.Context, now time.Time, limit, offset int) ([]*models.Post, error) {
	return s.feed, nil
}

func (s *stubPostRepo) ListByCategory(ctx context.Context, categoryID uint, now time.Time, limit, offset int) ([]*models.Post, error) {
	var out []*models.Post
	for _, p := range s.feed {
		if p.CategoryID != nil && *p.CategoryID == categoryID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *stubPostRepo) ListByAuthor(ctx context.Context, authorID uint, visibleOnly bool, now time.Time, limit, offset int) ([]*models.Post, error) {
	s.lastVisibleOnly = visibleOnly
	var out []*models.Post
	for _, p := range s.posts {
		if p.AuthorID != authorID {
			continue
		}
		if visibleOnly && !s.visible[p.ID] {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (s *stubPostRepo) Update(ctx context.Context, post *models.Post) error {
	s.posts[post.ID] = post
	return nil
}

func (s *stubPostRepo) Delete(ctx context.Context, id uint) error {
	delete(s.posts, id)
	s.deletedIDs = append(s.deletedIDs, id)
	return nil
}

type stubCategoryRepo struct {
	bySlug map[string]*models.Category
}

func newStubCategoryRepo() *stubCategoryRepo {
	return &stubCategoryRepo{bySlug: make(map[string]*models.Category)}
}

func (s *stubCategoryRepo) GetPublishedBySlug(ctx context.Context, slug string) (*models.Category, error) {
	category, ok := s.bySlug[slug]
	if !ok || !category.IsPublished {
		return nil, gorm.ErrRecordNotFound
	}
	return category, nil
}

func (s *stubCategoryRepo) GetByID(ctx context.Context, id uint) (*models.Category, error) {
	for _, c := range s.bySlug {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubCategoryRepo) List(ctx context.Context) ([]*models.Category, error) {
	var out []*models.Category
	for _, c := range s.bySlug {
		if c.IsPublished {
			out = append(out, c)
		}
	}
	return out, nil
}

type stubLocationRepo struct {
	byID map[uint]*models.Location
}

func newStubLocationRepo() *stubLocationRepo {
	return &stubLocationRepo{byID: make(map[uint]*models.Location)}
}

func (s *stubLocationRepo) GetByID(ctx context.Context, id uint) (*models.Location, error) {
	location, ok := s.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return location, nil
}

func (s *stubLocationRepo) List(ctx context.Context) ([]*models.Location, error) {
	var out []*models.Location
	for _, l := range s.byID {
		if l.IsPublished {
			out = append(out, l)
		}
	}
	return out, nil
}

type stubUserRepo struct {
	users  map[uint]*models.User
	nextID uint
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[uint]*models.User), nextID: 1}
}

func (s *stubUserRepo) add(user *models.User) *models.User {
	if user.ID == 0 {
		user.ID = s.nextID
		s.nextID++
	}
	s.users[user.ID] = user
	return user
}

func (s *stubUserRepo) Create(ctx context.Context, user *models.User) error {
	s.add(user)
	return nil
}

func (s *stubUserRepo) GetByID(ctx context.Context, id uint) (*models.User, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (s *stubUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (s *stubUserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	for _, u := range s.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, nil
}

func (s *stubUserRepo) Update(ctx context.Context, user *models.User) error {
	s.users[user.ID] = user
	return nil
}

type stubCommentRepo struct {
	comments map[uint]*models.Comment
	nextID   uint
}

func newStubCommentRepo() *stubCommentRepo {
	return &stubCommentRepo{comments: make(map[uint]*models.Comment), nextID: 1}
}

func (s *stubCommentRepo) add(comment *models.Comment) *models.Comment {
	if comment.ID == 0 {
		comment.ID = s.nextID
		s.nextID++
	}
	s.comments[comment.ID] = comment
	return comment
}

func (s *stubCommentRepo) Create(ctx context.Context, comment *models.Comment) error {
	s.add(comment)
	return nil
}

func (s *stubCommentRepo) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	comment, ok := s.comments[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return comment, nil
}

func (s *stubCommentRepo) ListByPost(ctx context.Context, postID uint, limit, offset int) ([]*models.Comment, error) {
	var out []*models.Comment
	for _, c := range s.comments {
		if c.PostID == postID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *stubCommentRepo) CountByPost(ctx context.Context, postID uint) (int64, error) {
	var count int64
	for _, c := range s.comments {
		if c.PostID == postID {
			count++
		}
	}
	return count, nil
}

func (s *stubCommentRepo) Update(ctx context.Context, comment *models.Comment) error {
	s.comments[comment.ID] = comment
	return nil
}

func (s *stubCommentRepo) Delete(ctx context.Context, id uint) error {
	delete(s.comments, id)
	return nil
}
