package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"inkwell/internal/config"
	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/repository"
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupHandlerTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Location{},
		&models.Post{},
		&models.Comment{},
	))
	return db
}

// newTestServer wires a Server against an in-memory database, skipping the
// metrics and Redis layers.
func newTestServer(t *testing.T) (*Server, *gorm.DB) {
	t.Helper()
	db := setupHandlerTestDB(t)
	cfg := &config.Config{
		JWTSecret: "test-secret-key-needs-to-be-long-enough",
		PageSize:  10,
		Env:       "test",
	}

	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	locationRepo := repository.NewLocationRepository(db)

	s := &Server{
		config:       cfg,
		db:           db,
		userRepo:     userRepo,
		postRepo:     postRepo,
		commentRepo:  commentRepo,
		categoryRepo: categoryRepo,
		locationRepo: locationRepo,
	}
	s.postService = service.NewPostService(postRepo, categoryRepo, locationRepo, userRepo, cfg.PageSize)
	s.commentService = service.NewCommentService(commentRepo, postRepo, cfg.PageSize)
	s.userService = service.NewUserService(userRepo)
	return s, db
}

// actAs injects an authenticated user the way AuthRequired would.
func actAs(userID uint) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if userID != 0 {
			c.Locals("userID", userID)
		}
		return c.Next()
	}
}

func createTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()
	user := &models.User{Username: username, Email: username + "@example.com", Password: "pw"}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestCategory(t *testing.T, db *gorm.DB, slug string, published bool) *models.Category {
	t.Helper()
	category := &models.Category{Title: slug, Slug: slug, IsPublished: published}
	require.NoError(t, db.Create(category).Error)
	return category
}

func createTestPost(t *testing.T, db *gorm.DB, author *models.User, category *models.Category, published bool, pubDate time.Time) *models.Post {
	t.Helper()
	post := &models.Post{
		Title: "Post", Text: "body", PubDate: pubDate,
		IsPublished: published, AuthorID: author.ID,
	}
	if category != nil {
		post.CategoryID = &category.ID
	}
	require.NoError(t, db.Create(post).Error)
	return post
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) *http.Response {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestGetPost_VisibilityMatrix(t *testing.T) {
	s, db := newTestServer(t)
	author := createTestUser(t, db, "author")
	stranger := createTestUser(t, db, "stranger")
	category := createTestCategory(t, db, "travel", true)
	draft := createTestPost(t, db, author, category, false, time.Now().Add(-time.Hour))

	cases := []struct {
		name     string
		viewerID uint
		want     int
	}{
		{"author sees own draft", author.ID, http.StatusOK},
		{"stranger gets 404", stranger.ID, http.StatusNotFound},
		{"anonymous gets 404", 0, http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/api/posts/:id", actAs(tc.viewerID), s.GetPost)

			resp := doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/posts/%d", draft.ID), nil)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, tc.want, resp.StatusCode)
		})
	}
}

func TestGetPost_MissingAndInvisibleAreIdentical(t *testing.T) {
	s, db := newTestServer(t)
	author := createTestUser(t, db, "author")
	category := createTestCategory(t, db, "travel", true)
	scheduled := createTestPost(t, db, author, category, true, time.Now().Add(24*time.Hour))

	app := fiber.New()
	app.Get("/api/posts/:id", s.GetPost)

	respInvisible := doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/posts/%d", scheduled.ID), nil)
	defer func() { _ = respInvisible.Body.Close() }()
	respMissing := doJSON(t, app, http.MethodGet, "/api/posts/99999", nil)
	defer func() { _ = respMissing.Body.Close() }()

	assert.Equal(t, http.StatusNotFound, respInvisible.StatusCode)
	assert.Equal(t, http.StatusNotFound, respMissing.StatusCode)
}

func TestGetFeed_OnlyVisiblePosts(t *testing.T) {
	s, db := newTestServer(t)
	author := createTestUser(t, db, "author")
	category := createTestCategory(t, db, "travel", true)
	hiddenCategory := createTestCategory(t, db, "secrets", false)

	visible := createTestPost(t, db, author, category, true, time.Now().Add(-time.Hour))
	createTestPost(t, db, author, category, false, time.Now().Add(-time.Hour))
	createTestPost(t, db, author, category, true, time.Now().Add(24*time.Hour))
	createTestPost(t, db, author, hiddenCategory, true, time.Now().Add(-time.Hour))

	app := fiber.New()
	app.Get("/api/posts", s.GetFeed)

	resp := doJSON(t, app, http.MethodGet, "/api/posts", nil)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Posts []models.Post `json:"posts"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Posts, 1)
	assert.Equal(t, visible.ID, body.Posts[0].ID)
}

func TestUpdatePost_NonAuthorRedirectedToDetail(t *testing.T) {
	s, db := newTestServer(t)
	author := createTestUser(t, db, "author")
	stranger := createTestUser(t, db, "stranger")
	category := createTestCategory(t, db, "travel", true)
	post := createTestPost(t, db, author, category, true, time.Now().Add(-time.Hour))

	app := fiber.New()
	app.Put("/api/posts/:id", actAs(stranger.ID), s.UpdatePost)

	resp := doJSON(t, app, http.MethodPut, fmt.Sprintf("/api/posts/%d", post.ID),
		fiber.Map{"title": "Hijacked"})
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, fmt.Sprintf("/api/posts/%d", post.ID), resp.Header.Get("Location"))

	var reloaded models.Post
	require.NoError(t, db.First(&reloaded, post.ID).Error)
	assert.Equal(t, "Post", reloaded.Title)
}

func TestDeletePost_AuthorSucceeds(t *testing.T) {
	s, db := newTestServer(t)
	author := createTestUser(t, db, "author")
	category := createTestCategory(t, db, "travel", true)
	post := createTestPost(t, db, author, category, true, time.Now().Add(-time.Hour))

	app := fiber.New()
	app.Delete("/api/posts/:id", actAs(author.ID), s.DeletePost)

	resp := doJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/posts/%d", post.ID), nil)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	err := db.First(&models.Post{}, post.ID).Error
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestCreateComment_SelfCommentOnDraft(t *testing.T) {
	s, db := newTestServer(t)
	author := createTestUser(t, db, "author")
	stranger := createTestUser(t, db, "stranger")
	category := createTestCategory(t, db, "travel", true)
	draft := createTestPost(t, db, author, category, false, time.Now().Add(-time.Hour))

	authorApp := fiber.New()
	authorApp.Post("/api/posts/:id/comments", actAs(author.ID), s.CreateComment)

	resp := doJSON(t, authorApp, http.MethodPost,
		fmt.Sprintf("/api/posts/%d/comments", draft.ID), fiber.Map{"text": "note"})
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, fmt.Sprintf("/api/posts/%d", draft.ID), resp.Header.Get("Location"))

	strangerApp := fiber.New()
	strangerApp.Post("/api/posts/:id/comments", actAs(stranger.ID), s.CreateComment)

	resp = doJSON(t, strangerApp, http.MethodPost,
		fmt.Sprintf("/api/posts/%d/comments", draft.ID), fiber.Map{"text": "hi"})
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUpdateComment_NonAuthorRedirectedToPost(t *testing.T) {
	s, db := newTestServer(t)
	author := createTestUser(t, db, "author")
	commenter := createTestUser(t, db, "commenter")
	intruder := createTestUser(t, db, "intruder")
	category := createTestCategory(t, db, "travel", true)
	post := createTestPost(t, db, author, category, true, time.Now().Add(-time.Hour))

	comment := &models.Comment{Text: "original", IsPublished: true, AuthorID: commenter.ID, PostID: post.ID}
	require.NoError(t, db.Create(comment).Error)

	app := fiber.New()
	app.Put("/api/posts/:id/comments/:commentID", actAs(intruder.ID), s.UpdateComment)

	resp := doJSON(t, app, http.MethodPut,
		fmt.Sprintf("/api/posts/%d/comments/%d", post.ID, comment.ID), fiber.Map{"text": "edited"})
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, fmt.Sprintf("/api/posts/%d", post.ID), resp.Header.Get("Location"))

	var reloaded models.Comment
	require.NoError(t, db.First(&reloaded, comment.ID).Error)
	assert.Equal(t, "original", reloaded.Text)
}

func TestGetProfile_OwnerSeesDrafts(t *testing.T) {
	s, db := newTestServer(t)
	owner := createTestUser(t, db, "owner")
	visitor := createTestUser(t, db, "visitor")
	category := createTestCategory(t, db, "travel", true)
	createTestPost(t, db, owner, category, true, time.Now().Add(-time.Hour))
	createTestPost(t, db, owner, category, false, time.Now().Add(-time.Hour))

	fetchPosts := func(viewerID uint) []models.Post {
		app := fiber.New()
		app.Get("/api/profiles/:username", actAs(viewerID), s.GetProfile)
		resp := doJSON(t, app, http.MethodGet, "/api/profiles/owner", nil)
		defer func() { _ = resp.Body.Close() }()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var body struct {
			Posts []models.Post `json:"posts"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		return body.Posts
	}

	assert.Len(t, fetchPosts(owner.ID), 2)
	assert.Len(t, fetchPosts(visitor.ID), 1)
	assert.Len(t, fetchPosts(0), 1)
}

func TestGetCategoryFeed(t *testing.T) {
	s, db := newTestServer(t)
	author := createTestUser(t, db, "author")
	category := createTestCategory(t, db, "travel", true)
	createTestCategory(t, db, "secrets", false)
	createTestPost(t, db, author, category, true, time.Now().Add(-time.Hour))
	createTestPost(t, db, author, category, false, time.Now().Add(-time.Hour))

	app := fiber.New()
	app.Get("/api/categories/:slug/posts", s.GetCategoryFeed)

	resp := doJSON(t, app, http.MethodGet, "/api/categories/travel/posts", nil)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Posts []models.Post `json:"posts"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Len(t, body.Posts, 1)

	// An unpublished category slug answers like an unknown one.
	resp = doJSON(t, app, http.MethodGet, "/api/categories/secrets/posts", nil)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, "/api/categories/ghost/posts", nil)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSignupAndLoginFlow(t *testing.T) {
	s, _ := newTestServer(t)
	middleware.InitMiddleware(s.config)

	app := fiber.New()
	app.Post("/api/auth/signup", s.Signup)
	app.Post("/api/auth/login", s.Login)
	app.Get("/api/users/me", middleware.AuthRequired, s.GetMyProfile)

	resp := doJSON(t, app, http.MethodPost, "/api/auth/signup", fiber.Map{
		"username": "newuser", "email": "new@example.com", "password": "longenough1",
	})
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// Duplicate email
	resp = doJSON(t, app, http.MethodPost, "/api/auth/signup", fiber.Map{
		"username": "newuser2", "email": "new@example.com", "password": "longenough1",
	})
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPost, "/api/auth/login", fiber.Map{
		"email": "new@example.com", "password": "longenough1",
	})
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var loginBody struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&loginBody))
	require.NotEmpty(t, loginBody.Token)

	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+loginBody.Token)
	meResp, err := app.Test(req)
	require.NoError(t, err)
	defer func() { _ = meResp.Body.Close() }()
	assert.Equal(t, http.StatusOK, meResp.StatusCode)

	resp = doJSON(t, app, http.MethodPost, "/api/auth/login", fiber.Map{
		"email": "new@example.com", "password": "wrongpassword",
	})
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestCreatePost_UnknownCategoryIsBadRequest(t *testing.T) {
	s, db := newTestServer(t)
	author := createTestUser(t, db, "author")

	app := fiber.New()
	app.Post("/api/posts", actAs(author.ID), s.CreatePost)

	resp := doJSON(t, app, http.MethodPost, "/api/posts", fiber.Map{
		"title": "t", "text": "body", "category_id": 9999,
	})
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPost, "/api/posts", fiber.Map{
		"title": "t", "text": "body", "location_id": 9999,
	})
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSignup_RejectsInvalidInput(t *testing.T) {
	s, _ := newTestServer(t)
	app := fiber.New()
	app.Post("/api/auth/signup", s.Signup)

	cases := []struct {
		name string
		body fiber.Map
	}{
		{"bad username chars", fiber.Map{"username": "no spaces!", "email": "a@example.com", "password": "longenough1"}},
		{"reserved username", fiber.Map{"username": "admin", "email": "a@example.com", "password": "longenough1"}},
		{"bad email", fiber.Map{"username": "gooduser", "email": "not-an-email", "password": "longenough1"}},
		{"short password", fiber.Map{"username": "gooduser", "email": "a@example.com", "password": "abc1234"}},
		{"password without digit", fiber.Map{"username": "gooduser", "email": "a@example.com", "password": "longenough"}},
		{"password without letter", fiber.Map{"username": "gooduser", "email": "a@example.com", "password": "1234567890"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := doJSON(t, app, http.MethodPost, "/api/auth/signup", tc.body)
			defer func() { _ = resp.Body.Close() }()
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestUpdateMyProfile(t *testing.T) {
	s, db := newTestServer(t)
	user := createTestUser(t, db, "me")

	app := fiber.New()
	app.Put("/api/users/me", actAs(user.ID), s.UpdateMyProfile)

	resp := doJSON(t, app, http.MethodPut, "/api/users/me", fiber.Map{
		"first_name": "Ada", "bio": "writes things",
	})
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var reloaded models.User
	require.NoError(t, db.First(&reloaded, user.ID).Error)
	assert.Equal(t, "Ada", reloaded.FirstName)
	assert.Equal(t, "writes things", reloaded.Bio)
}
