package server

import (
	"strconv"
	"time"

	"inkwell/internal/models"
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetFeed handles GET /api/posts
func (s *Server) GetFeed(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	posts, err := s.postService.ListFeed(c.UserContext(), page)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{
		"posts": posts,
		"page":  page,
	})
}

// GetPost handles GET /api/posts/:id. The response bundles the first page of
// comments so the detail view needs a single round trip.
func (s *Server) GetPost(c *fiber.Ctx) error {
	postID, err := parseIDParam(c, "id")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid post ID"))
	}
	viewerID := s.optionalUserID(c)

	post, err := s.postService.GetPostDetail(c.UserContext(), postID, viewerID)
	if err != nil {
		return respondServiceError(c, err)
	}

	comments, err := s.commentService.ListForPost(c.UserContext(), postID, viewerID, 1)
	if err != nil {
		return respondServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"post":        post,
		"comments":    comments,
		"can_comment": viewerID != 0,
	})
}

// CreatePost handles POST /api/posts
func (s *Server) CreatePost(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Authentication required"))
	}

	var req struct {
		Title      string     `json:"title"`
		Text       string     `json:"text"`
		PubDate    *time.Time `json:"pub_date"`
		Published  *bool      `json:"is_published"`
		CategoryID *uint      `json:"category_id"`
		LocationID *uint      `json:"location_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.CreatePost(c.UserContext(), service.CreatePostInput{
		AuthorID:   userID,
		Title:      req.Title,
		Text:       req.Text,
		PubDate:    req.PubDate,
		Published:  req.Published,
		CategoryID: req.CategoryID,
		LocationID: req.LocationID,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// UpdatePost handles PUT /api/posts/:id
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Authentication required"))
	}
	postID, err := parseIDParam(c, "id")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid post ID"))
	}

	var req struct {
		Title      string     `json:"title"`
		Text       string     `json:"text"`
		PubDate    *time.Time `json:"pub_date"`
		Published  *bool      `json:"is_published"`
		CategoryID *uint      `json:"category_id"`
		LocationID *uint      `json:"location_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.UpdatePost(c.UserContext(), service.UpdatePostInput{
		ActorID:    userID,
		PostID:     postID,
		Title:      req.Title,
		Text:       req.Text,
		PubDate:    req.PubDate,
		Published:  req.Published,
		CategoryID: req.CategoryID,
		LocationID: req.LocationID,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(post)
}

// DeletePost handles DELETE /api/posts/:id
func (s *Server) DeletePost(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Authentication required"))
	}
	postID, err := parseIDParam(c, "id")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid post ID"))
	}

	if err := s.postService.DeletePost(c.UserContext(), userID, postID); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func parseIDParam(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
