package server

import (
	"errors"

	"bookclub/internal/models"
	"bookclub/internal/service"

	"github.com/gofiber/fiber/v2"
)

// respondLikeError keeps the like endpoints' legacy body shape: state
// conflicts come back as 400 {"detail": ...} rather than the standard
// error envelope.
func respondLikeError(c *fiber.Ctx, err error) error {
	var appErr *models.AppError
	if errors.As(err, &appErr) && appErr.Code == models.CodeValidation {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"detail": appErr.Message})
	}
	return models.RespondAppError(c, err)
}

// GetPosts handles GET /api/posts
func (s *Server) GetPosts(c *fiber.Ctx) error {
	p := parsePagination(c, 20)

	posts, err := s.postService.ListPosts(c.Context(), optionalUserID(c), p.Limit, p.Offset)
	if err != nil {
		return models.RespondAppError(c, err)
	}
	return c.JSON(posts)
}

// GetPost handles GET /api/posts/:id
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postService.GetPost(c.Context(), id, optionalUserID(c))
	if err != nil {
		return models.RespondAppError(c, err)
	}
	return c.JSON(post)
}

// CreatePost handles POST /api/posts
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req service.CreatePostInput
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	req.UserID = currentUserID(c)

	post, err := s.postService.CreatePost(c.Context(), req)
	if err != nil {
		return models.RespondAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// UpdatePost handles PUT /api/posts/:id
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req service.UpdatePostInput
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	req.UserID = currentUserID(c)
	req.PostID = id

	post, err := s.postService.UpdatePost(c.Context(), req)
	if err != nil {
		return models.RespondAppError(c, err)
	}
	return c.JSON(post)
}

// DeletePost handles DELETE /api/posts/:id
func (s *Server) DeletePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.postService.DeletePost(c.Context(), currentUserID(c), id); err != nil {
		return models.RespondAppError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// LikePost handles POST /api/posts/:id/like
func (s *Server) LikePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.postService.LikePost(c.Context(), currentUserID(c), id); err != nil {
		return respondLikeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"detail": "Post liked"})
}

// UnlikePost handles POST /api/posts/:id/unlike
func (s *Server) UnlikePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.postService.UnlikePost(c.Context(), currentUserID(c), id); err != nil {
		return respondLikeError(c, err)
	}
	return c.JSON(fiber.Map{"detail": "Post unliked"})
}

// Feed handles GET /api/feed, returning posts by followed users newest first.
func (s *Server) Feed(c *fiber.Ctx) error {
	p := parsePagination(c, 20)

	posts, err := s.postService.Feed(c.Context(), currentUserID(c), p.Limit, p.Offset)
	if err != nil {
		return models.RespondAppError(c, err)
	}
	return c.JSON(posts)
}
