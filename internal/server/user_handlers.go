package server

import (
	"bookclub/internal/models"
	"bookclub/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetUsers handles GET /api/users
func (s *Server) GetUsers(c *fiber.Ctx) error {
	p := parsePagination(c, 20)

	users, err := s.userService.ListUsers(c.Context(), p.Limit, p.Offset)
	if err != nil {
		return models.RespondAppError(c, err)
	}
	return c.JSON(users)
}

// GetUser handles GET /api/users/:id
func (s *Server) GetUser(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	user, err := s.userService.GetUser(c.Context(), id)
	if err != nil {
		return models.RespondAppError(c, err)
	}
	return c.JSON(user)
}

// UpdateMyProfile handles PUT /api/users/me
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	var req struct {
		Bio *string `json:"bio"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.UpdateProfile(c.Context(), service.UpdateProfileInput{
		UserID: currentUserID(c),
		Bio:    req.Bio,
	})
	if err != nil {
		return models.RespondAppError(c, err)
	}
	return c.JSON(user)
}

// GetUserPosts handles GET /api/users/:id/posts
func (s *Server) GetUserPosts(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	p := parsePagination(c, 20)

	posts, err := s.postService.ListUserPosts(c.Context(), id, optionalUserID(c), p.Limit, p.Offset)
	if err != nil {
		return models.RespondAppError(c, err)
	}
	return c.JSON(posts)
}

// FollowUser handles POST /api/follow/:userId. Re-following an already
// followed user succeeds with the same response; no notification is sent.
func (s *Server) FollowUser(c *fiber.Ctx) error {
	followeeID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	if err := s.userService.FollowUser(c.Context(), currentUserID(c), followeeID); err != nil {
		return models.RespondAppError(c, err)
	}
	return c.JSON(fiber.Map{"detail": "Now following"})
}

// UnfollowUser handles POST /api/unfollow/:userId
func (s *Server) UnfollowUser(c *fiber.Ctx) error {
	followeeID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	if err := s.userService.UnfollowUser(c.Context(), currentUserID(c), followeeID); err != nil {
		return models.RespondAppError(c, err)
	}
	return c.JSON(fiber.Map{"detail": "Unfollowed"})
}

// GetFollowing handles GET /api/users/:id/following
func (s *Server) GetFollowing(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	users, err := s.userService.Following(c.Context(), id)
	if err != nil {
		return models.RespondAppError(c, err)
	}
	return c.JSON(users)
}

// GetFollowers handles GET /api/users/:id/followers
func (s *Server) GetFollowers(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	users, err := s.userService.Followers(c.Context(), id)
	if err != nil {
		return models.RespondAppError(c, err)
	}
	return c.JSON(users)
}
