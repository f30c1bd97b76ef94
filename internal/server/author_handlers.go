package server

import (
	"bookclub/internal/models"
	"bookclub/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetAuthors handles GET /api/authors
func (s *Server) GetAuthors(c *fiber.Ctx) error {
	p := parsePagination(c, 20)

	authors, err := s.authorService.ListAuthors(c.Context(), p.Limit, p.Offset)
	if err != nil {
		return models.RespondAppError(c, err)
	}

	out := make([]models.AuthorResponse, 0, len(authors))
	for _, a := range authors {
		out = append(out, a.ToResponse())
	}
	return c.JSON(out)
}

// GetAuthor handles GET /api/authors/:id with the author's books nested.
func (s *Server) GetAuthor(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	author, err := s.authorService.GetAuthor(c.Context(), id)
	if err != nil {
		return models.RespondAppError(c, err)
	}
	return c.JSON(author.ToResponse())
}

// CreateAuthor handles POST /api/authors
func (s *Server) CreateAuthor(c *fiber.Ctx) error {
	var req service.AuthorInput
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	author, err := s.authorService.CreateAuthor(c.Context(), req)
	if err != nil {
		return models.RespondAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(author.ToResponse())
}

// UpdateAuthor handles PUT /api/authors/:id
func (s *Server) UpdateAuthor(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req service.AuthorInput
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	author, err := s.authorService.UpdateAuthor(c.Context(), id, req)
	if err != nil {
		return models.RespondAppError(c, err)
	}
	return c.JSON(author.ToResponse())
}

// DeleteAuthor handles DELETE /api/authors/:id
func (s *Server) DeleteAuthor(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.authorService.DeleteAuthor(c.Context(), id); err != nil {
		return models.RespondAppError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
