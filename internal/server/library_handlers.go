package server

import (
	"bookclub/internal/models"
	"bookclub/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetLibraries handles GET /api/libraries
func (s *Server) GetLibraries(c *fiber.Ctx) error {
	p := parsePagination(c, 20)

	libraries, err := s.libraryService.ListLibraries(c.Context(), p.Limit, p.Offset)
	if err != nil {
		return models.RespondAppError(c, err)
	}
	return c.JSON(libraries)
}

// GetLibrary handles GET /api/libraries/:id
func (s *Server) GetLibrary(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	library, err := s.libraryService.GetLibrary(c.Context(), id)
	if err != nil {
		return models.RespondAppError(c, err)
	}
	return c.JSON(library)
}

// CreateLibrary handles POST /api/libraries
func (s *Server) CreateLibrary(c *fiber.Ctx) error {
	var req service.LibraryInput
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	library, err := s.libraryService.CreateLibrary(c.Context(), req)
	if err != nil {
		return models.RespondAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(library)
}

// UpdateLibrary handles PUT /api/libraries/:id
func (s *Server) UpdateLibrary(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req service.LibraryInput
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	library, err := s.libraryService.UpdateLibrary(c.Context(), id, req)
	if err != nil {
		return models.RespondAppError(c, err)
	}
	return c.JSON(library)
}

// DeleteLibrary handles DELETE /api/libraries/:id
func (s *Server) DeleteLibrary(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.libraryService.DeleteLibrary(c.Context(), id); err != nil {
		return models.RespondAppError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// AddLibraryBook handles POST /api/libraries/:id/books/:bookId
func (s *Server) AddLibraryBook(c *fiber.Ctx) error {
	libraryID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	bookID, err := s.parseID(c, "bookId")
	if err != nil {
		return nil
	}

	if err := s.libraryService.AddBook(c.Context(), libraryID, bookID); err != nil {
		return models.RespondAppError(c, err)
	}
	return c.JSON(fiber.Map{"detail": "Book added to library"})
}

// RemoveLibraryBook handles DELETE /api/libraries/:id/books/:bookId
func (s *Server) RemoveLibraryBook(c *fiber.Ctx) error {
	libraryID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	bookID, err := s.parseID(c, "bookId")
	if err != nil {
		return nil
	}

	if err := s.libraryService.RemoveBook(c.Context(), libraryID, bookID); err != nil {
		return models.RespondAppError(c, err)
	}
	return c.JSON(fiber.Map{"detail": "Book removed from library"})
}

// AssignLibrarian handles POST /api/libraries/:id/librarian/:userId
func (s *Server) AssignLibrarian(c *fiber.Ctx) error {
	libraryID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}

	if err := s.libraryService.AssignLibrarian(c.Context(), libraryID, userID); err != nil {
		return models.RespondAppError(c, err)
	}
	return c.JSON(fiber.Map{"detail": "Librarian assigned"})
}

// GetLibrarian handles GET /api/libraries/:id/librarian
func (s *Server) GetLibrarian(c *fiber.Ctx) error {
	libraryID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	librarian, err := s.libraryService.GetLibrarian(c.Context(), libraryID)
	if err != nil {
		return models.RespondAppError(c, err)
	}
	return c.JSON(librarian)
}
