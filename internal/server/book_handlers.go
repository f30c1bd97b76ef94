package server

import (
	"bookclub/internal/models"
	"bookclub/internal/repository"
	"bookclub/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetBooks handles GET /api/books
// Query parameters: title, author, publication_year (exact filters),
// search (title or author name, case-insensitive), ordering, limit, offset.
func (s *Server) GetBooks(c *fiber.Ctx) error {
	p := parsePagination(c, 20)
	opts := repository.BookListOptions{
		Title:           c.Query("title"),
		AuthorID:        uint(c.QueryInt("author", 0)),
		PublicationYear: c.QueryInt("publication_year", 0),
		Search:          c.Query("search"),
		Ordering:        c.Query("ordering"),
		Limit:           p.Limit,
		Offset:          p.Offset,
	}

	books, err := s.bookService.ListBooks(c.Context(), opts)
	if err != nil {
		return models.RespondAppError(c, err)
	}
	return c.JSON(models.BookResponses(books))
}

// GetBook handles GET /api/books/:id
func (s *Server) GetBook(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	book, err := s.bookService.GetBook(c.Context(), id)
	if err != nil {
		return models.RespondAppError(c, err)
	}
	return c.JSON(book.ToResponse())
}

// CreateBook handles POST /api/books/create
func (s *Server) CreateBook(c *fiber.Ctx) error {
	var req service.CreateBookInput
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	book, err := s.bookService.CreateBook(c.Context(), req)
	if err != nil {
		return models.RespondAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(book.ToResponse())
}

// UpdateBook handles PUT /api/books/update/:id with a full replacement.
func (s *Server) UpdateBook(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req service.UpdateBookInput
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	req.BookID = id

	book, err := s.bookService.UpdateBook(c.Context(), req)
	if err != nil {
		return models.RespondAppError(c, err)
	}
	return c.JSON(book.ToResponse())
}

// PatchBook handles PATCH /api/books/update/:id with a partial update.
func (s *Server) PatchBook(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req service.PatchBookInput
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}
	req.BookID = id

	book, err := s.bookService.PatchBook(c.Context(), req)
	if err != nil {
		return models.RespondAppError(c, err)
	}
	return c.JSON(book.ToResponse())
}

// DeleteBook handles DELETE /api/books/delete/:id
func (s *Server) DeleteBook(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.bookService.DeleteBook(c.Context(), id); err != nil {
		return models.RespondAppError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
