package service

import (
	"context"
	"fmt"
	"time"

	"bookclub/internal/models"
	"bookclub/internal/repository"
)

type BookService struct {
	bookRepo   repository.BookRepository
	authorRepo repository.AuthorRepository
}

type CreateBookInput struct {
	Title           string `json:"title"`
	PublicationYear int    `json:"publication_year"`
	AuthorID        uint   `json:"author"`
}

// UpdateBookInput carries a full replacement; every field is required.
type UpdateBookInput struct {
	BookID          uint
	Title           string `json:"title"`
	PublicationYear int    `json:"publication_year"`
	AuthorID        uint   `json:"author"`
}

// PatchBookInput carries a partial update; nil fields keep their value.
type PatchBookInput struct {
	BookID          uint
	Title           *string `json:"title"`
	PublicationYear *int    `json:"publication_year"`
	AuthorID        *uint   `json:"author"`
}

func NewBookService(bookRepo repository.BookRepository, authorRepo repository.AuthorRepository) *BookService {
	return &BookService{bookRepo: bookRepo, authorRepo: authorRepo}
}

// validatePublicationYear bounds the year to the present. The bound moves
// with the clock, so a year valid last December stays valid now.
func validatePublicationYear(year int) error {
	current := time.Now().Year()
	if year > current {
		return fmt.Errorf("Publication year cannot be in the future (current year: %d)", current)
	}
	return nil
}

func (s *BookService) validateBookFields(ctx context.Context, title string, year int, authorID uint) (map[string]string, error) {
	fields := map[string]string{}
	if title == "" {
		fields["title"] = "Title is required"
	}
	if year == 0 {
		fields["publication_year"] = "Publication year is required"
	} else if err := validatePublicationYear(year); err != nil {
		fields["publication_year"] = err.Error()
	}
	if authorID == 0 {
		fields["author"] = "Author is required"
	} else if exists, err := s.authorRepo.Exists(ctx, authorID); err != nil {
		return nil, err
	} else if !exists {
		fields["author"] = fmt.Sprintf("Author %d does not exist", authorID)
	}
	return fields, nil
}

func (s *BookService) CreateBook(ctx context.Context, in CreateBookInput) (*models.Book, error) {
	fields, err := s.validateBookFields(ctx, in.Title, in.PublicationYear, in.AuthorID)
	if err != nil {
		return nil, err
	}
	if len(fields) > 0 {
		return nil, models.NewFieldValidationError(fields)
	}

	book := &models.Book{
		Title:           in.Title,
		PublicationYear: in.PublicationYear,
		AuthorID:        in.AuthorID,
	}
	if err := s.bookRepo.Create(ctx, book); err != nil {
		return nil, err
	}
	return book, nil
}

func (s *BookService) GetBook(ctx context.Context, id uint) (*models.Book, error) {
	return s.bookRepo.GetByID(ctx, id)
}

func (s *BookService) ListBooks(ctx context.Context, opts repository.BookListOptions) ([]*models.Book, error) {
	return s.bookRepo.List(ctx, opts)
}

// UpdateBook replaces the book wholesale. Omitted fields are validation
// errors, not holes to fill from the stored row.
func (s *BookService) UpdateBook(ctx context.Context, in UpdateBookInput) (*models.Book, error) {
	book, err := s.bookRepo.GetByID(ctx, in.BookID)
	if err != nil {
		return nil, err
	}

	fields, err := s.validateBookFields(ctx, in.Title, in.PublicationYear, in.AuthorID)
	if err != nil {
		return nil, err
	}
	if len(fields) > 0 {
		return nil, models.NewFieldValidationError(fields)
	}

	book.Title = in.Title
	book.PublicationYear = in.PublicationYear
	book.AuthorID = in.AuthorID
	if err := s.bookRepo.Update(ctx, book); err != nil {
		return nil, err
	}
	return book, nil
}

// PatchBook updates only the provided fields; everything else keeps its
// stored value.
func (s *BookService) PatchBook(ctx context.Context, in PatchBookInput) (*models.Book, error) {
	book, err := s.bookRepo.GetByID(ctx, in.BookID)
	if err != nil {
		return nil, err
	}

	fields := map[string]string{}
	if in.Title != nil {
		if *in.Title == "" {
			fields["title"] = "Title cannot be blank"
		} else {
			book.Title = *in.Title
		}
	}
	if in.PublicationYear != nil {
		if err := validatePublicationYear(*in.PublicationYear); err != nil {
			fields["publication_year"] = err.Error()
		} else {
			book.PublicationYear = *in.PublicationYear
		}
	}
	if in.AuthorID != nil {
		if exists, err := s.authorRepo.Exists(ctx, *in.AuthorID); err != nil {
			return nil, err
		} else if !exists {
			fields["author"] = fmt.Sprintf("Author %d does not exist", *in.AuthorID)
		} else {
			book.AuthorID = *in.AuthorID
		}
	}
	if len(fields) > 0 {
		return nil, models.NewFieldValidationError(fields)
	}

	if err := s.bookRepo.Update(ctx, book); err != nil {
		return nil, err
	}
	return book, nil
}

func (s *BookService) DeleteBook(ctx context.Context, id uint) error {
	return s.bookRepo.Delete(ctx, id)
}
