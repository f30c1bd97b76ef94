package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"bookclub/internal/models"
	"bookclub/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// bookRepoStub is a stub for repository.BookRepository.
type bookRepoStub struct {
	createFn  func(context.Context, *models.Book) error
	getByIDFn func(context.Context, uint) (*models.Book, error)
	listFn    func(context.Context, repository.BookListOptions) ([]*models.Book, error)
	updateFn  func(context.Context, *models.Book) error
	deleteFn  func(context.Context, uint) error
}

func (s *bookRepoStub) Create(ctx context.Context, book *models.Book) error {
	return s.createFn(ctx, book)
}
func (s *bookRepoStub) GetByID(ctx context.Context, id uint) (*models.Book, error) {
	return s.getByIDFn(ctx, id)
}
func (s *bookRepoStub) List(ctx context.Context, opts repository.BookListOptions) ([]*models.Book, error) {
	return s.listFn(ctx, opts)
}
func (s *bookRepoStub) Update(ctx context.Context, book *models.Book) error {
	return s.updateFn(ctx, book)
}
func (s *bookRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

// authorRepoStub is a stub for repository.AuthorRepository.
type authorRepoStub struct {
	createFn  func(context.Context, *models.Author) error
	getByIDFn func(context.Context, uint) (*models.Author, error)
	existsFn  func(context.Context, uint) (bool, error)
	listFn    func(context.Context, int, int) ([]*models.Author, error)
	updateFn  func(context.Context, *models.Author) error
	deleteFn  func(context.Context, uint) error
}

func (s *authorRepoStub) Create(ctx context.Context, author *models.Author) error {
	return s.createFn(ctx, author)
}
func (s *authorRepoStub) GetByID(ctx context.Context, id uint) (*models.Author, error) {
	return s.getByIDFn(ctx, id)
}
func (s *authorRepoStub) Exists(ctx context.Context, id uint) (bool, error) {
	return s.existsFn(ctx, id)
}
func (s *authorRepoStub) List(ctx context.Context, limit, offset int) ([]*models.Author, error) {
	return s.listFn(ctx, limit, offset)
}
func (s *authorRepoStub) Update(ctx context.Context, author *models.Author) error {
	return s.updateFn(ctx, author)
}
func (s *authorRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func authorExists(context.Context, uint) (bool, error) { return true, nil }

func TestBookService_CreateBook(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		bookRepo := &bookRepoStub{
			createFn: func(_ context.Context, book *models.Book) error {
				book.ID = 1
				return nil
			},
		}
		svc := NewBookService(bookRepo, &authorRepoStub{existsFn: authorExists})

		book, err := svc.CreateBook(ctx, CreateBookInput{
			Title: "Foundation", PublicationYear: 1951, AuthorID: 1,
		})
		require.NoError(t, err)
		assert.Equal(t, uint(1), book.ID)
	})

	t.Run("future publication year is rejected", func(t *testing.T) {
		svc := NewBookService(&bookRepoStub{}, &authorRepoStub{existsFn: authorExists})

		_, err := svc.CreateBook(ctx, CreateBookInput{
			Title:           "Foundation",
			PublicationYear: time.Now().Year() + 1,
			AuthorID:        1,
		})
		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, models.CodeValidation, appErr.Code)
		assert.Contains(t, appErr.Fields, "publication_year")
	})

	t.Run("the current year is allowed", func(t *testing.T) {
		bookRepo := &bookRepoStub{
			createFn: func(context.Context, *models.Book) error { return nil },
		}
		svc := NewBookService(bookRepo, &authorRepoStub{existsFn: authorExists})

		_, err := svc.CreateBook(ctx, CreateBookInput{
			Title:           "Brand New",
			PublicationYear: time.Now().Year(),
			AuthorID:        1,
		})
		assert.NoError(t, err)
	})

	t.Run("unknown author is a field error", func(t *testing.T) {
		authorRepo := &authorRepoStub{
			existsFn: func(context.Context, uint) (bool, error) { return false, nil },
		}
		svc := NewBookService(&bookRepoStub{}, authorRepo)

		_, err := svc.CreateBook(ctx, CreateBookInput{
			Title: "Foundation", PublicationYear: 1951, AuthorID: 99,
		})
		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Contains(t, appErr.Fields, "author")
	})

	t.Run("author lookup failure is not a field error", func(t *testing.T) {
		lookupErr := models.NewInternalError(errors.New("connection reset"))
		authorRepo := &authorRepoStub{
			existsFn: func(context.Context, uint) (bool, error) { return false, lookupErr },
		}
		svc := NewBookService(&bookRepoStub{}, authorRepo)

		_, err := svc.CreateBook(ctx, CreateBookInput{
			Title: "Foundation", PublicationYear: 1951, AuthorID: 1,
		})
		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, models.CodeInternal, appErr.Code)
	})
}

func TestBookService_UpdateBook_RequiresAllFields(t *testing.T) {
	bookRepo := &bookRepoStub{
		getByIDFn: func(_ context.Context, id uint) (*models.Book, error) {
			return &models.Book{ID: id, Title: "Foundation", PublicationYear: 1951, AuthorID: 1}, nil
		},
	}
	svc := NewBookService(bookRepo, &authorRepoStub{existsFn: authorExists})

	_, err := svc.UpdateBook(context.Background(), UpdateBookInput{BookID: 1, Title: "Foundation"})
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeValidation, appErr.Code)
	assert.Contains(t, appErr.Fields, "publication_year")
	assert.Contains(t, appErr.Fields, "author")
	assert.NotContains(t, appErr.Fields, "title")
}

func TestBookService_PatchBook(t *testing.T) {
	ctx := context.Background()
	stored := &models.Book{ID: 1, Title: "Foundation", PublicationYear: 1951, AuthorID: 1}

	t.Run("untouched fields keep their values", func(t *testing.T) {
		var saved *models.Book
		bookRepo := &bookRepoStub{
			getByIDFn: func(context.Context, uint) (*models.Book, error) {
				b := *stored
				return &b, nil
			},
			updateFn: func(_ context.Context, book *models.Book) error {
				saved = book
				return nil
			},
		}
		svc := NewBookService(bookRepo, &authorRepoStub{existsFn: authorExists})

		title := "Foundation and Empire"
		book, err := svc.PatchBook(ctx, PatchBookInput{BookID: 1, Title: &title})
		require.NoError(t, err)
		assert.Equal(t, "Foundation and Empire", book.Title)
		assert.Equal(t, 1951, book.PublicationYear)
		assert.Equal(t, uint(1), book.AuthorID)
		require.NotNil(t, saved)
		assert.Equal(t, 1951, saved.PublicationYear)
	})

	t.Run("future year is rejected without side effects", func(t *testing.T) {
		bookRepo := &bookRepoStub{
			getByIDFn: func(context.Context, uint) (*models.Book, error) {
				b := *stored
				return &b, nil
			},
			updateFn: func(context.Context, *models.Book) error {
				t.Fatal("no update expected")
				return nil
			},
		}
		svc := NewBookService(bookRepo, &authorRepoStub{existsFn: authorExists})

		year := time.Now().Year() + 5
		_, err := svc.PatchBook(ctx, PatchBookInput{BookID: 1, PublicationYear: &year})
		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Contains(t, appErr.Fields, "publication_year")
	})
}
