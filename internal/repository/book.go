package repository

import (
	"context"
	"errors"

	"bookclub/internal/cache"
	"bookclub/internal/models"

	"gorm.io/gorm"
)

// BookListOptions describes the composable query-layer parameters for the
// book list endpoint. Exact filters AND together; search narrows further;
// ordering sorts the surviving set.
type BookListOptions struct {
	Title           string
	AuthorID        uint
	PublicationYear int
	Search          string
	Ordering        string
	Limit           int
	Offset          int
}

// orderingAllowlist maps caller-facing ordering keys to ORDER BY clauses.
// Unknown keys fall back to insertion order, matching the upstream contract.
var orderingAllowlist = map[string]string{
	"title":             "books.title ASC",
	"-title":            "books.title DESC",
	"publication_year":  "books.publication_year ASC",
	"-publication_year": "books.publication_year DESC",
}

// BookRepository defines the interface for book data operations
type BookRepository interface {
	Create(ctx context.Context, book *models.Book) error
	GetByID(ctx context.Context, id uint) (*models.Book, error)
	List(ctx context.Context, opts BookListOptions) ([]*models.Book, error)
	Update(ctx context.Context, book *models.Book) error
	Delete(ctx context.Context, id uint) error
}

type bookRepository struct {
	db *gorm.DB
}

// NewBookRepository creates a new book repository
func NewBookRepository(db *gorm.DB) BookRepository {
	return &bookRepository{db: db}
}

func (r *bookRepository) Create(ctx context.Context, book *models.Book) error {
	if err := r.db.WithContext(ctx).Create(book).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *bookRepository) GetByID(ctx context.Context, id uint) (*models.Book, error) {
	var book models.Book
	err := cache.Aside(ctx, cache.BookKey(id), &book, cache.BookTTL, func() error {
		return r.db.WithContext(ctx).First(&book, id).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Book", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &book, nil
}

func (r *bookRepository) List(ctx context.Context, opts BookListOptions) ([]*models.Book, error) {
	q := r.db.WithContext(ctx).Model(&models.Book{})

	if opts.Title != "" {
		q = q.Where("books.title = ?", opts.Title)
	}
	if opts.AuthorID != 0 {
		q = q.Where("books.author_id = ?", opts.AuthorID)
	}
	if opts.PublicationYear != 0 {
		q = q.Where("books.publication_year = ?", opts.PublicationYear)
	}

	if opts.Search != "" {
		like := "%" + opts.Search + "%"
		q = q.Joins("JOIN authors ON authors.id = books.author_id").
			Where("books.title ILIKE ? OR authors.name ILIKE ?", like, like)
	}

	order := "books.id ASC"
	if clause, ok := orderingAllowlist[opts.Ordering]; ok {
		order = clause
	}

	var books []*models.Book
	err := q.Order(order).
		Limit(opts.Limit).
		Offset(opts.Offset).
		Find(&books).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return books, nil
}

func (r *bookRepository) Update(ctx context.Context, book *models.Book) error {
	if err := r.db.WithContext(ctx).Save(book).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateBook(ctx, book.ID)
	return nil
}

func (r *bookRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Book{}, id)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Book", id)
	}
	cache.InvalidateBook(ctx, id)
	return nil
}
