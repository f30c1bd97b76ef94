package repository

import (
	"context"
	"errors"

	"bookclub/internal/models"

	"gorm.io/gorm"
)

// LibraryRepository defines the interface for library data operations
type LibraryRepository interface {
	Create(ctx context.Context, library *models.Library) error
	GetByID(ctx context.Context, id uint) (*models.Library, error)
	List(ctx context.Context, limit, offset int) ([]*models.Library, error)
	Update(ctx context.Context, library *models.Library) error
	Delete(ctx context.Context, id uint) error
	AttachBook(ctx context.Context, libraryID, bookID uint) error
	DetachBook(ctx context.Context, libraryID, bookID uint) error
	AssignLibrarian(ctx context.Context, libraryID, userID uint) error
	GetLibrarian(ctx context.Context, libraryID uint) (*models.Librarian, error)
}

type libraryRepository struct {
	db *gorm.DB
}

// NewLibraryRepository creates a new library repository
func NewLibraryRepository(db *gorm.DB) LibraryRepository {
	return &libraryRepository{db: db}
}

func (r *libraryRepository) Create(ctx context.Context, library *models.Library) error {
	if err := r.db.WithContext(ctx).Create(library).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *libraryRepository) GetByID(ctx context.Context, id uint) (*models.Library, error) {
	var library models.Library
	err := r.db.WithContext(ctx).
		Preload("Books", func(db *gorm.DB) *gorm.DB {
			return db.Order("books.id ASC")
		}).
		First(&library, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Library", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &library, nil
}

func (r *libraryRepository) List(ctx context.Context, limit, offset int) ([]*models.Library, error) {
	var libraries []*models.Library
	err := r.db.WithContext(ctx).
		Preload("Books", func(db *gorm.DB) *gorm.DB {
			return db.Order("books.id ASC")
		}).
		Order("libraries.id ASC").
		Limit(limit).
		Offset(offset).
		Find(&libraries).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return libraries, nil
}

func (r *libraryRepository) Update(ctx context.Context, library *models.Library) error {
	if err := r.db.WithContext(ctx).Save(library).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *libraryRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Library{}, id)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Library", id)
	}
	return nil
}

// AttachBook adds a book to the library's collection. Attaching a book that
// is already in the collection is a no-op.
func (r *libraryRepository) AttachBook(ctx context.Context, libraryID, bookID uint) error {
	res := r.db.WithContext(ctx).Exec(
		`INSERT INTO library_books (library_id, book_id) VALUES (?, ?)
		 ON CONFLICT (library_id, book_id) DO NOTHING`, libraryID, bookID)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	return nil
}

func (r *libraryRepository) DetachBook(ctx context.Context, libraryID, bookID uint) error {
	res := r.db.WithContext(ctx).Exec(
		`DELETE FROM library_books WHERE library_id = ? AND book_id = ?`, libraryID, bookID)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	return nil
}

// AssignLibrarian makes the user the library's librarian, replacing any
// previous holder. A library has at most one librarian.
func (r *libraryRepository) AssignLibrarian(ctx context.Context, libraryID, userID uint) error {
	res := r.db.WithContext(ctx).Exec(
		`INSERT INTO librarians (user_id, library_id, created_at) VALUES (?, ?, NOW())
		 ON CONFLICT (library_id) DO UPDATE SET user_id = EXCLUDED.user_id`, userID, libraryID)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	return nil
}

func (r *libraryRepository) GetLibrarian(ctx context.Context, libraryID uint) (*models.Librarian, error) {
	var librarian models.Librarian
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("library_id = ?", libraryID).
		First(&librarian).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Librarian", libraryID)
		}
		return nil, models.NewInternalError(err)
	}
	return &librarian, nil
}
