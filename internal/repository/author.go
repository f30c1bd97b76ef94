package repository

import (
	"context"
	"errors"

	"bookclub/internal/cache"
	"bookclub/internal/models"

	"gorm.io/gorm"
)

// AuthorRepository defines the interface for author data operations
type AuthorRepository interface {
	Create(ctx context.Context, author *models.Author) error
	GetByID(ctx context.Context, id uint) (*models.Author, error)
	Exists(ctx context.Context, id uint) (bool, error)
	List(ctx context.Context, limit, offset int) ([]*models.Author, error)
	Update(ctx context.Context, author *models.Author) error
	Delete(ctx context.Context, id uint) error
}

type authorRepository struct {
	db *gorm.DB
}

// NewAuthorRepository creates a new author repository
func NewAuthorRepository(db *gorm.DB) AuthorRepository {
	return &authorRepository{db: db}
}

func (r *authorRepository) Create(ctx context.Context, author *models.Author) error {
	if err := r.db.WithContext(ctx).Create(author).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// GetByID loads the author with its book collection for the nested
// representation.
func (r *authorRepository) GetByID(ctx context.Context, id uint) (*models.Author, error) {
	var author models.Author
	err := r.db.WithContext(ctx).
		Preload("Books", func(db *gorm.DB) *gorm.DB {
			return db.Order("books.id ASC")
		}).
		First(&author, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Author", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &author, nil
}

func (r *authorRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Author{}).Where("id = ?", id).Count(&count).Error
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *authorRepository) List(ctx context.Context, limit, offset int) ([]*models.Author, error) {
	var authors []*models.Author
	err := r.db.WithContext(ctx).
		Preload("Books", func(db *gorm.DB) *gorm.DB {
			return db.Order("books.id ASC")
		}).
		Order("authors.id ASC").
		Limit(limit).
		Offset(offset).
		Find(&authors).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return authors, nil
}

func (r *authorRepository) Update(ctx context.Context, author *models.Author) error {
	if err := r.db.WithContext(ctx).Save(author).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// Delete removes the author; books cascade at the store level, so their
// cached entries are dropped here as well.
func (r *authorRepository) Delete(ctx context.Context, id uint) error {
	var bookIDs []uint
	if err := r.db.WithContext(ctx).Model(&models.Book{}).Where("author_id = ?", id).Pluck("id", &bookIDs).Error; err != nil {
		return models.NewInternalError(err)
	}

	res := r.db.WithContext(ctx).Delete(&models.Author{}, id)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Author", id)
	}

	for _, bookID := range bookIDs {
		cache.InvalidateBook(ctx, bookID)
	}
	return nil
}
