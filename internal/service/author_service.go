package service

import (
	"context"

	"bookclub/internal/models"
	"bookclub/internal/repository"
)

type AuthorService struct {
	authorRepo repository.AuthorRepository
}

type AuthorInput struct {
	Name string `json:"name"`
}

func NewAuthorService(authorRepo repository.AuthorRepository) *AuthorService {
	return &AuthorService{authorRepo: authorRepo}
}

func (s *AuthorService) CreateAuthor(ctx context.Context, in AuthorInput) (*models.Author, error) {
	if in.Name == "" {
		return nil, models.NewFieldValidationError(map[string]string{"name": "Name is required"})
	}
	author := &models.Author{Name: in.Name}
	if err := s.authorRepo.Create(ctx, author); err != nil {
		return nil, err
	}
	return author, nil
}

func (s *AuthorService) GetAuthor(ctx context.Context, id uint) (*models.Author, error) {
	return s.authorRepo.GetByID(ctx, id)
}

func (s *AuthorService) ListAuthors(ctx context.Context, limit, offset int) ([]*models.Author, error) {
	return s.authorRepo.List(ctx, limit, offset)
}

func (s *AuthorService) UpdateAuthor(ctx context.Context, id uint, in AuthorInput) (*models.Author, error) {
	if in.Name == "" {
		return nil, models.NewFieldValidationError(map[string]string{"name": "Name is required"})
	}
	author, err := s.authorRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	author.Name = in.Name
	if err := s.authorRepo.Update(ctx, author); err != nil {
		return nil, err
	}
	return author, nil
}

// DeleteAuthor removes the author and, through the store's cascade, every
// book attributed to them.
func (s *AuthorService) DeleteAuthor(ctx context.Context, id uint) error {
	return s.authorRepo.Delete(ctx, id)
}
