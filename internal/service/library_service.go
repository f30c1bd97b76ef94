package service

import (
	"context"

	"bookclub/internal/models"
	"bookclub/internal/repository"
)

type LibraryService struct {
	libraryRepo repository.LibraryRepository
	bookRepo    repository.BookRepository
	userRepo    repository.UserRepository
}

type LibraryInput struct {
	Name string `json:"name"`
}

func NewLibraryService(
	libraryRepo repository.LibraryRepository,
	bookRepo repository.BookRepository,
	userRepo repository.UserRepository,
) *LibraryService {
	return &LibraryService{libraryRepo: libraryRepo, bookRepo: bookRepo, userRepo: userRepo}
}

func (s *LibraryService) CreateLibrary(ctx context.Context, in LibraryInput) (*models.Library, error) {
	if in.Name == "" {
		return nil, models.NewFieldValidationError(map[string]string{"name": "Name is required"})
	}
	library := &models.Library{Name: in.Name}
	if err := s.libraryRepo.Create(ctx, library); err != nil {
		return nil, err
	}
	return library, nil
}

func (s *LibraryService) GetLibrary(ctx context.Context, id uint) (*models.Library, error) {
	return s.libraryRepo.GetByID(ctx, id)
}

func (s *LibraryService) ListLibraries(ctx context.Context, limit, offset int) ([]*models.Library, error) {
	return s.libraryRepo.List(ctx, limit, offset)
}

func (s *LibraryService) UpdateLibrary(ctx context.Context, id uint, in LibraryInput) (*models.Library, error) {
	if in.Name == "" {
		return nil, models.NewFieldValidationError(map[string]string{"name": "Name is required"})
	}
	library, err := s.libraryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	library.Name = in.Name
	if err := s.libraryRepo.Update(ctx, library); err != nil {
		return nil, err
	}
	return library, nil
}

func (s *LibraryService) DeleteLibrary(ctx context.Context, id uint) error {
	return s.libraryRepo.Delete(ctx, id)
}

// AddBook places a book in the library's collection. Both sides must exist;
// a repeat add is a quiet success.
func (s *LibraryService) AddBook(ctx context.Context, libraryID, bookID uint) error {
	if _, err := s.libraryRepo.GetByID(ctx, libraryID); err != nil {
		return err
	}
	if _, err := s.bookRepo.GetByID(ctx, bookID); err != nil {
		return err
	}
	return s.libraryRepo.AttachBook(ctx, libraryID, bookID)
}

func (s *LibraryService) RemoveBook(ctx context.Context, libraryID, bookID uint) error {
	if _, err := s.libraryRepo.GetByID(ctx, libraryID); err != nil {
		return err
	}
	return s.libraryRepo.DetachBook(ctx, libraryID, bookID)
}

// AssignLibrarian puts a user in charge of a library. The user must hold
// the librarian role; assigning replaces any previous holder.
func (s *LibraryService) AssignLibrarian(ctx context.Context, libraryID, userID uint) error {
	if _, err := s.libraryRepo.GetByID(ctx, libraryID); err != nil {
		return err
	}
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return err
	}
	role, err := s.userRepo.GetRole(ctx, userID)
	if err != nil {
		return err
	}
	if role != models.RoleLibrarian && role != models.RoleAdmin {
		return models.NewValidationError("User must hold the librarian role")
	}
	return s.libraryRepo.AssignLibrarian(ctx, libraryID, userID)
}

func (s *LibraryService) GetLibrarian(ctx context.Context, libraryID uint) (*models.Librarian, error) {
	return s.libraryRepo.GetLibrarian(ctx, libraryID)
}
