package service

import (
	"context"
	"errors"
	"testing"

	"bookclub/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// libraryRepoStub is a stub for repository.LibraryRepository.
type libraryRepoStub struct {
	createFn          func(context.Context, *models.Library) error
	getByIDFn         func(context.Context, uint) (*models.Library, error)
	listFn            func(context.Context, int, int) ([]*models.Library, error)
	updateFn          func(context.Context, *models.Library) error
	deleteFn          func(context.Context, uint) error
	attachBookFn      func(context.Context, uint, uint) error
	detachBookFn      func(context.Context, uint, uint) error
	assignLibrarianFn func(context.Context, uint, uint) error
	getLibrarianFn    func(context.Context, uint) (*models.Librarian, error)
}

func (s *libraryRepoStub) Create(ctx context.Context, library *models.Library) error {
	return s.createFn(ctx, library)
}
func (s *libraryRepoStub) GetByID(ctx context.Context, id uint) (*models.Library, error) {
	return s.getByIDFn(ctx, id)
}
func (s *libraryRepoStub) List(ctx context.Context, limit, offset int) ([]*models.Library, error) {
	return s.listFn(ctx, limit, offset)
}
func (s *libraryRepoStub) Update(ctx context.Context, library *models.Library) error {
	return s.updateFn(ctx, library)
}
func (s *libraryRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *libraryRepoStub) AttachBook(ctx context.Context, libraryID, bookID uint) error {
	return s.attachBookFn(ctx, libraryID, bookID)
}
func (s *libraryRepoStub) DetachBook(ctx context.Context, libraryID, bookID uint) error {
	return s.detachBookFn(ctx, libraryID, bookID)
}
func (s *libraryRepoStub) AssignLibrarian(ctx context.Context, libraryID, userID uint) error {
	return s.assignLibrarianFn(ctx, libraryID, userID)
}
func (s *libraryRepoStub) GetLibrarian(ctx context.Context, libraryID uint) (*models.Librarian, error) {
	return s.getLibrarianFn(ctx, libraryID)
}

func libraryExists(id uint) func(context.Context, uint) (*models.Library, error) {
	return func(_ context.Context, got uint) (*models.Library, error) {
		if got != id {
			return nil, models.NewNotFoundError("Library", got)
		}
		return &models.Library{ID: id, Name: "Central"}, nil
	}
}

func TestAssignLibrarian(t *testing.T) {
	userWithRole := func(role models.Role) *userRepoStub {
		return &userRepoStub{
			getByIDFn: func(_ context.Context, id uint) (*models.User, error) {
				return &models.User{ID: id, Username: "dors"}, nil
			},
			getRoleFn: func(context.Context, uint) (models.Role, error) {
				return role, nil
			},
		}
	}

	t.Run("librarian role is accepted", func(t *testing.T) {
		var assignedUser, assignedLibrary uint
		libraries := &libraryRepoStub{
			getByIDFn: libraryExists(1),
			assignLibrarianFn: func(_ context.Context, libraryID, userID uint) error {
				assignedLibrary, assignedUser = libraryID, userID
				return nil
			},
		}
		svc := NewLibraryService(libraries, nil, userWithRole(models.RoleLibrarian))

		err := svc.AssignLibrarian(context.Background(), 1, 5)

		require.NoError(t, err)
		assert.Equal(t, uint(1), assignedLibrary)
		assert.Equal(t, uint(5), assignedUser)
	})

	t.Run("admin role is accepted", func(t *testing.T) {
		libraries := &libraryRepoStub{
			getByIDFn: libraryExists(1),
			assignLibrarianFn: func(context.Context, uint, uint) error {
				return nil
			},
		}
		svc := NewLibraryService(libraries, nil, userWithRole(models.RoleAdmin))

		assert.NoError(t, svc.AssignLibrarian(context.Background(), 1, 5))
	})

	t.Run("member role is refused", func(t *testing.T) {
		libraries := &libraryRepoStub{
			getByIDFn: libraryExists(1),
			assignLibrarianFn: func(context.Context, uint, uint) error {
				t.Fatal("assign must not be called for members")
				return nil
			},
		}
		svc := NewLibraryService(libraries, nil, userWithRole(models.RoleMember))

		err := svc.AssignLibrarian(context.Background(), 1, 5)

		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, models.CodeValidation, appErr.Code)
		assert.Equal(t, "User must hold the librarian role", appErr.Message)
	})

	t.Run("unknown library is reported before the user lookup", func(t *testing.T) {
		libraries := &libraryRepoStub{getByIDFn: libraryExists(1)}
		svc := NewLibraryService(libraries, nil, userWithRole(models.RoleLibrarian))

		err := svc.AssignLibrarian(context.Background(), 99, 5)

		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, models.CodeNotFound, appErr.Code)
	})
}

func TestAddBook(t *testing.T) {
	t.Run("attaches when both sides exist", func(t *testing.T) {
		attached := false
		libraries := &libraryRepoStub{
			getByIDFn: libraryExists(1),
			attachBookFn: func(_ context.Context, libraryID, bookID uint) error {
				attached = true
				return nil
			},
		}
		books := &bookRepoStub{
			getByIDFn: func(_ context.Context, id uint) (*models.Book, error) {
				return &models.Book{ID: id, Title: "Foundation"}, nil
			},
		}
		svc := NewLibraryService(libraries, books, nil)

		require.NoError(t, svc.AddBook(context.Background(), 1, 3))
		assert.True(t, attached)
	})

	t.Run("unknown book is reported", func(t *testing.T) {
		libraries := &libraryRepoStub{getByIDFn: libraryExists(1)}
		books := &bookRepoStub{
			getByIDFn: func(_ context.Context, id uint) (*models.Book, error) {
				return nil, models.NewNotFoundError("Book", id)
			},
		}
		svc := NewLibraryService(libraries, books, nil)

		err := svc.AddBook(context.Background(), 1, 99)

		var appErr *models.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, models.CodeNotFound, appErr.Code)
	})
}

func TestCreateLibrary_NameRequired(t *testing.T) {
	svc := NewLibraryService(&libraryRepoStub{
		createFn: func(context.Context, *models.Library) error {
			return errors.New("create must not be called")
		},
	}, nil, nil)

	_, err := svc.CreateLibrary(context.Background(), LibraryInput{})

	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeValidation, appErr.Code)
	assert.Contains(t, appErr.Fields, "name")
}
