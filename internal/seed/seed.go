// Package seed provides database seeding utilities for development and testing.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"
)

// Options configures how much data the seeder creates.
type Options struct {
	NumUsers int
	NumPosts int
	Clean    bool
}

// Seeder populates the database with demo data.
type Seeder struct {
	db  *gorm.DB
	rnd *rand.Rand
}

// NewSeeder creates a Seeder bound to the provided Gorm DB.
func NewSeeder(db *gorm.DB) *Seeder {
	gofakeit.Seed(time.Now().UnixNano())
	//nolint:gosec // Weak random number generator is fine for seeding
	return &Seeder{db: db, rnd: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// ClearAll truncates every seeded table so runs start from a clean slate.
func (s *Seeder) ClearAll() error {
	log.Println("Clearing existing data...")
	sql := `TRUNCATE TABLE notifications, likes, comments, posts, follows,
		librarians, library_books, libraries, books, authors,
		profiles, users RESTART IDENTITY CASCADE;`
	return s.db.Exec(sql).Error
}

// Run seeds users, the book catalog, and a social mesh of posts, follows,
// comments, and likes.
func (s *Seeder) Run(opts Options) error {
	log.Printf("Seeding %d users and %d posts...", opts.NumUsers, opts.NumPosts)

	if opts.Clean {
		if err := s.ClearAll(); err != nil {
			return fmt.Errorf("failed to clear data: %w", err)
		}
	}

	users, err := s.createUsers(opts.NumUsers)
	if err != nil {
		return fmt.Errorf("failed to create users: %w", err)
	}
	log.Printf("created %d users", len(users))

	authors, books, err := s.createCatalog()
	if err != nil {
		return fmt.Errorf("failed to create catalog: %w", err)
	}
	log.Printf("created %d authors and %d books", len(authors), len(books))

	if err := s.createLibraries(users, books); err != nil {
		return fmt.Errorf("failed to create libraries: %w", err)
	}

	posts, err := s.createPosts(users, opts.NumPosts)
	if err != nil {
		return fmt.Errorf("failed to create posts: %w", err)
	}
	log.Printf("created %d posts", len(posts))

	if err := s.createFollows(users); err != nil {
		return fmt.Errorf("failed to create follows: %w", err)
	}
	if err := s.createEngagement(users, posts); err != nil {
		return fmt.Errorf("failed to create comments and likes: %w", err)
	}

	log.Println("Seeding completed")
	return nil
}
