package seed

import (
	"fmt"
	"time"

	"bookclub/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// BuildUser constructs an unsaved user with generated fields. The password
// hash is shared across seed users to keep bcrypt cost out of the loop.
func (s *Seeder) BuildUser(hashed string) *models.User {
	return &models.User{
		Username: fmt.Sprintf("%s%d", gofakeit.Username(), gofakeit.Number(100, 999)),
		Email:    gofakeit.Email(),
		Password: hashed,
		Bio:      gofakeit.Sentence(10),
	}
}

// BuildPost constructs an unsaved post for the given user with a creation
// time spread over the past 90 days.
func (s *Seeder) BuildPost(user *models.User) *models.Post {
	daysBack := s.rnd.Intn(90)
	hoursBack := s.rnd.Intn(24)
	return &models.Post{
		Title:     gofakeit.Sentence(5),
		Content:   gofakeit.Paragraph(1, 3, 5, "\n"),
		UserID:    user.ID,
		CreatedAt: time.Now().Add(-time.Duration(daysBack)*24*time.Hour - time.Duration(hoursBack)*time.Hour),
	}
}

func (s *Seeder) createUsers(count int) ([]models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	users := make([]models.User, 0, count)

	// Fixed accounts for each role so logins stay predictable across runs.
	fixed := []struct {
		username string
		role     models.Role
	}{
		{"admin", models.RoleAdmin},
		{"librarian", models.RoleLibrarian},
		{"member", models.RoleMember},
	}
	for _, f := range fixed {
		user := models.User{
			Username: f.username,
			Email:    fmt.Sprintf("%s@example.com", f.username),
			Password: string(hashed),
			Bio:      gofakeit.Sentence(8),
		}
		if err := s.createUserWithRole(&user, f.role); err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	for i := len(users); i < count; i++ {
		user := s.BuildUser(string(hashed))
		if err := s.createUserWithRole(user, models.RoleMember); err != nil {
			// Username collisions are possible with generated data; skip.
			continue
		}
		users = append(users, *user)
	}

	return users, nil
}

func (s *Seeder) createUserWithRole(user *models.User, role models.Role) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		return tx.Create(&models.Profile{UserID: user.ID, Role: role}).Error
	})
}

func (s *Seeder) createCatalog() ([]models.Author, []models.Book, error) {
	authors := make([]models.Author, 0, 20)
	books := make([]models.Book, 0, 60)

	for i := 0; i < 20; i++ {
		author := models.Author{Name: gofakeit.Name()}
		if err := s.db.Create(&author).Error; err != nil {
			return nil, nil, err
		}
		authors = append(authors, author)

		for j := 0; j < s.rnd.Intn(4)+1; j++ {
			book := models.Book{
				Title:           gofakeit.BookTitle(),
				PublicationYear: gofakeit.Number(1900, time.Now().Year()),
				AuthorID:        author.ID,
			}
			if err := s.db.Create(&book).Error; err != nil {
				return nil, nil, err
			}
			books = append(books, book)
		}
	}

	return authors, books, nil
}

func (s *Seeder) createLibraries(users []models.User, books []models.Book) error {
	for i := 0; i < 5; i++ {
		library := models.Library{Name: fmt.Sprintf("%s Library", gofakeit.City())}
		if err := s.db.Create(&library).Error; err != nil {
			return err
		}

		for _, book := range books {
			if s.rnd.Float32() > 0.3 {
				continue
			}
			err := s.db.Exec(
				`INSERT INTO library_books (library_id, book_id) VALUES (?, ?) ON CONFLICT DO NOTHING`,
				library.ID, book.ID).Error
			if err != nil {
				return err
			}
		}

		// The fixed librarian account runs the first library.
		if i == 0 && len(users) > 1 {
			err := s.db.Exec(
				`INSERT INTO librarians (user_id, library_id, created_at) VALUES (?, ?, NOW())
				 ON CONFLICT (library_id) DO UPDATE SET user_id = EXCLUDED.user_id`,
				users[1].ID, library.ID).Error
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Seeder) createPosts(users []models.User, count int) ([]models.Post, error) {
	if len(users) == 0 {
		return nil, nil
	}

	posts := make([]models.Post, 0, count)
	for i := 0; i < count; i++ {
		user := users[s.rnd.Intn(len(users))]
		post := s.BuildPost(&user)
		if err := s.db.Create(post).Error; err != nil {
			return nil, err
		}
		posts = append(posts, *post)
	}
	return posts, nil
}

func (s *Seeder) createFollows(users []models.User) error {
	for i := range users {
		for j := range users {
			if i == j || s.rnd.Float32() > 0.2 {
				continue
			}
			err := s.db.Exec(
				`INSERT INTO follows (follower_id, followee_id, created_at) VALUES (?, ?, NOW())
				 ON CONFLICT (follower_id, followee_id) DO NOTHING`,
				users[i].ID, users[j].ID).Error
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Seeder) createEngagement(users []models.User, posts []models.Post) error {
	if len(users) == 0 {
		return nil
	}

	for _, post := range posts {
		for i := 0; i < s.rnd.Intn(5); i++ {
			user := users[s.rnd.Intn(len(users))]
			comment := models.Comment{
				Content: gofakeit.Sentence(8),
				UserID:  user.ID,
				PostID:  post.ID,
			}
			if err := s.db.Create(&comment).Error; err != nil {
				return err
			}
		}

		for i := 0; i < s.rnd.Intn(8); i++ {
			user := users[s.rnd.Intn(len(users))]
			err := s.db.Exec(
				`INSERT INTO likes (user_id, post_id, created_at) VALUES (?, ?, NOW())
				 ON CONFLICT (user_id, post_id) DO NOTHING`,
				user.ID, post.ID).Error
			if err != nil {
				return err
			}
		}
	}
	return nil
}
