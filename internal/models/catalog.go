package models

import "time"

// Author represents a book author in the catalog.
type Author struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Books cascade-deletes with the author.
	Books []Book `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"books,omitempty"`
}

// Book represents a published book belonging to exactly one author.
type Book struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Title           string    `gorm:"not null;index" json:"title"`
	PublicationYear int       `gorm:"not null" json:"publication_year"`
	AuthorID        uint      `gorm:"not null;index" json:"author_id"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	Author *Author `gorm:"foreignKey:AuthorID" json:"author,omitempty"`

	// Libraries holding this book. Deleting a book removes join rows only.
	Libraries []Library `gorm:"many2many:library_books;" json:"libraries,omitempty"`
}

// Library holds a set of books. Books and libraries are many-to-many.
type Library struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Books     []Book     `gorm:"many2many:library_books;" json:"books,omitempty"`
	Librarian *Librarian `gorm:"foreignKey:LibraryID" json:"librarian,omitempty"`
}

// Librarian assigns a user to exactly one library; the unique index on
// library_id enforces one librarian per library.
type Librarian struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null" json:"user_id"`
	LibraryID uint      `gorm:"not null;uniqueIndex" json:"library_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
}

// BookResponse is the wire shape of a book. The field list here is the
// contract; it is mapped explicitly rather than derived from the model.
type BookResponse struct {
	ID              uint   `json:"id"`
	Title           string `json:"title"`
	PublicationYear int    `json:"publication_year"`
	AuthorID        uint   `json:"author"`
}

// AuthorResponse is the wire shape of an author with its books nested read-only.
type AuthorResponse struct {
	ID    uint           `json:"id"`
	Name  string         `json:"name"`
	Books []BookResponse `json:"books"`
}

// ToResponse maps a book onto its wire shape.
func (b *Book) ToResponse() BookResponse {
	return BookResponse{
		ID:              b.ID,
		Title:           b.Title,
		PublicationYear: b.PublicationYear,
		AuthorID:        b.AuthorID,
	}
}

// ToResponse maps an author and its loaded books onto the wire shape.
// Books always serializes as a list, never null.
func (a *Author) ToResponse() AuthorResponse {
	books := make([]BookResponse, 0, len(a.Books))
	for i := range a.Books {
		books = append(books, a.Books[i].ToResponse())
	}
	return AuthorResponse{
		ID:    a.ID,
		Name:  a.Name,
		Books: books,
	}
}

// BookResponses maps a slice of books onto wire shapes.
func BookResponses(books []*Book) []BookResponse {
	out := make([]BookResponse, 0, len(books))
	for _, b := range books {
		out = append(out, b.ToResponse())
	}
	return out
}
