// Package books declares the repository contract for catalog rows.
package books

import (
	"context"

	"github.com/dmitrijs2005/libkeeper/internal/server/models"
)

// Repository defines operations over book rows. Lookups that find nothing
// return common.ErrorNotFound; dedupe-by-ISBN policy lives in the service
// layer, not here.
type Repository interface {
	// Search returns one page of books whose title, author or ISBN contains
	// query (case-insensitive), plus the total number of matches. An empty
	// query matches everything.
	Search(ctx context.Context, query string, page, pageSize int) ([]models.Book, int64, error)

	// GetByID returns the book with the given ID.
	GetByID(ctx context.Context, id int64) (*models.Book, error)

	// GetByISBN returns the book with the given ISBN. When duplicates exist
	// (the schema does not forbid them), the oldest row wins.
	GetByISBN(ctx context.Context, isbn string) (*models.Book, error)

	// Create inserts a new book and returns it with the generated ID.
	Create(ctx context.Context, book *models.Book) (*models.Book, error)

	// Update overwrites the book's mutable fields.
	Update(ctx context.Context, book *models.Book) (*models.Book, error)

	// Delete removes the book with the given ID.
	Delete(ctx context.Context, id int64) error

	// Count returns the total number of books in the catalog.
	Count(ctx context.Context) (int64, error)
}
