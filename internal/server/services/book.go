package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/libkeeper/internal/common"
	"github.com/dmitrijs2005/libkeeper/internal/server/cache"
	"github.com/dmitrijs2005/libkeeper/internal/server/models"
	"github.com/dmitrijs2005/libkeeper/internal/server/repositories/books"
)

// Cache keys are deterministic strings encoding the operation and its exact
// parameters: two logically identical requests must produce byte-identical
// keys, and any parameter change (including pagination) is a different key.

func searchCacheKey(query string, page, pageSize int) string {
	return fmt.Sprintf("books:%s:%d:%d", query, page, pageSize)
}

func idCacheKey(id int64) string {
	return fmt.Sprintf("book:id:%d", id)
}

func isbnCacheKey(isbn string) string {
	return fmt.Sprintf("book:isbn:%s", isbn)
}

// BookService implements catalog CRUD with a read-through cache in front of
// the repository. Reads consult the cache first and write back on a miss.
// Update overwrites the two point-lookup keys it touches; Delete performs no
// invalidation, so stale entries remain reachable until their TTL passes.
type BookService struct {
	books books.Repository
	cache *cache.Cache
}

// NewBookService constructs a BookService around the given repository and an
// injected cache instance.
func NewBookService(books books.Repository, c *cache.Cache) *BookService {
	return &BookService{books: books, cache: c}
}

// Search returns one page of books matching query, serving repeated identical
// requests from the cache.
func (s *BookService) Search(ctx context.Context, query string, page, pageSize int) (*models.PagedBooks, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}

	key := searchCacheKey(query, page, pageSize)
	if v, ok := s.cache.Get(key); ok {
		if result, ok := v.(*models.PagedBooks); ok {
			return result, nil
		}
	}

	items, total, err := s.books.Search(ctx, query, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("error searching books: %w", err)
	}

	result := &models.PagedBooks{
		Items:      items,
		TotalCount: total,
		PageNumber: page,
		PageSize:   pageSize,
	}
	s.cache.Set(key, result)

	return result, nil
}

// GetByID returns a single book, cache first.
func (s *BookService) GetByID(ctx context.Context, id int64) (*models.Book, error) {
	key := idCacheKey(id)
	if v, ok := s.cache.Get(key); ok {
		if book, ok := v.(*models.Book); ok {
			return book, nil
		}
	}

	book, err := s.books.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.cache.Set(key, book)

	return book, nil
}

// GetByISBN returns a single book by its business key, cache first.
func (s *BookService) GetByISBN(ctx context.Context, isbn string) (*models.Book, error) {
	key := isbnCacheKey(isbn)
	if v, ok := s.cache.Get(key); ok {
		if book, ok := v.(*models.Book); ok {
			return book, nil
		}
	}

	book, err := s.books.GetByISBN(ctx, isbn)
	if err != nil {
		return nil, err
	}
	s.cache.Set(key, book)

	return book, nil
}

// Create inserts a new book unless one with the same ISBN already exists, in
// which case the existing row is returned unchanged. The lookup and insert
// are not serialized, so two concurrent creates with the same ISBN can still
// race into two rows.
func (s *BookService) Create(ctx context.Context, book *models.Book) (*models.Book, error) {
	existing, err := s.books.GetByISBN(ctx, book.ISBN)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return nil, fmt.Errorf("error checking isbn: %w", err)
	}

	created, err := s.books.Create(ctx, book)
	if err != nil {
		return nil, fmt.Errorf("error creating book: %w", err)
	}
	return created, nil
}

// Update overwrites the book's fields and writes the result through to the
// id and isbn cache keys. Search pages referencing the book stay stale until
// their TTL passes.
func (s *BookService) Update(ctx context.Context, book *models.Book) (*models.Book, error) {
	updated, err := s.books.Update(ctx, book)
	if err != nil {
		return nil, err
	}

	s.cache.Set(idCacheKey(updated.ID), updated)
	s.cache.Set(isbnCacheKey(updated.ISBN), updated)

	return updated, nil
}

// Delete removes the book. Cached entries for it are not invalidated and
// remain reachable until natural TTL expiry.
func (s *BookService) Delete(ctx context.Context, id int64) error {
	return s.books.Delete(ctx, id)
}

// Count reports the catalog size.
func (s *BookService) Count(ctx context.Context) (int64, error) {
	return s.books.Count(ctx)
}
