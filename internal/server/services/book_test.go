package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/libkeeper/internal/common"
	"github.com/dmitrijs2005/libkeeper/internal/server/cache"
	"github.com/dmitrijs2005/libkeeper/internal/server/models"
)

type fakeBooksRepo struct {
	searchOut   []models.Book
	searchTotal int64
	searchErr   error
	searchCalls int

	byID      map[int64]*models.Book
	byIDCalls int

	byISBN      map[string]*models.Book
	byISBNCalls int

	createErr   error
	createCalls int

	updateErr error
	deleteErr error

	countOut int64
}

func (f *fakeBooksRepo) Search(ctx context.Context, query string, page, pageSize int) ([]models.Book, int64, error) {
	f.searchCalls++
	if f.searchErr != nil {
		return nil, 0, f.searchErr
	}
	return f.searchOut, f.searchTotal, nil
}

func (f *fakeBooksRepo) GetByID(ctx context.Context, id int64) (*models.Book, error) {
	f.byIDCalls++
	if b, ok := f.byID[id]; ok {
		return b, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeBooksRepo) GetByISBN(ctx context.Context, isbn string) (*models.Book, error) {
	f.byISBNCalls++
	if b, ok := f.byISBN[isbn]; ok {
		return b, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeBooksRepo) Create(ctx context.Context, book *models.Book) (*models.Book, error) {
	f.createCalls++
	if f.createErr != nil {
		return nil, f.createErr
	}
	book.ID = 101
	return book, nil
}

func (f *fakeBooksRepo) Update(ctx context.Context, book *models.Book) (*models.Book, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	return book, nil
}

func (f *fakeBooksRepo) Delete(ctx context.Context, id int64) error {
	return f.deleteErr
}

func (f *fakeBooksRepo) Count(ctx context.Context) (int64, error) {
	return f.countOut, nil
}

func newBookService(repo *fakeBooksRepo) *BookService {
	return NewBookService(repo, cache.New(time.Minute))
}

func sampleBook() *models.Book {
	return &models.Book{
		ID:            5,
		Title:         "Half of a Yellow Sun",
		Author:        "Chimamanda Ngozi Adichie",
		ISBN:          "9781400095209",
		PublishedDate: time.Date(2006, 9, 12, 0, 0, 0, 0, time.UTC),
	}
}

func TestSearch_SecondIdenticalRequestServedFromCache(t *testing.T) {
	repo := &fakeBooksRepo{searchOut: []models.Book{*sampleBook()}, searchTotal: 1}
	s := newBookService(repo)

	first, err := s.Search(context.Background(), "yellow", 1, 10)
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}
	second, err := s.Search(context.Background(), "yellow", 1, 10)
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}

	if repo.searchCalls != 1 {
		t.Fatalf("identical search must hit the store once, got %d", repo.searchCalls)
	}
	if first != second {
		t.Fatalf("cached result must be returned as-is")
	}
	if second.TotalCount != 1 || second.PageNumber != 1 || second.PageSize != 10 {
		t.Fatalf("unexpected page: %+v", second)
	}
}

func TestSearch_DifferentPageIsDifferentKey(t *testing.T) {
	repo := &fakeBooksRepo{}
	s := newBookService(repo)

	if _, err := s.Search(context.Background(), "yellow", 1, 10); err != nil {
		t.Fatalf("Search error: %v", err)
	}
	if _, err := s.Search(context.Background(), "yellow", 2, 10); err != nil {
		t.Fatalf("Search error: %v", err)
	}

	if repo.searchCalls != 2 {
		t.Fatalf("changed pagination must bypass the cache, got %d calls", repo.searchCalls)
	}
}

func TestSearch_StoreErrorNotCached(t *testing.T) {
	repo := &fakeBooksRepo{searchErr: errors.New("db down")}
	s := newBookService(repo)

	if _, err := s.Search(context.Background(), "q", 1, 10); err == nil {
		t.Fatalf("expected error")
	}

	repo.searchErr = nil
	if _, err := s.Search(context.Background(), "q", 1, 10); err != nil {
		t.Fatalf("Search error after recovery: %v", err)
	}
	if repo.searchCalls != 2 {
		t.Fatalf("failed search must not populate the cache")
	}
}

func TestGetByID_ReadThrough(t *testing.T) {
	b := sampleBook()
	repo := &fakeBooksRepo{byID: map[int64]*models.Book{5: b}}
	s := newBookService(repo)

	got1, err := s.GetByID(context.Background(), 5)
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	got2, err := s.GetByID(context.Background(), 5)
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}

	if repo.byIDCalls != 1 {
		t.Fatalf("second read must come from cache, store hit %d times", repo.byIDCalls)
	}
	if got1 != b || got2 != b {
		t.Fatalf("unexpected books: %+v %+v", got1, got2)
	}
}

func TestGetByID_NotFoundNotCached(t *testing.T) {
	repo := &fakeBooksRepo{byID: map[int64]*models.Book{}}
	s := newBookService(repo)

	if _, err := s.GetByID(context.Background(), 404); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected common.ErrorNotFound, got %v", err)
	}

	repo.byID[404] = sampleBook()
	if _, err := s.GetByID(context.Background(), 404); err != nil {
		t.Fatalf("GetByID error once the row exists: %v", err)
	}
	if repo.byIDCalls != 2 {
		t.Fatalf("a miss must not be cached, store hit %d times", repo.byIDCalls)
	}
}

func TestGetByISBN_ReadThrough(t *testing.T) {
	b := sampleBook()
	repo := &fakeBooksRepo{byISBN: map[string]*models.Book{b.ISBN: b}}
	s := newBookService(repo)

	if _, err := s.GetByISBN(context.Background(), b.ISBN); err != nil {
		t.Fatalf("GetByISBN error: %v", err)
	}
	if _, err := s.GetByISBN(context.Background(), b.ISBN); err != nil {
		t.Fatalf("GetByISBN error: %v", err)
	}
	if repo.byISBNCalls != 1 {
		t.Fatalf("second read must come from cache, store hit %d times", repo.byISBNCalls)
	}
}

func TestCreate_ReturnsExistingOnDuplicateISBN(t *testing.T) {
	existing := sampleBook()
	repo := &fakeBooksRepo{byISBN: map[string]*models.Book{existing.ISBN: existing}}
	s := newBookService(repo)

	got, err := s.Create(context.Background(), &models.Book{Title: "Other Title", ISBN: existing.ISBN})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got != existing {
		t.Fatalf("duplicate ISBN must return the existing row, got %+v", got)
	}
	if repo.createCalls != 0 {
		t.Fatalf("no insert may happen on duplicate ISBN")
	}
}

func TestCreate_InsertsWhenISBNIsNew(t *testing.T) {
	repo := &fakeBooksRepo{byISBN: map[string]*models.Book{}}
	s := newBookService(repo)

	got, err := s.Create(context.Background(), &models.Book{Title: "New", ISBN: "111"})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.ID != 101 || repo.createCalls != 1 {
		t.Fatalf("expected one insert, got %+v calls=%d", got, repo.createCalls)
	}
}

func TestUpdate_WritesThroughIdAndIsbnKeys(t *testing.T) {
	repo := &fakeBooksRepo{byID: map[int64]*models.Book{}, byISBN: map[string]*models.Book{}}
	s := newBookService(repo)

	updated, err := s.Update(context.Background(), sampleBook())
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}

	// Both point lookups must now be served from cache without store hits.
	if got, err := s.GetByID(context.Background(), updated.ID); err != nil || got != updated {
		t.Fatalf("GetByID after update: got %+v err %v", got, err)
	}
	if got, err := s.GetByISBN(context.Background(), updated.ISBN); err != nil || got != updated {
		t.Fatalf("GetByISBN after update: got %+v err %v", got, err)
	}
	if repo.byIDCalls != 0 || repo.byISBNCalls != 0 {
		t.Fatalf("updated entries must be cached, store hits id=%d isbn=%d", repo.byIDCalls, repo.byISBNCalls)
	}
}

func TestDelete_LeavesCacheEntriesUntilTTL(t *testing.T) {
	b := sampleBook()
	repo := &fakeBooksRepo{byID: map[int64]*models.Book{b.ID: b}}
	s := newBookService(repo)

	if _, err := s.GetByID(context.Background(), b.ID); err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	if err := s.Delete(context.Background(), b.ID); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	delete(repo.byID, b.ID)

	// Lazy-TTL-only policy: the deleted book stays readable from cache.
	got, err := s.GetByID(context.Background(), b.ID)
	if err != nil || got != b {
		t.Fatalf("expected stale cached book until TTL, got %+v err %v", got, err)
	}
}

func TestCacheKeys_Deterministic(t *testing.T) {
	if searchCacheKey("x", 1, 10) != "books:x:1:10" {
		t.Fatalf("unexpected search key: %s", searchCacheKey("x", 1, 10))
	}
	if idCacheKey(5) != "book:id:5" {
		t.Fatalf("unexpected id key: %s", idCacheKey(5))
	}
	if isbnCacheKey("978") != "book:isbn:978" {
		t.Fatalf("unexpected isbn key: %s", isbnCacheKey("978"))
	}
}
