// Package seed populates an empty database with the default catalog and
// accounts. Seeding is idempotent: rows already present (by ISBN / email)
// are left alone.
package seed

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/libkeeper/internal/common"
	"github.com/dmitrijs2005/libkeeper/internal/dbx"
	"github.com/dmitrijs2005/libkeeper/internal/server/auth"
	"github.com/dmitrijs2005/libkeeper/internal/server/models"
	"github.com/dmitrijs2005/libkeeper/internal/server/repositories/books"
	"github.com/dmitrijs2005/libkeeper/internal/server/repositories/users"
)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func defaultBooks() []models.Book {
	return []models.Book{
		{Title: "Things Fall Apart", Author: "Chinua Achebe", ISBN: "9780385474542", PublishedDate: date(1958, 6, 17)},
		{Title: "Half of a Yellow Sun", Author: "Chimamanda Ngozi Adichie", ISBN: "9781400095209", PublishedDate: date(2006, 9, 12)},
		{Title: "The Famished Road", Author: "Ben Okri", ISBN: "9780385425131", PublishedDate: date(1991, 3, 5)},
		{Title: "Purple Hibiscus", Author: "Chimamanda Ngozi Adichie", ISBN: "9781616202415", PublishedDate: date(2003, 10, 1)},
		{Title: "The Secret Lives of Baba Segi's Wives", Author: "Lola Shoneyin", ISBN: "9780061946370", PublishedDate: date(2010, 5, 4)},
		{Title: "Stay with Me", Author: "Ayobami Adebayo", ISBN: "9780451494603", PublishedDate: date(2017, 3, 2)},
	}
}

type defaultUser struct {
	fullName string
	email    string
	password string
}

func defaultUsers() []defaultUser {
	return []defaultUser{
		{fullName: "Default Admin", email: "admin@library.com", password: "Password123!"},
		{fullName: "Staff Librarian", email: "librarian@library.com", password: "Librarian123!"},
	}
}

// Run seeds missing default rows inside a single transaction, so a partially
// seeded database is never visible.
func Run(ctx context.Context, db *sql.DB) error {
	return dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		bookRepo := books.NewPostgresRepository(tx)
		for _, b := range defaultBooks() {
			_, err := bookRepo.GetByISBN(ctx, b.ISBN)
			if err == nil {
				continue
			}
			if !errors.Is(err, common.ErrorNotFound) {
				return fmt.Errorf("error checking seed book: %w", err)
			}
			book := b
			if _, err := bookRepo.Create(ctx, &book); err != nil {
				return fmt.Errorf("error seeding book %q: %w", b.Title, err)
			}
		}

		userRepo := users.NewPostgresRepository(tx)
		for _, u := range defaultUsers() {
			exists, err := userRepo.EmailExists(ctx, u.email)
			if err != nil {
				return fmt.Errorf("error checking seed user: %w", err)
			}
			if exists {
				continue
			}
			hash, err := auth.HashPassword(u.password)
			if err != nil {
				return fmt.Errorf("error hashing seed password: %w", err)
			}
			user := &models.User{FullName: u.fullName, Email: u.email, PasswordHash: hash}
			if _, err := userRepo.Create(ctx, user); err != nil {
				return fmt.Errorf("error seeding user %q: %w", u.email, err)
			}
		}

		return nil
	})
}
