package models

import "time"

// Book is a catalog record. ISBN is the business key: creation deduplicates
// on it, but the schema carries no uniqueness constraint.
type Book struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	Author        string    `json:"author"`
	ISBN          string    `json:"isbn"`
	PublishedDate time.Time `json:"published_date"`
}
