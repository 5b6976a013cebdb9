package storage

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Note is a user-authored text entry with a timestamp and a 0-5 star rating.
type Note struct {
	ID    int64
	Text  string
	Date  time.Time
	Stars int
}

// Item is a read-only reference entity displayed on the home page.
// Nothing in this application mutates items.
type Item struct {
	ID          int64
	Name        string
	Description string
	CreatedAt   time.Time
}

// NotesPerPage is the fixed page size for note listings.
const NotesPerPage = 20

// ListOptions selects a page of notes. Zero values mean: first page,
// no date filter, ascending date order.
type ListOptions struct {
	Page       int
	Filter     string // "all", "before", "after", "on"
	FilterDate string // required for any filter other than "all"
	Sort       string // "asc" or "desc"
}

// NotePage is one page of a filtered, sorted note listing.
type NotePage struct {
	Notes      []Note
	TotalCount int
	TotalPages int
}
