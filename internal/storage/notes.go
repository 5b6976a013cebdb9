package storage

import (
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// CreateNote inserts a new note timestamped now with zero stars.
// Empty or whitespace-only text is a no-op: no row is created, no error returned.
func (s *Store) CreateNote(text string) error {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	_, err := s.db.Exec(`INSERT INTO notes (text, date, stars) VALUES (?, ?, 0)`,
		text, time.Now().UTC().Format(time.RFC3339))
	return err
}

// GetNote returns a single note by id, or ErrNotFound.
func (s *Store) GetNote(id int64) (Note, error) {
	var n Note
	var date string
	err := s.db.QueryRow(`SELECT id, text, date, stars FROM notes WHERE id = ?`, id).
		Scan(&n.ID, &n.Text, &date, &n.Stars)
	if err == sql.ErrNoRows {
		return Note{}, ErrNotFound
	}
	if err != nil {
		return Note{}, err
	}
	t, err := time.Parse(time.RFC3339, date)
	if err != nil {
		return Note{}, fmt.Errorf("parsing date for note %d: %w", id, err)
	}
	n.Date = t
	return n, nil
}

// UpdateNoteText overwrites a note's text. Empty text or an unknown id is a
// silent no-op.
func (s *Store) UpdateNoteText(id int64, text string) error {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	_, err := s.db.Exec(`UPDATE notes SET text = ? WHERE id = ?`, text, id)
	return err
}

// DeleteNote removes a note. Deleting an unknown id is a no-op, making the
// operation idempotent.
func (s *Store) DeleteNote(id int64) error {
	_, err := s.db.Exec(`DELETE FROM notes WHERE id = ?`, id)
	return err
}

// ShiftNoteDate moves a note's date by a signed number of days. An unknown id
// is a silent no-op; a stored date that fails to parse is logged and skipped.
func (s *Store) ShiftNoteDate(id int64, days int) error {
	var date string
	err := s.db.QueryRow(`SELECT date FROM notes WHERE id = ?`, id).Scan(&date)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return err
	}
	t, err := time.Parse(time.RFC3339, date)
	if err != nil {
		slog.Warn("not shifting unparseable note date", "id", id, "date", date, "error", err)
		return nil
	}
	_, err = s.db.Exec(`UPDATE notes SET date = ? WHERE id = ?`,
		t.AddDate(0, 0, days).Format(time.RFC3339), id)
	return err
}

// RateNote sets a note's star rating. Only values 1 through 5 are applied;
// anything else is a silent no-op, as is an unknown id. This keeps stars
// within [0,5] without relying on a storage constraint.
func (s *Store) RateNote(id int64, stars int) error {
	if stars < 1 || stars > 5 {
		return nil
	}
	_, err := s.db.Exec(`UPDATE notes SET stars = ? WHERE id = ?`, stars, id)
	return err
}

// ListNotes returns one page of notes matching the filter, plus the total
// match count and page count. Pages past the end come back empty, not as an
// error. All filter values are bound parameters; none are spliced into the
// query text.
func (s *Store) ListNotes(opts ListOptions) (NotePage, error) {
	page := opts.Page
	if page < 1 {
		page = 1
	}

	// An unknown filter, or a date filter without a date, degrades to "all".
	var where string
	var args []any
	switch opts.Filter {
	case "before":
		if opts.FilterDate != "" {
			where = ` WHERE date < ?`
			args = append(args, opts.FilterDate)
		}
	case "after":
		if opts.FilterDate != "" {
			where = ` WHERE date > ?`
			args = append(args, opts.FilterDate)
		}
	case "on":
		// Prefix match: a date-only filter value matches any timestamp on
		// that day.
		if opts.FilterDate != "" {
			where = ` WHERE date LIKE ? ESCAPE '\'`
			args = append(args, likePrefix(opts.FilterDate))
		}
	}

	var total int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM notes`+where, args...).Scan(&total); err != nil {
		return NotePage{}, fmt.Errorf("counting notes: %w", err)
	}

	direction := "ASC"
	if opts.Sort == "desc" {
		direction = "DESC"
	}

	// Sort by the date portion first so higher-rated notes surface within a
	// tied day; id last so page boundaries are deterministic.
	query := fmt.Sprintf(`SELECT id, text, date, stars FROM notes%s ORDER BY DATE(date) %s, stars DESC, id ASC LIMIT ? OFFSET ?`,
		where, direction)
	rows, err := s.db.Query(query, append(args, NotesPerPage, (page-1)*NotesPerPage)...)
	if err != nil {
		return NotePage{}, fmt.Errorf("listing notes: %w", err)
	}
	defer rows.Close()

	var notes []Note
	for rows.Next() {
		var n Note
		var date string
		if err := rows.Scan(&n.ID, &n.Text, &date, &n.Stars); err != nil {
			return NotePage{}, err
		}
		t, err := time.Parse(time.RFC3339, date)
		if err != nil {
			return NotePage{}, fmt.Errorf("parsing date for note %d: %w", n.ID, err)
		}
		n.Date = t
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return NotePage{}, err
	}

	return NotePage{
		Notes:      notes,
		TotalCount: total,
		TotalPages: (total + NotesPerPage - 1) / NotesPerPage,
	}, nil
}

// likePrefix escapes LIKE metacharacters in a user value and turns it into a
// prefix pattern.
func likePrefix(v string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(v) + "%"
}

// ListItems returns all reference items for the home page listing.
func (s *Store) ListItems() ([]Item, error) {
	rows, err := s.db.Query(`SELECT id, name, description, created_at FROM items ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var it Item
		var description sql.NullString
		var createdAt string
		if err := rows.Scan(&it.ID, &it.Name, &description, &createdAt); err != nil {
			return nil, err
		}
		it.Description = description.String
		t, err := time.Parse(time.RFC3339, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parsing created_at for item %d: %w", it.ID, err)
		}
		it.CreatedAt = t
		items = append(items, it)
	}
	return items, rows.Err()
}
