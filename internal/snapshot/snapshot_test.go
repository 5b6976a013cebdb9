package snapshot

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"noteboard/internal/storage"
)

func openTestStore(t *testing.T) *storage.Store {
	t.Helper()
	s, err := storage.Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func snapshotPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "snapshot.json")
}

func seed(t *testing.T, s *storage.Store) {
	t.Helper()
	stmts := []string{
		`INSERT INTO items (id, name, description, created_at) VALUES (1, 'widget', 'a widget', '2025-01-01T09:00:00Z')`,
		`INSERT INTO items (id, name, description, created_at) VALUES (7, 'gadget', NULL, '2025-01-02T09:00:00Z')`,
		`INSERT INTO notes (id, text, date, stars) VALUES (3, 'first note', '2025-01-05T10:00:00Z', 4)`,
		`INSERT INTO notes (id, text, date, stars) VALUES (9, 'second note', '2025-02-01T18:30:00Z', 0)`,
		`INSERT INTO spaced_repetition (id, subject, topic, question, answer, date, stars) VALUES (2, 'go', 'slices', 'len vs cap?', 'length vs capacity', '2025-01-10T08:00:00Z', 5)`,
	}
	for _, stmt := range stmts {
		if _, err := s.DB().Exec(stmt); err != nil {
			t.Fatalf("seeding: %v", err)
		}
	}
}

// TestRoundTrip exports a populated database and restores it into a fresh
// empty schema, then checks every row came back with its original id and
// column values.
func TestRoundTrip(t *testing.T) {
	src := openTestStore(t)
	seed(t, src)
	path := snapshotPath(t)

	counts, err := Export(src.DB(), path)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	want := map[string]int{"items": 2, "notes": 2, "practices": 1}
	for _, c := range counts {
		if c.Rows != want[c.Table] {
			t.Errorf("exported %d %s rows, want %d", c.Rows, c.Table, want[c.Table])
		}
	}

	dst := openTestStore(t)
	restored, err := Restore(dst.DB(), path)
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	for _, c := range restored {
		if c.Rows != want[c.Table] {
			t.Errorf("restored %d %s rows, want %d", c.Rows, c.Table, want[c.Table])
		}
	}

	var text string
	var stars int
	if err := dst.DB().QueryRow(`SELECT text, stars FROM notes WHERE id = 3`).Scan(&text, &stars); err != nil {
		t.Fatalf("reading restored note: %v", err)
	}
	if text != "first note" || stars != 4 {
		t.Errorf("restored note = (%q, %d), want (%q, 4)", text, stars, "first note")
	}

	var name string
	var description any
	if err := dst.DB().QueryRow(`SELECT name, description FROM items WHERE id = 7`).Scan(&name, &description); err != nil {
		t.Fatalf("reading restored item: %v", err)
	}
	if name != "gadget" {
		t.Errorf("restored item name = %q, want %q", name, "gadget")
	}
	if description != nil {
		t.Errorf("restored item description = %v, want NULL", description)
	}

	var answer string
	if err := dst.DB().QueryRow(`SELECT answer FROM spaced_repetition WHERE id = 2`).Scan(&answer); err != nil {
		t.Fatalf("reading restored practice: %v", err)
	}
	if answer != "length vs capacity" {
		t.Errorf("restored practice answer = %q", answer)
	}
}

// TestExportDocumentShape checks the JSON document keys and that the
// practice table is written under the "practices" key.
func TestExportDocumentShape(t *testing.T) {
	src := openTestStore(t)
	seed(t, src)
	path := snapshotPath(t)

	if _, err := Export(src.DB(), path); err != nil {
		t.Fatalf("Export: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading snapshot: %v", err)
	}
	var doc map[string][]map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("snapshot is not valid JSON: %v", err)
	}

	for _, key := range []string{"items", "notes", "practices"} {
		if _, ok := doc[key]; !ok {
			t.Errorf("snapshot missing key %q", key)
		}
	}
	if len(doc["practices"]) != 1 {
		t.Fatalf("practices has %d rows, want 1", len(doc["practices"]))
	}
	if got := doc["practices"][0]["subject"]; got != "go" {
		t.Errorf("practices[0].subject = %v, want %q", got, "go")
	}
	if got := doc["notes"][0]["id"]; got != float64(3) {
		t.Errorf("notes[0].id = %v (%T), want 3", got, got)
	}
}

// TestExportSkipsMissingTable drops one table and verifies the export still
// produces the others.
func TestExportSkipsMissingTable(t *testing.T) {
	src := openTestStore(t)
	seed(t, src)
	if _, err := src.DB().Exec(`DROP TABLE spaced_repetition`); err != nil {
		t.Fatalf("dropping table: %v", err)
	}
	path := snapshotPath(t)

	if _, err := Export(src.DB(), path); err != nil {
		t.Fatalf("Export: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading snapshot: %v", err)
	}
	var doc map[string][]map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("decoding snapshot: %v", err)
	}
	if _, ok := doc["practices"]; ok {
		t.Error("dropped table still present in snapshot")
	}
	if len(doc["notes"]) != 2 {
		t.Errorf("notes has %d rows, want 2", len(doc["notes"]))
	}
}

// TestRestoreSkipsBadRows: rows with a duplicate id or a missing required
// column are skipped, the rest restore.
func TestRestoreSkipsBadRows(t *testing.T) {
	doc := `{
		"notes": [
			{"id": 1, "text": "good", "date": "2025-01-05T10:00:00Z", "stars": 2},
			{"id": 1, "text": "duplicate id", "date": "2025-01-06T10:00:00Z", "stars": 0},
			{"id": 2, "text": "missing date column", "stars": 0},
			{"id": 3, "text": "also good", "date": "2025-01-07T10:00:00Z", "stars": 1}
		]
	}`
	path := snapshotPath(t)
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("writing snapshot: %v", err)
	}

	dst := openTestStore(t)
	counts, err := Restore(dst.DB(), path)
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if len(counts) != 1 || counts[0].Table != "notes" || counts[0].Rows != 2 {
		t.Errorf("counts = %+v, want notes=2", counts)
	}

	n, err := dst.CountRows("notes")
	if err != nil {
		t.Fatalf("CountRows: %v", err)
	}
	if n != 2 {
		t.Errorf("restored %d notes, want 2", n)
	}
}

// TestRestorePracticeStarsDefault: older snapshots predate the practice
// stars column; restore fills it with 0.
func TestRestorePracticeStarsDefault(t *testing.T) {
	doc := `{
		"practices": [
			{"id": 5, "subject": "math", "topic": "algebra", "question": "x?", "answer": "y", "date": "2025-01-01T08:00:00Z"}
		]
	}`
	path := snapshotPath(t)
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("writing snapshot: %v", err)
	}

	dst := openTestStore(t)
	if _, err := Restore(dst.DB(), path); err != nil {
		t.Fatalf("Restore: %v", err)
	}

	var stars int
	if err := dst.DB().QueryRow(`SELECT stars FROM spaced_repetition WHERE id = 5`).Scan(&stars); err != nil {
		t.Fatalf("reading restored practice: %v", err)
	}
	if stars != 0 {
		t.Errorf("stars = %d, want default 0", stars)
	}
}

// TestRestoreToleratesMissingKeys: a snapshot holding only some tables
// restores what it has.
func TestRestoreToleratesMissingKeys(t *testing.T) {
	doc := `{"items": [{"id": 1, "name": "widget", "description": "d", "created_at": "2025-01-01T09:00:00Z"}]}`
	path := snapshotPath(t)
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("writing snapshot: %v", err)
	}

	dst := openTestStore(t)
	counts, err := Restore(dst.DB(), path)
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if len(counts) != 1 || counts[0].Table != "items" || counts[0].Rows != 1 {
		t.Errorf("counts = %+v, want items=1", counts)
	}
}

// TestExportOverwrites: exporting twice leaves one valid snapshot reflecting
// the latest state.
func TestExportOverwrites(t *testing.T) {
	src := openTestStore(t)
	path := snapshotPath(t)

	if _, err := Export(src.DB(), path); err != nil {
		t.Fatalf("first Export: %v", err)
	}
	if _, err := src.DB().Exec(`INSERT INTO notes (id, text, date, stars) VALUES (1, 'later', '2025-01-05T10:00:00Z', 0)`); err != nil {
		t.Fatalf("seeding: %v", err)
	}
	if _, err := Export(src.DB(), path); err != nil {
		t.Fatalf("second Export: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading snapshot: %v", err)
	}
	var doc map[string][]map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("decoding snapshot: %v", err)
	}
	if len(doc["notes"]) != 1 {
		t.Errorf("notes has %d rows, want 1", len(doc["notes"]))
	}
}
