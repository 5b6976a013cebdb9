package storage

import (
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open(:memory:) failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// TestMigrationsIdempotent runs Open twice on the same database and verifies
// the schema_version count stays correct (migration not re-applied).
func TestMigrationsIdempotent(t *testing.T) {
	dir := t.TempDir()

	s1, err := Open(dir)
	if err != nil {
		t.Fatalf("first Open failed: %v", err)
	}

	v1, err := s1.AppliedMigrations()
	if err != nil {
		t.Fatalf("AppliedMigrations: %v", err)
	}
	s1.Close()

	s2, err := Open(dir)
	if err != nil {
		t.Fatalf("second Open failed: %v", err)
	}
	defer s2.Close()

	v2, err := s2.AppliedMigrations()
	if err != nil {
		t.Fatalf("AppliedMigrations: %v", err)
	}

	if len(v1) != len(v2) {
		t.Errorf("migration count changed: %d -> %d", len(v1), len(v2))
	}
}

// TestSchemaTablesExist verifies the three data tables come up on first Open.
func TestSchemaTablesExist(t *testing.T) {
	s := openTestStore(t)

	names, err := s.TableNames()
	if err != nil {
		t.Fatalf("TableNames: %v", err)
	}

	want := map[string]bool{"notes": false, "items": false, "spaced_repetition": false}
	for _, n := range names {
		if _, ok := want[n]; ok {
			want[n] = true
		}
	}
	for table, found := range want {
		if !found {
			t.Errorf("table %q not created by migrations", table)
		}
	}
}

func TestCountRows(t *testing.T) {
	s := openTestStore(t)

	if err := s.CreateNote("first"); err != nil {
		t.Fatalf("CreateNote: %v", err)
	}
	if err := s.CreateNote("second"); err != nil {
		t.Fatalf("CreateNote: %v", err)
	}

	n, err := s.CountRows("notes")
	if err != nil {
		t.Fatalf("CountRows: %v", err)
	}
	if n != 2 {
		t.Errorf("CountRows(notes) = %d, want 2", n)
	}
}
