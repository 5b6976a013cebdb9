// Package snapshot exports the full database contents to a single JSON
// document and reconstructs tables from such a document. It exists to carry
// data across a schema rebuild: export, recreate the empty schema, restore.
//
// Both directions are best-effort. A table that cannot be read is skipped
// with a logged error, and a row that cannot be re-inserted (duplicate id,
// missing column) is skipped the same way, so one bad entry never aborts
// the rest of the run.
package snapshot

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
)

// tableSpec ties a snapshot document key to a table and the columns used to
// rebuild it. The spaced_repetition table is keyed "practices" in the
// document, a naming carried over from earlier snapshot files that restore
// must keep accepting.
type tableSpec struct {
	key     string
	table   string
	columns []string
	// defaults supplies values for columns the snapshot may predate,
	// keyed by column name.
	defaults map[string]any
}

var tables = []tableSpec{
	{
		key: "items", table: "items",
		columns: []string{"id", "name", "description", "created_at"},
	},
	{
		key: "notes", table: "notes",
		columns: []string{"id", "text", "date", "stars"},
	},
	{
		key: "practices", table: "spaced_repetition",
		columns:  []string{"id", "subject", "topic", "question", "answer", "date", "stars"},
		defaults: map[string]any{"stars": int64(0)},
	},
}

// TableCount reports how many rows a table contributed to an export or
// received during a restore.
type TableCount struct {
	Table string
	Rows  int
}

// Export reads every tracked table and writes one JSON object keyed by table
// to path, overwriting any previous snapshot. A table that fails to read is
// logged and left out; the export continues with the rest.
func Export(db *sql.DB, path string) ([]TableCount, error) {
	data := make(map[string][]map[string]any, len(tables))
	var counts []TableCount
	for _, t := range tables {
		rows, err := readTable(db, t.table)
		if err != nil {
			slog.Error("skipping table during export", "table", t.table, "error", err)
			continue
		}
		data[t.key] = rows
		counts = append(counts, TableCount{Table: t.key, Rows: len(rows)})
	}

	buf, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding snapshot: %w", err)
	}
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		return nil, fmt.Errorf("writing snapshot: %w", err)
	}
	return counts, nil
}

// readTable loads all rows of a table as ordered column-to-value maps.
func readTable(db *sql.DB, table string) ([]map[string]any, error) {
	// Table names come from the fixed specs above, never from input.
	rows, err := db.Query(fmt.Sprintf(`SELECT * FROM "%s"`, table))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	out := []map[string]any{}
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		m := make(map[string]any, len(cols))
		for i, c := range cols {
			v := vals[i]
			if b, ok := v.([]byte); ok {
				v = string(b)
			}
			m[c] = v
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// Restore re-inserts rows from a snapshot file into the live schema, keeping
// original ids and column values. The destination tables must already exist
// (storage.Open creates them). Rows that fail to insert are logged and
// skipped; the reported counts cover only rows actually restored.
func Restore(db *sql.DB, path string) ([]TableCount, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening snapshot: %w", err)
	}
	defer f.Close()

	// UseNumber keeps integer ids exact instead of round-tripping through
	// float64.
	dec := json.NewDecoder(f)
	dec.UseNumber()
	var data map[string][]map[string]any
	if err := dec.Decode(&data); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}

	var counts []TableCount
	for _, t := range tables {
		rows, ok := data[t.key]
		if !ok {
			continue
		}

		stmt := insertStmt(t)
		restored := 0
		for _, row := range rows {
			args, err := rowArgs(t, row)
			if err != nil {
				slog.Error("skipping row during restore", "table", t.table, "error", err)
				continue
			}
			if _, err := db.Exec(stmt, args...); err != nil {
				slog.Error("skipping row during restore", "table", t.table, "error", err)
				continue
			}
			restored++
		}
		counts = append(counts, TableCount{Table: t.key, Rows: restored})
	}
	return counts, nil
}

func insertStmt(t tableSpec) string {
	placeholders := "?"
	cols := `"` + t.columns[0] + `"`
	for _, c := range t.columns[1:] {
		cols += `, "` + c + `"`
		placeholders += ", ?"
	}
	return fmt.Sprintf(`INSERT INTO "%s" (%s) VALUES (%s)`, t.table, cols, placeholders)
}

// rowArgs assembles bind arguments for one row in column order. A column
// absent from the row uses the spec default when one exists; otherwise the
// row is rejected.
func rowArgs(t tableSpec, row map[string]any) ([]any, error) {
	args := make([]any, 0, len(t.columns))
	for _, col := range t.columns {
		v, ok := row[col]
		if !ok {
			d, ok := t.defaults[col]
			if !ok {
				return nil, fmt.Errorf("missing column %q", col)
			}
			v = d
		}
		args = append(args, normalize(v))
	}
	return args, nil
}

func normalize(v any) any {
	n, ok := v.(json.Number)
	if !ok {
		return v
	}
	if i, err := n.Int64(); err == nil {
		return i
	}
	if f, err := n.Float64(); err == nil {
		return f
	}
	return n.String()
}
