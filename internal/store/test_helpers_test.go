package store

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/roach88/specdoc/internal/capture"
)

// createTestStore creates a new store in a temp directory for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestRun begins a run on s.
func createTestRun(t *testing.T, s *Store) Run {
	t.Helper()
	run, err := s.BeginRun(context.Background(), "test")
	if err != nil {
		t.Fatalf("BeginRun() failed: %v", err)
	}
	return run
}

// createTestReport creates a passed report with n placeholder diagrams.
func createTestReport(path, document string, n int) Report {
	diagrams := make([]Diagram, n)
	for i := range diagrams {
		diagrams[i] = Diagram{
			ID:     fmt.Sprintf("diagram-%d", i),
			Markup: fmt.Sprintf("@startuml\nA -> B : %d\n@enduml", i),
			SVG:    fmt.Sprintf("<svg id=\"%d\"/>", i),
		}
	}
	return Report{
		Path:     path,
		Class:    capture.TestClass{Package: "example/orders", Name: "PlacingOrdersTest"},
		Status:   capture.Passed,
		Document: document,
		Diagrams: diagrams,
	}
}

// tableColumns returns the column names of table in declaration order.
func tableColumns(t *testing.T, db *sql.DB, table string) []string {
	t.Helper()
	rows, err := db.Query("SELECT name FROM pragma_table_info(?) ORDER BY cid", table)
	if err != nil {
		t.Fatalf("table info for %q: %v", table, err)
	}
	defer rows.Close()
	return scanNames(t, rows)
}

// tableIndexes returns the names of the indexes on table.
func tableIndexes(t *testing.T, db *sql.DB, table string) []string {
	t.Helper()
	rows, err := db.Query("SELECT name FROM sqlite_master WHERE type = 'index' AND tbl_name = ? ORDER BY name COLLATE BINARY", table)
	if err != nil {
		t.Fatalf("indexes for %q: %v", table, err)
	}
	defer rows.Close()
	return scanNames(t, rows)
}

func scanNames(t *testing.T, rows *sql.Rows) []string {
	t.Helper()
	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			t.Fatalf("scan name: %v", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		t.Fatalf("iterate names: %v", err)
	}
	return names
}

// userVersion returns the archive's PRAGMA user_version.
func userVersion(t *testing.T, db *sql.DB) int {
	t.Helper()
	var v int
	if err := db.QueryRow("PRAGMA user_version").Scan(&v); err != nil {
		t.Fatalf("read user_version: %v", err)
	}
	return v
}
