package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/specdoc/internal/capture"
)

// ErrNotFound is returned when no report is archived at a path.
var ErrNotFound = errors.New("report not found")

// Summary is an archived report without its document or diagrams.
type Summary struct {
	Path     string
	Class    capture.TestClass
	Status   capture.Status
	Digest   string
	RunID    string
	Seq      int64
	Diagrams int
}

// ListReports returns a summary of every archived report.
// Results are ordered deterministically: ORDER BY path COLLATE BINARY.
//
// Returns an empty slice (not nil) when the archive is empty.
func (s *Store) ListReports(ctx context.Context) ([]Summary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT r.path, r.package, r.class, r.status, r.digest, r.run_id, r.seq,
			(SELECT COUNT(*) FROM diagrams d WHERE d.report_path = r.path)
		FROM reports r
		ORDER BY r.path COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query reports: %w", err)
	}
	defer rows.Close()

	summaries := []Summary{}
	for rows.Next() {
		var sum Summary
		var status string
		if err := rows.Scan(&sum.Path, &sum.Class.Package, &sum.Class.Name, &status,
			&sum.Digest, &sum.RunID, &sum.Seq, &sum.Diagrams); err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		if sum.Status, err = capture.ParseStatus(status); err != nil {
			return nil, fmt.Errorf("report %s: %w", sum.Path, err)
		}
		summaries = append(summaries, sum)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reports: %w", err)
	}

	return summaries, nil
}

// ReadReport returns the archived report at path with its diagrams in
// document order. Returns an error wrapping ErrNotFound if there is none.
func (s *Store) ReadReport(ctx context.Context, path string) (Report, error) {
	var rep Report
	var status string
	err := s.db.QueryRowContext(ctx, `
		SELECT path, package, class, status, document, digest, run_id, seq
		FROM reports
		WHERE path = ?
	`, path).Scan(&rep.Path, &rep.Class.Package, &rep.Class.Name, &status,
		&rep.Document, &rep.Digest, &rep.RunID, &rep.Seq)
	if errors.Is(err, sql.ErrNoRows) {
		return Report{}, fmt.Errorf("read report %s: %w", path, ErrNotFound)
	}
	if err != nil {
		return Report{}, fmt.Errorf("read report %s: %w", path, err)
	}
	if rep.Status, err = capture.ParseStatus(status); err != nil {
		return Report{}, fmt.Errorf("read report %s: %w", path, err)
	}

	rep.Diagrams, err = s.readDiagrams(ctx, path)
	if err != nil {
		return Report{}, err
	}
	return rep, nil
}

func (s *Store) readDiagrams(ctx context.Context, path string) ([]Diagram, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, markup, svg
		FROM diagrams
		WHERE report_path = ?
		ORDER BY position ASC
	`, path)
	if err != nil {
		return nil, fmt.Errorf("query diagrams: %w", err)
	}
	defer rows.Close()

	diagrams := []Diagram{}
	for rows.Next() {
		var d Diagram
		if err := rows.Scan(&d.ID, &d.Markup, &d.SVG); err != nil {
			return nil, fmt.Errorf("scan diagram: %w", err)
		}
		diagrams = append(diagrams, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate diagrams: %w", err)
	}
	return diagrams, nil
}

// FindDiagram returns the first archived diagram with the given id and the
// path of the report it belongs to.
func (s *Store) FindDiagram(ctx context.Context, id string) (string, Diagram, error) {
	var path string
	d := Diagram{ID: id}
	err := s.db.QueryRowContext(ctx, `
		SELECT report_path, markup, svg
		FROM diagrams
		WHERE id = ?
		ORDER BY report_path COLLATE BINARY ASC, position ASC
		LIMIT 1
	`, id).Scan(&path, &d.Markup, &d.SVG)
	if errors.Is(err, sql.ErrNoRows) {
		return "", Diagram{}, fmt.Errorf("find diagram %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return "", Diagram{}, fmt.Errorf("find diagram %s: %w", id, err)
	}
	return path, d, nil
}

// LatestRun returns the run with the highest sequence number.
// Returns an error wrapping ErrNotFound if nothing has run yet.
func (s *Store) LatestRun(ctx context.Context) (Run, error) {
	var run Run
	err := s.db.QueryRowContext(ctx, `
		SELECT id, seq, label FROM runs ORDER BY seq DESC LIMIT 1
	`).Scan(&run.ID, &run.Seq, &run.Label)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("latest run: %w", ErrNotFound)
	}
	if err != nil {
		return Run{}, fmt.Errorf("latest run: %w", err)
	}
	return run, nil
}
