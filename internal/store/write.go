package store

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"

	"github.com/roach88/specdoc/internal/capture"
	"github.com/roach88/specdoc/internal/report"
)

// DomainReport separates report digests from any other hash in the archive.
const DomainReport = "specdoc/report/v1"

// Run is one invocation of the report generator.
// Seq is a logical clock: each run gets the next value, never wall time.
type Run struct {
	ID    string `json:"id"`
	Seq   int64  `json:"seq"`
	Label string `json:"label,omitempty"`
}

// Diagram is one sequence diagram embedded in an archived report.
type Diagram struct {
	ID     string
	Markup string
	SVG    string
}

// Report is an archived HTML report.
type Report struct {
	Path     string
	Class    capture.TestClass
	Status   capture.Status
	Document string
	Digest   string
	RunID    string
	Seq      int64
	Diagrams []Diagram
}

// NewReport converts a rendered document into its archive form.
func NewReport(doc *report.Document) Report {
	diagrams := make([]Diagram, len(doc.Diagrams))
	for i, svg := range doc.Diagrams {
		diagrams[i] = Diagram{ID: svg.ID, Markup: svg.Markup, SVG: svg.XML}
	}
	return Report{
		Path:     doc.Path,
		Class:    doc.Class,
		Status:   doc.Status,
		Document: doc.HTML,
		Digest:   Digest(doc.HTML),
		Diagrams: diagrams,
	}
}

// Digest returns the content address of a report document.
func Digest(document string) string {
	return hashWithDomain(DomainReport, []byte(document))
}

// hashWithDomain computes SHA-256 hash with domain separation.
// Format: SHA256(domain + 0x00 + data)
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// BeginRun records a new run and returns it with the next sequence number.
func (s *Store) BeginRun(ctx context.Context, label string) (Run, error) {
	run := Run{ID: uuid.Must(uuid.NewV7()).String(), Label: label}

	err := s.db.QueryRowContext(ctx, `
		INSERT INTO runs (id, seq, label)
		SELECT ?, COALESCE(MAX(seq), 0) + 1, ? FROM runs
		RETURNING seq
	`, run.ID, run.Label).Scan(&run.Seq)
	if err != nil {
		return Run{}, fmt.Errorf("begin run: %w", err)
	}

	return run, nil
}

// SaveReport archives a report under run, replacing any earlier report for
// the same path. The report's digest is recomputed from its document.
//
// Returns changed=false when the archived document already had the same
// digest. The report is still re-stamped with the run so the archive shows
// which run last produced it.
func (s *Store) SaveReport(ctx context.Context, run Run, rep Report) (changed bool, err error) {
	if rep.Path == "" {
		return false, fmt.Errorf("save report: empty path")
	}
	digest := Digest(rep.Document)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("save report %s: begin: %w", rep.Path, err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	var previous string
	err = tx.QueryRowContext(ctx, `SELECT digest FROM reports WHERE path = ?`, rep.Path).Scan(&previous)
	switch {
	case err == sql.ErrNoRows:
		changed = true
	case err != nil:
		return false, fmt.Errorf("save report %s: %w", rep.Path, err)
	default:
		changed = previous != digest
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO reports (path, package, class, status, document, digest, run_id, seq)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			package = excluded.package,
			class = excluded.class,
			status = excluded.status,
			document = excluded.document,
			digest = excluded.digest,
			run_id = excluded.run_id,
			seq = excluded.seq
	`,
		rep.Path,
		rep.Class.Package,
		rep.Class.Name,
		rep.Status.Key(),
		rep.Document,
		digest,
		run.ID,
		run.Seq,
	)
	if err != nil {
		return false, fmt.Errorf("save report %s: %w", rep.Path, err)
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM diagrams WHERE report_path = ?`, rep.Path); err != nil {
		return false, fmt.Errorf("save report %s: clear diagrams: %w", rep.Path, err)
	}
	for i, d := range rep.Diagrams {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO diagrams (report_path, position, id, markup, svg)
			VALUES (?, ?, ?, ?, ?)
		`, rep.Path, i, d.ID, d.Markup, d.SVG)
		if err != nil {
			return false, fmt.Errorf("save report %s: diagram %d: %w", rep.Path, i, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return false, fmt.Errorf("save report %s: commit: %w", rep.Path, err)
	}
	return changed, nil
}

// DeleteReport removes a report and its diagrams. Deleting a missing report
// returns ErrNotFound.
func (s *Store) DeleteReport(ctx context.Context, path string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM reports WHERE path = ?`, path)
	if err != nil {
		return fmt.Errorf("delete report %s: %w", path, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete report %s: %w", path, err)
	}
	if n == 0 {
		return fmt.Errorf("delete report %s: %w", path, ErrNotFound)
	}
	return nil
}
