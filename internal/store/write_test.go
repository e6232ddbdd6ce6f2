package store

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/roach88/specdoc/internal/capture"
	"github.com/roach88/specdoc/internal/report"
	"github.com/roach88/specdoc/internal/sequence"
)

func TestBeginRun_AssignsIncreasingSeq(t *testing.T) {
	s := createTestStore(t)

	first := createTestRun(t, s)
	second := createTestRun(t, s)

	if first.Seq != 1 {
		t.Errorf("first run seq = %d, want 1", first.Seq)
	}
	if second.Seq != 2 {
		t.Errorf("second run seq = %d, want 2", second.Seq)
	}
	if first.ID == second.ID {
		t.Errorf("runs share id %q", first.ID)
	}
}

func TestBeginRun_IDIsUUIDv7(t *testing.T) {
	s := createTestStore(t)
	run := createTestRun(t, s)

	parsed, err := uuid.Parse(run.ID)
	if err != nil {
		t.Fatalf("run id %q is not a UUID: %v", run.ID, err)
	}
	if parsed.Version() != 7 {
		t.Errorf("run id version = %d, want 7", parsed.Version())
	}
}

func TestSaveReport_NewReportIsChanged(t *testing.T) {
	s := createTestStore(t)
	run := createTestRun(t, s)

	changed, err := s.SaveReport(context.Background(), run, createTestReport("a/B.html", "<p>one</p>", 1))
	if err != nil {
		t.Fatalf("SaveReport() failed: %v", err)
	}
	if !changed {
		t.Error("first save of a report should report changed")
	}
}

func TestSaveReport_SameDocumentUnchanged(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	rep := createTestReport("a/B.html", "<p>one</p>", 1)

	if _, err := s.SaveReport(ctx, createTestRun(t, s), rep); err != nil {
		t.Fatalf("SaveReport() failed: %v", err)
	}
	second := createTestRun(t, s)
	changed, err := s.SaveReport(ctx, second, rep)
	if err != nil {
		t.Fatalf("SaveReport() failed: %v", err)
	}
	if changed {
		t.Error("saving an identical document should not report changed")
	}

	// The report is re-stamped with the latest run.
	got, err := s.ReadReport(ctx, rep.Path)
	if err != nil {
		t.Fatalf("ReadReport() failed: %v", err)
	}
	if got.RunID != second.ID || got.Seq != second.Seq {
		t.Errorf("report run = (%s, %d), want (%s, %d)", got.RunID, got.Seq, second.ID, second.Seq)
	}
}

func TestSaveReport_ReplacesDocumentAndDiagrams(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	run := createTestRun(t, s)

	if _, err := s.SaveReport(ctx, run, createTestReport("a/B.html", "<p>one</p>", 3)); err != nil {
		t.Fatalf("SaveReport() failed: %v", err)
	}
	updated := createTestReport("a/B.html", "<p>two</p>", 1)
	updated.Status = capture.Failed
	changed, err := s.SaveReport(ctx, run, updated)
	if err != nil {
		t.Fatalf("SaveReport() failed: %v", err)
	}
	if !changed {
		t.Error("saving a different document should report changed")
	}

	got, err := s.ReadReport(ctx, "a/B.html")
	if err != nil {
		t.Fatalf("ReadReport() failed: %v", err)
	}
	if got.Document != "<p>two</p>" {
		t.Errorf("document = %q, want %q", got.Document, "<p>two</p>")
	}
	if got.Status != capture.Failed {
		t.Errorf("status = %v, want Failed", got.Status)
	}
	if len(got.Diagrams) != 1 {
		t.Errorf("diagrams = %d, want 1", len(got.Diagrams))
	}
}

func TestSaveReport_DigestIgnoresCallerValue(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	rep := createTestReport("a/B.html", "<p>one</p>", 0)
	rep.Digest = "bogus"
	if _, err := s.SaveReport(ctx, createTestRun(t, s), rep); err != nil {
		t.Fatalf("SaveReport() failed: %v", err)
	}

	got, err := s.ReadReport(ctx, rep.Path)
	if err != nil {
		t.Fatalf("ReadReport() failed: %v", err)
	}
	if got.Digest != Digest("<p>one</p>") {
		t.Errorf("digest = %q, want %q", got.Digest, Digest("<p>one</p>"))
	}
}

func TestSaveReport_EmptyPath(t *testing.T) {
	s := createTestStore(t)

	_, err := s.SaveReport(context.Background(), createTestRun(t, s), createTestReport("", "x", 0))
	if err == nil {
		t.Error("expected error for empty path")
	}
}

func TestSaveReport_UnknownRunRollsBack(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	_, err := s.SaveReport(ctx, Run{ID: "missing", Seq: 9}, createTestReport("a/B.html", "x", 2))
	if err == nil {
		t.Fatal("expected foreign key error for unknown run")
	}

	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM diagrams").Scan(&n); err != nil {
		t.Fatalf("count diagrams: %v", err)
	}
	if n != 0 {
		t.Errorf("diagrams after failed save = %d, want 0", n)
	}
}

func TestDeleteReport(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	if _, err := s.SaveReport(ctx, createTestRun(t, s), createTestReport("a/B.html", "x", 1)); err != nil {
		t.Fatalf("SaveReport() failed: %v", err)
	}
	if err := s.DeleteReport(ctx, "a/B.html"); err != nil {
		t.Fatalf("DeleteReport() failed: %v", err)
	}
	if err := s.DeleteReport(ctx, "a/B.html"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second DeleteReport() error = %v, want ErrNotFound", err)
	}
}

func TestDigest_DomainSeparated(t *testing.T) {
	doc := "<p>hello</p>"

	if Digest(doc) != Digest(doc) {
		t.Error("Digest is not deterministic")
	}
	if Digest(doc) == hashWithDomain("other/v1", []byte(doc)) {
		t.Error("digest should depend on the domain")
	}
	if len(Digest(doc)) != 64 {
		t.Errorf("digest length = %d, want 64 hex chars", len(Digest(doc)))
	}
}

func TestNewReport_FromDocument(t *testing.T) {
	doc := &report.Document{
		Class:  capture.TestClass{Package: "example/orders", Name: "PlacingOrdersTest"},
		Path:   "example/orders/PlacingOrdersTest.html",
		Status: capture.Passed,
		HTML:   "<html></html>",
		Diagrams: []sequence.SVG{
			{ID: "d1", Markup: "@startuml\n@enduml", XML: "<svg/>\n"},
		},
	}

	rep := NewReport(doc)

	if rep.Path != doc.Path || rep.Document != doc.HTML || rep.Status != doc.Status {
		t.Errorf("NewReport() = %+v, does not match document", rep)
	}
	if rep.Digest != Digest(doc.HTML) {
		t.Errorf("digest = %q, want %q", rep.Digest, Digest(doc.HTML))
	}
	if len(rep.Diagrams) != 1 || rep.Diagrams[0].SVG != "<svg/>\n" || !strings.HasPrefix(rep.Diagrams[0].Markup, "@startuml") {
		t.Errorf("diagrams = %+v", rep.Diagrams)
	}
}
