package errors

import (
	"testing"

	"github.com/sunholo/sigil/internal/ast"
)

func mkReport(code string, sev Severity, start uint32) *Report {
	return &Report{Schema: "sigil.diagnostic/v1", Code: code, Severity: sev, Message: "x", PrimarySpan: ast0(start)}
}

func ast0(start uint32) ast.Span { return ast.Span{Start: start, End: start} }

func TestQueueDedup(t *testing.T) {
	q := NewQueue(0)
	r := mkReport(TC2001, SeverityError, 5)
	q.Push(r)
	q.Push(r) // identical code+span: deduped
	if q.Len() != 1 {
		t.Fatalf("Len() = %d, want 1 after pushing a duplicate", q.Len())
	}
}

func TestQueueMaxCount(t *testing.T) {
	q := NewQueue(2)
	q.Push(&Report{Code: "A", PrimarySpan: ast0(0)})
	q.Push(&Report{Code: "B", PrimarySpan: ast0(1)})
	q.Push(&Report{Code: "C", PrimarySpan: ast0(2)})
	if q.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", q.Len())
	}
	if q.Dropped() != 1 {
		t.Fatalf("Dropped() = %d, want 1", q.Dropped())
	}
}

func TestHasErrorsOnlyCountsErrorSeverity(t *testing.T) {
	q := NewQueue(0)
	q.Push(&Report{Code: "W", Severity: SeverityWarning, PrimarySpan: ast0(0)})
	if q.HasErrors() {
		t.Fatal("a warning-only queue must not report HasErrors")
	}
	q.Push(&Report{Code: "E", Severity: SeverityError, PrimarySpan: ast0(1)})
	if !q.HasErrors() {
		t.Fatal("queue with an error-severity report must report HasErrors")
	}
}

func TestPushReturnsGuaranteed(t *testing.T) {
	q := NewQueue(0)
	var g Guaranteed = q.Push(&Report{Code: "X", PrimarySpan: ast0(0)})
	_ = g // the type itself is the proof; no further assertion is meaningful
}
