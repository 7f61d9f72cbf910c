// Package errors implements the compiler's diagnostic catalogue
// (component H): coded, span-labelled diagnostics, a dedup/max-count
// aware per-unit queue, and the ErrorGuaranteed proof token.
//
// Grounded on the teacher compiler's internal/errors/report.go
// (Report/ReportError) and internal/errors/codes.go (the PAR/MOD/LDR
// code taxonomy), extended with Severity, Labels, Notes and Suggestions
// per spec §4.H, and with the Guaranteed proof token described in
// original_source/compiler/ori_diagnostic/src/guarantee/ (the Rust
// original this spec was distilled from keeps an analogous zero-size
// "a diagnostic was emitted" proof type).
package errors

import (
	"encoding/json"
	stderrors "errors"

	"github.com/sunholo/sigil/internal/ast"
)

// Severity is the diagnostic's severity level.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Label is one (span, text) annotation attached to a diagnostic.
type Label struct {
	Span ast.Span `json:"span"`
	Text string   `json:"text"`
}

// Suggestion is a machine-applicable fix.
type Suggestion struct {
	Message     string  `json:"message"`
	Replacement string  `json:"replacement"`
	Confidence  float64 `json:"confidence"`
}

// Fix is kept for callers that only want one best-effort suggestion
// rather than the full Suggestions list.
type Fix struct {
	Suggestion string  `json:"suggestion"`
	Confidence float64 `json:"confidence"`
}

// ContextFrame narrates the call's position within a larger expression
// ("in the 2nd element of this list"), mirroring types.ContextFrame's
// shape as plain strings so this package has no dependency on
// internal/types.
type ContextFrame struct {
	Kind  string `json:"kind"`
	Index int    `json:"index,omitempty"`
	Func  string `json:"func,omitempty"`
}

// Report is the canonical structured diagnostic. Every diagnostic
// produced anywhere in the compiler -- lex, parse, resolve, typecheck,
// pattern-match -- is built as a Report.
type Report struct {
	Schema          string         `json:"schema"` // always "sigil.diagnostic/v1"
	Code            string         `json:"code"`
	Severity        Severity       `json:"severity"`
	Phase           string         `json:"phase"`
	Message         string         `json:"message"`
	PrimarySpan     ast.Span       `json:"primary_span"`
	PrimaryLabel    string         `json:"primary_label"`
	SecondaryLabels []Label        `json:"secondary_labels,omitempty"`
	Notes           []string       `json:"notes,omitempty"`
	Suggestions     []Suggestion   `json:"suggestions,omitempty"`
	Context         []ContextFrame `json:"context,omitempty"`
	Data            map[string]any `json:"data,omitempty"`
}

// ReportError wraps a Report as an error so it survives errors.As()
// unwrapping through ordinary Go error-handling code.
type ReportError struct {
	Rep *Report
}

func (e *ReportError) Error() string {
	if e.Rep == nil {
		return "unknown error"
	}
	return e.Rep.Code + ": " + e.Rep.Message
}

// AsReport extracts a Report from an error chain.
func AsReport(err error) (*Report, bool) {
	var re *ReportError
	if stderrors.As(err, &re) {
		return re.Rep, true
	}
	return nil, false
}

// WrapReport wraps r as an error, or returns nil if r is nil.
func WrapReport(r *Report) error {
	if r == nil {
		return nil
	}
	return &ReportError{Rep: r}
}

// ToJSON renders r as deterministic JSON.
func (r *Report) ToJSON(compact bool) (string, error) {
	var data []byte
	var err error
	if compact {
		data, err = json.Marshal(r)
	} else {
		data, err = json.MarshalIndent(r, "", "  ")
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Guaranteed is a one-byte proof token: any function that promises at
// least one diagnostic was queued returns one, so callers can
// short-circuit straight to an Idx/Error-typed result without
// re-emitting (spec §4.H "ErrorGuaranteed"). It has no exported
// constructor outside this package's Queue.Push, so holding one really
// does mean a diagnostic was recorded.
type Guaranteed struct{ _ byte }
