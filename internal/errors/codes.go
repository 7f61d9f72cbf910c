// Code taxonomy, extending the teacher's PAR/MOD/LDR families with the
// core's own LEX/RES/TC2/PAT phases per SPEC_FULL.md §7.
package errors

const (
	// Lexer errors (LEX###)
	LEX001 = "LEX001" // invalid byte sequence
	LEX002 = "LEX002" // unterminated string literal
	LEX003 = "LEX003" // confusable Unicode identifier

	// Parser errors (PAR###), carried over from the teacher's taxonomy
	PAR001 = "PAR001" // unexpected token
	PAR002 = "PAR002" // missing closing delimiter
	PAR003 = "PAR003" // invalid function declaration syntax
	PAR008 = "PAR008" // invalid pattern match syntax
	PAR009 = "PAR009" // invalid type annotation syntax

	// Module errors (MOD###)
	MOD001 = "MOD001" // module name doesn't match file path
	MOD002 = "MOD002" // multiple module declarations in a single file

	// Loader errors (LDR###)
	LDR001 = "LDR001" // module file not found
	LDR002 = "LDR002" // circular module dependency

	// Resolution errors (RES###)
	RES001 = "RES001" // unknown identifier
	RES002 = "RES002" // unknown method
	RES003 = "RES003" // coherence violation (overlapping trait impl)
	RES004 = "RES004" // ambiguous method resolution

	// Type errors (TC2###) -- TC2001 realises spec §8 scenario 5's "E2001"
	TC2001 = "TC2001" // type mismatch
	TC2002 = "TC2002" // arity mismatch
	TC2003 = "TC2003" // occurs check failed
	TC2004 = "TC2004" // missing field
	TC2005 = "TC2005" // field typo (did-you-mean)
	TC2006 = "TC2006" // needs unwrap (Option/Result used where its payload was expected)

	// Pattern errors (PAT###)
	PAT001 = "PAT001" // non-exhaustive match
	PAT002 = "PAT002" // unreachable (redundant) arm
	PAT003 = "PAT003" // ill-typed pattern
)

// Info describes one error code for tooling (renderer, docs).
type Info struct {
	Code        string
	Phase       string
	Severity    Severity
	Description string
}

// Registry maps codes to their static metadata.
var Registry = map[string]Info{
	LEX001: {LEX001, "lex", SeverityError, "invalid byte sequence"},
	LEX002: {LEX002, "lex", SeverityError, "unterminated string literal"},
	LEX003: {LEX003, "lex", SeverityWarning, "confusable Unicode identifier"},

	PAR001: {PAR001, "parse", SeverityError, "unexpected token"},
	PAR002: {PAR002, "parse", SeverityError, "missing closing delimiter"},
	PAR003: {PAR003, "parse", SeverityError, "invalid function declaration"},
	PAR008: {PAR008, "parse", SeverityError, "invalid pattern match syntax"},
	PAR009: {PAR009, "parse", SeverityError, "invalid type annotation"},

	MOD001: {MOD001, "module", SeverityError, "module name/path mismatch"},
	MOD002: {MOD002, "module", SeverityError, "multiple module declarations"},

	LDR001: {LDR001, "load", SeverityError, "module not found"},
	LDR002: {LDR002, "load", SeverityError, "circular module dependency"},

	RES001: {RES001, "resolve", SeverityError, "unknown identifier"},
	RES002: {RES002, "resolve", SeverityError, "unknown method"},
	RES003: {RES003, "resolve", SeverityError, "overlapping trait impl"},
	RES004: {RES004, "resolve", SeverityError, "ambiguous method resolution"},

	TC2001: {TC2001, "typecheck", SeverityError, "type mismatch"},
	TC2002: {TC2002, "typecheck", SeverityError, "arity mismatch"},
	TC2003: {TC2003, "typecheck", SeverityError, "occurs check failed"},
	TC2004: {TC2004, "typecheck", SeverityError, "missing field"},
	TC2005: {TC2005, "typecheck", SeverityWarning, "field typo"},
	TC2006: {TC2006, "typecheck", SeverityError, "needs unwrap"},

	PAT001: {PAT001, "match", SeverityWarning, "non-exhaustive match"},
	PAT002: {PAT002, "match", SeverityWarning, "unreachable arm"},
	PAT003: {PAT003, "match", SeverityError, "ill-typed pattern"},
}

// Lookup returns the static metadata for code.
func Lookup(code string) (Info, bool) {
	info, ok := Registry[code]
	return info, ok
}

// IsError reports whether code's registered severity is "error" (an
// unregistered code defaults to error, the conservative choice).
func IsError(code string) bool {
	info, ok := Registry[code]
	if !ok {
		return true
	}
	return info.Severity == SeverityError
}
