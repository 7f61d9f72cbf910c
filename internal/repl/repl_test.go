package repl

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessExprPrintsInferredType(t *testing.T) {
	r := New()
	var buf bytes.Buffer

	r.ProcessLine("1 + 2", &buf)
	assert.Contains(t, buf.String(), "int")
}

func TestProcessDeclPersistsBindingAcrossLines(t *testing.T) {
	r := New()
	var buf bytes.Buffer

	r.ProcessLine("func double(x: int) -> int = x * 2", &buf)
	require.Contains(t, buf.String(), "defined")
	_, ok := r.bindings[r.names.Intern("double")]
	require.True(t, ok, "double's scheme should persist in the session")

	buf.Reset()
	r.ProcessLine("double(3)", &buf)
	assert.Contains(t, buf.String(), "int")
}

func TestProcessExprReportsDiagnosticsOnTypeError(t *testing.T) {
	r := New()
	var buf bytes.Buffer

	r.ProcessLine(`1 + "oops"`, &buf)
	assert.Contains(t, buf.String(), "error")
}

func TestHandleCommandResetClearsBindings(t *testing.T) {
	r := New()
	var buf bytes.Buffer

	r.ProcessLine("func id(x: int) -> int = x", &buf)
	require.Len(t, r.bindings, 1)

	buf.Reset()
	r.HandleCommand(":reset", &buf)
	assert.Len(t, r.bindings, 0)
	assert.Contains(t, buf.String(), "cleared")
}

func TestProcessExprReusesCacheForRepeatedLine(t *testing.T) {
	r := New()
	var buf bytes.Buffer

	r.ProcessLine("1 + 2", &buf)
	require.Equal(t, 1, r.cache.Len())

	buf.Reset()
	r.ProcessLine("1 + 2", &buf)
	assert.Equal(t, 1, r.cache.Len(), "re-running identical source should not grow the cache")
	assert.Contains(t, buf.String(), "int")
}

func TestHandleCommandDumpCoreTogglesConfig(t *testing.T) {
	r := New()
	var buf bytes.Buffer

	require.False(t, r.config.ShowCore)
	r.HandleCommand(":dump-core", &buf)
	assert.True(t, r.config.ShowCore)
	r.HandleCommand(":dump-core", &buf)
	assert.False(t, r.config.ShowCore)
}
