package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReporterFormat(t *testing.T) {
	r := &Reporter{NoColor: true}

	d := Wrap(IRUnavailable, "clang failed", fmt.Errorf("exit status 1"))
	formatted := r.Format(d)

	assert.Contains(t, formatted, "error[ir-unavailable]")
	assert.Contains(t, formatted, "clang failed")
	assert.Contains(t, formatted, "caused by: exit status 1")
}

func TestReporterFormatNil(t *testing.T) {
	r := NewReporter()
	assert.Equal(t, "", r.Format(nil))
}

func TestDiagnosticIs(t *testing.T) {
	d := New(ExecTimeout, "parser timed out")
	assert.True(t, Is(d, ExecTimeout))
	assert.False(t, Is(d, ParseUnavailable))
	assert.False(t, Is(fmt.Errorf("plain"), ExecTimeout))
}

func TestDiagnosticUnwrap(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	d := Wrap(JudgeUnavailable, "judge request failed", cause)
	assert.Equal(t, cause, d.Unwrap())
	assert.Contains(t, d.Error(), "judge-unavailable")
	assert.Contains(t, d.Error(), "connection refused")
}
