// Package errors provides the typed error-kind system used across the
// comparison pipeline and a colored renderer for surfacing collaborator
// failures to a human.
package errors

import (
	"fmt"
)

// Kind is the closed set of error kinds a Verdict can surface.
type Kind string

const (
	InvalidInput           Kind = "invalid-input"
	IRUnavailable          Kind = "ir-unavailable"
	ParseUnavailable       Kind = "parse-unavailable"
	ExecTimeout            Kind = "exec-timeout"
	JudgeUnavailable       Kind = "judge-unavailable"
	JudgeMalformedResponse Kind = "judge-malformed-response"
)

// Diagnostic is a structured, user-facing error. It never carries a source
// position; pipeline failures are collaborator-level, not token-level.
type Diagnostic struct {
	Kind    Kind
	Message string
	Cause   error
}

func New(kind Kind, message string) *Diagnostic {
	return &Diagnostic{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, cause error) *Diagnostic {
	return &Diagnostic{Kind: kind, Message: message, Cause: cause}
}

func (d *Diagnostic) Error() string {
	if d.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", d.Kind, d.Message, d.Cause)
	}
	return fmt.Sprintf("%s: %s", d.Kind, d.Message)
}

func (d *Diagnostic) Unwrap() error { return d.Cause }

// Is reports whether err is a Diagnostic of the given kind.
func Is(err error, kind Kind) bool {
	d, ok := err.(*Diagnostic)
	if !ok {
		return false
	}
	return d.Kind == kind
}
