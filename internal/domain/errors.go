package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for the rename engine
var (
	ErrTemplateValidation  = errors.New("template validation failed")
	ErrInvalidFormat       = errors.New("invalid format")
	ErrDateParse           = errors.New("date parse failed")
	ErrNoMatch             = errors.New("no match")
	ErrMetadataUnavailable = errors.New("metadata unavailable")
	ErrInvalidArgument     = errors.New("invalid argument")
	ErrDestinationExists   = errors.New("destination already exists")
	ErrRetriesExhausted    = errors.New("collision retries exhausted")
)

// TemplateError describes a malformed, asymmetric, or conflicting marker.
// It is fatal to the whole task.
type TemplateError struct {
	Template string
	Marker   string
	Reason   string
}

func (e *TemplateError) Error() string {
	if e.Marker == "" {
		return fmt.Sprintf("invalid template %q: %s", e.Template, e.Reason)
	}
	return fmt.Sprintf("invalid template %q: marker %s: %s", e.Template, e.Marker, e.Reason)
}

func (e *TemplateError) Is(target error) bool {
	return target == ErrTemplateValidation
}

// FormatError reports a numeric or date format rejected at rule construction
type FormatError struct {
	Format string
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid format %q: %s", e.Format, e.Reason)
}

func (e *FormatError) Is(target error) bool {
	return target == ErrInvalidFormat
}

// RuleError wraps a per-file failure raised while applying a rule.
// It is scoped to one job.
type RuleError struct {
	Rule string
	File string
	Err  error
}

func (e *RuleError) Error() string {
	return fmt.Sprintf("rule %s on %q: %v", e.Rule, e.File, e.Err)
}

func (e *RuleError) Unwrap() error {
	return e.Err
}
