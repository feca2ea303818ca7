package core

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrSourceMissing = errors.New("dataset source not found")
	ErrMalformed     = errors.New("malformed dataset")
	ErrMissingColumn = errors.New("missing required column")
	ErrInvalidValue  = errors.New("invalid value")
)

// LoadError reports why a dataset could not be loaded. Row is 1-based and
// counts data rows only; it is zero when the failure is not tied to a row.
type LoadError struct {
	Source string
	Row    int
	Column string
	Err    error
}

func (e *LoadError) Error() string {
	var b strings.Builder
	b.WriteString("load dataset")
	if e.Source != "" {
		fmt.Fprintf(&b, " %q", e.Source)
	}
	if e.Row > 0 {
		fmt.Fprintf(&b, " row %d", e.Row)
	}
	if e.Column != "" {
		fmt.Fprintf(&b, " column %q", e.Column)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
