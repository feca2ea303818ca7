package core

import (
	"errors"
	"strings"
	"testing"
)

func TestLoadErrorUnwrapAndMessage(t *testing.T) {
	err := error(&LoadError{Source: "posts.csv", Row: 3, Column: "likes", Err: ErrInvalidValue})
	if !errors.Is(err, ErrInvalidValue) {
		t.Fatalf("expected errors.Is to match ErrInvalidValue")
	}
	var le *LoadError
	if !errors.As(err, &le) || le.Row != 3 {
		t.Fatalf("expected errors.As to recover LoadError, got %#v", le)
	}
	msg := err.Error()
	for _, part := range []string{`"posts.csv"`, "row 3", `column "likes"`, "invalid value"} {
		if !strings.Contains(msg, part) {
			t.Fatalf("message %q missing %q", msg, part)
		}
	}
}
