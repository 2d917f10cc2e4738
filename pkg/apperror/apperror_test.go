package apperror

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{name: "conflict", err: Conflict("already liked"), want: KindConflict},
		{name: "not found", err: NotFound("missing"), want: KindNotFound},
		{name: "wrapped in fmt", err: fmt.Errorf("context: %w", Forbidden("no")), want: KindForbidden},
		{name: "untagged error", err: errors.New("boom"), want: KindInternal},
		{name: "nil", err: nil, want: KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestInternal_PreservesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Internal(cause)

	if !errors.Is(err, cause) {
		t.Error("Internal() lost the underlying cause")
	}
	if KindOf(err) != KindInternal {
		t.Errorf("KindOf() = %v, want %v", KindOf(err), KindInternal)
	}
}

func TestWithDetails(t *testing.T) {
	err := Validation("bad input").WithDetails("name is required", "email is invalid")

	if len(err.Details) != 2 {
		t.Errorf("Details length = %d, want 2", len(err.Details))
	}
}
