package core

import (
	"errors"
	"testing"
)

func TestNewID_UniqueAndNonEmpty(t *testing.T) {
	seen := make(map[ID]bool)
	for i := 0; i < 100; i++ {
		id := NewID()
		if id.IsEmpty() {
			t.Fatal("generated ID is empty")
		}
		if seen[id] {
			t.Fatalf("duplicate ID generated: %s", id)
		}
		seen[id] = true
	}
}

func TestParseColumnKey(t *testing.T) {
	key, err := ParseColumnKey("revenue")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if key.String() != "revenue" {
		t.Fatalf("expected revenue, got %s", key)
	}
	if _, err := ParseColumnKey("   "); err == nil {
		t.Fatal("blank key should be rejected")
	}
}

func TestErrorConstructorsWrapSentinels(t *testing.T) {
	cases := []struct {
		err      error
		sentinel error
	}{
		{NewInvalidConfigError("alpha", "must be in (0, 1)"), ErrInvalidConfig},
		{NewUnknownConfigKeyError("alhpa"), ErrInvalidConfig},
		{NewColumnNotFoundError("missing"), ErrColumnNotFound},
		{NewTypeMismatchError("grp", "categorical", "numeric"), ErrTypeMismatch},
		{NewInsufficientDataError("group a", 1, 2), ErrInsufficientData},
		{NewDegenerateInputError("column x", "zero variance"), ErrDegenerateInput},
	}
	for _, c := range cases {
		if !errors.Is(c.err, c.sentinel) {
			t.Errorf("%v does not wrap %v", c.err, c.sentinel)
		}
	}
}

func TestErrorClassHelpers(t *testing.T) {
	if !IsConfigError(NewColumnNotFoundError("x")) {
		t.Error("column-not-found should classify as config error")
	}
	if !IsStructuralError(ErrLengthMismatch) {
		t.Error("length mismatch should classify as structural error")
	}
	if !IsDataError(ErrSingularDesign) {
		t.Error("singular design should classify as data error")
	}
	if !IsCancelled(ErrCancelled) {
		t.Error("cancellation helper broken")
	}
	if IsDataError(ErrInvalidConfig) || IsConfigError(ErrInsufficientData) {
		t.Error("error classes must not overlap")
	}
}
