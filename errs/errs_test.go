package errs

import (
	"errors"
	"strings"
	"testing"
)

func TestConfigErrorUnwraps(t *testing.T) {
	inner := errors.New("bad value")
	err := NewConfigError("numberOfAgents", inner)
	if !errors.Is(err, inner) {
		t.Fatal("expected errors.Is to see through ConfigError to the wrapped error")
	}
}

func TestDataErrorMessageIncludesContext(t *testing.T) {
	err := NewDataError("resource feed", errors.New("bad row"))
	if !strings.Contains(err.Error(), "resource feed") {
		t.Fatalf("expected the message to include its context, got %q", err.Error())
	}
}

func TestInvariantViolationHasNoWrappedError(t *testing.T) {
	err := NewInvariantViolation("duplicate assignment")
	if errors.Unwrap(err) != nil {
		t.Fatalf("expected no wrapped error, got %v", errors.Unwrap(err))
	}
	if err.Error() != "invariant violation: duplicate assignment" {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}

func TestStrategyErrorUnwraps(t *testing.T) {
	inner := errors.New("non-adjacent intersection")
	err := NewStrategyError(7, inner)
	if !errors.Is(err, inner) {
		t.Fatal("expected errors.Is to see through StrategyError to the wrapped error")
	}
}
