package services

import (
	"errors"
	"net/http"
	"testing"
)

func TestAppErrorMessage(t *testing.T) {
	inner := errors.New("disk full")
	err := newAppError(http.StatusInternalServerError, "failed to save bookmark", inner)

	if err.Error() != "failed to save bookmark: disk full" {
		t.Fatalf("unexpected message: %q", err.Error())
	}
	if !errors.Is(err, inner) {
		t.Fatal("expected the wrapped error to unwrap")
	}
}

func TestAppErrorWithoutCause(t *testing.T) {
	err := newNotFoundError("bookmark not found")
	if err.Error() != "bookmark not found" {
		t.Fatalf("unexpected message: %q", err.Error())
	}
	if err.Unwrap() != nil {
		t.Fatal("expected no wrapped error")
	}
}

func TestAsAppErrorPassesTypedOutcomesThrough(t *testing.T) {
	conflict := newConflictError("position conflict")

	var appErr *AppError
	if !errors.As(asAppError(conflict), &appErr) {
		t.Fatal("expected an AppError")
	}
	if appErr != conflict {
		t.Fatal("typed outcomes must pass through unchanged")
	}
}

func TestAsAppErrorWrapsPlainErrors(t *testing.T) {
	plain := errors.New("commit failed")

	var appErr *AppError
	if !errors.As(asAppError(plain), &appErr) {
		t.Fatal("expected an AppError")
	}
	if appErr.HTTPCode != http.StatusInternalServerError {
		t.Fatalf("plain errors must map to 500, got %d", appErr.HTTPCode)
	}
	if !errors.Is(appErr, plain) {
		t.Fatal("the plain error must stay reachable via Unwrap")
	}
}

func TestAsAppErrorNil(t *testing.T) {
	if asAppError(nil) != nil {
		t.Fatal("nil must stay nil")
	}
}
