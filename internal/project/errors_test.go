package project

import (
	"errors"
	"testing"
)

func TestPathError(t *testing.T) {
	err := NewPathError("create", "/path/to/file.txt", ErrExists)

	want := "create /path/to/file.txt: already exists"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}

	if !errors.Is(err, ErrExists) {
		t.Error("errors.Is should return true for underlying error")
	}

	var pathErr *PathError
	if !errors.As(err, &pathErr) {
		t.Error("errors.As should work for PathError")
	}
	if pathErr.Op != "create" {
		t.Errorf("Op = %q, want %q", pathErr.Op, "create")
	}
	if !IsExists(err) {
		t.Error("IsExists should be true")
	}
}

func TestNameError(t *testing.T) {
	err := &NameError{Name: "a|b", Reason: "contains '|'"}

	want := `invalid name "a|b": contains '|'`
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if !IsInvalidName(err) {
		t.Error("IsInvalidName should be true")
	}
	if IsExists(err) {
		t.Error("IsExists should be false")
	}
}
