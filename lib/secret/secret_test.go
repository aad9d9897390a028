// Copyright 2026 The PFE Track Authors
// SPDX-License-Identifier: Apache-2.0

package secret

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewFromBytes(t *testing.T) {
	source := []byte("hunter2")
	buffer, err := NewFromBytes(source)
	if err != nil {
		t.Fatalf("NewFromBytes failed: %v", err)
	}
	defer buffer.Close()

	if got := buffer.String(); got != "hunter2" {
		t.Errorf("String() = %q, want %q", got, "hunter2")
	}
	if buffer.Len() != 7 {
		t.Errorf("Len() = %d, want 7", buffer.Len())
	}

	// The caller's slice must be zeroed.
	for index, b := range source {
		if b != 0 {
			t.Errorf("source[%d] = %d, want 0", index, b)
		}
	}
}

func TestNewFromBytesEmpty(t *testing.T) {
	if _, err := NewFromBytes(nil); err == nil {
		t.Fatal("expected error for empty source")
	}
}

func TestCloseIdempotent(t *testing.T) {
	buffer, err := NewFromBytes([]byte("token"))
	if err != nil {
		t.Fatalf("NewFromBytes failed: %v", err)
	}
	if err := buffer.Close(); err != nil {
		t.Fatalf("first Close failed: %v", err)
	}
	if err := buffer.Close(); err != nil {
		t.Fatalf("second Close failed: %v", err)
	}
}

func TestReadAfterClosePanics(t *testing.T) {
	buffer, err := NewFromBytes([]byte("token"))
	if err != nil {
		t.Fatalf("NewFromBytes failed: %v", err)
	}
	buffer.Close()

	defer func() {
		if recover() == nil {
			t.Error("expected panic reading a closed buffer")
		}
	}()
	_ = buffer.Bytes()
}

func TestReadFromPath(t *testing.T) {
	t.Run("trims trailing newline", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "password")
		if err := os.WriteFile(path, []byte("s3cret\n"), 0600); err != nil {
			t.Fatalf("WriteFile failed: %v", err)
		}

		buffer, err := ReadFromPath(path)
		if err != nil {
			t.Fatalf("ReadFromPath failed: %v", err)
		}
		defer buffer.Close()

		if got := buffer.String(); got != "s3cret" {
			t.Errorf("String() = %q, want %q", got, "s3cret")
		}
	})

	t.Run("empty file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "password")
		if err := os.WriteFile(path, []byte("\n\n"), 0600); err != nil {
			t.Fatalf("WriteFile failed: %v", err)
		}
		if _, err := ReadFromPath(path); err == nil {
			t.Fatal("expected error for whitespace-only file")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := ReadFromPath(filepath.Join(t.TempDir(), "absent")); err == nil {
			t.Fatal("expected error for missing file")
		}
	})
}
