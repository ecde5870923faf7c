//go:build unix

package mmap

import (
	"os"
	"path/filepath"
	"testing"
)

func TestOpenWritableRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "buf.bin")

	f, b, err := Open(path, 64, Writable|RandomAccess)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if len(b) != 64 {
		t.Fatalf("got %d mapped bytes, wanted 64", len(b))
	}
	copy(b, "hello")
	if err := Unmap(b); err != nil {
		t.Fatalf("Unmap failed: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if len(raw) != 64 || string(raw[:5]) != "hello" {
		t.Fatalf("file contents %q, wanted hello in 64 bytes", raw)
	}
}

func TestOpenReadOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "buf.bin")
	if err := os.WriteFile(path, []byte("0123456789"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	f, b, err := Open(path, 10, SequentialAccess)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer f.Close()
	defer Unmap(b)
	if string(b) != "0123456789" {
		t.Fatalf("got %q, wanted 0123456789", b)
	}
}

func TestOpenReadOnlyTooShort(t *testing.T) {
	path := filepath.Join(t.TempDir(), "buf.bin")
	if err := os.WriteFile(path, []byte("abc"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if _, _, err := Open(path, 100, 0); err == nil {
		t.Fatalf("Open succeeded on a short file, wanted error")
	}
}

func TestMapInvalidSize(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "buf")
	if err != nil {
		t.Fatalf("CreateTemp failed: %v", err)
	}
	defer f.Close()
	if _, err := Map(f, 0, Writable); err == nil {
		t.Fatalf("Map(0) succeeded, wanted error")
	}
}
