//go:build unix

package fixrec

import (
	"path/filepath"
	"testing"
)

func TestMappedRepositoryBuffer(t *testing.T) {
	s, _, score := buildScoreSchema(t)
	path := filepath.Join(t.TempDir(), "scores.bin")
	size := 4 * (s.Stride() + SlotPadding)

	buf, err := MapFile(path, size, true)
	if err != nil {
		t.Fatalf("MapFile failed: %v", err)
	}
	if !buf.Mutable() || buf.Len() != size {
		t.Fatalf("mapped buffer mutable=%v len=%d, wanted mutable len=%d", buf.Mutable(), buf.Len(), size)
	}

	r := NewRecord(s)
	r.BindWriteHeader(buf, 0)
	r.WriteInt32(score, 42)
	if err := buf.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	// remap read-only and see the same bytes
	n, err := MapFileSize(path)
	if err != nil {
		t.Fatalf("MapFileSize failed: %v", err)
	}
	deepEqual(t, n, size)

	ro, err := MapFile(path, n, false)
	if err != nil {
		t.Fatalf("MapFile read-only failed: %v", err)
	}
	defer ro.Close()
	r2 := NewRecord(s)
	r2.Bind(ro, 0)
	if !r2.ValidateHeader() {
		t.Fatalf("ValidateHeader = false after remap, wanted true")
	}
	deepEqual(t, r2.ReadInt32(score), int32(42))
	mustPanic(t, "immutable", func() { r2.WriteInt32(score, 1) })
}
