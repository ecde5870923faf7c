package fixrec

import (
	"errors"
	"testing"
)

func TestLayoutOffsets(t *testing.T) {
	s, f := buildOrderSchema(t)

	// header 8, then fields packed in declaration order.
	deepEqual(t, s.Offset(f.id), 8)
	deepEqual(t, s.Offset(f.qty), 12)
	deepEqual(t, s.Offset(f.price), 20)
	deepEqual(t, s.Offset(f.active), 24)
	deepEqual(t, s.Offset(f.side), 25)
	deepEqual(t, s.Offset(f.symbol), 27)
	deepEqual(t, s.Offset(f.seq), 36)
	deepEqual(t, s.Offset(f.ref), 40)
	deepEqual(t, s.Stride(), 48)
}

func TestLayoutDeterminism(t *testing.T) {
	s1, _ := buildOrderSchema(t)
	s2, f := buildOrderSchema(t)
	for i := 0; i < s1.FieldCount(); i++ {
		deepEqual(t, s1.Offset(FieldID(i)), s2.Offset(FieldID(i)))
	}
	deepEqual(t, s1.Stride(), s2.Stride())
	deepEqual(t, s2.KeyField(), f.id)
}

func TestBuildRejectsVarString(t *testing.T) {
	b := New("Bad", 1, 1)
	b.Int32("id").Key()
	b.VarString("note")
	_, err := b.Build()
	var serr *SchemaError
	if !errors.As(err, &serr) {
		t.Fatalf("Build = %v, wanted SchemaError", err)
	}
	if serr.Field != "note" {
		t.Fatalf("SchemaError.Field = %q, wanted note", serr.Field)
	}
}

func TestBuildRejectsTwoKeys(t *testing.T) {
	b := New("Bad", 1, 1)
	b.Int32("a").Key()
	b.Int32("b").Key()
	if _, err := b.Build(); err == nil {
		t.Fatalf("Build succeeded, wanted two-key error")
	}
}

func TestBuildRejectsBadFixedString(t *testing.T) {
	b := New("Bad", 1, 1)
	b.FixedString("s", 0)
	if _, err := b.Build(); err == nil {
		t.Fatalf("Build succeeded, wanted maxLen error")
	}
}

func TestBuildRejectsUniqueWithoutIndexed(t *testing.T) {
	b := New("Bad", 1, 1)
	b.Int32("v").Unique()
	if _, err := b.Build(); err == nil {
		t.Fatalf("Build succeeded, wanted unique-requires-indexed error")
	}
}

func TestBuildRejectsNonIntegerSequence(t *testing.T) {
	b := New("Bad", 1, 1)
	b.Bool("flag").Sequence()
	if _, err := b.Build(); err == nil {
		t.Fatalf("Build succeeded, wanted sequence-kind error")
	}
}

func TestKeylessSchemaIsValid(t *testing.T) {
	b := New("Plain", 3, 1)
	b.Int64("value")
	s, err := b.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if s.HasKey() {
		t.Fatalf("HasKey = true, wanted false")
	}
	// ...but it cannot back a repository.
	if _, err := CreateWithCapacity(s, 4); err == nil {
		t.Fatalf("CreateWithCapacity succeeded, wanted key-required error")
	}
}

func TestRepositoryRejectsNonIntegerKey(t *testing.T) {
	b := New("Bad", 1, 1)
	b.FixedString("name", 4).Key()
	s, err := b.Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if _, err := CreateWithCapacity(s, 4); err == nil {
		t.Fatalf("CreateWithCapacity succeeded, wanted integer-key error")
	}
}
