package fixrec

import "fmt"

// Kind enumerates the field types a schema can carry. VarString is accepted
// by the builder but rejected at Build time; no variable-length encoding is
// supported.
type Kind int

const (
	KindInvalid Kind = iota
	KindInt16
	KindInt32
	KindInt64
	KindBool
	KindChar16
	KindFixedString
	KindVarString
)

func (k Kind) String() string {
	switch k {
	case KindInt16:
		return "int16"
	case KindInt32:
		return "int32"
	case KindInt64:
		return "int64"
	case KindBool:
		return "bool"
	case KindChar16:
		return "char16"
	case KindFixedString:
		return "fixedstring"
	case KindVarString:
		return "varstring"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

func (k Kind) isInteger() bool {
	return k == KindInt16 || k == KindInt32 || k == KindInt64
}

// FieldID identifies a field by its declaration position within a schema.
type FieldID int

// Field is the static description of one schema field.
type Field struct {
	Name     string
	Kind     Kind
	MaxLen   int // byte length of FixedString fields
	Key      bool
	Indexed  bool
	Unique   bool
	Sequence bool
}

func (f *Field) byteLength() int {
	switch f.Kind {
	case KindInt16, KindChar16:
		return 2
	case KindInt32:
		return 4
	case KindInt64:
		return 8
	case KindBool:
		return 1
	case KindFixedString:
		return f.MaxLen
	default:
		panic(fmt.Errorf("field %s: no byte length for kind %v", f.Name, f.Kind))
	}
}

// Schema is an immutable record description plus its compiled layout.
// Build one via New.
type Schema struct {
	name          string
	typeID        int16
	groupID       int16
	transactional bool
	fields        []Field
	fieldsByName  map[string]FieldID
	offsets       []int
	stride        int
	keyField      FieldID // -1 if no key field declared
}

func (s *Schema) Name() string        { return s.name }
func (s *Schema) TypeID() int16       { return s.typeID }
func (s *Schema) GroupID() int16      { return s.groupID }
func (s *Schema) Transactional() bool { return s.transactional }
func (s *Schema) FieldCount() int     { return len(s.fields) }

// Stride is the total byte length of one encoded record, header included.
func (s *Schema) Stride() int { return s.stride }

// HasKey reports whether the schema declares a key field.
func (s *Schema) HasKey() bool { return s.keyField >= 0 }

// KeyField returns the key field's ID, or -1 if none is declared.
func (s *Schema) KeyField() FieldID { return s.keyField }

func (s *Schema) FieldByID(f FieldID) *Field {
	return &s.fields[f]
}

func (s *Schema) Field(name string) (FieldID, bool) {
	f, ok := s.fieldsByName[name]
	return f, ok
}

func (s *Schema) MustField(name string) FieldID {
	f, ok := s.fieldsByName[name]
	if !ok {
		panic(fmt.Errorf("schema %s has no field %q", s.name, name))
	}
	return f
}

// Offset returns the byte offset of the field relative to the start of the
// record, header included.
func (s *Schema) Offset(f FieldID) int {
	return s.offsets[f]
}

func (s *Schema) field(f FieldID) *Field {
	if f < 0 || int(f) >= len(s.fields) {
		panic(fmt.Errorf("schema %s has no field #%d", s.name, f))
	}
	return &s.fields[f]
}

func (s *Schema) requireKind(f FieldID, k Kind) *Field {
	fl := s.field(f)
	if fl.Kind != k {
		panic(fmt.Errorf("schema %s: field %s is %v, accessed as %v", s.name, fl.Name, fl.Kind, k))
	}
	return fl
}

// SchemaBuilder accumulates field declarations. Declaration order determines
// both FieldIDs and the byte layout.
type SchemaBuilder struct {
	name          string
	typeID        int16
	groupID       int16
	transactional bool
	fields        []Field
}

// New starts a schema named name, branded with the given typeID/groupID pair
// in every record header.
func New(name string, typeID, groupID int16) *SchemaBuilder {
	return &SchemaBuilder{name: name, typeID: typeID, groupID: groupID}
}

// Transactional enables the record-level and repository-level
// snapshot/rollback capability.
func (b *SchemaBuilder) Transactional() *SchemaBuilder {
	b.transactional = true
	return b
}

// FieldBuilder chains attribute declarations onto one field.
type FieldBuilder struct {
	b  *SchemaBuilder
	id FieldID
}

// ID returns the field's FieldID, fixed at declaration time.
func (fb *FieldBuilder) ID() FieldID { return fb.id }

func (fb *FieldBuilder) field() *Field { return &fb.b.fields[fb.id] }

// Key marks the field as the record key. A schema may have at most one.
func (fb *FieldBuilder) Key() *FieldBuilder {
	fb.field().Key = true
	return fb
}

// Indexed maintains a value index for the field when the record lives in a
// repository.
func (fb *FieldBuilder) Indexed() *FieldBuilder {
	fb.field().Indexed = true
	return fb
}

// Unique adds a uniqueness constraint to an indexed field.
func (fb *FieldBuilder) Unique() *FieldBuilder {
	fb.field().Unique = true
	return fb
}

// Sequence marks an integer field as sequence-generated. Such fields skip
// the normal write path; use Record.Initialize and Record.NextSequence.
func (fb *FieldBuilder) Sequence() *FieldBuilder {
	fb.field().Sequence = true
	return fb
}

func (b *SchemaBuilder) add(f Field) *FieldBuilder {
	b.fields = append(b.fields, f)
	return &FieldBuilder{b, FieldID(len(b.fields) - 1)}
}

func (b *SchemaBuilder) Int16(name string) *FieldBuilder {
	return b.add(Field{Name: name, Kind: KindInt16})
}
func (b *SchemaBuilder) Int32(name string) *FieldBuilder {
	return b.add(Field{Name: name, Kind: KindInt32})
}
func (b *SchemaBuilder) Int64(name string) *FieldBuilder {
	return b.add(Field{Name: name, Kind: KindInt64})
}
func (b *SchemaBuilder) Bool(name string) *FieldBuilder {
	return b.add(Field{Name: name, Kind: KindBool})
}
func (b *SchemaBuilder) Char16(name string) *FieldBuilder {
	return b.add(Field{Name: name, Kind: KindChar16})
}
func (b *SchemaBuilder) FixedString(name string, maxLen int) *FieldBuilder {
	return b.add(Field{Name: name, Kind: KindFixedString, MaxLen: maxLen})
}

// VarString declares a variable-length string field. The declaration is
// accepted so front ends can hand over any schema, but Build rejects it.
func (b *SchemaBuilder) VarString(name string) *FieldBuilder {
	return b.add(Field{Name: name, Kind: KindVarString})
}

// Build validates the declarations and compiles the byte layout.
func (b *SchemaBuilder) Build() (*Schema, error) {
	s := &Schema{
		name:          b.name,
		typeID:        b.typeID,
		groupID:       b.groupID,
		transactional: b.transactional,
		fields:        append([]Field(nil), b.fields...),
		fieldsByName:  make(map[string]FieldID, len(b.fields)),
		keyField:      -1,
	}
	for i := range s.fields {
		f := &s.fields[i]
		if f.Name == "" {
			return nil, schemaErrf(b.name, "", "field #%d has no name", i)
		}
		if _, dup := s.fieldsByName[f.Name]; dup {
			return nil, schemaErrf(b.name, f.Name, "duplicate field name")
		}
		s.fieldsByName[f.Name] = FieldID(i)

		switch f.Kind {
		case KindVarString:
			return nil, schemaErrf(b.name, f.Name, "variable-length strings are not supported")
		case KindFixedString:
			if f.MaxLen < 1 {
				return nil, schemaErrf(b.name, f.Name, "fixed string requires maxLen >= 1, got %d", f.MaxLen)
			}
		}
		if f.Key {
			if s.keyField >= 0 {
				return nil, schemaErrf(b.name, f.Name, "second key field (first was %s)", s.fields[s.keyField].Name)
			}
			s.keyField = FieldID(i)
		}
		if f.Unique && !f.Indexed {
			return nil, schemaErrf(b.name, f.Name, "unique requires indexed")
		}
		if f.Sequence && !f.Kind.isInteger() {
			return nil, schemaErrf(b.name, f.Name, "sequence requires an integer kind, got %v", f.Kind)
		}
	}
	buildLayout(s)
	return s, nil
}

// MustBuild is Build for statically known schemas.
func (b *SchemaBuilder) MustBuild() *Schema {
	s, err := b.Build()
	if err != nil {
		panic(err)
	}
	return s
}
