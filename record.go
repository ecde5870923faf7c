package fixrec

import (
	"fmt"
	"strings"
)

// indexSink receives index maintenance callbacks from a Record's write path.
// A Repository passes itself when constructing its cursor records; free
// standing records have no sink.
type indexSink interface {
	indexedWrite(f FieldID, off int, key indexKey)
	isUniqueValue(f FieldID, key indexKey) bool
}

// Record is a flyweight over one encoded record inside a Buffer it does not
// own. It binds to exactly one (buffer, offset) pair at a time; Bind swaps
// the binding atomically and resets the key lock and any pending
// record-level snapshot.
type Record struct {
	schema    *Schema
	buf       *Buffer
	off       int
	keyLocked bool
	sink      indexSink
	txCopy    []byte
	txPending bool
}

// NewRecord returns an unbound flyweight for the schema. Bind it before use.
func NewRecord(schema *Schema) *Record {
	return &Record{schema: schema}
}

// NewStandalone returns a record bound to an internally allocated buffer
// with the header already written.
func NewStandalone(schema *Schema) *Record {
	r := NewRecord(schema)
	r.BindWriteHeader(NewBuffer(schema.stride), 0)
	return r
}

func (r *Record) Schema() *Schema { return r.schema }
func (r *Record) Buffer() *Buffer { return r.buf }

// Offset returns the buffer offset of the current binding.
func (r *Record) Offset() int { return r.off }

// SupportsTransactions reports whether the schema enables the
// snapshot/rollback capability.
func (r *Record) SupportsTransactions() bool { return r.schema.transactional }

// Bind points the flyweight at buf starting at off. The key lock and any
// pending record-level snapshot are reset.
func (r *Record) Bind(buf *Buffer, off int) {
	if off < 0 || off+r.schema.stride > buf.Len() {
		panic(fmt.Errorf("record %s does not fit: offset %d + stride %d exceeds buffer length %d",
			r.schema.name, off, r.schema.stride, buf.Len()))
	}
	r.buf = buf
	r.off = off
	r.keyLocked = false
	r.txPending = false
}

// BindWriteHeader is Bind followed by WriteHeader.
func (r *Record) BindWriteHeader(buf *Buffer, off int) {
	r.Bind(buf, off)
	r.WriteHeader()
}

// WriteHeader brands the bound region with the schema's typeId/groupId and
// stride.
func (r *Record) WriteHeader() {
	r.buf.requireMutable()
	r.buf.PutInt16(r.off+headerTypeOffset, r.schema.typeID)
	r.buf.PutInt16(r.off+headerGroupOffset, r.schema.groupID)
	r.buf.PutInt32(r.off+headerLengthOffset, int32(r.schema.stride))
}

// ValidateHeader compares the bound region's header against the schema's
// expected typeId, groupId and stride. Never panics; false means the region
// holds foreign or stale data.
func (r *Record) ValidateHeader() bool {
	if r.buf.Int16At(r.off+headerTypeOffset) != r.schema.typeID {
		return false
	}
	if r.buf.Int16At(r.off+headerGroupOffset) != r.schema.groupID {
		return false
	}
	return r.buf.Int32At(r.off+headerLengthOffset) == int32(r.schema.stride)
}

// LockKey prevents any further writes to the key field until the next Bind.
// Idempotent.
func (r *Record) LockKey() {
	if !r.schema.HasKey() {
		panic(fmt.Errorf("schema %s has no key field", r.schema.name))
	}
	r.keyLocked = true
}

func (r *Record) checkWrite(fl *Field) {
	r.buf.requireMutable()
	if fl.Sequence {
		panic(fmt.Errorf("field %s is sequence-generated, use Initialize or NextSequence", fl.Name))
	}
	if fl.Key && r.keyLocked {
		panic(fmt.Errorf("cannot write key field %s after locking", fl.Name))
	}
}

// commitWrite runs the fixed indexed-write sequence: uniqueness check, byte
// write, index notify. Returns false with no mutation when the uniqueness
// predicate rejects the value.
func (r *Record) commitWrite(f FieldID, fl *Field, key indexKey, put func()) bool {
	if fl.Indexed {
		if fl.Unique && r.sink != nil && !r.sink.isUniqueValue(f, key) {
			return false
		}
		put()
		if r.sink != nil {
			r.sink.indexedWrite(f, r.off, key)
		}
		return true
	}
	put()
	return true
}

func (r *Record) ReadInt16(f FieldID) int16 {
	r.schema.requireKind(f, KindInt16)
	return r.buf.Int16At(r.off + r.schema.offsets[f])
}

func (r *Record) WriteInt16(f FieldID, v int16) bool {
	fl := r.schema.requireKind(f, KindInt16)
	r.checkWrite(fl)
	return r.commitWrite(f, fl, indexKeyInt(int64(v)), func() {
		r.buf.PutInt16(r.off+r.schema.offsets[f], v)
	})
}

func (r *Record) ReadInt32(f FieldID) int32 {
	r.schema.requireKind(f, KindInt32)
	return r.buf.Int32At(r.off + r.schema.offsets[f])
}

func (r *Record) WriteInt32(f FieldID, v int32) bool {
	fl := r.schema.requireKind(f, KindInt32)
	r.checkWrite(fl)
	return r.commitWrite(f, fl, indexKeyInt(int64(v)), func() {
		r.buf.PutInt32(r.off+r.schema.offsets[f], v)
	})
}

func (r *Record) ReadInt64(f FieldID) int64 {
	r.schema.requireKind(f, KindInt64)
	return r.buf.Int64At(r.off + r.schema.offsets[f])
}

func (r *Record) WriteInt64(f FieldID, v int64) bool {
	fl := r.schema.requireKind(f, KindInt64)
	r.checkWrite(fl)
	return r.commitWrite(f, fl, indexKeyInt(v), func() {
		r.buf.PutInt64(r.off+r.schema.offsets[f], v)
	})
}

func (r *Record) ReadBool(f FieldID) bool {
	r.schema.requireKind(f, KindBool)
	return r.buf.ByteAt(r.off+r.schema.offsets[f]) == 1
}

func (r *Record) WriteBool(f FieldID, v bool) bool {
	fl := r.schema.requireKind(f, KindBool)
	r.checkWrite(fl)
	return r.commitWrite(f, fl, indexKeyBool(v), func() {
		var b byte
		if v {
			b = 1
		}
		r.buf.PutByte(r.off+r.schema.offsets[f], b)
	})
}

func (r *Record) ReadChar16(f FieldID) uint16 {
	r.schema.requireKind(f, KindChar16)
	return r.buf.Uint16At(r.off + r.schema.offsets[f])
}

func (r *Record) WriteChar16(f FieldID, v uint16) bool {
	fl := r.schema.requireKind(f, KindChar16)
	r.checkWrite(fl)
	return r.commitWrite(f, fl, indexKeyChar(v), func() {
		r.buf.PutUint16(r.off+r.schema.offsets[f], v)
	})
}

// ReadString reads a fixed string field, trimmed of padding spaces and of
// the zero bytes a never-written region holds.
func (r *Record) ReadString(f FieldID) string {
	fl := r.schema.requireKind(f, KindFixedString)
	return strings.Trim(r.buf.ASCIIAt(r.off+r.schema.offsets[f], fl.MaxLen), stringTrimCutset)
}

const stringTrimCutset = " \x00"

// WriteString writes a fixed string field without padding: bytes of the
// field beyond len(v) keep their previous content. A value longer than the
// declared maximum is a contract violation.
func (r *Record) WriteString(f FieldID, v string) bool {
	fl := r.schema.requireKind(f, KindFixedString)
	r.checkWrite(fl)
	if len(v) > fl.MaxLen {
		panic(fmt.Errorf("field %s: value of %d bytes exceeds maxLen %d", fl.Name, len(v), fl.MaxLen))
	}
	return r.commitWrite(f, fl, indexKeyString(v), func() {
		r.buf.PutASCII(r.off+r.schema.offsets[f], v)
	})
}

// WriteStringPadded pads v with trailing spaces to the declared maximum,
// then writes it.
func (r *Record) WriteStringPadded(f FieldID, v string) bool {
	fl := r.schema.requireKind(f, KindFixedString)
	if len(v) > fl.MaxLen {
		panic(fmt.Errorf("field %s: value of %d bytes exceeds maxLen %d", fl.Name, len(v), fl.MaxLen))
	}
	return r.WriteString(f, v+strings.Repeat(" ", fl.MaxLen-len(v)))
}

func (r *Record) requireInteger(f FieldID) *Field {
	fl := r.schema.field(f)
	if !fl.Kind.isInteger() {
		panic(fmt.Errorf("field %s is %v, not an integer kind", fl.Name, fl.Kind))
	}
	return fl
}

// Initialize writes an integer field directly, bypassing the sequence
// restriction and index callbacks. Still subject to the key lock when the
// field is the key.
func (r *Record) Initialize(f FieldID, v int64) {
	fl := r.requireInteger(f)
	r.buf.requireMutable()
	if fl.Key && r.keyLocked {
		panic(fmt.Errorf("cannot write key field %s after locking", fl.Name))
	}
	r.putInt(fl, r.off+r.schema.offsets[f], v)
}

// NextSequence increments a sequence-generated integer field and returns the
// post-increment value. The increment is atomic when the bound buffer
// supports it and the field happens to be word-aligned; otherwise it is a
// plain read-increment-write-reread.
func (r *Record) NextSequence(f FieldID) int64 {
	fl := r.requireInteger(f)
	if !fl.Sequence {
		panic(fmt.Errorf("field %s is not sequence-generated", fl.Name))
	}
	r.buf.requireMutable()
	off := r.off + r.schema.offsets[f]
	switch fl.Kind {
	case KindInt32:
		if r.buf.canAtomicAdd(off, 4) {
			return int64(r.buf.atomicAddInt32(off, 1))
		}
	case KindInt64:
		if r.buf.canAtomicAdd(off, 8) {
			return r.buf.atomicAddInt64(off, 1)
		}
	}
	r.putInt(fl, off, r.readInt(fl, off)+1)
	return r.readInt(fl, off)
}

func (r *Record) readInt(fl *Field, off int) int64 {
	switch fl.Kind {
	case KindInt16:
		return int64(r.buf.Int16At(off))
	case KindInt32:
		return int64(r.buf.Int32At(off))
	default:
		return r.buf.Int64At(off)
	}
}

func (r *Record) putInt(fl *Field, off int, v int64) {
	switch fl.Kind {
	case KindInt16:
		r.buf.PutInt16(off, int16(v))
	case KindInt32:
		r.buf.PutInt32(off, int32(v))
	default:
		r.buf.PutInt64(off, v)
	}
}

// ReadKey reads the key field widened to int64.
func (r *Record) ReadKey() int64 {
	if !r.schema.HasKey() {
		panic(fmt.Errorf("schema %s has no key field", r.schema.name))
	}
	f := r.schema.keyField
	return r.readInt(&r.schema.fields[f], r.off+r.schema.offsets[f])
}

// writeKey writes the key field from an int64, bypassing the sequence
// restriction. Panics if the value does not fit the key's kind or the key is
// locked. Indexed keys go through the normal index path.
func (r *Record) writeKey(v int64) bool {
	f := r.schema.keyField
	fl := &r.schema.fields[f]
	switch fl.Kind {
	case KindInt16:
		if int64(int16(v)) != v {
			panic(fmt.Errorf("key %d does not fit field %s (%v)", v, fl.Name, fl.Kind))
		}
	case KindInt32:
		if int64(int32(v)) != v {
			panic(fmt.Errorf("key %d does not fit field %s (%v)", v, fl.Name, fl.Kind))
		}
	}
	r.buf.requireMutable()
	if r.keyLocked {
		panic(fmt.Errorf("cannot write key field %s after locking", fl.Name))
	}
	return r.commitWrite(f, fl, indexKeyInt(v), func() {
		r.putInt(fl, r.off+r.schema.offsets[f], v)
	})
}

func (r *Record) requireTransactional() {
	if !r.schema.transactional {
		panic(fmt.Errorf("schema %s was built without Transactional", r.schema.name))
	}
}

// BeginTransaction snapshots the bound record's stride bytes. A later
// Rollback restores them; Commit discards the snapshot.
func (r *Record) BeginTransaction() {
	r.requireTransactional()
	if r.txCopy == nil {
		r.txCopy = make([]byte, r.schema.stride)
	}
	copy(r.txCopy, r.buf.data[r.off:r.off+r.schema.stride])
	r.txPending = true
}

// Commit makes the pending snapshot ineligible for rollback.
func (r *Record) Commit() {
	r.requireTransactional()
	r.txPending = false
}

// Rollback restores the record bytes captured by BeginTransaction. Returns
// false (and does nothing) if no snapshot is pending.
func (r *Record) Rollback() bool {
	r.requireTransactional()
	if !r.txPending {
		return false
	}
	r.buf.CopyIn(r.off, r.txCopy)
	r.txPending = false
	return true
}
