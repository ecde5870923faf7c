package fixrec

import (
	"fmt"
	"hash/crc32"

	"github.com/cespare/xxhash/v2"
)

// Repository stores up to capacity records of one schema contiguously in a
// single buffer, indexed by their unique integer key. It owns a shared
// cursor Record that all lookup and append operations rebind, so at most one
// returned view is live at a time.
type Repository struct {
	schema       *Schema
	buf          *Buffer
	bufLen       int
	cursor       *Record
	appendCursor *Record // reads the source region during AppendByCopyFromBuffer

	offsetByKey    map[int64]int
	validOffsets   map[int]struct{}
	currentCount   int
	capacity       int
	nextFreeOffset int // high-water mark, only ever advances

	indexes []*fieldIndex // parallel to schema fields, nil for unindexed
	iter    *Iterator

	snap        *repoSnapshot
	snapPending bool
}

// CreateWithCapacity builds a repository for the schema holding at most
// capacity records. The schema must declare exactly one key field of an
// integer kind.
func CreateWithCapacity(schema *Schema, capacity int) (*Repository, error) {
	if capacity < 1 {
		return nil, schemaErrf(schema.name, "", "repository capacity must be >= 1, got %d", capacity)
	}
	if !schema.HasKey() {
		return nil, schemaErrf(schema.name, "", "repository requires a key field")
	}
	if kf := schema.FieldByID(schema.keyField); !kf.Kind.isInteger() {
		return nil, schemaErrf(schema.name, kf.Name, "repository key must be an integer kind, got %v", kf.Kind)
	}

	repo := &Repository{
		schema:       schema,
		bufLen:       capacity * (schema.stride + SlotPadding),
		offsetByKey:  make(map[int64]int),
		validOffsets: make(map[int]struct{}),
		capacity:     capacity,
		indexes:      make([]*fieldIndex, len(schema.fields)),
	}
	repo.buf = NewBuffer(repo.bufLen)
	repo.cursor = NewRecord(schema)
	repo.cursor.sink = repo
	repo.appendCursor = NewRecord(schema)
	repo.iter = &Iterator{repo: repo, fly: repo.cursor}
	for i := range schema.fields {
		if f := &schema.fields[i]; f.Indexed {
			repo.indexes[i] = newFieldIndex(f.Unique)
		}
	}
	if schema.transactional {
		repo.snap = &repoSnapshot{buf: make([]byte, repo.bufLen)}
	}
	return repo, nil
}

func (repo *Repository) Schema() *Schema { return repo.schema }

// CurrentCount returns the number of records currently stored.
func (repo *Repository) CurrentCount() int { return repo.currentCount }

// Capacity returns the maximum number of records the repository can store.
func (repo *Repository) Capacity() int { return repo.capacity }

// ContainsKey reports whether key is present.
func (repo *Repository) ContainsKey(key int64) bool {
	_, ok := repo.offsetByKey[key]
	return ok
}

// UnderlyingBuffer exposes the repository's buffer for zero-copy sharing.
func (repo *Repository) UnderlyingBuffer() *Buffer { return repo.buf }

// AppendWithKey appends a record with the given key and returns the cursor
// bound to it, header written and key locked. Returns nil when the
// repository is full or the key already exists.
func (repo *Repository) AppendWithKey(key int64) *Record {
	if repo.currentCount >= repo.capacity {
		return nil
	}
	if _, dup := repo.offsetByKey[key]; dup {
		return nil
	}
	off := repo.nextFreeOffset
	repo.cursor.BindWriteHeader(repo.buf, off)
	repo.offsetByKey[key] = off
	repo.validOffsets[off] = struct{}{}
	repo.cursor.writeKey(key)
	repo.cursor.LockKey()
	repo.currentCount++
	repo.nextFreeOffset = off + repo.schema.stride + SlotPadding
	return repo.cursor
}

// AppendByCopyFromBuffer ingests a record by bulk-copying stride bytes from
// src at srcOff. The key is read from the source region first; the same
// duplicate/capacity rules as AppendWithKey apply. Every indexed field's
// value is re-derived from the copied bytes and fed through the normal
// index-update path.
func (repo *Repository) AppendByCopyFromBuffer(src *Buffer, srcOff int) *Record {
	if repo.currentCount >= repo.capacity {
		return nil
	}
	repo.appendCursor.Bind(src, srcOff)
	key := repo.appendCursor.ReadKey()
	if _, dup := repo.offsetByKey[key]; dup {
		return nil
	}
	off := repo.nextFreeOffset
	repo.cursor.Bind(repo.buf, off)
	repo.offsetByKey[key] = off
	repo.validOffsets[off] = struct{}{}
	repo.buf.CopyIn(off, src.data[srcOff:srcOff+repo.schema.stride])
	repo.cursor.LockKey()
	repo.currentCount++
	for i := range repo.schema.fields {
		if repo.indexes[i] != nil {
			repo.indexes[i].update(off, repo.indexKeyOfField(repo.cursor, FieldID(i)))
		}
	}
	repo.nextFreeOffset = off + repo.schema.stride + SlotPadding
	return repo.cursor
}

// indexKeyOfField re-derives a field's index key from the record bytes.
func (repo *Repository) indexKeyOfField(r *Record, f FieldID) indexKey {
	switch repo.schema.fields[f].Kind {
	case KindInt16:
		return indexKeyInt(int64(r.ReadInt16(f)))
	case KindInt32:
		return indexKeyInt(int64(r.ReadInt32(f)))
	case KindInt64:
		return indexKeyInt(r.ReadInt64(f))
	case KindBool:
		return indexKeyBool(r.ReadBool(f))
	case KindChar16:
		return indexKeyChar(r.ReadChar16(f))
	default:
		return indexKeyString(r.ReadString(f))
	}
}

// GetByKey binds the cursor to the record stored under key, key locked.
// Returns nil if the key is unknown.
func (repo *Repository) GetByKey(key int64) *Record {
	off, ok := repo.offsetByKey[key]
	if !ok {
		return nil
	}
	repo.cursor.Bind(repo.buf, off)
	repo.cursor.LockKey()
	return repo.cursor
}

// GetByBufferIndex binds the cursor to the 0-based slot i. Returns nil if
// i is past the current count.
func (repo *Repository) GetByBufferIndex(i int) *Record {
	if i < 0 || i >= repo.currentCount {
		return nil
	}
	repo.cursor.Bind(repo.buf, slotOffset(i, repo.schema.stride))
	repo.cursor.LockKey()
	return repo.cursor
}

// GetOffsetByBufferIndex returns the buffer offset of the 0-based slot i,
// or -1 if i is past the current count.
func (repo *Repository) GetOffsetByBufferIndex(i int) int {
	if i < 0 || i >= repo.currentCount {
		return -1
	}
	return slotOffset(i, repo.schema.stride)
}

// GetByBufferOffset binds the cursor to off, but only if off addresses a
// slot that has actually been written. Returns nil for never-written or
// stale offsets.
func (repo *Repository) GetByBufferOffset(off int) *Record {
	if _, ok := repo.validOffsets[off]; !ok {
		return nil
	}
	repo.cursor.Bind(repo.buf, off)
	repo.cursor.LockKey()
	return repo.cursor
}

// AllItems returns the shared unfiltered iterator. Call Reset to rewind; the
// iterator keeps its position across calls.
func (repo *Repository) AllItems() *Iterator { return repo.iter }

// AllWithIndexValue returns, in ascending order, the offsets of all records
// whose last-written value of the indexed field f equals value. Empty if
// none.
func (repo *Repository) AllWithIndexValue(f FieldID, value any) []int {
	idx := repo.indexes[f]
	if idx == nil {
		panic(fmt.Errorf("field %s is not indexed", repo.schema.fields[f].Name))
	}
	return idx.offsets(encodeIndexValue(&repo.schema.fields[f], value))
}

// IsUniqueValue reports whether value has never been written to the
// unique-indexed field f. This is the same predicate the write path
// consults.
func (repo *Repository) IsUniqueValue(f FieldID, value any) bool {
	idx := repo.indexes[f]
	if idx == nil || !idx.unique {
		panic(fmt.Errorf("field %s is not unique-indexed", repo.schema.fields[f].Name))
	}
	return idx.isUnique(encodeIndexValue(&repo.schema.fields[f], value))
}

// indexSink implementation: the cursor record calls back into the engine on
// every successful write to an indexed field.

func (repo *Repository) indexedWrite(f FieldID, off int, key indexKey) {
	repo.indexes[f].update(off, key)
}

func (repo *Repository) isUniqueValue(f FieldID, key indexKey) bool {
	idx := repo.indexes[f]
	if idx == nil || !idx.unique {
		return true
	}
	return idx.isUnique(key)
}

// CopyBytes returns a fresh copy of the entire allocated buffer, unused tail
// capacity included. Allocates.
func (repo *Repository) CopyBytes() []byte {
	return repo.buf.CopyOut(0, repo.bufLen)
}

// Crc32 computes CRC-32/IEEE over the entire allocated buffer, unused tail
// capacity included. Full-scan, not a hot-path call.
func (repo *Repository) Crc32() uint32 {
	return crc32.ChecksumIEEE(repo.buf.data[:repo.bufLen])
}

// Fingerprint computes xxhash64 over the entire allocated buffer. Cheaper
// than Crc32 and not tied to the originating format's checksum.
func (repo *Repository) Fingerprint() uint64 {
	return xxhash.Sum64(repo.buf.data[:repo.bufLen])
}
