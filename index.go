package fixrec

import (
	"fmt"
	"sort"
)

// indexKey is the map key form of an indexed field value: an
// order-preserving byte string, so buckets of different kinds never collide
// within a field and keys sort like the values they encode.
type indexKey string

// indexKeyInt encodes a signed integer with the sign bit flipped so the
// big-endian bytes preserve ordering.
func indexKeyInt(v int64) indexKey {
	u := uint64(v) ^ (1 << 63)
	var b [8]byte
	b[0] = byte(u >> 56)
	b[1] = byte(u >> 48)
	b[2] = byte(u >> 40)
	b[3] = byte(u >> 32)
	b[4] = byte(u >> 24)
	b[5] = byte(u >> 16)
	b[6] = byte(u >> 8)
	b[7] = byte(u)
	return indexKey(b[:])
}

func indexKeyBool(v bool) indexKey {
	if v {
		return "\x01"
	}
	return "\x00"
}

func indexKeyChar(v uint16) indexKey {
	return indexKey([]byte{byte(v >> 8), byte(v)})
}

// indexKeyString uses the padding-trimmed value, so field-by-field writes,
// padded writes and appendByCopy re-derivation all agree on the bucket.
func indexKeyString(v string) indexKey {
	for len(v) > 0 && (v[len(v)-1] == ' ' || v[len(v)-1] == 0) {
		v = v[:len(v)-1]
	}
	for len(v) > 0 && (v[0] == ' ' || v[0] == 0) {
		v = v[1:]
	}
	return indexKey(v)
}

// encodeIndexValue converts a caller-supplied query value to the field's
// index key. Wrong value types are caller bugs.
func encodeIndexValue(fl *Field, value any) indexKey {
	switch fl.Kind {
	case KindInt16:
		if v, ok := value.(int16); ok {
			return indexKeyInt(int64(v))
		}
	case KindInt32:
		if v, ok := value.(int32); ok {
			return indexKeyInt(int64(v))
		}
	case KindInt64:
		if v, ok := value.(int64); ok {
			return indexKeyInt(v)
		}
	case KindBool:
		if v, ok := value.(bool); ok {
			return indexKeyBool(v)
		}
	case KindChar16:
		if v, ok := value.(uint16); ok {
			return indexKeyChar(v)
		}
	case KindFixedString:
		if v, ok := value.(string); ok {
			return indexKeyString(v)
		}
	}
	panic(fmt.Errorf("field %s (%v): incompatible index query value %T", fl.Name, fl.Kind, value))
}

// fieldIndex is the index engine for one indexed field: a forward
// value-to-offsets multimap, a reverse offset-to-last-value map, and, for
// unique fields, the set of values ever written.
type fieldIndex struct {
	unique       bool
	forward      map[indexKey]map[int]struct{}
	reverse      map[int]indexKey
	uniqueValues map[indexKey]struct{} // nil unless unique
}

func newFieldIndex(unique bool) *fieldIndex {
	idx := &fieldIndex{
		unique:  unique,
		forward: make(map[indexKey]map[int]struct{}),
		reverse: make(map[int]indexKey),
	}
	if unique {
		idx.uniqueValues = make(map[indexKey]struct{})
	}
	return idx
}

// update rebalances the index after a committed write of key at offset:
// evicts the offset from its stale forward bucket, inserts it into the new
// one, and records the value as the offset's latest. The uniqueness check
// happens earlier, on the record's write path, not here.
func (idx *fieldIndex) update(off int, key indexKey) {
	if old, ok := idx.reverse[off]; ok && old != key {
		delete(idx.forward[old], off)
	}
	bucket := idx.forward[key]
	if bucket == nil {
		bucket = make(map[int]struct{})
		idx.forward[key] = bucket
	}
	bucket[off] = struct{}{}
	idx.reverse[off] = key
	if idx.unique {
		idx.uniqueValues[key] = struct{}{}
	}
}

func (idx *fieldIndex) isUnique(key indexKey) bool {
	_, taken := idx.uniqueValues[key]
	return !taken
}

// offsets returns the bucket for key in ascending offset order.
func (idx *fieldIndex) offsets(key indexKey) []int {
	bucket := idx.forward[key]
	out := make([]int, 0, len(bucket))
	for off := range bucket {
		out = append(out, off)
	}
	sort.Ints(out)
	return out
}

// clone deep-copies the index for a shadow snapshot.
func (idx *fieldIndex) clone() *fieldIndex {
	cp := &fieldIndex{
		unique:  idx.unique,
		forward: make(map[indexKey]map[int]struct{}, len(idx.forward)),
		reverse: make(map[int]indexKey, len(idx.reverse)),
	}
	for key, bucket := range idx.forward {
		b := make(map[int]struct{}, len(bucket))
		for off := range bucket {
			b[off] = struct{}{}
		}
		cp.forward[key] = b
	}
	for off, key := range idx.reverse {
		cp.reverse[off] = key
	}
	if idx.unique {
		cp.uniqueValues = make(map[indexKey]struct{}, len(idx.uniqueValues))
		for key := range idx.uniqueValues {
			cp.uniqueValues[key] = struct{}{}
		}
	}
	return cp
}
