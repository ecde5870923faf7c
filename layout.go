package fixrec

// Record header layout. The header brands a byte region with the schema's
// typeId/groupId pair and carries the total stride, so a region can be
// identified without knowing the schema in advance.
const (
	headerTypeOffset   = 0 // typeId, int16 LE
	headerGroupOffset  = 2 // groupId, int16 LE
	headerLengthOffset = 4 // bodyLength, int32 LE, equals Stride
	headerLength       = 8
)

// SlotPadding is the number of unused bytes between consecutive record slots
// in a repository buffer. The originating wire format advances offsets by
// stride+1 and sizes buffers accordingly; the purpose of the extra byte is
// not documented there, so it is preserved as an explicit constant rather
// than silently dropped.
const SlotPadding = 1

// buildLayout assigns byte offsets in declaration order, header first.
// Deterministic and side-effect-free apart from filling s.
func buildLayout(s *Schema) {
	s.offsets = make([]int, len(s.fields))
	pos := headerLength
	for i := range s.fields {
		s.offsets[i] = pos
		pos += s.fields[i].byteLength()
	}
	s.stride = pos
}

// slotOffset returns the buffer offset of the 0-based slot i for records of
// the given stride.
func slotOffset(i, stride int) int {
	return i * (stride + SlotPadding)
}
