package fixrec

import "github.com/vmihailenco/msgpack/v5"

// fieldValue reads field f as a plain Go value.
func fieldValue(r *Record, f FieldID) any {
	switch r.schema.fields[f].Kind {
	case KindInt16:
		return r.ReadInt16(f)
	case KindInt32:
		return r.ReadInt32(f)
	case KindInt64:
		return r.ReadInt64(f)
	case KindBool:
		return r.ReadBool(f)
	case KindChar16:
		return r.ReadChar16(f)
	default:
		return r.ReadString(f)
	}
}

// ExportRecord encodes the bound record as a msgpack map keyed by field
// name, for handing a record to collaborators that own transport or
// persistence. The binary slot layout itself never leaves the buffer.
func ExportRecord(r *Record) ([]byte, error) {
	m := make(map[string]any, len(r.schema.fields))
	for i := range r.schema.fields {
		m[r.schema.fields[i].Name] = fieldValue(r, FieldID(i))
	}
	return msgpack.Marshal(m)
}

// ExportAll encodes every live record, in slot order, as a msgpack array of
// field-name maps. Rebinds a private record, leaving the shared cursor
// alone.
func (repo *Repository) ExportAll() ([]byte, error) {
	probe := NewRecord(repo.schema)
	rows := make([]map[string]any, 0, repo.currentCount)
	for i := 0; i < repo.currentCount; i++ {
		probe.Bind(repo.buf, slotOffset(i, repo.schema.stride))
		m := make(map[string]any, len(repo.schema.fields))
		for j := range repo.schema.fields {
			m[repo.schema.fields[j].Name] = fieldValue(probe, FieldID(j))
		}
		rows = append(rows, m)
	}
	return msgpack.Marshal(rows)
}

// DecodeExported decodes one ExportRecord payload back into a field-name
// map.
func DecodeExported(b []byte) (map[string]any, error) {
	var m map[string]any
	if err := msgpack.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	return m, nil
}
