package fixrec

import (
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
)

type DumpFlags uint64

const (
	DumpHeader = DumpFlags(1 << iota)
	DumpRows
	DumpIndexes

	DumpAll = DumpFlags(0xFFFFFFFFFFFFFFFF)
)

func (f DumpFlags) Contains(v DumpFlags) bool {
	return (f & v) == v
}

var dumpSep = strings.Repeat("-", 60)

// Dump renders the repository state for debugging.
func (repo *Repository) Dump(f DumpFlags) string {
	var buf strings.Builder
	if f.Contains(DumpHeader) {
		fmt.Fprintf(&buf, "%s (%d/%d rows, stride %d, hwm %d)\n",
			repo.schema.name, repo.currentCount, repo.capacity, repo.schema.stride, repo.nextFreeOffset)
	}
	if f.Contains(DumpRows) {
		probe := NewRecord(repo.schema)
		keys := make([]int64, 0, len(repo.offsetByKey))
		for k := range repo.offsetByKey {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
		for _, k := range keys {
			off := repo.offsetByKey[k]
			probe.Bind(repo.buf, off)
			fmt.Fprintf(&buf, "%d @%d =", k, off)
			for i := range repo.schema.fields {
				fmt.Fprintf(&buf, " %s=%v", repo.schema.fields[i].Name, fieldValue(probe, FieldID(i)))
			}
			if !probe.ValidateHeader() {
				buf.WriteString(" ** BAD HEADER")
			}
			buf.WriteByte('\n')
		}
	}
	if f.Contains(DumpIndexes) {
		for i, idx := range repo.indexes {
			if idx == nil {
				continue
			}
			fmt.Fprintln(&buf, dumpSep)
			fmt.Fprintf(&buf, "index %s.%s\n", repo.schema.name, repo.schema.fields[i].Name)
			repo.dumpIndex(&buf, idx)
		}
	}
	return buf.String()
}

func (repo *Repository) dumpIndex(w *strings.Builder, idx *fieldIndex) {
	keys := make([]string, 0, len(idx.forward))
	for key := range idx.forward {
		keys = append(keys, string(key))
	}
	sort.Strings(keys)
	for _, key := range keys {
		offs := idx.offsets(indexKey(key))
		fmt.Fprintf(w, "  %s => %v\n", hex.EncodeToString([]byte(key)), offs)
	}
}
