package fixrec

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

func TestExportRecord(t *testing.T) {
	s, f := buildOrderSchema(t)
	r := NewStandalone(s)
	r.WriteInt32(f.id, 42)
	r.WriteInt64(f.qty, 7)
	r.WriteBool(f.active, true)
	r.WriteChar16(f.side, 'B')
	r.WriteString(f.symbol, "MSFT")

	b, err := ExportRecord(r)
	require.NoError(t, err)

	m, err := DecodeExported(b)
	require.NoError(t, err)
	require.Len(t, m, s.FieldCount())
	require.EqualValues(t, 42, m["id"])
	require.EqualValues(t, 7, m["qty"])
	require.Equal(t, true, m["active"])
	require.EqualValues(t, 'B', m["side"])
	require.Equal(t, "MSFT", m["symbol"])
}

func TestExportAll(t *testing.T) {
	repo, f := newOrderRepo(t, 4)
	repo.AppendWithKey(1).WriteInt32(f.price, 10)
	repo.AppendWithKey(2).WriteInt32(f.price, 20)

	b, err := repo.ExportAll()
	require.NoError(t, err)

	var rows []map[string]any
	require.NoError(t, msgpack.Unmarshal(b, &rows))
	require.Len(t, rows, 2)
	require.EqualValues(t, 1, rows[0]["id"])
	require.EqualValues(t, 10, rows[0]["price"])
	require.EqualValues(t, 2, rows[1]["id"])
	require.EqualValues(t, 20, rows[1]["price"])
}

func TestExportAllLeavesCursorAlone(t *testing.T) {
	repo, f := newOrderRepo(t, 4)
	repo.AppendWithKey(1)
	r := repo.GetByKey(1)

	_, err := repo.ExportAll()
	require.NoError(t, err)

	// the shared cursor still points at record 1 with its key locked
	require.EqualValues(t, 1, r.ReadInt32(f.id))
	mustPanic(t, "after locking", func() { r.WriteInt32(f.id, 9) })
}
