package fixrec

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRepositoryTransactionRollback(t *testing.T) {
	repo, f := newOrderRepo(t, 4)
	repo.AppendWithKey(1).WriteInt32(f.price, 100)
	repo.AppendWithKey(2).WriteInt32(f.price, 200)

	crcBefore := repo.Crc32()
	repo.BeginTransaction()

	repo.GetByKey(1).WriteInt32(f.price, 999)
	repo.AppendWithKey(3).WriteInt64(f.ref, 777)
	require.Equal(t, 3, repo.CurrentCount())

	require.True(t, repo.Rollback())

	// buffer, count, key map, index engine and the high-water mark are all
	// back at the captured point
	require.Equal(t, crcBefore, repo.Crc32())
	require.Equal(t, 2, repo.CurrentCount())
	require.False(t, repo.ContainsKey(3))
	require.Equal(t, int32(100), repo.GetByKey(1).ReadInt32(f.price))
	require.Equal(t, []int{0}, repo.AllWithIndexValue(f.price, int32(100)))
	require.Empty(t, repo.AllWithIndexValue(f.price, int32(999)))
	require.True(t, repo.IsUniqueValue(f.ref, int64(777)))

	// the rolled-back slot is reusable
	r := repo.AppendWithKey(3)
	require.NotNil(t, r)
	require.Equal(t, 2*(repo.Schema().Stride()+SlotPadding), r.Offset())
}

func TestRepositoryTransactionCommit(t *testing.T) {
	repo, f := newOrderRepo(t, 4)
	repo.AppendWithKey(1)

	repo.BeginTransaction()
	repo.GetByKey(1).WriteInt32(f.price, 5)
	repo.Commit()

	require.False(t, repo.Rollback())
	require.Equal(t, int32(5), repo.GetByKey(1).ReadInt32(f.price))
}

func TestRepositoryTransactionDoubleRollback(t *testing.T) {
	repo, _ := newOrderRepo(t, 4)
	repo.BeginTransaction()
	require.True(t, repo.Rollback())
	require.False(t, repo.Rollback())
}

func TestRepositoryTransactionRestartsCleanly(t *testing.T) {
	repo, f := newOrderRepo(t, 4)
	repo.AppendWithKey(1)

	// a new BeginTransaction replaces whatever the previous one captured
	repo.BeginTransaction()
	repo.GetByKey(1).WriteInt32(f.price, 5)
	repo.BeginTransaction()
	repo.GetByKey(1).WriteInt32(f.price, 6)
	require.True(t, repo.Rollback())
	require.Equal(t, int32(5), repo.GetByKey(1).ReadInt32(f.price))
}

func TestNonTransactionalRepository(t *testing.T) {
	s, _, _ := buildScoreSchema(t)
	repo, err := CreateWithCapacity(s, 2)
	require.NoError(t, err)
	mustPanic(t, "without Transactional", func() { repo.BeginTransaction() })
	mustPanic(t, "without Transactional", func() { repo.Rollback() })
}
