package fixrec

import "fmt"

// repoSnapshot is the whole-store shadow state captured by BeginTransaction:
// the full buffer plus copies of every keyed structure, so a rollback can
// restore several independently-mutated collections to a mutually consistent
// prior point. One level deep only.
type repoSnapshot struct {
	buf            []byte
	offsetByKey    map[int64]int
	validOffsets   map[int]struct{}
	currentCount   int
	nextFreeOffset int
	indexes        []*fieldIndex
}

func (repo *Repository) requireTransactional() {
	if !repo.schema.transactional {
		panic(fmt.Errorf("schema %s was built without Transactional", repo.schema.name))
	}
}

// BeginTransaction snapshots the live buffer, the key and offset maps, the
// count, the high-water mark and every index structure. A prior pending
// snapshot is overwritten.
func (repo *Repository) BeginTransaction() {
	repo.requireTransactional()
	snap := repo.snap
	copy(snap.buf, repo.buf.data[:repo.bufLen])
	snap.offsetByKey = make(map[int64]int, len(repo.offsetByKey))
	for k, off := range repo.offsetByKey {
		snap.offsetByKey[k] = off
	}
	snap.validOffsets = make(map[int]struct{}, len(repo.validOffsets))
	for off := range repo.validOffsets {
		snap.validOffsets[off] = struct{}{}
	}
	snap.currentCount = repo.currentCount
	snap.nextFreeOffset = repo.nextFreeOffset
	snap.indexes = make([]*fieldIndex, len(repo.indexes))
	for i, idx := range repo.indexes {
		if idx != nil {
			snap.indexes[i] = idx.clone()
		}
	}
	repo.snapPending = true
}

// Commit clears the pending flag. The shadow copies stay in place but are no
// longer eligible for rollback; the next BeginTransaction overwrites them.
func (repo *Repository) Commit() {
	repo.requireTransactional()
	repo.snapPending = false
}

// Rollback restores the buffer and every keyed structure to the state
// captured by BeginTransaction. Returns false with no effect if no snapshot
// is pending; rollback after Commit, or a second rollback in a row, is a
// defined no-op, not an error.
func (repo *Repository) Rollback() bool {
	repo.requireTransactional()
	if !repo.snapPending {
		return false
	}
	snap := repo.snap
	repo.buf.CopyIn(0, snap.buf)
	repo.offsetByKey = snap.offsetByKey
	repo.validOffsets = snap.validOffsets
	repo.currentCount = snap.currentCount
	repo.nextFreeOffset = snap.nextFreeOffset
	for i := range repo.indexes {
		if repo.indexes[i] != nil {
			repo.indexes[i] = snap.indexes[i]
		}
	}
	snap.offsetByKey = nil
	snap.validOffsets = nil
	snap.indexes = nil
	repo.snapPending = false
	return true
}
