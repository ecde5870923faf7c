package fixrec

import "fmt"

// Iterator is the repository's single shared slot walker. Next rebinds the
// shared flyweight, so callers must consume or copy out a record's data
// before advancing; no concurrent or nested traversal is supported.
type Iterator struct {
	repo          *Repository
	currentOffset int
	fly           *Record
}

// HasNext reports whether another slot lies below the high-water mark.
func (it *Iterator) HasNext() bool {
	repo := it.repo
	return repo.currentCount != 0 && it.currentOffset+repo.schema.stride < repo.nextFreeOffset
}

// Next rebinds the shared flyweight to the next slot and returns it. Calling
// Next when HasNext is false is a misuse of the iteration protocol and
// panics.
func (it *Iterator) Next() *Record {
	if !it.HasNext() {
		panic(fmt.Errorf("iterator exhausted"))
	}
	it.fly.Bind(it.repo.buf, it.currentOffset)
	it.currentOffset += it.repo.schema.stride + SlotPadding
	return it.fly
}

// Reset rewinds to the first slot and returns the iterator for reuse.
func (it *Iterator) Reset() *Iterator {
	it.currentOffset = 0
	return it
}
