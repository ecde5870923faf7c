package fixrec

import (
	"os"

	"github.com/fixrec/fixrec/mmap"
)

// MapFile maps size bytes of the file at path into a Buffer, so record
// bytes can be shared zero-copy with other processes. Writable mappings are
// mutable and atomic-capable; Close the buffer to unmap.
//
// The mapping carries no durability contract: nothing forces pages to disk,
// and the single-writer model still applies across processes.
func MapFile(path string, size int, writable bool) (*Buffer, error) {
	opt := mmap.RandomAccess
	if writable {
		opt |= mmap.Writable
	}
	f, data, err := mmap.Open(path, size, opt)
	if err != nil {
		return nil, err
	}
	b := &Buffer{data: data, mutable: writable, atomic: writable}
	b.munmap = func() error {
		err := mmap.Unmap(data)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		return err
	}
	return b, nil
}

// MapFileSize returns the size of the file at path, for mapping an existing
// buffer file whole.
func MapFileSize(path string) (int, error) {
	st, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return int(st.Size()), nil
}
