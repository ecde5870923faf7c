// Package mmap memory-maps files so record buffers can be shared across
// processes without copying. This is buffer provisioning only: no write
// ordering or durability is promised beyond what the OS gives an ordinary
// shared mapping.
package mmap

import (
	"fmt"
	"os"
)

type Options uint

const (
	// Writable opens the file for writing (otherwise, it's opened read-only).
	Writable Options = 1 << 0

	// SequentialAccess is a hint requesting aggressive read-ahead.
	// Incompatible with RandomAccess. Maps to MADV_SEQUENTIAL on Unix.
	SequentialAccess Options = 1 << 1

	// RandomAccess is a hint that read ahead is less useful than normally.
	// Incompatible with SequentialAccess. Maps to MADV_RANDOM on Unix.
	RandomAccess Options = 1 << 2
)

func (o Options) Has(v Options) bool {
	return o&v != 0
}

// Map maps size bytes of f starting at the beginning of the file.
func Map(f *os.File, size int, opt Options) ([]byte, error) {
	if size <= 0 {
		return nil, fmt.Errorf("mmap: invalid size %d", size)
	}
	return mmap(f, size, opt)
}

// Unmap unmaps the given slice from memory. The slice must have been
// returned by Map.
func Unmap(b []byte) error {
	return munmap(b)
}

// Open opens the file at path and maps size bytes of it. With Writable the
// file is created if missing and grown to size; read-only opens fail if the
// file is shorter than size.
func Open(path string, size int, opt Options) (*os.File, []byte, error) {
	var f *os.File
	var err error
	if opt.Has(Writable) {
		f, err = os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	} else {
		f, err = os.Open(path)
	}
	if err != nil {
		return nil, nil, err
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	if st.Size() < int64(size) {
		if !opt.Has(Writable) {
			f.Close()
			return nil, nil, fmt.Errorf("mmap: %s is %d bytes, need %d", path, st.Size(), size)
		}
		if err := f.Truncate(int64(size)); err != nil {
			f.Close()
			return nil, nil, err
		}
	}
	b, err := Map(f, size, opt)
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	return f, b, nil
}
