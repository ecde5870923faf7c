//go:build unix

package mmap

import (
	"fmt"
	"os"
	"syscall"

	"golang.org/x/sys/unix"
)

func mmap(f *os.File, size int, opt Options) ([]byte, error) {
	prot := syscall.PROT_READ
	if opt.Has(Writable) {
		prot |= syscall.PROT_WRITE
	}

	b, err := unix.Mmap(int(f.Fd()), 0, size, prot, syscall.MAP_SHARED)
	if err != nil {
		return nil, err
	}

	var advice int
	switch {
	case opt.Has(SequentialAccess):
		advice = syscall.MADV_SEQUENTIAL
	case opt.Has(RandomAccess):
		advice = syscall.MADV_RANDOM
	default:
		return b, nil
	}
	err = unix.Madvise(b, advice)
	if err != nil && err != syscall.ENOSYS {
		// Ignore not implemented error in kernel because it still works.
		unix.Munmap(b)
		return nil, fmt.Errorf("madvise: %w", err)
	}
	return b, nil
}

func munmap(b []byte) error {
	return unix.Munmap(b)
}
