// Completion: 100% - Executable memory management complete
//go:build linux && amd64

package main

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// Executable memory lifecycle: a region is mapped read-write, populated,
// then flipped to read-execute before being entered. Write and execute
// permissions are never held at the same time.

// mapRegion returns a fresh zero-filled anonymous read-write mapping.
func mapRegion(size int) ([]byte, error) {
	return unix.Mmap(-1, 0, size,
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_PRIVATE|unix.MAP_ANON)
}

// mapExecutable copies code into a fresh mapping and transitions it to
// read-execute. On any failure the mapping is released before returning.
func mapExecutable(code []byte) ([]byte, error) {
	buf, err := mapRegion(len(code))
	if err != nil {
		return nil, err
	}
	copy(buf, code)
	if err := unix.Mprotect(buf, unix.PROT_READ|unix.PROT_EXEC); err != nil {
		unix.Munmap(buf)
		return nil, err
	}
	return buf, nil
}

func releaseRegion(region []byte) {
	if region != nil {
		unix.Munmap(region)
	}
}

func regionAddr(region []byte) uintptr {
	return uintptr(unsafe.Pointer(&region[0]))
}

// enterCodeBuffer calls the mapped code as a niladic subroutine. The
// generated prologue saves every register it touches, so this looks like
// an ordinary opaque function call to the Go runtime.
//
// A func value is a pointer to a word holding the code address, so two
// levels of indirection are needed: fn -> addr -> code. Casting &addr
// directly would make the first code bytes the branch target.
func enterCodeBuffer(code []byte) {
	addr := unsafe.Pointer(&code[0])
	addrPtr := &addr
	fn := *(*func())(unsafe.Pointer(&addrPtr))
	fn()
}
