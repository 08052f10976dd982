// Completion: 100% - Stub for platforms without the JIT backend
//go:build !(linux && amd64)

package main

import "errors"

// The JIT backend emits linux/amd64 machine code; everywhere else the
// mapping step fails up front so that JIT mode surfaces a codegen error
// before anything is executed. The interpreter backend is unaffected.

var errJITUnsupported = errors.New("JIT backend requires linux/amd64")

func mapRegion(size int) ([]byte, error) {
	return nil, errJITUnsupported
}

func mapExecutable(code []byte) ([]byte, error) {
	return nil, errJITUnsupported
}

func releaseRegion(region []byte) {}

func regionAddr(region []byte) uintptr {
	return 0
}

func enterCodeBuffer(code []byte) {}
