package util

import "runtime"

// DefaultPoolSize returns the worker and parser pool size: twice the CPU
// count, clamped to [4, 32].
//
// Parser pools and worker pools must use the same size, otherwise workers
// block waiting for a free parser.
func DefaultPoolSize() int {
	size := runtime.NumCPU() * 2
	if size < 4 {
		size = 4
	}
	if size > 32 {
		size = 32
	}
	return size
}

// PoolSize returns override when positive, DefaultPoolSize otherwise.
func PoolSize(override int) int {
	if override > 0 {
		return override
	}
	return DefaultPoolSize()
}
