// Copyright 2026 The PFE Track Authors
// SPDX-License-Identifier: Apache-2.0

// Package secret holds sensitive material — passwords and bearer
// tokens — in memory that is allocated outside the Go heap via
// mmap(MAP_ANONYMOUS), locked against swap with mlock, and zeroed on
// Close. The garbage collector never sees the region, so it cannot
// copy or relocate the secret.
package secret

import (
	"fmt"
	"sync"

	"golang.org/x/sys/unix"
)

// Buffer is a protected region holding one secret. It must not be
// copied after creation. Accessing a closed Buffer panics.
type Buffer struct {
	mu     sync.Mutex
	region []byte
	closed bool
}

// New allocates a protected buffer of the given size. The caller must
// Close it when the secret is no longer needed.
func New(size int) (*Buffer, error) {
	if size <= 0 {
		return nil, fmt.Errorf("secret: buffer size must be positive, got %d", size)
	}

	region, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANONYMOUS)
	if err != nil {
		return nil, fmt.Errorf("secret: mmap: %w", err)
	}
	if err := unix.Mlock(region); err != nil {
		unix.Munmap(region)
		return nil, fmt.Errorf("secret: mlock: %w", err)
	}
	// Exclusion from core dumps is best-effort: some kernels lack
	// MADV_DONTDUMP, and the secret is still swap-locked without it.
	_ = unix.Madvise(region, unix.MADV_DONTDUMP)

	return &Buffer{region: region}, nil
}

// NewFromBytes copies source into a protected buffer and zeros the
// source in place, so the caller's slice no longer holds the secret.
func NewFromBytes(source []byte) (*Buffer, error) {
	if len(source) == 0 {
		return nil, fmt.Errorf("secret: cannot create buffer from empty source")
	}

	buffer, err := New(len(source))
	if err != nil {
		return nil, err
	}
	copy(buffer.region, source)
	Zero(source)
	return buffer, nil
}

// Bytes returns the secret data. The slice points into the mmap
// region; do not retain it past the Buffer's lifetime.
func (b *Buffer) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		panic("secret: read from closed buffer")
	}
	return b.region
}

// String returns the secret as a heap string. Go strings are immutable
// and unzeroable, so use this only at API boundaries that require a
// string (JSON serialization, header construction).
func (b *Buffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		panic("secret: read from closed buffer")
	}
	return string(b.region)
}

// Len returns the size of the secret.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.region)
}

// Close zeros, unlocks, and unmaps the region. Idempotent.
func (b *Buffer) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true

	Zero(b.region)

	var firstError error
	if err := unix.Munlock(b.region); err != nil {
		firstError = fmt.Errorf("secret: munlock: %w", err)
	}
	if err := unix.Munmap(b.region); err != nil && firstError == nil {
		firstError = fmt.Errorf("secret: munmap: %w", err)
	}
	b.region = nil
	return firstError
}

// Zero overwrites a byte slice with zeros. Use on any heap slice that
// transiently held secret material.
func Zero(data []byte) {
	for index := range data {
		data[index] = 0
	}
}
