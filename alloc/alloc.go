// Package alloc provides accounted storage for the flat arrays of a mesh
// buffer. Go manages the memory itself, but every array is backed by a Block
// that remembers who allocated it and whether it has been released, so that
// ownership mistakes (double releases, leaked arrays, two buffers sharing one
// array) show up as panics or as numbers a test can check.
package alloc

import (
	"sync/atomic"

	"github.com/pkg/errors"
)

// Block is one allocation. Arrays share a block when they alias each other.
type Block struct {
	ID    uint64
	Label string
	Size  int // bytes

	owner Allocator
	freed bool
}

// Freed reports whether the block has been released.
func (b *Block) Freed() bool {
	return b.freed
}

// Allocator hands out blocks and takes them back. Free must panic when a
// block is released twice.
type Allocator interface {
	Alloc(label string, size int) *Block
	Free(b *Block)
}

// Heap is the plain allocator. It does no bookkeeping beyond catching double
// frees.
type Heap struct {
	next atomic.Uint64
}

// Default is used by buffers that were not given an allocator.
var Default Allocator = &Heap{}

func (h *Heap) Alloc(label string, size int) *Block {
	return &Block{ID: h.next.Add(1), Label: label, Size: size, owner: h}
}

func (h *Heap) Free(b *Block) {
	markFreed(b)
}

func markFreed(b *Block) {
	if b.freed {
		panic(errors.Errorf("alloc: double free of block %d (%s)", b.ID, b.Label))
	}
	b.freed = true
}
