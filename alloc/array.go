package alloc

import "unsafe"

// Scalar covers the two element types of the engine's wire layout: REAL and
// int.
type Scalar interface {
	~float64 | ~int32
}

// Array is a flat typed array backed by a Block. The zero value is the nil
// array, which is the only representation of an absent field: an Array never
// holds a zero-length allocation.
type Array[T Scalar] struct {
	block *Block
	data  []T
}

func (a *Array[T]) IsNil() bool {
	return a.block == nil
}

// Len is the number of elements allocated, not the logical record count.
func (a *Array[T]) Len() int {
	return len(a.data)
}

func (a *Array[T]) Data() []T {
	return a.data
}

func (a *Array[T]) Block() *Block {
	return a.block
}

// Allocate releases the current storage and allocates exactly n elements.
// With n == 0 the array is left nil.
func (a *Array[T]) Allocate(al Allocator, label string, n int) {
	a.Release()
	if n <= 0 {
		return
	}
	var zero T
	a.block = al.Alloc(label, n*int(unsafe.Sizeof(zero)))
	a.data = make([]T, n)
}

// ResizeExact keeps the current storage when it already holds exactly n
// elements, and reallocates otherwise. It reports whether it reallocated.
func (a *Array[T]) ResizeExact(al Allocator, label string, n int) bool {
	if n == len(a.data) && (n == 0) == a.IsNil() {
		return false
	}
	a.Allocate(al, label, n)
	return true
}

// Release frees the block through its owner and leaves the array nil.
func (a *Array[T]) Release() {
	if a.block != nil {
		a.block.owner.Free(a.block)
	}
	a.Forget()
}

// Forget drops the reference without freeing anything. It is only correct
// when some other array owns the block.
func (a *Array[T]) Forget() {
	a.block = nil
	a.data = nil
}

// Alias makes a share src's storage. Neither array is told about the other,
// so exactly one of them may later Release it.
func (a *Array[T]) Alias(src *Array[T]) {
	a.block = src.block
	a.data = src.data
}

// Aliases reports whether both arrays are backed by the same live block.
func (a *Array[T]) Aliases(other *Array[T]) bool {
	return a.block != nil && a.block == other.block
}

// CopyFrom replaces the storage with a fresh exact-size copy of src.
func (a *Array[T]) CopyFrom(al Allocator, label string, src []T) {
	a.Allocate(al, label, len(src))
	copy(a.data, src)
}
