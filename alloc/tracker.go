package alloc

import (
	"sort"
	"sync"

	"github.com/pkg/errors"
)

// Tracker is an allocator that records every allocation and release. It is
// the test double for checking reuse, leaks and double frees, and the CLI
// uses it to report allocation counts.
type Tracker struct {
	mu     sync.Mutex
	heap   Heap
	live   map[*Block]struct{}
	allocs int
	frees  int
	bytes  int
}

func NewTracker() *Tracker {
	return &Tracker{live: make(map[*Block]struct{})}
}

func (t *Tracker) Alloc(label string, size int) *Block {
	t.mu.Lock()
	defer t.mu.Unlock()
	b := t.heap.Alloc(label, size)
	b.owner = t
	t.live[b] = struct{}{}
	t.allocs++
	t.bytes += size
	return b
}

// Free panics on a block this tracker never handed out, and on a block that
// was already released.
func (t *Tracker) Free(b *Block) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.live[b]; !ok {
		if b.freed {
			panic(errors.Errorf("alloc: double free of block %d (%s)", b.ID, b.Label))
		}
		panic(errors.Errorf("alloc: free of foreign block %d (%s)", b.ID, b.Label))
	}
	markFreed(b)
	delete(t.live, b)
	t.frees++
	t.bytes -= b.Size
}

// Allocs is the number of blocks handed out so far.
func (t *Tracker) Allocs() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.allocs
}

// Frees is the number of blocks released so far.
func (t *Tracker) Frees() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.frees
}

// Live is the number of blocks allocated and not yet released.
func (t *Tracker) Live() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.live)
}

// LiveBytes is the size of all live blocks.
func (t *Tracker) LiveBytes() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.bytes
}

// LiveLabels lists the labels of live blocks in sorted order, which makes
// leak reports readable.
func (t *Tracker) LiveLabels() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	labels := make([]string, 0, len(t.live))
	for b := range t.live {
		labels = append(labels, b.Label)
	}
	sort.Strings(labels)
	return labels
}
