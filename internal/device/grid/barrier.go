package grid

import "sync"

// Barrier is a reusable cycle barrier for the lanes of one workgroup.
//
// Every lane must call Wait at every synchronisation point; a lane that
// skips a barrier (early return, divergent control flow) leaves the group in
// an undefined state. The barrier is reused across all phases of a launch:
// each generation releases all parties before the next one begins.
type Barrier struct {
	mu      sync.Mutex
	cond    *sync.Cond
	parties int
	waiting int
	gen     uint64
}

// NewBarrier creates a barrier for the given number of parties.
// Parties of one or less yields a no-op barrier.
func NewBarrier(parties int) *Barrier {
	b := &Barrier{parties: parties}
	b.cond = sync.NewCond(&b.mu)
	return b
}

// Wait blocks until all parties have reached the barrier, then releases
// them together and resets for the next generation.
func (b *Barrier) Wait() {
	if b.parties <= 1 {
		return
	}
	b.mu.Lock()
	gen := b.gen
	b.waiting++
	if b.waiting == b.parties {
		b.waiting = 0
		b.gen++
		b.cond.Broadcast()
		b.mu.Unlock()
		return
	}
	for gen == b.gen {
		b.cond.Wait()
	}
	b.mu.Unlock()
}
