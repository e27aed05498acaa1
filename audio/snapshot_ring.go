package audio

import (
	"sync/atomic"
)

// SnapshotRing is a lock-free spsc queue of fixed size sample buffers. The audio thread
// writes with Visualize and a single consumer drains with Next. When the consumer falls behind,
// new snapshots are dropped.
type SnapshotRing struct {
	slots       [][]float32
	lens        []int
	read, write *uint32
	dropped     *uint64
}

func NewSnapshotRing(size, frames int) *SnapshotRing {
	if size <= 0 || size&(size-1) != 0 {
		panic("snapshot ring size must be a power of 2")
	}
	r := &SnapshotRing{
		slots:   make([][]float32, size),
		lens:    make([]int, size),
		read:    new(uint32),
		write:   new(uint32),
		dropped: new(uint64),
	}
	for i := range r.slots {
		r.slots[i] = make([]float32, frames)
	}
	return r
}

// Visualize copies samples into the next free slot. Samples beyond the slot size are cut off.
func (r *SnapshotRing) Visualize(samples []float32) {
	write := atomic.LoadUint32(r.write)
	if write-atomic.LoadUint32(r.read) == uint32(len(r.slots)) {
		atomic.AddUint64(r.dropped, 1)
		return
	}
	i := write % uint32(len(r.slots))
	r.lens[i] = copy(r.slots[i], samples)
	atomic.StoreUint32(r.write, write+1)
}

// Next calls f with the oldest snapshot and releases it afterwards. f must not retain the
// slice. It reports whether a snapshot was available.
func (r *SnapshotRing) Next(f func([]float32)) bool {
	read := atomic.LoadUint32(r.read)
	if read == atomic.LoadUint32(r.write) {
		return false
	}
	i := read % uint32(len(r.slots))
	f(r.slots[i][:r.lens[i]])
	atomic.StoreUint32(r.read, read+1)
	return true
}

// Drain calls f for every queued snapshot and returns how many there were.
func (r *SnapshotRing) Drain(f func([]float32)) int {
	n := 0
	for r.Next(f) {
		n++
	}
	return n
}

func (r *SnapshotRing) Dropped() uint64 {
	return atomic.LoadUint64(r.dropped)
}
