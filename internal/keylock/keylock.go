// Package keylock provides a registry of per-key mutexes used to serialize
// all work touching one customer without a global lock.
package keylock

import "sync"

// Registry lazily creates and caches one mutex per key. Repeated Acquire
// calls for the same key always serialize on the same mutex: the registry
// map is guarded by a global mutex held only for the lookup-or-create, so
// concurrent first use of a key cannot mint two locks.
//
// Locks are never removed. The registry grows with the number of distinct
// keys seen, which is bounded by the customer id space in practice; this
// is a known memory-growth trade-off, not a leak to fix.
type Registry struct {
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

// NewRegistry creates an empty ready-to-use Registry.
func NewRegistry() *Registry {
	return &Registry{
		locks: make(map[int64]*sync.Mutex),
	}
}

// Acquire locks the mutex for key, creating it on first use.
// The caller must call Release with the same key when done.
func (r *Registry) Acquire(key int64) {
	r.lockFor(key).Lock()
}

// Release unlocks the mutex for key. The caller must hold it.
func (r *Registry) Release(key int64) {
	r.mu.Lock()
	lk := r.locks[key]
	r.mu.Unlock()
	lk.Unlock()
}

// Do runs fn while holding the lock for key.
func (r *Registry) Do(key int64, fn func()) {
	r.Acquire(key)
	defer r.Release(key)
	fn()
}

// Len returns the number of distinct keys seen so far.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.locks)
}

// lockFor returns the mutex for key, creating it under the global mutex.
// The per-key mutex is locked outside the global one so contention on one
// key never blocks lookups for other keys.
func (r *Registry) lockFor(key int64) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()
	lk, ok := r.locks[key]
	if !ok {
		lk = &sync.Mutex{}
		r.locks[key] = lk
	}
	return lk
}
