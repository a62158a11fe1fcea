// Package leaderboard implements the per-offer bounded top-N stake cache.
// Each offer tracks at most depth+1 entries — one per customer, holding
// that customer's maximum stake — and trims the smallest entry once the
// overflow slot is used, so no separate cleanup pass is needed.
package leaderboard

import (
	"fmt"
	"sort"
	"sync"

	"github.com/stakeboard/stakeboard/internal/keylock"
	"github.com/stakeboard/stakeboard/pkg/bet"
)

// Cache holds one tracked set per betting offer. Writes for a given
// customer serialize on the shared per-customer lock, so a slow customer
// never blocks unrelated customers on the same offer; reads take only the
// offer's read lock.
type Cache struct {
	mu     sync.RWMutex
	offers map[int64]*board

	depth int
	locks *keylock.Registry

	watchMu  sync.Mutex
	watchers map[int64]map[chan []bet.Entry]struct{}
}

// board is one offer's tracked set: a slice ordered best-first plus a
// customer→stake index. Size never exceeds depth+1.
type board struct {
	mu      sync.RWMutex
	entries []bet.Entry
	stakes  map[int64]int64
}

// NewCache creates a leaderboard cache returning at most depth entries
// per offer. The lock registry is shared with the session store.
func NewCache(depth int, locks *keylock.Registry) *Cache {
	return &Cache{
		offers:   make(map[int64]*board),
		depth:    depth,
		locks:    locks,
		watchers: make(map[int64]map[chan []bet.Entry]struct{}),
	}
}

// Depth returns the configured leaderboard depth N.
func (c *Cache) Depth() int {
	return c.depth
}

// RecordStake folds a stake into the offer's tracked set under the
// customer's lock. Stakes at or below the customer's tracked maximum are
// no-ops, so replays and out-of-order arrivals never regress the board.
func (c *Cache) RecordStake(offerID, customerID, stake int64) error {
	if offerID <= 0 {
		return fmt.Errorf("leaderboard: offer id %d: %w", offerID, bet.ErrInvalidArgument)
	}
	if customerID <= 0 {
		return fmt.Errorf("leaderboard: customer id %d: %w", customerID, bet.ErrInvalidArgument)
	}
	if stake < 0 {
		return fmt.Errorf("leaderboard: negative stake %d: %w", stake, bet.ErrInvalidArgument)
	}

	c.locks.Acquire(customerID)
	defer c.locks.Release(customerID)

	b := c.board(offerID)

	b.mu.Lock()
	if cur, ok := b.stakes[customerID]; ok {
		if cur >= stake {
			b.mu.Unlock()
			return nil
		}
		b.remove(bet.Entry{CustomerID: customerID, Stake: cur})
	}
	b.insert(bet.Entry{CustomerID: customerID, Stake: stake})
	b.stakes[customerID] = stake

	// Overflow by one, then trim the smallest-ordered entry.
	if len(b.entries) > c.depth+1 {
		last := b.entries[len(b.entries)-1]
		b.entries = b.entries[:len(b.entries)-1]
		delete(b.stakes, last.CustomerID)
	}
	b.mu.Unlock()

	c.notify(offerID)
	return nil
}

// QueryTop returns the offer's top entries, at most depth, ordered by
// stake descending with ties broken by customer id ascending. Offers
// with no stakes yield an empty slice. The read path takes no customer
// lock.
func (c *Cache) QueryTop(offerID int64) ([]bet.Entry, error) {
	if offerID <= 0 {
		return nil, fmt.Errorf("leaderboard: offer id %d: %w", offerID, bet.ErrInvalidArgument)
	}

	c.mu.RLock()
	b := c.offers[offerID]
	c.mu.RUnlock()
	if b == nil {
		return []bet.Entry{}, nil
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	n := min(len(b.entries), c.depth)
	top := make([]bet.Entry, n)
	copy(top, b.entries[:n])
	return top, nil
}

// Offers returns the number of offers with at least one tracked stake.
func (c *Cache) Offers() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.offers)
}

// board returns the offer's tracked set, creating it on first stake.
func (c *Cache) board(offerID int64) *board {
	c.mu.RLock()
	b := c.offers[offerID]
	c.mu.RUnlock()
	if b != nil {
		return b
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if b = c.offers[offerID]; b == nil {
		b = &board{stakes: make(map[int64]int64)}
		c.offers[offerID] = b
	}
	return b
}

// insert places e keeping the slice ordered best-first.
func (b *board) insert(e bet.Entry) {
	i := sort.Search(len(b.entries), func(i int) bool {
		return e.Less(b.entries[i])
	})
	b.entries = append(b.entries, bet.Entry{})
	copy(b.entries[i+1:], b.entries[i:])
	b.entries[i] = e
}

// remove drops the exact entry e. Linear scan — the set holds at most
// depth+1 entries.
func (b *board) remove(e bet.Entry) {
	for i, cur := range b.entries {
		if cur == e {
			b.entries = append(b.entries[:i], b.entries[i+1:]...)
			return
		}
	}
}
