package leaderboard

import (
	"errors"
	"sync"
	"testing"

	"github.com/stakeboard/stakeboard/internal/keylock"
	"github.com/stakeboard/stakeboard/pkg/bet"
)

func newTestCache(depth int) *Cache {
	return NewCache(depth, keylock.NewRegistry())
}

func TestCache_MaxTrackingIsIdempotent(t *testing.T) {
	t.Parallel()

	c := newTestCache(20)

	// Arrival order must not matter: the tracked stake is the max.
	for _, stake := range []int64{100, 500, 300, 500, 50} {
		if err := c.RecordStake(1, 1001, stake); err != nil {
			t.Fatalf("RecordStake(%d): %v", stake, err)
		}
	}

	top, err := c.QueryTop(1)
	if err != nil {
		t.Fatalf("QueryTop: %v", err)
	}
	if len(top) != 1 {
		t.Fatalf("len(top) = %d, want 1 (one entry per customer)", len(top))
	}
	if top[0] != (bet.Entry{CustomerID: 1001, Stake: 500}) {
		t.Errorf("top[0] = %+v, want {1001 500}", top[0])
	}
}

func TestCache_WorkedExample(t *testing.T) {
	t.Parallel()

	c := newTestCache(20)

	c.RecordStake(1, 1001, 100)
	c.RecordStake(1, 1002, 300)
	c.RecordStake(1, 1001, 500)
	c.RecordStake(2, 1001, 400)

	top1, _ := c.QueryTop(1)
	want1 := []bet.Entry{{CustomerID: 1001, Stake: 500}, {CustomerID: 1002, Stake: 300}}
	if len(top1) != len(want1) {
		t.Fatalf("QueryTop(1) = %v, want %v", top1, want1)
	}
	for i := range want1 {
		if top1[i] != want1[i] {
			t.Errorf("QueryTop(1)[%d] = %+v, want %+v", i, top1[i], want1[i])
		}
	}

	top2, _ := c.QueryTop(2)
	if len(top2) != 1 || top2[0] != (bet.Entry{CustomerID: 1001, Stake: 400}) {
		t.Errorf("QueryTop(2) = %v, want [{1001 400}]", top2)
	}
}

func TestCache_BoundedToDepth(t *testing.T) {
	t.Parallel()

	c := newTestCache(20)

	// 25 distinct customers with stakes 100..2500.
	for i := range int64(25) {
		if err := c.RecordStake(7, 2000+i, 100*(i+1)); err != nil {
			t.Fatalf("RecordStake: %v", err)
		}
	}

	top, err := c.QueryTop(7)
	if err != nil {
		t.Fatalf("QueryTop: %v", err)
	}
	if len(top) != 20 {
		t.Fatalf("len(top) = %d, want exactly 20", len(top))
	}
	if top[0].Stake != 2500 {
		t.Errorf("top stake = %d, want 2500", top[0].Stake)
	}
	if top[19].Stake != 600 {
		t.Errorf("bottom stake = %d, want 600", top[19].Stake)
	}
}

func TestCache_DeterministicOrdering(t *testing.T) {
	t.Parallel()

	c := newTestCache(10)

	c.RecordStake(1, 5, 300)
	c.RecordStake(1, 3, 300)
	c.RecordStake(1, 8, 300)
	c.RecordStake(1, 1, 700)

	top, _ := c.QueryTop(1)
	want := []bet.Entry{
		{CustomerID: 1, Stake: 700},
		{CustomerID: 3, Stake: 300},
		{CustomerID: 5, Stake: 300},
		{CustomerID: 8, Stake: 300},
	}
	if len(top) != len(want) {
		t.Fatalf("len(top) = %d, want %d", len(top), len(want))
	}
	for i := range want {
		if top[i] != want[i] {
			t.Errorf("top[%d] = %+v, want %+v (equal stakes order by customer asc)", i, top[i], want[i])
		}
	}
}

func TestCache_TrackedSetHoldsAtMostDepthPlusOne(t *testing.T) {
	t.Parallel()

	c := newTestCache(3)

	for i := range int64(10) {
		c.RecordStake(1, 100+i, 10*(i+1))
	}

	b := c.board(1)
	b.mu.RLock()
	size := len(b.entries)
	indexSize := len(b.stakes)
	b.mu.RUnlock()

	if size > 4 {
		t.Errorf("tracked set size = %d, want <= depth+1 (4)", size)
	}
	if indexSize != size {
		t.Errorf("index size %d diverges from entry count %d", indexSize, size)
	}

	top, _ := c.QueryTop(1)
	if len(top) != 3 {
		t.Errorf("len(top) = %d, want 3", len(top))
	}
}

func TestCache_EvictedCustomerCanReenter(t *testing.T) {
	t.Parallel()

	c := newTestCache(2)

	c.RecordStake(1, 1, 100)
	c.RecordStake(1, 2, 200)
	c.RecordStake(1, 3, 300)
	c.RecordStake(1, 4, 400) // evicts customer 1

	c.RecordStake(1, 1, 999) // re-enters at the top

	top, _ := c.QueryTop(1)
	if top[0] != (bet.Entry{CustomerID: 1, Stake: 999}) {
		t.Errorf("top[0] = %+v, want {1 999}", top[0])
	}
}

func TestCache_InvalidArguments(t *testing.T) {
	t.Parallel()

	c := newTestCache(5)

	cases := []struct {
		name                    string
		offer, customer, amount int64
	}{
		{"zero offer", 0, 1, 10},
		{"negative offer", -1, 1, 10},
		{"zero customer", 1, 0, 10},
		{"negative stake", 1, 1, -10},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			if err := c.RecordStake(tt.offer, tt.customer, tt.amount); !errors.Is(err, bet.ErrInvalidArgument) {
				t.Errorf("RecordStake error = %v, want ErrInvalidArgument", err)
			}
		})
	}

	if _, err := c.QueryTop(0); !errors.Is(err, bet.ErrInvalidArgument) {
		t.Errorf("QueryTop(0) error = %v, want ErrInvalidArgument", err)
	}
}

func TestCache_ZeroStakeAccepted(t *testing.T) {
	t.Parallel()

	c := newTestCache(5)
	if err := c.RecordStake(1, 1, 0); err != nil {
		t.Fatalf("RecordStake(0): %v", err)
	}
	top, _ := c.QueryTop(1)
	if len(top) != 1 || top[0].Stake != 0 {
		t.Errorf("QueryTop = %v, want single zero-stake entry", top)
	}
}

func TestCache_QueryUnknownOffer(t *testing.T) {
	t.Parallel()

	c := newTestCache(5)
	top, err := c.QueryTop(99)
	if err != nil {
		t.Fatalf("QueryTop: %v", err)
	}
	if top == nil || len(top) != 0 {
		t.Errorf("QueryTop(unknown) = %v, want empty non-nil slice", top)
	}
}

func TestCache_ConcurrentSameCustomerNoLostUpdate(t *testing.T) {
	t.Parallel()

	c := newTestCache(20)

	const workers = 100
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := range int64(workers) {
		go func() {
			defer wg.Done()
			if err := c.RecordStake(1, 1001, i+1); err != nil {
				t.Errorf("RecordStake: %v", err)
			}
		}()
	}
	wg.Wait()

	top, _ := c.QueryTop(1)
	if len(top) != 1 {
		t.Fatalf("len(top) = %d, want 1", len(top))
	}
	if top[0].Stake != workers {
		t.Errorf("tracked stake = %d, want %d (max of all concurrent stakes)", top[0].Stake, workers)
	}
}

func TestCache_ConcurrentDistinctCustomers(t *testing.T) {
	t.Parallel()

	c := newTestCache(10)

	const customers = 50
	var wg sync.WaitGroup
	wg.Add(customers)
	for i := range int64(customers) {
		go func() {
			defer wg.Done()
			c.RecordStake(3, 500+i, (i+1)*10)
		}()
	}
	wg.Wait()

	top, _ := c.QueryTop(3)
	if len(top) != 10 {
		t.Fatalf("len(top) = %d, want 10", len(top))
	}
	// Final board must equal the serial outcome: the ten highest stakes.
	for i, e := range top {
		want := int64((customers - i) * 10)
		if e.Stake != want {
			t.Errorf("top[%d].Stake = %d, want %d", i, e.Stake, want)
		}
	}
}

func TestCache_Watch(t *testing.T) {
	t.Parallel()

	c := newTestCache(5)

	ch, cancel := c.Watch(1)
	defer cancel()

	c.RecordStake(1, 1001, 100)

	snap := <-ch
	if len(snap) != 1 || snap[0] != (bet.Entry{CustomerID: 1001, Stake: 100}) {
		t.Fatalf("snapshot = %v, want [{1001 100}]", snap)
	}

	// Unread snapshots are replaced by newer ones, not queued.
	c.RecordStake(1, 1001, 200)
	c.RecordStake(1, 1002, 900)

	snap = <-ch
	if len(snap) != 2 || snap[0].Stake != 900 {
		t.Fatalf("snapshot = %v, want latest board led by 900", snap)
	}

	// No-op stakes (at or below the tracked max) do not wake subscribers.
	c.RecordStake(1, 1002, 10)
	select {
	case snap := <-ch:
		t.Fatalf("unexpected snapshot %v after no-op stake", snap)
	default:
	}
}

func TestCache_WatchCancel(t *testing.T) {
	t.Parallel()

	c := newTestCache(5)

	_, cancel := c.Watch(1)
	cancel()

	c.watchMu.Lock()
	n := len(c.watchers)
	c.watchMu.Unlock()
	if n != 0 {
		t.Errorf("watchers map has %d offers after cancel, want 0", n)
	}
}
