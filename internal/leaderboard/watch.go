package leaderboard

import "github.com/stakeboard/stakeboard/pkg/bet"

// Watch subscribes to top-N snapshots for an offer. Each time the offer's
// tracked set changes, the latest snapshot is made available on the
// returned channel; a slow consumer only ever misses intermediate
// snapshots, never blocks a writer. The cancel function must be called to
// release the subscription.
func (c *Cache) Watch(offerID int64) (<-chan []bet.Entry, func()) {
	ch := make(chan []bet.Entry, 1)

	c.watchMu.Lock()
	subs := c.watchers[offerID]
	if subs == nil {
		subs = make(map[chan []bet.Entry]struct{})
		c.watchers[offerID] = subs
	}
	subs[ch] = struct{}{}
	c.watchMu.Unlock()

	cancel := func() {
		c.watchMu.Lock()
		if subs, ok := c.watchers[offerID]; ok {
			delete(subs, ch)
			if len(subs) == 0 {
				delete(c.watchers, offerID)
			}
		}
		c.watchMu.Unlock()
	}
	return ch, cancel
}

// notify pushes the offer's current top-N to all subscribers, replacing
// any snapshot a subscriber has not read yet.
func (c *Cache) notify(offerID int64) {
	c.watchMu.Lock()
	subs := c.watchers[offerID]
	if len(subs) == 0 {
		c.watchMu.Unlock()
		return
	}

	top, err := c.QueryTop(offerID)
	if err != nil {
		c.watchMu.Unlock()
		return
	}

	for ch := range subs {
		select {
		case ch <- top:
		default:
			// Replace the unread stale snapshot with the fresh one.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- top:
			default:
			}
		}
	}
	c.watchMu.Unlock()
}
