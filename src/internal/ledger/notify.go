package ledger

import (
	"sync"
	"time"
)

// Properties carried by a Change.
const (
	PropBalance        = "balance"
	PropLocked         = "locked"
	PropCurrency       = "currency"
	PropHoldings       = "holdings"
	PropOwner          = "owner"
	PropOverdraftLimit = "overdraftLimit"
	PropClosed         = "closed"
)

// Change is one property transition.
type Change struct {
	Property string `json:"property"`
	Old      any    `json:"old"`
	New      any    `json:"new"`
}

// Notification describes one successful mutating operation. Seq increases by
// one per notification of the same account.
type Notification struct {
	AccountID int64     `json:"accountId"`
	Op        string    `json:"op"`
	Seq       uint64    `json:"seq"`
	Memo      string    `json:"memo,omitempty"`
	Changes   []Change  `json:"changes"`
	At        time.Time `json:"at"`
}

// Changed returns the change of property p, if any.
func (n Notification) Changed(p string) (Change, bool) {
	for _, c := range n.Changes {
		if c.Property == p {
			return c, true
		}
	}
	return Change{}, false
}

// Notifier fans notifications out to subscribers. Subscribers run on the
// goroutine of the mutating call, after the account lock was released; they
// must not block.
type Notifier struct {
	mu   sync.RWMutex
	next int
	subs map[int]func(Notification)
}

func NewNotifier() *Notifier {
	return &Notifier{subs: make(map[int]func(Notification))}
}

// Subscribe registers fn and returns a function removing it again.
func (n *Notifier) Subscribe(fn func(Notification)) (unsubscribe func()) {
	n.mu.Lock()
	id := n.next
	n.next++
	n.subs[id] = fn
	n.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			n.mu.Lock()
			delete(n.subs, id)
			n.mu.Unlock()
		})
	}
}

func (n *Notifier) publish(note Notification) {
	if n == nil {
		return
	}
	n.mu.RLock()
	subs := make([]func(Notification), 0, len(n.subs))
	for _, fn := range n.subs {
		subs = append(subs, fn)
	}
	n.mu.RUnlock()

	for _, fn := range subs {
		fn(note)
	}
}
