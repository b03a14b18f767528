package market

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/api-sage/account-ledger/src/internal/domain"
)

// Catalog indexes the instruments offered for trading.
type Catalog struct {
	mu          sync.RWMutex
	instruments map[string]*Instrument
}

func NewCatalog() *Catalog {
	return &Catalog{instruments: make(map[string]*Instrument)}
}

func (c *Catalog) Add(inst *Instrument) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.instruments[inst.ID()]; exists {
		return fmt.Errorf("%w: instrument %s already listed", domain.ErrInvalidArgument, inst.ID())
	}
	c.instruments[inst.ID()] = inst
	return nil
}

func (c *Catalog) Get(id string) (*Instrument, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	inst, ok := c.instruments[strings.TrimSpace(id)]
	if !ok {
		return nil, fmt.Errorf("instrument %s: %w", id, domain.ErrRecordNotFound)
	}
	return inst, nil
}

// All returns the listed instruments ordered by ID.
func (c *Catalog) All() []*Instrument {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*Instrument, 0, len(c.instruments))
	for _, inst := range c.instruments {
		out = append(out, inst)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

// Delist retires the instrument and removes it from the catalog.
func (c *Catalog) Delist(id string) error {
	c.mu.Lock()
	inst, ok := c.instruments[id]
	delete(c.instruments, id)
	c.mu.Unlock()
	if !ok {
		return fmt.Errorf("instrument %s: %w", id, domain.ErrRecordNotFound)
	}
	inst.Retire()
	return nil
}

// RetireAll stops every feed, leaving the instruments listed.
func (c *Catalog) RetireAll() {
	for _, inst := range c.All() {
		inst.Retire()
	}
}
