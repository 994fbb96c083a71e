/*
Package memory in-process storage with the same contract as the MySQL
repositories: rows are kept as persistence objects, aggregates are rebuilt on
every read and a unit of work either commits all its writes or none.

A unit of work holds the store lock for the whole attempt, so transactions are
serialized. Repository calls outside a unit of work lock per call.
*/
package memory

import (
	"context"
	"maps"
	"slices"
	"sync"

	"tienda/infrastructure/persistence/po"
)

type productRecord struct {
	row    po.ProductPO
	images []po.ProductImagePO
}

type cartRecord struct {
	row   po.CartPO
	items []po.CartItemPO
}

type orderRecord struct {
	row     po.OrderPO
	items   []po.OrderItemPO
	history []po.OrderStatusChangePO
}

type state struct {
	products map[int64]productRecord
	carts    map[string]cartRecord
	orders   map[string]orderRecord
	codes    map[string]string // code -> order id
	outbox   []po.OutboxEventPO
}

func newState() *state {
	return &state{
		products: make(map[int64]productRecord),
		carts:    make(map[string]cartRecord),
		orders:   make(map[string]orderRecord),
		codes:    make(map[string]string),
	}
}

// clone copies every map and slice; rows are values so this is a deep copy
func (s *state) clone() *state {
	c := &state{
		products: make(map[int64]productRecord, len(s.products)),
		carts:    make(map[string]cartRecord, len(s.carts)),
		orders:   make(map[string]orderRecord, len(s.orders)),
		codes:    maps.Clone(s.codes),
		outbox:   slices.Clone(s.outbox),
	}
	for k, v := range s.products {
		c.products[k] = productRecord{row: v.row, images: slices.Clone(v.images)}
	}
	for k, v := range s.carts {
		c.carts[k] = cartRecord{row: v.row, items: slices.Clone(v.items)}
	}
	for k, v := range s.orders {
		c.orders[k] = orderRecord{row: v.row, items: slices.Clone(v.items), history: slices.Clone(v.history)}
	}
	return c
}

// Store shared by the memory repositories and unit of work
type Store struct {
	mu sync.Mutex
	st *state
}

func NewStore() *Store {
	return &Store{st: newState()}
}

type txKey struct{}

func (s *Store) inTx(ctx context.Context) bool {
	owner, _ := ctx.Value(txKey{}).(*Store)
	return owner == s
}

// lock acquires the store unless ctx already runs inside one of its units of work
func (s *Store) lock(ctx context.Context) (unlock func()) {
	if s.inTx(ctx) {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

// OutboxEvents copy of the stored outbox rows, oldest first
func (s *Store) OutboxEvents() []po.OutboxEventPO {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.st.outbox)
}
