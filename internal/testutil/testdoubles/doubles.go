package testdoubles

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/jhoicas/rentmojo-api/internal/application/ports"
	"github.com/jhoicas/rentmojo-api/internal/domain/entity"
)

// MemCache caché en memoria con serialización JSON, igual que el adaptador Redis.
type MemCache struct {
	mu          sync.Mutex
	data        map[string][]byte
	Hits        int
	Invalidated []string
}

// NewMemCache crea una caché vacía.
func NewMemCache() *MemCache { return &MemCache{data: map[string][]byte{}} }

func (c *MemCache) Get(_ context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.data[key]
	if !ok {
		return false, nil
	}
	c.Hits++
	return true, json.Unmarshal(raw, dst)
}

func (c *MemCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = raw
	return nil
}

func (c *MemCache) Invalidate(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.data, k)
	}
	c.Invalidated = append(c.Invalidated, keys...)
	return nil
}

// Has indica si la clave está en caché.
func (c *MemCache) Has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.data[key]
	return ok
}

var _ ports.Cache = (*MemCache)(nil)

// EventSpy registra los eventos publicados. Err, si no es nil, se devuelve en cada Publish.
type EventSpy struct {
	mu     sync.Mutex
	events []ports.RentalEvent
	Err    error
}

func (s *EventSpy) Publish(_ context.Context, e ports.RentalEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
	return s.Err
}

// Types tipos de evento en orden de publicación.
func (s *EventSpy) Types() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.events))
	for _, e := range s.events {
		out = append(out, e.Type)
	}
	return out
}

var _ ports.EventPublisher = (*EventSpy)(nil)

// StubPDF devuelve un documento fijo con el ID del pedido.
type StubPDF struct{}

func (StubPDF) RentalAgreementPDF(_ context.Context, r *entity.Rental) ([]byte, error) {
	return []byte("%PDF-stub " + r.ID), nil
}

var _ ports.AgreementPDFGenerator = StubPDF{}
