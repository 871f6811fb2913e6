package cart

import (
	"encoding/json"
	"fmt"

	"storefront/internal/domain"
)

// Store holds what the shopper intends to buy and keeps it durable
// across restarts. One store per browsing session, single writer, so
// no locking; every mutation persists before returning (write-through).
type Store struct {
	storage Storage
	key     string
	lines   []domain.CartLine
}

// persistedCart is the serialized shape. Versioned so the blob can be
// evolved without breaking carts saved by older builds.
type persistedCart struct {
	Version int               `json:"version"`
	Lines   []domain.CartLine `json:"lines"`
}

const persistedVersion = 1

// NewStore rehydrates the cart persisted under StorageKey. A missing
// or unreadable blob starts an empty cart rather than failing the
// session.
func NewStore(storage Storage) *Store {
	s := &Store{storage: storage, key: StorageKey}
	data, err := storage.Load(s.key)
	if err != nil || len(data) == 0 {
		return s
	}
	var saved persistedCart
	if err := json.Unmarshal(data, &saved); err != nil {
		return s
	}
	for _, line := range saved.Lines {
		if line.ProductID == "" || line.Quantity < 1 {
			continue
		}
		s.lines = append(s.lines, line)
	}
	return s
}

// AddItem merges into an existing line for the same product or appends
// a new one. A zero delta counts as 1. Availability is not checked
// here; stock is only advisory until checkout.
func (s *Store) AddItem(line domain.CartLine, quantityDelta int) error {
	if line.ProductID == "" {
		return fmt.Errorf("%w: productId required", domain.ErrValidation)
	}
	if quantityDelta <= 0 {
		quantityDelta = 1
	}
	merged := false
	for i := range s.lines {
		if s.lines[i].ProductID == line.ProductID {
			s.lines[i].Quantity += quantityDelta
			merged = true
			break
		}
	}
	if !merged {
		line.Quantity = quantityDelta
		s.lines = append(s.lines, line)
	}
	return s.persist()
}

// RemoveItem deletes the line for the product. Absent product is a
// no-op.
func (s *Store) RemoveItem(productID string) error {
	for i := range s.lines {
		if s.lines[i].ProductID == productID {
			s.lines = append(s.lines[:i], s.lines[i+1:]...)
			return s.persist()
		}
	}
	return nil
}

// UpdateQuantity sets the line's quantity exactly. Zero or negative
// removes the line; an unknown product is a no-op.
func (s *Store) UpdateQuantity(productID string, quantity int) error {
	if quantity <= 0 {
		return s.RemoveItem(productID)
	}
	for i := range s.lines {
		if s.lines[i].ProductID == productID {
			s.lines[i].Quantity = quantity
			return s.persist()
		}
	}
	return nil
}

// Clear empties the cart.
func (s *Store) Clear() error {
	s.lines = nil
	return s.persist()
}

// Items returns a snapshot of the lines in insertion order.
func (s *Store) Items() []domain.CartLine {
	out := make([]domain.CartLine, len(s.lines))
	copy(out, s.lines)
	return out
}

// TotalCents sums unit price times quantity over all lines, computed
// fresh on each call.
func (s *Store) TotalCents() int64 {
	var total int64
	for _, line := range s.lines {
		total += line.UnitPriceCents * int64(line.Quantity)
	}
	return total
}

// TotalItems sums quantities over all lines.
func (s *Store) TotalItems() int {
	var total int
	for _, line := range s.lines {
		total += line.Quantity
	}
	return total
}

func (s *Store) persist() error {
	if len(s.lines) == 0 {
		return s.storage.Delete(s.key)
	}
	data, err := json.Marshal(persistedCart{Version: persistedVersion, Lines: s.lines})
	if err != nil {
		return err
	}
	return s.storage.Save(s.key, data)
}
