package layout

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"

	apperrors "garagy/internal/errors"
)

// maxIDAttempts bounds retries when a generator hands out an id that is
// already taken in the layout being built.
const maxIDAttempts = 16

// IDGenerator hands out slot ids.
type IDGenerator interface {
	NewID() string
}

// UUIDGenerator produces random version 4 UUIDs.
type UUIDGenerator struct{}

func (UUIDGenerator) NewID() string {
	return uuid.NewString()
}

// CounterGenerator produces prefix1, prefix2, ... and never repeats for the
// lifetime of the value. It is safe for concurrent use.
type CounterGenerator struct {
	prefix string
	n      atomic.Int64
}

func NewCounterGenerator(prefix string) *CounterGenerator {
	return &CounterGenerator{prefix: prefix}
}

func (g *CounterGenerator) NewID() string {
	return fmt.Sprintf("%s%d", g.prefix, g.n.Add(1))
}

// freshID draws ids from gen until one is not in taken, then records it.
func freshID(gen IDGenerator, taken map[string]struct{}) (string, error) {
	for range maxIDAttempts {
		id := gen.NewID()
		if id == "" {
			continue
		}
		if _, dup := taken[id]; dup {
			continue
		}
		taken[id] = struct{}{}
		return id, nil
	}
	return "", apperrors.New(apperrors.CodeInternal, "slot id generator produced no unique id after %d attempts", maxIDAttempts)
}

func newSlots(n int, gen IDGenerator, taken map[string]struct{}) ([]Slot, error) {
	slots := make([]Slot, 0, n)
	for range n {
		id, err := freshID(gen, taken)
		if err != nil {
			return nil, err
		}
		slots = append(slots, Slot{ID: id, Status: StatusAvailable})
	}
	return slots, nil
}
