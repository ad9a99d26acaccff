package ids

import (
	"github.com/pkg/errors"

	"github.com/outofforest/category5/types"
)

var (
	// ErrNotLive is returned when ID was never minted or has been freed.
	ErrNotLive = errors.New("id is not live")

	// ErrExhausted is returned when there is no free slot to mint ID from.
	ErrExhausted = errors.New("no free id")
)

// Config stores configuration of the allocator.
type Config struct {
	Capacity uint32
}

// New creates new ID allocator.
func New[ID ~uint64](config Config) *Allocator[ID] {
	r, slots := newRing[uint32](uint64(config.Capacity))
	for i := range slots {
		slots[i] = uint32(i)
	}

	generations := make([]uint32, config.Capacity)
	for i := range generations {
		generations[i] = 1
	}

	return &Allocator[ID]{
		ring:        r,
		generations: generations,
		live:        make([]bool, config.Capacity),
	}
}

// Allocator mints generation-checked IDs.
// Freed slot is not handed out again until Recycle is called.
type Allocator[ID ~uint64] struct {
	ring        *ring[uint32]
	generations []uint32
	live        []bool
	count       uint32
}

// Mint returns fresh ID which is not live.
func (a *Allocator[ID]) Mint() (ID, error) {
	index, err := a.ring.Get()
	if err != nil {
		return 0, errors.WithStack(ErrExhausted)
	}

	a.live[index] = true
	a.count++
	return types.NewID[ID](index, a.generations[index]), nil
}

// Free marks ID as not live. Its slot waits for Recycle.
func (a *Allocator[ID]) Free(id ID) error {
	if err := a.Check(id); err != nil {
		return err
	}

	index := types.Index(id)
	a.live[index] = false
	a.count--

	a.generations[index]++
	if a.generations[index] == 0 {
		// Zero generation would produce zero ID for slot 0.
		a.generations[index] = 1
	}

	a.ring.Put(index)
	return nil
}

// Recycle makes slots freed so far available for minting. It returns the number of recycled slots.
func (a *Allocator[ID]) Recycle() uint64 {
	recycled := a.ring.Pending()
	a.ring.Commit()
	return recycled
}

// Alive checks if ID is live.
func (a *Allocator[ID]) Alive(id ID) bool {
	index := types.Index(id)
	if uint64(index) >= uint64(len(a.live)) {
		return false
	}
	return a.live[index] && a.generations[index] == types.Generation(id)
}

// Check returns error if ID is not live.
func (a *Allocator[ID]) Check(id ID) error {
	if !a.Alive(id) {
		return errors.Wrapf(ErrNotLive, "id %#x", uint64(id))
	}
	return nil
}

// Count returns the number of live IDs.
func (a *Allocator[ID]) Count() uint32 {
	return a.count
}

// Capacity returns the maximum number of live IDs.
func (a *Allocator[ID]) Capacity() uint32 {
	return uint32(len(a.live))
}

// Live iterates over live IDs in slot order.
func (a *Allocator[ID]) Live() func(func(ID) bool) {
	return func(yield func(ID) bool) {
		for index, live := range a.live {
			if !live {
				continue
			}
			if !yield(types.NewID[ID](uint32(index), a.generations[index])) {
				return
			}
		}
	}
}
