package skiplist

import "github.com/outofforest/category5/types"

// NewIterator creates iterator walking the list from head.
func NewIterator(l Links, head types.WindowID) *Iterator {
	return &Iterator{
		links: l,
		head:  head,
		cur:   head,
	}
}

// Iterator walks the list following next pointers.
// It terminates only if the list is acyclic. It must not be used across a mutation of the list.
type Iterator struct {
	links Links
	head  types.WindowID
	cur   types.WindowID
}

// Next returns current window and advances to its successor.
func (it *Iterator) Next() (types.WindowID, bool) {
	id := it.cur
	if id == types.NoWindow {
		return types.NoWindow, false
	}
	it.cur = it.links.Next(id)
	return id, true
}

// Reset restarts iteration from the head.
func (it *Iterator) Reset() {
	it.cur = it.head
}

// All iterates over the remaining windows.
func (it *Iterator) All() func(func(types.WindowID) bool) {
	return func(yield func(types.WindowID) bool) {
		for {
			id, ok := it.Next()
			if !ok || !yield(id) {
				return
			}
		}
	}
}
