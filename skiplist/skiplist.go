// Package skiplist implements the doubly linked ordering of windows.
//
// Links are not kept in a separate structure. Each window stores the IDs of its neighbours, so the list is
// manipulated purely by reading and writing those two values. Operations are not safe for concurrent use.
package skiplist

import (
	"github.com/outofforest/category5/types"
)

// Links provides access to the neighbour pointers of windows.
type Links interface {
	Next(id types.WindowID) types.WindowID
	Prev(id types.WindowID) types.WindowID
	SetNext(id, next types.WindowID)
	SetPrev(id, prev types.WindowID)
}

// Remove unlinks the window from the list it belongs to.
// Own pointers of the window are cleared, so calling it twice is a no-op.
func Remove(l Links, id types.WindowID) {
	next := l.Next(id)
	prev := l.Prev(id)

	if prev != types.NoWindow {
		l.SetNext(prev, next)
	}
	if next != types.NoWindow {
		l.SetPrev(next, prev)
	}

	l.SetNext(id, types.NoWindow)
	l.SetPrev(id, types.NoWindow)
}

// PlaceAbove inserts the window directly before the target.
func PlaceAbove(l Links, id, target types.WindowID) {
	if id == target {
		return
	}

	Remove(l, id)

	prev := l.Prev(target)
	if prev != types.NoWindow {
		l.SetNext(prev, id)
	}
	l.SetPrev(target, id)

	l.SetPrev(id, prev)
	l.SetNext(id, target)
}

// PlaceBelow inserts the window directly after the target.
func PlaceBelow(l Links, id, target types.WindowID) {
	if id == target {
		return
	}

	Remove(l, id)

	next := l.Next(target)
	if next != types.NoWindow {
		l.SetPrev(next, id)
	}
	l.SetNext(target, id)

	l.SetPrev(id, target)
	l.SetNext(id, next)
}

// Linked checks if window has any neighbour.
func Linked(l Links, id types.WindowID) bool {
	return l.Next(id) != types.NoWindow || l.Prev(id) != types.NoWindow
}
