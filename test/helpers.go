package test

import (
	"cmp"
	"fmt"
	"slices"
	"sync"

	"github.com/outofforest/category5/skiplist"
	"github.com/outofforest/category5/types"
)

// CollectWindows collects windows returned by the iterator, in iteration order.
func CollectWindows(it *skiplist.Iterator) []types.WindowID {
	windows := []types.WindowID{}
	for id := range it.All() {
		windows = append(windows, id)
	}
	return windows
}

// CollectSorted collects values returned by the sequence and sorts them.
func CollectSorted[T cmp.Ordered](seq func(func(T) bool)) []T {
	values := []T{}
	for v := range seq {
		values = append(values, v)
	}
	slices.Sort(values)
	return values
}

// EventType is the type of focus notification.
type EventType string

// Notification types.
const (
	KeyboardEnter EventType = "keyboard_enter"
	KeyboardLeave EventType = "keyboard_leave"
	PointerEnter  EventType = "pointer_enter"
	PointerLeave  EventType = "pointer_leave"
)

// Event is the recorded notification.
type Event struct {
	Type   EventType
	Seat   types.SeatID
	Window types.WindowID
}

func (e Event) String() string {
	return fmt.Sprintf("%s(%d, %s)", e.Type, e.Seat, e.Window)
}

// Recorder records focus notifications in the order they were sent.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// KeyboardEnter records keyboard enter.
func (r *Recorder) KeyboardEnter(seat types.SeatID, id types.WindowID) {
	r.record(KeyboardEnter, seat, id)
}

// KeyboardLeave records keyboard leave.
func (r *Recorder) KeyboardLeave(seat types.SeatID, id types.WindowID) {
	r.record(KeyboardLeave, seat, id)
}

// PointerEnter records pointer enter.
func (r *Recorder) PointerEnter(seat types.SeatID, id types.WindowID) {
	r.record(PointerEnter, seat, id)
}

// PointerLeave records pointer leave.
func (r *Recorder) PointerLeave(seat types.SeatID, id types.WindowID) {
	r.record(PointerLeave, seat, id)
}

// Events returns recorded events and forgets them.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	events := r.events
	r.events = nil
	return events
}

func (r *Recorder) record(t EventType, seat types.SeatID, id types.WindowID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = append(r.events, Event{Type: t, Seat: seat, Window: id})
}
