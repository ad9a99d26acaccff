package types

import "fmt"

const (
	// UInt64Length is the number of bytes taken by uint64.
	UInt64Length = 8

	indexBits = 32
	indexMask = 1<<indexBits - 1
)

type (
	// WindowID identifies a window (wayland surface) entity.
	WindowID uint64

	// ClientID identifies a client entity.
	ClientID uint64

	// SeatID is an opaque handle of the seat owned by the wayland layer.
	SeatID uint64
)

const (
	// NoWindow is the zero window ID, never assigned to a live window.
	NoWindow WindowID = 0

	// NoClient is the zero client ID, never assigned to a live client.
	NoClient ClientID = 0

	// NoSeat means client has no seat bound.
	NoSeat SeatID = 0
)

// NewID builds an entity ID from slot index and generation.
func NewID[ID ~uint64](index, generation uint32) ID {
	return ID(uint64(generation)<<indexBits | uint64(index))
}

// Index returns slot index encoded in the ID.
func Index[ID ~uint64](id ID) uint32 {
	return uint32(uint64(id) & indexMask)
}

// Generation returns generation encoded in the ID.
func Generation[ID ~uint64](id ID) uint32 {
	return uint32(uint64(id) >> indexBits)
}

// Index returns slot index of the window.
func (id WindowID) Index() uint32 {
	return Index(id)
}

func (id WindowID) String() string {
	if id == NoWindow {
		return "window(none)"
	}
	return fmt.Sprintf("window(%d/%d)", Index(id), Generation(id))
}

// Index returns slot index of the client.
func (id ClientID) Index() uint32 {
	return Index(id)
}

func (id ClientID) String() string {
	if id == NoClient {
		return "client(none)"
	}
	return fmt.Sprintf("client(%d/%d)", Index(id), Generation(id))
}

// Point is a position on the desktop.
type Point struct {
	X float64
	Y float64
}

// Rect is the rectangle starting at upper-left corner.
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// Contains checks if point lies inside the rectangle.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// Role defines the shell role of the surface.
type Role uint8

const (
	// RoleNone means surface has no role assigned yet.
	RoleNone Role = iota

	// RoleToplevel is the xdg toplevel window.
	RoleToplevel

	// RolePopup is the xdg popup.
	RolePopup

	// RoleSubsurface is the wl_subsurface.
	RoleSubsurface

	// RoleCursor is the surface used as a cursor image.
	RoleCursor
)

// ResizeEdge is the edge of the window being dragged during resize.
type ResizeEdge uint8

// Values match xdg_toplevel.resize_edge.
const (
	EdgeNone        ResizeEdge = 0
	EdgeTop         ResizeEdge = 1
	EdgeBottom      ResizeEdge = 2
	EdgeLeft        ResizeEdge = 4
	EdgeTopLeft     ResizeEdge = 5
	EdgeBottomLeft  ResizeEdge = 6
	EdgeRight       ResizeEdge = 8
	EdgeTopRight    ResizeEdge = 9
	EdgeBottomRight ResizeEdge = 10
)
