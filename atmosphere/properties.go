package atmosphere

import "github.com/outofforest/category5/types"

// GlobalKind enumerates desktop-wide properties.
type GlobalKind uint8

// Global property kinds.
const (
	GlobalFocus GlobalKind = iota
	GlobalStackTop
	GlobalPointerFocus
	GlobalCursorPos
	GlobalGrabbed
	GlobalResizing
	GlobalPendingResize
	GlobalResolution
	numOfGlobalKinds
)

// WindowKind enumerates per-window properties.
type WindowKind uint8

// Window property kinds.
const (
	WindowOwner WindowKind = iota
	WindowSkiplistNext
	WindowSkiplistPrev
	WindowParent
	WindowTopChild
	WindowPosition
	WindowSize
	WindowRole
	numOfWindowKinds
)

// ClientKind enumerates per-client properties.
type ClientKind uint8

// Client property kinds.
const (
	ClientSeat ClientKind = iota
	numOfClientKinds
)

// GlobalProperty is the value stored in the global namespace.
type GlobalProperty interface {
	Kind() GlobalKind
}

// WindowProperty is the value stored for a window.
type WindowProperty interface {
	Kind() WindowKind
}

// ClientProperty is the value stored for a client.
type ClientProperty interface {
	Kind() ClientKind
}

// Focus is the window receiving keyboard input.
type Focus struct {
	Window types.WindowID
}

// Kind returns property kind.
func (Focus) Kind() GlobalKind { return GlobalFocus }

// StackTop is the head of the global stacking order.
type StackTop struct {
	Window types.WindowID
}

// Kind returns property kind.
func (StackTop) Kind() GlobalKind { return GlobalStackTop }

// PointerFocus is the window under the cursor receiving pointer events.
type PointerFocus struct {
	Window types.WindowID
}

// Kind returns property kind.
func (PointerFocus) Kind() GlobalKind { return GlobalPointerFocus }

// CursorPos is the position of the cursor on the desktop.
type CursorPos struct {
	X, Y float64
}

// Kind returns property kind.
func (CursorPos) Kind() GlobalKind { return GlobalCursorPos }

// Grabbed is the window being moved by its titlebar.
type Grabbed struct {
	Window types.WindowID
}

// Kind returns property kind.
func (Grabbed) Kind() GlobalKind { return GlobalGrabbed }

// Resizing is the window being resized and the edge being dragged.
type Resizing struct {
	Window types.WindowID
	Edge   types.ResizeEdge
}

// Kind returns property kind.
func (Resizing) Kind() GlobalKind { return GlobalResizing }

// PendingResize accumulates pointer deltas until the end of frame.
type PendingResize struct {
	DX, DY float64
}

// Kind returns property kind.
func (PendingResize) Kind() GlobalKind { return GlobalPendingResize }

// Resolution is the size of the desktop.
type Resolution struct {
	Width, Height float64
}

// Kind returns property kind.
func (Resolution) Kind() GlobalKind { return GlobalResolution }

// Owner is the client owning the window.
type Owner struct {
	Client types.ClientID
}

// Kind returns property kind.
func (Owner) Kind() WindowKind { return WindowOwner }

// SkiplistNext is the window below this one.
type SkiplistNext struct {
	Window types.WindowID
}

// Kind returns property kind.
func (SkiplistNext) Kind() WindowKind { return WindowSkiplistNext }

// SkiplistPrev is the window above this one.
type SkiplistPrev struct {
	Window types.WindowID
}

// Kind returns property kind.
func (SkiplistPrev) Kind() WindowKind { return WindowSkiplistPrev }

// Parent is the window this subsurface is attached to.
type Parent struct {
	Window types.WindowID
}

// Kind returns property kind.
func (Parent) Kind() WindowKind { return WindowParent }

// TopChild is the head of the subsurface order of the window.
type TopChild struct {
	Window types.WindowID
}

// Kind returns property kind.
func (TopChild) Kind() WindowKind { return WindowTopChild }

// Position of toplevel on the desktop, or of subsurface relative to its parent.
type Position struct {
	X, Y float64
}

// Kind returns property kind.
func (Position) Kind() WindowKind { return WindowPosition }

// Size of the window content.
type Size struct {
	Width, Height float64
}

// Kind returns property kind.
func (Size) Kind() WindowKind { return WindowSize }

// Role is the shell role of the window.
type Role struct {
	Role types.Role
}

// Kind returns property kind.
func (Role) Kind() WindowKind { return WindowRole }

// Seat is the seat bound by the client.
type Seat struct {
	Seat types.SeatID
}

// Kind returns property kind.
func (Seat) Kind() ClientKind { return ClientSeat }
