package wm

import (
	"github.com/outofforest/category5/types"
)

// TaskType defines the kind of work requested from the renderer.
type TaskType uint8

// Task types.
const (
	None TaskType = iota
	BeginFrame
	EndFrame
	CreateWindow
	CloseWindow
	Grab
	Ungrab
	Restack
	Configure
	ResetCursor
)

func (t TaskType) String() string {
	switch t {
	case BeginFrame:
		return "begin_frame"
	case EndFrame:
		return "end_frame"
	case CreateWindow:
		return "create_window"
	case CloseWindow:
		return "close_window"
	case Grab:
		return "grab"
	case Ungrab:
		return "ungrab"
	case Restack:
		return "restack"
	case Configure:
		return "configure"
	case ResetCursor:
		return "reset_cursor"
	default:
		return "none"
	}
}

// Task is the request sent to the renderer.
type Task struct {
	Type   TaskType
	Window types.WindowID

	// Rect is the geometry for CreateWindow and Configure, position relative to parent.
	Rect types.Rect

	// Order is the render order for Restack, front to back.
	Order []types.WindowID

	// Frame is the number of the frame the task belongs to.
	Frame uint64

	Next *Task
}
