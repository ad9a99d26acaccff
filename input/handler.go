package input

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/outofforest/category5/atmosphere"
	"github.com/outofforest/category5/types"
	"github.com/outofforest/category5/wm"
)

// Sink delivers input events to the clients.
type Sink interface {
	PointerMotion(seat types.SeatID, id types.WindowID, pos types.Point)
	PointerButton(seat types.SeatID, id types.WindowID, button uint32, pressed bool)
	PointerAxis(seat types.SeatID, id types.WindowID, dx, dy float64)
	Key(seat types.SeatID, id types.WindowID, code uint32, pressed bool)
}

// TaskQueue receives tasks for the renderer.
type TaskQueue interface {
	Push(task wm.Task)
}

// Config stores handler configuration.
type Config struct {
	Sink   Sink
	Tasks  TaskQueue
	Logger *zap.Logger
}

// New creates new input handler.
func New(config Config) *Handler {
	log := config.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{
		config:    config,
		log:       log,
		swallowed: map[uint32]struct{}{},
	}
}

// Handler routes input events and drives grab and resize state.
type Handler struct {
	config Config
	log    *zap.Logger

	// swallowed holds buttons whose press only moved the focus, their release is not delivered either.
	swallowed map[uint32]struct{}
}

// Handle applies the event to the atmosphere.
func (h *Handler) Handle(a *atmosphere.Atmosphere, ev Event) error {
	switch e := ev.(type) {
	case MouseMove:
		return h.handleMotion(a, e)
	case MouseButton:
		return h.handleButton(a, e)
	case Scroll:
		return h.handleScroll(a, e)
	case Key:
		return h.handleKey(a, e)
	default:
		return errors.Errorf("unknown event %T", ev)
	}
}

func (h *Handler) handleButton(a *atmosphere.Atmosphere, e MouseButton) error {
	if !e.Pressed {
		if grabbed := a.Grabbed(); grabbed != types.NoWindow {
			a.SetGrabbed(types.NoWindow)
			h.config.Tasks.Push(wm.Task{Type: wm.Ungrab, Window: grabbed})
			return nil
		}
		if resizing, _ := a.Resizing(); resizing != types.NoWindow {
			h.FlushResize(a)
			a.SetResizing(types.NoWindow, types.EdgeNone)
			return nil
		}
		if _, ok := h.swallowed[e.Button]; ok {
			delete(h.swallowed, e.Button)
			return nil
		}
	}

	cursor := a.CursorPos()
	id, ok := a.WindowAtPoint(cursor.X, cursor.Y)
	if !ok {
		return nil
	}
	root, err := a.RootWindow(id)
	if err != nil {
		return err
	}

	if e.Pressed {
		inFocus := types.NoWindow
		if focus := a.WindowInFocus(); focus != types.NoWindow {
			if inFocus, err = a.RootWindow(focus); err != nil {
				return err
			}
		}

		if err := a.FocusOn(id); err != nil {
			return err
		}
		if inFocus != root {
			h.swallowed[e.Button] = struct{}{}
			return nil
		}
	}

	edge, err := a.PointOnEdge(root, cursor.X, cursor.Y)
	if err != nil {
		return err
	}
	if edge != types.EdgeNone {
		if e.Pressed {
			h.log.Debug("Resize started", zap.Stringer("window", root), zap.Uint8("edge", uint8(edge)))
			a.SetResizing(root, edge)
		}
		return nil
	}

	onTitlebar, err := a.PointOnTitlebar(root, cursor.X, cursor.Y)
	if err != nil {
		return err
	}
	if onTitlebar {
		if e.Pressed {
			a.SetGrabbed(root)
			h.config.Tasks.Push(wm.Task{Type: wm.Grab, Window: root})
		}
		return nil
	}

	if seat := h.seat(a, id); seat != types.NoSeat {
		h.config.Sink.PointerButton(seat, id, e.Button, e.Pressed)
	}
	return nil
}

func (h *Handler) handleMotion(a *atmosphere.Atmosphere, e MouseMove) error {
	prev := a.CursorPos()
	cursor := a.AddCursorPos(e.DX, e.DY)
	dx, dy := cursor.X-prev.X, cursor.Y-prev.Y

	if resizing, _ := a.Resizing(); resizing != types.NoWindow {
		a.AccumulateResize(dx, dy)
		return nil
	}

	if grabbed := a.Grabbed(); grabbed != types.NoWindow {
		pos, err := a.Position(grabbed)
		if err != nil {
			return err
		}
		return a.SetPosition(grabbed, pos.X+dx, pos.Y+dy)
	}

	id, ok := a.WindowAtPoint(cursor.X, cursor.Y)
	if ok {
		local, inside, err := a.GlobalCoordsToSurface(id, cursor.X, cursor.Y)
		if err != nil {
			return err
		}
		if inside {
			if err := a.UpdatePointerFocus(id); err != nil {
				return err
			}
			if seat := h.seat(a, id); seat != types.NoSeat {
				h.config.Sink.PointerMotion(seat, id, local)
			}
			return nil
		}
	}

	if a.PointerFocus() != types.NoWindow {
		h.config.Tasks.Push(wm.Task{Type: wm.ResetCursor})
	}
	return a.UpdatePointerFocus(types.NoWindow)
}

func (h *Handler) handleScroll(a *atmosphere.Atmosphere, e Scroll) error {
	id := a.PointerFocus()
	if id == types.NoWindow {
		return nil
	}
	if seat := h.seat(a, id); seat != types.NoSeat {
		h.config.Sink.PointerAxis(seat, id, e.DX, e.DY)
	}
	return nil
}

func (h *Handler) handleKey(a *atmosphere.Atmosphere, e Key) error {
	id := a.WindowInFocus()
	if id == types.NoWindow {
		return nil
	}
	if seat := h.seat(a, id); seat != types.NoSeat {
		h.config.Sink.Key(seat, id, e.Code, e.Pressed)
	}
	return nil
}

// FlushResize applies accumulated resize and asks renderer to configure the window.
func (h *Handler) FlushResize(a *atmosphere.Atmosphere) {
	if id, rect, ok := a.FlushResize(); ok {
		h.config.Tasks.Push(wm.Task{Type: wm.Configure, Window: id, Rect: rect})
	}
}

func (h *Handler) seat(a *atmosphere.Atmosphere, id types.WindowID) types.SeatID {
	seat, err := a.SeatOf(id)
	if err != nil {
		h.log.Debug("Dropping input for window without seat", zap.Stringer("window", id), zap.Error(err))
		return types.NoSeat
	}
	return seat
}
