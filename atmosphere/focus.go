package atmosphere

import (
	"go.uber.org/zap"

	"github.com/outofforest/category5/types"
)

// Notifier delivers focus changes to the seats of the clients.
type Notifier interface {
	KeyboardEnter(seat types.SeatID, id types.WindowID)
	KeyboardLeave(seat types.SeatID, id types.WindowID)
	PointerEnter(seat types.SeatID, id types.WindowID)
	PointerLeave(seat types.SeatID, id types.WindowID)
}

type nopNotifier struct{}

func (nopNotifier) KeyboardEnter(types.SeatID, types.WindowID) {}
func (nopNotifier) KeyboardLeave(types.SeatID, types.WindowID) {}
func (nopNotifier) PointerEnter(types.SeatID, types.WindowID)  {}
func (nopNotifier) PointerLeave(types.SeatID, types.WindowID)  {}

// FocusOn moves keyboard focus to the window. NoWindow clears the focus.
//
// Leave is sent to the previously focused window before the stack is touched, enter is sent after its toplevel
// becomes the top of the stack. Focus is stored last.
func (a *Atmosphere) FocusOn(id types.WindowID) error {
	if id != types.NoWindow {
		if err := a.windowIDs.Check(id); err != nil {
			return err
		}
	}

	prev := a.WindowInFocus()
	if prev == id {
		return nil
	}

	if prev != types.NoWindow {
		if seat := a.seatOf(prev); seat != types.NoSeat {
			a.notifier.KeyboardLeave(seat, prev)
		}
	}

	if id == types.NoWindow {
		a.SetGlobalProperty(Focus{})
		a.log.Debug("Focus cleared", zap.Stringer("previous", prev))
		return nil
	}

	a.raise(a.root(id))

	if seat := a.seatOf(id); seat != types.NoSeat {
		a.notifier.KeyboardEnter(seat, id)
	}

	a.SetGlobalProperty(Focus{Window: id})
	a.log.Debug("Focus changed", zap.Stringer("previous", prev), zap.Stringer("window", id))
	return nil
}

// WindowInFocus returns the focused window.
func (a *Atmosphere) WindowInFocus() types.WindowID {
	p, _ := getGlobal[Focus](a, GlobalFocus)
	return p.Window
}

// ClientInFocus returns the client owning the focused window.
func (a *Atmosphere) ClientInFocus() (types.ClientID, error) {
	id := a.WindowInFocus()
	if id == types.NoWindow {
		return types.NoClient, nil
	}
	return a.Owner(id)
}

// UpdatePointerFocus moves pointer focus to the window. Leave is sent before enter.
func (a *Atmosphere) UpdatePointerFocus(id types.WindowID) error {
	if id != types.NoWindow {
		if err := a.windowIDs.Check(id); err != nil {
			return err
		}
	}

	prev := a.PointerFocus()
	if prev == id {
		return nil
	}

	if prev != types.NoWindow {
		if seat := a.seatOf(prev); seat != types.NoSeat {
			a.notifier.PointerLeave(seat, prev)
		}
	}
	if id != types.NoWindow {
		if seat := a.seatOf(id); seat != types.NoSeat {
			a.notifier.PointerEnter(seat, id)
		}
	}

	a.SetGlobalProperty(PointerFocus{Window: id})
	return nil
}

// PointerFocus returns the window receiving pointer events.
func (a *Atmosphere) PointerFocus() types.WindowID {
	p, _ := getGlobal[PointerFocus](a, GlobalPointerFocus)
	return p.Window
}

// SetGrabbed sets the window being moved.
func (a *Atmosphere) SetGrabbed(id types.WindowID) {
	a.SetGlobalProperty(Grabbed{Window: id})
}

// Grabbed returns the window being moved.
func (a *Atmosphere) Grabbed() types.WindowID {
	p, _ := getGlobal[Grabbed](a, GlobalGrabbed)
	return p.Window
}

// SetResizing sets the window being resized and the edge being dragged.
func (a *Atmosphere) SetResizing(id types.WindowID, edge types.ResizeEdge) {
	if id == types.NoWindow {
		edge = types.EdgeNone
	}
	a.SetGlobalProperty(Resizing{Window: id, Edge: edge})
}

// Resizing returns the window being resized and the edge being dragged.
func (a *Atmosphere) Resizing() (types.WindowID, types.ResizeEdge) {
	p, _ := getGlobal[Resizing](a, GlobalResizing)
	return p.Window, p.Edge
}

// SeatOf returns the seat of the client owning the window.
func (a *Atmosphere) SeatOf(id types.WindowID) (types.SeatID, error) {
	if err := a.windowIDs.Check(id); err != nil {
		return types.NoSeat, err
	}
	owner, err := a.Owner(id)
	if err != nil {
		return types.NoSeat, err
	}
	return a.Seat(owner)
}

func (a *Atmosphere) seatOf(id types.WindowID) types.SeatID {
	seat, err := a.SeatOf(id)
	if err != nil {
		a.log.Debug("Window has no seat", zap.Stringer("window", id), zap.Error(err))
		return types.NoSeat
	}
	return seat
}
