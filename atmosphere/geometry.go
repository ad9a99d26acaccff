package atmosphere

import (
	"github.com/cespare/xxhash"
	"github.com/outofforest/photon"

	"github.com/outofforest/category5/types"
)

// CursorPos returns position of the cursor.
func (a *Atmosphere) CursorPos() types.Point {
	p, _ := getGlobal[CursorPos](a, GlobalCursorPos)
	return types.Point{X: p.X, Y: p.Y}
}

// SetCursorPos moves the cursor.
func (a *Atmosphere) SetCursorPos(x, y float64) {
	a.SetGlobalProperty(CursorPos{X: x, Y: y})
}

// AddCursorPos moves the cursor by the delta. Position is kept inside the resolution if it is set.
func (a *Atmosphere) AddCursorPos(dx, dy float64) types.Point {
	p := a.CursorPos()
	x, y := p.X+dx, p.Y+dy

	if res, ok := getGlobal[Resolution](a, GlobalResolution); ok {
		x = clamp(x, res.Width-1)
		y = clamp(y, res.Height-1)
	}

	a.SetCursorPos(x, y)
	return types.Point{X: x, Y: y}
}

// SetResolution sets the size of the desktop.
func (a *Atmosphere) SetResolution(width, height float64) {
	a.SetGlobalProperty(Resolution{Width: width, Height: height})
}

// SurfacePosition returns position of the window on the desktop.
func (a *Atmosphere) SurfacePosition(id types.WindowID) (types.Point, error) {
	if err := a.windowIDs.Check(id); err != nil {
		return types.Point{}, err
	}
	return a.surfacePosition(id), nil
}

// GlobalCoordsToSurface converts desktop coordinates to the coordinates local to the window.
// False is returned if point is outside the window content.
func (a *Atmosphere) GlobalCoordsToSurface(id types.WindowID, x, y float64) (types.Point, bool, error) {
	if err := a.windowIDs.Check(id); err != nil {
		return types.Point{}, false, err
	}
	r := a.contentRect(id)
	return types.Point{X: x - r.X, Y: y - r.Y}, r.Contains(x, y), nil
}

// WindowAtPoint returns the top-most surface covering the point.
func (a *Atmosphere) WindowAtPoint(x, y float64) (types.WindowID, bool) {
	for w := range a.VisibleWindows().All() {
		if id, ok := a.hitTree(w, x, y); ok {
			return id, true
		}
	}
	return types.NoWindow, false
}

// PointOnTitlebar checks if point lies on the titlebar of the toplevel.
func (a *Atmosphere) PointOnTitlebar(id types.WindowID, x, y float64) (bool, error) {
	if err := a.windowIDs.Check(id); err != nil {
		return false, err
	}
	if !a.decorated(id) {
		return false, nil
	}
	r := a.contentRect(id)
	titlebar := types.Rect{X: r.X, Y: r.Y - a.config.TitlebarHeight, Width: r.Width, Height: a.config.TitlebarHeight}
	return titlebar.Contains(x, y), nil
}

// PointOnEdge returns the edge of the toplevel frame the point lies on.
func (a *Atmosphere) PointOnEdge(id types.WindowID, x, y float64) (types.ResizeEdge, error) {
	if err := a.windowIDs.Check(id); err != nil {
		return types.EdgeNone, err
	}
	if !a.decorated(id) {
		return types.EdgeNone, nil
	}

	frame := a.frameRect(id)
	if frame.Contains(x, y) || !a.outerRect(id).Contains(x, y) {
		return types.EdgeNone, nil
	}

	var edge types.ResizeEdge
	switch {
	case x < frame.X:
		edge |= types.EdgeLeft
	case x >= frame.X+frame.Width:
		edge |= types.EdgeRight
	}
	switch {
	case y < frame.Y:
		edge |= types.EdgeTop
	case y >= frame.Y+frame.Height:
		edge |= types.EdgeBottom
	}
	return edge, nil
}

// AccumulateResize adds pointer delta to the pending resize.
func (a *Atmosphere) AccumulateResize(dx, dy float64) {
	p, _ := getGlobal[PendingResize](a, GlobalPendingResize)
	a.SetGlobalProperty(PendingResize{DX: p.DX + dx, DY: p.DY + dy})
}

// FlushResize applies pending resize to the window being resized. It returns the new geometry of the window,
// position is relative to its parent.
func (a *Atmosphere) FlushResize() (types.WindowID, types.Rect, bool) {
	pending, _ := getGlobal[PendingResize](a, GlobalPendingResize)
	id, edge := a.Resizing()
	if id == types.NoWindow || (pending.DX == 0 && pending.DY == 0) {
		return types.NoWindow, types.Rect{}, false
	}
	a.SetGlobalProperty(PendingResize{})

	pos, _ := getWindow[Position](a, id, WindowPosition)
	size, _ := getWindow[Size](a, id, WindowSize)

	if edge&types.EdgeLeft != 0 {
		width := max(size.Width-pending.DX, 1)
		pos.X += size.Width - width
		size.Width = width
	}
	if edge&types.EdgeRight != 0 {
		size.Width = max(size.Width+pending.DX, 1)
	}
	if edge&types.EdgeTop != 0 {
		height := max(size.Height-pending.DY, 1)
		pos.Y += size.Height - height
		size.Height = height
	}
	if edge&types.EdgeBottom != 0 {
		size.Height = max(size.Height+pending.DY, 1)
	}

	a.setWindow(id, pos)
	a.setWindow(id, size)
	return id, types.Rect{X: pos.X, Y: pos.Y, Width: size.Width, Height: size.Height}, true
}

// StackDigest returns hash of the render order. It changes whenever windows are restacked.
func (a *Atmosphere) StackDigest() uint64 {
	d := xxhash.New()
	for id := range a.RenderOrder() {
		_, _ = d.Write(photon.NewFromValue(&id).B)
	}
	return d.Sum64()
}

func (a *Atmosphere) hitTree(id types.WindowID, x, y float64) (types.WindowID, bool) {
	for child := range a.subsurfaces(id) {
		if hit, ok := a.hitTree(child, x, y); ok {
			return hit, true
		}
	}
	if a.decorated(id) {
		return id, a.outerRect(id).Contains(x, y)
	}
	return id, a.contentRect(id).Contains(x, y)
}

func (a *Atmosphere) decorated(id types.WindowID) bool {
	r, _ := getWindow[Role](a, id, WindowRole)
	return r.Role == types.RoleToplevel && a.parent(id) == types.NoWindow
}

func (a *Atmosphere) surfacePosition(id types.WindowID) types.Point {
	var x, y float64
	for w := id; w != types.NoWindow; w = a.parent(w) {
		p, _ := getWindow[Position](a, w, WindowPosition)
		x += p.X
		y += p.Y
	}
	return types.Point{X: x, Y: y}
}

func (a *Atmosphere) contentRect(id types.WindowID) types.Rect {
	pos := a.surfacePosition(id)
	size, _ := getWindow[Size](a, id, WindowSize)
	return types.Rect{X: pos.X, Y: pos.Y, Width: size.Width, Height: size.Height}
}

// frameRect is the content extended by the titlebar.
func (a *Atmosphere) frameRect(id types.WindowID) types.Rect {
	r := a.contentRect(id)
	r.Y -= a.config.TitlebarHeight
	r.Height += a.config.TitlebarHeight
	return r
}

// outerRect is the frame extended by the resize edges.
func (a *Atmosphere) outerRect(id types.WindowID) types.Rect {
	r := a.frameRect(id)
	e := a.config.EdgeWidth
	return types.Rect{X: r.X - e, Y: r.Y - e, Width: r.Width + 2*e, Height: r.Height + 2*e}
}

func clamp(v, upper float64) float64 {
	return max(min(v, upper), 0)
}
