package atmosphere_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/outofforest/category5/types"
)

func TestCursorIsClampedToResolution(t *testing.T) {
	requireT := require.New(t)

	a, _ := newAtmosphere()
	requireT.Equal(types.Point{X: -5, Y: 3}, a.AddCursorPos(-5, 3))

	a.SetCursorPos(0, 0)
	a.SetResolution(640, 480)
	requireT.Equal(types.Point{X: 0, Y: 3}, a.AddCursorPos(-5, 3))
	requireT.Equal(types.Point{X: 639, Y: 479}, a.AddCursorPos(1000, 1000))
	requireT.Equal(types.Point{X: 639, Y: 479}, a.CursorPos())
}

func TestHitTesting(t *testing.T) {
	requireT := require.New(t)

	a, _ := newAtmosphere()
	c := newClient(requireT, a, 1)

	w := newToplevel(requireT, a, c)
	requireT.NoError(a.SetPosition(w, 100, 100))
	requireT.NoError(a.SetSize(w, 200, 100))

	sub := newWindow(requireT, a, c)
	requireT.NoError(a.SetRole(sub, types.RoleSubsurface))
	requireT.NoError(a.AddNewTopSubsurf(w, sub))
	requireT.NoError(a.SetPosition(sub, 10, 10))
	requireT.NoError(a.SetSize(sub, 50, 50))

	pos, err := a.SurfacePosition(sub)
	requireT.NoError(err)
	requireT.Equal(types.Point{X: 110, Y: 110}, pos)

	local, inside, err := a.GlobalCoordsToSurface(sub, 120, 130)
	requireT.NoError(err)
	requireT.True(inside)
	requireT.Equal(types.Point{X: 10, Y: 20}, local)

	_, inside, err = a.GlobalCoordsToSurface(sub, 200, 130)
	requireT.NoError(err)
	requireT.False(inside)

	id, ok := a.WindowAtPoint(120, 130)
	requireT.True(ok)
	requireT.Equal(sub, id)

	id, ok = a.WindowAtPoint(200, 150)
	requireT.True(ok)
	requireT.Equal(w, id)

	id, ok = a.WindowAtPoint(150, 90)
	requireT.True(ok)
	requireT.Equal(w, id)
	onTitlebar, err := a.PointOnTitlebar(w, 150, 90)
	requireT.NoError(err)
	requireT.True(onTitlebar)
	onTitlebar, err = a.PointOnTitlebar(w, 150, 110)
	requireT.NoError(err)
	requireT.False(onTitlebar)
	onTitlebar, err = a.PointOnTitlebar(sub, 150, 90)
	requireT.NoError(err)
	requireT.False(onTitlebar)

	id, ok = a.WindowAtPoint(97, 150)
	requireT.True(ok)
	requireT.Equal(w, id)

	for _, tc := range []struct {
		X, Y float64
		Edge types.ResizeEdge
	}{
		{X: 97, Y: 150, Edge: types.EdgeLeft},
		{X: 302, Y: 150, Edge: types.EdgeRight},
		{X: 150, Y: 72, Edge: types.EdgeTop},
		{X: 150, Y: 203, Edge: types.EdgeBottom},
		{X: 95, Y: 72, Edge: types.EdgeTopLeft},
		{X: 305, Y: 205, Edge: types.EdgeBottomRight},
		{X: 150, Y: 150, Edge: types.EdgeNone},
		{X: 150, Y: 90, Edge: types.EdgeNone},
		{X: 10, Y: 10, Edge: types.EdgeNone},
	} {
		edge, err := a.PointOnEdge(w, tc.X, tc.Y)
		requireT.NoError(err)
		requireT.Equal(tc.Edge, edge, "%v", tc)
	}

	_, ok = a.WindowAtPoint(50, 50)
	requireT.False(ok)
}

func TestTopWindowWinsHitTest(t *testing.T) {
	requireT := require.New(t)

	a, _ := newAtmosphere()
	c := newClient(requireT, a, 1)

	w1 := newToplevel(requireT, a, c)
	requireT.NoError(a.SetPosition(w1, 0, 30))
	requireT.NoError(a.SetSize(w1, 100, 100))
	w2 := newToplevel(requireT, a, c)
	requireT.NoError(a.SetPosition(w2, 50, 80))
	requireT.NoError(a.SetSize(w2, 100, 100))

	id, ok := a.WindowAtPoint(75, 100)
	requireT.True(ok)
	requireT.Equal(w2, id)

	requireT.NoError(a.FocusOn(w1))
	id, ok = a.WindowAtPoint(75, 100)
	requireT.True(ok)
	requireT.Equal(w1, id)
}

func TestResizeIsFlushedOnce(t *testing.T) {
	requireT := require.New(t)

	a, _ := newAtmosphere()
	c := newClient(requireT, a, 1)
	w := newToplevel(requireT, a, c)
	requireT.NoError(a.SetPosition(w, 100, 100))
	requireT.NoError(a.SetSize(w, 200, 100))

	_, _, ok := a.FlushResize()
	requireT.False(ok)

	a.SetResizing(w, types.EdgeBottomRight)
	a.AccumulateResize(10, 5)
	a.AccumulateResize(5, 5)

	id, rect, ok := a.FlushResize()
	requireT.True(ok)
	requireT.Equal(w, id)
	requireT.Equal(types.Rect{X: 100, Y: 100, Width: 215, Height: 110}, rect)

	_, _, ok = a.FlushResize()
	requireT.False(ok)

	a.SetResizing(w, types.EdgeTopLeft)
	a.AccumulateResize(15, -10)
	_, rect, ok = a.FlushResize()
	requireT.True(ok)
	requireT.Equal(types.Rect{X: 115, Y: 90, Width: 200, Height: 120}, rect)

	a.SetResizing(w, types.EdgeRight)
	a.AccumulateResize(-1000, 50)
	_, rect, ok = a.FlushResize()
	requireT.True(ok)
	requireT.Equal(types.Rect{X: 115, Y: 90, Width: 1, Height: 120}, rect)

	width, height, err := a.Size(w)
	requireT.NoError(err)
	requireT.Equal(1.0, width)
	requireT.Equal(120.0, height)
}
