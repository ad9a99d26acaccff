package category5

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/outofforest/category5/config"
	"github.com/outofforest/category5/input"
	"github.com/outofforest/category5/test"
	"github.com/outofforest/category5/types"
	"github.com/outofforest/category5/wm"
	"github.com/outofforest/logger"
	"github.com/outofforest/parallel"
)

type rendererMock struct {
	ch chan wm.Task
}

func (r *rendererMock) Render(ctx context.Context, task *wm.Task) error {
	select {
	case <-ctx.Done():
		return errors.WithStack(ctx.Err())
	case r.ch <- *task:
		return nil
	}
}

type sinkMock struct {
	motionCh chan types.Point
}

func (s *sinkMock) PointerMotion(_ types.SeatID, _ types.WindowID, pos types.Point) {
	s.motionCh <- pos
}

func (s *sinkMock) PointerButton(types.SeatID, types.WindowID, uint32, bool) {}
func (s *sinkMock) PointerAxis(types.SeatID, types.WindowID, float64, float64) {}
func (s *sinkMock) Key(types.SeatID, types.WindowID, uint32, bool)            {}

func newCompositor(t *testing.T) (*Compositor, *rendererMock, *sinkMock, *test.Recorder) {
	cfg := config.Default()
	cfg.Frames.Interval = time.Millisecond
	cfg.Display.Width = 800
	cfg.Display.Height = 600

	renderer := &rendererMock{ch: make(chan wm.Task, 1024)}
	sink := &sinkMock{motionCh: make(chan types.Point, 16)}
	recorder := &test.Recorder{}

	return New(Config{
		Config:   cfg,
		Notifier: recorder,
		Sink:     sink,
		Renderer: renderer,
	}), renderer, sink, recorder
}

func run(t *testing.T, c *Compositor) context.Context {
	ctx, cancel := context.WithCancel(logger.WithLogger(context.Background(), logger.New(logger.DefaultConfig)))
	t.Cleanup(cancel)

	group := parallel.NewGroup(ctx)
	group.Spawn("compositor", parallel.Continue, c.Run)

	t.Cleanup(func() {
		group.Exit(nil)
		if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
			t.Fatal(err)
		}
	})

	return ctx
}

func waitFor(t *testing.T, r *rendererMock, taskType wm.TaskType) (wm.Task, []wm.Task) {
	timeout := time.After(5 * time.Second)
	var seen []wm.Task
	for {
		select {
		case task := <-r.ch:
			if task.Type == taskType {
				return task, seen
			}
			seen = append(seen, task)
		case <-timeout:
			t.Fatalf("task %s not received", taskType)
		}
	}
}

func taskTypes(tasks []wm.Task) []wm.TaskType {
	result := make([]wm.TaskType, 0, len(tasks))
	for _, task := range tasks {
		result = append(result, task.Type)
	}
	return result
}

func TestFrameLoop(t *testing.T) {
	requireT := require.New(t)

	c, renderer, sink, recorder := newCompositor(t)

	client, err := c.NewClient(1)
	requireT.NoError(err)
	w, err := c.NewToplevel(client, types.Rect{X: 100, Y: 100, Width: 200, Height: 200})
	requireT.NoError(err)
	requireT.Equal([]test.Event{{Type: test.KeyboardEnter, Seat: 1, Window: w}}, recorder.Events())

	ctx := run(t, c)

	restack, seen := waitFor(t, renderer, wm.Restack)
	requireT.Equal([]types.WindowID{w}, restack.Order)
	requireT.Equal([]wm.TaskType{wm.CreateWindow, wm.BeginFrame}, taskTypes(seen))
	requireT.Equal(types.Rect{X: 100, Y: 100, Width: 200, Height: 200}, seen[0].Rect)

	requireT.NoError(c.Submit(ctx, input.MouseMove{DX: 150, DY: 130}))
	select {
	case pos := <-sink.motionCh:
		requireT.Equal(types.Point{X: 50, Y: 30}, pos)
	case <-time.After(5 * time.Second):
		t.Fatal("motion not delivered")
	}
	requireT.Equal([]test.Event{{Type: test.PointerEnter, Seat: 1, Window: w}}, recorder.Events())

	sub, err := c.NewSubsurface(client, w, types.Rect{X: 10, Y: 10, Width: 20, Height: 20})
	requireT.NoError(err)
	restack, _ = waitFor(t, renderer, wm.Restack)
	requireT.Equal([]types.WindowID{sub, w}, restack.Order)

	requireT.NoError(c.DestroyWindow(sub))
	closed, _ := waitFor(t, renderer, wm.CloseWindow)
	requireT.Equal(sub, closed.Window)
	restack, _ = waitFor(t, renderer, wm.Restack)
	requireT.Equal([]types.WindowID{w}, restack.Order)

	requireT.NoError(c.DisconnectClient(client))
	closed, _ = waitFor(t, renderer, wm.CloseWindow)
	requireT.Equal(w, closed.Window)
	restack, _ = waitFor(t, renderer, wm.Restack)
	requireT.Empty(restack.Order)
}

func TestNewToplevelForUnknownClientFails(t *testing.T) {
	requireT := require.New(t)

	c, _, _, _ := newCompositor(t)
	_, err := c.NewToplevel(types.ClientID(12345), types.Rect{Width: 1, Height: 1})
	requireT.Error(err)
}

func TestZeroConfigUsesDefaults(t *testing.T) {
	requireT := require.New(t)

	var c *Compositor
	requireT.NotPanics(func() {
		c = New(Config{})
	})
	requireT.Equal(config.Default(), c.config.Config)

	client, err := c.NewClient(1)
	requireT.NoError(err)
	_, err = c.NewToplevel(client, types.Rect{Width: 10, Height: 10})
	requireT.NoError(err)
}
