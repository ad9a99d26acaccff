package category5

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/outofforest/category5/atmosphere"
	"github.com/outofforest/category5/config"
	"github.com/outofforest/category5/input"
	"github.com/outofforest/category5/types"
	"github.com/outofforest/category5/wm"
	"github.com/outofforest/logger"
	"github.com/outofforest/parallel"
)

// Renderer executes tasks produced by the window manager.
type Renderer interface {
	Render(ctx context.Context, task *wm.Task) error
}

// Config stores compositor configuration.
type Config struct {
	Config   *config.Config
	Notifier atmosphere.Notifier
	Sink     input.Sink
	Renderer Renderer
	Logger   *zap.Logger
}

// New creates new compositor.
func New(conf Config) *Compositor {
	log := conf.Logger
	if log == nil {
		log = zap.NewNop()
	}

	if conf.Config == nil {
		conf.Config = config.Default()
	}
	cfg := conf.Config
	a := atmosphere.New(atmosphere.Config{
		MaxWindows:     cfg.Atmosphere.MaxWindows,
		MaxClients:     cfg.Atmosphere.MaxClients,
		TitlebarHeight: cfg.Atmosphere.TitlebarHeight,
		EdgeWidth:      cfg.Atmosphere.EdgeWidth,
		Notifier:       conf.Notifier,
		Logger:         log.Named("atmosphere"),
	})
	a.SetResolution(cfg.Display.Width, cfg.Display.Height)

	tasks := wm.New(wm.Config{Capacity: cfg.Frames.QueueCapacity})

	return &Compositor{
		config: conf,
		shared: atmosphere.NewShared(a),
		tasks:  tasks,
		reader: tasks.NewReader(),
		input: input.New(input.Config{
			Sink:   conf.Sink,
			Tasks:  tasks,
			Logger: log.Named("input"),
		}),
		eventCh:    make(chan input.Event, cfg.Frames.InputBuffer),
		lastDigest: a.StackDigest(),
	}
}

// Compositor runs the frame loop around the shared atmosphere.
// Tasks are pushed only while holding the atmosphere lock, so the queue has a single producer at a time.
type Compositor struct {
	config  Config
	shared  *atmosphere.Shared
	tasks   *wm.Queue
	reader  *wm.Reader
	input   *input.Handler
	eventCh chan input.Event

	frame      uint64
	lastDigest uint64
}

// Shared returns the atmosphere used by the compositor.
func (c *Compositor) Shared() *atmosphere.Shared {
	return c.shared
}

// Submit passes input event to the compositor.
func (c *Compositor) Submit(ctx context.Context, ev input.Event) error {
	select {
	case <-ctx.Done():
		return errors.WithStack(ctx.Err())
	case c.eventCh <- ev:
		return nil
	}
}

// NewClient registers the client bound to the seat.
func (c *Compositor) NewClient(seat types.SeatID) (types.ClientID, error) {
	var id types.ClientID
	err := c.shared.Do(func(a *atmosphere.Atmosphere) error {
		var err error
		id, err = a.MintClientID()
		if err != nil {
			return err
		}
		return a.SetSeat(id, seat)
	})
	return id, err
}

// DisconnectClient destroys the client and all its windows.
func (c *Compositor) DisconnectClient(id types.ClientID) error {
	return c.shared.Do(func(a *atmosphere.Atmosphere) error {
		var owned []types.WindowID
		for w := range a.Windows() {
			if owner, err := a.Owner(w); err == nil && owner == id {
				owned = append(owned, w)
			}
		}
		if err := a.FreeClientID(id); err != nil {
			return err
		}
		for _, w := range owned {
			c.tasks.Push(wm.Task{Type: wm.CloseWindow, Window: w})
		}
		return nil
	})
}

// NewToplevel creates the toplevel window on top of the stack and focuses it.
func (c *Compositor) NewToplevel(client types.ClientID, rect types.Rect) (types.WindowID, error) {
	var id types.WindowID
	err := c.shared.Do(func(a *atmosphere.Atmosphere) error {
		var err error
		id, err = c.newWindow(a, client, types.RoleToplevel, rect)
		if err != nil {
			return err
		}
		if err := a.AddToplevel(id); err != nil {
			return err
		}
		return a.FocusOn(id)
	})
	return id, err
}

// NewSubsurface creates the subsurface on top of its siblings.
func (c *Compositor) NewSubsurface(client types.ClientID, parent types.WindowID, rect types.Rect) (types.WindowID, error) {
	var id types.WindowID
	err := c.shared.Do(func(a *atmosphere.Atmosphere) error {
		var err error
		id, err = c.newWindow(a, client, types.RoleSubsurface, rect)
		if err != nil {
			return err
		}
		return a.AddNewTopSubsurf(parent, id)
	})
	return id, err
}

// DestroyWindow destroys the window.
func (c *Compositor) DestroyWindow(id types.WindowID) error {
	return c.shared.Do(func(a *atmosphere.Atmosphere) error {
		if err := a.FreeWindowID(id); err != nil {
			return err
		}
		c.tasks.Push(wm.Task{Type: wm.CloseWindow, Window: id})
		return nil
	})
}

// Run runs the compositor.
func (c *Compositor) Run(ctx context.Context) error {
	log := logger.Get(ctx)

	return parallel.Run(ctx, func(ctx context.Context, spawn parallel.SpawnFn) error {
		spawn("input", parallel.Fail, func(ctx context.Context) error {
			for {
				select {
				case <-ctx.Done():
					return errors.WithStack(ctx.Err())
				case ev := <-c.eventCh:
					if err := c.shared.Do(func(a *atmosphere.Atmosphere) error {
						return c.input.Handle(a, ev)
					}); err != nil {
						log.Error("Handling input event failed", zap.Any("event", ev), zap.Error(err))
					}
				}
			}
		})
		spawn("frames", parallel.Fail, func(ctx context.Context) error {
			ticker := time.NewTicker(c.config.Config.Frames.Interval)
			defer ticker.Stop()

			for {
				select {
				case <-ctx.Done():
					return errors.WithStack(ctx.Err())
				case <-ticker.C:
					if err := c.shared.Do(c.runFrame); err != nil {
						return err
					}
				}
			}
		})
		spawn("render", parallel.Fail, func(ctx context.Context) error {
			for {
				count, err := c.reader.Count(ctx)
				if err != nil {
					return err
				}
				for range count {
					task := c.reader.Read()
					if err := c.config.Renderer.Render(ctx, task); err != nil {
						return errors.Wrapf(err, "rendering task %s", task.Type)
					}
				}
				c.reader.Acknowledge()
				log.Debug("Tasks rendered", zap.Uint64("count", count),
					zap.Uint64("processed", c.reader.Processed()))
			}
		})

		return nil
	})
}

func (c *Compositor) runFrame(a *atmosphere.Atmosphere) error {
	c.frame++
	a.Recycle()

	c.tasks.Push(wm.Task{Type: wm.BeginFrame, Frame: c.frame})

	c.input.FlushResize(a)

	if digest := a.StackDigest(); digest != c.lastDigest {
		c.lastDigest = digest

		order := []types.WindowID{}
		for id := range a.RenderOrder() {
			order = append(order, id)
		}
		c.tasks.Push(wm.Task{Type: wm.Restack, Order: order, Frame: c.frame})
	}

	c.tasks.Push(wm.Task{Type: wm.EndFrame, Frame: c.frame})
	return nil
}

func (c *Compositor) newWindow(
	a *atmosphere.Atmosphere,
	client types.ClientID,
	role types.Role,
	rect types.Rect,
) (types.WindowID, error) {
	id, err := a.MintWindowID()
	if err != nil {
		return types.NoWindow, err
	}
	if err := a.SetOwner(id, client); err != nil {
		if freeErr := a.FreeWindowID(id); freeErr != nil {
			return types.NoWindow, freeErr
		}
		return types.NoWindow, err
	}
	if err := a.SetRole(id, role); err != nil {
		return types.NoWindow, err
	}
	if err := a.SetPosition(id, rect.X, rect.Y); err != nil {
		return types.NoWindow, err
	}
	if err := a.SetSize(id, rect.Width, rect.Height); err != nil {
		return types.NoWindow, err
	}

	c.tasks.Push(wm.Task{Type: wm.CreateWindow, Window: id, Rect: rect})
	return id, nil
}
