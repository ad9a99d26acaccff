package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/outofforest/category5/atmosphere"
	"github.com/outofforest/category5/config"
	"github.com/outofforest/category5/input"
	"github.com/outofforest/category5/types"
	"github.com/outofforest/category5/wm"
)

// Scenario is the sequence of operations replayed against the atmosphere.
type Scenario struct {
	Clients []ClientSpec `yaml:"clients"`
	Steps   []Step       `yaml:"steps"`
}

// ClientSpec declares client.
type ClientSpec struct {
	Name string       `yaml:"name"`
	Seat types.SeatID `yaml:"seat"`
}

// Step is a single operation.
type Step struct {
	Op      string     `yaml:"op"`
	Window  string     `yaml:"window"`
	Target  string     `yaml:"target"`
	Client  string     `yaml:"client"`
	Rect    [4]float64 `yaml:"rect"`
	DX      float64    `yaml:"dx"`
	DY      float64    `yaml:"dy"`
	Button  uint32     `yaml:"button"`
	Code    uint32     `yaml:"code"`
	Pressed bool       `yaml:"pressed"`
}

// LoadScenario reads scenario from the YAML file.
func LoadScenario(path string) (Scenario, error) {
	f, err := os.Open(path)
	if err != nil {
		return Scenario{}, errors.Wrapf(err, "opening scenario %s", path)
	}
	defer f.Close()

	return DecodeScenario(f)
}

// DecodeScenario decodes the YAML scenario.
func DecodeScenario(r io.Reader) (Scenario, error) {
	var s Scenario
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return Scenario{}, errors.Wrap(err, "decoding scenario")
	}
	return s, nil
}

// Replayer applies scenario steps and prints the resulting stacks.
type Replayer struct {
	log     *zap.Logger
	out     io.Writer
	a       *atmosphere.Atmosphere
	handler *input.Handler

	clients map[string]types.ClientID
	windows map[string]types.WindowID
}

// NewReplayer creates replayer.
func NewReplayer(cfg *config.Config, out io.Writer, log *zap.Logger) *Replayer {
	r := &Replayer{
		log:     log,
		out:     out,
		clients: map[string]types.ClientID{},
		windows: map[string]types.WindowID{},
	}
	r.a = atmosphere.New(atmosphere.Config{
		MaxWindows:     cfg.Atmosphere.MaxWindows,
		MaxClients:     cfg.Atmosphere.MaxClients,
		TitlebarHeight: cfg.Atmosphere.TitlebarHeight,
		EdgeWidth:      cfg.Atmosphere.EdgeWidth,
		Notifier:       r,
		Logger:         log,
	})
	r.a.SetResolution(cfg.Display.Width, cfg.Display.Height)
	r.handler = input.New(input.Config{
		Sink:   r,
		Tasks:  r,
		Logger: log,
	})
	return r
}

// Replay runs the scenario.
func (r *Replayer) Replay(s Scenario) error {
	for _, c := range s.Clients {
		id, err := r.a.MintClientID()
		if err != nil {
			return err
		}
		if err := r.a.SetSeat(id, c.Seat); err != nil {
			return err
		}
		r.clients[c.Name] = id
	}

	for i, step := range s.Steps {
		if err := r.apply(step); err != nil {
			return errors.Wrapf(err, "step %d (%s)", i, step.Op)
		}
		r.a.Recycle()
	}
	return nil
}

func (r *Replayer) apply(s Step) error {
	switch s.Op {
	case "toplevel", "subsurface":
		return r.create(s)
	case "focus":
		id, err := r.window(s.Window)
		if err != nil {
			return err
		}
		return r.a.FocusOn(id)
	case "unfocus":
		return r.a.FocusOn(types.NoWindow)
	case "place_above", "place_below":
		id, err := r.window(s.Window)
		if err != nil {
			return err
		}
		target, err := r.window(s.Target)
		if err != nil {
			return err
		}
		if s.Op == "place_above" {
			return r.a.SkiplistPlaceAbove(id, target)
		}
		return r.a.SkiplistPlaceBelow(id, target)
	case "remove":
		id, err := r.window(s.Window)
		if err != nil {
			return err
		}
		return r.a.SkiplistRemoveWindow(id)
	case "destroy":
		id, err := r.window(s.Window)
		if err != nil {
			return err
		}
		delete(r.windows, s.Window)
		return r.a.FreeWindowID(id)
	case "move":
		return r.handler.Handle(r.a, input.MouseMove{DX: s.DX, DY: s.DY})
	case "button":
		return r.handler.Handle(r.a, input.MouseButton{Button: s.Button, Pressed: s.Pressed})
	case "scroll":
		return r.handler.Handle(r.a, input.Scroll{DX: s.DX, DY: s.DY})
	case "key":
		return r.handler.Handle(r.a, input.Key{Code: s.Code, Pressed: s.Pressed})
	case "frame":
		r.handler.FlushResize(r.a)
		return nil
	case "print":
		return r.print()
	default:
		return errors.Errorf("unknown operation %q", s.Op)
	}
}

func (r *Replayer) create(s Step) error {
	if _, exists := r.windows[s.Window]; exists {
		return errors.Errorf("window %q already exists", s.Window)
	}
	client, ok := r.clients[s.Client]
	if !ok {
		return errors.Errorf("unknown client %q", s.Client)
	}

	id, err := r.a.MintWindowID()
	if err != nil {
		return err
	}
	r.windows[s.Window] = id

	if err := r.a.SetOwner(id, client); err != nil {
		return err
	}
	if err := r.a.SetPosition(id, s.Rect[0], s.Rect[1]); err != nil {
		return err
	}
	if err := r.a.SetSize(id, s.Rect[2], s.Rect[3]); err != nil {
		return err
	}

	if s.Op == "subsurface" {
		parent, err := r.window(s.Target)
		if err != nil {
			return err
		}
		if err := r.a.SetRole(id, types.RoleSubsurface); err != nil {
			return err
		}
		return r.a.AddNewTopSubsurf(parent, id)
	}

	if err := r.a.SetRole(id, types.RoleToplevel); err != nil {
		return err
	}
	if err := r.a.AddToplevel(id); err != nil {
		return err
	}
	return r.a.FocusOn(id)
}

func (r *Replayer) window(name string) (types.WindowID, error) {
	id, ok := r.windows[name]
	if !ok {
		return types.NoWindow, errors.Errorf("unknown window %q", name)
	}
	return id, nil
}

func (r *Replayer) print() error {
	names := lo.Invert(r.windows)

	toplevels := []string{}
	for id := range r.a.VisibleWindows().All() {
		toplevels = append(toplevels, names[id])
	}
	if _, err := fmt.Fprintf(r.out, "stack: [%s]\n", strings.Join(toplevels, " ")); err != nil {
		return errors.WithStack(err)
	}

	parents := lo.Keys(r.windows)
	sort.Strings(parents)
	for _, parent := range parents {
		it, err := r.a.VisibleSubsurfaces(r.windows[parent])
		if err != nil {
			return err
		}
		children := []string{}
		for id := range it.All() {
			children = append(children, names[id])
		}
		if len(children) == 0 {
			continue
		}
		if _, err := fmt.Fprintf(r.out, "  %s: [%s]\n", parent, strings.Join(children, " ")); err != nil {
			return errors.WithStack(err)
		}
	}

	if _, err := fmt.Fprintf(r.out, "focus: %s\n", lo.ValueOr(names, r.a.WindowInFocus(), "-")); err != nil {
		return errors.WithStack(err)
	}
	return nil
}

// KeyboardEnter logs the notification.
func (r *Replayer) KeyboardEnter(seat types.SeatID, id types.WindowID) {
	r.log.Info("Keyboard enter", zap.Uint64("seat", uint64(seat)), zap.Stringer("window", id))
}

// KeyboardLeave logs the notification.
func (r *Replayer) KeyboardLeave(seat types.SeatID, id types.WindowID) {
	r.log.Info("Keyboard leave", zap.Uint64("seat", uint64(seat)), zap.Stringer("window", id))
}

// PointerEnter logs the notification.
func (r *Replayer) PointerEnter(seat types.SeatID, id types.WindowID) {
	r.log.Info("Pointer enter", zap.Uint64("seat", uint64(seat)), zap.Stringer("window", id))
}

// PointerLeave logs the notification.
func (r *Replayer) PointerLeave(seat types.SeatID, id types.WindowID) {
	r.log.Info("Pointer leave", zap.Uint64("seat", uint64(seat)), zap.Stringer("window", id))
}

// PointerMotion logs the delivery.
func (r *Replayer) PointerMotion(seat types.SeatID, id types.WindowID, pos types.Point) {
	r.log.Debug("Pointer motion", zap.Uint64("seat", uint64(seat)), zap.Stringer("window", id),
		zap.Float64("x", pos.X), zap.Float64("y", pos.Y))
}

// PointerButton logs the delivery.
func (r *Replayer) PointerButton(seat types.SeatID, id types.WindowID, button uint32, pressed bool) {
	r.log.Info("Pointer button", zap.Uint64("seat", uint64(seat)), zap.Stringer("window", id),
		zap.Uint32("button", button), zap.Bool("pressed", pressed))
}

// PointerAxis logs the delivery.
func (r *Replayer) PointerAxis(seat types.SeatID, id types.WindowID, dx, dy float64) {
	r.log.Info("Pointer axis", zap.Uint64("seat", uint64(seat)), zap.Stringer("window", id),
		zap.Float64("dx", dx), zap.Float64("dy", dy))
}

// Key logs the delivery.
func (r *Replayer) Key(seat types.SeatID, id types.WindowID, code uint32, pressed bool) {
	r.log.Info("Key", zap.Uint64("seat", uint64(seat)), zap.Stringer("window", id),
		zap.Uint32("code", code), zap.Bool("pressed", pressed))
}

// Push logs the task.
func (r *Replayer) Push(task wm.Task) {
	r.log.Info("Task", zap.Stringer("type", task.Type), zap.Stringer("window", task.Window))
}
