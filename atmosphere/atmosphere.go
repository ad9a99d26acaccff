package atmosphere

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/outofforest/category5/ids"
	"github.com/outofforest/category5/property"
	"github.com/outofforest/category5/skiplist"
	"github.com/outofforest/category5/types"
)

var (
	// ErrMissingProperty is returned when property guaranteed to exist for live entity is not set.
	ErrMissingProperty = errors.New("structural property is missing")

	// ErrNotSibling is returned when windows belong to different lists.
	ErrNotSibling = errors.New("windows are not siblings")

	// ErrInvalidParent is returned when reparenting would create a loop.
	ErrInvalidParent = errors.New("invalid parent")
)

// Config stores atmosphere configuration.
type Config struct {
	MaxWindows     uint32
	MaxClients     uint32
	TitlebarHeight float64
	EdgeWidth      float64
	Notifier       Notifier
	Logger         *zap.Logger
}

// DefaultConfig is the default configuration of the atmosphere.
var DefaultConfig = Config{
	MaxWindows:     1024,
	MaxClients:     256,
	TitlebarHeight: 24,
	EdgeWidth:      6,
}

// New creates new atmosphere. Zero capacities are taken from DefaultConfig.
func New(config Config) *Atmosphere {
	if config.MaxWindows == 0 {
		config.MaxWindows = DefaultConfig.MaxWindows
	}
	if config.MaxClients == 0 {
		config.MaxClients = DefaultConfig.MaxClients
	}
	notifier := config.Notifier
	if notifier == nil {
		notifier = nopNotifier{}
	}
	log := config.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return &Atmosphere{
		config:    config,
		log:       log,
		notifier:  notifier,
		windowIDs: ids.New[types.WindowID](ids.Config{Capacity: config.MaxWindows}),
		clientIDs: ids.New[types.ClientID](ids.Config{Capacity: config.MaxClients}),
		globals: property.New[GlobalKind, GlobalProperty](property.Config[GlobalKind]{
			NumOfKinds: numOfGlobalKinds,
			Capacity:   1,
		}),
		windows: property.New[WindowKind, WindowProperty](property.Config[WindowKind]{
			NumOfKinds: numOfWindowKinds,
			Capacity:   config.MaxWindows,
		}),
		clients: property.New[ClientKind, ClientProperty](property.Config[ClientKind]{
			NumOfKinds: numOfClientKinds,
			Capacity:   config.MaxClients,
		}),
	}
}

// Atmosphere is the shared scene state of the compositor.
// It is not safe for concurrent use, see Shared.
type Atmosphere struct {
	config   Config
	log      *zap.Logger
	notifier Notifier

	windowIDs *ids.Allocator[types.WindowID]
	clientIDs *ids.Allocator[types.ClientID]

	globals *property.Table[GlobalKind, GlobalProperty]
	windows *property.Table[WindowKind, WindowProperty]
	clients *property.Table[ClientKind, ClientProperty]

	version uint64
}

// Version returns the counter incremented by every mutation.
func (a *Atmosphere) Version() uint64 {
	return a.version
}

// MintWindowID registers new window.
func (a *Atmosphere) MintWindowID() (types.WindowID, error) {
	id, err := a.windowIDs.Mint()
	if err != nil {
		return types.NoWindow, errors.Wrapf(err, "%d windows out of %d", a.windowIDs.Count(),
			a.windowIDs.Capacity())
	}
	a.windows.Reset(id.Index())
	a.version++

	a.log.Debug("Window registered", zap.Stringer("window", id))
	return id, nil
}

// MintClientID registers new client.
func (a *Atmosphere) MintClientID() (types.ClientID, error) {
	id, err := a.clientIDs.Mint()
	if err != nil {
		return types.NoClient, errors.Wrapf(err, "%d clients out of %d", a.clientIDs.Count(),
			a.clientIDs.Capacity())
	}
	a.clients.Reset(id.Index())
	a.version++

	a.log.Debug("Client registered", zap.Stringer("client", id))
	return id, nil
}

// FreeWindowID destroys the window. It is unlinked from its list, its subsurfaces are detached and global slots
// naming it are cleared. If it was focused, focus moves to the top of the remaining stack.
func (a *Atmosphere) FreeWindowID(id types.WindowID) error {
	if err := a.windowIDs.Check(id); err != nil {
		return err
	}

	a.unlink(id)

	// Subsurfaces taken out of the list still name the parent, so all the live windows are checked.
	var children []types.WindowID
	for w := range a.windowIDs.Live() {
		if a.parent(w) == id {
			children = append(children, w)
		}
	}
	for _, child := range children {
		skiplist.Remove(a.links(), child)
		a.windows.Clear(child.Index(), WindowParent)
		a.version++
	}
	for w := range a.windowIDs.Live() {
		if a.topChild(w) == id {
			a.windows.Clear(w.Index(), WindowTopChild)
			a.version++
		}
	}

	wasFocused := a.WindowInFocus() == id
	if wasFocused {
		a.SetGlobalProperty(Focus{})
	}
	if a.PointerFocus() == id {
		a.SetGlobalProperty(PointerFocus{})
	}
	if a.Grabbed() == id {
		a.SetGlobalProperty(Grabbed{})
	}
	if resizing, _ := a.Resizing(); resizing == id {
		a.SetGlobalProperty(Resizing{})
		a.SetGlobalProperty(PendingResize{})
	}

	a.windows.Reset(id.Index())
	if err := a.windowIDs.Free(id); err != nil {
		return err
	}
	a.version++
	a.log.Debug("Window destroyed", zap.Stringer("window", id), zap.Int("detachedSubsurfaces", len(children)))

	if wasFocused {
		if top := a.stackTop(); top != types.NoWindow {
			return a.FocusOn(top)
		}
	}
	return nil
}

// FreeClientID disconnects the client destroying all its windows.
func (a *Atmosphere) FreeClientID(id types.ClientID) error {
	if err := a.clientIDs.Check(id); err != nil {
		return err
	}

	var owned []types.WindowID
	for w := range a.windowIDs.Live() {
		if owner, ok := getWindow[Owner](a, w, WindowOwner); ok && owner.Client == id {
			owned = append(owned, w)
		}
	}
	for _, w := range owned {
		if !a.windowIDs.Alive(w) {
			continue
		}
		if err := a.FreeWindowID(w); err != nil {
			return err
		}
	}

	a.clients.Reset(id.Index())
	if err := a.clientIDs.Free(id); err != nil {
		return err
	}
	a.version++

	a.log.Debug("Client disconnected", zap.Stringer("client", id), zap.Int("windows", len(owned)))
	return nil
}

// Recycle makes IDs freed so far available for minting.
func (a *Atmosphere) Recycle() {
	windows := a.windowIDs.Recycle()
	clients := a.clientIDs.Recycle()
	if windows > 0 || clients > 0 {
		a.log.Debug("IDs recycled", zap.Uint64("windows", windows), zap.Uint64("clients", clients))
	}
}

// WindowAlive checks if window ID is live.
func (a *Atmosphere) WindowAlive(id types.WindowID) bool {
	return a.windowIDs.Alive(id)
}

// ClientAlive checks if client ID is live.
func (a *Atmosphere) ClientAlive(id types.ClientID) bool {
	return a.clientIDs.Alive(id)
}

// Windows iterates over live windows.
func (a *Atmosphere) Windows() func(func(types.WindowID) bool) {
	return a.windowIDs.Live()
}

// SetGlobalProperty stores global property.
func (a *Atmosphere) SetGlobalProperty(p GlobalProperty) {
	a.globals.Set(0, p)
	a.version++
}

// GlobalProperty returns global property of the kind.
func (a *Atmosphere) GlobalProperty(kind GlobalKind) (GlobalProperty, bool) {
	return a.globals.Get(0, kind)
}

// SetWindowProperty stores window property.
func (a *Atmosphere) SetWindowProperty(id types.WindowID, p WindowProperty) error {
	if err := a.windowIDs.Check(id); err != nil {
		return err
	}
	a.setWindow(id, p)
	return nil
}

// WindowProperty returns window property of the kind.
func (a *Atmosphere) WindowProperty(id types.WindowID, kind WindowKind) (WindowProperty, bool, error) {
	if err := a.windowIDs.Check(id); err != nil {
		return nil, false, err
	}
	p, ok := a.windows.Get(id.Index(), kind)
	return p, ok, nil
}

// SetClientProperty stores client property.
func (a *Atmosphere) SetClientProperty(id types.ClientID, p ClientProperty) error {
	if err := a.clientIDs.Check(id); err != nil {
		return err
	}
	a.clients.Set(id.Index(), p)
	a.version++
	return nil
}

// ClientProperty returns client property of the kind.
func (a *Atmosphere) ClientProperty(id types.ClientID, kind ClientKind) (ClientProperty, bool, error) {
	if err := a.clientIDs.Check(id); err != nil {
		return nil, false, err
	}
	p, ok := a.clients.Get(id.Index(), kind)
	return p, ok, nil
}

// Owner returns the client owning the window.
func (a *Atmosphere) Owner(id types.WindowID) (types.ClientID, error) {
	if err := a.windowIDs.Check(id); err != nil {
		return types.NoClient, err
	}
	owner, ok := getWindow[Owner](a, id, WindowOwner)
	if !ok {
		return types.NoClient, errors.Wrapf(ErrMissingProperty, "owner of %s", id)
	}
	return owner.Client, nil
}

// SetOwner assigns window to the client.
func (a *Atmosphere) SetOwner(id types.WindowID, client types.ClientID) error {
	if err := a.clientIDs.Check(client); err != nil {
		return err
	}
	return a.SetWindowProperty(id, Owner{Client: client})
}

// Parent returns the window the subsurface is attached to.
func (a *Atmosphere) Parent(id types.WindowID) (types.WindowID, error) {
	if err := a.windowIDs.Check(id); err != nil {
		return types.NoWindow, err
	}
	return a.parent(id), nil
}

// TopChild returns the top-most subsurface of the window.
func (a *Atmosphere) TopChild(id types.WindowID) (types.WindowID, error) {
	if err := a.windowIDs.Check(id); err != nil {
		return types.NoWindow, err
	}
	return a.topChild(id), nil
}

// SkiplistNext returns the window below.
func (a *Atmosphere) SkiplistNext(id types.WindowID) (types.WindowID, error) {
	if err := a.windowIDs.Check(id); err != nil {
		return types.NoWindow, err
	}
	return a.links().Next(id), nil
}

// SkiplistPrev returns the window above.
func (a *Atmosphere) SkiplistPrev(id types.WindowID) (types.WindowID, error) {
	if err := a.windowIDs.Check(id); err != nil {
		return types.NoWindow, err
	}
	return a.links().Prev(id), nil
}

// Position returns position of the window relative to its parent, or to the desktop for toplevels.
func (a *Atmosphere) Position(id types.WindowID) (types.Point, error) {
	if err := a.windowIDs.Check(id); err != nil {
		return types.Point{}, err
	}
	p, _ := getWindow[Position](a, id, WindowPosition)
	return types.Point{X: p.X, Y: p.Y}, nil
}

// SetPosition moves the window.
func (a *Atmosphere) SetPosition(id types.WindowID, x, y float64) error {
	return a.SetWindowProperty(id, Position{X: x, Y: y})
}

// Size returns size of the window content.
func (a *Atmosphere) Size(id types.WindowID) (float64, float64, error) {
	if err := a.windowIDs.Check(id); err != nil {
		return 0, 0, err
	}
	s, _ := getWindow[Size](a, id, WindowSize)
	return s.Width, s.Height, nil
}

// SetSize sets size of the window content.
func (a *Atmosphere) SetSize(id types.WindowID, width, height float64) error {
	return a.SetWindowProperty(id, Size{Width: width, Height: height})
}

// Role returns the shell role of the window.
func (a *Atmosphere) Role(id types.WindowID) (types.Role, error) {
	if err := a.windowIDs.Check(id); err != nil {
		return types.RoleNone, err
	}
	r, _ := getWindow[Role](a, id, WindowRole)
	return r.Role, nil
}

// SetRole sets the shell role of the window.
func (a *Atmosphere) SetRole(id types.WindowID, role types.Role) error {
	return a.SetWindowProperty(id, Role{Role: role})
}

// Seat returns the seat bound by the client.
func (a *Atmosphere) Seat(id types.ClientID) (types.SeatID, error) {
	if err := a.clientIDs.Check(id); err != nil {
		return types.NoSeat, err
	}
	s, _ := getClient[Seat](a, id, ClientSeat)
	return s.Seat, nil
}

// SetSeat binds the seat to the client.
func (a *Atmosphere) SetSeat(id types.ClientID, seat types.SeatID) error {
	return a.SetClientProperty(id, Seat{Seat: seat})
}

func (a *Atmosphere) setWindow(id types.WindowID, p WindowProperty) {
	a.windows.Set(id.Index(), p)
	a.version++
}

func (a *Atmosphere) parent(id types.WindowID) types.WindowID {
	p, _ := getWindow[Parent](a, id, WindowParent)
	return p.Window
}

func (a *Atmosphere) topChild(id types.WindowID) types.WindowID {
	p, _ := getWindow[TopChild](a, id, WindowTopChild)
	return p.Window
}

func (a *Atmosphere) stackTop() types.WindowID {
	p, _ := getGlobal[StackTop](a, GlobalStackTop)
	return p.Window
}

func getGlobal[P GlobalProperty](a *Atmosphere, kind GlobalKind) (P, bool) {
	p, ok := a.globals.Get(0, kind)
	if !ok {
		var zero P
		return zero, false
	}
	return p.(P), true
}

func getWindow[P WindowProperty](a *Atmosphere, id types.WindowID, kind WindowKind) (P, bool) {
	p, ok := a.windows.Get(id.Index(), kind)
	if !ok {
		var zero P
		return zero, false
	}
	return p.(P), true
}

func getClient[P ClientProperty](a *Atmosphere, id types.ClientID, kind ClientKind) (P, bool) {
	p, ok := a.clients.Get(id.Index(), kind)
	if !ok {
		var zero P
		return zero, false
	}
	return p.(P), true
}
