package atmosphere

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/outofforest/category5/skiplist"
	"github.com/outofforest/category5/types"
)

type links struct {
	a *Atmosphere
}

func (l links) Next(id types.WindowID) types.WindowID {
	p, _ := getWindow[SkiplistNext](l.a, id, WindowSkiplistNext)
	return p.Window
}

func (l links) Prev(id types.WindowID) types.WindowID {
	p, _ := getWindow[SkiplistPrev](l.a, id, WindowSkiplistPrev)
	return p.Window
}

func (l links) SetNext(id, next types.WindowID) {
	l.a.setWindow(id, SkiplistNext{Window: next})
}

func (l links) SetPrev(id, prev types.WindowID) {
	l.a.setWindow(id, SkiplistPrev{Window: prev})
}

func (a *Atmosphere) links() links {
	return links{a: a}
}

// SkiplistRemoveWindow removes the window from the list it belongs to. Focus is not affected.
func (a *Atmosphere) SkiplistRemoveWindow(id types.WindowID) error {
	if err := a.windowIDs.Check(id); err != nil {
		return err
	}
	a.unlink(id)
	return nil
}

// SkiplistPlaceAbove moves the window directly above its sibling.
func (a *Atmosphere) SkiplistPlaceAbove(id, target types.WindowID) error {
	if err := a.checkSiblings(id, target); err != nil {
		return err
	}
	if id == target {
		return nil
	}

	a.unlink(id)
	skiplist.PlaceAbove(a.links(), id, target)

	switch a.head(id) {
	case target:
		a.setHead(id, id)
	case types.NoWindow:
		a.setHead(id, a.first(id))
	}
	return nil
}

// SkiplistPlaceBelow moves the window directly below its sibling.
func (a *Atmosphere) SkiplistPlaceBelow(id, target types.WindowID) error {
	if err := a.checkSiblings(id, target); err != nil {
		return err
	}
	if id == target {
		return nil
	}

	a.unlink(id)
	skiplist.PlaceBelow(a.links(), id, target)

	if a.head(id) == types.NoWindow {
		a.setHead(id, a.first(id))
	}
	return nil
}

// AddNewTopSubsurf attaches child to the parent as its top-most subsurface.
func (a *Atmosphere) AddNewTopSubsurf(parent, child types.WindowID) error {
	if err := a.windowIDs.Check(parent); err != nil {
		return err
	}
	if err := a.windowIDs.Check(child); err != nil {
		return err
	}
	for w := parent; w != types.NoWindow; w = a.parent(w) {
		if w == child {
			return errors.Wrapf(ErrInvalidParent, "%s is an ancestor of %s", child, parent)
		}
	}

	a.unlink(child)
	a.setWindow(child, Parent{Window: parent})

	if top := a.topChild(parent); top != types.NoWindow {
		skiplist.PlaceAbove(a.links(), child, top)
	}
	a.setWindow(parent, TopChild{Window: child})

	a.log.Debug("Subsurface added", zap.Stringer("parent", parent), zap.Stringer("child", child))
	return nil
}

// AddToplevel places the toplevel on top of the global stack.
func (a *Atmosphere) AddToplevel(id types.WindowID) error {
	if err := a.windowIDs.Check(id); err != nil {
		return err
	}
	if parent := a.parent(id); parent != types.NoWindow {
		return errors.Wrapf(ErrInvalidParent, "%s is a subsurface of %s", id, parent)
	}

	a.raise(id)
	return nil
}

// RootWindow returns the toplevel the window belongs to.
func (a *Atmosphere) RootWindow(id types.WindowID) (types.WindowID, error) {
	if err := a.windowIDs.Check(id); err != nil {
		return types.NoWindow, err
	}
	return a.root(id), nil
}

// VisibleWindows returns iterator over toplevels, starting from the top of the stack.
func (a *Atmosphere) VisibleWindows() *skiplist.Iterator {
	return skiplist.NewIterator(a.links(), a.stackTop())
}

// VisibleSubsurfaces returns iterator over subsurfaces of the window, starting from the top-most one.
func (a *Atmosphere) VisibleSubsurfaces(id types.WindowID) (*skiplist.Iterator, error) {
	if err := a.windowIDs.Check(id); err != nil {
		return nil, err
	}
	return skiplist.NewIterator(a.links(), a.topChild(id)), nil
}

// RenderOrder iterates over all the visible surfaces from front to back. Subsurfaces of a window come
// before the window itself.
func (a *Atmosphere) RenderOrder() func(func(types.WindowID) bool) {
	return func(yield func(types.WindowID) bool) {
		for w := range a.VisibleWindows().All() {
			if !a.walkTree(w, yield) {
				return
			}
		}
	}
}

func (a *Atmosphere) walkTree(id types.WindowID, yield func(types.WindowID) bool) bool {
	for child := range a.subsurfaces(id) {
		if !a.walkTree(child, yield) {
			return false
		}
	}
	return yield(id)
}

func (a *Atmosphere) subsurfaces(id types.WindowID) func(func(types.WindowID) bool) {
	return skiplist.NewIterator(a.links(), a.topChild(id)).All()
}

func (a *Atmosphere) checkSiblings(id, target types.WindowID) error {
	if err := a.windowIDs.Check(id); err != nil {
		return err
	}
	if err := a.windowIDs.Check(target); err != nil {
		return err
	}
	if a.parent(id) != a.parent(target) {
		return errors.Wrapf(ErrNotSibling, "%s and %s", id, target)
	}
	return nil
}

// raise moves the toplevel to the top of the global stack.
func (a *Atmosphere) raise(id types.WindowID) {
	top := a.stackTop()
	if top == id {
		return
	}

	a.unlink(id)
	if top != types.NoWindow {
		skiplist.PlaceAbove(a.links(), id, top)
	}
	a.SetGlobalProperty(StackTop{Window: id})
}

// unlink removes the window from its list promoting its successor if the window was the head.
func (a *Atmosphere) unlink(id types.WindowID) {
	if a.head(id) == id {
		a.setHead(id, a.links().Next(id))
	}
	if skiplist.Linked(a.links(), id) {
		skiplist.Remove(a.links(), id)
	}
}

// first returns the top-most window of the chain the window is linked into.
func (a *Atmosphere) first(id types.WindowID) types.WindowID {
	l := a.links()
	for prev := l.Prev(id); prev != types.NoWindow; prev = l.Prev(id) {
		id = prev
	}
	return id
}

// head returns the head of the list the window belongs to, or would belong to.
func (a *Atmosphere) head(id types.WindowID) types.WindowID {
	if parent := a.parent(id); parent != types.NoWindow {
		return a.topChild(parent)
	}
	return a.stackTop()
}

func (a *Atmosphere) setHead(id, head types.WindowID) {
	if parent := a.parent(id); parent != types.NoWindow {
		a.setWindow(parent, TopChild{Window: head})
		return
	}
	a.SetGlobalProperty(StackTop{Window: head})
}

func (a *Atmosphere) root(id types.WindowID) types.WindowID {
	for {
		parent := a.parent(id)
		if parent == types.NoWindow {
			return id
		}
		id = parent
	}
}
