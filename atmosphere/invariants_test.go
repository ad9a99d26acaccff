package atmosphere_test

import (
	"math/rand"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/outofforest/category5/atmosphere"
	"github.com/outofforest/category5/ids"
	"github.com/outofforest/category5/types"
)

func TestRandomOperationsKeepSceneConsistent(t *testing.T) {
	const (
		numOfSeeds = 50
		numOfOps   = 400
	)

	for seed := range int64(numOfSeeds) {
		runRandomOperations(t, seed, numOfOps)
	}
}

func runRandomOperations(t *testing.T, seed int64, numOfOps int) {
	requireT := require.New(t)
	rnd := rand.New(rand.NewSource(seed))

	a, _ := newAtmosphere()
	clients := []types.ClientID{
		newClient(requireT, a, 1),
		newClient(requireT, a, 2),
	}
	// Dead IDs stay in the pool so stale handles are exercised too.
	windows := []types.WindowID{}

	pick := func() types.WindowID {
		if len(windows) == 0 {
			return types.NoWindow
		}
		return windows[rnd.Intn(len(windows))]
	}

	for step := range numOfOps {
		id, target := pick(), pick()

		var err error
		switch rnd.Intn(10) {
		case 0:
			var w types.WindowID
			w, err = a.MintWindowID()
			if err == nil {
				err = a.SetOwner(w, clients[rnd.Intn(len(clients))])
				windows = append(windows, w)
			}
		case 1:
			err = a.FreeWindowID(id)
		case 2:
			a.Recycle()
		case 3:
			err = a.AddToplevel(id)
		case 4:
			err = a.AddNewTopSubsurf(id, target)
		case 5:
			err = a.SkiplistPlaceAbove(id, target)
		case 6:
			err = a.SkiplistPlaceBelow(id, target)
		case 7:
			err = a.SkiplistRemoveWindow(id)
		case 8:
			if rnd.Intn(4) == 0 {
				id = types.NoWindow
			}
			err = a.FocusOn(id)
		default:
			if rnd.Intn(2) == 0 {
				id = types.NoWindow
			}
			err = a.UpdatePointerFocus(id)
		}

		if err != nil {
			requireT.True(errors.Is(err, ids.ErrNotLive) || errors.Is(err, ids.ErrExhausted) ||
				errors.Is(err, atmosphere.ErrNotSibling) || errors.Is(err, atmosphere.ErrInvalidParent),
				"seed %d step %d: %v", seed, step, err)
		}
		requireSceneConsistent(requireT, a, seed, step)
	}
}

func requireSceneConsistent(requireT *require.Assertions, a *atmosphere.Atmosphere, seed int64, step int) {
	live := map[types.WindowID]bool{}
	for w := range a.Windows() {
		live[w] = true
	}
	requireLive := func(w types.WindowID, what string) {
		if w != types.NoWindow {
			requireT.True(live[w], "seed %d step %d: %s %s is not live", seed, step, what, w)
		}
	}
	requireHead := func(head, parent types.WindowID) {
		if head == types.NoWindow {
			return
		}
		requireLive(head, "head")
		prev, err := a.SkiplistPrev(head)
		requireT.NoError(err)
		requireT.Equal(types.NoWindow, prev, "seed %d step %d: head %s has prev", seed, step, head)
		p, err := a.Parent(head)
		requireT.NoError(err)
		requireT.Equal(parent, p, "seed %d step %d: head %s has wrong parent", seed, step, head)
	}

	var stackTop types.WindowID
	if p, ok := a.GlobalProperty(atmosphere.GlobalStackTop); ok {
		stackTop = p.(atmosphere.StackTop).Window
	}
	requireHead(stackTop, types.NoWindow)
	requireLive(a.WindowInFocus(), "focus")
	requireLive(a.PointerFocus(), "pointer focus")
	requireLive(a.Grabbed(), "grab")

	for w := range live {
		next, err := a.SkiplistNext(w)
		requireT.NoError(err)
		prev, err := a.SkiplistPrev(w)
		requireT.NoError(err)
		parent, err := a.Parent(w)
		requireT.NoError(err)
		top, err := a.TopChild(w)
		requireT.NoError(err)

		requireLive(next, "next")
		requireLive(prev, "prev")
		requireLive(parent, "parent")
		requireHead(top, w)

		if next != types.NoWindow {
			back, err := a.SkiplistPrev(next)
			requireT.NoError(err)
			requireT.Equal(w, back, "seed %d step %d: %s -> %s is not reciprocal", seed, step, w, next)
			nextParent, err := a.Parent(next)
			requireT.NoError(err)
			requireT.Equal(parent, nextParent, "seed %d step %d: %s and %s are not siblings", seed, step,
				w, next)
		}
		if prev != types.NoWindow {
			forward, err := a.SkiplistNext(prev)
			requireT.NoError(err)
			requireT.Equal(w, forward, "seed %d step %d: %s <- %s is not reciprocal", seed, step, prev, w)
		}

		steps := 0
		for n := next; n != types.NoWindow; n, _ = a.SkiplistNext(n) {
			steps++
			requireT.LessOrEqual(steps, len(live), "seed %d step %d: cycle from %s", seed, step, w)
		}
		steps = 0
		for p := parent; p != types.NoWindow; p, _ = a.Parent(p) {
			steps++
			requireT.LessOrEqual(steps, len(live), "seed %d step %d: parent loop from %s", seed, step, w)
		}
	}

	for w := range a.RenderOrder() {
		requireLive(w, "rendered window")
	}
}
