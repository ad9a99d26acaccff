package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/outofforest/category5/config"
)

const scenarioYAML = `
clients:
  - name: term
    seat: 1
  - name: editor
    seat: 2
steps:
  - op: toplevel
    window: a
    client: term
    rect: [0, 100, 200, 200]
  - op: subsurface
    window: s1
    target: a
    client: term
    rect: [10, 10, 20, 20]
  - op: subsurface
    window: s2
    target: a
    client: term
    rect: [40, 10, 20, 20]
  - op: place_above
    window: s1
    target: s2
  - op: toplevel
    window: b
    client: editor
    rect: [400, 100, 200, 200]
  - op: print
  - op: move
    dx: 50
    dy: 250
  - op: button
    button: 272
    pressed: true
  - op: print
  - op: destroy
    window: a
  - op: print
`

func TestReplay(t *testing.T) {
	requireT := require.New(t)

	scenario, err := DecodeScenario(strings.NewReader(scenarioYAML))
	requireT.NoError(err)
	requireT.Len(scenario.Clients, 2)
	requireT.Len(scenario.Steps, 11)

	out := &bytes.Buffer{}
	requireT.NoError(NewReplayer(config.Default(), out, zap.NewNop()).Replay(scenario))
	requireT.Equal(`stack: [b a]
  a: [s1 s2]
focus: b
stack: [a b]
  a: [s1 s2]
focus: a
stack: [b]
focus: b
`, out.String())
}

func TestUnknownOperationFails(t *testing.T) {
	requireT := require.New(t)

	scenario, err := DecodeScenario(strings.NewReader("steps:\n  - op: explode\n"))
	requireT.NoError(err)
	requireT.ErrorContains(NewReplayer(config.Default(), &bytes.Buffer{}, zap.NewNop()).Replay(scenario),
		`unknown operation "explode"`)
}

func TestUnknownFieldIsRejected(t *testing.T) {
	requireT := require.New(t)

	_, err := DecodeScenario(strings.NewReader("steps:\n  - op: print\n    colour: red\n"))
	requireT.Error(err)
}
