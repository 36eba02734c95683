package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCommand struct {
	name    string
	aliases []string
}

func (c *stubCommand) Name() string                  { return c.name }
func (c *stubCommand) Description() string           { return "stub" }
func (c *stubCommand) Aliases() []string             { return c.aliases }
func (c *stubCommand) Group() string                 { return "test" }
func (c *stubCommand) Run(ctx *MessageContext) error { return nil }

func resetRegistry(t *testing.T) {
	t.Helper()
	prevLookup, prevOrdered := lookup, ordered
	lookup, ordered = map[string]Command{}, nil
	t.Cleanup(func() {
		lookup, ordered = prevLookup, prevOrdered
	})
}

func TestRegistryResolvesNameAndAliases(t *testing.T) {
	resetRegistry(t)

	cmd := &stubCommand{name: "play", aliases: []string{"p"}}
	RegisterCommand(cmd)

	got, ok := GetCommand("play")
	require.True(t, ok)
	assert.Same(t, cmd, got)

	got, ok = GetCommand("p")
	require.True(t, ok)
	assert.Same(t, cmd, got)

	_, ok = GetCommand("nope")
	assert.False(t, ok)
}

func TestAllCommandsListsEachOnceInOrder(t *testing.T) {
	resetRegistry(t)

	RegisterCommand(&stubCommand{name: "play", aliases: []string{"p", "pl"}})
	RegisterCommand(&stubCommand{name: "skip", aliases: []string{"s"}})
	RegisterCommand(&stubCommand{name: "help"})

	all := AllCommands()
	require.Len(t, all, 3)
	assert.Equal(t, "play", all[0].Name())
	assert.Equal(t, "skip", all[1].Name())
	assert.Equal(t, "help", all[2].Name())
}

func TestReregisterReplacesLookupKeepsListing(t *testing.T) {
	resetRegistry(t)

	RegisterCommand(&stubCommand{name: "play"})
	replacement := &stubCommand{name: "play", aliases: []string{"p"}}
	RegisterCommand(replacement)

	got, ok := GetCommand("p")
	require.True(t, ok)
	assert.Same(t, replacement, got)
	assert.Len(t, AllCommands(), 1)
}
