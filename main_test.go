package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func silenced(t *testing.T, args ...string) error {
	t.Helper()
	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)
	return root.Execute()
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	var names []string
	for _, c := range newRootCmd().Commands() {
		names = append(names, c.Name())
	}
	assert.Subset(t, names, []string{"sync", "import", "validate", "export"})
}

func TestRootCommandRejectsUnknownSubcommand(t *testing.T) {
	err := silenced(t, "bogus")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown command")
}

func TestSubcommandsRequireWorkbookPath(t *testing.T) {
	// Argument validation runs before the config/logger wiring, so a
	// missing path fails fast without touching the environment.
	for _, name := range []string{"sync", "import", "validate", "export"} {
		err := silenced(t, name)
		require.Error(t, err, name)
		assert.Contains(t, err.Error(), "accepts 1 arg", name)
	}
}
