package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRootCommandRegistersSubcommands(t *testing.T) {
	t.Parallel()

	root := NewRootCommand()
	names := make(map[string]bool)
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"init", "import", "recategorize", "audit", "keywords", "accounts", "categories", "tags"} {
		require.True(t, names[want], "missing subcommand %s", want)
	}
}

func TestInitCreatesAndSeedsDatabase(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "kasa.db")
	t.Setenv("KASA_CONFIG", filepath.Join(dir, "missing.toml"))
	t.Setenv("KASA_DATABASE_PATH", dbPath)

	root := NewRootCommand()
	root.SetArgs([]string{"init"})
	require.NoError(t, root.Execute())

	_, err := os.Stat(dbPath)
	require.NoError(t, err)

	// Running init again must be harmless.
	root = NewRootCommand()
	root.SetArgs([]string{"init"})
	require.NoError(t, root.Execute())
}
