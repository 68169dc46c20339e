package cmd

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes the root command against a private database and config dir.
func run(t *testing.T, db string, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(append([]string{"--db", db}, args...))
	err := rootCmd.ExecuteContext(context.Background())
	return buf.String(), err
}

func setupCLI(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("ADVANCER_CONFIG", "")
	return filepath.Join(dir, "advancer.db")
}

func TestCharacterAndSkillCommands(t *testing.T) {
	db := setupCLI(t)

	out, err := run(t, db, "character", "add", "Astra", "--weakness", "Greed")
	require.NoError(t, err)
	assert.Contains(t, out, "Added Astra")

	_, err = run(t, db, "skill", "add", "Astra", "Swords", "--level", "4")
	require.NoError(t, err)
	_, err = run(t, db, "skill", "add", "Astra", "Lore", "--level", "18")
	require.NoError(t, err)

	_, err = run(t, db, "skill", "mark", "Astra", "swords")
	require.NoError(t, err)
	_, err = run(t, db, "skill", "mark", "Astra", "Lore")
	assert.ErrorContains(t, err, "already at level 18")

	out, err = run(t, db, "skill", "list", "Astra")
	require.NoError(t, err)
	assert.Contains(t, out, "Swords")
	assert.Contains(t, out, "max level")

	out, err = run(t, db, "character", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Astra")
	assert.Contains(t, out, "Greed")
}

func TestSkillAddRejectsLevelAboveCap(t *testing.T) {
	db := setupCLI(t)

	_, err := run(t, db, "character", "add", "Bram")
	require.NoError(t, err)

	_, err = run(t, db, "skill", "add", "Bram", "Bows", "--level", "19")
	assert.ErrorContains(t, err, "level must be between 0 and 18")

	// Reset for later tests sharing the command tree.
	require.NoError(t, skillAddCmd.Flags().Set("level", "0"))
}

func TestHistoryAndJournalEmpty(t *testing.T) {
	db := setupCLI(t)

	_, err := run(t, db, "character", "add", "Cora")
	require.NoError(t, err)

	out, err := run(t, db, "history", "Cora")
	require.NoError(t, err)
	assert.Contains(t, out, "Cora has no recorded sessions.")

	out, err = run(t, db, "journal")
	require.NoError(t, err)
	assert.Contains(t, out, "No documents")

	_, err = run(t, db, "journal", "Cora")
	assert.Error(t, err)

	_, err = run(t, db, "history", "Nobody")
	assert.Error(t, err)
}
