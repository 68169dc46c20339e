package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/advancer/internal/marks"
)

func TestDefault(t *testing.T) {
	s := Default()
	assert.True(t, s.Enabled)
	assert.True(t, s.TrackHistory)
	assert.Equal(t, RollBatch, s.RollMode)
	assert.Equal(t, DefaultJournalFolder, s.JournalFolder)
	require.NoError(t, s.Validate())
}

func TestLoadFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yml := "weakness_rule: true\nroll_mode: bulk\ncustom_questions: \"Sang?; Prayed?\"\nhide_explored: true\n"
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o644))

	t.Setenv("ADVANCER_ROLL_MODE", "individual")
	t.Setenv("ADVANCER_TRACK_HISTORY", "false")

	s, err := Load(path, true)
	require.NoError(t, err)

	assert.True(t, s.WeaknessRule, "file value kept")
	assert.Equal(t, RollIndividual, s.RollMode, "env wins over file")
	assert.False(t, s.TrackHistory)
	assert.Equal(t, []string{"Sang?", "Prayed?"}, s.CustomQuestionList())

	mc := s.Marks()
	assert.True(t, mc.Hidden[marks.Explored])
	assert.False(t, mc.Hidden[marks.Participated])
	assert.True(t, mc.WeaknessRule)
}

func TestLoadMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope.yaml")

	s, err := Load(path, false)
	require.NoError(t, err)
	assert.Equal(t, Default().RollMode, s.RollMode)

	_, err = Load(path, true)
	assert.Error(t, err)
}

func TestLoadRejectsBadRollMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("roll_mode: sometimes\n"), 0o644))

	_, err := Load(path, true)
	assert.Error(t, err)
}

func TestParseRollMode(t *testing.T) {
	tests := []struct {
		in   string
		want RollMode
		err  bool
	}{
		{"batch", RollBatch, false},
		{"BULK", RollBatch, false},
		{"individual", RollIndividual, false},
		{"", RollBatch, false},
		{"each", "", true},
	}
	for _, tt := range tests {
		got, err := ParseRollMode(tt.in)
		if tt.err {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}
