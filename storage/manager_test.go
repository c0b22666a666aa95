package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"saucenao/models"
)

func TestLoadSettingsDefaultsWhenMissing(t *testing.T) {
	m := NewManager(filepath.Join(t.TempDir(), "data"), zap.NewNop())

	settings, err := m.LoadSettings()
	require.NoError(t, err)
	assert.Equal(t, models.DefaultSettings(), settings)
	assert.DirExists(t, m.DataPath())
}

func TestSettingsRoundTripNormalises(t *testing.T) {
	m := NewManager(t.TempDir(), zap.NewNop())

	in := &models.Settings{
		SelectedDatabases: []int{41, 5, 5},
		LastDirectory:     `"/home/user/Pictures/"`,
		ShowHidden:        true,
	}
	require.NoError(t, m.SaveSettings(in))
	assert.NoFileExists(t, filepath.Join(m.DataPath(), "settings.json.tmp"))

	out, err := m.LoadSettings()
	require.NoError(t, err)
	assert.Equal(t, []int{5, 41}, out.SelectedDatabases)
	assert.Equal(t, filepath.Clean("/home/user/Pictures"), out.LastDirectory)
	assert.True(t, out.ShowHidden)
}

func TestLoadSettingsRejectsCorruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "settings.json"), []byte("{not json"), 0644))

	_, err := NewManager(dir, zap.NewNop()).LoadSettings()
	assert.Error(t, err)
}
