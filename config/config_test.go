package config_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timecard/config"
	"timecard/timecard"
)

func TestLoadFirstRunWritesDefaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := config.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultDatabase, cfg.Database)
	assert.Equal(t, config.DefaultLogLevel, cfg.LogLevel)
	assert.Equal(t, config.DefaultRestOverlap, cfg.RestOverlap)
	assert.True(t, cfg.NotifyEnabled())
	assert.Equal(t, []timecard.RestPeriod{{Start: "12:00", End: "13:00"}}, cfg.RestPeriods)
	require.FileExists(t, filepath.Join(dir, config.FileName))

	// The written template must parse to the same values.
	again, err := config.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, cfg.Database, again.Database)
	assert.Len(t, again.RestPeriods, 1)
	assert.True(t, again.NotifyEnabled())
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	notify := false
	cfg := config.Config{
		Database:    "other.db",
		LogLevel:    "debug",
		Notify:      &notify,
		RestOverlap: "merge",
		RestPeriods: []timecard.RestPeriod{{Start: "23:00", End: "00:30"}, {Start: "bad", End: "13:00"}},
	}
	require.NoError(t, cfg.Save(dir))

	loaded, err := config.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "other.db", loaded.Database)
	assert.False(t, loaded.NotifyEnabled())

	l, err := loaded.Level()
	assert.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, l)

	p, err := loaded.OverlapPolicy()
	assert.NoError(t, err)
	assert.Equal(t, timecard.OverlapMerge, p)

	require.Len(t, loaded.RestPeriods, 2, "both entries are kept on disk")
	set, invalid := loaded.RestSet()
	assert.Equal(t, 1, set.Len())
	require.Len(t, invalid, 1)
	assert.Equal(t, "bad", invalid[0].Start)

	assert.NoFileExists(t, filepath.Join(dir, config.FileName+".tmp"))
}

func TestLoadFillsMissingFields(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.FileName), []byte("rest_periods: []\n"), 0o600))

	cfg, err := config.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultDatabase, cfg.Database)
	assert.Equal(t, config.DefaultLogLevel, cfg.LogLevel)
	assert.Equal(t, config.DefaultRestOverlap, cfg.RestOverlap)
	assert.Empty(t, cfg.RestPeriods)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name, content string
	}{
		{"log level", "log_level: loud\n"},
		{"overlap", "rest_overlap: twice\n"},
		{"yaml", "rest_periods: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			require.NoError(t, os.WriteFile(filepath.Join(dir, config.FileName), []byte(tt.content), 0o600))
			_, err := config.Load(dir)
			assert.Error(t, err)
		})
	}
}

func TestDirCreatesDirectory(t *testing.T) {
	want := filepath.Join(t.TempDir(), "nested", "timecard")
	got, err := config.Dir(want)
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.DirExists(t, want)
}

func TestDatabasePath(t *testing.T) {
	cfg := config.Config{Database: "timecard.db"}
	assert.Equal(t, filepath.Join("/data", "timecard.db"), cfg.DatabasePath("/data"))

	cfg.Database = "/var/lib/timecard.db"
	assert.Equal(t, "/var/lib/timecard.db", cfg.DatabasePath("/data"))
}
