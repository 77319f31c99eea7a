package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timecard/timecard"
)

func TestReportRejectsFormatBeforeWriting(t *testing.T) {
	dir := t.TempDir()
	output := filepath.Join(dir, "report.xml")

	err := run([]string{"timecard", "--dir", dir, "report", "--format", "xml", "--output", output, "2024-01"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown format")
	assert.NoFileExists(t, output)
}

func TestNewNotificator(t *testing.T) {
	tests := []struct {
		name    string
		enabled bool
		goos    string
		want    timecard.Notificator
	}{
		{"macOS", true, "darwin", &timecard.MacNotificator{}},
		{"macOS disabled", false, "darwin", timecard.NopNotificator{}},
		{"linux", true, "linux", timecard.NopNotificator{}},
		{"windows", true, "windows", timecard.NopNotificator{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.IsType(t, tt.want, newNotificator(tt.enabled, tt.goos))
		})
	}
}
