package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeTempConfig(t *testing.T, cfg map[string]interface{}) string {
	t.Helper()
	data, err := json.Marshal(cfg)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestLoadDefaultsLogLevel(t *testing.T) {
	path := writeTempConfig(t, map[string]interface{}{
		"input_path":  "in.rtcm3",
		"year":        2024,
		"day_of_year": 1,
		"output_dir":  "out",
	})

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "info", cfg.LogLevel)
}

func TestLoadRejectsOutOfRangeLatitude(t *testing.T) {
	path := writeTempConfig(t, map[string]interface{}{
		"input_path":       "in.rtcm3",
		"receiver_lat_deg": 120.0,
		"year":             2024,
		"day_of_year":      1,
		"output_dir":       "out",
	})

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadRejectsMissingRequiredFields(t *testing.T) {
	path := writeTempConfig(t, map[string]interface{}{})

	_, err := Load(path)
	require.Error(t, err)
}
