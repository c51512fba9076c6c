// Package config loads and validates the SSR→OSR decoding session's
// configuration: the input stream path, receiver position, and the
// date used for leap-second and GLONASS four-year-interval resolution.
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
)

// Config is the external configuration to an SSR→OSR decoding session.
type Config struct {
	InputPath       string  `json:"input_path" validate:"required"`
	ReceiverLatDeg  float64 `json:"receiver_lat_deg" validate:"gte=-90,lte=90"`
	ReceiverLonDeg  float64 `json:"receiver_lon_deg" validate:"gte=-180,lte=180"`
	ReceiverHeightM float64 `json:"receiver_height_m"`
	Year            int     `json:"year" validate:"required,gte=1980"`
	DayOfYear       int     `json:"day_of_year" validate:"required,gte=1,lte=366"`
	DecodeOnly      bool    `json:"decode_only"`
	OutputDir       string  `json:"output_dir" validate:"required"`
	LogLevel        string  `json:"log_level" validate:"omitempty,oneof=trace debug info warn error"`
}

var validate = validator.New()

// Load reads and validates a JSON configuration file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}
