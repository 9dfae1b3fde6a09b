package insight

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// DefaultModel is used when INSIGHT_MODEL is unset.
const DefaultModel = "gemini-3-flash-preview"

// Config is read from the environment (a .env file is loaded first by the CLI).
type Config struct {
	APIKey      string  `envconfig:"GEMINI_API_KEY"`
	BaseURL     string  `envconfig:"GEMINI_BASE_URL"`
	Model       string  `envconfig:"INSIGHT_MODEL" default:"gemini-3-flash-preview"`
	Temperature float32 `envconfig:"INSIGHT_TEMPERATURE" default:"0.7"`
}

// LoadConfig processes the environment into a Config.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("insight config: %w", err)
	}
	return cfg, nil
}
