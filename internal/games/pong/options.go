package pong

import "github.com/velmik/ecs-arcade/internal/config"

// Package-level options applied by the CLI before game creation via the
// registry, which only offers zero-argument factories.
var (
	configPath       string
	difficultyPreset string
)

// SetConfigPath sets a custom config file path for subsequent New calls.
func SetConfigPath(path string) {
	configPath = path
}

// SetDifficultyPreset sets the difficulty preset for subsequent New calls.
func SetDifficultyPreset(preset string) {
	difficultyPreset = preset
}

func loadConfig() config.PongConfig {
	cfg, err := config.LoadPong(configPath)
	if err != nil {
		cfg = config.DefaultPongConfig()
	}
	if difficultyPreset != "" {
		config.ApplyPongPreset(&cfg, config.DifficultyPreset(difficultyPreset))
	}
	return cfg
}
