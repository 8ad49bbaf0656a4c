package balls

import "github.com/velmik/ecs-arcade/internal/config"

// configPath is applied by the CLI before game creation via the registry,
// which only offers zero-argument factories.
var configPath string

// SetConfigPath sets a custom config file path for subsequent New calls.
func SetConfigPath(path string) {
	configPath = path
}

func loadConfig() config.BallsConfig {
	cfg, err := config.LoadBalls(configPath)
	if err != nil {
		cfg = config.DefaultBallsConfig()
	}
	return cfg
}
