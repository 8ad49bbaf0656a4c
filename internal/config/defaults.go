package config

import (
	_ "embed"
)

//go:embed defaults/pong.yaml
var defaultPongYAML []byte

//go:embed defaults/breakout.yaml
var defaultBreakoutYAML []byte

//go:embed defaults/balls.yaml
var defaultBallsYAML []byte

// DefaultPongConfig returns the default Pong configuration.
func DefaultPongConfig() PongConfig {
	return PongConfig{
		Ball: PongBall{
			Speed: 30.0,
			Size:  1.0,
		},
		Paddle: PongPaddle{
			Height:     5,
			Width:      1,
			Offset:     2,
			Speed:      60.0,
			SpinFactor: 18.0,
		},
		Rules: PongRules{
			WinScore:        5,
			ServeDelayTicks: 60,
			CPUSkillMin:     0.6,
			CPUSkillMax:     0.85,
		},
		Difficulty: DifficultyConfig{
			Enabled:      true,
			InitialLevel: 0.0,
			Progression: ProgressionConfig{
				Type:  "time",
				MaxAt: 3600, // One minute at 60 ticks/s
			},
			Scaling: ScalingConfig{
				SpeedMultiplier: 0.3,
				SkillBoost:      0.25,
			},
		},
	}
}

// DefaultBreakoutConfig returns the default Breakout configuration.
func DefaultBreakoutConfig() BreakoutConfig {
	return BreakoutConfig{
		Ball: BreakoutBall{
			Speed: 25.0,
			Size:  1.0,
		},
		Paddle: BreakoutPaddle{
			Width:      9,
			Speed:      50.0,
			SpinFactor: 14.0,
		},
		Rules: BreakoutRules{
			Lives:           3,
			PointsPerHit:    10,
			ServeDelayTicks: 45,
		},
		Level: LevelConfig{
			Rows: []string{
				"333333333333",
				"222222222222",
				"222222222222",
				"111111111111",
				"111111111111",
			},
			TopMargin: 2,
		},
		Difficulty: DifficultyConfig{
			Enabled:      true,
			InitialLevel: 0.0,
			Progression: ProgressionConfig{
				Type:  "score",
				MaxAt: 400,
			},
			Scaling: ScalingConfig{
				SpeedMultiplier: 0.4,
				PaddleShrink:    3,
			},
		},
	}
}

// DefaultBallsConfig returns the default bouncing-balls configuration.
func DefaultBallsConfig() BallsConfig {
	return BallsConfig{
		Count:     12,
		Gravity:   40.0,
		MinRadius: 0.5,
		MaxRadius: 1.5,
		Speed:     20.0,
	}
}
