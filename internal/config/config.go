// Package config provides YAML-based game configuration loading and
// difficulty management for the arcade platform.
package config

// PongConfig contains all configuration for the Pong demo.
type PongConfig struct {
	Ball       PongBall         `yaml:"ball"`
	Paddle     PongPaddle       `yaml:"paddle"`
	Rules      PongRules        `yaml:"rules"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
}

// PongBall defines ball parameters for Pong.
type PongBall struct {
	Speed float64 `yaml:"speed"` // Nominal speed in cells per second
	Size  float64 `yaml:"size"`  // Bounding box edge in cells
}

// PongPaddle defines paddle parameters for Pong.
type PongPaddle struct {
	Height     int     `yaml:"height"`      // Cells; clamped to screen height / 5
	Width      int     `yaml:"width"`       // Cells
	Offset     int     `yaml:"offset"`      // Distance from field edge in cells
	Speed      float64 `yaml:"speed"`       // Cells per second
	SpinFactor float64 `yaml:"spin_factor"` // Tangential perturbation per unit hit offset
}

// PongRules defines match parameters for Pong.
type PongRules struct {
	WinScore        int     `yaml:"win_score"`
	ServeDelayTicks int     `yaml:"serve_delay_ticks"`
	CPUSkillMin     float64 `yaml:"cpu_skill_min"` // CPU tracking skill 0-1 at start
	CPUSkillMax     float64 `yaml:"cpu_skill_max"`
}

// BreakoutConfig contains all configuration for the Breakout demo.
type BreakoutConfig struct {
	Ball       BreakoutBall     `yaml:"ball"`
	Paddle     BreakoutPaddle   `yaml:"paddle"`
	Rules      BreakoutRules    `yaml:"rules"`
	Level      LevelConfig      `yaml:"level"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
}

// BreakoutBall defines ball parameters for Breakout.
type BreakoutBall struct {
	Speed float64 `yaml:"speed"`
	Size  float64 `yaml:"size"`
}

// BreakoutPaddle defines paddle parameters for Breakout.
type BreakoutPaddle struct {
	Width      int     `yaml:"width"`
	Speed      float64 `yaml:"speed"`
	SpinFactor float64 `yaml:"spin_factor"`
}

// BreakoutRules defines match parameters for Breakout.
type BreakoutRules struct {
	Lives           int `yaml:"lives"`
	PointsPerHit    int `yaml:"points_per_hit"` // Fallback when a level row gives no points
	ServeDelayTicks int `yaml:"serve_delay_ticks"`
}

// LevelConfig describes a brick layout. Each row is a string of digits:
// '0' or space leaves a gap, '1'-'9' places a brick needing that many hits.
// Rows are stretched horizontally to the field width.
type LevelConfig struct {
	Rows      []string `yaml:"rows"`
	TopMargin int      `yaml:"top_margin"` // Rows between HUD and first brick row
}

// BallsConfig contains all configuration for the bouncing-balls demo.
type BallsConfig struct {
	Count     int     `yaml:"count"`
	Gravity   float64 `yaml:"gravity"`    // Cells per second squared, downward
	MinRadius float64 `yaml:"min_radius"`
	MaxRadius float64 `yaml:"max_radius"`
	Speed     float64 `yaml:"speed"` // Initial speed magnitude
}

// DifficultyConfig defines the difficulty progression system.
type DifficultyConfig struct {
	Enabled      bool              `yaml:"enabled"`
	InitialLevel float64           `yaml:"initial_level"` // 0.0 = easy, 1.0 = hard
	Progression  ProgressionConfig `yaml:"progression"`
	Scaling      ScalingConfig     `yaml:"scaling"`
}

// ProgressionConfig defines how difficulty increases over time.
type ProgressionConfig struct {
	Type  string `yaml:"type"`   // "score", "time", or "none"
	MaxAt int    `yaml:"max_at"` // Score/ticks at which max difficulty is reached
}

// ScalingConfig defines the magnitude of difficulty changes.
type ScalingConfig struct {
	SpeedMultiplier float64 `yaml:"speed_multiplier"` // Multiplier added to ball speed at max difficulty
	SkillBoost      float64 `yaml:"skill_boost"`      // CPU skill added at max difficulty
	PaddleShrink    int     `yaml:"paddle_shrink"`    // Paddle cells removed at max difficulty
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// InitialLevelForPreset returns the initial_level for a difficulty preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyEasy:
		return 0.0
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}

// IsFixedPreset returns true if the preset disables progression.
func IsFixedPreset(preset DifficultyPreset) bool {
	return preset == DifficultyFixed
}
