package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadPongCustomPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pong.yaml")
	data := []byte(`
ball:
  speed: 42
  size: 2
rules:
  win_score: 11
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadPong(path)
	if err != nil {
		t.Fatalf("LoadPong: %v", err)
	}
	if cfg.Ball.Speed != 42 {
		t.Errorf("Ball.Speed = %f, want 42", cfg.Ball.Speed)
	}
	if cfg.Rules.WinScore != 11 {
		t.Errorf("Rules.WinScore = %d, want 11", cfg.Rules.WinScore)
	}
}

func TestLoadPongMissingCustomPath(t *testing.T) {
	if _, err := LoadPong(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("missing explicit config path should error")
	}
}

func TestLoadPongMalformedCustomPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("ball: [not: a map"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadPong(path); err == nil {
		t.Error("malformed explicit config should error")
	}
}

func TestLoadBreakoutCustomPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "breakout.yaml")
	data := []byte(`
rules:
  lives: 5
level:
  rows: ["11", "22"]
  top_margin: 3
`)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadBreakout(path)
	if err != nil {
		t.Fatalf("LoadBreakout: %v", err)
	}
	if cfg.Rules.Lives != 5 {
		t.Errorf("Rules.Lives = %d, want 5", cfg.Rules.Lives)
	}
	if len(cfg.Level.Rows) != 2 || cfg.Level.TopMargin != 3 {
		t.Errorf("Level = %+v, want 2 rows with top_margin 3", cfg.Level)
	}
}

func TestLoadBallsCustomPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "balls.yaml")
	if err := os.WriteFile(path, []byte("count: 30\ngravity: 9.8"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadBalls(path)
	if err != nil {
		t.Fatalf("LoadBalls: %v", err)
	}
	if cfg.Count != 30 || cfg.Gravity != 9.8 {
		t.Errorf("cfg = %+v, want count 30 gravity 9.8", cfg)
	}
}

func TestEmbeddedDefaultsParse(t *testing.T) {
	// With no custom path and no user/local overrides present, loading
	// falls through to the embedded YAML, which must mirror the hardcoded
	// defaults on key fields.
	pong, err := LoadPong("")
	if err != nil {
		t.Fatalf("LoadPong: %v", err)
	}
	if pong.Ball.Speed <= 0 || pong.Paddle.Height <= 0 || pong.Rules.WinScore <= 0 {
		t.Errorf("embedded pong defaults incomplete: %+v", pong)
	}

	br, err := LoadBreakout("")
	if err != nil {
		t.Fatalf("LoadBreakout: %v", err)
	}
	if br.Rules.Lives <= 0 || len(br.Level.Rows) == 0 {
		t.Errorf("embedded breakout defaults incomplete: %+v", br)
	}

	balls, err := LoadBalls("")
	if err != nil {
		t.Fatalf("LoadBalls: %v", err)
	}
	if balls.Count <= 0 || balls.MaxRadius < balls.MinRadius {
		t.Errorf("embedded balls defaults incomplete: %+v", balls)
	}
}

func TestApplyPresets(t *testing.T) {
	cfg := DefaultPongConfig()
	ApplyPongPreset(&cfg, DifficultyHard)
	if !cfg.Difficulty.Enabled || cfg.Difficulty.InitialLevel != 0.7 {
		t.Errorf("hard preset = %+v", cfg.Difficulty)
	}

	ApplyPongPreset(&cfg, DifficultyFixed)
	if cfg.Difficulty.Enabled {
		t.Error("fixed preset should disable progression")
	}

	bcfg := DefaultBreakoutConfig()
	ApplyBreakoutPreset(&bcfg, DifficultyEasy)
	if !bcfg.Difficulty.Enabled || bcfg.Difficulty.InitialLevel != 0 {
		t.Errorf("easy preset = %+v", bcfg.Difficulty)
	}
}

func TestInitialLevelForPreset(t *testing.T) {
	cases := []struct {
		preset DifficultyPreset
		want   float64
	}{
		{DifficultyEasy, 0},
		{DifficultyNormal, 0.3},
		{DifficultyHard, 0.7},
		{DifficultyFixed, 0},
		{DifficultyPreset("bogus"), 0},
	}
	for _, tc := range cases {
		if got := InitialLevelForPreset(tc.preset); got != tc.want {
			t.Errorf("InitialLevelForPreset(%q) = %f, want %f", tc.preset, got, tc.want)
		}
	}
	if !IsFixedPreset(DifficultyFixed) || IsFixedPreset(DifficultyHard) {
		t.Error("IsFixedPreset misclassified a preset")
	}
}

func TestDifficultyLevelProgression(t *testing.T) {
	d := NewDifficultyManager(DifficultyConfig{
		Enabled:      true,
		InitialLevel: 0.2,
		Progression:  ProgressionConfig{Type: "time", MaxAt: 100},
	})

	if got := d.Level(0, 0); got != 0.2 {
		t.Errorf("Level at t=0 is %f, want 0.2", got)
	}
	if got := d.Level(0, 50); got < 0.6-1e-9 || got > 0.6+1e-9 {
		t.Errorf("Level at half progress is %f, want 0.6", got)
	}
	if got := d.Level(0, 100); got != 1 {
		t.Errorf("Level at max is %f, want 1", got)
	}
	if got := d.Level(0, 100000); got != 1 {
		t.Errorf("Level past max is %f, want clamped 1", got)
	}
}

func TestDifficultyScoreProgression(t *testing.T) {
	d := NewDifficultyManager(DifficultyConfig{
		Enabled:     true,
		Progression: ProgressionConfig{Type: "score", MaxAt: 400},
		Scaling:     ScalingConfig{SpeedMultiplier: 0.4},
	})

	base := 25.0
	if got := d.Speed(base, 0, 0); got != base {
		t.Errorf("Speed at zero score = %f, want %f", got, base)
	}
	if got := d.Speed(base, 400, 0); got != base*1.4 {
		t.Errorf("Speed at max score = %f, want %f", got, base*1.4)
	}
}

func TestDifficultyDisabled(t *testing.T) {
	d := NewDifficultyManager(DifficultyConfig{
		Enabled:      false,
		InitialLevel: 0.5,
		Progression:  ProgressionConfig{Type: "time", MaxAt: 100},
	})
	if d.IsEnabled() {
		t.Error("disabled manager reports enabled")
	}
	if got := d.Level(1000, 1000); got != 0.5 {
		t.Errorf("disabled Level = %f, want the initial level", got)
	}
}

func TestDifficultyNoneType(t *testing.T) {
	d := NewDifficultyManager(DifficultyConfig{
		Enabled:     true,
		Progression: ProgressionConfig{Type: "none"},
	})
	if d.IsEnabled() {
		t.Error("type none should report disabled")
	}
}

func TestCPUSkillClamped(t *testing.T) {
	d := NewDifficultyManager(DifficultyConfig{
		Enabled:     true,
		Progression: ProgressionConfig{Type: "time", MaxAt: 100},
		Scaling:     ScalingConfig{SkillBoost: 0.5},
	})

	if got := d.CPUSkill(0.6, 0.85, 0, 0); got != 0.6 {
		t.Errorf("skill at start = %f, want base 0.6", got)
	}
	if got := d.CPUSkill(0.6, 0.85, 0, 100); got != 0.85 {
		t.Errorf("skill at max = %f, want ceiling 0.85", got)
	}
}

func TestPaddleWidthFloor(t *testing.T) {
	d := NewDifficultyManager(DifficultyConfig{
		Enabled:     true,
		Progression: ProgressionConfig{Type: "time", MaxAt: 100},
		Scaling:     ScalingConfig{PaddleShrink: 20},
	})

	if got := d.PaddleWidth(9, 0, 0); got != 9 {
		t.Errorf("width at start = %d, want 9", got)
	}
	if got := d.PaddleWidth(9, 0, 100); got != 3 {
		t.Errorf("width at max shrink = %d, want the floor of 3", got)
	}
}

func TestSetInitialLevelClamped(t *testing.T) {
	d := NewDifficultyManager(DifficultyConfig{})
	d.SetInitialLevel(2)
	if got := d.Level(0, 0); got != 1 {
		t.Errorf("Level = %f after over-range SetInitialLevel, want 1", got)
	}
	d.SetInitialLevel(-1)
	if got := d.Level(0, 0); got != 0 {
		t.Errorf("Level = %f after under-range SetInitialLevel, want 0", got)
	}
}
