package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/velmik/ecs-arcade/internal/core"
	"github.com/velmik/ecs-arcade/internal/games/balls"
	"github.com/velmik/ecs-arcade/internal/games/breakout"
	"github.com/velmik/ecs-arcade/internal/games/pong"
	"github.com/velmik/ecs-arcade/internal/registry"
	"github.com/velmik/ecs-arcade/internal/storage"
)

var (
	flagSimTicks  int
	flagSimWidth  int
	flagSimHeight int
	flagSimConfig string
	flagSimSave   bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate <game>",
	Short: "Run a game headless for a fixed number of ticks",
	Long: `Run a game without a terminal UI for a fixed number of simulation
ticks and print the final state. With the same --seed and --ticks the
outcome is identical on every run, which makes this useful for physics
tuning and regression checks.

Examples:
  arcade simulate pong --ticks 3600 --seed 42
  arcade simulate breakout --ticks 7200 --seed 7 --save
  arcade simulate balls --ticks 600`,
	Args: cobra.ExactArgs(1),
	Run:  runSimulate,
}

func init() {
	simulateCmd.Flags().IntVar(&flagSimTicks, "ticks", 3600, "Number of fixed simulation ticks to run")
	simulateCmd.Flags().IntVar(&flagSimWidth, "width", 80, "Virtual screen width")
	simulateCmd.Flags().IntVar(&flagSimHeight, "height", 24, "Virtual screen height")
	simulateCmd.Flags().StringVar(&flagSimConfig, "config", "", "Path to custom game config YAML")
	simulateCmd.Flags().BoolVar(&flagSimSave, "save", false, "Record the run in the database")
}

func runSimulate(_ *cobra.Command, args []string) {
	gameID := args[0]

	if !registry.Exists(gameID) {
		fmt.Fprintf(os.Stderr, "Error: unknown game %q\n", gameID)
		fmt.Fprintln(os.Stderr, "Run 'arcade list' to see available games.")
		os.Exit(1)
	}

	switch gameID {
	case "pong":
		pong.SetConfigPath(flagSimConfig)
	case "breakout":
		breakout.SetConfigPath(flagSimConfig)
	case "balls":
		balls.SetConfigPath(flagSimConfig)
	}

	game, err := registry.Create(gameID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
		os.Exit(1)
	}

	seed := flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	cfg := core.RuntimeConfig{
		ScreenW:  flagSimWidth,
		ScreenH:  flagSimHeight,
		TickRate: flagFPS,
		Seed:     seed,
	}
	game.Reset(cfg)

	// No input: the game plays itself (CPU opponent, idle paddle).
	idle := core.NewInputSnapshot()
	start := time.Now()
	ran := 0
	var state core.GameState
	for i := 0; i < flagSimTicks; i++ {
		state = game.Step(idle).State
		ran++
		if state.GameOver {
			break
		}
	}
	elapsed := time.Since(start)

	fmt.Printf("Simulated %s: %d ticks in %s (seed %d)\n", gameID, ran, elapsed.Round(time.Millisecond), seed)
	fmt.Printf("  Score:     %d\n", state.Score)
	fmt.Printf("  Game over: %v\n", state.GameOver)

	if flagSimSave {
		store, err := storage.Open(flagDBPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
			os.Exit(1)
		}
		defer store.Close()

		if _, err := store.SaveSimRun(storage.SimRun{
			GameID:   gameID,
			Seed:     seed,
			Ticks:    ran,
			Score:    state.Score,
			GameOver: state.GameOver,
		}); err != nil {
			fmt.Fprintf(os.Stderr, "Error saving run: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Run recorded.")
	}
}
