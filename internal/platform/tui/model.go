package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/velmik/ecs-arcade/internal/core"
	"github.com/velmik/ecs-arcade/internal/engine"
	"github.com/velmik/ecs-arcade/internal/registry"
	"github.com/velmik/ecs-arcade/internal/storage"
)

// gameSim adapts a registered game to the fixed-step loop. Input is
// shared with the model through the pointer; the loop may run several
// fixed steps for one terminal frame, all seeing the same snapshot.
type gameSim struct {
	game  registry.Game
	input *core.InputSnapshot
	state core.GameState
}

func (s *gameSim) Tick() {
	s.state = s.game.Step(*s.input).State
	s.input.NextTick()
}

// Model is the Bubble Tea model for running arcade games.
type Model struct {
	sim        *gameSim
	loop       *engine.Loop
	keys       *KeyMapper
	screen     *core.Screen
	store      *storage.Store
	config     core.RuntimeConfig
	quitting   bool
	scoreSaved bool // Whether score has been saved for current game over
}

// NewModel creates a new Bubble Tea model for the given game.
func NewModel(game registry.Game, store *storage.Store, cfg core.RuntimeConfig) Model {
	// Use time-based seed if not specified
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	in := core.NewInputSnapshot()
	sim := &gameSim{game: game, input: &in}
	loop := engine.NewLoop(sim, engine.Config{TickRate: cfg.TickRate}, nil)

	return Model{
		sim:    sim,
		loop:   loop,
		keys:   NewKeyMapper(),
		screen: core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		store:  store,
		config: cfg,
	}
}

// Init initializes the model and starts the game.
func (m Model) Init() tea.Cmd {
	m.sim.game.Reset(m.config)
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input. Terminals deliver presses, not
// releases, so a held action survives until the next fixed step consumes
// it; key auto-repeat sustains continuous movement.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}

	if quit := m.keys.MapKeyToSnapshot(msg, m.sim.input); quit {
		m.quitting = true
		return m, tea.Quit
	}

	return m, nil
}

// handleResize processes window resize events.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.screen.Resize(msg.Width, msg.Height)

	// Field geometry depends on screen size, so the game restarts unless
	// a finished match is on display.
	if !m.sim.state.GameOver {
		m.sim.game.Reset(m.config)
		m.loop.Reset()
	}

	return m, nil
}

// handleTick advances the fixed-step loop by the elapsed wall time. The
// loop decides how many simulation steps that is; a slow terminal frame
// runs several, a fast one may run none.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if m.sim.state.GameOver && m.sim.input.JustPressed(core.ActionRestart) {
		m.config.Seed = time.Now().UnixNano()
		m.sim.game.Reset(m.config)
		m.sim.state = m.sim.game.State()
		m.sim.input.Clear()
		m.scoreSaved = false
		m.loop.Reset()
		return m, tickCmd(m.config.TickRate)
	}

	m.loop.Advance(time.Now())

	// Save score on game over (once)
	if m.sim.state.GameOver && !m.scoreSaved && m.sim.state.Score > 0 {
		if m.store != nil {
			//nolint:errcheck // Best-effort save, game continues regardless
			m.store.SaveScore(m.sim.game.ID(), m.sim.state.Score)
		}
		m.scoreSaved = true
	}

	// Held actions drain once the frame's steps have consumed them.
	m.sim.input.Clear()

	return m, tickCmd(m.config.TickRate)
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	m.sim.game.Render(m.screen)

	dir := filepath.Join(os.Getenv("HOME"), ".arcade", "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("%s_%s.txt", m.sim.game.ID(), timestamp)
	path := filepath.Join(dir, filename)

	//nolint:errcheck // Best-effort save, game continues regardless
	os.WriteFile(path, []byte(m.screen.String()), 0o600)
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.sim.game.Render(m.screen)
	return RenderScreen(m.screen)
}

// Run starts the Bubble Tea program with the given model.
func Run(game registry.Game, store *storage.Store, cfg core.RuntimeConfig) error {
	model := NewModel(game, store, cfg)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
