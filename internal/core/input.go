package core

// Action represents a semantic game action, abstracted from physical key presses.
// This allows games to work with high-level intents rather than raw input.
type Action int

const (
	ActionNone    Action = iota
	ActionUp             // W, Up arrow - move up (Pong paddle)
	ActionDown           // S, Down arrow - move down (Pong paddle)
	ActionLeft           // A, Left arrow - move left (Breakout paddle)
	ActionRight          // D, Right arrow - move right (Breakout paddle)
	ActionServe          // Space - launch/serve the ball
	ActionConfirm        // Enter - confirm selection in menu
	ActionBack           // B, Escape - go back to menu
	ActionRestart        // R key - restart game after game over
	ActionQuit           // Q, Ctrl+C - exit game/session
	ActionPause          // P, Escape - pause/unpause game
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionUp:
		return "Up"
	case ActionDown:
		return "Down"
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	case ActionServe:
		return "Serve"
	case ActionConfirm:
		return "Confirm"
	case ActionBack:
		return "Back"
	case ActionRestart:
		return "Restart"
	case ActionQuit:
		return "Quit"
	case ActionPause:
		return "Pause"
	default:
		return "Unknown"
	}
}

// InputSnapshot is the immutable per-tick view of player input handed to the
// simulation. The platform layer builds one snapshot per tick from terminal
// events; the simulation never queries the OS directly.
type InputSnapshot struct {
	// Held contains actions whose keys are currently held down.
	Held map[Action]bool

	// Pressed contains actions whose keys went down during this tick.
	// An action can be in both Held and Pressed on the tick it starts.
	Pressed map[Action]bool

	// PointerX and PointerY hold the last known pointer cell, or -1 if
	// the terminal reported no pointer events.
	PointerX int
	PointerY int
}

// NewInputSnapshot creates an empty snapshot with no pointer position.
func NewInputSnapshot() InputSnapshot {
	return InputSnapshot{
		Held:     make(map[Action]bool),
		Pressed:  make(map[Action]bool),
		PointerX: -1,
		PointerY: -1,
	}
}

// Hold marks an action as currently held. A newly held action is also
// recorded as pressed for this tick.
func (s *InputSnapshot) Hold(a Action) {
	if s.Held == nil {
		s.Held = make(map[Action]bool)
	}
	if s.Pressed == nil {
		s.Pressed = make(map[Action]bool)
	}
	if !s.Held[a] {
		s.Pressed[a] = true
	}
	s.Held[a] = true
}

// Release clears the held state of an action.
func (s *InputSnapshot) Release(a Action) {
	delete(s.Held, a)
}

// IsHeld returns true if the action's key is currently down.
func (s InputSnapshot) IsHeld(a Action) bool {
	if s.Held == nil {
		return false
	}
	return s.Held[a]
}

// JustPressed returns true if the action's key went down this tick.
func (s InputSnapshot) JustPressed(a Action) bool {
	if s.Pressed == nil {
		return false
	}
	return s.Pressed[a]
}

// NextTick clears the pressed-this-tick set while keeping held state,
// preparing the snapshot for the next simulation tick.
func (s *InputSnapshot) NextTick() {
	for k := range s.Pressed {
		delete(s.Pressed, k)
	}
}

// Clear resets all input state.
func (s *InputSnapshot) Clear() {
	for k := range s.Held {
		delete(s.Held, k)
	}
	for k := range s.Pressed {
		delete(s.Pressed, k)
	}
	s.PointerX = -1
	s.PointerY = -1
}

// Clone creates a deep copy of this snapshot.
func (s InputSnapshot) Clone() InputSnapshot {
	clone := NewInputSnapshot()
	for k, v := range s.Held {
		clone.Held[k] = v
	}
	for k, v := range s.Pressed {
		clone.Pressed[k] = v
	}
	clone.PointerX = s.PointerX
	clone.PointerY = s.PointerY
	return clone
}
