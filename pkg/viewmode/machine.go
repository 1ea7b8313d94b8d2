// Package viewmode is the state machine over view mode and fullscreen.
//
// A viewer is always in one of six states: one of the three layout modes,
// each either normal or fullscreen. [State] makes that product explicit.
// [Machine] performs the transitions and tells an [Observer] about them;
// the observer recomputes geometry and scroll position and hides or restores
// any outer scrollbar. Zoom level, current page and grid columns are not part
// of the state and are never touched by a transition.
package viewmode

import (
	"fmt"

	"github.com/matzehuels/folioview/pkg/settings"
)

// State is a (mode, fullscreen) pair.
type State struct {
	Mode       settings.ViewMode
	Fullscreen bool
}

// String returns e.g. "grid" or "grid+fullscreen".
func (s State) String() string {
	if s.Fullscreen {
		return s.Mode.String() + "+fullscreen"
	}
	return s.Mode.String()
}

// FromSettings returns the state encoded in s.
func FromSettings(s settings.Settings) State {
	return State{Mode: s.ViewMode, Fullscreen: s.InFullscreen}
}

// Apply writes the state into s.
func (st State) Apply(s *settings.Settings) {
	s.ViewMode = st.Mode
	s.InFullscreen = st.Fullscreen
}

// States lists all six states, normal before fullscreen.
func States() []State {
	out := make([]State, 0, 2*len(settings.Modes))
	for _, fs := range []bool{false, true} {
		for _, m := range settings.Modes {
			out = append(out, State{Mode: m, Fullscreen: fs})
		}
	}
	return out
}

// Observer is told about every state change after it happened.
type Observer interface {
	ModeChanged(prev, next State)
	FullscreenChanged(prev, next State)
}

// Machine holds the current state. It is not safe for concurrent use.
type Machine struct {
	state State
	obs   Observer
}

// New returns a machine in the initial state. obs may be nil.
func New(initial State, obs Observer) (*Machine, error) {
	if !initial.Mode.Valid() {
		return nil, fmt.Errorf("invalid initial mode %d", int(initial.Mode))
	}
	return &Machine{state: initial, obs: obs}, nil
}

// State returns the current state.
func (m *Machine) State() State { return m.state }

// SetViewMode switches the layout mode, keeping the fullscreen flag. It
// reports whether the state changed.
func (m *Machine) SetViewMode(mode settings.ViewMode) (bool, error) {
	if !mode.Valid() {
		return false, fmt.Errorf("invalid view mode %d", int(mode))
	}
	if mode == m.state.Mode {
		return false, nil
	}
	prev := m.state
	m.state.Mode = mode
	if m.obs != nil {
		m.obs.ModeChanged(prev, m.state)
	}
	return true, nil
}

// EnterFullscreen turns the overlay on.
func (m *Machine) EnterFullscreen() bool { return m.setFullscreen(true) }

// ExitFullscreen turns the overlay off.
func (m *Machine) ExitFullscreen() bool { return m.setFullscreen(false) }

// ToggleFullscreen flips the overlay.
func (m *Machine) ToggleFullscreen() bool { return m.setFullscreen(!m.state.Fullscreen) }

func (m *Machine) setFullscreen(on bool) bool {
	if on == m.state.Fullscreen {
		return false
	}
	prev := m.state
	m.state.Fullscreen = on
	if m.obs != nil {
		m.obs.FullscreenChanged(prev, m.state)
	}
	return true
}

// Transition is one legal edge of the machine.
type Transition struct {
	From, To State
	Event    string
}

// Transitions enumerates every legal edge: each state can switch to either
// other mode with the same fullscreen flag, and toggle fullscreen keeping its
// mode. Self-loops are omitted since they do not notify.
func Transitions() []Transition {
	var out []Transition
	for _, from := range States() {
		for _, mode := range settings.Modes {
			if mode == from.Mode {
				continue
			}
			out = append(out, Transition{
				From:  from,
				To:    State{Mode: mode, Fullscreen: from.Fullscreen},
				Event: "set " + mode.String(),
			})
		}
		event := "enter fullscreen"
		if from.Fullscreen {
			event = "exit fullscreen"
		}
		out = append(out, Transition{
			From:  from,
			To:    State{Mode: from.Mode, Fullscreen: !from.Fullscreen},
			Event: event,
		})
	}
	return out
}
