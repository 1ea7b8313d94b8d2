package viewer

import (
	"fmt"

	"github.com/matzehuels/folioview/pkg/settings"
	"github.com/matzehuels/folioview/pkg/viewport"
)

// EventType identifies a notification.
type EventType int

const (
	// EventSettingsChanged follows every atomic settings update.
	EventSettingsChanged EventType = iota
	// EventViewportScrolled follows every scroll application.
	EventViewportScrolled
	// EventReady fires once, after the first manifest load.
	EventReady
	// EventFullscreenChanged tells the host to hide or restore its outer
	// scrollbar.
	EventFullscreenChanged
)

func (t EventType) String() string {
	switch t {
	case EventSettingsChanged:
		return "settings-changed"
	case EventViewportScrolled:
		return "viewport-scrolled"
	case EventReady:
		return "ready"
	case EventFullscreenChanged:
		return "fullscreen-changed"
	default:
		return fmt.Sprintf("EventType(%d)", int(t))
	}
}

// Event carries a snapshot of the state after the change.
type Event struct {
	Type     EventType
	Settings settings.Settings
	Position viewport.ScrollPosition
}

// Listener receives events synchronously.
type Listener func(Event)

type subscription struct {
	id int
	fn Listener
}

// Subscribe registers fn and returns a function that removes it. Listeners
// run in registration order.
func (m *Manager) Subscribe(fn Listener) (unsubscribe func()) {
	m.nextID++
	id := m.nextID
	m.subs = append(m.subs, subscription{id: id, fn: fn})
	return func() {
		for i, s := range m.subs {
			if s.id == id {
				m.subs = append(m.subs[:i:i], m.subs[i+1:]...)
				return
			}
		}
	}
}

func (m *Manager) dispatch(types ...EventType) {
	if len(types) == 0 {
		return
	}
	// Listeners may subscribe or unsubscribe while being called.
	subs := append([]subscription(nil), m.subs...)
	for _, t := range types {
		e := Event{Type: t, Settings: m.settings, Position: m.vp.Position()}
		for _, s := range subs {
			s.fn(e)
		}
	}
}
