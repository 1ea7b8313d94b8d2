package viewer

import (
	"github.com/matzehuels/folioview/pkg/layout"
	"github.com/matzehuels/folioview/pkg/manifest"
	"github.com/matzehuels/folioview/pkg/settings"
	"github.com/matzehuels/folioview/pkg/viewport"
)

// InvalidParam is a fragment value that was dropped.
type InvalidParam struct {
	Key    string `json:"key"`
	Value  string `json:"value"`
	Reason string `json:"reason"`
}

// Snapshot is the complete observable state of a manager.
type Snapshot struct {
	Settings settings.Settings       `json:"settings"`
	State    string                  `json:"state"`
	Fragment string                  `json:"fragment"`
	Position viewport.ScrollPosition `json:"position"`
	Geometry layout.Geometry         `json:"geometry"`
	Visible  []int                   `json:"visible_pages"`
	Invalid  []InvalidParam          `json:"invalid,omitempty"`
}

// LastInvalid returns the values dropped by the most recent fragment.
func (m *Manager) LastInvalid() []InvalidParam {
	out := make([]InvalidParam, 0, len(m.invalid))
	for _, iv := range m.invalid {
		out = append(out, InvalidParam{Key: iv.Key, Value: iv.Value, Reason: iv.Err.Message})
	}
	return out
}

// Snapshot captures the current state. margin widens the visible band.
func (m *Manager) Snapshot(margin int) (Snapshot, error) {
	visible, err := m.VisiblePages(margin)
	if err != nil {
		return Snapshot{}, err
	}
	snap := Snapshot{
		Settings: m.settings,
		State:    m.machine.State().String(),
		Fragment: m.Fragment(),
		Position: m.vp.Position(),
		Geometry: m.geom,
		Visible:  visible,
	}
	if len(m.invalid) > 0 {
		snap.Invalid = m.LastInvalid()
	}
	return snap, nil
}

// Resolve runs a fresh manager over doc with fragment and returns the state
// it settles in.
func Resolve(cfg Config, doc manifest.Manifest, fragment string) (Snapshot, error) {
	m, err := New(cfg, nil)
	if err != nil {
		return Snapshot{}, err
	}
	if err := m.ApplyHash(fragment); err != nil {
		return Snapshot{}, err
	}
	if err := m.LoadManifest(doc); err != nil {
		return Snapshot{}, err
	}
	return m.Snapshot(0)
}
