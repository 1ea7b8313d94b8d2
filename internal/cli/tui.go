package cli

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/folioview/pkg/layout"
	"github.com/matzehuels/folioview/pkg/manifest"
	"github.com/matzehuels/folioview/pkg/settings"
	"github.com/matzehuels/folioview/pkg/viewer"
)

// Minimap styles
var (
	mapBorderStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim)
	mapCurrentStyle = lipgloss.NewStyle().Foreground(colorGreen)
	mapPageStyle    = lipgloss.NewStyle().Foreground(colorGray)
	helpStyle       = lipgloss.NewStyle().Foreground(colorDim)
	inputStyle      = lipgloss.NewStyle().Foreground(colorCyan)
)

const (
	// eventHistory is how many recent viewer events the status line shows.
	eventHistory = 3

	// scrollSteps is how many key presses it takes to scroll one panel.
	scrollSteps = 10

	mapMinCols = 20
	mapMaxCols = 120
	mapMinRows = 6
)

// =============================================================================
// ViewerModel - Interactive manifest browser
// =============================================================================

// eventLog keeps the most recent viewer events. It is shared by pointer
// because bubbletea copies the model on every update.
type eventLog struct {
	names []string
}

func (l *eventLog) add(e viewer.Event) {
	l.names = append(l.names, e.Type.String())
	if len(l.names) > eventHistory {
		l.names = l.names[len(l.names)-eventHistory:]
	}
}

// ViewerModel is the bubbletea model that drives a viewer.Manager from the
// keyboard and draws the viewport as a minimap.
type ViewerModel struct {
	Manager *viewer.Manager
	Doc     *manifest.Document

	Width  int
	Height int

	// Editing is set while the user types a fragment after '#'.
	Editing bool
	Input   string

	Err    error
	events *eventLog
	unsub  func()
}

// NewViewerModel creates a model for a manager that already has doc loaded.
func NewViewerModel(m *viewer.Manager, doc *manifest.Document) ViewerModel {
	events := &eventLog{}
	unsub := m.Subscribe(events.add)
	return ViewerModel{
		Manager: m,
		Doc:     doc,
		Width:   80,
		Height:  24,
		events:  events,
		unsub:   unsub,
	}
}

// Events returns the names of the most recent viewer events, oldest first.
func (m ViewerModel) Events() []string {
	return append([]string(nil), m.events.names...)
}

// Close stops listening to the manager.
func (m ViewerModel) Close() {
	if m.unsub != nil {
		m.unsub()
	}
}

func (m ViewerModel) Init() tea.Cmd {
	return nil
}

func (m ViewerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		return m, nil
	case tea.KeyMsg:
		if m.Editing {
			return m.updateInput(msg)
		}
		return m.updateKey(msg)
	}
	return m, nil
}

func (m ViewerModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.Editing = false
	case tea.KeyEnter:
		m.Editing = false
		m.Err = m.Manager.ApplyHash(m.Input)
	case tea.KeyBackspace:
		if r := []rune(m.Input); len(r) > 0 {
			m.Input = string(r[:len(r)-1])
		}
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyRunes, tea.KeySpace:
		m.Input += string(msg.Runes)
	}
	return m, nil
}

func (m ViewerModel) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	vm := m.Manager
	s := vm.Settings()
	g, _ := vm.Geometry()
	stepY := max(g.PanelHeight/scrollSteps, 1)
	stepX := max(g.PanelWidth/scrollSteps, 1)

	var err error
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "#":
		m.Editing = true
		m.Input = vm.Fragment()
		return m, nil
	case "+", "=":
		err = vm.ZoomIn()
	case "-":
		err = vm.ZoomOut()
	case "d":
		err = vm.SetViewMode(settings.ModeDocument)
	case "b":
		err = vm.SetViewMode(settings.ModeBook)
	case "g":
		err = vm.SetViewMode(settings.ModeGrid)
	case "f":
		err = vm.ToggleFullscreen()
	case "]":
		err = vm.SetPagesPerRow(s.PagesPerRow + 1)
	case "[":
		err = vm.SetPagesPerRow(s.PagesPerRow - 1)
	case "down", "j":
		err = vm.ScrollBy(stepY, 0)
	case "up", "k":
		err = vm.ScrollBy(-stepY, 0)
	case "right", "l":
		err = vm.ScrollBy(0, stepX)
	case "left", "h":
		err = vm.ScrollBy(0, -stepX)
	case "pgdown", " ", "n":
		err = vm.GotoPage(min(s.CurrentPageIndex+1, m.Doc.PageCount()-1))
	case "pgup", "p":
		err = vm.GotoPage(max(s.CurrentPageIndex-1, 0))
	case "home":
		err = vm.GotoPage(0)
	case "end":
		err = vm.GotoPage(m.Doc.PageCount() - 1)
	default:
		return m, nil
	}
	m.Err = err
	return m, nil
}

func (m ViewerModel) View() string {
	var b strings.Builder
	vm := m.Manager
	s := vm.Settings()

	title := m.Doc.Title()
	if title == "" {
		title = "Untitled"
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString("  ")
	b.WriteString(StyleDim.Render(fmt.Sprintf("%s · zoom %d/%d · page %d/%d",
		vm.State(), s.ZoomLevel, m.Doc.MaxZoomLevel(), s.CurrentPageIndex+1, m.Doc.PageCount())))
	b.WriteString("\n")

	g, err := vm.Geometry()
	pos, _ := vm.Position()
	if err == nil {
		cols := clampInt(m.Width-2, mapMinCols, mapMaxCols)
		rows := max(m.Height-7, mapMinRows)
		b.WriteString(mapBorderStyle.Render(renderMinimap(g, pos.Top, pos.Left, s.CurrentPageIndex, cols, rows)))
		b.WriteString("\n")
	}

	if m.Editing {
		b.WriteString(inputStyle.Render("#" + m.Input + "▏"))
	} else {
		b.WriteString(StyleLink.Render("#" + vm.Fragment()))
	}
	b.WriteString("  ")
	b.WriteString(StyleDim.Render(strings.Join(m.events.names, " → ")))
	b.WriteString("\n")

	if m.Err != nil {
		b.WriteString(statusIcons[statusError].style.Render(iconError + " " + m.Err.Error()))
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render("↑↓←→ scroll  n/p page  +/- zoom  d/b/g mode  [/] per row  f fullscreen  # fragment  q quit"))
	return b.String()
}

// =============================================================================
// Minimap
// =============================================================================

// renderMinimap draws the panel as a cols x rows character grid. Each page
// intersecting the viewport is filled, the current page in a brighter style,
// with its 1-based number in the top-left corner.
func renderMinimap(g layout.Geometry, top, left, current, cols, rows int) string {
	if g.PanelWidth <= 0 || g.PanelHeight <= 0 || cols <= 0 || rows <= 0 {
		return ""
	}
	cellW := float64(g.PanelWidth) / float64(cols)
	cellH := float64(g.PanelHeight) / float64(rows)

	grid := make([][]rune, rows)
	owner := make([][]int, rows)
	for y := range grid {
		grid[y] = []rune(strings.Repeat(" ", cols))
		owner[y] = make([]int, cols)
		for x := range owner[y] {
			owner[y][x] = -1
		}
	}

	for _, i := range g.Visible(top, g.PanelHeight, 0) {
		r, ok := g.Rect(i)
		if !ok {
			continue
		}
		x0 := clampInt(int(math.Floor(float64(r.Left-left)/cellW)), 0, cols)
		x1 := clampInt(int(math.Ceil(float64(r.Right()-left)/cellW)), 0, cols)
		y0 := clampInt(int(math.Floor(float64(r.Top-top)/cellH)), 0, rows)
		y1 := clampInt(int(math.Ceil(float64(r.Bottom()-top)/cellH)), 0, rows)
		fill := '░'
		if i == current {
			fill = '█'
		}
		for y := y0; y < y1; y++ {
			for x := x0; x < x1; x++ {
				grid[y][x] = fill
				owner[y][x] = i
			}
		}
		if y0 < y1 && r.Top >= top {
			label := []rune(fmt.Sprint(i + 1))
			for k, ch := range label {
				if x0+k < x1 {
					grid[y0][x0+k] = ch
				}
			}
		}
	}

	lines := make([]string, rows)
	for y := range grid {
		var line strings.Builder
		for x, ch := range grid[y] {
			switch owner[y][x] {
			case -1:
				line.WriteRune(ch)
			case current:
				line.WriteString(mapCurrentStyle.Render(string(ch)))
			default:
				line.WriteString(mapPageStyle.Render(string(ch)))
			}
		}
		lines[y] = line.String()
	}
	return strings.Join(lines, "\n")
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
