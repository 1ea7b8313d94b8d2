package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// =============================================================================
// Palette and Styles
// =============================================================================

// ANSI 256 colors; lipgloss degrades them on smaller palettes.
var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorRed    = lipgloss.Color("167")
	colorBlue   = lipgloss.Color("75")
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

// Styles shared by the commands and the terminal viewer.
var (
	StyleTitle     = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)
	StyleLink      = lipgloss.NewStyle().Foreground(colorBlue).Underline(true)
	StyleDim       = lipgloss.NewStyle().Foreground(colorDim)
	StyleValue     = lipgloss.NewStyle().Foreground(colorWhite)
	StyleSuccess   = lipgloss.NewStyle().Foreground(colorGreen)
	StyleWarning   = lipgloss.NewStyle().Foreground(colorYellow)
)

var (
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)
	styleCommand     = lipgloss.NewStyle().Foreground(colorBlue)
	styleKey         = lipgloss.NewStyle().Foreground(colorGray).Width(keyWidth)
	styleHeader      = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	styleCell        = lipgloss.NewStyle().Foreground(colorWhite)
	styleCurrent     = lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
)

// keyWidth aligns the values printed by printKeyValue.
const keyWidth = 12

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
)

// =============================================================================
// Status Lines
// =============================================================================

type statusKind int

const (
	statusSuccess statusKind = iota
	statusError
	statusWarning
	statusInfo
)

var statusIcons = [...]struct {
	icon  string
	style lipgloss.Style
	tint  bool // also color the message
}{
	statusSuccess: {iconSuccess, lipgloss.NewStyle().Foreground(colorGreen), false},
	statusError:   {iconError, lipgloss.NewStyle().Foreground(colorRed), false},
	statusWarning: {iconWarning, lipgloss.NewStyle().Foreground(colorYellow), true},
	statusInfo:    {iconInfo, lipgloss.NewStyle().Foreground(colorGray), false},
}

// printStatus writes one "<icon> message" line.
func printStatus(w io.Writer, kind statusKind, format string, args ...any) {
	s := statusIcons[kind]
	msg := fmt.Sprintf(format, args...)
	if s.tint {
		msg = s.style.Render(msg)
	}
	fmt.Fprintln(w, s.style.Render(s.icon)+" "+msg)
}

func printSuccess(w io.Writer, format string, args ...any) {
	printStatus(w, statusSuccess, format, args...)
}

func printError(w io.Writer, format string, args ...any) {
	printStatus(w, statusError, format, args...)
}

func printWarning(w io.Writer, format string, args ...any) {
	printStatus(w, statusWarning, format, args...)
}

func printInfo(w io.Writer, format string, args ...any) {
	printStatus(w, statusInfo, format, args...)
}

// printDetail writes an indented, dimmed line under a status line.
func printDetail(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile writes "  → path" for a written file or produced link.
func printFile(w io.Writer, path string) {
	fmt.Fprintln(w, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path))
}

func printKeyValue(w io.Writer, key, value string) {
	fmt.Fprintln(w, styleKey.Render(key)+" "+StyleValue.Render(value))
}

// printStats writes the non-empty parts on one dimmed line joined by " · ".
func printStats(w io.Writer, parts ...string) {
	kept := parts[:0:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	fmt.Fprintln(w, "  "+StyleDim.Render(strings.Join(kept, " · ")))
}

// printNextStep suggests a follow-up command.
func printNextStep(w io.Writer, description, cmd string) {
	fmt.Fprintln(w, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}

func printNewline(w io.Writer) { fmt.Fprintln(w) }

// =============================================================================
// Tables
// =============================================================================

// renderTable draws rows under headers in a rounded border. Rows for which
// highlight reports true use the "current" style.
func renderTable(headers []string, rows [][]string, highlight func(row int) bool) string {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(StyleDim).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return styleHeader
			case highlight != nil && highlight(row):
				return styleCurrent
			default:
				return styleCell
			}
		}).
		Render()
}
