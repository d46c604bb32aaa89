package output

import (
	"github.com/charmbracelet/lipgloss"
)

// Role says what a cell shows; it selects the cell's accent color.
type Role int

const (
	RoleIdentifier Role = iota
	RoleCategory
	RoleName
	RoleComments
)

// ANSI palette indexes, so the terminal theme decides the exact shade.
const (
	colorRed     = lipgloss.Color("1")
	colorYellow  = lipgloss.Color("3")
	colorBlue    = lipgloss.Color("4")
	colorMagenta = lipgloss.Color("5")
)

// Styles holds every style the renderer applies.
type Styles struct {
	Identifier lipgloss.Style
	Name       lipgloss.Style
	Plain      lipgloss.Style
	// Muted marks done records: dimmed and struck through word by word.
	Muted lipgloss.Style
	Title lipgloss.Style
	Error lipgloss.Style
	Cell  lipgloss.Style
}

// NewStyles builds the styles on r so color output follows r's profile.
func NewStyles(r *lipgloss.Renderer) Styles {
	return Styles{
		Identifier: r.NewStyle().Foreground(colorBlue),
		Name:       r.NewStyle().Foreground(colorMagenta),
		Plain:      r.NewStyle(),
		Muted:      r.NewStyle().Faint(true).Strikethrough(true).StrikethroughSpaces(false),
		Title:      r.NewStyle().Foreground(colorYellow).Bold(true),
		Error:      r.NewStyle().Foreground(colorRed),
		Cell:       r.NewStyle().Padding(0, 1),
	}
}

// For returns the style of a cell with the given role.
func (s Styles) For(role Role, muted bool) lipgloss.Style {
	if muted {
		return s.Muted
	}
	switch role {
	case RoleIdentifier:
		return s.Identifier
	case RoleName:
		return s.Name
	case RoleCategory, RoleComments:
		return s.Plain
	}
	return s.Plain
}
