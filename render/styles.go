package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/BaSui01/clinicalflow/structured"
)

// Palette colours.
var (
	Foreground = lipgloss.Color("#101F38")
	Muted      = lipgloss.Color("#6B7280")
	Border     = lipgloss.Color("#dce0e5")

	Destructive = lipgloss.Color("#e53935")
	Success     = lipgloss.Color("#8BC34A")
	Warning     = lipgloss.Color("#FFC107")
	Info        = lipgloss.Color("#2196F3")
)

// RiskColor maps a risk level to its display colour. Unknown levels are muted.
func RiskColor(level structured.RiskLevel) lipgloss.Color {
	switch level {
	case structured.RiskHigh:
		return Destructive
	case structured.RiskMedium:
		return Warning
	case structured.RiskLow:
		return Success
	default:
		return Muted
	}
}

// Styles holds the styles used by Formatter, bound to one renderer.
type Styles struct {
	Title    lipgloss.Style
	Section  lipgloss.Style
	Label    lipgloss.Style
	Body     lipgloss.Style
	Bullet   lipgloss.Style
	Muted    lipgloss.Style
	Error    lipgloss.Style
	Success  lipgloss.Style
	Rule     lipgloss.Style
	Report   lipgloss.Style
	NoReport lipgloss.Style
}

// NewStyles builds the style set on r.
func NewStyles(r *lipgloss.Renderer) Styles {
	return Styles{
		Title: r.NewStyle().
			Bold(true).
			Foreground(Info),
		Section: r.NewStyle().
			Bold(true).
			MarginTop(1),
		Label:   r.NewStyle().Bold(true),
		Body:    r.NewStyle().PaddingLeft(2),
		Bullet:  r.NewStyle().PaddingLeft(1),
		Muted:   r.NewStyle().Foreground(Muted).Italic(true),
		Error:   r.NewStyle().Foreground(Destructive),
		Success: r.NewStyle().Foreground(Success),
		Rule:    r.NewStyle().Foreground(Border),
		Report: r.NewStyle().
			Bold(true).
			Foreground(Destructive),
		NoReport: r.NewStyle().
			Bold(true).
			Foreground(Info),
	}
}

// riskBadge renders the upper-cased level in its severity colour.
func riskBadge(r *lipgloss.Renderer, level structured.RiskLevel) string {
	return r.NewStyle().
		Bold(true).
		Foreground(RiskColor(level)).
		Render("[" + strings.ToUpper(string(level)) + "]")
}
