package ui

import (
	"os"

	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/lipgloss"
)

// TermProfile holds the detected terminal color profile. Computed once at
// package init so every style helper can branch without re-detecting.
var TermProfile colorprofile.Profile

func init() {
	TermProfile = colorprofile.Detect(os.Stdout, os.Environ())
}

// ThemeFg returns the given hex color for ANSI256+ terminals and a safe
// ANSI white (color 7) for 16-color or lower terminals.
func ThemeFg(hex string) lipgloss.TerminalColor {
	if TermProfile < colorprofile.ANSI256 {
		return lipgloss.ANSIColor(7)
	}
	return lipgloss.Color(hex)
}

type Theme struct {
	Renderer *lipgloss.Renderer

	Primary   lipgloss.AdaptiveColor
	Secondary lipgloss.AdaptiveColor
	Subtext   lipgloss.AdaptiveColor
	Done      lipgloss.AdaptiveColor
	Danger    lipgloss.AdaptiveColor
	Border    lipgloss.AdaptiveColor
	Highlight lipgloss.AdaptiveColor

	// Pre-computed styles, created once instead of per frame.
	Title         lipgloss.Style
	Header        lipgloss.Style
	HeaderFocused lipgloss.Style
	HeaderDrop    lipgloss.Style
	Card          lipgloss.Style
	CardFocused   lipgloss.Style
	CardDragged   lipgloss.Style
	DoneText      lipgloss.Style
	SelectedMark  lipgloss.Style
	DoneMark      lipgloss.Style
	MutedText     lipgloss.Style
	Separator     lipgloss.Style
	Status        lipgloss.Style
	StatusError   lipgloss.Style
	Badge         lipgloss.Style
}

// DefaultTheme returns the standard Dracula-inspired theme (adaptive).
func DefaultTheme(r *lipgloss.Renderer) Theme {
	t := Theme{
		Renderer:  r,
		Primary:   ColorPrimary,
		Secondary: ColorSecondary,
		Subtext:   ColorSubtext,
		Done:      ColorSuccess,
		Danger:    ColorDanger,
		Border:    lipgloss.AdaptiveColor{Light: "#AAAAAA", Dark: "#44475A"},
		Highlight: ColorBgHighlight,
	}

	t.Title = r.NewStyle().Foreground(t.Primary).Bold(true)

	t.Header = r.NewStyle().
		Bold(true).
		Padding(0, 1).
		Background(lipgloss.AdaptiveColor{Light: "#E0E0E0", Dark: "#2a2a2a"}).
		Foreground(t.Primary)
	t.HeaderFocused = t.Header.
		Background(t.Primary).
		Foreground(lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#1a1a1a"})
	t.HeaderDrop = t.Header.
		Background(ColorWarning).
		Foreground(lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#1a1a1a"})

	t.Card = r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Padding(0, 1)
	t.CardFocused = t.Card.BorderForeground(t.Primary)
	t.CardDragged = t.Card.BorderForeground(ColorWarning).Faint(true)

	t.DoneText = r.NewStyle().Foreground(t.Subtext).Strikethrough(true)
	t.SelectedMark = r.NewStyle().Foreground(ThemeFg("#FFB86C")).Bold(true)
	t.DoneMark = r.NewStyle().Foreground(t.Done)
	t.MutedText = r.NewStyle().Foreground(ColorMuted)
	t.Separator = r.NewStyle().Foreground(t.Secondary)
	t.Status = r.NewStyle().Foreground(ColorInfo)
	t.StatusError = r.NewStyle().Foreground(t.Danger).Bold(true)
	t.Badge = r.NewStyle().Foreground(ColorBg).Background(ColorInfo).Padding(0, 1)

	return t
}

// TestTheme returns a theme suitable for use in tests.
func TestTheme() Theme {
	return DefaultTheme(lipgloss.NewRenderer(os.Stdout))
}
