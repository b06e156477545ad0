package tui

import "github.com/charmbracelet/lipgloss"

// Theme helpers. The TUI must stay readable on both light and dark
// backgrounds, so everything goes through lipgloss.AdaptiveColor.

func ac(light, dark string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Light: light, Dark: dark}
}

var (
	colorMuted    lipgloss.TerminalColor = ac("240", "243")
	colorAccent   lipgloss.TerminalColor = ac("27", "62") // blue
	colorError    lipgloss.TerminalColor = ac("160", "196")
	colorTitleFg  lipgloss.TerminalColor = ac("235", "252")
	colorBadgeBg  lipgloss.TerminalColor = ac("254", "236")
	colorCrumbSep lipgloss.TerminalColor = ac("245", "242")
)

func styleMuted() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(colorMuted)
}

func styleTitle() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(colorTitleFg)
}

func styleAccent() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(colorAccent)
}

func styleError() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(colorError)
}

func styleBadge() lipgloss.Style {
	return lipgloss.NewStyle().Background(colorBadgeBg).Padding(0, 1)
}

// glyphs supports terminals without good unicode coverage.
type glyphSet struct {
	Bullet    string
	CrumbSep  string
	ChatSelf  string
	ChatOther string
}

func glyphsFor(name string) glyphSet {
	if name == "ascii" {
		return glyphSet{Bullet: "*", CrumbSep: ">", ChatSelf: ">", ChatOther: "<"}
	}
	return glyphSet{Bullet: "●", CrumbSep: "›", ChatSelf: "▸", ChatOther: "▹"}
}
