package tui

import (
	"fmt"
	"strings"

	xansi "github.com/charmbracelet/x/ansi"

	"worktrack-cli/internal/model"
)

func (m appModel) View() string {
	switch m.view {
	case viewBugs:
		return m.viewBugsScreen()
	case viewDetail:
		return m.viewDetailScreen()
	case viewChat:
		return m.viewChatScreen()
	default:
		return m.viewBrowserScreen()
	}
}

func (m appModel) viewBrowserScreen() string {
	var b strings.Builder
	b.WriteString(m.headerLine())
	b.WriteString("\n")
	b.WriteString(m.breadcrumb())
	b.WriteString("\n\n")

	snap := m.ctrl.Snapshot(m.level)
	if snap.IsLoading {
		b.WriteString(m.spin.View())
		b.WriteString(styleMuted().Render(" loading " + strings.ToLower(m.level.Display()) + "s..."))
		b.WriteString("\n")
	} else if len(snap.Options) == 0 {
		b.WriteString(styleMuted().Render("no " + strings.ToLower(m.level.Display()) + "s here"))
		b.WriteString("\n")
	} else {
		b.WriteString(m.levelList.View())
		b.WriteString("\n")
	}

	b.WriteString(m.statusLine())
	b.WriteString(m.hintLine("enter drill down", "esc up", "r refresh", "b bugs", "d detail", "c chat", "q quit"))
	return b.String()
}

func (m appModel) viewBugsScreen() string {
	var b strings.Builder
	b.WriteString(m.headerLine())
	b.WriteString("\n")

	title := "Bugs"
	if p, ok := m.ctrl.Selected(model.LevelProject); ok {
		title = "Bugs " + m.glyphs.CrumbSep + " " + p.Name
	}
	b.WriteString(styleTitle().Render(title))
	if n := m.bugFilters.ActiveCount(); n > 0 {
		b.WriteString("  ")
		b.WriteString(styleBadge().Render(fmt.Sprintf("%d filters", n)))
	}
	b.WriteString("\n")

	if m.searching {
		b.WriteString(m.searchInput.View())
		b.WriteString("\n")
	} else if m.bugFilters.Search != "" {
		b.WriteString(styleMuted().Render("search: " + m.bugFilters.Search))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if len(m.bugsList.Items()) == 0 {
		b.WriteString(styleMuted().Render("no bugs match"))
		b.WriteString("\n")
	} else {
		b.WriteString(m.bugsList.View())
		b.WriteString("\n")
	}

	b.WriteString(m.statusLine())
	b.WriteString(m.hintLine("/ search", "s severity", "o status", "x clear", "r refresh", "esc back"))
	return b.String()
}

func (m appModel) viewDetailScreen() string {
	var b strings.Builder
	b.WriteString(m.headerLine())
	b.WriteString("\n")
	b.WriteString(m.detailBody)
	b.WriteString("\n")
	b.WriteString(m.hintLine("esc back", "q quit"))
	return b.String()
}

func (m appModel) viewChatScreen() string {
	var b strings.Builder
	b.WriteString(m.headerLine())
	b.WriteString("\n")

	state := styleError().Render("connecting...")
	if m.chatConnected {
		state = styleAccent().Render("connected")
	}
	b.WriteString(styleTitle().Render("Chat " + m.glyphs.CrumbSep + " " + m.chatChannel))
	b.WriteString("  ")
	b.WriteString(state)
	b.WriteString("\n\n")

	visible := m.chatMsgs
	max := m.height - 8
	if max > 0 && len(visible) > max {
		visible = visible[len(visible)-max:]
	}
	for _, msg := range visible {
		glyph := m.glyphs.ChatOther
		b.WriteString(styleMuted().Render(msg.SentAt.Format("15:04") + " "))
		b.WriteString(styleAccent().Render(glyph + " " + msg.Author))
		b.WriteString(" " + msg.Body)
		b.WriteString("\n")
	}
	if len(visible) == 0 {
		b.WriteString(styleMuted().Render("no messages yet"))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.chatInput.View())
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString(m.hintLine("enter send", "esc back"))
	return b.String()
}

func (m appModel) headerLine() string {
	return styleTitle().Render("worktrack") + "  " +
		styleMuted().Render(viewToString(m.view))
}

// breadcrumb renders the committed selections above the current level,
// ending with the level being browsed.
func (m appModel) breadcrumb() string {
	sep := " " + styleMuted().Foreground(colorCrumbSep).Render(m.glyphs.CrumbSep) + " "
	parts := make([]string, 0, len(model.Chain))
	for _, lvl := range model.Chain {
		if lvl == m.level {
			break
		}
		e, ok := m.ctrl.Selected(lvl)
		if !ok {
			break
		}
		parts = append(parts, e.Name)
	}
	parts = append(parts, styleAccent().Bold(true).Render(m.level.Display()+"s"))
	return m.fitLine(strings.Join(parts, sep))
}

// fitLine keeps single-line chrome from wrapping on narrow terminals.
func (m appModel) fitLine(s string) string {
	if m.width <= 0 || xansi.StringWidth(s) <= m.width {
		return s
	}
	return xansi.Truncate(s, m.width-1, "…")
}

func (m appModel) statusLine() string {
	if m.statusMsg == "" {
		return ""
	}
	return m.fitLine(styleError().Render(m.statusMsg)) + "\n"
}

func (m appModel) hintLine(hints ...string) string {
	return styleMuted().Render(strings.Join(hints, "  "))
}
