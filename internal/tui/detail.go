package tui

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"worktrack-cli/internal/model"
)

var (
	mdRendererMu sync.Mutex
	// Cache renderers by wrap width + style. WithAutoStyle can block on
	// terminal capability queries, so the style is resolved once up front.
	mdRenderers = map[string]*glamour.TermRenderer{}
)

func renderMarkdown(md string, width int) string {
	md = strings.TrimSpace(md)
	if md == "" {
		return ""
	}
	if width < 10 {
		width = 10
	}

	style := markdownStyle()
	key := style + ":" + strconv.Itoa(width)

	mdRendererMu.Lock()
	r := mdRenderers[key]
	mdRendererMu.Unlock()

	if r == nil {
		rr, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(style),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return md
		}
		mdRendererMu.Lock()
		if existing := mdRenderers[key]; existing != nil {
			r = existing
		} else {
			mdRenderers[key] = rr
			r = rr
		}
		mdRendererMu.Unlock()
	}

	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n")
}

func markdownStyle() string {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("WORKTRACK_TUI_MD_STYLE"))) {
	case "light":
		return "light"
	case "dark":
		return "dark"
	}
	if lipgloss.HasDarkBackground() {
		return "dark"
	}
	return "light"
}

// renderDetail lays out one entity as markdown and renders it for the
// terminal. Fields that are empty are left out rather than shown blank.
func renderDetail(e model.Entity, width int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", e.Name)
	fmt.Fprintf(&b, "**%s** `%s`\n\n", e.Level.Display(), e.ID)
	if e.Status != "" {
		fmt.Fprintf(&b, "- Status: %s\n", e.Status)
	}
	if e.Assignee != "" {
		fmt.Fprintf(&b, "- Assignee: %s\n", e.Assignee)
	}
	if !e.CreatedAt.IsZero() {
		fmt.Fprintf(&b, "- Created: %s\n", e.CreatedAt.Format("2006-01-02 15:04"))
	}
	if !e.UpdatedAt.IsZero() {
		fmt.Fprintf(&b, "- Updated: %s\n", e.UpdatedAt.Format("2006-01-02 15:04"))
	}
	if e.Description != "" {
		fmt.Fprintf(&b, "\n%s\n", e.Description)
	}

	w := width - 4
	if w < 20 {
		w = 20
	}
	if w > 100 {
		w = 100
	}
	return renderMarkdown(b.String(), w)
}
