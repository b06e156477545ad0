package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"go.uber.org/zap"

	"worktrack-cli/internal/api"
	"worktrack-cli/internal/cascade"
	"worktrack-cli/internal/chat"
	"worktrack-cli/internal/filter"
	"worktrack-cli/internal/model"
)

// Deps wires the TUI to the outside world. Everything blocking happens
// through these; the update loop itself never does IO.
type Deps struct {
	Fetcher cascade.Fetcher
	API     *api.Client
	Log     *zap.Logger

	APIURL string
	Token  string

	// DefaultClient, when set, is selected automatically once the client
	// list loads.
	DefaultClient string
	Glyphs        string
	ChatChannel   string
}

type appModel struct {
	deps   Deps
	ctrl   *cascade.Controller
	glyphs glyphSet

	width  int
	height int

	view  view
	level model.Level

	levelList list.Model
	spin      spinner.Model

	// statusMsg is a one-line transient notice (fetch failures mostly).
	statusMsg string

	// defaultClientPending is cleared after the automatic first selection.
	defaultClientPending string

	bugs       []model.Bug
	bugProject string
	bugFilters filter.Set
	bugsList   list.Model
	searchInput textinput.Model
	searching   bool

	detailBody string

	chatClient    *chat.Client
	chatCancel    context.CancelFunc
	chatChannel   string
	chatMsgs      []model.ChatMessage
	chatInput     textinput.Model
	chatConnected bool
}

func newAppModel(deps Deps) appModel {
	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}

	delegate := list.NewDefaultDelegate()
	levelList := list.New(nil, delegate, 0, 0)
	levelList.SetShowTitle(false)
	levelList.SetShowStatusBar(false)

	bugsList := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	bugsList.SetShowTitle(false)
	bugsList.SetShowStatusBar(false)

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	search := textinput.New()
	search.Placeholder = "search title/description/id"
	search.CharLimit = 120

	chatIn := textinput.New()
	chatIn.Placeholder = "message"
	chatIn.CharLimit = 500

	return appModel{
		deps:                 deps,
		ctrl:                 cascade.New(),
		glyphs:               glyphsFor(deps.Glyphs),
		view:                 viewBrowser,
		level:                model.LevelClient,
		levelList:            levelList,
		bugsList:             bugsList,
		spin:                 sp,
		searchInput:          search,
		chatInput:            chatIn,
		defaultClientPending: deps.DefaultClient,
	}
}

// refreshLevelList mirrors the controller's options for the current level
// into the visible list, keeping the cursor on the current selection.
func (m *appModel) refreshLevelList() {
	snap := m.ctrl.Snapshot(m.level)
	items := make([]list.Item, 0, len(snap.Options))
	selectedIdx := -1
	for i, e := range snap.Options {
		items = append(items, entityItem{entity: e})
		if e.ID == snap.SelectedID && snap.SelectedID != "" {
			selectedIdx = i
		}
	}
	m.levelList.SetItems(items)
	if selectedIdx >= 0 {
		m.levelList.Select(selectedIdx)
	} else {
		m.levelList.Select(0)
	}
}

// selectedEntity is the highlighted row, not necessarily the committed
// selection.
func (m *appModel) selectedEntity() (model.Entity, bool) {
	it, ok := m.levelList.SelectedItem().(entityItem)
	if !ok {
		return model.Entity{}, false
	}
	return it.entity, true
}

// projectForContext resolves the project scope used by the bugs and chat
// views: the selected project when the user has drilled that deep.
func (m *appModel) projectForContext() string {
	return m.ctrl.Selection(model.LevelProject)
}

// applyBugFilters re-derives the bug rows from the unfiltered slice.
func (m *appModel) applyBugFilters() {
	filtered := filter.Apply(m.bugs, m.bugFilters, filter.BugFields())
	items := make([]list.Item, 0, len(filtered))
	for _, b := range filtered {
		items = append(items, bugItem{bug: b})
	}
	m.bugsList.SetItems(items)
}
