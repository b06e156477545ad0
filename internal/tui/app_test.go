package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"go.uber.org/zap"

	"worktrack-cli/internal/cascade"
	"worktrack-cli/internal/model"
)

type stubFetcher struct {
	byParent map[string][]model.Entity
	err      error
}

func (s *stubFetcher) Children(_ context.Context, level model.Level, parentID string) ([]model.Entity, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.byParent[string(level)+"/"+parentID], nil
}

func testEntities() *stubFetcher {
	return &stubFetcher{byParent: map[string][]model.Entity{
		"client/": {
			{ID: "cl-1", Level: model.LevelClient, Name: "Acme"},
			{ID: "cl-2", Level: model.LevelClient, Name: "Globex"},
		},
		"program/cl-1": {
			{ID: "pg-1", Level: model.LevelProgram, ParentID: "cl-1", Name: "Migration"},
		},
		"project/pg-1": {
			{ID: "pj-1", Level: model.LevelProject, ParentID: "pg-1", Name: "Billing"},
		},
	}}
}

func newTestModel(t *testing.T, f cascade.Fetcher) appModel {
	t.Helper()
	lipgloss.SetColorProfile(termenv.Ascii)
	m := newAppModel(Deps{Fetcher: f, Log: zap.NewNop()})
	m.width, m.height = 80, 24
	m.levelList.SetSize(78, 16)
	m.bugsList.SetSize(78, 14)
	return m
}

// drain runs a command synchronously and feeds every resulting message back
// through Update, the way the bubbletea runtime would.
func drain(t *testing.T, m appModel, cmd tea.Cmd) appModel {
	t.Helper()
	for cmd != nil {
		msg := cmd()
		if msg == nil {
			return m
		}
		// Spinner ticks reschedule themselves forever; not interesting here.
		if _, ok := msg.(spinner.TickMsg); ok {
			return m
		}
		if batch, ok := msg.(tea.BatchMsg); ok {
			for _, c := range batch {
				m = drain(t, m, c)
			}
			return m
		}
		var next tea.Model
		next, cmd = m.Update(msg)
		m = next.(appModel)
	}
	return m
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func press(t *testing.T, m appModel, s string) appModel {
	t.Helper()
	next, cmd := m.Update(keyMsg(s))
	return drain(t, next.(appModel), cmd)
}

func TestInitLoadsClients(t *testing.T) {
	m := newTestModel(t, testEntities())
	m = drain(t, m, m.Init())

	snap := m.ctrl.Snapshot(model.LevelClient)
	if len(snap.Options) != 2 {
		t.Fatalf("client options = %d, want 2", len(snap.Options))
	}
	if got := len(m.levelList.Items()); got != 2 {
		t.Fatalf("visible items = %d, want 2", got)
	}
	out := m.View()
	if !strings.Contains(out, "Acme") || !strings.Contains(out, "Globex") {
		t.Fatalf("view missing client names:\n%s", out)
	}
}

func TestEnterDescendsAndEscAscends(t *testing.T) {
	m := newTestModel(t, testEntities())
	m = drain(t, m, m.Init())

	m = press(t, m, "enter") // select Acme
	if m.level != model.LevelProgram {
		t.Fatalf("level after enter = %s, want program", m.level)
	}
	if got := m.ctrl.Selection(model.LevelClient); got != "cl-1" {
		t.Fatalf("client selection = %q, want cl-1", got)
	}
	if got := len(m.levelList.Items()); got != 1 {
		t.Fatalf("program items = %d, want 1", got)
	}
	if !strings.Contains(m.View(), "Migration") {
		t.Fatalf("program view missing Migration:\n%s", m.View())
	}

	m = press(t, m, "esc")
	if m.level != model.LevelClient {
		t.Fatalf("level after esc = %s, want client", m.level)
	}
	// The earlier selection survives ascending.
	if got := m.ctrl.Selection(model.LevelClient); got != "cl-1" {
		t.Fatalf("client selection after esc = %q, want cl-1", got)
	}
}

func TestReselectingClientClearsDescendants(t *testing.T) {
	m := newTestModel(t, testEntities())
	m = drain(t, m, m.Init())
	m = press(t, m, "enter") // Acme -> programs
	m = press(t, m, "enter") // Migration -> projects
	if got := m.ctrl.Selection(model.LevelProgram); got != "pg-1" {
		t.Fatalf("program selection = %q, want pg-1", got)
	}

	m = press(t, m, "esc")
	m = press(t, m, "esc")
	// Move to Globex and commit.
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = drain(t, next.(appModel), cmd)
	m = press(t, m, "enter")

	if got := m.ctrl.Selection(model.LevelClient); got != "cl-2" {
		t.Fatalf("client selection = %q, want cl-2", got)
	}
	if got := m.ctrl.Selection(model.LevelProgram); got != "" {
		t.Fatalf("program selection = %q, want cleared", got)
	}
	if got := m.ctrl.Selection(model.LevelProject); got != "" {
		t.Fatalf("project selection = %q, want cleared", got)
	}
}

func TestStaleChildFetchIsDropped(t *testing.T) {
	m := newTestModel(t, testEntities())
	m = drain(t, m, m.Init())

	// Commit Acme but hold its program fetch.
	next, cmd := m.Update(keyMsg("enter"))
	m = next.(appModel)
	staleMsg := cmd().(childrenMsg)

	// User changes their mind: back up and pick Globex.
	m = press(t, m, "esc")
	next, cmd2 := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = drain(t, next.(appModel), cmd2)
	m = press(t, m, "enter")

	// Now the stale Acme response lands.
	next, _ = m.Update(staleMsg)
	m = next.(appModel)

	snap := m.ctrl.Snapshot(model.LevelProgram)
	if len(snap.Options) != 0 {
		t.Fatalf("stale fetch populated program options: %v", snap.Options)
	}
}

func TestDefaultClientAutoSelects(t *testing.T) {
	f := testEntities()
	lipgloss.SetColorProfile(termenv.Ascii)
	m := newAppModel(Deps{Fetcher: f, Log: zap.NewNop(), DefaultClient: "cl-1"})
	m.width, m.height = 80, 24
	m = drain(t, m, m.Init())

	if got := m.ctrl.Selection(model.LevelClient); got != "cl-1" {
		t.Fatalf("client selection = %q, want cl-1", got)
	}
	if m.level != model.LevelProgram {
		t.Fatalf("level = %s, want program after auto-select", m.level)
	}
	if m.defaultClientPending != "" {
		t.Fatalf("defaultClientPending not cleared")
	}
}

func TestFailedFetchShowsStatusAndEmptyList(t *testing.T) {
	m := newTestModel(t, testEntities())
	m = drain(t, m, m.Init())
	m = press(t, m, "enter")

	// Refresh with a now-broken fetcher.
	m.deps.Fetcher = &stubFetcher{err: context.DeadlineExceeded}
	m = press(t, m, "r")

	if m.statusMsg == "" {
		t.Fatalf("expected a status message after failed refresh")
	}
	if got := len(m.ctrl.Snapshot(model.LevelProgram).Options); got != 0 {
		t.Fatalf("options after failed refresh = %d, want 0", got)
	}
}

func TestBugSearchNarrowsRows(t *testing.T) {
	m := newTestModel(t, testEntities())
	m.bugs = []model.Bug{
		{ID: "bug-1", Title: "Login times out", Status: "Open", Severity: model.SeverityMajor, CreatedAt: time.Now()},
		{ID: "bug-2", Title: "Footer misaligned", Status: "Open", Severity: model.SeverityTrivial, CreatedAt: time.Now()},
	}
	m.view = viewBugs
	m.applyBugFilters()
	if got := len(m.bugsList.Items()); got != 2 {
		t.Fatalf("unfiltered rows = %d, want 2", got)
	}

	m = press(t, m, "/")
	if !m.searching {
		t.Fatalf("search input did not open")
	}
	for _, r := range "login" {
		m = press(t, m, string(r))
	}
	if got := len(m.bugsList.Items()); got != 1 {
		t.Fatalf("rows after search = %d, want 1", got)
	}
	m = press(t, m, "enter")
	if m.searching {
		t.Fatalf("enter did not close search input")
	}

	m = press(t, m, "x")
	if got := len(m.bugsList.Items()); got != 2 {
		t.Fatalf("rows after clear = %d, want 2", got)
	}
	if m.bugFilters.Search != "" {
		t.Fatalf("search not cleared: %q", m.bugFilters.Search)
	}
}

func TestSeverityCycleFilters(t *testing.T) {
	m := newTestModel(t, testEntities())
	m.bugs = []model.Bug{
		{ID: "bug-1", Title: "Crash on save", Severity: model.SeverityCritical, CreatedAt: time.Now()},
		{ID: "bug-2", Title: "Typo", Severity: model.SeverityTrivial, CreatedAt: time.Now()},
	}
	m.view = viewBugs
	m.applyBugFilters()

	m = press(t, m, "s") // Critical
	if got := len(m.bugsList.Items()); got != 1 {
		t.Fatalf("rows with Critical filter = %d, want 1", got)
	}
	it := m.bugsList.Items()[0].(bugItem)
	if it.bug.ID != "bug-1" {
		t.Fatalf("filtered row = %s, want bug-1", it.bug.ID)
	}

	// Cycling through the remaining severities and off again restores all.
	for i := 0; i < len(severityCycle); i++ {
		m = press(t, m, "s")
	}
	if got := len(m.bugsList.Items()); got != 2 {
		t.Fatalf("rows after full cycle = %d, want 2", got)
	}
}

func TestDetailViewRendersEntity(t *testing.T) {
	m := newTestModel(t, testEntities())
	m = drain(t, m, m.Init())

	m = press(t, m, "d")
	if m.view != viewDetail {
		t.Fatalf("view = %s, want detail", viewToString(m.view))
	}
	out := m.View()
	if !strings.Contains(out, "Acme") {
		t.Fatalf("detail view missing entity name:\n%s", out)
	}

	m = press(t, m, "esc")
	if m.view != viewBrowser {
		t.Fatalf("esc did not return to browser")
	}
}
