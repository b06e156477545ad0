package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"worktrack-cli/internal/chat"
	"worktrack-cli/internal/model"
)

func (m appModel) Init() tea.Cmd {
	req := m.ctrl.Refresh(model.LevelClient)
	if req == nil {
		return m.spin.Tick
	}
	return tea.Batch(m.spin.Tick, fetchChildrenCmd(m.deps.Fetcher, *req))
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		listHeight := msg.Height - 6 // header, crumbs, status, hints
		if listHeight < 3 {
			listHeight = 3
		}
		m.levelList.SetSize(msg.Width-2, listHeight)
		m.bugsList.SetSize(msg.Width-2, listHeight-2)
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case childrenMsg:
		return m.updateChildren(msg)

	case bugsMsg:
		if msg.err != nil {
			m.deps.Log.Warn("bugs fetch failed", zap.Error(msg.err))
			m.statusMsg = "bugs unavailable: " + msg.err.Error()
			m.bugs = nil
		} else {
			m.statusMsg = ""
			m.bugs = msg.bugs
		}
		m.bugProject = msg.projectID
		m.applyBugFilters()
		return m, nil

	case chatHistoryMsg:
		if msg.err != nil {
			m.statusMsg = "chat history unavailable: " + msg.err.Error()
			return m, nil
		}
		m.chatMsgs = msg.msgs
		return m, nil

	case chatRecvMsg:
		m.chatMsgs = append(m.chatMsgs, msg.msg)
		m.chatConnected = true
		return m, waitChatCmd(m.chatClient.Incoming)

	case chatClosedMsg:
		m.chatConnected = false
		return m, nil

	case tea.KeyMsg:
		return m.updateKey(msg)
	}
	return m, nil
}

// updateChildren routes a finished fetch through the controller. Stale
// results are dropped there; the list only re-renders for accepted ones.
func (m appModel) updateChildren(msg childrenMsg) (tea.Model, tea.Cmd) {
	applied := m.ctrl.Complete(cascadeResult(msg))
	if !applied {
		return m, nil
	}
	if msg.err != nil {
		m.deps.Log.Warn("child fetch failed",
			zap.String("level", string(msg.req.Level)),
			zap.Error(msg.err))
		m.statusMsg = fmt.Sprintf("%s list unavailable: %v", msg.req.Level.Display(), msg.err)
	} else {
		m.statusMsg = ""
	}
	if msg.req.Level == m.level {
		m.refreshLevelList()
	}

	// First client load: honor the configured default client.
	if msg.req.Level == model.LevelClient && m.defaultClientPending != "" {
		id := m.defaultClientPending
		m.defaultClientPending = ""
		for _, e := range m.ctrl.Snapshot(model.LevelClient).Options {
			if e.ID == id {
				return m.descendInto(e)
			}
		}
	}
	return m, nil
}

func (m appModel) updateKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.view {
	case viewBrowser:
		return m.updateBrowserKey(key)
	case viewBugs:
		return m.updateBugsKey(key)
	case viewDetail:
		return m.updateDetailKey(key)
	case viewChat:
		return m.updateChatKey(key)
	}
	return m, nil
}

func (m appModel) updateBrowserKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	// While the list's built-in filter is open, it owns the keyboard.
	if m.levelList.SettingFilter() {
		var cmd tea.Cmd
		m.levelList, cmd = m.levelList.Update(key)
		return m, cmd
	}

	switch key.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "enter":
		e, ok := m.selectedEntity()
		if !ok {
			return m, nil
		}
		return m.descendInto(e)

	case "esc":
		if parent, ok := m.level.Parent(); ok {
			m.level = parent
			m.refreshLevelList()
		}
		return m, nil

	case "r":
		req := m.ctrl.Refresh(m.level)
		if req == nil {
			return m, nil
		}
		m.refreshLevelList()
		return m, fetchChildrenCmd(m.deps.Fetcher, *req)

	case "b":
		project := m.projectForContext()
		if project == "" {
			m.statusMsg = "select a project first (drill down to the project level)"
			return m, nil
		}
		m.view = viewBugs
		m.bugFilters = m.bugFilters.Clone()
		return m, fetchBugsCmd(m.deps.API, project)

	case "d":
		e, ok := m.selectedEntity()
		if !ok {
			return m, nil
		}
		m.detailBody = renderDetail(e, m.width)
		m.view = viewDetail
		return m, nil

	case "c":
		return m.openChat()
	}

	var cmd tea.Cmd
	m.levelList, cmd = m.levelList.Update(key)
	return m, cmd
}

// descendInto commits a selection and moves the browser one level down.
// Selecting the leaf level only updates the selection.
func (m appModel) descendInto(e model.Entity) (tea.Model, tea.Cmd) {
	req := m.ctrl.SetSelection(m.level, e.ID)
	child, hasChild := m.level.Child()
	if hasChild {
		m.level = child
		m.refreshLevelList()
	}
	if req == nil {
		return m, nil
	}
	return m, fetchChildrenCmd(m.deps.Fetcher, *req)
}

func (m appModel) updateBugsKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.searching {
		switch key.String() {
		case "enter", "esc":
			m.searching = false
			m.searchInput.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.searchInput, cmd = m.searchInput.Update(key)
		m.bugFilters.Search = m.searchInput.Value()
		m.applyBugFilters()
		return m, cmd
	}

	switch key.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = viewBrowser
		return m, nil
	case "/":
		m.searching = true
		m.searchInput.Focus()
		return m, nil
	case "s":
		m.bugFilters = cycleMulti(m.bugFilters, "severity", severityCycle)
		m.applyBugFilters()
		return m, nil
	case "o":
		m.bugFilters = cycleMulti(m.bugFilters, "status", statusCycle)
		m.applyBugFilters()
		return m, nil
	case "x":
		m.bugFilters = filterSetEmpty()
		m.searchInput.SetValue("")
		m.applyBugFilters()
		return m, nil
	case "r":
		return m, fetchBugsCmd(m.deps.API, m.bugProject)
	}

	var cmd tea.Cmd
	m.bugsList, cmd = m.bugsList.Update(key)
	return m, cmd
}

func (m appModel) updateDetailKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = viewBrowser
		return m, nil
	}
	return m, nil
}

func (m appModel) openChat() (tea.Model, tea.Cmd) {
	channel := m.deps.ChatChannel
	if channel == "" {
		channel = m.projectForContext()
	}
	if channel == "" {
		m.statusMsg = "select a project first (the chat channel follows the project)"
		return m, nil
	}

	m.view = viewChat
	m.chatInput.Focus()
	if m.chatClient != nil && m.chatChannel == channel {
		return m, nil
	}
	if m.chatCancel != nil {
		m.chatCancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	m.chatChannel = channel
	m.chatCancel = cancel
	m.chatClient = chat.New(m.deps.APIURL, m.deps.Token, channel, m.deps.Log)
	m.chatMsgs = nil
	client := m.chatClient
	go func() { _ = client.Run(ctx) }()
	return m, tea.Batch(
		fetchChatHistoryCmd(m.deps.API, channel),
		waitChatCmd(client.Incoming),
	)
}

func (m appModel) updateChatKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.chatInput.Blur()
		m.view = viewBrowser
		return m, nil
	case "enter":
		body := m.chatInput.Value()
		if body == "" {
			return m, nil
		}
		if err := m.chatClient.Send(body); err != nil {
			m.statusMsg = "send failed: " + err.Error()
			return m, nil
		}
		m.chatInput.SetValue("")
		return m, nil
	}

	var cmd tea.Cmd
	m.chatInput, cmd = m.chatInput.Update(key)
	return m, cmd
}
