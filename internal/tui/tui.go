package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"worktrack-cli/internal/api"
	"worktrack-cli/internal/cascade"
	"worktrack-cli/internal/model"
)

func Run(deps Deps) error {
	m := newAppModel(deps)
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

func fetchChildrenCmd(f cascade.Fetcher, req cascade.FetchRequest) tea.Cmd {
	return func() tea.Msg {
		ents, err := f.Children(context.Background(), req.Level, req.ParentID)
		return childrenMsg{req: req, ents: ents, err: err}
	}
}

func fetchBugsCmd(c *api.Client, projectID string) tea.Cmd {
	return func() tea.Msg {
		bugs, err := c.Bugs(context.Background(), projectID)
		return bugsMsg{projectID: projectID, bugs: bugs, err: err}
	}
}

func fetchChatHistoryCmd(c *api.Client, channel string) tea.Cmd {
	return func() tea.Msg {
		msgs, err := c.ChatHistory(context.Background(), channel, 50)
		return chatHistoryMsg{msgs: msgs, err: err}
	}
}

// waitChatCmd blocks on the live message channel; the update loop re-issues
// it after every delivery.
func waitChatCmd(ch <-chan model.ChatMessage) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return chatClosedMsg{}
		}
		return chatRecvMsg{msg: msg}
	}
}
