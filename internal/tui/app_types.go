package tui

import (
	"worktrack-cli/internal/cascade"
	"worktrack-cli/internal/model"
)

type view int

const (
	viewBrowser view = iota
	viewBugs
	viewDetail
	viewChat
)

func viewToString(v view) string {
	switch v {
	case viewBrowser:
		return "browser"
	case viewBugs:
		return "bugs"
	case viewDetail:
		return "detail"
	case viewChat:
		return "chat"
	}
	return "unknown"
}

// childrenMsg carries a finished child fetch back into the update loop.
// The embedded request lets the controller decide staleness.
type childrenMsg struct {
	req  cascade.FetchRequest
	ents []model.Entity
	err  error
}

type bugsMsg struct {
	projectID string
	bugs      []model.Bug
	err       error
}

// chatRecvMsg delivers one live chat message; chatClosedMsg fires when the
// connection loop ends.
type chatRecvMsg struct {
	msg model.ChatMessage
}

type chatClosedMsg struct{}

type chatHistoryMsg struct {
	msgs []model.ChatMessage
	err  error
}
