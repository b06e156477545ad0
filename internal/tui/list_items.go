package tui

import (
	"fmt"
	"strings"

	"worktrack-cli/internal/model"
)

type entityItem struct {
	entity model.Entity
}

func (i entityItem) FilterValue() string { return i.entity.Name }
func (i entityItem) Title() string {
	if i.entity.Status != "" {
		return i.entity.Name + " " + styleMuted().Render("["+i.entity.Status+"]")
	}
	return i.entity.Name
}
func (i entityItem) Description() string {
	parts := []string{i.entity.ID}
	if i.entity.Assignee != "" {
		parts = append(parts, i.entity.Assignee)
	}
	return strings.Join(parts, " · ")
}

type bugItem struct {
	bug model.Bug
}

func (i bugItem) FilterValue() string { return i.bug.Title }
func (i bugItem) Title() string {
	sev := severityBadge(i.bug.Severity)
	if sev != "" {
		return sev + " " + i.bug.Title
	}
	return i.bug.Title
}
func (i bugItem) Description() string {
	return fmt.Sprintf("%s · %s · %s", i.bug.ID, i.bug.Status, i.bug.Assignee)
}

func severityBadge(sev model.BugSeverity) string {
	switch sev {
	case model.SeverityCritical:
		return styleError().Bold(true).Render("CRIT")
	case model.SeverityMajor:
		return styleError().Render("MAJ")
	case model.SeverityMinor:
		return styleMuted().Render("MIN")
	case model.SeverityTrivial:
		return styleMuted().Render("TRV")
	}
	return ""
}
