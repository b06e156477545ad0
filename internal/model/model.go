package model

import "time"

// Entity is the canonical record for any hierarchy level. The upstream API
// returns per-level payloads with inconsistent key casing; the api package
// normalizes them into this shape and nothing past that boundary sees the
// original keys.
type Entity struct {
	ID       string `json:"id"`
	Level    Level  `json:"level"`
	ParentID string `json:"parentId,omitempty"`

	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Status      string `json:"status,omitempty"`
	Assignee    string `json:"assignee,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type BugSeverity string

const (
	SeverityCritical BugSeverity = "Critical"
	SeverityMajor    BugSeverity = "Major"
	SeverityMinor    BugSeverity = "Minor"
	SeverityTrivial  BugSeverity = "Trivial"
)

type Bug struct {
	ID        string `json:"id"`
	ProjectID string `json:"projectId"`

	Title     string      `json:"title"`
	ShortDesc string      `json:"shortDescription,omitempty"`
	LongDesc  string      `json:"longDescription,omitempty"`
	Status    string      `json:"status"`
	Severity  BugSeverity `json:"severity"`
	Assignee  string      `json:"assignee,omitempty"`

	// StoryID links the bug to the user story it was filed against, when known.
	StoryID string `json:"userStoryId,omitempty"`

	CreatedBy string    `json:"createdBy,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Decision struct {
	ID        string `json:"id"`
	ProjectID string `json:"projectId"`

	Title     string `json:"title"`
	Rationale string `json:"rationale,omitempty"`
	Status    string `json:"status"` // Proposed, Accepted, Superseded, Rejected
	DecidedBy string `json:"decidedBy,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

type TestRun struct {
	ID        string `json:"id"`
	ProjectID string `json:"projectId"`

	Name    string `json:"name"`
	Outcome string `json:"outcome"` // Passed, Failed, Blocked, Skipped
	Passed  int    `json:"passed"`
	Failed  int    `json:"failed"`
	Skipped int    `json:"skipped"`

	ExecutedBy string    `json:"executedBy,omitempty"`
	ExecutedAt time.Time `json:"executedAt"`
}

// AuditEvent is one row of the change history the API keeps per entity.
type AuditEvent struct {
	ID       string `json:"id"`
	EntityID string `json:"entityId"`
	Action   string `json:"action"` // created, updated, deleted, status-changed
	Field    string `json:"field,omitempty"`
	OldValue string `json:"oldValue,omitempty"`
	NewValue string `json:"newValue,omitempty"`

	ActorID string    `json:"actorId"`
	At      time.Time `json:"at"`
}

type ChatMessage struct {
	ID        string    `json:"id"`
	ChannelID string    `json:"channelId"`
	AuthorID  string    `json:"authorId"`
	Author    string    `json:"author,omitempty"`
	Body      string    `json:"body"`
	SentAt    time.Time `json:"sentAt"`
}
