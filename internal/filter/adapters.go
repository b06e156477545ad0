package filter

import (
	"time"

	"worktrack-cli/internal/model"
)

// BugFields reads bugs for Apply. Searchable text: title, both descriptions
// and the id.
func BugFields() Fields[model.Bug] {
	return Fields[model.Bug]{
		Value: func(b model.Bug, key string) string {
			switch key {
			case "status":
				return b.Status
			case "severity":
				return string(b.Severity)
			case "assignee":
				return b.Assignee
			}
			return ""
		},
		Search: func(b model.Bug) []string {
			return []string{b.Title, b.ShortDesc, b.LongDesc, b.ID}
		},
		Created: func(b model.Bug) time.Time { return b.CreatedAt },
	}
}

// EntityFields reads hierarchy records for Apply.
func EntityFields() Fields[model.Entity] {
	return Fields[model.Entity]{
		Value: func(e model.Entity, key string) string {
			switch key {
			case "status":
				return e.Status
			case "assignee":
				return e.Assignee
			}
			return ""
		},
		Search: func(e model.Entity) []string {
			return []string{e.Name, e.Description, e.ID}
		},
		Created: func(e model.Entity) time.Time { return e.CreatedAt },
	}
}

// DecisionFields reads decisions for Apply.
func DecisionFields() Fields[model.Decision] {
	return Fields[model.Decision]{
		Value: func(d model.Decision, key string) string {
			switch key {
			case "status":
				return d.Status
			}
			return ""
		},
		Search: func(d model.Decision) []string {
			return []string{d.Title, d.Rationale, d.ID}
		},
		Created: func(d model.Decision) time.Time { return d.CreatedAt },
	}
}
