package api

import (
	"encoding/json"
	"time"

	"worktrack-cli/internal/model"
)

// The API is inconsistent about key casing: the same record may carry
// `programId` or `program_id` depending on which backend service produced it.
// Everything tolerant about that lives here; the rest of the codebase only
// sees model.Entity.

// parentKeys lists the accepted foreign-key spellings for each child level,
// canonical form first.
var parentKeys = map[model.Level][]string{
	model.LevelProgram:   {"clientId", "client_id"},
	model.LevelProject:   {"programId", "program_id"},
	model.LevelUseCase:   {"projectId", "project_id"},
	model.LevelUserStory: {"useCaseId", "usecaseId", "use_case_id"},
	model.LevelTask:      {"userStoryId", "userstoryId", "user_story_id"},
	model.LevelSubtask:   {"taskId", "task_id"},
}

func decodeEntities(data []byte, level model.Level) ([]model.Entity, error) {
	var raw []map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	out := make([]model.Entity, 0, len(raw))
	for _, m := range raw {
		out = append(out, normalizeEntity(m, level))
	}
	return out, nil
}

func normalizeEntity(m map[string]json.RawMessage, level model.Level) model.Entity {
	e := model.Entity{
		ID:          wireString(m, "id"),
		Level:       level,
		Name:        wireString(m, "name", "title"),
		Description: wireString(m, "description", "short_description", "shortDescription"),
		Status:      wireString(m, "status"),
		Assignee:    wireString(m, "assignee", "assigned_to", "assignedTo"),
		CreatedAt:   wireTime(m, "createdAt", "created_at"),
		UpdatedAt:   wireTime(m, "updatedAt", "updated_at"),
	}
	if keys, ok := parentKeys[level]; ok {
		e.ParentID = wireString(m, keys...)
	}
	return e
}

// wireString returns the first present, non-empty string under any of keys.
func wireString(m map[string]json.RawMessage, keys ...string) string {
	for _, k := range keys {
		raw, ok := m[k]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil && s != "" {
			return s
		}
	}
	return ""
}

func wireTime(m map[string]json.RawMessage, keys ...string) time.Time {
	s := wireString(m, keys...)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
