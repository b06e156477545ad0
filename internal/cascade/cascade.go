// Package cascade owns hierarchy selection state: one selected id and one
// loaded option list per level, with the rule that changing a selection
// invalidates everything below it. The controller is synchronous and
// single-goroutine; fetches happen outside it and report back through
// Complete, which discards results that no longer match the current state.
package cascade

import (
	"context"

	"worktrack-cli/internal/model"
)

// Fetcher loads the child entities of one parent. api.Client satisfies this.
type Fetcher interface {
	Children(ctx context.Context, level model.Level, parentID string) ([]model.Entity, error)
}

// FetchRequest asks the caller to load options for Level under ParentID.
// Gen must be echoed back unchanged in the FetchResult.
type FetchRequest struct {
	Level    model.Level
	ParentID string
	Gen      uint64
}

// FetchResult reports a finished fetch. Err non-nil means the level shows an
// empty list; the error is the caller's to log.
type FetchResult struct {
	Level    model.Level
	ParentID string
	Gen      uint64
	Options  []model.Entity
	Err      error
}

// Snapshot is the per-level view handed to the presentation layer.
type Snapshot struct {
	SelectedID string
	Options    []model.Entity
	IsLoading  bool
}

type levelState struct {
	selectedID string
	options    []model.Entity
	loading    bool

	// gen increments every time this level's option list is invalidated.
	// A FetchResult carrying an older gen is stale and must be dropped.
	gen uint64
}

type Controller struct {
	levels map[model.Level]*levelState
}

func New() *Controller {
	c := &Controller{levels: make(map[model.Level]*levelState, len(model.Chain))}
	for _, l := range model.Chain {
		c.levels[l] = &levelState{}
	}
	return c
}

// SetSelection selects id at level and clears every descendant level's
// selection and option list. When id is non-empty and level has a child, it
// returns the fetch the caller must run for that child level; otherwise nil.
// State is updated synchronously either way, so no stale child list is ever
// visible while the fetch is outstanding.
func (c *Controller) SetSelection(level model.Level, id string) *FetchRequest {
	st, ok := c.levels[level]
	if !ok {
		return nil
	}
	st.selectedID = id

	for _, d := range level.Descendants() {
		ds := c.levels[d]
		ds.selectedID = ""
		ds.options = nil
		ds.loading = false
		ds.gen++
	}

	if id == "" {
		return nil
	}
	child, ok := level.Child()
	if !ok {
		return nil
	}
	cs := c.levels[child]
	cs.loading = true
	return &FetchRequest{Level: child, ParentID: id, Gen: cs.gen}
}

// Refresh re-requests the option list for level under the current parent
// selection. For the root level the parent id is empty. Returns nil when the
// parent has no selection (there is nothing meaningful to fetch).
func (c *Controller) Refresh(level model.Level) *FetchRequest {
	st := c.levels[level]
	parentID := ""
	if parent, ok := level.Parent(); ok {
		parentID = c.levels[parent].selectedID
		if parentID == "" {
			return nil
		}
	}
	st.options = nil
	st.gen++
	st.loading = true
	return &FetchRequest{Level: level, ParentID: parentID, Gen: st.gen}
}

// Complete applies a finished fetch and reports whether it was accepted.
// A result is discarded when its generation is no longer current, or when
// the parent selection it was issued for is no longer the selected parent
// (last-write-wins per level).
func (c *Controller) Complete(res FetchResult) bool {
	st, ok := c.levels[res.Level]
	if !ok {
		return false
	}
	if res.Gen != st.gen {
		return false
	}
	if parent, ok := res.Level.Parent(); ok {
		if c.levels[parent].selectedID != res.ParentID {
			return false
		}
	}
	st.loading = false
	if res.Err != nil {
		st.options = nil
		return true
	}
	st.options = res.Options
	return true
}

// Snapshot returns the presentation view of one level.
func (c *Controller) Snapshot(level model.Level) Snapshot {
	st := c.levels[level]
	return Snapshot{SelectedID: st.selectedID, Options: st.options, IsLoading: st.loading}
}

// Selection returns the selected id at level ("" when unselected).
func (c *Controller) Selection(level model.Level) string {
	return c.levels[level].selectedID
}

// Selected returns the full record behind the current selection at level,
// when it is present in the loaded options.
func (c *Controller) Selected(level model.Level) (model.Entity, bool) {
	st := c.levels[level]
	if st.selectedID == "" {
		return model.Entity{}, false
	}
	for _, e := range st.options {
		if e.ID == st.selectedID {
			return e, true
		}
	}
	return model.Entity{}, false
}

// DeepestSelection walks the chain top-down and returns the last level with
// a non-empty selection. ok is false when nothing is selected at all.
func (c *Controller) DeepestSelection() (model.Level, bool) {
	var (
		out   model.Level
		found bool
	)
	for _, l := range model.Chain {
		if c.levels[l].selectedID == "" {
			break
		}
		out = l
		found = true
	}
	return out, found
}

// Reset clears all selections and option lists.
func (c *Controller) Reset() {
	for _, st := range c.levels {
		st.selectedID = ""
		st.options = nil
		st.loading = false
		st.gen++
	}
}
