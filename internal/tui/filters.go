package tui

import (
	"worktrack-cli/internal/cascade"
	"worktrack-cli/internal/filter"
	"worktrack-cli/internal/model"
)

func cascadeResult(msg childrenMsg) cascade.FetchResult {
	return cascade.FetchResult{
		Level:    msg.req.Level,
		ParentID: msg.req.ParentID,
		Gen:      msg.req.Gen,
		Options:  msg.ents,
		Err:      msg.err,
	}
}

var (
	severityCycle = []string{
		string(model.SeverityCritical),
		string(model.SeverityMajor),
		string(model.SeverityMinor),
		string(model.SeverityTrivial),
	}
	statusCycle = []string{"Open", "In Progress", "Resolved", "Closed"}
)

// cycleMulti steps a multi-select key through single values: unset, each
// value in order, then unset again. Good enough for keyboard-driven
// narrowing; the CLI takes full value lists.
func cycleMulti(s filter.Set, key string, cycle []string) filter.Set {
	out := s.Clone()
	if out.Multi == nil {
		out.Multi = map[string][]string{}
	}
	current := out.Multi[key]
	if len(current) == 0 {
		out.Multi[key] = []string{cycle[0]}
		return out
	}
	for i, v := range cycle {
		if current[0] == v {
			if i+1 < len(cycle) {
				out.Multi[key] = []string{cycle[i+1]}
			} else {
				delete(out.Multi, key)
			}
			return out
		}
	}
	out.Multi[key] = []string{cycle[0]}
	return out
}

func filterSetEmpty() filter.Set { return filter.Set{} }
