package model

import "fmt"

// Level identifies one step of the tracked hierarchy. The chain is fixed:
// client → program → project → usecase → userstory → task → subtask.
type Level string

const (
	LevelClient    Level = "client"
	LevelProgram   Level = "program"
	LevelProject   Level = "project"
	LevelUseCase   Level = "usecase"
	LevelUserStory Level = "userstory"
	LevelTask      Level = "task"
	LevelSubtask   Level = "subtask"
)

// Chain lists all levels in parent-before-child order.
var Chain = []Level{
	LevelClient,
	LevelProgram,
	LevelProject,
	LevelUseCase,
	LevelUserStory,
	LevelTask,
	LevelSubtask,
}

var levelDepth = func() map[Level]int {
	m := make(map[Level]int, len(Chain))
	for i, l := range Chain {
		m[l] = i
	}
	return m
}()

func ParseLevel(s string) (Level, error) {
	l := Level(s)
	if _, ok := levelDepth[l]; !ok {
		return "", fmt.Errorf("unknown level: %q", s)
	}
	return l, nil
}

// Depth is the zero-based position in the chain (client=0 ... subtask=6),
// or -1 for a level that is not in the chain.
func (l Level) Depth() int {
	d, ok := levelDepth[l]
	if !ok {
		return -1
	}
	return d
}

// Child returns the next level down, or false at the leaf or for an
// unknown level.
func (l Level) Child() (Level, bool) {
	d, ok := levelDepth[l]
	if !ok || d+1 >= len(Chain) {
		return "", false
	}
	return Chain[d+1], true
}

// Parent returns the next level up, or false at the root or for an
// unknown level.
func (l Level) Parent() (Level, bool) {
	d, ok := levelDepth[l]
	if !ok || d == 0 {
		return "", false
	}
	return Chain[d-1], true
}

// Descendants returns every level strictly below l, nearest first. An
// unknown level has none.
func (l Level) Descendants() []Level {
	d, ok := levelDepth[l]
	if !ok {
		return nil
	}
	return Chain[d+1:]
}

// Display is the human label used in list headers and prompts.
func (l Level) Display() string {
	switch l {
	case LevelClient:
		return "Client"
	case LevelProgram:
		return "Program"
	case LevelProject:
		return "Project"
	case LevelUseCase:
		return "Use Case"
	case LevelUserStory:
		return "User Story"
	case LevelTask:
		return "Task"
	case LevelSubtask:
		return "Subtask"
	}
	return string(l)
}
