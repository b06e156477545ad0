package cli

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"worktrack-cli/internal/model"
)

func hierarchyLevels() []model.Level { return model.Chain }

// levelUse is the command name for each level's collection.
var levelUse = map[model.Level]string{
	model.LevelClient:    "clients",
	model.LevelProgram:   "programs",
	model.LevelProject:   "projects",
	model.LevelUseCase:   "usecases",
	model.LevelUserStory: "userstories",
	model.LevelTask:      "tasks",
	model.LevelSubtask:   "subtasks",
}

// entityList is the CLI payload for one level's records.
type entityList struct {
	Data []model.Entity `json:"data"`
}

func (l entityList) TableHeader() []string {
	return []string{"ID", "NAME", "STATUS", "ASSIGNEE", "PARENT"}
}

func (l entityList) TableRows() [][]string {
	rows := make([][]string, 0, len(l.Data))
	for _, e := range l.Data {
		rows = append(rows, []string{e.ID, e.Name, e.Status, e.Assignee, e.ParentID})
	}
	return rows
}

func newLevelCmd(app *App, level model.Level) *cobra.Command {
	use := levelUse[level]
	cmd := &cobra.Command{
		Use:   use,
		Short: level.Display() + " commands",
	}
	cmd.AddCommand(newLevelListCmd(app, level))
	return cmd
}

func newLevelListCmd(app *App, level model.Level) *cobra.Command {
	var parentID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List " + levelUse[level],
		RunE: func(cmd *cobra.Command, args []string) error {
			parent, hasParent := level.Parent()
			if hasParent && parentID == "" {
				return writeErr(cmd, fmt.Errorf("--%s is required", parent))
			}
			ctx := cmd.Context()
			f, done, err := app.fetcher(ctx)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer done()
			ents, err := f.Children(ctx, level, parentID)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, entityList{Data: ents})
		},
	}

	// The flag is named after the parent level: `programs list --client cl-1`.
	if parent, ok := level.Parent(); ok {
		cmd.Flags().StringVar(&parentID, string(parent), "", "Parent "+parent.Display()+" id")
	}
	return cmd
}

// TreeNode is one entity plus everything fetched beneath it.
type TreeNode struct {
	Entity   model.Entity `json:"entity"`
	Children []TreeNode   `json:"children,omitempty"`
}

func newTreeCmd(app *App) *cobra.Command {
	var clientID string

	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Fetch the full hierarchy under one client",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			f, done, err := app.fetcher(ctx)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer done()

			roots, err := f.Children(ctx, model.LevelClient, "")
			if err != nil {
				return writeErr(cmd, err)
			}
			var root *model.Entity
			for i := range roots {
				if roots[i].ID == clientID {
					root = &roots[i]
					break
				}
			}
			if root == nil {
				return writeErr(cmd, fmt.Errorf("client not found: %q", clientID))
			}

			node, err := buildTree(ctx, f, *root)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": node})
		},
	}

	cmd.Flags().StringVar(&clientID, "client", "", "Client id to walk")
	_ = cmd.MarkFlagRequired("client")
	return cmd
}

type childFetcher interface {
	Children(ctx context.Context, level model.Level, parentID string) ([]model.Entity, error)
}

// buildTree fans out one errgroup per level of the walk, bounded so a wide
// hierarchy does not stampede the API.
func buildTree(ctx context.Context, f childFetcher, root model.Entity) (TreeNode, error) {
	node := TreeNode{Entity: root}
	child, ok := root.Level.Child()
	if !ok {
		return node, nil
	}
	kids, err := f.Children(ctx, child, root.ID)
	if err != nil {
		return node, err
	}

	node.Children = make([]TreeNode, len(kids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	var mu sync.Mutex
	for i, kid := range kids {
		g.Go(func() error {
			sub, err := buildTree(gctx, f, kid)
			if err != nil {
				return err
			}
			mu.Lock()
			node.Children[i] = sub
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return node, err
	}
	sort.Slice(node.Children, func(i, j int) bool {
		return node.Children[i].Entity.Name < node.Children[j].Entity.Name
	})
	return node, nil
}
