package cascade

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"worktrack-cli/internal/model"
)

// Runner drives a Controller with a real Fetcher for callers that do not
// have their own event loop (the web board, scripted walks). All controller
// access is serialized behind one mutex; fetches run on goroutines and
// funnel back through Complete, so the stale-result rule is identical to
// the TUI path.
type Runner struct {
	mu      sync.Mutex
	ctrl    *Controller
	fetcher Fetcher
	log     *zap.Logger
	wg      sync.WaitGroup

	// OnChange, when set, fires after every accepted state change. Called
	// without the lock held.
	OnChange func()
}

func NewRunner(fetcher Fetcher, log *zap.Logger) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{ctrl: New(), fetcher: fetcher, log: log}
}

// Select applies a selection and, when it triggers a child fetch, runs that
// fetch on a goroutine. Returns immediately after the synchronous state
// change.
func (r *Runner) Select(ctx context.Context, level model.Level, id string) {
	r.mu.Lock()
	req := r.ctrl.SetSelection(level, id)
	r.mu.Unlock()
	r.changed()
	if req != nil {
		r.wg.Add(1)
		go r.run(ctx, *req)
	}
}

// Load fetches the option list for level under the current parent selection.
func (r *Runner) Load(ctx context.Context, level model.Level) {
	r.mu.Lock()
	req := r.ctrl.Refresh(level)
	r.mu.Unlock()
	if req == nil {
		return
	}
	r.changed()
	r.wg.Add(1)
	go r.run(ctx, *req)
}

// Wait blocks until every in-flight fetch has settled (applied or
// discarded). Scripted walks use it to read a quiescent snapshot.
func (r *Runner) Wait() { r.wg.Wait() }

func (r *Runner) run(ctx context.Context, req FetchRequest) {
	defer r.wg.Done()
	opts, err := r.fetcher.Children(ctx, req.Level, req.ParentID)
	if err != nil {
		r.log.Warn("child fetch failed",
			zap.String("level", string(req.Level)),
			zap.String("parentId", req.ParentID),
			zap.Error(err))
	}
	r.mu.Lock()
	applied := r.ctrl.Complete(FetchResult{
		Level:    req.Level,
		ParentID: req.ParentID,
		Gen:      req.Gen,
		Options:  opts,
		Err:      err,
	})
	r.mu.Unlock()
	if applied {
		r.changed()
	} else {
		r.log.Debug("stale child fetch discarded",
			zap.String("level", string(req.Level)),
			zap.String("parentId", req.ParentID))
	}
}

// Snapshot returns the presentation view of one level.
func (r *Runner) Snapshot(level model.Level) Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ctrl.Snapshot(level)
}

// Selection returns the selected id at level.
func (r *Runner) Selection(level model.Level) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ctrl.Selection(level)
}

func (r *Runner) changed() {
	if r.OnChange != nil {
		r.OnChange()
	}
}
