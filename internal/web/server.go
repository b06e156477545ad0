package web

import (
	"context"
	"crypto/sha256"
	"embed"
	"encoding/hex"
	"html/template"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/starfederation/datastar-go/datastar"
	"go.uber.org/zap"

	"worktrack-cli/internal/cascade"
	"worktrack-cli/internal/model"
)

//go:embed templates/*.html static/*.css
var assetsFS embed.FS

const authCookie = "worktrack_auth"

type ServerConfig struct {
	// AuthToken, when set, gates every request behind a shared token.
	// First visit passes it as ?auth=...; after that a cookie carries it.
	AuthToken string

	// RefreshInterval is how often the event stream re-checks the board.
	// Zero means the default of five seconds.
	RefreshInterval time.Duration
}

// Server renders a read-only hierarchy board. All state lives in the URL:
// every selection link carries the full selection path, so the server holds
// no per-browser session.
type Server struct {
	cfg     ServerConfig
	fetcher cascade.Fetcher
	log     *zap.Logger
	tmpl    *template.Template
}

func NewServer(cfg ServerConfig, f cascade.Fetcher, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.RefreshInterval <= 0 {
		cfg.RefreshInterval = 5 * time.Second
	}
	tmpl := template.Must(template.New("base").Funcs(template.FuncMap{
		"trim":     strings.TrimSpace,
		"markdown": renderMarkdownHTML,
	}).ParseFS(assetsFS, "templates/*.html"))
	return &Server{cfg: cfg, fetcher: f, log: log, tmpl: tmpl}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /static/app.css", s.handleAppCSS)
	mux.HandleFunc("GET /board", s.handleBoard)
	mux.HandleFunc("GET /events", s.handleEvents)
	mux.HandleFunc("GET /", s.handleHome)
	return s.requireAuth(mux)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = io.WriteString(w, `{"ok":true}`)
}

func (s *Server) handleAppCSS(w http.ResponseWriter, r *http.Request) {
	b, err := assetsFS.ReadFile("static/app.css")
	if err != nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	_, _ = w.Write(b)
}

// requireAuth accepts either the auth cookie or a one-time ?auth= query,
// which it converts into a cookie so links and streams stay clean.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := s.cfg.AuthToken
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}
		if c, err := r.Cookie(authCookie); err == nil && c.Value == token {
			next.ServeHTTP(w, r)
			return
		}
		if q := r.URL.Query().Get("auth"); q == token {
			http.SetCookie(w, &http.Cookie{
				Name:     authCookie,
				Value:    token,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
			clean := *r.URL
			q := clean.Query()
			q.Del("auth")
			clean.RawQuery = q.Encode()
			http.Redirect(w, r, clean.String(), http.StatusSeeOther)
			return
		}
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	})
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	sel := selectionFromQuery(r.URL.Query())
	board, err := s.renderBoard(r.Context(), sel)
	if err != nil {
		s.log.Warn("board render failed", zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	data := map[string]any{
		"Board":     template.HTML(board),
		"StreamURL": "/events?" + sel.query().Encode(),
	}
	var b strings.Builder
	if err := s.tmpl.ExecuteTemplate(&b, "page.html", data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = io.WriteString(w, b.String())
}

// handleBoard answers datastar @get actions from selection links: it
// re-renders the board for the requested selection and patches it in place.
func (s *Server) handleBoard(w http.ResponseWriter, r *http.Request) {
	sel := selectionFromQuery(r.URL.Query())
	html, err := s.renderBoard(r.Context(), sel)
	if err != nil {
		s.log.Warn("board render failed", zap.Error(err))
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	sse := datastar.NewSSE(w, r)
	_ = sse.PatchElements(html,
		datastar.WithSelector("#board"),
		datastar.WithMode(datastar.ElementPatchModeOuter))
	_ = sse.ExecuteScript(`history.replaceState(null, "", "/?` + template.JSEscapeString(sel.query().Encode()) + `")`)
}

// handleEvents streams board updates. The API has no push channel, so the
// stream polls on an interval and patches only when the rendered board
// actually changed.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	sel := selectionFromQuery(r.URL.Query())
	sse := datastar.NewSSE(w, r)

	ticker := time.NewTicker(s.cfg.RefreshInterval)
	defer ticker.Stop()

	last := ""
	if html, err := s.renderBoard(r.Context(), sel); err == nil {
		last = fingerprint(html)
	}

	for {
		select {
		case <-sse.Context().Done():
			return
		case <-ticker.C:
			html, err := s.renderBoard(sse.Context(), sel)
			if err != nil {
				s.log.Debug("board refresh failed", zap.Error(err))
				continue
			}
			fp := fingerprint(html)
			if fp == last {
				continue
			}
			last = fp
			_ = sse.PatchElements(html,
				datastar.WithSelector("#board"),
				datastar.WithMode(datastar.ElementPatchModeOuter))
		}
	}
}

func fingerprint(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:8])
}

// selection is one path down the hierarchy, possibly partial. Levels below
// the first gap are ignored: a project without its program is meaningless.
type selection map[model.Level]string

func selectionFromQuery(q url.Values) selection {
	sel := selection{}
	for _, lvl := range model.Chain {
		id := strings.TrimSpace(q.Get(string(lvl)))
		if id == "" {
			break
		}
		sel[lvl] = id
	}
	return sel
}

func (sel selection) query() url.Values {
	q := url.Values{}
	for _, lvl := range model.Chain {
		id, ok := sel[lvl]
		if !ok {
			break
		}
		q.Set(string(lvl), id)
	}
	return q
}

// withLevel returns the selection truncated at level and pointing at id.
// Selecting an already-selected id deselects it, mirroring the TUI.
func (sel selection) withLevel(level model.Level, id string) selection {
	out := selection{}
	for _, lvl := range model.Chain {
		if lvl == level {
			break
		}
		v, ok := sel[lvl]
		if !ok {
			break
		}
		out[lvl] = v
	}
	if sel[level] != id {
		out[level] = id
	}
	return out
}

type columnVM struct {
	Level   string
	Title   string
	Options []optionVM
}

type optionVM struct {
	ID       string
	Name     string
	Status   string
	Selected bool
	// BoardURL is the @get target that commits this selection.
	BoardURL string
}

type boardVM struct {
	Columns []columnVM
	Detail  *detailVM
}

type detailVM struct {
	Name        string
	Level       string
	ID          string
	Status      string
	Assignee    string
	Description template.HTML
}

// renderBoard replays the URL selection through a cascade runner and renders
// one column per reached level. Columns appear top down: the client column
// always, each further column only once its parent has a selection. A failed
// upstream fetch shows as an empty column; the runner logs it.
func (s *Server) renderBoard(ctx context.Context, sel selection) (string, error) {
	run := cascade.NewRunner(s.fetcher, s.log)
	run.Load(ctx, model.LevelClient)
	for _, lvl := range model.Chain {
		id, ok := sel[lvl]
		if !ok {
			break
		}
		run.Select(ctx, lvl, id)
	}
	run.Wait()

	vm := boardVM{}
	var deepest *model.Entity
	for _, lvl := range model.Chain {
		snap := run.Snapshot(lvl)
		col := columnVM{Level: string(lvl), Title: lvl.Display() + "s"}
		for _, e := range snap.Options {
			next := sel.withLevel(lvl, e.ID)
			opt := optionVM{
				ID:       e.ID,
				Name:     e.Name,
				Status:   e.Status,
				Selected: e.ID == snap.SelectedID,
				BoardURL: "/board?" + next.query().Encode(),
			}
			if opt.Selected {
				ent := e
				deepest = &ent
			}
			col.Options = append(col.Options, opt)
		}
		vm.Columns = append(vm.Columns, col)
		if snap.SelectedID == "" {
			break
		}
	}

	if deepest != nil {
		vm.Detail = &detailVM{
			Name:        deepest.Name,
			Level:       deepest.Level.Display(),
			ID:          deepest.ID,
			Status:      deepest.Status,
			Assignee:    deepest.Assignee,
			Description: renderMarkdownHTML(deepest.Description),
		}
	}

	var b strings.Builder
	if err := s.tmpl.ExecuteTemplate(&b, "board.html", vm); err != nil {
		return "", err
	}
	return b.String(), nil
}
