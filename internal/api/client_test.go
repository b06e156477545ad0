package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"worktrack-cli/internal/model"
)

func TestChildren_NormalizesForeignKeyVariants(t *testing.T) {
	t.Parallel()

	// Two backend services disagree on key casing for the same collection.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/programs" {
			http.NotFound(w, r)
			return
		}
		if got := r.URL.Query().Get("clientId"); got != "cl-1" {
			t.Errorf("expected clientId=cl-1 in query, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"id":"pg-1","name":"Apollo","clientId":"cl-1","status":"Active","createdAt":"2026-01-10T09:00:00Z"},
			{"id":"pg-2","title":"Borealis","client_id":"cl-1","created_at":"2026-01-11 14:30:00"}
		]`))
	}))
	defer srv.Close()

	c := New(srv.URL, "tok", nil)
	ents, err := c.Children(context.Background(), model.LevelProgram, "cl-1")
	if err != nil {
		t.Fatalf("Children: %v", err)
	}
	if len(ents) != 2 {
		t.Fatalf("expected 2 programs, got %d", len(ents))
	}
	for _, e := range ents {
		if e.ParentID != "cl-1" {
			t.Fatalf("entity %s: expected normalized ParentID=cl-1, got %q", e.ID, e.ParentID)
		}
		if e.Level != model.LevelProgram {
			t.Fatalf("entity %s: expected level program, got %q", e.ID, e.Level)
		}
	}
	if ents[1].Name != "Borealis" {
		t.Fatalf("expected title fallback for name, got %q", ents[1].Name)
	}
	if ents[1].CreatedAt.IsZero() {
		t.Fatalf("expected created_at with space layout to parse")
	}
}

func TestChildren_EmptyResultIsNotAnError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := New(srv.URL, "", nil)
	ents, err := c.Children(context.Background(), model.LevelTask, "us-9")
	if err != nil {
		t.Fatalf("empty list should succeed, got %v", err)
	}
	if len(ents) != 0 {
		t.Fatalf("expected zero entities, got %d", len(ents))
	}
}

func TestChildren_ServerErrorYieldsFetchError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"database offline"}`, http.StatusBadGateway)
	}))
	defer srv.Close()

	c := New(srv.URL, "", nil)
	_, err := c.Children(context.Background(), model.LevelProject, "pg-1")
	var fe *FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("expected *FetchError, got %T (%v)", err, err)
	}
	if fe.Status != http.StatusBadGateway {
		t.Fatalf("expected status 502, got %d", fe.Status)
	}
	if fe.Message != "database offline" {
		t.Fatalf("expected server error message, got %q", fe.Message)
	}
}

func TestCreateBug_LocalValidation(t *testing.T) {
	t.Parallel()

	c := New("http://unused.invalid", "", nil)
	_, err := c.CreateBug(context.Background(), BugDraft{ShortDesc: "no title"})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %T (%v)", err, err)
	}
	if verr.FieldError("title") == "" {
		t.Fatalf("expected a title field error, got %#v", verr.Fields)
	}
	if verr.FieldError("severity") == "" {
		t.Fatalf("expected a severity field error, got %#v", verr.Fields)
	}
}

func TestCreateBug_ServerValidationEnvelope(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"errors":{"assignee":"unknown user"}}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "", nil)
	_, err := c.CreateBug(context.Background(), BugDraft{
		ProjectID: "pr-1",
		Title:     "Login broken",
		Severity:  model.SeverityMajor,
		Assignee:  "ghost",
	})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError from 422 envelope, got %T (%v)", err, err)
	}
	if got := verr.FieldError("assignee"); got != "unknown user" {
		t.Fatalf("expected assignee message, got %q", got)
	}
}

func TestDo_SendsBearerToken(t *testing.T) {
	t.Parallel()

	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := New(srv.URL, "secret-token", nil)
	if _, err := c.Children(context.Background(), model.LevelClient, ""); err != nil {
		t.Fatalf("Children: %v", err)
	}
	if gotAuth != "Bearer secret-token" {
		t.Fatalf("expected bearer auth header, got %q", gotAuth)
	}
}
