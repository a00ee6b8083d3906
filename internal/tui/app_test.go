package tui

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/xvanc-yurii/veteran-aid/internal/api"
	"github.com/xvanc-yurii/veteran-aid/internal/config"
	"github.com/xvanc-yurii/veteran-aid/internal/query"
	"github.com/xvanc-yurii/veteran-aid/internal/session"
)

func newTestApp(t *testing.T, handler http.HandlerFunc) (*App, *session.Store, *query.Cache) {
	t.Helper()
	t.Setenv("VETAID_API_URL", "")
	t.Setenv("VETAID_TIMEOUT", "")

	home := t.TempDir()
	if err := config.InitHome(home); err != nil {
		t.Fatalf("init home: %v", err)
	}
	cfg, err := config.New(home)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	store, err := session.New(filepath.Join(home, "session", "token"))
	if err != nil {
		t.Fatalf("session store: %v", err)
	}
	cache := query.NewCache()
	// Mirrors the startup wiring: the cache tears down with the session.
	store.Subscribe(cache.Clear)

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client := api.NewClient(srv.URL, 5*time.Second,
		api.WithTokenSource(store.Token),
		api.WithUnauthorizedHook(store.Clear),
	)
	return NewApp(cfg, client, store, cache), store, cache
}

// drive runs commands to quiescence the way the bubbletea runtime would,
// skipping spinner ticks so busy states do not loop forever.
func drive(t *testing.T, app *App, cmd tea.Cmd) *App {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		msg := c()
		if msg == nil {
			continue
		}
		if batch, ok := msg.(tea.BatchMsg); ok {
			queue = append(queue, batch...)
			continue
		}
		if _, ok := msg.(spinner.TickMsg); ok {
			continue
		}
		model, next := app.Update(msg)
		var ok bool
		app, ok = model.(*App)
		if !ok {
			t.Fatalf("unexpected model type: %T", model)
		}
		queue = append(queue, next)
	}
	return app
}

func TestStartsAtLoginWhenLoggedOut(t *testing.T) {
	app, _, _ := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})
	if app.state != stateLogin {
		t.Fatalf("expected login state, got %d", app.state)
	}
}

func TestStartsAtMenuWithSavedSession(t *testing.T) {
	app, store, cache := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})
	if err := store.Login("saved-token"); err != nil {
		t.Fatal(err)
	}
	restarted := NewApp(app.cfg, app.client, store, cache)
	if restarted.state != stateMenu {
		t.Fatalf("a saved session should land on the menu, got state %d", restarted.state)
	}
}

func TestLoginRoutesToMenu(t *testing.T) {
	app, store, _ := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/login" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{"access_token": "tok-abc", "token_type": "bearer"}`))
	})
	app.authView.inputs[authFieldEmail].SetValue("vet@example.org")
	app.authView.inputs[authFieldPassword].SetValue("hunter22")

	app = drive(t, app, app.authView.submit())

	if app.state != stateMenu {
		t.Fatalf("expected menu after login, got state %d", app.state)
	}
	if store.Token() != "tok-abc" {
		t.Fatalf("token not persisted: %q", store.Token())
	}
}

func TestBadCredentialsStayInline(t *testing.T) {
	app, _, _ := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail": "Incorrect email or password"}`))
	})
	app.authView.inputs[authFieldEmail].SetValue("vet@example.org")
	app.authView.inputs[authFieldPassword].SetValue("wrong")

	app = drive(t, app, app.authView.submit())

	if app.state != stateLogin {
		t.Fatalf("bad credentials must stay on the login view, got state %d", app.state)
	}
	if app.authView.errMsg != "Incorrect email or password" {
		t.Fatalf("backend detail should surface inline, got %q", app.authView.errMsg)
	}
}

func TestExpiredSessionRoutesToLogin(t *testing.T) {
	app, store, cache := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail": "Could not validate credentials"}`))
	})
	if err := store.Login("stale-token"); err != nil {
		t.Fatal(err)
	}
	app.state = stateCases

	app = drive(t, app, app.cases.Open())

	if app.state != stateLogin {
		t.Fatalf("expected login after a 401, got state %d", app.state)
	}
	if store.Authenticated() {
		t.Fatalf("session should be cleared by the gateway hook")
	}
	if _, ok := cache.Peek(query.CasesKey()); ok {
		t.Fatalf("cache should be cleared by the gateway hook")
	}
}

func TestLogoutClearsEverything(t *testing.T) {
	app, store, cache := newTestApp(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})
	if err := store.Login("tok"); err != nil {
		t.Fatal(err)
	}
	if _, err := cache.Fetch(context.Background(), query.BenefitsKey(), func(context.Context) (interface{}, error) {
		return "catalog", nil
	}); err != nil {
		t.Fatal(err)
	}

	model, _ := app.logout()
	app = model.(*App)

	if app.state != stateLogin {
		t.Fatalf("expected login after logout, got state %d", app.state)
	}
	if store.Authenticated() {
		t.Fatalf("session should be cleared on logout")
	}
	if _, ok := cache.Peek(query.BenefitsKey()); ok {
		t.Fatalf("cache should be cleared on logout")
	}
}

func TestOpenCaseLoadsDetail(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/cases/7", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id": 7, "user_id": 1, "benefit_id": 2, "title": "Housing grant", "status": "draft"}`))
	})
	mux.HandleFunc("/cases/7/documents", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id": 1, "case_id": 7, "title": "DD214", "status": "required"}]`))
	})
	mux.HandleFunc("/cases/7/progress", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"case_id": 7, "total": 1, "required": 1, "percent": 0, "is_ready_to_submit": false, "is_ready_for_approval": false}`))
	})
	mux.HandleFunc("/cases/7/history", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id": 1, "case_id": 7, "status": "draft", "comment": "Case opened", "created_at": "2026-08-30T10:00:00"}]`))
	})
	mux.HandleFunc("/cases/7/artifacts", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})
	app, store, _ := newTestApp(t, mux.ServeHTTP)
	if err := store.Login("tok"); err != nil {
		t.Fatal(err)
	}

	app = drive(t, app, app.openCase(api.Case{ID: 7, Title: "Housing grant", Status: api.CaseDraft}))

	if app.state != stateCaseDetail {
		t.Fatalf("expected case detail state, got %d", app.state)
	}
	view := app.caseView
	if view == nil {
		t.Fatalf("case view missing")
	}
	if len(view.docs) != 1 || view.docs[0].Title != "DD214" {
		t.Fatalf("documents not loaded: %+v", view.docs)
	}
	if !view.hasServerProgress || view.serverProgress.Total != 1 {
		t.Fatalf("progress not loaded: %+v", view.serverProgress)
	}
	if len(view.history) != 1 {
		t.Fatalf("history not loaded: %+v", view.history)
	}
}
