// Package ui serves the browser front end of the query tool.
//
// Pages are rendered on the server. Every render probes the query service
// first; when the probe fails the query form is shown disabled together with
// instructions for starting the service.
package ui

import (
	"bytes"
	"context"
	"embed"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/policyscope/policyscope/internal/client"
	"github.com/policyscope/policyscope/internal/handler/dto"
	"github.com/policyscope/policyscope/internal/model"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Backend is the query service as seen by the UI.
type Backend interface {
	BaseURL() string
	Ping(ctx context.Context) (dto.InfoResponse, error)
	GetUserByID(ctx context.Context, id int64) client.Result
	GetUserByEmail(ctx context.Context, email string) client.Result
	SearchUsersByName(ctx context.Context, name string) client.Result
	GetPolicyByNumber(ctx context.Context, number string) client.Result
	GetPoliciesByUser(ctx context.Context, userID int64) client.Result
	GetPoliciesByStatus(ctx context.Context, status model.PolicyStatus) client.Result
	GetPoliciesByType(ctx context.Context, policyType model.PolicyType) client.Result
}

// Options tweak how the App presents itself.
type Options struct {
	// StartCommand is shown to the operator when the service is unreachable.
	StartCommand string
}

// App renders the query pages.
type App struct {
	backend Backend
	logger  *slog.Logger
	tmpl    *template.Template
	opts    Options
}

// New creates an App backed by b.
func New(b Backend, logger *slog.Logger, opts Options) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.StartCommand == "" {
		opts.StartCommand = "go run ./cmd/api"
	}
	tmpl, err := template.New("page").ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &App{backend: b, logger: logger, tmpl: tmpl, opts: opts}, nil
}

// Routes mounts the UI endpoints on r.
func (a *App) Routes(r chi.Router) {
	static, _ := fs.Sub(staticFS, "static")

	r.Get("/", a.Index)
	r.Get("/healthz", a.Healthz)
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))
}

// Healthz reports UI liveness. It does not touch the query service.
func (a *App) Healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}` + "\n"))
}

// alert is an inline message. Level is "success", "info", "warning" or "error".
type alert struct {
	Level string
	Text  string
}

type kindOption struct {
	Key      string
	Label    string
	Selected bool
}

type page struct {
	APIURL      string
	Connected   bool
	Kinds       []kindOption
	Kind        queryKind
	Value       string
	ShowRaw     bool
	Banner      []alert
	Result      *alert
	StartCmd    string
	Cards       []card
	Table       *table
	ResultCount int
}

// Index renders the query page and, when run=1, the result of one lookup.
// GET /?kind=...&value=...&run=1&raw=1
func (a *App) Index(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	kind := lookupKind(q.Get("kind"))

	p := page{
		APIURL:   a.backend.BaseURL(),
		Kind:     kind,
		Value:    kind.defaultValue(),
		ShowRaw:  q.Get("raw") == "1",
		StartCmd: a.opts.StartCommand,
	}
	for _, k := range queryKinds {
		p.Kinds = append(p.Kinds, kindOption{Key: k.Key, Label: k.Label, Selected: k.Key == kind.Key})
	}
	if q.Has("value") {
		p.Value = q.Get("value")
	}

	if _, err := a.backend.Ping(r.Context()); err != nil {
		a.logger.WarnContext(r.Context(), "api_unreachable", slog.String("error", err.Error()))
		p.Banner = []alert{
			{Level: "error", Text: "Cannot connect to API server. Please ensure the query service is running on " + p.APIURL},
		}
		a.render(w, http.StatusOK, p)
		return
	}
	p.Connected = true
	p.Banner = []alert{{Level: "success", Text: "Connected to API server"}}

	if q.Get("run") == "1" {
		a.runQuery(r.Context(), kind, &p)
	}

	a.render(w, http.StatusOK, p)
}

func (a *App) runQuery(ctx context.Context, kind queryKind, p *page) {
	value, hint := kind.checkValue(p.Value)
	if hint != "" {
		p.Result = &alert{Level: "info", Text: hint}
		return
	}

	res := kind.run(ctx, a.backend, value)
	a.logger.InfoContext(ctx, "query_rendered",
		slog.String("kind", kind.Key),
		slog.String("outcome", res.Outcome.String()),
		slog.Int("status_code", res.StatusCode),
	)

	switch res.Outcome {
	case client.OutcomeSuccess:
		if kind.Entity == entityUser {
			p.Cards = userCards(res.Users)
			p.ResultCount = len(res.Users)
			if p.ShowRaw {
				t := rawTable(res.Users)
				p.Table = &t
			}
		} else {
			p.Cards = policyCards(res.Policies)
			p.ResultCount = len(res.Policies)
			if p.ShowRaw {
				t := rawTable(res.Policies)
				p.Table = &t
			}
		}
	case client.OutcomeNotFound, client.OutcomeInvalid:
		p.Result = &alert{Level: "warning", Text: res.Message}
	default:
		p.Result = &alert{Level: "error", Text: res.Message}
	}
}

func (a *App) render(w http.ResponseWriter, status int, p page) {
	var buf bytes.Buffer
	if err := a.tmpl.ExecuteTemplate(&buf, "page.html", p); err != nil {
		a.logger.Error("template_render_failed", slog.String("error", err.Error()))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
