// Package api exposes HTTP handlers for the Mapty server.
package api

import (
	"context"
	"encoding/json"
	"io/fs"
	"log"
	"math"
	"net/http"
	"time"

	"github.com/Ahmed221b/Mapty/internal/app"
	"github.com/Ahmed221b/Mapty/internal/browser"
	"github.com/Ahmed221b/Mapty/internal/domain"
	"github.com/Ahmed221b/Mapty/internal/listview"
	"github.com/Ahmed221b/Mapty/internal/mapview"
	"github.com/Ahmed221b/Mapty/internal/observability"
	"github.com/Ahmed221b/Mapty/internal/transport/ws"
)

// PageConfig holds the per-session settings handed to each controller.
type PageConfig struct {
	Zoom             int
	Location         *time.Location
	TileURL          string
	MapCreateTimeout time.Duration
}

// Handler serves the page, its WebSocket session and the read-only API.
type Handler struct {
	repo   app.Repository
	hub    *ws.Hub
	assets fs.FS
	page   PageConfig
	logger *log.Logger
}

// Option configures optional behaviour for the Handler.
type Option func(*Handler)

// WithLogger overrides the handler logger.
func WithLogger(logger *log.Logger) Option {
	return func(h *Handler) {
		h.logger = logger
	}
}

// WithPageConfig sets the session settings.
func WithPageConfig(cfg PageConfig) Option {
	return func(h *Handler) {
		h.page = cfg
	}
}

// NewHandler builds a Handler. assets must contain index.html.
func NewHandler(repo app.Repository, hub *ws.Hub, assets fs.FS, opts ...Option) *Handler {
	h := &Handler{
		repo:   repo,
		hub:    hub,
		assets: assets,
		page:   PageConfig{Zoom: app.DefaultZoom, Location: time.Local},
		logger: log.New(log.Writer(), "[api] ", log.LstdFlags|log.Lshortfile),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// RegisterRoutes wires endpoints to the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/", h.index)
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServerFS(h.assets)))
	mux.HandleFunc("/ws", h.session)
	mux.HandleFunc("/v1/workouts", h.workouts)
	mux.HandleFunc("/healthz", healthz)
}

// healthz reports a simple OK status for container health checks.
func healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *Handler) index(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeError(w, http.StatusNotFound, "not_found", "no such page")
		return
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}
	http.ServeFileFS(w, r, h.assets, "index.html")
}

func (h *Handler) workouts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}

	workouts := h.repo.Load(r.Context())
	resp := WorkoutListResponse{Workouts: make([]WorkoutView, 0, len(workouts))}
	for _, wk := range workouts {
		resp.Workouts = append(resp.Workouts, toWorkoutView(wk, h.page.Location))
	}
	writeJSON(w, http.StatusOK, resp)
}

// session upgrades the request and runs one controller for the page until the
// connection closes.
func (h *Handler) session(w http.ResponseWriter, r *http.Request) {
	var page *browser.Session
	conn, err := h.hub.Upgrade(w, r, func(c *ws.Conn) {
		page = browser.NewSession(c,
			browser.WithTileURL(h.page.TileURL),
			browser.WithCreateTimeout(h.page.MapCreateTimeout),
		)
		c.SetHandler(page.Handle)
	})
	if err != nil {
		// the upgrader has already written the response
		h.logger.Printf("websocket upgrade failed: %v", err)
		return
	}

	controller := app.NewController(app.Dependencies{
		Geolocator: page,
		Map:        mapview.New(page),
		List:       listview.New(page, h.page.Location),
		Form:       page,
		Alerts:     page,
		Repository: h.repo,
	},
		app.WithZoom(h.page.Zoom),
		app.WithLocation(h.page.Location),
		app.WithLogger(log.New(h.logger.Writer(), "[controller "+conn.ID[:8]+"] ", log.LstdFlags|log.Lshortfile)),
	)

	// the request context ends when this handler returns
	ctx, cancel := context.WithCancel(context.Background())
	controller.Start(ctx)

	observability.SessionOpened()
	go func() {
		<-conn.Done()
		cancel()
	}()
	go func() {
		defer observability.SessionClosed()
		_ = controller.Run(ctx)
	}()
}

// WorkoutListResponse is the body of GET /v1/workouts.
type WorkoutListResponse struct {
	Workouts []WorkoutView `json:"workouts"`
}

// WorkoutView is the read-only representation of a stored workout.
type WorkoutView struct {
	ID            string        `json:"id"`
	Type          domain.Type   `json:"type"`
	Description   string        `json:"description"`
	Date          time.Time     `json:"date"`
	Coords        domain.Coords `json:"coords"`
	Distance      float64       `json:"distance"`
	Duration      float64       `json:"duration"`
	Cadence       *float64      `json:"cadence,omitempty"`
	Pace          *float64      `json:"pace,omitempty"`
	ElevationGain *float64      `json:"elevationGain,omitempty"`
	Speed         *float64      `json:"speed,omitempty"`
}

func toWorkoutView(w domain.Workout, loc *time.Location) WorkoutView {
	view := WorkoutView{
		ID:          w.ID(),
		Type:        w.Type(),
		Description: domain.Describe(w, loc),
		Date:        w.Date(),
		Coords:      w.Coords(),
		Distance:    w.Distance(),
		Duration:    w.Duration(),
	}
	switch wk := w.(type) {
	case *domain.Running:
		cadence := wk.Cadence()
		view.Cadence, view.Pace = &cadence, finite(wk.Pace())
	case *domain.Cycling:
		elevation := wk.ElevationGain()
		view.ElevationGain, view.Speed = &elevation, finite(wk.Speed())
	}
	return view
}

// finite drops values JSON cannot carry.
func finite(v float64) *float64 {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return nil
	}
	return &v
}

type errorResponse struct {
	Type   string `json:"type"`
	Detail string `json:"detail"`
}

func writeError(w http.ResponseWriter, status int, errType, detail string) {
	writeJSON(w, status, errorResponse{Type: errType, Detail: detail})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
