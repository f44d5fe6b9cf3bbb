package api

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gyaneshwarpardhi/banksim/internal/config"
	"github.com/gyaneshwarpardhi/banksim/internal/scheduler"
)

// Generator is the running scheduler as seen by the ops endpoints.
type Generator interface {
	Plan() *scheduler.Plan
	Stats() scheduler.Stats
}

// Reloader re-reads the generator config. Registered change callbacks are
// responsible for swapping the plan.
type Reloader interface {
	Config() *config.GeneratorConfig
	Reload() (*config.GeneratorConfig, error)
}

// Handler holds all HTTP handler dependencies.
type Handler struct {
	gen    Generator
	loader Reloader
	now    func() time.Time
	mux    *http.ServeMux
}

// New creates an HTTP handler and registers all routes.
func New(gen Generator, loader Reloader) http.Handler {
	return newHandler(gen, loader, time.Now)
}

func newHandler(gen Generator, loader Reloader, now func() time.Time) http.Handler {
	h := &Handler{gen: gen, loader: loader, now: now, mux: http.NewServeMux()}

	h.mux.HandleFunc("GET /v1/catalog", h.getCatalog)
	h.mux.HandleFunc("GET /v1/stats", h.getStats)
	h.mux.HandleFunc("POST /v1/reload", h.reload)
	h.mux.HandleFunc("GET /healthz", h.healthz)
	h.mux.Handle("GET /metrics", promhttp.Handler())

	return loggingMiddleware(h.mux)
}

type kindView struct {
	Name        string  `json:"name"`
	Severity    string  `json:"severity"`
	Weight      float64 `json:"weight"`
	Probability float64 `json:"probability"`
}

type windowView struct {
	Name       string  `json:"name"`
	Start      int     `json:"start"`
	End        int     `json:"end"`
	Multiplier float64 `json:"multiplier"`
}

// GET /v1/catalog: kinds with their draw probability, and the activity windows.
func (h *Handler) getCatalog(w http.ResponseWriter, r *http.Request) {
	plan := h.gen.Plan()
	total := plan.Catalog.Total()
	kinds := make([]kindView, 0, plan.Catalog.Len())
	for _, s := range plan.Catalog.List() {
		kinds = append(kinds, kindView{
			Name:        s.Name,
			Severity:    s.Severity.String(),
			Weight:      s.Weight,
			Probability: s.Weight / total,
		})
	}
	var windows []windowView
	for _, win := range plan.Profile.Windows() {
		windows = append(windows, windowView{Name: win.Name, Start: win.Start, End: win.End, Multiplier: win.Multiplier})
	}
	cfg := h.loader.Config()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"service": cfg.Service,
		"version": cfg.Version,
		"kinds":   kinds,
		"windows": windows,
	})
}

// GET /v1/stats: running totals plus the activity of the current hour.
func (h *Handler) getStats(w http.ResponseWriter, r *http.Request) {
	hour := h.now().Hour()
	plan := h.gen.Plan()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"service":    h.loader.Config().Service,
		"stats":      h.gen.Stats(),
		"hour":       hour,
		"window":     plan.Profile.WindowName(hour),
		"multiplier": plan.Profile.MultiplierFor(hour),
	})
}

// POST /v1/reload: re-read the config from disk and swap the plan.
func (h *Handler) reload(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.loader.Reload()
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"reloaded":    true,
		"version":     cfg.Version,
		"kinds_count": len(cfg.Catalog),
	})
}

// GET /healthz: always 200 (liveness probe).
func (h *Handler) healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
