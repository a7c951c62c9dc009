package serverhttp

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"scenic-score/internal/config"
	"scenic-score/internal/middleware"
	scoreHnd "scenic-score/internal/scores/handler"
	"scenic-score/internal/scores/service"
)

// Deps are the long-lived objects the handlers share.
type Deps struct {
	Analyzer scoreHnd.Analyzer
	Loader   service.TableLoader
	Prober   service.FileProber
	Metrics  http.Handler // nil: no /metrics
}

func NewRouter(cfg config.Config, deps Deps, logger zerolog.Logger) *chi.Mux {
	r := chi.NewRouter()

	// порядок важен: recover -> requestID -> logging -> cors
	r.Use(middleware.Recover(logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CORS(cfg.AllowOrigins))

	r.Get("/health", scoreHnd.Health)

	r.Get("/report", scoreHnd.Report(cfg, deps.Analyzer, logger))
	r.Get("/probe", scoreHnd.Probe(cfg, deps.Analyzer, deps.Prober, logger))
	r.Get("/files/{name}", scoreHnd.File(cfg, deps.Loader, logger))

	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics)
	}
	return r
}
