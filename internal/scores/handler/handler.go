package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"scenic-score/internal/config"
	"scenic-score/internal/fileio"
	"scenic-score/internal/middleware"
	"scenic-score/internal/scores/model"
	"scenic-score/internal/scores/service"
)

// Analyzer is satisfied by *service.Aggregator.
type Analyzer interface {
	Analyze(ctx context.Context, dir string) (*model.Report, error)
}

func Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"}, zerolog.Nop())
}

// Report runs a fresh analysis of cfg.DataDir. ?top=N overrides the ranking
// length for this request.
func Report(cfg config.Config, agg Analyzer, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log := requestLogger(logger, r)

		top := atoi(r.URL.Query().Get("top"), cfg.TopN)
		if top < 1 {
			writeError(w, http.StatusBadRequest, "top must be positive", log)
			return
		}

		rep, err := agg.Analyze(r.Context(), cfg.DataDir)
		if err != nil {
			writeAnalyzeError(w, err, log)
			return
		}
		rep.Ranking = service.Rank(rep.Counts, top)

		writeJSON(w, http.StatusOK, rep, log)
		log.Info().
			Float64("global_max", rep.GlobalMax).
			Int("cities", len(rep.Counts)).
			Dur("elapsed", time.Since(start)).
			Msg("report done")
	}
}

// Probe analyses cfg.DataDir and probes whatever it could not read.
func Probe(cfg config.Config, agg Analyzer, prober service.FileProber, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := requestLogger(logger, r)

		rep, err := agg.Analyze(r.Context(), cfg.DataDir)
		if err != nil {
			writeAnalyzeError(w, err, log)
			return
		}
		pr, err := service.ProbeFiles(r.Context(), prober, cfg.DataDir, rep.ProblemFiles, log)
		if err != nil {
			writeError(w, http.StatusServiceUnavailable, err.Error(), log)
			return
		}
		writeJSON(w, http.StatusOK, pr, log)
	}
}

// File summarises one file of cfg.DataDir. ?column= picks the score column,
// otherwise it is resolved from the file's labels.
func File(cfg config.Config, loader service.TableLoader, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := requestLogger(logger, r)

		name := chi.URLParam(r, "name")
		if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
			writeError(w, http.StatusBadRequest, "bad file name", log)
			return
		}

		res, err := loader.Load(filepath.Join(cfg.DataDir, name))
		switch {
		case errors.Is(err, fs.ErrNotExist):
			writeError(w, http.StatusNotFound, "no such file: "+name, log)
			return
		case err != nil:
			log.Warn().Str("file", name).Err(err).Msg("file unreadable")
			writeError(w, http.StatusUnprocessableEntity, err.Error(), log)
			return
		}
		writeJSON(w, http.StatusOK, service.Summarize(res, r.URL.Query().Get("column")), log)
	}
}

func writeAnalyzeError(w http.ResponseWriter, err error, log zerolog.Logger) {
	switch {
	case errors.Is(err, service.ErrNoDataDir):
		log.Error().Err(err).Msg("analyze")
		writeError(w, http.StatusServiceUnavailable, err.Error(), log)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		log.Warn().Err(err).Msg("analyze cancelled")
		writeError(w, http.StatusServiceUnavailable, err.Error(), log)
	default:
		log.Error().Err(err).Msg("analyze")
		writeError(w, http.StatusInternalServerError, err.Error(), log)
	}
}

// Привяжем req_id, если middleware его проставил
func requestLogger(logger zerolog.Logger, r *http.Request) zerolog.Logger {
	if rid := middleware.GetRequestID(r); rid != "" {
		return logger.With().Str("req_id", rid).Logger()
	}
	return logger
}

func writeJSON(w http.ResponseWriter, status int, v any, log zerolog.Logger) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		log.Error().Err(err).Msg("write json")
	}
}

func writeError(w http.ResponseWriter, status int, msg string, log zerolog.Logger) {
	writeJSON(w, status, map[string]string{"error": msg}, log)
}

func atoi(s string, def int) int {
	if s == "" {
		return def
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}

// fileio.Loader and fileio.Prober are what the router passes in.
var (
	_ service.TableLoader = (*fileio.Loader)(nil)
	_ service.FileProber  = (*fileio.Prober)(nil)
)
