package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	. "github.com/smartystreets/goconvey/convey"

	"scenic-score/internal/config"
	"scenic-score/internal/fileio"
	"scenic-score/internal/scores/model"
	"scenic-score/internal/scores/service"
)

type failingAnalyzer struct{ err error }

func (f failingAnalyzer) Analyze(context.Context, string) (*model.Report, error) { return nil, f.err }

func seedDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"A.csv": "名称,评分\n甲,9.5\n乙,9.5\n",
		"B.csv": "名称,评分\n丙,9.5\n丁,8\n",
		"C.csv": "名称,评分\n戊,9.9,多余\n",
	}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func newTestRouter(cfg config.Config, agg Analyzer) http.Handler {
	loader := fileio.NewLoader()
	r := chi.NewRouter()
	r.Get("/health", Health)
	r.Get("/report", Report(cfg, agg, zerolog.Nop()))
	r.Get("/probe", Probe(cfg, agg, fileio.NewProber(), zerolog.Nop()))
	r.Get("/files/{name}", File(cfg, loader, zerolog.Nop()))
	return r
}

func get(h http.Handler, target string) *httptest.ResponseRecorder {
	rw := httptest.NewRecorder()
	h.ServeHTTP(rw, httptest.NewRequest(http.MethodGet, target, nil))
	return rw
}

func TestHandlers(t *testing.T) {
	Convey("Given a data directory behind the router", t, func() {
		cfg := config.Default()
		cfg.DataDir = seedDir(t)
		agg := service.NewAggregator(fileio.NewLoader())
		h := newTestRouter(cfg, agg)

		Convey("GET /health answers ok", func() {
			rw := get(h, "/health")
			So(rw.Code, ShouldEqual, http.StatusOK)
			So(rw.Body.String(), ShouldContainSubstring, `"ok"`)
		})

		Convey("GET /report returns the analysis", func() {
			rw := get(h, "/report")
			So(rw.Code, ShouldEqual, http.StatusOK)
			So(rw.Header().Get("Cache-Control"), ShouldEqual, "no-store")

			var rep model.Report
			So(json.Unmarshal(rw.Body.Bytes(), &rep), ShouldBeNil)
			So(rep.GlobalMax, ShouldEqual, 9.5)
			So(rep.Ranking, ShouldResemble, []model.CityCount{{City: "A", Count: 2}, {City: "B", Count: 1}})
			So(rep.ProblemFiles, ShouldResemble, []string{"C.csv"})
		})

		Convey("?top limits the ranking", func() {
			var rep model.Report
			So(json.Unmarshal(get(h, "/report?top=1").Body.Bytes(), &rep), ShouldBeNil)
			So(rep.Ranking, ShouldHaveLength, 1)
			So(rep.Counts, ShouldHaveLength, 2)

			So(get(h, "/report?top=0").Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("GET /probe probes the problem files", func() {
			rw := get(h, "/probe")
			So(rw.Code, ShouldEqual, http.StatusOK)

			var pr model.ProbeReport
			So(json.Unmarshal(rw.Body.Bytes(), &pr), ShouldBeNil)
			So(pr.Results, ShouldHaveLength, 1)
			So(pr.Results[0].File, ShouldEqual, "C.csv")
			So(pr.Results[0].Encoding, ShouldBeEmpty)
		})

		Convey("GET /files/{name} summarises a file", func() {
			rw := get(h, "/files/A.csv")
			So(rw.Code, ShouldEqual, http.StatusOK)

			var s model.FileSummary
			So(json.Unmarshal(rw.Body.Bytes(), &s), ShouldBeNil)
			So(s.ScoreColumn, ShouldEqual, "评分")
			So(*s.ScoreMax, ShouldEqual, 9.5)
		})

		Convey("File errors map to status codes", func() {
			So(get(h, "/files/nope.csv").Code, ShouldEqual, http.StatusNotFound)
			So(get(h, "/files/C.csv").Code, ShouldEqual, http.StatusUnprocessableEntity)
			So(get(h, "/files/..").Code, ShouldEqual, http.StatusBadRequest)
		})
	})

	Convey("Given an analyzer that cannot see its directory", t, func() {
		cfg := config.Default()
		h := newTestRouter(cfg, failingAnalyzer{err: service.ErrNoDataDir})

		So(get(h, "/report").Code, ShouldEqual, http.StatusServiceUnavailable)
		So(get(h, "/probe").Code, ShouldEqual, http.StatusServiceUnavailable)
	})

	Convey("Any other analyzer error is a 500", t, func() {
		h := newTestRouter(config.Default(), failingAnalyzer{err: errors.New("boom")})
		rw := get(h, "/report")
		So(rw.Code, ShouldEqual, http.StatusInternalServerError)
		So(rw.Body.String(), ShouldContainSubstring, "boom")
	})
}
