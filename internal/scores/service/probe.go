package service

import (
	"context"
	"path/filepath"

	"github.com/rs/zerolog"

	"scenic-score/internal/fileio"
	"scenic-score/internal/scores/model"
)

// FileProber is satisfied by *fileio.Prober.
type FileProber interface {
	Probe(path string) (*fileio.ProbeResult, error)
}

// ProbeFiles runs the diagnostic probe on each named file under dir.
// A probe that cannot even read its file is recorded in Errors.
func ProbeFiles(ctx context.Context, p FileProber, dir string, files []string, log zerolog.Logger) (*model.ProbeReport, error) {
	rep := &model.ProbeReport{DataDir: dir, Results: []*fileio.ProbeResult{}}
	for _, name := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		res, err := p.Probe(filepath.Join(dir, name))
		if err != nil {
			if rep.Errors == nil {
				rep.Errors = map[string]string{}
			}
			rep.Errors[name] = err.Error()
			log.Warn().Str("file", name).Err(err).Msg("probe failed")
			continue
		}
		ev := log.Info().Str("file", name).Str("encoding", res.Encoding)
		if res.Detected != nil {
			ev = ev.Str("detected", res.Detected.Charset).Int("confidence", res.Detected.Confidence)
		}
		ev.Msg("file probed")
		rep.Results = append(rep.Results, res)
	}
	return rep, nil
}
