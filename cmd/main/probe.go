package main

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"scenic-score/internal/fileio"
	"scenic-score/internal/report"
	"scenic-score/internal/scores/model"
)

func newProbeCmd(a *app) *cobra.Command {
	var (
		asJSON bool
		nbytes int
	)
	cmd := &cobra.Command{
		Use:   "probe <file>...",
		Short: "Show how each candidate encoding reads the start of a file",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := a.prober
			if nbytes > 0 {
				p = fileio.NewProber(
					fileio.WithProbeBytes(nbytes),
					fileio.WithProbeHeaderRow(a.cfg.HeaderRow),
					fileio.WithProbeLogger(a.log),
				)
			}
			pr := &model.ProbeReport{}
			for _, path := range args {
				res, err := p.Probe(path)
				if err != nil {
					if pr.Errors == nil {
						pr.Errors = map[string]string{}
					}
					pr.Errors[filepath.Base(path)] = err.Error()
					a.log.Warn().Str("file", path).Err(err).Msg("probe failed")
					continue
				}
				pr.Results = append(pr.Results, res)
			}
			if asJSON {
				return report.WriteJSON(cmd.OutOrStdout(), pr)
			}
			return report.WriteProbeReport(cmd.OutOrStdout(), pr)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	cmd.Flags().IntVar(&nbytes, "bytes", 0, "header bytes to dump (default from config)")
	return cmd
}
