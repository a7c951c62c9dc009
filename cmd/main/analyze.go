package main

import (
	"github.com/spf13/cobra"

	"scenic-score/internal/report"
	"scenic-score/internal/scores/model"
	"scenic-score/internal/scores/service"
)

func newAnalyzeCmd(a *app) *cobra.Command {
	var (
		asJSON bool
		probe  bool
		top    int
	)
	cmd := &cobra.Command{
		Use:   "analyze [dir]",
		Short: "Find the top score and rank cities by how many attractions reach it",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := a.cfg.DataDir
			if len(args) == 1 {
				dir = args[0]
			}
			rep, err := a.agg.Analyze(cmd.Context(), dir)
			if err != nil {
				return err
			}
			if top > 0 {
				rep.Ranking = service.Rank(rep.Counts, top)
			}

			var pr *model.ProbeReport
			if probe && len(rep.ProblemFiles) > 0 {
				a.log.Info().Int("files", len(rep.ProblemFiles)).Msg("probing problem files")
				if pr, err = service.ProbeFiles(cmd.Context(), a.prober, dir, rep.ProblemFiles, a.log); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return report.WriteJSON(out, struct {
					*model.Report
					Probe *model.ProbeReport `json:"probe,omitempty"`
				}{rep, pr})
			}
			if err := report.WriteText(out, rep); err != nil {
				return err
			}
			if pr != nil {
				return report.WriteProbeReport(out, pr)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")
	cmd.Flags().BoolVar(&probe, "probe", true, "probe files that could not be read")
	cmd.Flags().IntVar(&top, "top", 0, "ranking length (default from config)")
	return cmd
}
