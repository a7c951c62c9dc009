package main

import (
	"github.com/spf13/cobra"

	"scenic-score/internal/report"
	"scenic-score/internal/scores/service"
)

func newInspectCmd(a *app) *cobra.Command {
	var (
		asJSON bool
		column string
	)
	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "Load one file and describe its columns and scores",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.loader.Load(args[0])
			if err != nil {
				return err
			}
			s := service.Summarize(res, column)
			if asJSON {
				return report.WriteJSON(cmd.OutOrStdout(), s)
			}
			return report.WriteSummary(cmd.OutOrStdout(), s)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	cmd.Flags().StringVar(&column, "column", "", "score column (default: resolved from the header)")
	return cmd
}
