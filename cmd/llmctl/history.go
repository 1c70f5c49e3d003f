package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/nulzo/llm-provider-kit/internal/catalog"
	"github.com/nulzo/llm-provider-kit/internal/cli"
	"github.com/spf13/cobra"
)

func historyCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [provider]",
		Short: "Show recorded probe results",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			provider := ""
			if len(args) == 1 {
				provider = strings.ToLower(args[0])
			}
			limit, _ := cmd.Flags().GetInt("limit")

			svc, closeFn, err := a.history()
			defer closeFn()
			if err != nil {
				return err
			}
			rows, err := svc.ProbeHistory(cmd.Context(), provider, limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(rows) == 0 {
				cli.Warn(out, "Nessun risultato registrato.")
				return nil
			}

			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "DATA\tMODO\tPROVIDER\tMODELLO\tESITO\tTEMPO\tFINESTRA")
			for _, r := range rows {
				outcome := "OK"
				if !r.OK {
					outcome = "FAILED"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%.2fs\t%s\n",
					r.CreatedAt.Local().Format("2006-01-02 15:04"),
					r.Mode, r.Provider, r.Model, outcome,
					float64(r.LatencyMS)/1000, catalog.FormatWindow(r.WindowSize))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntP("limit", "n", 20, "Rows to show")
	return cmd
}
