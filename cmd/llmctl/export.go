package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nulzo/llm-provider-kit/internal/catalog"
	"github.com/nulzo/llm-provider-kit/internal/cli"
	"github.com/spf13/cobra"
)

func exportCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export [directory]",
		Short: "Write the probed models to models.json",
		Long:  "Collect every *_wnd.txt in directory (default: the ok dir) into one document mapping provider to client name and models with their window size.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := a.cfg.Catalog.OkDir
			if len(args) == 1 {
				dir = args[0]
			}
			if info, err := os.Stat(dir); err != nil || !info.IsDir() {
				return fmt.Errorf("%s non è una cartella", dir)
			}

			format, _ := cmd.Flags().GetString("format")
			f := catalog.Format(strings.ToLower(format))
			if f != catalog.FormatJSON && f != catalog.FormatYAML {
				return fmt.Errorf("formato %q non supportato (json, yaml)", format)
			}

			output, _ := cmd.Flags().GetString("output")
			if output == "" {
				output = a.cfg.Catalog.ExportFile
				if f == catalog.FormatYAML {
					output = strings.TrimSuffix(output, filepath.Ext(output)) + ".yaml"
				}
			}

			cat, err := catalog.LoadExportDir(dir, a.log)
			if err != nil {
				return err
			}
			if output == "-" {
				return catalog.NewExport(cat).Write(cmd.OutOrStdout(), f)
			}
			if err := catalog.NewExport(cat).WriteFile(output, f); err != nil {
				return err
			}

			cli.Outcome(cmd.OutOrStdout(), true,
				fmt.Sprintf("Generato %s", output),
				fmt.Sprintf("%d provider, %d modelli", len(cat.Providers()), cat.Len()))
			return nil
		},
	}
	cmd.Flags().StringP("format", "f", string(catalog.FormatJSON), "Output format: json or yaml")
	cmd.Flags().StringP("output", "o", "", "Output file, - for stdout (default: catalog.export_file)")
	return cmd
}
