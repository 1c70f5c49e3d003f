package main

import (
	"errors"
	"fmt"

	"github.com/nulzo/llm-provider-kit/internal/catalog/harvester"
	"github.com/nulzo/llm-provider-kit/internal/cli"
	"github.com/nulzo/llm-provider-kit/internal/llm"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// vendorNames are the display names used in the fetch summary.
var vendorNames = map[string]string{
	"groq":        "Groq",
	"gemini":      "Gemini",
	"mistral":     "Mistral",
	"huggingface": "HuggingFace",
	"openrouter":  "OpenRouter FREE",
	"cerebras":    "Cerebras",
}

func fetchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:       "fetch [provider...]",
		Short:     "Download model lists into the catalog directory",
		Long:      "Fetch each provider's model list, keep the newest version of every model and write models_<p>.txt, models_<p>_wnd.txt and models_<p>_info.txt. Without arguments every provider is fetched.",
		ValidArgs: harvester.Providers(),
		Args:      cobra.OnlyValidArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			providers := args
			if len(providers) == 0 {
				providers = harvester.Providers()
			}

			opts := []harvester.Option{
				harvester.WithKeys(a.key),
				harvester.WithTimeout(a.cfg.Fetch.Timeout),
			}
			if a.cfg.Fetch.Delay > 0 {
				opts = append(opts, harvester.WithDelay(a.cfg.Fetch.Delay))
			}
			for p, url := range a.cfg.Fetch.BaseURLs {
				opts = append(opts, harvester.WithBaseURL(p, url))
			}
			h := harvester.New(a.log, a.cfg.Catalog.DataDir, opts...)

			out := cmd.OutOrStdout()
			failed := 0
			for _, res := range h.HarvestAll(cmd.Context(), providers) {
				if res.Err != nil {
					failed++
					if errors.Is(res.Err, llm.ErrMissingAPIKey) {
						cli.Outcome(out, false, vendorName(res.Provider),
							fmt.Sprintf("ERRORE: Imposta la variabile d'ambiente %s", llm.EnvVars(res.Provider)[0]))
						continue
					}
					cli.Outcome(out, false, vendorName(res.Provider), fmt.Sprintf("Errore: %v", res.Err))
					continue
				}
				cli.Outcome(out, true, vendorName(res.Provider),
					fmt.Sprintf("Completato! Salvati %d modelli %s in %s/", len(res.Models), vendorName(res.Provider), a.cfg.Catalog.DataDir))
			}

			a.log.Debug("fetch finished", zap.Int("providers", len(providers)), zap.Int("failed", failed))
			if failed == len(providers) {
				return errors.New("nessun provider aggiornato")
			}
			return nil
		},
	}
}

func vendorName(provider string) string {
	if name, ok := vendorNames[provider]; ok {
		return name
	}
	return provider
}
