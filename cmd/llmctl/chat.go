package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nulzo/llm-provider-kit/internal/cli"
	"github.com/nulzo/llm-provider-kit/internal/registry"
	"github.com/nulzo/llm-provider-kit/pkg/api"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func chatCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat <prompt...>",
		Short: "Send one prompt to a cataloged model",
		Long:  "Send a single-turn prompt. Without --provider and --model the first cataloged model of the first provider with a catalog is used.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			provider, _ := flags.GetString("provider")
			model, _ := flags.GetString("model")
			maxTokens, _ := flags.GetInt("max-tokens")
			asJSON, _ := flags.GetBool("json")

			reg := a.registry()
			sel, err := choose(reg, strings.ToLower(provider), model)
			if err != nil {
				return err
			}
			client, ok := reg.Client(sel.Client)
			if !ok {
				return fmt.Errorf("nessuna chiave API per %s", sel.Provider)
			}

			payload := api.NewPayload(sel.Model, strings.Join(args, " "))
			if maxTokens > 0 {
				payload["max_tokens"] = maxTokens
			}
			if flags.Changed("temperature") {
				t, _ := flags.GetFloat64("temperature")
				payload["temperature"] = t
			}

			a.log.Debug("chat", zap.String("provider", sel.Provider), zap.String("model", sel.Model))
			resp := client.SendRequest(cmd.Context(), payload)

			out := cmd.OutOrStdout()
			if asJSON {
				if err := cli.WriteJSON(out, resp); err != nil {
					return err
				}
				if resp.IsError() {
					return errors.New(resp.Error.Message)
				}
				return nil
			}
			if resp.IsError() {
				return fmt.Errorf("errore durante la richiesta: %s", resp.Error.Message)
			}

			cli.Header(out, fmt.Sprintf("Risposta dal modello %s/%s:", sel.Provider, sel.Model))
			fmt.Fprintln(out, resp.Data.Content)
			if u := resp.Data.Usage; u != nil {
				fmt.Fprintln(out, cli.Style(fmt.Sprintf("\ntoken: %d in, %d out", u.PromptTokens, u.CompletionTokens), cli.Dim))
			}
			return nil
		},
	}
	cmd.Flags().StringP("provider", "p", "", "Provider to use")
	cmd.Flags().StringP("model", "m", "", "Model id (needs --provider)")
	cmd.Flags().Int("max-tokens", 0, "Maximum tokens in the reply")
	cmd.Flags().Float64("temperature", 0, "Sampling temperature")
	cmd.Flags().Bool("json", false, "Print the raw response envelope")
	return cmd
}

// choose resolves the target model. A model the catalog does not list is still
// allowed when a provider is named.
func choose(reg *registry.Registry, provider, model string) (registry.Selection, error) {
	switch {
	case provider == "" && model != "":
		return registry.Selection{}, errors.New("--model richiede --provider")
	case provider != "" && model != "":
		if reg.SetSelection(provider, model) {
			return reg.Selection(), nil
		}
		return registry.Selection{Provider: provider, Model: model, Client: provider}, nil
	case provider != "":
		models := reg.Catalog().Models(provider)
		if len(models) == 0 {
			return registry.Selection{}, fmt.Errorf("nessun modello in catalogo per %s", provider)
		}
		reg.SetSelection(provider, models[0].ID)
		return reg.Selection(), nil
	}

	sel := reg.Selection()
	if sel.IsZero() {
		return sel, errors.New("catalogo vuoto: esegui prima llmctl fetch")
	}
	return sel, nil
}
