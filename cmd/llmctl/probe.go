package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/nulzo/llm-provider-kit/internal/catalog"
	"github.com/nulzo/llm-provider-kit/internal/cli"
	"github.com/nulzo/llm-provider-kit/internal/llm"
	"github.com/nulzo/llm-provider-kit/internal/probe"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func testCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "test [provider...]",
		Short: "Quick-test every cataloged model and keep the ones that answer",
		Long:  "Send a short prompt to each model in models_<p>.txt and write the models that answered to <ok-dir>/<p>_wnd.txt. Without arguments every provider with a catalog file is tested, in name order.",
		RunE: func(cmd *cobra.Command, args []string) error {
			providers, err := a.catalogProviders(args)
			if err != nil {
				return err
			}
			samples, _ := cmd.Flags().GetInt("samples")

			out := cmd.OutOrStdout()
			tested := 0
			for _, p := range providers {
				fmt.Fprintf(out, "Testing provider: %s\n", cli.Style(p, cli.Bold))

				key := a.key(p)
				if key == "" {
					cli.Warn(out, " Skipping %s: API key (%s) not found.", p, llm.EnvVars(p)[0])
					continue
				}
				candidates, err := probe.Candidates(a.cfg.Catalog.DataDir, p, false, a.log)
				if err != nil {
					cli.Warn(out, " %v", err)
					continue
				}
				clients, err := probe.Clients(p, key, a.cfg.Client.BaseURLs[p])
				if err != nil {
					cli.Warn(out, " %v", err)
					continue
				}

				prober := a.prober(probe.QuickTest, samples)
				results := prober.Run(cmd.Context(), p, clients, candidates, func(r probe.Result) {
					if r.OK {
						fmt.Fprintf(out, " Testing %s... %s\n", r.Model, cli.Style("OK", cli.Green))
						return
					}
					fmt.Fprintf(out, " Testing %s... %s %s\n", r.Model, cli.Style("FAILED", cli.Red), cli.Style(r.Error, cli.Dim))
				})
				tested++
				a.record(cmd.Context(), results)

				passed := probe.Passed(results)
				if len(passed) == 0 {
					fmt.Fprintf(out, "  Nessun modello funzionante trovato per %s.\n", p)
					continue
				}
				if err := probe.WritePassed(a.cfg.Catalog.OkDir, p, results); err != nil {
					return fmt.Errorf("errore scrittura output: %w", err)
				}
				cli.Outcome(out, true, fmt.Sprintf("Completato! Salvati %d modelli in %s", len(passed), catalog.RankedPath(a.cfg.Catalog.OkDir, p)), "")
			}

			if tested == 0 {
				return errors.New("nessun provider testato")
			}
			return nil
		},
	}
	cmd.Flags().Int("samples", 0, "Requests per model (overrides probe.samples)")
	return cmd
}

func rankCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rank <provider>",
		Short: "Rank a provider's chat models by response time",
		Long:  "Ask every chat-capable model of provider a real question, then write the models that answered to <ok-dir>/<p>_wnd.txt, fastest first.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := strings.ToLower(args[0])
			if _, err := llm.Get(p); err != nil {
				return unknownProvider(p)
			}
			samples, _ := cmd.Flags().GetInt("samples")
			out := cmd.OutOrStdout()

			key := a.key(p)
			if key == "" {
				return fmt.Errorf("chiave API per %s non trovata (%s)", p, strings.Join(llm.EnvVars(p), " o "))
			}

			candidates, err := probe.Candidates(a.cfg.Catalog.DataDir, p, true, a.log)
			if errors.Is(err, probe.ErrNoCandidates) {
				return fmt.Errorf("nessun modello chat-capable trovato per %s", p)
			}
			if err != nil {
				return err
			}
			clients, err := probe.Clients(p, key, a.cfg.Client.BaseURLs[p])
			if err != nil {
				return err
			}

			cli.Step(out, "Avvio test prestazioni per %d modelli di %s...", len(candidates), p)
			prober := a.prober(probe.Rank, samples)
			results := prober.Run(cmd.Context(), p, clients, candidates, func(r probe.Result) {
				fmt.Fprintf(out, "%-30s ... %s\n", r.Model, rankOutcome(r))
			})
			a.record(cmd.Context(), results)

			ranked := probe.Ranked(results)
			if len(ranked) == 0 {
				fmt.Fprintf(out, "\nNessun modello ha superato il test per %s.\n", p)
				return nil
			}

			fmt.Fprintln(out)
			cli.Header(out, fmt.Sprintf("Migliori modelli per %s (ordinati per velocità):", p))
			printRanking(out, ranked)

			if err := probe.WriteRanked(a.cfg.Catalog.OkDir, p, ranked); err != nil {
				return fmt.Errorf("errore scrittura output: %w", err)
			}
			fmt.Fprintf(out, "\nSalvati %d modelli in %s\n", len(ranked), catalog.RankedPath(a.cfg.Catalog.OkDir, p))
			return nil
		},
	}
	cmd.Flags().Int("samples", 0, "Requests per model (overrides probe.samples)")
	return cmd
}

// prober builds a probe for mode with the configured overrides. Zero values
// keep the mode's own settings.
func (a *app) prober(mode probe.Mode, samples int) *probe.Prober {
	if samples <= 0 {
		samples = a.cfg.Probe.Samples
	}
	opts := []probe.Option{
		probe.WithSamples(samples),
		probe.WithTimeout(a.cfg.Probe.Timeout),
		probe.WithPrompt(a.cfg.Probe.Query),
	}
	if a.cfg.Probe.Delay > 0 {
		opts = append(opts, probe.WithDelay(a.cfg.Probe.Delay))
	}
	p := probe.New(a.log, mode, opts...)
	a.log.Debug("probe run", zap.String("run_id", p.RunID()), zap.String("mode", mode.Name), zap.Int("samples", samples))
	return p
}

func rankOutcome(r probe.Result) string {
	if r.OK {
		return cli.Style(fmt.Sprintf("OK (%.2fs, %d car.)", r.Latency.Seconds(), r.Chars), cli.Green)
	}
	msg := r.Error
	if len(msg) > 30 {
		msg = msg[:30] + ".."
	}
	return cli.Style(fmt.Sprintf("FAILED (%s)", msg), cli.Red)
}

// printRanking colors rows from fast to slow.
func printRanking(w io.Writer, ranked []probe.Result) {
	last := float64(len(ranked) - 1)
	for i, r := range ranked {
		progress := 0.0
		if last > 0 {
			progress = float64(i) / last
		}
		line := fmt.Sprintf("%d. %s: tempo=%.2fs, finestra=%s", i+1, r.Model, r.Latency.Seconds(), catalog.FormatWindow(r.WindowSize))
		fmt.Fprintln(w, cli.Gradient(line, cli.Fast, cli.Slow, progress))
	}
}

// catalogProviders returns the requested providers, or every provider that
// has a models_<p>.txt in the catalog directory.
func (a *app) catalogProviders(args []string) ([]string, error) {
	dir := a.cfg.Catalog.DataDir
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("cartella %s non trovata", dir)
	}

	if len(args) > 0 {
		providers := make([]string, 0, len(args))
		for _, arg := range args {
			p := strings.ToLower(arg)
			if _, err := llm.Get(p); err != nil {
				return nil, unknownProvider(p)
			}
			providers = append(providers, p)
		}
		return providers, nil
	}

	matches, err := filepath.Glob(filepath.Join(dir, "models_*.txt"))
	if err != nil {
		return nil, err
	}
	var providers []string
	for _, m := range matches {
		p := strings.TrimSuffix(strings.TrimPrefix(filepath.Base(m), "models_"), ".txt")
		if _, err := llm.Get(p); err == nil {
			providers = append(providers, p)
		}
	}
	sort.Strings(providers)
	if len(providers) == 0 {
		return nil, fmt.Errorf("nessun catalogo in %s: esegui prima llmctl fetch", dir)
	}
	return providers, nil
}

func unknownProvider(p string) error {
	return fmt.Errorf("provider '%s' non riconosciuto. Disponibili: %s", p, strings.Join(llm.Providers(), ", "))
}
