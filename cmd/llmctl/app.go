package main

import (
	"context"
	"errors"
	"os"

	"github.com/nulzo/llm-provider-kit/internal/analytics"
	"github.com/nulzo/llm-provider-kit/internal/cli"
	"github.com/nulzo/llm-provider-kit/internal/config"
	"github.com/nulzo/llm-provider-kit/internal/llm"
	"github.com/nulzo/llm-provider-kit/internal/platform/logger"
	"github.com/nulzo/llm-provider-kit/internal/probe"
	"github.com/nulzo/llm-provider-kit/internal/registry"
	"github.com/nulzo/llm-provider-kit/internal/store/sqlite"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// errNoStore is returned by commands that need the history database when
// store.path is empty.
var errNoStore = errors.New("storico disabilitato: imposta store.path")

// app is the state shared by every subcommand, filled in before each run.
type app struct {
	cfg  *config.Config
	log  *zap.Logger
	keys map[string]string
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "llmctl",
		Short: "Catalog, probe and query free-tier LLM providers",
		Long: `llmctl harvests the model lists of Groq, Gemini, Mistral, HuggingFace,
OpenRouter and Cerebras into data/, probes which models answer, ranks them
by latency into data_ok/, and exports the survivors to models.json.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			logger.Sync()
		},
	}

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().Bool("no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().String("data-dir", "", "Catalog directory (overrides catalog.data_dir)")
	rootCmd.PersistentFlags().String("ok-dir", "", "Probe output directory (overrides catalog.ok_dir)")

	rootCmd.AddCommand(
		fetchCmd(a),
		testCmd(a),
		rankCmd(a),
		exportCmd(a),
		chatCmd(a),
		historyCmd(a),
		versionCmd(),
	)
	return rootCmd
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if dir, _ := flags.GetString("data-dir"); dir != "" {
		cfg.Catalog.DataDir = dir
	}
	if dir, _ := flags.GetString("ok-dir"); dir != "" {
		cfg.Catalog.OkDir = dir
	}
	if noColor, _ := flags.GetBool("no-color"); noColor {
		cfg.Log.Color = false
		cli.SetEnabled(false)
	}

	if err := logger.Initialize(cfg.Log.Logger("stderr")); err != nil {
		return err
	}
	if verbose, _ := flags.GetBool("verbose"); verbose {
		logger.SetLevel("debug")
	}

	a.cfg = cfg
	a.log = logger.Get()
	a.keys = a.loadKeys()
	return nil
}

// loadKeys reads the credentials file. A missing file is normal: keys then
// come from the environment alone.
func (a *app) loadKeys() map[string]string {
	creds, err := config.LoadCredentials(a.cfg.Credentials.Path)
	if err != nil {
		if _, statErr := os.Stat(a.cfg.Credentials.Path); statErr == nil {
			a.log.Warn("credentials file unreadable", zap.String("path", a.cfg.Credentials.Path), zap.Error(err))
		}
		return map[string]string{}
	}
	return creds.Keys()
}

// key resolves provider's API key: the environment first, then the
// credentials file.
func (a *app) key(provider string) string {
	if key := llm.KeyFromEnv(provider); key != "" {
		return key
	}
	return registry.ResolveKey(a.keys, provider)
}

func (a *app) registry() *registry.Registry {
	return registry.New(
		registry.WithLogger(a.log),
		registry.WithDataDir(a.cfg.Catalog.DataDir),
		registry.WithKeySource(func() (map[string]string, error) {
			keys := make(map[string]string)
			for _, name := range llm.Providers() {
				if key := a.key(name); key != "" {
					keys[name] = key
				}
			}
			return keys, nil
		}),
		registry.WithBaseURLs(a.cfg.Client.BaseURLs),
	)
}

// history opens the sqlite store when one is configured. The returned close
// func is never nil.
func (a *app) history() (analytics.Service, func(), error) {
	if a.cfg.Store.Path == "" {
		return nil, func() {}, errNoStore
	}
	repo, err := sqlite.Open(a.cfg.Store.Path, a.log)
	if err != nil {
		return nil, func() {}, err
	}
	return analytics.NewService(repo), func() { _ = repo.Close() }, nil
}

// record stores probe results when history is enabled. Failures are logged:
// the probe output files are already written.
func (a *app) record(ctx context.Context, results []probe.Result) {
	if a.cfg.Store.Path == "" || len(results) == 0 {
		return
	}
	svc, closeFn, err := a.history()
	defer closeFn()
	if err != nil {
		a.log.Error("failed to open history store", zap.Error(err))
		return
	}
	if err := svc.RecordProbes(ctx, results); err != nil {
		a.log.Error("failed to record probe results", zap.Error(err))
	}
}
