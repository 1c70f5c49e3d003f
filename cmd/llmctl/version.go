package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-version"
	"github.com/nulzo/llm-provider-kit/internal/cli"
	"github.com/spf13/cobra"
)

// releasesURL is where `version --check` looks for the latest tag.
var releasesURL = "https://api.github.com/repos/nulzo/llm-provider-kit/releases/latest"

type gitHubRelease struct {
	TagName string `json:"tag_name"`
}

func versionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		// version needs no config or logger.
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "llmctl %s (%s)\n", appVersion, commit)

			if check, _ := cmd.Flags().GetBool("check"); check {
				checkForUpdates(cmd.Context(), out, appVersion)
			}
			return nil
		},
	}
	cmd.Flags().Bool("check", false, "Check GitHub for a newer release")
	return cmd
}

// checkForUpdates prints a notice when a newer release exists. Network
// problems are silent.
func checkForUpdates(ctx context.Context, w io.Writer, running string) {
	latest, err := latestVersion(ctx)
	if err != nil {
		return
	}
	current, err := version.NewVersion(running)
	if err != nil {
		return
	}

	if current.LessThan(latest) {
		cli.Warn(w, "Stai usando una versione obsoleta (%s). L'ultima è %s.", running, latest.Original())
		return
	}
	cli.Outcome(w, true, "Versione aggiornata", "")
}

func latestVersion(ctx context.Context) (*version.Version, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, releasesURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("releases: status %d", resp.StatusCode)
	}

	var release gitHubRelease
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return nil, err
	}
	return version.NewVersion(release.TagName)
}
