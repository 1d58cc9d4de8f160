package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/blang/semver"
	"github.com/creativeprojects/go-selfupdate"
	"github.com/spf13/cobra"
)

var updateCheckOnly bool

// updateCmd represents the update command
var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update reelgrid to the latest release",
	Long:  `Check the release page for a newer version of reelgrid and replace the running binary with it.`,
	RunE:  runUpdate,
}

func init() {
	updateCmd.Flags().BoolVar(&updateCheckOnly, "check", false, "only report whether an update is available")
}

// errDevBuild is returned when the running binary has no release version
var errDevBuild = errors.New("cannot update a development build")

// releaseFinder looks up the newest release of a repository
type releaseFinder func(ctx context.Context, repository string) (*selfupdate.Release, bool, error)

func detectLatest(ctx context.Context, repository string) (*selfupdate.Release, bool, error) {
	return selfupdate.DetectLatest(ctx, selfupdate.ParseSlug(repository))
}

func runUpdate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	latest, newer, err := checkForUpdate(ctx, out, detectLatest, cfg.Update.Repository, version)
	if err != nil {
		return err
	}
	if !newer || updateCheckOnly {
		return nil
	}

	exe, err := selfupdate.ExecutablePath()
	if err != nil {
		return fmt.Errorf("could not locate executable path: %w", err)
	}

	fmt.Fprintf(out, "Updating to %s...\n", latest.Version())
	if err := selfupdate.UpdateTo(ctx, latest.AssetURL, latest.AssetName, exe); err != nil {
		return fmt.Errorf("failed to update binary: %w", err)
	}

	fmt.Fprintf(out, "✓ Updated to %s\n", latest.Version())
	return nil
}

// checkForUpdate reports whether the newest release of repository is newer
// than current
func checkForUpdate(ctx context.Context, out io.Writer, find releaseFinder, repository, current string) (*selfupdate.Release, bool, error) {
	currentVersion, err := semver.ParseTolerant(current)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %q", errDevBuild, current)
	}

	latest, found, err := find(ctx, repository)
	if err != nil {
		return nil, false, fmt.Errorf("error occurred while detecting version: %w", err)
	}
	if !found {
		return nil, false, fmt.Errorf("no release found for %s", repository)
	}

	latestVersion, err := semver.ParseTolerant(latest.Version())
	if err != nil {
		return nil, false, fmt.Errorf("invalid release version %q: %w", latest.Version(), err)
	}

	if latestVersion.LTE(currentVersion) {
		fmt.Fprintf(out, "✓ reelgrid %s is up to date\n", currentVersion)
		return latest, false, nil
	}

	fmt.Fprintf(out, "A new version is available: %s (current %s)\n", latestVersion, currentVersion)
	if latest.ReleaseNotes != "" {
		fmt.Fprintf(out, "\n%s\n\n", latest.ReleaseNotes)
	}
	return latest, true, nil
}
