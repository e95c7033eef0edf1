package cmd

import (
	"fmt"

	"github.com/blang/semver"
	"github.com/creativeprojects/go-selfupdate"
	"github.com/spf13/cobra"
)

const repository = "s0up4200/waifuctl"

var checkOnly bool

var updateCmd = &cobra.Command{
	Use:         "update",
	Short:       "Update waifuctl to the latest release",
	Args:        cobra.NoArgs,
	Annotations: map[string]string{skipInit: ""},
	RunE:        runUpdate,
}

func init() {
	rootCmd.AddCommand(updateCmd)
	updateCmd.Flags().BoolVar(&checkOnly, "check", false, "only report whether an update is available")
}

func runUpdate(cmd *cobra.Command, args []string) error {
	current, err := semver.ParseTolerant(version)
	if err != nil {
		return fmt.Errorf("cannot update a development build (version %q)", version)
	}

	latest, found, err := selfupdate.DetectLatest(cmd.Context(), selfupdate.ParseSlug(repository))
	if err != nil {
		return fmt.Errorf("failed to detect latest release: %w", err)
	}
	if !found {
		return fmt.Errorf("no release found for %s", repository)
	}

	out := cmd.OutOrStdout()
	if latest.LessOrEqual(current.String()) {
		fmt.Fprintf(out, "waifuctl %s is up to date\n", current)
		return nil
	}

	if checkOnly {
		fmt.Fprintf(out, "waifuctl %s is available (current %s)\n", latest.Version(), current)
		return nil
	}

	exe, err := selfupdate.ExecutablePath()
	if err != nil {
		return fmt.Errorf("failed to locate executable: %w", err)
	}

	if err := selfupdate.UpdateTo(cmd.Context(), latest.AssetURL, latest.AssetName, exe); err != nil {
		return fmt.Errorf("failed to update binary: %w", err)
	}

	fmt.Fprintf(out, "Updated waifuctl %s -> %s\n", current, latest.Version())
	return nil
}
