package cli

import (
	"fmt"
	"time"

	"github.com/leca/cdn-slide-dataset/internal/version"
	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Generate, parse and compare dataset version strings",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "new",
			Short: "Print a version string for the current time",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				fmt.Fprintln(cmd.OutOrStdout(), version.GenerateVersion())
				return nil
			},
		},
		&cobra.Command{
			Use:   "parse <version>",
			Short: "Print the instant encoded in a version string",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				t, ok := version.ParseVersion(args[0])
				if !ok {
					return fmt.Errorf("not a timestamp version: %q", args[0])
				}
				fmt.Fprintln(cmd.OutOrStdout(), t.UTC().Format(time.RFC3339Nano))
				return nil
			},
		},
		&cobra.Command{
			Use:   "compare <a> <b>",
			Short: "Print -1, 0 or 1 as a is older than, equal to or newer than b",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				fmt.Fprintln(cmd.OutOrStdout(), version.CompareVersions(args[0], args[1]))
				return nil
			},
		},
	)

	return cmd
}
