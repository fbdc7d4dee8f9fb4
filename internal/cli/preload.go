package cli

import (
	"fmt"
	"net/http"
	"text/tabwriter"
	"time"

	"github.com/leca/cdn-slide-dataset/internal/dataset"
	"github.com/spf13/cobra"
)

func newPreloadCmd(opts *globalOptions) *cobra.Command {
	var (
		flags   displayFlags
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "preload [image-id...]",
		Short: "Request every display URL so the CDN caches it",
		Long: `Preload issues a HEAD request for the display URL of each image,
all images at once, and reports the outcome per image. Without ids every
image in the dataset is preloaded. The command fails when any request fails.`,
		Example: `  # Warm the hero variant of every image
  slidekit preload --preset hero

  # Warm two images at a custom width
  slidekit preload mona-lisa starry-night --width 1280`,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := flags.display()
			if err != nil {
				return err
			}
			m, err := opts.load(cmd)
			if err != nil {
				return err
			}

			ids := args
			if len(ids) == 0 {
				for _, e := range m.AllImages() {
					ids = append(ids, e.ID)
				}
			}

			client := &http.Client{Timeout: timeout}
			report := m.PreloadImages(cmd.Context(), ids, d, dataset.HTTPFetch(client))

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, r := range report.Results {
				status := "ok"
				if r.Err() != nil {
					status = "FAIL"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", status, r.ID, r.URL, r.Error)
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			if report.Failed > 0 {
				return fmt.Errorf("%d of %d images failed to preload", report.Failed, len(report.Results))
			}
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "Timeout per request")

	return cmd
}
