package cli

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/leca/cdn-slide-dataset/internal/dataset"
	"github.com/leca/cdn-slide-dataset/internal/transform"
	"github.com/spf13/cobra"
)

func newInfoCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show dataset metadata and a summary of its images",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := opts.load(cmd)
			if err != nil {
				return err
			}
			meta := m.Metadata()

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(tw, "Dataset:\t%s\n", opts.dataset)
			fmt.Fprintf(tw, "Version:\t%s\n", meta.Version)
			fmt.Fprintf(tw, "Schema:\t%s\n", meta.SchemaVersion)
			fmt.Fprintf(tw, "Created:\t%s\n", meta.CreatedAt.Format(time.RFC3339))
			fmt.Fprintf(tw, "Updated:\t%s\n", meta.UpdatedAt.Format(time.RFC3339))
			if meta.Description != "" {
				fmt.Fprintf(tw, "Description:\t%s\n", meta.Description)
			}
			fmt.Fprintf(tw, "Images:\t%d\n", m.Len())
			fmt.Fprintf(tw, "Tags:\t%s\n", strings.Join(m.AllTags(), ", "))
			fmt.Fprintf(tw, "Artists:\t%s\n", strings.Join(m.AllArtists(), ", "))
			return tw.Flush()
		},
	}
}

func newSearchCmd(opts *globalOptions) *cobra.Command {
	var so dataset.SearchOptions

	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search images by caption and metadata",
		Example: `  # Captions containing "night"
  slidekit search night

  # Any image tagged landscape or portrait, painted in 1889
  slidekit search --tag landscape --tag portrait --year 1889`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := opts.load(cmd)
			if err != nil {
				return err
			}
			var query string
			if len(args) == 1 {
				query = args[0]
			}

			results := m.SearchImages(query, so)
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, e := range results {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", e.ID, e.Caption, strings.Join(e.Tags, ","))
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "%d of %d images matched\n", len(results), m.Len())
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&so.Tags, "tag", nil, "Match images carrying any of these tags (repeatable)")
	cmd.Flags().StringVar(&so.Artist, "artist", "", "Artist substring (case insensitive)")
	cmd.Flags().StringVar(&so.Year, "year", "", "Exact year")
	cmd.Flags().StringVar(&so.Collection, "collection", "", "Collection substring (case insensitive)")
	cmd.Flags().IntVar(&so.Limit, "limit", 0, "Maximum number of results (0 for all)")

	return cmd
}

// displayFlags collects the transform flags shared by url and preload.
type displayFlags struct {
	preset  string
	width   int
	height  int
	crop    string
	quality string
	format  string
	gravity string
}

func (f *displayFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.preset, "preset", "", "Transform preset ("+strings.Join(transform.PresetNames(), ", ")+")")
	cmd.Flags().IntVar(&f.width, "width", 0, "Width in pixels")
	cmd.Flags().IntVar(&f.height, "height", 0, "Height in pixels")
	cmd.Flags().StringVar(&f.crop, "crop", "", "Crop mode (scale, fill, fit, crop)")
	cmd.Flags().StringVar(&f.quality, "quality", "", "Quality (auto or 1-100)")
	cmd.Flags().StringVar(&f.format, "format", "", "Delivery format (auto, webp, jpg, png)")
	cmd.Flags().StringVar(&f.gravity, "gravity", "", "Crop gravity (auto, face, center, north, south, east, west)")
}

// display validates the flags through the same parser the HTTP API uses.
func (f *displayFlags) display() (dataset.Display, error) {
	q := url.Values{}
	set := func(key, v string) {
		if v != "" {
			q.Set(key, v)
		}
	}
	set("preset", f.preset)
	if f.width != 0 {
		set("width", strconv.Itoa(f.width))
	}
	if f.height != 0 {
		set("height", strconv.Itoa(f.height))
	}
	set("crop", f.crop)
	set("quality", f.quality)
	set("format", f.format)
	set("gravity", f.gravity)

	so, err := transform.ParseOptions(q)
	if err != nil {
		return nil, err
	}
	return dataset.DisplayFor(so), nil
}

func newURLCmd(opts *globalOptions) *cobra.Command {
	var flags displayFlags

	cmd := &cobra.Command{
		Use:   "url <image-id>",
		Short: "Print the display URL of an image",
		Example: `  slidekit url mona-lisa --preset hero
  slidekit url mona-lisa --width 640 --gravity face`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := flags.display()
			if err != nil {
				return err
			}
			m, err := opts.load(cmd)
			if err != nil {
				return err
			}
			c, ok := m.ImageWithCaption(args[0], d)
			if !ok {
				return fmt.Errorf("image %q: %w", args[0], dataset.ErrImageNotFound)
			}
			fmt.Fprintln(cmd.OutOrStdout(), c.Src)
			return nil
		},
	}
	flags.register(cmd)

	return cmd
}

func newSrcSetCmd(opts *globalOptions) *cobra.Command {
	var breakpoints []int

	cmd := &cobra.Command{
		Use:   "srcset <image-id>",
		Short: "Print a responsive srcset value for an image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, w := range breakpoints {
				if w <= 0 {
					return fmt.Errorf("invalid breakpoint %d: must be positive", w)
				}
			}
			m, err := opts.load(cmd)
			if err != nil {
				return err
			}
			if _, ok := m.Image(args[0]); !ok {
				return fmt.Errorf("image %q: %w", args[0], dataset.ErrImageNotFound)
			}
			srcset := m.SrcSet(args[0], breakpoints...)
			if srcset == "" {
				return fmt.Errorf("image %q is not served by the CDN", args[0])
			}
			fmt.Fprintln(cmd.OutOrStdout(), srcset)
			return nil
		},
	}

	cmd.Flags().IntSliceVar(&breakpoints, "breakpoints", nil, "Comma-separated widths (default 480,768,1024,1440,1920)")

	return cmd
}
