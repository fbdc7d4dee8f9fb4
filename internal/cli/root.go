// Package cli implements the slidekit command line tool for working with
// dataset files on disk.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/leca/cdn-slide-dataset/internal/dataset"
	"github.com/leca/cdn-slide-dataset/internal/storage"
	"github.com/spf13/cobra"
)

const (
	defaultDir     = "./datasets"
	defaultDataset = "default"
)

// globalOptions are the persistent flags shared by every subcommand.
type globalOptions struct {
	dir     string
	dataset string
	verbose bool
}

// resolve fills unset flags from the environment, which PersistentPreRun
// may have extended from a .env file.
func (o *globalOptions) resolve() {
	if o.dir == "" {
		o.dir = envOr("DS_STORAGE_PATH", defaultDir)
	}
	if o.dataset == "" {
		o.dataset = envOr("DS_DATASET", defaultDataset)
	}
}

func (o *globalOptions) store() *storage.FileSystem {
	return storage.NewFileSystem(o.dir)
}

func (o *globalOptions) logger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelWarn
	if o.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}

// load reads the selected dataset.
func (o *globalOptions) load(cmd *cobra.Command) (*dataset.Manager, error) {
	m, err := storage.LoadDataset(o.store(), o.dataset, dataset.WithLogger(o.logger(cmd)))
	if err != nil {
		return nil, fmt.Errorf("load dataset %q from %s: %w", o.dataset, o.dir, err)
	}
	return m, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// NewRootCmd builds the slidekit command tree. version is reported by
// --version.
func NewRootCmd(version string) *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:   "slidekit",
		Short: "Inspect and manage slide image datasets",
		Long: `slidekit works with slide image datasets stored as JSON files.

It can scaffold a new dataset, search it, print CDN display URLs and
srcset values, export it as JSON or YAML, and warm the CDN cache by
requesting every display URL.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
			opts.resolve()
		},
	}

	cmd.PersistentFlags().StringVar(&opts.dir, "dir", "", "Directory holding dataset files (default $DS_STORAGE_PATH or "+defaultDir+")")
	cmd.PersistentFlags().StringVarP(&opts.dataset, "dataset", "d", "", "Dataset name (default $DS_DATASET or "+defaultDataset+")")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log debug output to stderr")

	cmd.AddCommand(
		newInitCmd(opts),
		newInfoCmd(opts),
		newSearchCmd(opts),
		newURLCmd(opts),
		newSrcSetCmd(opts),
		newExportCmd(opts),
		newVersionCmd(),
		newPreloadCmd(opts),
	)

	return cmd
}
