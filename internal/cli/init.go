package cli

import (
	"fmt"

	"github.com/leca/cdn-slide-dataset/internal/dataset"
	"github.com/leca/cdn-slide-dataset/internal/model"
	"github.com/leca/cdn-slide-dataset/internal/storage"
	"github.com/leca/cdn-slide-dataset/internal/version"
	"github.com/spf13/cobra"
)

// sampleImages seeds a new dataset so that every command has something
// to work on.
func sampleImages() *model.Catalog {
	c := model.NewCatalog()
	c.Set("sample-landscape", model.ImageRecord{
		Src:     "https://res.cloudinary.com/demo/image/upload/sample.jpg",
		Caption: "Sample landscape",
		Metadata: map[string]model.Value{
			model.MetaArtist: model.StringValue("Unknown"),
			model.MetaYear:   model.NumberValue(2024),
		},
		Tags:             []string{"sample", "landscape"},
		TransformPresets: map[string]string{"hero": "w_1200,h_600,c_fill,g_auto"},
	})
	c.Set("sample-portrait", model.ImageRecord{
		Src:     "https://res.cloudinary.com/demo/image/upload/woman.jpg",
		Caption: "Sample portrait",
		Metadata: map[string]model.Value{
			model.MetaArtist: model.StringValue("Unknown"),
			model.MetaMedium: model.StringValue("Photograph"),
		},
		Tags: []string{"sample", "portrait"},
	})
	return c
}

func newInitCmd(opts *globalOptions) *cobra.Command {
	var (
		description string
		tags        []string
		force       bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a new dataset file with sample images",
		Example: `  # Create ./datasets/default.json
  slidekit init

  # Create a named dataset with a description and tags
  slidekit init --dataset gallery --description "Museum highlights" --tag art --tag museum`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store := opts.store()
			exists, err := store.Exists(opts.dataset)
			if err != nil {
				return err
			}
			if exists && !force {
				return fmt.Errorf("dataset %q already exists in %s (use --force to overwrite)", opts.dataset, opts.dir)
			}

			m := dataset.FromDataset(model.Dataset{
				Metadata: version.CreateMetadata(description, tags...),
				Images:   sampleImages(),
			}, dataset.WithLogger(opts.logger(cmd)))

			if _, err := storage.SaveDataset(store, opts.dataset, m); err != nil {
				return fmt.Errorf("save dataset: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created dataset %q with %d images (version %s)\n",
				opts.dataset, m.Len(), m.Metadata().Version)
			return nil
		},
	}

	cmd.Flags().StringVar(&description, "description", "", "Dataset description")
	cmd.Flags().StringArrayVar(&tags, "tag", nil, "Dataset tag (repeatable)")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing dataset")

	return cmd
}
