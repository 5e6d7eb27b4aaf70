package upload

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/openkcm/storefront-client/internal/business"
	"github.com/openkcm/storefront-client/internal/cmdutils"
	"github.com/openkcm/storefront-client/internal/config"
)

var errNoFiles = errors.New("at least one --file is required")

func Cmd(buildInfo string) *cobra.Command {
	var (
		productID int64
		files     []string
	)

	cmd := cmdutils.CobraCommand(
		"upload",
		"Storefront product image upload",
		"Optimizes and uploads image files to the gallery of a product and registers them with the API.",
		buildInfo,
		cmdutils.RunAsJob,
		func(ctx context.Context, cfg *config.Config) error {
			if len(files) == 0 {
				return errNoFiles
			}
			return business.UploadImagesMain(ctx, cfg, productID, files)
		},
	)

	cmd.Flags().Int64Var(&productID, "product", 0, "product id")
	cmd.Flags().StringSliceVar(&files, "file", nil, "image file to upload, repeatable")
	_ = cmd.MarkFlagRequired("product")

	return cmd
}
