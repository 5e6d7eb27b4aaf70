package business

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	slogctx "github.com/veqryn/slog-context"

	"github.com/openkcm/storefront-client/internal/config"
	"github.com/openkcm/storefront-client/pkg/api"
	"github.com/openkcm/storefront-client/pkg/upload"
)

var ErrNoImageStorage = errors.New("no image storage configured")

// UploadImagesMain uploads the image files at paths to the gallery of a product
// and registers the uploaded images with the API.
func UploadImagesMain(ctx context.Context, cfg *config.Config, productID int64, paths []string) error {
	sf, err := NewStorefront(ctx, cfg)
	if err != nil {
		return fmt.Errorf("creating storefront: %w", err)
	}
	defer sf.Close()

	files := make([]upload.File, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return fmt.Errorf("reading %s: %w", p, err)
		}
		files = append(files, upload.File{Name: filepath.Base(p), Data: data})
	}

	images, err := UploadProductImages(ctx, sf, cfg.Upload, productID, files)
	if err != nil {
		return err
	}

	slogctx.Info(ctx, "Uploaded product images", "productID", productID, "count", len(images))

	return nil
}

// UploadProductImages admits valid images into the product gallery, optimizes and uploads them,
// and registers the uploaded images. The first image of an empty gallery becomes primary.
func UploadProductImages(ctx context.Context, sf *Storefront, cfg config.Upload, productID int64, files []upload.File) ([]api.ProductImage, error) {
	if sf.Uploader == nil {
		return nil, ErrNoImageStorage
	}

	targetID := fmt.Sprint(productID)

	current, err := sf.Uploader.ListImages(ctx, targetID)
	if err != nil {
		return nil, fmt.Errorf("listing current images: %w", err)
	}

	accepted := sf.Uploader.Admit(ctx, len(current), files, cfg.MaxImages)
	optimized := make([]upload.File, 0, len(accepted))
	for _, file := range accepted {
		out, err := upload.Optimize(file, cfg.MaxWidth)
		if err != nil {
			slogctx.Warn(ctx, "Uploading image without optimization", "fileName", file.Name, "error", err)
			out = file
		}
		optimized = append(optimized, out)
	}

	results := sf.Uploader.UploadMultipleImages(ctx, optimized, targetID, func(percent int) {
		slogctx.Debug(ctx, "Upload progress", "percent", percent)
	})
	if len(results) == 0 {
		return nil, nil
	}

	images := make([]api.ProductImage, 0, len(results))
	for i, res := range results {
		images = append(images, api.ProductImage{
			URL:      res.URL,
			FileName: res.OriginalName,
			Primary:  len(current) == 0 && i == 0,
		})
	}

	created, err := sf.API.CreateProductImages(ctx, api.ProductImagesInput{ProductID: productID, Images: images})
	if err != nil {
		return nil, fmt.Errorf("registering product images: %w", err)
	}

	return created, nil
}
