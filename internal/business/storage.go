package business

import (
	"context"
	"fmt"

	"google.golang.org/api/option"

	firebase "firebase.google.com/go/v4"

	"github.com/openkcm/storefront-client/internal/config"
	uploadgcs "github.com/openkcm/storefront-client/pkg/upload/gcs"
)

// newImageStorage opens the image bucket; nil when no bucket is configured.
func newImageStorage(ctx context.Context, cfg config.Storage) (_ *uploadgcs.Storage, closeFn func(), _ error) {
	if cfg.Bucket == "" {
		return nil, func() {}, nil
	}

	opts := []uploadgcs.Option{
		uploadgcs.WithPublicBaseURL(cfg.PublicBaseURL),
		uploadgcs.WithCacheControl(cfg.CacheControl),
	}

	if cfg.UseFirebase {
		var clientOpts []option.ClientOption
		if cfg.CredentialsFile != "" {
			clientOpts = append(clientOpts, option.WithCredentialsFile(cfg.CredentialsFile))
		}

		app, err := firebase.NewApp(ctx, &firebase.Config{
			ProjectID:     cfg.ProjectID,
			StorageBucket: cfg.Bucket,
		}, clientOpts...)
		if err != nil {
			return nil, nil, fmt.Errorf("initialising firebase app: %w", err)
		}

		storage, err := uploadgcs.NewFromFirebase(ctx, app, cfg.Bucket, opts...)
		if err != nil {
			return nil, nil, err
		}

		return storage, func() {}, nil
	}

	client, err := uploadgcs.NewClient(ctx, cfg.CredentialsFile)
	if err != nil {
		return nil, nil, err
	}

	storage, err := uploadgcs.New(client, cfg.Bucket, opts...)
	if err != nil {
		_ = client.Close()
		return nil, nil, err
	}

	return storage, func() { _ = client.Close() }, nil
}
