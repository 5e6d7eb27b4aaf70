// Package uploadgcs stores uploaded images in a Cloud Storage bucket, the same bucket Firebase Storage serves.
package uploadgcs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	firebase "firebase.google.com/go/v4"
	slogctx "github.com/veqryn/slog-context"

	"github.com/openkcm/storefront-client/pkg/upload"
)

const (
	DefaultPublicBaseURL = "https://storage.googleapis.com"

	firebaseDownloadHost = "firebasestorage.googleapis.com"
)

var ErrEmptyBucket = errors.New("bucket name is empty")

type Storage struct {
	bucket        *storage.BucketHandle
	bucketName    string
	publicBaseURL string
	cacheControl  string
}

var _ = upload.Storage(&Storage{})

type Option func(*Storage)

// WithPublicBaseURL overrides DefaultPublicBaseURL, e.g. for a CDN in front of the bucket.
func WithPublicBaseURL(baseURL string) Option {
	return func(s *Storage) {
		if baseURL != "" {
			s.publicBaseURL = strings.TrimSuffix(baseURL, "/")
		}
	}
}

func WithCacheControl(cacheControl string) Option {
	return func(s *Storage) { s.cacheControl = cacheControl }
}

// NewClient creates a Cloud Storage client. Without credentialsFile the application default credentials are used.
func NewClient(ctx context.Context, credentialsFile string) (*storage.Client, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating storage client: %w", err)
	}

	return client, nil
}

func New(client *storage.Client, bucket string, opts ...Option) (*Storage, error) {
	bucket = strings.TrimSpace(bucket)
	if bucket == "" {
		return nil, ErrEmptyBucket
	}

	return newStorage(client.Bucket(bucket), bucket, opts...), nil
}

// NewFromFirebase uses the storage client of a Firebase app.
func NewFromFirebase(ctx context.Context, app *firebase.App, bucket string, opts ...Option) (*Storage, error) {
	bucket = strings.TrimSpace(bucket)
	if bucket == "" {
		return nil, ErrEmptyBucket
	}

	client, err := app.Storage(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting firebase storage client: %w", err)
	}

	handle, err := client.Bucket(bucket)
	if err != nil {
		return nil, fmt.Errorf("getting firebase bucket %s: %w", bucket, err)
	}

	return newStorage(handle, bucket, opts...), nil
}

func newStorage(handle *storage.BucketHandle, bucket string, opts ...Option) *Storage {
	s := &Storage{
		bucket:        handle,
		bucketName:    bucket,
		publicBaseURL: DefaultPublicBaseURL,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *Storage) Put(ctx context.Context, objectPath, contentType string, data io.Reader, metadata map[string]string) (string, error) {
	objectPath = strings.TrimPrefix(objectPath, "/")

	w := s.bucket.Object(objectPath).NewWriter(ctx)
	w.ContentType = contentType
	w.CacheControl = s.cacheControl
	w.Metadata = map[string]string{
		"uploadedAt": time.Now().UTC().Format(time.RFC3339),
	}
	for k, v := range metadata {
		w.Metadata[k] = v
	}

	if _, err := io.Copy(w, data); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("writing object %s: %w", objectPath, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("closing object %s: %w", objectPath, err)
	}

	return s.URL(objectPath), nil
}

func (s *Storage) Delete(ctx context.Context, urlOrPath string) error {
	objectPath, err := s.ObjectPath(urlOrPath)
	if err != nil {
		return err
	}

	if err := s.bucket.Object(objectPath).Delete(ctx); err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			slogctx.Debug(ctx, "Object to delete does not exist", "object", objectPath)
			return nil
		}
		return fmt.Errorf("deleting object %s: %w", objectPath, err)
	}

	return nil
}

func (s *Storage) List(ctx context.Context, prefix string) ([]upload.Object, error) {
	it := s.bucket.Objects(ctx, &storage.Query{Prefix: prefix})

	var objects []upload.Object
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("listing objects under %s: %w", prefix, err)
		}
		if attrs == nil || attrs.Name == "" || strings.HasSuffix(attrs.Name, "/") {
			continue
		}

		objects = append(objects, upload.Object{
			Path:        attrs.Name,
			URL:         s.URL(attrs.Name),
			ContentType: attrs.ContentType,
			Size:        attrs.Size,
		})
	}

	return objects, nil
}

// URL is the public URL of an object: <public base>/<bucket>/<object>.
func (s *Storage) URL(objectPath string) string {
	segments := strings.Split(objectPath, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}

	return s.publicBaseURL + "/" + s.bucketName + "/" + strings.Join(segments, "/")
}

// ObjectPath resolves a public URL, a Firebase download URL or a plain object path to an object path of the bucket.
func (s *Storage) ObjectPath(urlOrPath string) (string, error) {
	if !strings.Contains(urlOrPath, "://") {
		p := strings.TrimPrefix(urlOrPath, "/")
		if p == "" {
			return "", errors.New("empty object path")
		}
		return p, nil
	}

	u, err := url.Parse(urlOrPath)
	if err != nil {
		return "", fmt.Errorf("parsing object url: %w", err)
	}

	if u.Host == firebaseDownloadHost {
		// /v0/b/<bucket>/o/<escaped object path>
		prefix := "/v0/b/" + s.bucketName + "/o/"
		if !strings.HasPrefix(u.Path, prefix) {
			return "", fmt.Errorf("url %s is not in bucket %s", urlOrPath, s.bucketName)
		}
		return strings.TrimPrefix(u.Path, prefix), nil
	}

	base := s.publicBaseURL + "/" + s.bucketName + "/"
	if !strings.HasPrefix(urlOrPath, base) {
		return "", fmt.Errorf("url %s is not in bucket %s", urlOrPath, s.bucketName)
	}

	return url.PathUnescape(strings.SplitN(strings.TrimPrefix(urlOrPath, base), "?", 2)[0])
}
