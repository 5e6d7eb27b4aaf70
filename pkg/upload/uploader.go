// Package upload stores product images in object storage.
package upload

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	slogctx "github.com/veqryn/slog-context"
)

// DefaultPause separates consecutive uploads of UploadMultipleImages.
const DefaultPause = 100 * time.Millisecond

type File struct {
	Name        string
	ContentType string
	Data        []byte
}

func (f File) Size() int64 {
	return int64(len(f.Data))
}

// Object is a stored object.
type Object struct {
	Path        string
	URL         string
	ContentType string
	Size        int64
}

// Storage is the object storage holding the images.
type Storage interface {
	// Put stores data under objectPath and returns its download URL.
	Put(ctx context.Context, objectPath, contentType string, data io.Reader, metadata map[string]string) (string, error)
	// Delete removes the object addressed by a download URL or an object path. A missing object is not an error.
	Delete(ctx context.Context, urlOrPath string) error
	List(ctx context.Context, prefix string) ([]Object, error)
}

type Result struct {
	URL          string
	FileName     string
	OriginalName string
	Size         int64
	ContentType  string
}

type Uploader struct {
	storage  Storage
	notifier Notifier
	pause    time.Duration
	now      func() time.Time
}

type Option func(*Uploader)

func WithNotifier(n Notifier) Option {
	return func(u *Uploader) {
		if n != nil {
			u.notifier = n
		}
	}
}

// WithPause overrides DefaultPause; zero disables the pause.
func WithPause(d time.Duration) Option {
	return func(u *Uploader) { u.pause = max(0, d) }
}

func WithClock(now func() time.Time) Option {
	return func(u *Uploader) {
		if now != nil {
			u.now = now
		}
	}
}

func NewUploader(storage Storage, opts ...Option) *Uploader {
	u := &Uploader{
		storage:  storage,
		notifier: LogNotifier{},
		pause:    DefaultPause,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(u)
	}

	return u
}

// ImagesDir is the directory of the images of a product.
func ImagesDir(targetID string) string {
	return "products/" + targetID + "/images/"
}

// UploadImage stores file under dir as "<unix millis>_<name>".
func (u *Uploader) UploadImage(ctx context.Context, file File, dir string) (Result, error) {
	fileName := fmt.Sprintf("%d_%s", u.now().UnixMilli(), path.Base(file.Name))
	objectPath := strings.TrimSuffix(dir, "/") + "/" + fileName
	contentType := contentTypeOf(file)

	url, err := u.storage.Put(ctx, objectPath, contentType, bytes.NewReader(file.Data), map[string]string{
		"originalName": file.Name,
	})
	if err != nil {
		return Result{}, fmt.Errorf("uploading %s: %w", file.Name, err)
	}

	slogctx.Debug(ctx, "Uploaded image", "object", objectPath, "size", file.Size())

	return Result{
		URL:          url,
		FileName:     fileName,
		OriginalName: file.Name,
		Size:         file.Size(),
		ContentType:  contentType,
	}, nil
}

// UploadMultipleImages uploads files one after another, in order, into ImagesDir(targetID).
// A file that fails is reported to the notifier and left out of the results.
// onProgress, if set, receives the percentage of processed files after each file.
func (u *Uploader) UploadMultipleImages(ctx context.Context, files []File, targetID string, onProgress func(percent int)) []Result {
	results := make([]Result, 0, len(files))
	dir := ImagesDir(targetID)

	for i, file := range files {
		result, err := u.UploadImage(ctx, file, dir)
		if err != nil {
			slogctx.Error(ctx, "Failed to upload image", "index", i, "file", file.Name, "error", err)
			u.notifier.Notify(ctx, Notification{
				Level:       LevelError,
				Title:       "Image upload failed",
				Description: fmt.Sprintf("Could not upload %s", file.Name),
				FileName:    file.Name,
				Err:         err,
			})
		} else {
			results = append(results, result)
		}

		if onProgress != nil {
			onProgress(min(100, (i+1)*100/len(files)))
		}

		if i < len(files)-1 && u.pause > 0 {
			if !sleep(ctx, u.pause) {
				slogctx.Warn(ctx, "Image upload interrupted", "uploaded", len(results), "remaining", len(files)-i-1)
				break
			}
		}
	}

	return results
}

func (u *Uploader) DeleteImage(ctx context.Context, url string) error {
	if err := u.storage.Delete(ctx, url); err != nil {
		return fmt.Errorf("deleting image: %w", err)
	}

	return nil
}

// ListImages returns the stored images of a product.
func (u *Uploader) ListImages(ctx context.Context, targetID string) ([]Object, error) {
	objects, err := u.storage.List(ctx, ImagesDir(targetID))
	if err != nil {
		return nil, fmt.Errorf("listing images: %w", err)
	}

	return objects, nil
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
