package business

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openkcm/storefront-client/internal/config"
	"github.com/openkcm/storefront-client/pkg/api"
	"github.com/openkcm/storefront-client/pkg/upload"
)

type bucket struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func (b *bucket) Put(_ context.Context, objectPath, _ string, data io.Reader, _ map[string]string) (string, error) {
	raw, err := io.ReadAll(data)
	if err != nil {
		return "", err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.objects[objectPath] = raw

	return "https://cdn.example.com/" + objectPath, nil
}

func (b *bucket) Delete(_ context.Context, urlOrPath string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.objects, strings.TrimPrefix(urlOrPath, "https://cdn.example.com/"))

	return nil
}

func (b *bucket) List(_ context.Context, prefix string) ([]upload.Object, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	var objs []upload.Object
	for p, data := range b.objects {
		if strings.HasPrefix(p, prefix) {
			objs = append(objs, upload.Object{Path: p, URL: "https://cdn.example.com/" + p, Size: int64(len(data))})
		}
	}

	return objs, nil
}

func pngImage(t *testing.T, name string, width, height int) upload.File {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for x := range width {
		img.Set(x, x%height, color.NRGBA{B: 180, A: 255})
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	return upload.File{Name: name, ContentType: "image/png", Data: buf.Bytes()}
}

func TestUploadProductImages(t *testing.T) {
	var registered api.ProductImagesInput
	r := chi.NewRouter()
	r.Post("/images", func(w http.ResponseWriter, req *http.Request) {
		_ = json.NewDecoder(req.Body).Decode(&registered)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]any{"success": true, "data": registered.Images})
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	var (
		mu       sync.Mutex
		rejected []string
	)
	notifier := upload.NotifierFunc(func(_ context.Context, n upload.Notification) {
		mu.Lock()
		defer mu.Unlock()
		if n.Level == upload.LevelError {
			rejected = append(rejected, n.FileName)
		}
	})

	store := &bucket{objects: map[string][]byte{}}
	sf := &Storefront{
		API:      api.NewClient(srv.URL),
		Uploader: upload.NewUploader(store, upload.WithPause(0), upload.WithNotifier(notifier)),
	}

	files := []upload.File{
		pngImage(t, "front.png", 400, 300),
		{Name: "notes.txt", ContentType: "text/plain", Data: []byte("not an image")},
		pngImage(t, "thumb.png", 10, 10),
		{Name: "logo.svg", ContentType: "image/svg+xml", Data: []byte("<svg/>")},
		pngImage(t, "back.png", 2400, 1200),
	}

	images, err := UploadProductImages(t.Context(), sf, config.Upload{MaxImages: 5, MaxWidth: 1200}, 12, files)
	require.NoError(t, err)

	require.Len(t, images, 2)
	assert.Equal(t, int64(12), registered.ProductID)
	assert.True(t, images[0].Primary)
	assert.False(t, images[1].Primary)
	assert.Equal(t, "front.jpg", images[0].FileName)
	assert.Equal(t, "back.jpg", images[1].FileName)
	assert.Len(t, store.objects, 2)
	assert.ElementsMatch(t, []string{"notes.txt", "thumb.png", "logo.svg"}, rejected)

	for p := range store.objects {
		assert.True(t, strings.HasPrefix(p, upload.ImagesDir("12")), p)
	}
}

func TestUploadProductImages_NoStorage(t *testing.T) {
	_, err := UploadProductImages(t.Context(), &Storefront{}, config.Upload{}, 12, nil)
	assert.ErrorIs(t, err, ErrNoImageStorage)
}
