package upload

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"net/http"
	"path"
	"slices"
	"strings"

	"golang.org/x/image/draw"

	_ "image/gif"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"github.com/openkcm/storefront-client/internal/serviceerr"
)

const (
	MaxImageSize      = 5 << 20
	MinImageDimension = 100
	DefaultMaxWidth   = 1200
	DefaultMaxImages  = 5

	optimizedQuality = 80
)

var allowedTypes = []string{"image/jpeg", "image/png", "image/webp", "image/gif"}

// contentTypeOf prefers the declared type and sniffs the data otherwise.
func contentTypeOf(f File) string {
	if f.ContentType != "" {
		return f.ContentType
	}

	ct := http.DetectContentType(f.Data)
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}

	return ct
}

// Validate checks that file is a JPEG, PNG, WebP or GIF image of at most MaxImageSize bytes
// and at least MinImageDimension pixels in both directions.
// Errors match serviceerr.ErrInvalidImage.
func Validate(file File) error {
	if !slices.Contains(allowedTypes, contentTypeOf(file)) {
		return serviceerr.New(serviceerr.CodeInvalidImage, "file type not allowed, use JPG, PNG, WebP or GIF")
	}

	if file.Size() > MaxImageSize {
		return serviceerr.New(serviceerr.CodeInvalidImage, "image is too large (max. 5MB)")
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(file.Data))
	if err != nil {
		return serviceerr.New(serviceerr.CodeInvalidImage, "image could not be decoded")
	}
	if cfg.Width < MinImageDimension || cfg.Height < MinImageDimension {
		return serviceerr.New(serviceerr.CodeInvalidImage, "image is too small (min. 100x100px)")
	}

	return nil
}

// Accept admits dropped files into a gallery already holding current images, up to maxImages.
// Files beyond the free places are ignored; files that are not images or exceed MaxImageSize
// are reported to the notifier and skipped.
func (u *Uploader) Accept(ctx context.Context, current int, files []File, maxImages int) []File {
	if maxImages <= 0 {
		maxImages = DefaultMaxImages
	}

	free := max(0, maxImages-current)
	if len(files) > free {
		files = files[:free]
	}

	accepted := make([]File, 0, len(files))
	for _, file := range files {
		switch {
		case !strings.HasPrefix(contentTypeOf(file), "image/"):
			u.notifier.Notify(ctx, Notification{
				Level:       LevelError,
				Title:       "Error",
				Description: "Only image files are allowed",
				FileName:    file.Name,
			})
		case file.Size() > MaxImageSize:
			u.notifier.Notify(ctx, Notification{
				Level:       LevelError,
				Title:       "Error",
				Description: "Image is too large (max. 5MB)",
				FileName:    file.Name,
			})
		default:
			accepted = append(accepted, file)
		}
	}

	return accepted
}

// Admit is Accept followed by Validate: accepted files failing validation are reported
// to the notifier and dropped, while the other files are kept.
func (u *Uploader) Admit(ctx context.Context, current int, files []File, maxImages int) []File {
	accepted := u.Accept(ctx, current, files, maxImages)

	admitted := make([]File, 0, len(accepted))
	for _, file := range accepted {
		err := Validate(file)
		if err == nil {
			admitted = append(admitted, file)
			continue
		}

		description := err.Error()
		var svcErr *serviceerr.Error
		if errors.As(err, &svcErr) {
			description = svcErr.Description
		}
		u.notifier.Notify(ctx, Notification{
			Level:       LevelError,
			Title:       "Invalid image",
			Description: description,
			FileName:    file.Name,
			Err:         err,
		})
	}

	return admitted
}

// Optimize scales file down to maxWidth, keeping the aspect ratio, and re-encodes it as JPEG.
// maxWidth <= 0 means DefaultMaxWidth. Narrower images are only re-encoded.
func Optimize(file File, maxWidth int) (File, error) {
	if maxWidth <= 0 {
		maxWidth = DefaultMaxWidth
	}

	src, _, err := image.Decode(bytes.NewReader(file.Data))
	if err != nil {
		return File{}, fmt.Errorf("decoding %s: %w", file.Name, err)
	}

	bounds := src.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width > maxWidth {
		height = max(1, height*maxWidth/width)
		width = maxWidth
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	// JPEG has no alpha channel.
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: optimizedQuality}); err != nil {
		return File{}, fmt.Errorf("encoding %s: %w", file.Name, err)
	}

	return File{
		Name:        strings.TrimSuffix(file.Name, path.Ext(file.Name)) + ".jpg",
		ContentType: "image/jpeg",
		Data:        buf.Bytes(),
	}, nil
}
