// File: internal/filestorage/store.go
package filestorage

import (
	"context"
	"fmt"

	"github.com/gabriel-vasile/mimetype"

	"startupteam_backend/internal/common"
)

// Folders images are stored under.
const (
	FolderAvatars = "avatars"
	FolderLogos   = "startup-logos"
)

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

// ImageStore persists images and returns a public URL plus an opaque
// reference used to delete them later.
type ImageStore interface {
	Store(ctx context.Context, folder string, data []byte) (url, ref string, err error)
	Delete(ctx context.Context, ref string) error
}

// Image is validated image content.
type Image struct {
	Data        []byte
	ContentType string
	Extension   string
}

// DetectImage sniffs data and accepts only jpeg, png, webp and gif.
func DetectImage(data []byte) (*Image, error) {
	if len(data) == 0 {
		return nil, common.ErrBadRequest.WithDetails("Image is empty.")
	}
	mt := mimetype.Detect(data)
	for m := mt; m != nil; m = m.Parent() {
		if allowedImageTypes[m.String()] {
			return &Image{Data: data, ContentType: m.String(), Extension: m.Extension()}, nil
		}
	}
	return nil, common.ErrBadRequest.WithDetails(fmt.Sprintf("Unsupported image type %s. Use JPEG, PNG, WebP or GIF.", mt.String()))
}
