package storage

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"net/url"
	"os"
	"path/filepath"
)

// localStorage serves tiles from the local filesystem, rooted at a base
// directory. Accepts plain paths or file:// URLs; paths escaping the root are
// rejected.
type localStorage struct {
	root string
}

// NewLocalStorage creates a filesystem-backed image fetcher
func NewLocalStorage(root string) ImageFetcher {
	return &localStorage{root: root}
}

func (s *localStorage) FetchImage(ctx context.Context, imageURL string) (image.Image, error) {
	path := imageURL
	if parsed, err := url.Parse(imageURL); err == nil && parsed.Scheme == "file" {
		path = parsed.Path
	}

	full := filepath.Join(s.root, filepath.Clean("/"+path))

	f, err := os.Open(full)
	if err != nil {
		return nil, fmt.Errorf("failed to open image file: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image file: %w", err)
	}
	return img, nil
}
