package repository

import (
	"context"
	"fmt"
	"image"

	"go-cell-segmenter/internal/storage"
	"go-cell-segmenter/pkg/validation"
)

// FetcherImageRepository implements ImageRepository over an ImageFetcher
// (HTTP, blob, or local filesystem)
type FetcherImageRepository struct {
	fetcher      storage.ImageFetcher
	urlValidator *validation.URLValidator
}

// NewFetcherImageRepository creates an image repository over the given fetcher
func NewFetcherImageRepository(fetcher storage.ImageFetcher) ImageRepository {
	return &FetcherImageRepository{
		fetcher:      fetcher,
		urlValidator: validation.NewURLValidator(),
	}
}

// FetchImage retrieves a single image from a URL
func (r *FetcherImageRepository) FetchImage(ctx context.Context, imageURL string) (image.Image, error) {
	return r.fetcher.FetchImage(ctx, imageURL)
}

// FetchImagePair retrieves the seed-label image and the intensity image for
// one segmentation invocation
func (r *FetcherImageRepository) FetchImagePair(ctx context.Context, seedURL, intensityURL string) (*ImagePair, error) {
	seeds, err := r.fetcher.FetchImage(ctx, seedURL)
	if err != nil {
		return nil, fmt.Errorf("seed image: %w", err)
	}
	intensity, err := r.fetcher.FetchImage(ctx, intensityURL)
	if err != nil {
		return nil, fmt.Errorf("intensity image: %w", err)
	}
	return &ImagePair{Seeds: seeds, Intensity: intensity}, nil
}

// ValidateImageURL validates if the provided URL is acceptable
func (r *FetcherImageRepository) ValidateImageURL(imageURL string) error {
	if imageURL == "" {
		return ErrInvalidImageURL
	}
	return r.urlValidator.ValidateImageURL(imageURL)
}
