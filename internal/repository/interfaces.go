package repository

import (
	"context"
	"image"
)

// ImagePair holds the two inputs of one segmentation invocation
type ImagePair struct {
	Seeds     image.Image
	Intensity image.Image
}

// ImageRepository defines the interface for image data access operations
type ImageRepository interface {
	// FetchImage retrieves a single image from a URL
	FetchImage(ctx context.Context, imageURL string) (image.Image, error)

	// FetchImagePair retrieves the seed-label and intensity images for one
	// invocation
	FetchImagePair(ctx context.Context, seedURL, intensityURL string) (*ImagePair, error)

	// ValidateImageURL validates if the provided URL is acceptable
	ValidateImageURL(imageURL string) error
}
