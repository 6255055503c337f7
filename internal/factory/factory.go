package factory

import (
	"fmt"

	"go-cell-segmenter/internal/config"
	"go-cell-segmenter/internal/diagnostics"
	"go-cell-segmenter/internal/segmentation"
	"go-cell-segmenter/internal/storage"
)

// StorageType represents different types of storage backends
type StorageType string

const (
	// HTTPStorage for HTTP-based image fetching
	HTTPStorage StorageType = "http"
	// AzureStorage for Azure blob storage
	AzureStorage StorageType = "azure"
	// LocalStorage for local file system
	LocalStorage StorageType = "local"
)

// StorageFactory creates storage implementations
type StorageFactory interface {
	CreateStorage(storageType StorageType) (storage.ImageFetcher, error)
}

// SegmenterFactory creates segmenters
type SegmenterFactory interface {
	CreateSegmenter() (segmentation.Segmenter, error)
}

// storageFactory implements StorageFactory
type storageFactory struct {
	cfg *config.Config
}

// NewStorageFactory creates a new storage factory
func NewStorageFactory(cfg *config.Config) StorageFactory {
	return &storageFactory{cfg: cfg}
}

// CreateStorage creates a storage implementation based on the specified type
func (f *storageFactory) CreateStorage(storageType StorageType) (storage.ImageFetcher, error) {
	switch storageType {
	case HTTPStorage:
		return storage.NewHTTPImageFetcher(), nil
	case AzureStorage:
		if f.cfg.AzureAccountName == "" || f.cfg.AzureAccountKey == "" {
			return nil, fmt.Errorf("azure storage requires account name and key")
		}
		return storage.NewAzureStorage(f.cfg.AzureAccountName, f.cfg.AzureAccountKey)
	case LocalStorage:
		return storage.NewLocalStorage(f.cfg.LocalStorageRoot), nil
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", storageType)
	}
}

// segmenterFactory implements SegmenterFactory
type segmenterFactory struct{}

// NewSegmenterFactory creates a new segmenter factory
func NewSegmenterFactory() SegmenterFactory {
	return &segmenterFactory{}
}

// CreateSegmenter creates a segmenter wired to the heat-map diagnostics writer
func (f *segmenterFactory) CreateSegmenter() (segmentation.Segmenter, error) {
	return segmentation.NewSegmenter(diagnostics.NewHeatMapWriter())
}

// ComponentFactory combines all factories
type ComponentFactory struct {
	StorageFactory   StorageFactory
	SegmenterFactory SegmenterFactory
}

// NewComponentFactory creates a new component factory
func NewComponentFactory(cfg *config.Config) *ComponentFactory {
	return &ComponentFactory{
		StorageFactory:   NewStorageFactory(cfg),
		SegmenterFactory: NewSegmenterFactory(),
	}
}
