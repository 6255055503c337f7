package container

import (
	"fmt"
	"net/http"

	"go-cell-segmenter/internal/config"
	"go-cell-segmenter/internal/factory"
	"go-cell-segmenter/internal/logger"
	"go-cell-segmenter/internal/observer"
	"go-cell-segmenter/internal/repository"
	"go-cell-segmenter/internal/segmentation"
	"go-cell-segmenter/internal/service"
	"go-cell-segmenter/internal/storage"
	"go-cell-segmenter/internal/transport"
)

// Container holds all application dependencies
type Container struct {
	config              *config.Config
	imageFetcher        storage.ImageFetcher
	segmenter           segmentation.Segmenter
	imageRepository     repository.ImageRepository
	segmentationService service.SegmentationService
	events              observer.Subject
	handler             http.Handler
}

// NewContainer creates a new dependency injection container
func NewContainer(cfg *config.Config) (*Container, error) {
	// Build dependency graph
	components := factory.NewComponentFactory(cfg)

	imageFetcher, err := components.StorageFactory.CreateStorage(factory.StorageType(cfg.StorageBackend))
	if err != nil {
		return nil, fmt.Errorf("failed to create storage backend: %w", err)
	}

	segmenter, err := components.SegmenterFactory.CreateSegmenter()
	if err != nil {
		return nil, err
	}

	events := observer.NewEventPublisher()
	events.Subscribe(observer.NewLoggingObserver(logger.Logger))
	events.Subscribe(observer.NewMetricsObserver())

	imageRepository := repository.NewFetcherImageRepository(imageFetcher)
	segmentationService := service.NewSegmentationService(imageRepository, segmenter, events, cfg)
	handler := transport.NewHandler(segmentationService, cfg)

	return &Container{
		config:              cfg,
		imageFetcher:        imageFetcher,
		segmenter:           segmenter,
		imageRepository:     imageRepository,
		segmentationService: segmentationService,
		events:              events,
		handler:             handler,
	}, nil
}

// Handler returns the HTTP handler
func (c *Container) Handler() http.Handler {
	return c.handler
}

// Config returns the configuration
func (c *Container) Config() *config.Config {
	return c.config
}

// Close releases long-lived resources
func (c *Container) Close() error {
	return c.segmentationService.Close()
}
