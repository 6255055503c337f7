package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"go-cell-segmenter/internal/config"
	apperrors "go-cell-segmenter/internal/errors"
	"go-cell-segmenter/internal/observer"
	"go-cell-segmenter/internal/repository"
	"go-cell-segmenter/internal/segmentation"
	"go-cell-segmenter/pkg/models"
)

// SegmentationService runs segmentation invocations against fetched image
// pairs. One request maps to exactly one self-contained invocation; batch
// requests fan independent invocations out on the worker pool.
type SegmentationService interface {
	SegmentImagePair(ctx context.Context, request models.SegmentationRequest) (*models.SegmentationResponse, error)
	SegmentBatch(ctx context.Context, request models.BatchSegmentationRequest) (*models.BatchSegmentationResponse, error)
	ValidateImageURL(imageURL string) error
	Close() error
}

// segmentationService implements SegmentationService
type segmentationService struct {
	imageRepo repository.ImageRepository
	segmenter segmentation.Segmenter
	events    observer.Subject
	cfg       *config.Config
	pool      *segmentation.WorkerPool
}

// NewSegmentationService creates a new segmentation service
func NewSegmentationService(
	imageRepository repository.ImageRepository,
	segmenter segmentation.Segmenter,
	events observer.Subject,
	cfg *config.Config,
) SegmentationService {
	pool := segmentation.NewWorkerPool(cfg.BatchWorkers)
	pool.Start()

	return &segmentationService{
		imageRepo: imageRepository,
		segmenter: segmenter,
		events:    events,
		cfg:       cfg,
		pool:      pool,
	}
}

// SegmentImagePair runs one segmentation invocation
func (s *segmentationService) SegmentImagePair(ctx context.Context, request models.SegmentationRequest) (*models.SegmentationResponse, error) {
	jobID := uuid.NewString()
	start := time.Now()

	s.notify(ctx, observer.SegmentationEvent{
		EventType:    observer.SegmentationStarted,
		Timestamp:    start,
		JobID:        jobID,
		SeedURL:      request.SeedURL,
		IntensityURL: request.IntensityURL,
	})

	response, err := s.runInvocation(ctx, jobID, request)
	if err != nil {
		s.notify(ctx, observer.SegmentationEvent{
			EventType:      observer.SegmentationFailed,
			Timestamp:      time.Now(),
			JobID:          jobID,
			SeedURL:        request.SeedURL,
			IntensityURL:   request.IntensityURL,
			ProcessingTime: time.Since(start),
			ErrorMessage:   err.Error(),
		})
		return nil, err
	}

	s.notify(ctx, observer.SegmentationEvent{
		EventType:      observer.SegmentationCompleted,
		Timestamp:      time.Now(),
		JobID:          jobID,
		SeedURL:        request.SeedURL,
		IntensityURL:   request.IntensityURL,
		ProcessingTime: time.Since(start),
		Success:        true,
		Metadata: map[string]interface{}{
			"object_count": response.ObjectCount,
		},
	})
	return response, nil
}

func (s *segmentationService) runInvocation(ctx context.Context, jobID string, request models.SegmentationRequest) (*models.SegmentationResponse, error) {
	// Validate URLs
	if err := s.ValidateImageURL(request.SeedURL); err != nil {
		return nil, apperrors.NewValidationError("invalid seed image URL", err)
	}
	if err := s.ValidateImageURL(request.IntensityURL); err != nil {
		return nil, apperrors.NewValidationError("invalid intensity image URL", err)
	}

	// Fetch both inputs
	fetchCtx, cancel := context.WithTimeout(ctx, s.cfg.ImageFetchTimeout)
	defer cancel()

	pair, err := s.imageRepo.FetchImagePair(fetchCtx, request.SeedURL, request.IntensityURL)
	if err != nil {
		s.notify(ctx, observer.SegmentationEvent{
			EventType:    observer.ImagePairFetchFailed,
			Timestamp:    time.Now(),
			JobID:        jobID,
			SeedURL:      request.SeedURL,
			IntensityURL: request.IntensityURL,
			ErrorMessage: err.Error(),
		})
		if fetchCtx.Err() == context.DeadlineExceeded {
			return nil, apperrors.NewTimeoutError("image fetch timeout", err)
		}
		return nil, apperrors.NewNetworkError("failed to fetch image pair", err)
	}

	s.notify(ctx, observer.SegmentationEvent{
		EventType:    observer.ImagePairFetched,
		Timestamp:    time.Now(),
		JobID:        jobID,
		SeedURL:      request.SeedURL,
		IntensityURL: request.IntensityURL,
		Success:      true,
	})

	options := s.buildOptions(jobID, request)

	result, err := s.segmenter.Segment(pair.Seeds, pair.Intensity, options)
	if err != nil {
		return nil, err
	}

	encoded, err := encodeLabelImage(result.Labels)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to encode label image", err)
	}

	response := &models.SegmentationResponse{
		JobID:                   jobID,
		SeedURL:                 request.SeedURL,
		IntensityURL:            request.IntensityURL,
		Timestamp:               result.Timestamp,
		ProcessingTimeSec:       result.ProcessingTimeSec,
		ObjectCount:             result.ObjectCount,
		AppliedThresholds:       result.AppliedThresholds,
		MeanForegroundIntensity: result.MeanForegroundIntensity,
		Width:                   result.Labels.Width,
		Height:                  result.Labels.Height,
		LabelImagePNG:           encoded,
	}
	if options.Diagnostics {
		response.DiagnosticsPath = options.DiagnosticsPath
	}
	return response, nil
}

// SegmentBatch fans independent invocations out on the worker pool.
// Results come back in request order regardless of completion order.
func (s *segmentationService) SegmentBatch(ctx context.Context, request models.BatchSegmentationRequest) (*models.BatchSegmentationResponse, error) {
	if len(request.Items) == 0 {
		return nil, apperrors.NewValidationError("batch contains no items", nil)
	}

	batch := &models.BatchSegmentationResponse{
		JobID:   uuid.NewString(),
		Results: make([]models.BatchSegmentationItem, len(request.Items)),
	}

	var wg sync.WaitGroup
	for i, item := range request.Items {
		i, item := i, item
		wg.Add(1)
		s.pool.Submit(func() {
			defer wg.Done()
			response, err := s.SegmentImagePair(ctx, item)
			entry := models.BatchSegmentationItem{Index: i}
			if err != nil {
				entry.Error = err.Error()
			} else {
				entry.Response = response
			}
			batch.Results[i] = entry
		})
	}
	wg.Wait()

	return batch, nil
}

// ValidateImageURL validates the image URL
func (s *segmentationService) ValidateImageURL(imageURL string) error {
	return s.imageRepo.ValidateImageURL(imageURL)
}

// Close releases the segmenter and the batch worker pool
func (s *segmentationService) Close() error {
	s.pool.Close()
	return s.segmenter.Close()
}

func (s *segmentationService) buildOptions(jobID string, request models.SegmentationRequest) segmentation.SegmentationOptions {
	options := segmentation.DefaultOptions()
	// An omitted factor list keeps the default single pass; an explicitly
	// empty list is honored and yields an all-background result.
	if request.CorrectionFactors != nil {
		options.CorrectionFactors = request.CorrectionFactors
	}
	options.MinThreshold = request.MinThreshold
	if request.MaxThreshold > 0 {
		options.MaxThreshold = request.MaxThreshold
	}
	if request.Diagnostics {
		options = options.WithDiagnostics(
			filepath.Join(s.cfg.DiagnosticsDir, fmt.Sprintf("%s.png", jobID)))
	}
	return options
}

func (s *segmentationService) notify(ctx context.Context, event observer.SegmentationEvent) {
	if s.events != nil {
		s.events.NotifyObservers(ctx, event)
	}
}

// encodeLabelImage serializes a label image as a base64 16-bit grayscale PNG.
// Original identifiers come from 8- or 16-bit seed images, so they always fit.
func encodeLabelImage(labels *segmentation.LabelImage) (string, error) {
	out := image.NewGray16(image.Rect(0, 0, labels.Width, labels.Height))
	for y := 0; y < labels.Height; y++ {
		for x := 0; x < labels.Width; x++ {
			out.SetGray16(x, y, color.Gray16{Y: uint16(labels.At(x, y))})
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, out); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
