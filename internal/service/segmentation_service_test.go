package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"sync"
	"testing"
	"time"

	"go-cell-segmenter/internal/config"
	apperrors "go-cell-segmenter/internal/errors"
	"go-cell-segmenter/internal/observer"
	"go-cell-segmenter/internal/repository"
	"go-cell-segmenter/internal/segmentation"
	"go-cell-segmenter/pkg/models"
)

// fakeImageRepository serves a fixed image pair without touching the network
type fakeImageRepository struct {
	pair       *repository.ImagePair
	fetchErr   error
	invalidURL string
}

func (f *fakeImageRepository) FetchImage(ctx context.Context, imageURL string) (image.Image, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.pair.Seeds, nil
}

func (f *fakeImageRepository) FetchImagePair(ctx context.Context, seedURL, intensityURL string) (*repository.ImagePair, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.pair, nil
}

func (f *fakeImageRepository) ValidateImageURL(imageURL string) error {
	if imageURL == "" || imageURL == f.invalidURL {
		return apperrors.NewValidationError("URL cannot be empty", nil)
	}
	return nil
}

// recordingObserver captures event types in arrival order
type recordingObserver struct {
	mu     sync.Mutex
	events []observer.EventType
}

func (r *recordingObserver) OnEvent(ctx context.Context, event observer.SegmentationEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event.EventType)
}

func (r *recordingObserver) GetObserverName() string { return "recording_observer" }

func (r *recordingObserver) seen(eventType observer.EventType) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.events {
		if e == eventType {
			return true
		}
	}
	return false
}

func testConfig() *config.Config {
	return &config.Config{
		ImageFetchTimeout: 5 * time.Second,
		SegmentTimeout:    10 * time.Second,
		DiagnosticsDir:    "diagnostics",
		BatchWorkers:      2,
	}
}

func testImagePair() *repository.ImagePair {
	seeds := image.NewGray(image.Rect(0, 0, 4, 4))
	seeds.SetGray(1, 1, color.Gray{Y: 7})
	intensity := image.NewGray(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			intensity.SetGray(x, y, color.Gray{Y: 180})
		}
	}
	return &repository.ImagePair{Seeds: seeds, Intensity: intensity}
}

func newTestService(t *testing.T, repo repository.ImageRepository, events observer.Subject) SegmentationService {
	t.Helper()
	segmenter, err := segmentation.NewSegmenter(nil)
	if err != nil {
		t.Fatalf("Failed to create segmenter: %v", err)
	}
	return NewSegmentationService(repo, segmenter, events, testConfig())
}

func TestSegmentImagePair_Success(t *testing.T) {
	events := &recordingObserver{}
	publisher := observer.NewEventPublisher()
	publisher.Subscribe(events)

	svc := newTestService(t, &fakeImageRepository{pair: testImagePair()}, publisher)
	defer svc.Close()

	response, err := svc.SegmentImagePair(context.Background(), models.SegmentationRequest{
		SeedURL:      "http://example.com/nuclei.png",
		IntensityURL: "http://example.com/cytoplasm.png",
	})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if response.JobID == "" {
		t.Error("Expected a job ID")
	}
	if response.ObjectCount != 1 {
		t.Errorf("Expected 1 object, got %d", response.ObjectCount)
	}
	if response.Width != 4 || response.Height != 4 {
		t.Errorf("Unexpected output dimensions: %dx%d", response.Width, response.Height)
	}
	if _, err := base64.StdEncoding.DecodeString(response.LabelImagePNG); err != nil {
		t.Errorf("Expected valid base64 label image, got: %v", err)
	}

	// Publisher notifies concurrently, give it a moment
	deadline := time.Now().Add(time.Second)
	for !events.seen(observer.SegmentationCompleted) && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if !events.seen(observer.SegmentationStarted) {
		t.Error("Expected segmentation_started event")
	}
	if !events.seen(observer.ImagePairFetched) {
		t.Error("Expected image_pair_fetched event")
	}
	if !events.seen(observer.SegmentationCompleted) {
		t.Error("Expected segmentation_completed event")
	}
}

func TestSegmentImagePair_InvalidURL(t *testing.T) {
	svc := newTestService(t, &fakeImageRepository{pair: testImagePair()}, nil)
	defer svc.Close()

	_, err := svc.SegmentImagePair(context.Background(), models.SegmentationRequest{
		SeedURL:      "",
		IntensityURL: "http://example.com/cytoplasm.png",
	})
	if err == nil {
		t.Fatal("Expected validation error for empty seed URL")
	}
	if !apperrors.IsType(err, apperrors.ErrorTypeValidation) {
		t.Errorf("Expected validation error, got: %v", err)
	}
}

func TestSegmentImagePair_FetchFailure(t *testing.T) {
	events := &recordingObserver{}
	publisher := observer.NewEventPublisher()
	publisher.Subscribe(events)

	repo := &fakeImageRepository{fetchErr: fmt.Errorf("connection refused")}
	svc := newTestService(t, repo, publisher)
	defer svc.Close()

	_, err := svc.SegmentImagePair(context.Background(), models.SegmentationRequest{
		SeedURL:      "http://example.com/nuclei.png",
		IntensityURL: "http://example.com/cytoplasm.png",
	})
	if err == nil {
		t.Fatal("Expected fetch error")
	}
	if !apperrors.IsType(err, apperrors.ErrorTypeNetwork) {
		t.Errorf("Expected network error, got: %v", err)
	}

	deadline := time.Now().Add(time.Second)
	for !events.seen(observer.SegmentationFailed) && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if !events.seen(observer.ImagePairFetchFailed) {
		t.Error("Expected image_pair_fetch_failed event")
	}
	if !events.seen(observer.SegmentationFailed) {
		t.Error("Expected segmentation_failed event")
	}
}

func TestSegmentBatch_ResultsInRequestOrder(t *testing.T) {
	svc := newTestService(t, &fakeImageRepository{pair: testImagePair(), invalidURL: "http://bad.example.com/x.png"}, nil)
	defer svc.Close()

	request := models.BatchSegmentationRequest{
		Items: []models.SegmentationRequest{
			{SeedURL: "http://example.com/a_nuclei.png", IntensityURL: "http://example.com/a_cells.png"},
			{SeedURL: "http://bad.example.com/x.png", IntensityURL: "http://example.com/b_cells.png"},
			{SeedURL: "http://example.com/c_nuclei.png", IntensityURL: "http://example.com/c_cells.png"},
		},
	}

	batch, err := svc.SegmentBatch(context.Background(), request)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if len(batch.Results) != 3 {
		t.Fatalf("Expected 3 results, got %d", len(batch.Results))
	}
	for i, entry := range batch.Results {
		if entry.Index != i {
			t.Errorf("Expected result %d at index %d, got %d", i, i, entry.Index)
		}
	}
	if batch.Results[0].Error != "" || batch.Results[0].Response == nil {
		t.Errorf("Expected item 0 to succeed, got error: %s", batch.Results[0].Error)
	}
	if batch.Results[1].Error == "" {
		t.Error("Expected item 1 to fail on its URL")
	}
	if batch.Results[2].Error != "" || batch.Results[2].Response == nil {
		t.Errorf("Expected item 2 to succeed, got error: %s", batch.Results[2].Error)
	}
}

func TestSegmentBatch_EmptyBatch(t *testing.T) {
	svc := newTestService(t, &fakeImageRepository{pair: testImagePair()}, nil)
	defer svc.Close()

	_, err := svc.SegmentBatch(context.Background(), models.BatchSegmentationRequest{})
	if err == nil {
		t.Fatal("Expected validation error for empty batch")
	}
	if !apperrors.IsType(err, apperrors.ErrorTypeValidation) {
		t.Errorf("Expected validation error, got: %v", err)
	}
}
