package observer

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// SegmentationEvent represents a segmentation lifecycle event
type SegmentationEvent struct {
	EventType      EventType              `json:"event_type"`
	Timestamp      time.Time              `json:"timestamp"`
	JobID          string                 `json:"job_id"`
	SeedURL        string                 `json:"seed_url"`
	IntensityURL   string                 `json:"intensity_url"`
	ProcessingTime time.Duration          `json:"processing_time"`
	Success        bool                   `json:"success"`
	ErrorMessage   string                 `json:"error_message,omitempty"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`
}

// EventType represents the type of segmentation event
type EventType string

const (
	// SegmentationStarted when an invocation begins
	SegmentationStarted EventType = "segmentation_started"
	// SegmentationCompleted when an invocation finishes successfully
	SegmentationCompleted EventType = "segmentation_completed"
	// SegmentationFailed when an invocation fails
	SegmentationFailed EventType = "segmentation_failed"
	// ImagePairFetched when both input images are successfully fetched
	ImagePairFetched EventType = "image_pair_fetched"
	// ImagePairFetchFailed when an input image fetch fails
	ImagePairFetchFailed EventType = "image_pair_fetch_failed"
)

// Observer defines the interface for event observers
type Observer interface {
	OnEvent(ctx context.Context, event SegmentationEvent)
	GetObserverName() string
}

// Subject defines the interface for event publishers
type Subject interface {
	Subscribe(observer Observer)
	Unsubscribe(observer Observer)
	NotifyObservers(ctx context.Context, event SegmentationEvent)
}

// LoggingObserver logs segmentation events
type LoggingObserver struct {
	logger *logrus.Logger
}

// NewLoggingObserver creates a new logging observer
func NewLoggingObserver(logger *logrus.Logger) Observer {
	return &LoggingObserver{logger: logger}
}

// OnEvent handles segmentation events by logging them
func (o *LoggingObserver) OnEvent(ctx context.Context, event SegmentationEvent) {
	fields := logrus.Fields{
		"event_type":      event.EventType,
		"job_id":          event.JobID,
		"seed_url":        event.SeedURL,
		"intensity_url":   event.IntensityURL,
		"processing_time": event.ProcessingTime,
		"success":         event.Success,
	}

	if event.ErrorMessage != "" {
		fields["error"] = event.ErrorMessage
	}

	if event.Metadata != nil {
		for k, v := range event.Metadata {
			fields[k] = v
		}
	}

	switch event.EventType {
	case SegmentationStarted:
		o.logger.WithFields(fields).Info("Segmentation started")
	case SegmentationCompleted:
		o.logger.WithFields(fields).Info("Segmentation completed")
	case SegmentationFailed:
		o.logger.WithFields(fields).Error("Segmentation failed")
	case ImagePairFetched:
		o.logger.WithFields(fields).Debug("Image pair fetched successfully")
	case ImagePairFetchFailed:
		o.logger.WithFields(fields).Error("Image pair fetch failed")
	default:
		o.logger.WithFields(fields).Info("Segmentation event occurred")
	}
}

// GetObserverName returns the observer name
func (o *LoggingObserver) GetObserverName() string {
	return "logging_observer"
}

// MetricsObserver collects metrics from segmentation events
type MetricsObserver struct {
	mu                      sync.RWMutex
	totalSegmentations      int64
	successfulSegmentations int64
	failedSegmentations     int64
	totalProcessingTime     time.Duration
}

// NewMetricsObserver creates a new metrics observer
func NewMetricsObserver() Observer {
	return &MetricsObserver{}
}

// OnEvent handles segmentation events by collecting metrics
func (o *MetricsObserver) OnEvent(ctx context.Context, event SegmentationEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()

	switch event.EventType {
	case SegmentationStarted:
		o.totalSegmentations++
	case SegmentationCompleted:
		o.successfulSegmentations++
		o.totalProcessingTime += event.ProcessingTime
	case SegmentationFailed:
		o.failedSegmentations++
	}
}

// GetObserverName returns the observer name
func (o *MetricsObserver) GetObserverName() string {
	return "metrics_observer"
}

// GetMetrics returns current metrics
func (o *MetricsObserver) GetMetrics() map[string]interface{} {
	o.mu.RLock()
	defer o.mu.RUnlock()

	avgProcessingTime := time.Duration(0)
	if o.successfulSegmentations > 0 {
		avgProcessingTime = o.totalProcessingTime / time.Duration(o.successfulSegmentations)
	}

	return map[string]interface{}{
		"total_segmentations":      o.totalSegmentations,
		"successful_segmentations": o.successfulSegmentations,
		"failed_segmentations":     o.failedSegmentations,
		"total_processing_time":    o.totalProcessingTime,
		"avg_processing_time":      avgProcessingTime,
	}
}

// EventPublisher implements the Subject interface
type EventPublisher struct {
	mu        sync.RWMutex
	observers []Observer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher() Subject {
	return &EventPublisher{
		observers: make([]Observer, 0),
	}
}

// Subscribe adds an observer
func (p *EventPublisher) Subscribe(observer Observer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.observers = append(p.observers, observer)
}

// Unsubscribe removes an observer
func (p *EventPublisher) Unsubscribe(observer Observer) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i, obs := range p.observers {
		if obs.GetObserverName() == observer.GetObserverName() {
			p.observers = append(p.observers[:i], p.observers[i+1:]...)
			break
		}
	}
}

// NotifyObservers notifies all observers of an event
func (p *EventPublisher) NotifyObservers(ctx context.Context, event SegmentationEvent) {
	p.mu.RLock()
	observers := make([]Observer, len(p.observers))
	copy(observers, p.observers)
	p.mu.RUnlock()

	// Notify observers concurrently
	for _, observer := range observers {
		go func(obs Observer) {
			defer func() {
				if r := recover(); r != nil {
					// Log panic but don't crash the application
					logrus.WithField("observer", obs.GetObserverName()).
						WithField("panic", r).
						Error("Observer panicked while handling event")
				}
			}()
			obs.OnEvent(ctx, event)
		}(observer)
	}
}
