package models

import "time"

// SegmentationRequest describes one image pair to segment
type SegmentationRequest struct {
	// SeedURL locates the primary-object label image (background = 0)
	SeedURL string `json:"seed_url" binding:"required,url"`

	// IntensityURL locates the grayscale intensity image, 8- or 16-bit
	IntensityURL string `json:"intensity_url" binding:"required,url"`

	// CorrectionFactors are applied to the base threshold, one growth pass
	// each, in order
	CorrectionFactors []float64 `json:"correction_factors"`

	// MinThreshold is in the intensity image's fixed-width unit
	MinThreshold uint16 `json:"min_threshold"`

	// MaxThreshold is a normalized intensity; zero means 1.0
	MaxThreshold float64 `json:"max_threshold,omitempty"`

	// Diagnostics requests heat-map rendering of the invocation
	Diagnostics bool `json:"diagnostics,omitempty"`
}

// SegmentationResponse is the result of one segmentation invocation
type SegmentationResponse struct {
	JobID             string    `json:"job_id"`
	SeedURL           string    `json:"seed_url"`
	IntensityURL      string    `json:"intensity_url"`
	Timestamp         time.Time `json:"timestamp"`
	ProcessingTimeSec float64   `json:"processing_time_sec"`

	// Segmentation summary
	ObjectCount             int       `json:"object_count"`
	AppliedThresholds       []float64 `json:"applied_thresholds"`
	MeanForegroundIntensity float64   `json:"mean_foreground_intensity"`
	Width                   int       `json:"width"`
	Height                  int       `json:"height"`

	// LabelImagePNG is the output label image, 16-bit grayscale PNG,
	// base64-encoded
	LabelImagePNG string `json:"label_image_png"`

	// DiagnosticsPath is set when a diagnostic figure was written
	DiagnosticsPath string `json:"diagnostics_path,omitempty"`
}

// BatchSegmentationRequest fans several independent invocations out in
// parallel; items do not interact
type BatchSegmentationRequest struct {
	Items []SegmentationRequest `json:"items" binding:"required"`
}

// BatchSegmentationResponse carries per-item results in request order
type BatchSegmentationResponse struct {
	JobID   string                  `json:"job_id"`
	Results []BatchSegmentationItem `json:"results"`
}

// BatchSegmentationItem is one batch entry: either a response or an error
type BatchSegmentationItem struct {
	Index    int                   `json:"index"`
	Response *SegmentationResponse `json:"response,omitempty"`
	Error    string                `json:"error,omitempty"`
}
