package segmentation

import (
	"fmt"
	"image"
	"time"

	"gonum.org/v1/gonum/stat"

	apperrors "go-cell-segmenter/internal/errors"
	"go-cell-segmenter/internal/logger"
	"go-cell-segmenter/pkg/validation"

	"github.com/sirupsen/logrus"
)

// coreSegmenter implements Segmenter and orchestrates the four stages
type coreSegmenter struct {
	paramsValidator *validation.ParamsValidator
	diagnostics     DiagnosticsWriter
}

// NewSegmenter creates a segmenter. The diagnostics writer may be nil, in
// which case diagnostic rendering is skipped even when requested.
func NewSegmenter(diagnostics DiagnosticsWriter) (Segmenter, error) {
	return &coreSegmenter{
		paramsValidator: validation.NewParamsValidator(),
		diagnostics:     diagnostics,
	}, nil
}

// Segment runs one segmentation invocation. All entities it creates live
// only for the duration of the call; nothing is cached across invocations.
func (cs *coreSegmenter) Segment(seeds, intensity image.Image, options SegmentationOptions) (*SegmentationResult, error) {
	start := time.Now()

	if err := cs.paramsValidator.ValidateParameters(options.CorrectionFactors, options.MaxThreshold); err != nil {
		return nil, err
	}

	// Reject unsupported storage and mismatched extents before any
	// computation.
	seedLabels, err := SeedsFromImage(seeds)
	if err != nil {
		return nil, err
	}
	normalized, minThreshold, err := NormalizeIntensity(intensity, options.MinThreshold)
	if err != nil {
		return nil, err
	}
	if seedLabels.Width != normalized.Width || seedLabels.Height != normalized.Height {
		return nil, apperrors.NewDimensionMismatchError(
			fmt.Sprintf("seed image is %dx%d but intensity image is %dx%d",
				seedLabels.Width, seedLabels.Height, normalized.Width, normalized.Height), nil)
	}
	if minThreshold > options.MaxThreshold {
		return nil, apperrors.NewValidationError(
			fmt.Sprintf("min threshold %.4f exceeds max threshold %.4f after normalization",
				minThreshold, options.MaxThreshold), nil)
	}

	working, identities := relabelComponents(seedLabels)

	bounds := ThresholdBounds{Min: minThreshold, Max: options.MaxThreshold}
	grown, applied := segmentWatershed(normalized, working, options.CorrectionFactors, bounds)

	final, err := RemapLabels(grown, identities)
	if err != nil {
		return nil, err
	}

	result := &SegmentationResult{
		Labels:            final,
		ObjectCount:       len(final.Labels()),
		AppliedThresholds: applied,
		Timestamp:         start,
	}
	result.MeanForegroundIntensity = meanForegroundIntensity(normalized, final)
	result.ProcessingTimeSec = time.Since(start).Seconds()

	if options.Diagnostics && cs.diagnostics != nil && options.DiagnosticsPath != "" {
		maxCells := options.DownsampleMax
		if maxCells <= 0 {
			maxCells = DefaultOptions().DownsampleMax
		}
		// Rendering is best-effort; a failed figure never invalidates
		// the segmentation itself.
		if err := cs.diagnostics.WriteOverlay(options.DiagnosticsPath, normalized, final, maxCells); err != nil {
			logger.WithError(err).WithFields(logrus.Fields{
				"path": options.DiagnosticsPath,
			}).Warn("Failed to write segmentation diagnostics")
		}
	}

	return result, nil
}

// Close releases resources held by the segmenter
func (cs *coreSegmenter) Close() error {
	return nil
}

// meanForegroundIntensity averages the normalized intensity over the pixels
// assigned to any object
func meanForegroundIntensity(intensity *IntensityImage, labels *LabelImage) float64 {
	foreground := make([]float64, 0, len(intensity.Pix)/4)
	for i, v := range labels.Pix {
		if v != 0 {
			foreground = append(foreground, intensity.Pix[i])
		}
	}
	if len(foreground) == 0 {
		return 0
	}
	return stat.Mean(foreground, nil)
}
