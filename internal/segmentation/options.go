package segmentation

// SegmentationOptions configures one segmentation invocation
type SegmentationOptions struct {
	// CorrectionFactors are the ordered positive multipliers applied to the
	// base threshold; each defines one growth pass
	CorrectionFactors []float64

	// MinThreshold is the lower threshold bound, expressed in the same
	// fixed-width unit as the intensity image (0..255 for 8-bit input,
	// 0..65535 for 16-bit)
	MinThreshold uint16

	// MaxThreshold is the upper threshold bound as a normalized intensity
	MaxThreshold float64

	// Diagnostics enables the heat-map rendering of the downsampled source
	// intensity and output labels
	Diagnostics     bool
	DiagnosticsPath string

	// DownsampleMax caps the number of heat-map cells per axis
	DownsampleMax int
}

// DefaultOptions returns default segmentation options: a single growth pass
// at the unscaled base threshold, the full normalized threshold window, and
// no diagnostics.
func DefaultOptions() SegmentationOptions {
	return SegmentationOptions{
		CorrectionFactors: []float64{1.0},
		MinThreshold:      0,
		MaxThreshold:      1.0,
		Diagnostics:       false,
		DownsampleMax:     256,
	}
}

// WithFactors replaces the correction-factor sequence
func (o SegmentationOptions) WithFactors(factors ...float64) SegmentationOptions {
	o.CorrectionFactors = factors
	return o
}

// WithThresholdWindow sets both threshold bounds
func (o SegmentationOptions) WithThresholdWindow(min uint16, max float64) SegmentationOptions {
	o.MinThreshold = min
	o.MaxThreshold = max
	return o
}

// WithDiagnostics enables diagnostic rendering to the given file path
func (o SegmentationOptions) WithDiagnostics(path string) SegmentationOptions {
	o.Diagnostics = true
	o.DiagnosticsPath = path
	return o
}
