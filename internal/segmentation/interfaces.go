package segmentation

import "image"

// Segmenter delineates secondary objects around already-identified primary
// objects in a single 2-D grayscale image
type Segmenter interface {
	// Segment runs one self-contained invocation: normalize, relabel,
	// iterative watershed growth, remap
	Segment(seeds, intensity image.Image, options SegmentationOptions) (*SegmentationResult, error)

	// Lifecycle management
	Close() error
}

// DiagnosticsWriter renders a visualization payload for one invocation:
// paired heat maps of the downsampled source intensity and the downsampled
// output labels, written to a file path
type DiagnosticsWriter interface {
	WriteOverlay(path string, intensity *IntensityImage, labels *LabelImage, maxCells int) error
}
