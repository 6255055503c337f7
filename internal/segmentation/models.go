package segmentation

import (
	"sort"
	"time"
)

// LabelImage is a 2-D grid of object identifiers. A value of 0 denotes
// background; every other value identifies one object. Pixels are stored in
// row-major order.
type LabelImage struct {
	Width  int
	Height int
	Pix    []int32
}

// NewLabelImage creates an all-background label image of the given size
func NewLabelImage(width, height int) *LabelImage {
	return &LabelImage{
		Width:  width,
		Height: height,
		Pix:    make([]int32, width*height),
	}
}

// At returns the label at (x, y)
func (l *LabelImage) At(x, y int) int32 {
	return l.Pix[y*l.Width+x]
}

// Set assigns the label at (x, y)
func (l *LabelImage) Set(x, y int, v int32) {
	l.Pix[y*l.Width+x] = v
}

// Clone returns a deep copy
func (l *LabelImage) Clone() *LabelImage {
	out := NewLabelImage(l.Width, l.Height)
	copy(out.Pix, l.Pix)
	return out
}

// Labels returns the sorted distinct nonzero labels present in the image
func (l *LabelImage) Labels() []int32 {
	seen := make(map[int32]struct{})
	for _, v := range l.Pix {
		if v != 0 {
			seen[v] = struct{}{}
		}
	}
	out := make([]int32, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// IntensityImage is a 2-D grid of normalized intensities in [0, 1], stored in
// row-major order with the same layout as LabelImage.
type IntensityImage struct {
	Width  int
	Height int
	Pix    []float64
}

// NewIntensityImage creates a zeroed intensity image of the given size
func NewIntensityImage(width, height int) *IntensityImage {
	return &IntensityImage{
		Width:  width,
		Height: height,
		Pix:    make([]float64, width*height),
	}
}

// At returns the intensity at (x, y)
func (i *IntensityImage) At(x, y int) float64 {
	return i.Pix[y*i.Width+x]
}

// Set assigns the intensity at (x, y)
func (i *IntensityImage) Set(x, y int, v float64) {
	i.Pix[y*i.Width+x] = v
}

// IdentityMap records, for every working label produced by relabeling, the
// original label it stands for. It is built fresh per invocation; working
// labels have no meaning outside the call that created them.
type IdentityMap map[int32]int32

// ThresholdBounds clamps every computed growth threshold into [Min, Max],
// both expressed as normalized intensities.
type ThresholdBounds struct {
	Min float64
	Max float64
}

// Clamp forces v into the bounds
func (b ThresholdBounds) Clamp(v float64) float64 {
	if v < b.Min {
		return b.Min
	}
	if v > b.Max {
		return b.Max
	}
	return v
}

// SegmentationResult holds the output of one segmentation invocation
type SegmentationResult struct {
	// Labels carries the original object identifiers from the seed image
	Labels *LabelImage

	// ObjectCount is the number of distinct objects in the output
	ObjectCount int

	// AppliedThresholds records the clamped threshold used by each growth
	// pass, in pass order
	AppliedThresholds []float64

	// MeanForegroundIntensity is the mean normalized intensity over the
	// pixels assigned to any object
	MeanForegroundIntensity float64

	Timestamp         time.Time
	ProcessingTimeSec float64
}
