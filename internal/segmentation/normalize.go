package segmentation

import (
	"fmt"
	"image"

	apperrors "go-cell-segmenter/internal/errors"
)

// NormalizeIntensity rescales an 8- or 16-bit unsigned grayscale image into
// [0, 1] by dividing every sample by the maximum representable value for its
// storage width. The minimum threshold, given in the same fixed-width unit as
// the image, is divided the same way and returned alongside.
//
// Any other pixel storage (color, paletted masks, float-backed
// implementations) is rejected with an invalid_input_type error before any
// computation.
func NormalizeIntensity(img image.Image, minThreshold uint16) (*IntensityImage, float64, error) {
	switch src := img.(type) {
	case *image.Gray:
		bounds := src.Bounds()
		out := NewIntensityImage(bounds.Dx(), bounds.Dy())
		for y := 0; y < out.Height; y++ {
			for x := 0; x < out.Width; x++ {
				v := src.GrayAt(bounds.Min.X+x, bounds.Min.Y+y).Y
				out.Set(x, y, float64(v)/255.0)
			}
		}
		return out, float64(minThreshold) / 255.0, nil

	case *image.Gray16:
		bounds := src.Bounds()
		out := NewIntensityImage(bounds.Dx(), bounds.Dy())
		for y := 0; y < out.Height; y++ {
			for x := 0; x < out.Width; x++ {
				v := src.Gray16At(bounds.Min.X+x, bounds.Min.Y+y).Y
				out.Set(x, y, float64(v)/65535.0)
			}
		}
		return out, float64(minThreshold) / 65535.0, nil

	default:
		return nil, 0, apperrors.NewInvalidInputTypeError(
			fmt.Sprintf("unsupported intensity storage %T, want 8- or 16-bit unsigned grayscale", img), nil)
	}
}
