package segmentation

import (
	"fmt"
	"image"

	apperrors "go-cell-segmenter/internal/errors"
)

// SeedsFromImage converts an integer-valued grayscale image into a seed
// LabelImage. Labels may be arbitrary: non-contiguous, non-sequential, and
// sparse. Non-integer pixel storage is rejected with invalid_input_type.
func SeedsFromImage(img image.Image) (*LabelImage, error) {
	switch src := img.(type) {
	case *image.Gray:
		bounds := src.Bounds()
		out := NewLabelImage(bounds.Dx(), bounds.Dy())
		for y := 0; y < out.Height; y++ {
			for x := 0; x < out.Width; x++ {
				out.Set(x, y, int32(src.GrayAt(bounds.Min.X+x, bounds.Min.Y+y).Y))
			}
		}
		return out, nil

	case *image.Gray16:
		bounds := src.Bounds()
		out := NewLabelImage(bounds.Dx(), bounds.Dy())
		for y := 0; y < out.Height; y++ {
			for x := 0; x < out.Width; x++ {
				out.Set(x, y, int32(src.Gray16At(bounds.Min.X+x, bounds.Min.Y+y).Y))
			}
		}
		return out, nil

	default:
		return nil, apperrors.NewInvalidInputTypeError(
			fmt.Sprintf("unsupported seed storage %T, want integer-labeled grayscale", img), nil)
	}
}

// relabelComponents converts an arbitrarily-labeled seed image into a dense
// working label space. The foreground mask (label > 0) is decomposed into
// 4-connected components, numbered 1..K in row-major discovery order, and the
// original label found at each component's first pixel is recorded in the
// identity map.
//
// A single original object split into several disjoint components yields one
// working label per fragment, all mapping back to the same original label;
// remapping folds the fragments under one identity. Many-to-one is permitted.
func relabelComponents(seeds *LabelImage) (*LabelImage, IdentityMap) {
	out := NewLabelImage(seeds.Width, seeds.Height)
	ids := make(IdentityMap)

	var next int32
	queue := make([]int, 0, 64)

	for start, v := range seeds.Pix {
		if v == 0 || out.Pix[start] != 0 {
			continue
		}
		next++
		ids[next] = v

		// Flood the component via BFS over the foreground mask
		out.Pix[start] = next
		queue = append(queue[:0], start)
		for len(queue) > 0 {
			idx := queue[0]
			queue = queue[1:]
			x, y := idx%seeds.Width, idx/seeds.Width

			for _, d := range [4][2]int{{0, -1}, {-1, 0}, {1, 0}, {0, 1}} {
				nx, ny := x+d[0], y+d[1]
				if nx < 0 || ny < 0 || nx >= seeds.Width || ny >= seeds.Height {
					continue
				}
				nidx := ny*seeds.Width + nx
				if seeds.Pix[nidx] != 0 && out.Pix[nidx] == 0 {
					out.Pix[nidx] = next
					queue = append(queue, nidx)
				}
			}
		}
	}

	return out, ids
}

// RemapLabels substitutes every nonzero working label with its original label
// from the identity map. Background passes through unchanged. A working label
// with no identity-map entry means relabeling and growth were composed
// incorrectly; the error propagates rather than silently zeroing the pixel.
func RemapLabels(working *LabelImage, ids IdentityMap) (*LabelImage, error) {
	out := NewLabelImage(working.Width, working.Height)
	for i, v := range working.Pix {
		if v == 0 {
			continue
		}
		orig, ok := ids[v]
		if !ok {
			return nil, apperrors.NewOrphanLabelError(
				fmt.Sprintf("working label %d has no identity-map entry", v), nil)
		}
		out.Pix[i] = orig
	}
	return out, nil
}
