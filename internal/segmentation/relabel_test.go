package segmentation

import (
	"image"
	"image/color"
	"testing"

	"github.com/google/go-cmp/cmp"

	apperrors "go-cell-segmenter/internal/errors"
)

// labelImageFromGrid builds a LabelImage from a row-major grid literal
func labelImageFromGrid(grid [][]int32) *LabelImage {
	height := len(grid)
	width := len(grid[0])
	out := NewLabelImage(width, height)
	for y, row := range grid {
		for x, v := range row {
			out.Set(x, y, v)
		}
	}
	return out
}

func TestSeedsFromImage_Gray16(t *testing.T) {
	img := image.NewGray16(image.Rect(0, 0, 2, 2))
	img.SetGray16(0, 0, color.Gray16{Y: 300})
	img.SetGray16(1, 1, color.Gray16{Y: 7})

	seeds, err := SeedsFromImage(img)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if seeds.At(0, 0) != 300 {
		t.Errorf("Expected label 300 at (0,0), got %d", seeds.At(0, 0))
	}
	if seeds.At(1, 1) != 7 {
		t.Errorf("Expected label 7 at (1,1), got %d", seeds.At(1, 1))
	}
	if seeds.At(1, 0) != 0 {
		t.Errorf("Expected background at (1,0), got %d", seeds.At(1, 0))
	}
}

func TestSeedsFromImage_RejectsColor(t *testing.T) {
	_, err := SeedsFromImage(image.NewRGBA(image.Rect(0, 0, 2, 2)))
	if err == nil {
		t.Fatal("Expected an error for RGBA seed input")
	}
	if !apperrors.IsType(err, apperrors.ErrorTypeInvalidInputType) {
		t.Errorf("Expected invalid_input_type, got: %v", err)
	}
}

func TestRelabelComponents_DenseLabels(t *testing.T) {
	// Sparse, non-sequential original labels
	seeds := labelImageFromGrid([][]int32{
		{7, 7, 0, 0},
		{7, 0, 0, 300},
		{0, 0, 0, 300},
	})

	working, ids := relabelComponents(seeds)

	want := labelImageFromGrid([][]int32{
		{1, 1, 0, 0},
		{1, 0, 0, 2},
		{0, 0, 0, 2},
	})
	if diff := cmp.Diff(want.Pix, working.Pix); diff != "" {
		t.Errorf("Unexpected working labels (-want +got):\n%s", diff)
	}

	wantIDs := IdentityMap{1: 7, 2: 300}
	if diff := cmp.Diff(wantIDs, ids); diff != "" {
		t.Errorf("Unexpected identity map (-want +got):\n%s", diff)
	}
}

func TestRelabelComponents_DiagonalTouchIsSeparate(t *testing.T) {
	// 4-connectivity: diagonal contact does not join components
	seeds := labelImageFromGrid([][]int32{
		{5, 0},
		{0, 5},
	})

	working, ids := relabelComponents(seeds)

	if working.At(0, 0) == working.At(1, 1) {
		t.Error("Expected diagonal fragments to receive distinct working labels")
	}
	if len(ids) != 2 {
		t.Fatalf("Expected 2 identity entries, got %d", len(ids))
	}
}

func TestRelabelComponents_SplitObjectFoldsOnRemap(t *testing.T) {
	// One original object split into two disjoint fragments: each fragment
	// gets its own working label, both map back to the same original label.
	seeds := labelImageFromGrid([][]int32{
		{9, 0, 0, 9},
		{9, 0, 0, 9},
	})

	working, ids := relabelComponents(seeds)

	if got := len(ids); got != 2 {
		t.Fatalf("Expected 2 working labels, got %d", got)
	}
	if ids[1] != 9 || ids[2] != 9 {
		t.Errorf("Expected both working labels to map to 9, got %v", ids)
	}

	final, err := RemapLabels(working, ids)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	for i, v := range seeds.Pix {
		if final.Pix[i] != v {
			t.Fatalf("Expected remap to restore original label at index %d: want %d, got %d", i, v, final.Pix[i])
		}
	}
}

func TestRemapLabels_BackgroundPassthrough(t *testing.T) {
	working := labelImageFromGrid([][]int32{
		{0, 1},
		{0, 0},
	})

	final, err := RemapLabels(working, IdentityMap{1: 42})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if final.At(1, 0) != 42 {
		t.Errorf("Expected label 42, got %d", final.At(1, 0))
	}
	if final.At(0, 0) != 0 || final.At(0, 1) != 0 || final.At(1, 1) != 0 {
		t.Error("Expected background pixels to pass through unchanged")
	}
}

func TestRemapLabels_OrphanLabel(t *testing.T) {
	working := labelImageFromGrid([][]int32{
		{1, 2},
	})

	_, err := RemapLabels(working, IdentityMap{1: 42})
	if err == nil {
		t.Fatal("Expected an error for a working label missing from the identity map")
	}
	if !apperrors.IsType(err, apperrors.ErrorTypeOrphanLabel) {
		t.Errorf("Expected orphan_label, got: %v", err)
	}
}

func TestRelabelThenRemap_IdentityRoundTrip(t *testing.T) {
	seeds := labelImageFromGrid([][]int32{
		{11, 0, 0, 0, 250},
		{11, 0, 0, 0, 250},
		{0, 0, 83, 0, 0},
	})

	working, ids := relabelComponents(seeds)
	final, err := RemapLabels(working, ids)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if diff := cmp.Diff(seeds.Pix, final.Pix); diff != "" {
		t.Errorf("Expected round trip to restore the seed labels (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(seeds.Labels(), final.Labels()); diff != "" {
		t.Errorf("Expected distinct label sets to match (-want +got):\n%s", diff)
	}
}
