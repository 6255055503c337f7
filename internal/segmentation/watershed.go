package segmentation

import (
	"container/heap"
)

// floodItem is one frontier pixel waiting to be claimed, carrying the label
// of the region that reached it.
type floodItem struct {
	idx       int
	intensity float64
	label     int32
	seq       int64
}

// floodQueue orders frontier pixels so that higher-intensity pixels are
// claimed first, ties going to the lowest-numbered seed label, and remaining
// ties to insertion order. The ordering makes contested pixels deterministic:
// two seeds reaching a pixel at the same intensity always resolve to the
// lower label.
type floodQueue []floodItem

func (q floodQueue) Len() int { return len(q) }

func (q floodQueue) Less(i, j int) bool {
	if q[i].intensity != q[j].intensity {
		return q[i].intensity > q[j].intensity
	}
	if q[i].label != q[j].label {
		return q[i].label < q[j].label
	}
	return q[i].seq < q[j].seq
}

func (q floodQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }

func (q *floodQueue) Push(x interface{}) { *q = append(*q, x.(floodItem)) }

func (q *floodQueue) Pop() interface{} {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}

var neighborOffsets = [4][2]int{{0, -1}, {-1, 0}, {1, 0}, {0, 1}}

// segmentWatershed grows the seeded regions outward through successive
// threshold levels, one pass per correction factor, in the given order.
//
// Each pass recomputes a base threshold over the pixels no pass has yet
// claimed, scales it by the pass's factor, clamps it into bounds, and floods
// the resulting candidate mask from the current region boundaries. A pixel,
// once assigned, is never reassigned: regions only grow. Pixels left
// unclaimed after the last pass stay background.
//
// An empty seed set or an empty factor sequence yields an all-background
// output with no thresholding performed.
func segmentWatershed(intensity *IntensityImage, seeds *LabelImage, factors []float64, bounds ThresholdBounds) (*LabelImage, []float64) {
	out := NewLabelImage(seeds.Width, seeds.Height)

	hasSeeds := false
	for _, v := range seeds.Pix {
		if v != 0 {
			hasSeeds = true
			break
		}
	}
	if !hasSeeds || len(factors) == 0 {
		return out, nil
	}

	// Seed pixels always belong to their own object, whatever the
	// thresholds turn out to be.
	copy(out.Pix, seeds.Pix)

	applied := make([]float64, 0, len(factors))
	width, height := seeds.Width, seeds.Height

	var seq int64
	queue := make(floodQueue, 0, width*height/4)

	for _, factor := range factors {
		base := otsuThreshold(intensity, out.Pix)
		threshold := bounds.Clamp(base * factor)
		applied = append(applied, threshold)

		candidate := func(idx int) bool {
			return out.Pix[idx] == 0 && intensity.Pix[idx] > threshold
		}

		// Prime the frontier with every candidate adjacent to an
		// assigned pixel, scanned in row-major order for determinism.
		queue = queue[:0]
		for idx, label := range out.Pix {
			if label == 0 {
				continue
			}
			x, y := idx%width, idx/width
			for _, d := range neighborOffsets {
				nx, ny := x+d[0], y+d[1]
				if nx < 0 || ny < 0 || nx >= width || ny >= height {
					continue
				}
				nidx := ny*width + nx
				if candidate(nidx) {
					seq++
					queue = append(queue, floodItem{nidx, intensity.Pix[nidx], label, seq})
				}
			}
		}
		heap.Init(&queue)

		for queue.Len() > 0 {
			item := heap.Pop(&queue).(floodItem)
			if out.Pix[item.idx] != 0 {
				// Already claimed via a higher-priority path
				continue
			}
			out.Pix[item.idx] = item.label

			x, y := item.idx%width, item.idx/width
			for _, d := range neighborOffsets {
				nx, ny := x+d[0], y+d[1]
				if nx < 0 || ny < 0 || nx >= width || ny >= height {
					continue
				}
				nidx := ny*width + nx
				if candidate(nidx) {
					seq++
					heap.Push(&queue, floodItem{nidx, intensity.Pix[nidx], item.label, seq})
				}
			}
		}
	}

	return out, applied
}
