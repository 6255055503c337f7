package segmentation

const histogramBins = 256

// otsuThreshold computes a global bimodal threshold over the normalized
// intensities of the still-unassigned foreground candidates, by maximizing
// the between-class variance of a 256-bin histogram (classic 1-D Otsu).
//
// Pixels already claimed by an object and zero-intensity pixels are excluded,
// so later passes split only what remains. The returned threshold is the bin
// center mapped back into [0, 1]. An empty candidate set yields 0; the caller
// clamps into its bounds either way.
func otsuThreshold(intensity *IntensityImage, assigned []int32) float64 {
	var histogram [histogramBins]int
	total := 0
	for i, v := range intensity.Pix {
		if assigned[i] != 0 || v <= 0 {
			continue
		}
		bin := int(v * (histogramBins - 1))
		if bin >= histogramBins {
			bin = histogramBins - 1
		}
		histogram[bin]++
		total++
	}
	if total == 0 {
		return 0
	}

	sum := 0.0
	for i, count := range histogram {
		sum += float64(i) * float64(count)
	}

	sumB := 0.0
	wB := 0
	maxVariance := 0.0
	bestBin := 0

	for t := 0; t < histogramBins; t++ {
		wB += histogram[t]
		if wB == 0 {
			continue
		}
		wF := total - wB
		if wF == 0 {
			break
		}

		sumB += float64(t) * float64(histogram[t])

		mB := sumB / float64(wB)
		mF := (sum - sumB) / float64(wF)

		variance := float64(wB) * float64(wF) * (mB - mF) * (mB - mF)
		if variance > maxVariance {
			maxVariance = variance
			bestBin = t
		}
	}

	return float64(bestBin) / float64(histogramBins-1)
}
