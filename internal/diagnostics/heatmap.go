package diagnostics

import (
	"fmt"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"go-cell-segmenter/internal/segmentation"
)

// HeatMapWriter renders the diagnostic payload of one segmentation
// invocation: side-by-side heat maps of the downsampled source intensity and
// the downsampled output labels, written as a single PNG.
type HeatMapWriter struct {
	paletteColors int
}

// NewHeatMapWriter creates a heat-map diagnostics writer
func NewHeatMapWriter() *HeatMapWriter {
	return &HeatMapWriter{paletteColors: 12}
}

// WriteOverlay renders both panels and writes them to path. Pure payload
// assembly and a file write; it never touches the segmentation state.
func (w *HeatMapWriter) WriteOverlay(path string, intensity *segmentation.IntensityImage, labels *segmentation.LabelImage, maxCells int) error {
	if intensity.Width != labels.Width || intensity.Height != labels.Height {
		return fmt.Errorf("intensity is %dx%d but labels are %dx%d",
			intensity.Width, intensity.Height, labels.Width, labels.Height)
	}
	if maxCells <= 0 {
		maxCells = 256
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create diagnostics dir: %w", err)
		}
	}

	stride := 1
	if longest := max(intensity.Width, intensity.Height); longest > maxCells {
		stride = (longest + maxCells - 1) / maxCells
	}

	intensityGrid := downsample(intensity.Width, intensity.Height, stride, func(x, y int) float64 {
		return intensity.At(x, y)
	})
	labelGrid := downsample(labels.Width, labels.Height, stride, func(x, y int) float64 {
		return float64(labels.At(x, y))
	})

	pIntensity := plot.New()
	pIntensity.Title.Text = "source intensity"
	pIntensity.Add(plotter.NewHeatMap(intensityGrid, palette.Heat(w.paletteColors, 1)))

	pLabels := plot.New()
	pLabels.Title.Text = "output labels"
	pLabels.Add(plotter.NewHeatMap(labelGrid, palette.Heat(w.paletteColors, 1)))

	img := vgimg.New(12*vg.Inch, 6*vg.Inch)
	dc := draw.New(img)
	tiles := draw.Tiles{Rows: 1, Cols: 2}
	plots := [][]*plot.Plot{{pIntensity, pLabels}}
	canvases := plot.Align(plots, tiles, dc)
	pIntensity.Draw(canvases[0][0])
	pLabels.Draw(canvases[0][1])

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create diagnostics file: %w", err)
	}
	defer f.Close()

	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(f); err != nil {
		return fmt.Errorf("failed to write diagnostics png: %w", err)
	}
	return nil
}

// unitGrid adapts a downsampled pixel grid to the plotter's grid interface.
// Rows are flipped so the figure shares the image's top-left origin.
type unitGrid struct {
	cols, rows int
	data       []float64
}

func (g unitGrid) Dims() (int, int)   { return g.cols, g.rows }
func (g unitGrid) X(c int) float64    { return float64(c) }
func (g unitGrid) Y(r int) float64    { return float64(r) }
func (g unitGrid) Z(c, r int) float64 { return g.data[(g.rows-1-r)*g.cols+c] }

func downsample(width, height, stride int, at func(x, y int) float64) unitGrid {
	cols := (width + stride - 1) / stride
	rows := (height + stride - 1) / stride
	data := make([]float64, cols*rows)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			data[r*cols+c] = at(c*stride, r*stride)
		}
	}
	return unitGrid{cols: cols, rows: rows, data: data}
}
