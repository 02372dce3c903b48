package diagnostics

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/houghroads/internal/hough/accumulator"
	"github.com/banshee-data/houghroads/internal/hough/roads"
)

// Labels names the image axes on rendered plots.
type Labels struct {
	Title string
	X, Y  string
}

// imageGrid adapts an image to plotter.GridXYZ. Axes whose bin centres
// are not increasing are drawn in bin units.
type imageGrid struct {
	counts [][]int
	bins   roads.Binning
	xs, ys bool
}

func newImageGrid(im *accumulator.Image, bins roads.Binning) imageGrid {
	g := imageGrid{counts: im.Counts(), bins: bins}
	if bins != nil && bins.NX() == im.NX() && bins.NY() == im.NY() {
		g.xs = increasing(im.NX(), bins.XCenter)
		g.ys = increasing(im.NY(), bins.YCenter)
	}
	return g
}

func increasing(n int, centre func(int) float64) bool {
	for i := 1; i < n; i++ {
		if !(centre(i) > centre(i-1)) {
			return false
		}
	}
	return true
}

func (g imageGrid) Dims() (c, r int) {
	if len(g.counts) == 0 {
		return 0, 0
	}
	return len(g.counts[0]), len(g.counts)
}

func (g imageGrid) Z(c, r int) float64 { return float64(g.counts[r][c]) }

func (g imageGrid) X(c int) float64 {
	if g.xs {
		return g.bins.XCenter(c)
	}
	return float64(c)
}

func (g imageGrid) Y(r int) float64 {
	if g.ys {
		return g.bins.YCenter(r)
	}
	return float64(r)
}

// HeatmapPlot draws the vote counts of im with road cells marked.
func HeatmapPlot(im *accumulator.Image, bins roads.Binning, rs []roads.Road, labels Labels) (*plot.Plot, error) {
	if im == nil || im.NX() == 0 || im.NY() == 0 {
		return nil, fmt.Errorf("no image to plot")
	}
	g := newImageGrid(im, bins)

	p := plot.New()
	p.Title.Text = labels.Title
	p.X.Label.Text = labels.X
	p.Y.Label.Text = labels.Y
	if !g.xs {
		p.X.Label.Text += " (bin)"
	}
	if !g.ys {
		p.Y.Label.Text += " (bin)"
	}

	hm := plotter.NewHeatMap(g, palette.Heat(32, 1))
	if hm.Max <= hm.Min {
		hm.Max = hm.Min + 1
	}
	p.Add(hm)

	if len(rs) > 0 {
		pts := make(plotter.XYs, len(rs))
		for i, r := range rs {
			pts[i] = plotter.XY{X: g.X(r.XBin), Y: g.Y(r.YBin)}
		}
		sc, err := plotter.NewScatter(pts)
		if err != nil {
			return nil, fmt.Errorf("road markers: %w", err)
		}
		sc.GlyphStyle.Radius = vg.Points(3)
		p.Add(sc)
		p.Legend.Add("roads", sc)
		p.Legend.Top = true
	}
	return p, nil
}

// SaveHeatmap renders the heatmap to path; the format follows the file
// extension.
func SaveHeatmap(path string, im *accumulator.Image, bins roads.Binning, rs []roads.Road, labels Labels) error {
	p, err := HeatmapPlot(im, bins, rs, labels)
	if err != nil {
		return err
	}
	if err := p.Save(10*vg.Inch, 8*vg.Inch, path); err != nil {
		return fmt.Errorf("save heatmap: %w", err)
	}
	return nil
}
