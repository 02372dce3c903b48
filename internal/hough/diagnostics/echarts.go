package diagnostics

import (
	"fmt"
	"io"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/houghroads/internal/hough/accumulator"
	"github.com/banshee-data/houghroads/internal/hough/roads"
)

var viridis = []string{"#440154", "#482777", "#3e4989", "#31688e", "#26828e", "#1f9e89", "#35b779", "#6ece58", "#b5de2b", "#fde725"}

func axisLabels(n int, centre func(int) float64) []string {
	out := make([]string, n)
	for i := range out {
		if centre == nil {
			out[i] = strconv.Itoa(i)
			continue
		}
		out[i] = strconv.FormatFloat(centre(i), 'g', 4, 64)
	}
	return out
}

// HeatmapChart builds an interactive heatmap of im. Only filled cells are
// emitted; road cells are listed in a second series.
func HeatmapChart(im *accumulator.Image, bins roads.Binning, rs []roads.Road, labels Labels) (*charts.HeatMap, error) {
	if im == nil || im.NX() == 0 || im.NY() == 0 {
		return nil, fmt.Errorf("no image to chart")
	}
	var xc, yc func(int) float64
	if bins != nil && bins.NX() == im.NX() && bins.NY() == im.NY() {
		xc, yc = bins.XCenter, bins.YCenter
	}

	data := make([]opts.HeatMapData, 0)
	for y, row := range im.Counts() {
		for x, c := range row {
			if c > 0 {
				data = append(data, opts.HeatMapData{Value: [3]interface{}{x, y, c}})
			}
		}
	}
	roadData := make([]opts.HeatMapData, len(rs))
	for i, r := range rs {
		roadData[i] = opts.HeatMapData{
			Name:  fmt.Sprintf("road %d", r.ID),
			Value: [3]interface{}{r.XBin, r.YBin, im.Count(r.XBin, r.YBin)},
		}
	}

	hm := charts.NewHeatMap()
	hm.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: labels.Title, Theme: "dark", Width: "900px", Height: "900px"}),
		charts.WithTitleOpts(opts.Title{Title: labels.Title, Subtitle: Summarize(im).String()}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Type: "category", Name: labels.X, NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Type: "category", Name: labels.Y, NameLocation: "middle", NameGap: 40, Data: axisLabels(im.NY(), yc)}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:       opts.Bool(true),
			Calculable: opts.Bool(true),
			Min:        0,
			Max:        float32(max(im.MaxCount(), 1)),
			InRange:    &opts.VisualMapInRange{Color: viridis},
		}),
	)
	hm.SetXAxis(axisLabels(im.NX(), xc)).
		AddSeries("votes", data).
		AddSeries("roads", roadData)
	return hm, nil
}

// RenderHeatmap writes the chart page for im to w.
func RenderHeatmap(w io.Writer, im *accumulator.Image, bins roads.Binning, rs []roads.Road, labels Labels) error {
	hm, err := HeatmapChart(im, bins, rs, labels)
	if err != nil {
		return err
	}
	if err := hm.Render(w); err != nil {
		return fmt.Errorf("render heatmap chart: %w", err)
	}
	return nil
}
