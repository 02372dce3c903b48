// Package diagnostics renders the vote image a finder built for one event:
// a gonum/plot heatmap, an interactive go-echarts page and a raw raster
// with one pixel block per cell. Recorder writes them for the first few
// events of a run.
package diagnostics
