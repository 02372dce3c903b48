package diagnostics

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/banshee-data/houghroads/internal/hough/roads"
)

// RasterScale is the pixel block size of saved rasters.
const RasterScale = 4

// Recorder writes diagnostics for at most max events into a directory.
// It is safe for concurrent use.
type Recorder struct {
	mu      sync.Mutex
	dir     string
	max     int
	written int
}

// NewRecorder creates dir and returns a recorder writing into it. A
// non-positive max disables recording.
func NewRecorder(dir string, max int) (*Recorder, error) {
	if dir == "" {
		return nil, fmt.Errorf("no output directory configured")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output dir: %w", err)
	}
	return &Recorder{dir: dir, max: max}, nil
}

// Dir returns the output directory.
func (r *Recorder) Dir() string { return r.dir }

// Written is the number of events recorded so far.
func (r *Recorder) Written() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.written
}

// Frame is one finder's output for one event.
type Frame struct {
	Name   string
	Buffer *roads.Buffer
	Bins   roads.Binning
	Roads  []roads.Road
	Labels Labels
}

// Record writes a heatmap PNG, a chart page and a raster for every frame
// of event and returns the files written. It returns nil once max events
// have been recorded. Frames without an image are skipped.
func (r *Recorder) Record(event int, frames ...Frame) ([]string, error) {
	r.mu.Lock()
	if r.written >= r.max {
		r.mu.Unlock()
		return nil, nil
	}
	r.written++
	r.mu.Unlock()

	var files []string
	for _, f := range frames {
		if f.Buffer == nil || f.Buffer.Image() == nil {
			continue
		}
		im := f.Buffer.Image()
		base := filepath.Join(r.dir, fmt.Sprintf("event_%06d_%s", event, f.Name))
		labels := f.Labels
		if labels.Title == "" {
			labels.Title = fmt.Sprintf("%s event %d", f.Name, event)
		}

		png := base + ".png"
		if err := SaveHeatmap(png, im, f.Bins, f.Roads, labels); err != nil {
			return files, fmt.Errorf("%s: %w", f.Name, err)
		}
		files = append(files, png)

		page := base + ".html"
		out, err := os.Create(page)
		if err != nil {
			return files, fmt.Errorf("%s: %w", f.Name, err)
		}
		err = RenderHeatmap(out, im, f.Bins, f.Roads, labels)
		if cerr := out.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return files, fmt.Errorf("%s: %w", f.Name, err)
		}
		files = append(files, page)

		raw := base + "_raw.png"
		if err := SaveRaster(raw, im, RasterScale); err != nil {
			return files, fmt.Errorf("%s: %w", f.Name, err)
		}
		files = append(files, raw)
	}
	return files, nil
}
