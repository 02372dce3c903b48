// Command houghroads reads a CSV hit dump, runs the configured road finders
// over every event and writes the roads found as JSON lines.
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/banshee-data/houghroads/internal/config"
	"github.com/banshee-data/houghroads/internal/hough/diagnostics"
	"github.com/banshee-data/houghroads/internal/hough/doublet"
	"github.com/banshee-data/houghroads/internal/hough/hits"
	"github.com/banshee-data/houghroads/internal/hough/pipeline"
	"github.com/banshee-data/houghroads/internal/hough/roads"
	"github.com/banshee-data/houghroads/internal/hough/shift"
	"github.com/banshee-data/houghroads/internal/hough/transform"
	"github.com/banshee-data/houghroads/internal/monitoring"
	"github.com/banshee-data/houghroads/internal/version"
)

// record is one output line.
type record struct {
	RunID string       `json:"run_id"`
	Event int          `json:"event"`
	Roads []roads.Road `json:"roads"`
}

type options struct {
	config    string
	hits      string
	out       string
	plots     string
	maxPlots  int
	separator string
	logLevel  string
	version   bool
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var o options
	fs := flag.NewFlagSet("houghroads", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.config, "config", "", "Tuning file (.json, .yaml or .yml); built-in defaults when empty")
	fs.StringVar(&o.hits, "hits", "", "CSV hit dump (event,layer,r,x,y,z[,tech,module,type]); stdin when empty")
	fs.StringVar(&o.out, "out", "", "Output file for JSON lines; stdout when empty")
	fs.StringVar(&o.plots, "plots", "", "Directory for accumulator heatmaps; disabled when empty")
	fs.IntVar(&o.maxPlots, "max-plots", 10, "Maximum number of events to plot")
	fs.StringVar(&o.separator, "sep", ",", "Field separator of the hit dump")
	fs.StringVar(&o.logLevel, "log", "ops", "Log level: quiet, ops, diag or trace")
	fs.BoolVar(&o.version, "version", false, "Print version and exit")
	if err := fs.Parse(args); err != nil {
		return o, err
	}
	if fs.NArg() > 0 {
		return o, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	if len([]rune(o.separator)) != 1 {
		return o, fmt.Errorf("-sep must be a single character, got %q", o.separator)
	}
	if o.maxPlots < 0 {
		return o, fmt.Errorf("-max-plots must be non-negative, got %d", o.maxPlots)
	}
	return o, nil
}

// loadConfig reads the tuning file and resolves a relative shifts_file
// against the directory holding it.
func loadConfig(path string) (*config.TuningConfig, error) {
	if path == "" {
		return config.LoadDefaultConfig()
	}
	cfg, err := config.LoadTuningConfig(path)
	if err != nil {
		return nil, err
	}
	if f := cfg.Shift.GetShiftsFile(); f != "" && !filepath.IsAbs(f) {
		resolved := filepath.Join(filepath.Dir(path), f)
		cfg.Shift.ShiftsFile = &resolved
	}
	return cfg, nil
}

func setLogWriters(level monitoring.Level, w io.Writer) {
	ops, diag, trace := monitoring.Streams(level, w)
	roads.SetLogWriters(ops, diag, trace)
	transform.SetLogWriters(ops, diag, trace)
	shift.SetLogWriters(ops, diag, trace)
	doublet.SetLogWriters(ops, diag, trace)
	pipeline.SetLogWriters(ops, diag)
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) (err error) {
	o, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}
	if o.version {
		fmt.Fprintln(stdout, version.String("houghroads"))
		return nil
	}
	level, err := monitoring.ParseLevel(o.logLevel)
	if err != nil {
		return err
	}
	setLogWriters(level, stderr)
	defer setLogWriters(monitoring.LevelQuiet, nil)
	logger := log.New(stderr, "", log.LstdFlags)
	prev := monitoring.Logf
	defer func() { monitoring.Logf = prev }()
	monitoring.SetLogger(func(format string, v ...interface{}) {
		if level >= monitoring.LevelOps {
			logger.Printf(format, v...)
		}
	})

	cfg, err := loadConfig(o.config)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	p, err := pipeline.Build(cfg)
	if err != nil {
		return fmt.Errorf("build finders: %w", err)
	}

	in := stdin
	if o.hits != "" {
		f, err := os.Open(o.hits)
		if err != nil {
			return fmt.Errorf("open hits: %w", err)
		}
		defer f.Close()
		in = f
	}
	events, err := hits.ReadEvents(in, []rune(o.separator)[0])
	if err != nil {
		return err
	}

	out := stdout
	if o.out != "" {
		f, cerr := os.Create(o.out)
		if cerr != nil {
			return fmt.Errorf("create output: %w", cerr)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = cerr
			}
		}()
		out = f
	}

	var rec *diagnostics.Recorder
	if o.plots != "" {
		if rec, err = diagnostics.NewRecorder(o.plots, o.maxPlots); err != nil {
			return err
		}
	}

	runID := uuid.NewString()
	monitoring.Logf("run %s: %d events, %d finder stages", runID, len(events), len(p.Stages()))
	enc := json.NewEncoder(out)
	buf := roads.NewBuffer()
	total := 0
	for _, ev := range events {
		rs, err := p.FindRoads(buf, hits.NewArena(ev.Hits))
		if err != nil {
			return fmt.Errorf("event %d: %w", ev.ID, err)
		}
		if rs == nil {
			rs = []roads.Road{}
		}
		total += len(rs)
		if err := enc.Encode(record{RunID: runID, Event: ev.ID, Roads: rs}); err != nil {
			return fmt.Errorf("write event %d: %w", ev.ID, err)
		}
		if rec != nil {
			if _, err := rec.Record(ev.ID, p.Frames(buf)...); err != nil {
				return fmt.Errorf("plot event %d: %w", ev.ID, err)
			}
		}
	}
	monitoring.Logf("run %s: %d roads written", runID, total)
	if rec != nil {
		monitoring.Logf("run %s: %d plots in %s", runID, rec.Written(), rec.Dir())
	}
	return nil
}

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		log.Fatal(err)
	}
}
