package hits

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Event groups the hits recorded for one collision.
type Event struct {
	ID   int
	Hits []Hit
}

// minFields is event,layer,r,x,y,z. Optional trailing columns are
// tech,module,type.
const minFields = 6

// ReadEvents parses a hit dump with one hit per record:
//
//	event,layer,r,x,y,z[,tech[,module[,type]]]
//
// r is the cylindrical radius in mm; phi is taken from atan2(y, x). Lines
// starting with '#' and a leading header row are skipped. Events are
// returned in increasing ID order with hits in file order. A sep of 0
// means ','.
func ReadEvents(r io.Reader, sep rune) ([]Event, error) {
	cr := csv.NewReader(r)
	if sep != 0 {
		cr.Comma = sep
	}
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	byID := make(map[int]*Event)
	first := true
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read hits: %w", err)
		}
		if first {
			first = false
			if isHeader(rec) {
				continue
			}
		}
		id, h, err := parseRecord(rec)
		if err != nil {
			line, _ := cr.FieldPos(0)
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		ev, ok := byID[id]
		if !ok {
			ev = &Event{ID: id}
			byID[id] = ev
		}
		ev.Hits = append(ev.Hits, h)
	}

	ids := make([]int, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	out := make([]Event, 0, len(ids))
	for _, id := range ids {
		out = append(out, *byID[id])
	}
	return out, nil
}

func isHeader(rec []string) bool {
	return len(rec) > 0 && strings.EqualFold(strings.TrimSpace(rec[0]), "event")
}

func parseRecord(rec []string) (int, Hit, error) {
	if len(rec) < minFields {
		return 0, Hit{}, fmt.Errorf("want at least %d fields, got %d", minFields, len(rec))
	}
	id, err := strconv.Atoi(strings.TrimSpace(rec[0]))
	if err != nil {
		return 0, Hit{}, fmt.Errorf("event: %w", err)
	}
	layer, err := strconv.Atoi(strings.TrimSpace(rec[1]))
	if err != nil {
		return 0, Hit{}, fmt.Errorf("layer: %w", err)
	}
	if layer < 0 || layer >= MaxLayers {
		return 0, Hit{}, fmt.Errorf("layer %d outside [0, %d)", layer, MaxLayers)
	}
	var f [4]float64
	for i := range f {
		v, err := strconv.ParseFloat(strings.TrimSpace(rec[2+i]), 64)
		if err != nil {
			return 0, Hit{}, fmt.Errorf("field %d: %w", 2+i, err)
		}
		f[i] = v
	}
	h := Hit{
		Layer: layer,
		R:     f[0],
		Phi:   math.Atan2(f[2], f[1]),
		Z:     f[3],
	}
	if len(rec) > 6 {
		if h.Tech, err = ParseTechnology(rec[6]); err != nil {
			return 0, Hit{}, err
		}
	}
	if len(rec) > 7 && strings.TrimSpace(rec[7]) != "" {
		if h.Module, err = strconv.Atoi(strings.TrimSpace(rec[7])); err != nil {
			return 0, Hit{}, fmt.Errorf("module: %w", err)
		}
	}
	if len(rec) > 8 {
		if h.Type, err = ParseType(rec[8]); err != nil {
			return 0, Hit{}, err
		}
	}
	return id, h, nil
}
