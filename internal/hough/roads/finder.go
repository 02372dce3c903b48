package roads

import (
	"fmt"

	"github.com/banshee-data/houghroads/internal/hough/errs"
	"github.com/banshee-data/houghroads/internal/hough/hits"
)

// Finder turns the hits of one event into roads. Implementations keep only
// read-only tables; all per-call state lives in buf, which FindRoads
// resets before use. The returned slice is owned by buf.
type Finder interface {
	FindRoads(buf *Buffer, arena *hits.Arena) ([]Road, error)
}

// Union runs several finders on the same hits and concatenates their
// roads in member order. IDs are renumbered so they stay unique.
type Union struct {
	members []Finder
}

// NewUnion requires at least one non-nil member.
func NewUnion(members ...Finder) (*Union, error) {
	if len(members) == 0 {
		return nil, errs.Invalid("union", "", "no members")
	}
	for i, m := range members {
		if m == nil {
			return nil, errs.Invalid("union", "", "member %d is nil", i)
		}
	}
	return &Union{members: append([]Finder(nil), members...)}, nil
}

// Members returns the wrapped finders.
func (u *Union) Members() []Finder { return u.members }

// FindRoads implements Finder. Member i works in buf.Child(i), so the
// image of each member stays available for diagnostics.
func (u *Union) FindRoads(buf *Buffer, arena *hits.Arena) ([]Road, error) {
	buf.Reset()
	for i, m := range u.members {
		child := buf.Child(i)
		rs, err := m.FindRoads(child, arena)
		if err != nil {
			opsf("union member %d failed: %v", i, err)
			return nil, fmt.Errorf("union member %d: %w", i, err)
		}
		for _, r := range rs {
			buf.Emit(r)
		}
	}
	if len(u.members) > 0 {
		buf.SetImage(buf.Child(0).Image())
	}
	diagf("union: %d roads from %d finders", buf.Len(), len(u.members))
	return buf.Roads(), nil
}
