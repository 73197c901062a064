// Package reach classifies entries as connected to, or orphaned from, the
// designated root of the hierarchy.
package reach

import (
	"context"
	"slices"
)

// Source resolves the parents of an entry. Unknown identifiers have none.
type Source interface {
	Parents(id string) []string
}

// Result partitions the classified identifiers.
type Result struct {
	Reachable map[string]struct{}
	Orphans   []string
}

// IsReachable reports whether id traced back to the root.
func (r *Result) IsReachable(id string) bool {
	_, ok := r.Reachable[id]
	return ok
}

// Classify traces every identifier in ids upward through its up list. An
// identifier is reachable if it is root, if root is one of its parents, or if
// any parent is reachable. Orphans are returned in ascending order.
//
// Each top-level identifier starts a fresh trace. Nodes confirmed reachable
// are remembered across traces; negative outcomes are not, because a trace
// may have been cut short by its own visited set.
//
// ctx is checked before each top-level identifier.
func Classify(ctx context.Context, ids []string, root string, src Source) (*Result, error) {
	sorted := slices.Clone(ids)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	t := &tracer{src: src, root: root, reachable: make(map[string]bool)}
	res := &Result{Reachable: make(map[string]struct{}), Orphans: []string{}}

	for _, id := range sorted {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if t.trace(id, make(map[string]struct{})) {
			res.Reachable[id] = struct{}{}
		} else {
			res.Orphans = append(res.Orphans, id)
		}
	}
	return res, nil
}

type tracer struct {
	src       Source
	root      string
	reachable map[string]bool
}

func (t *tracer) trace(id string, visited map[string]struct{}) bool {
	if t.reachable[id] {
		return true
	}
	if _, seen := visited[id]; seen {
		return false
	}
	visited[id] = struct{}{}

	if id == t.root {
		t.reachable[id] = true
		return true
	}
	for _, parent := range t.src.Parents(id) {
		if parent == t.root || t.trace(parent, visited) {
			t.reachable[id] = true
			return true
		}
	}
	return false
}
