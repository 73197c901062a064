package hierarchy

import (
	"fmt"
	"slices"
	"strings"
	"testing"

	"github.com/starford/vaultgen/internal/models"
	"github.com/starford/vaultgen/internal/relstore"
)

func snapshot(ups map[string][]string) *relstore.Snapshot {
	var entries []models.Entry
	for id, up := range ups {
		entries = append(entries, models.Entry{ID: id, Up: up})
	}
	return relstore.NewSnapshot(entries)
}

func TestChildren_Scenario(t *testing.T) {
	b := New(snapshot(map[string][]string{
		"m": nil,
		"a": {"m"},
		"b": {"a"},
		"c": nil,
	}))
	if got := b.Children("m"); !slices.Equal(got, []string{"a"}) {
		t.Errorf("children(m) = %v", got)
	}
	if got := b.Children("a"); !slices.Equal(got, []string{"b"}) {
		t.Errorf("children(a) = %v", got)
	}
	if got := b.Children("c"); got == nil || len(got) != 0 {
		t.Errorf("children(c) = %#v, want empty slice", got)
	}
	if got := b.NestedOutline("m"); got != "- [[m]]\n\t- [[a]]\n\t\t- [[b]]\n" {
		t.Errorf("nested outline = %q", got)
	}
}

func TestChildren_MatchesListMembership(t *testing.T) {
	ups := map[string][]string{
		"ab":    {"abc"},
		"x":     {"a", "lab"},
		"y":     {"ab"},
		"z":     {"b", "a"},
		"lab":   nil,
		"abc":   nil,
		"quote": {`"a"`},
	}
	b := New(snapshot(ups))

	// Property: children(p) == sorted {X : p in X.up} for every identifier.
	for id := range ups {
		var want []string
		for other, up := range ups {
			if slices.Contains(up, id) {
				want = append(want, other)
			}
		}
		slices.Sort(want)
		if want == nil {
			want = []string{}
		}
		if got := b.Children(id); !slices.Equal(got, want) {
			t.Errorf("children(%q) = %v, want %v", id, got, want)
		}
	}
	if got := b.Children("a"); !slices.Equal(got, []string{"x", "z"}) {
		t.Errorf("prefix/suffix ids must not match: %v", got)
	}
}

func TestChildren_DuplicateParentListedOnce(t *testing.T) {
	b := New(snapshot(map[string][]string{"k": {"p", "p"}}))
	if got := b.Children("p"); !slices.Equal(got, []string{"k"}) {
		t.Errorf("children(p) = %v", got)
	}
}

func TestNestedOutline_TwoNodeCycle(t *testing.T) {
	b := New(snapshot(map[string][]string{
		"p": {"q"},
		"q": {"p"},
	}))
	if got := b.NestedOutline("p"); got != "- [[p]]\n\t- [[q]]\n" {
		t.Errorf("outline = %q", got)
	}
}

func TestNestedOutline_MultiHopCycleBackToRoot(t *testing.T) {
	b := New(snapshot(map[string][]string{
		"r": {"c"},
		"a": {"r"},
		"b": {"a"},
		"c": {"b"},
	}))
	want := "- [[r]]\n\t- [[a]]\n\t\t- [[b]]\n\t\t\t- [[c]]\n"
	if got := b.NestedOutline("r"); got != want {
		t.Errorf("outline = %q, want %q", got, want)
	}
}

func TestNestedOutline_SelfLoop(t *testing.T) {
	b := New(snapshot(map[string][]string{"s": {"s"}}))
	if got := b.NestedOutline("s"); got != "- [[s]]\n" {
		t.Errorf("outline = %q", got)
	}
}

func TestNestedOutline_SiblingBranchesIndependent(t *testing.T) {
	// d sits under both a and b; it must be expanded in both branches.
	b := New(snapshot(map[string][]string{
		"a": {"r"},
		"b": {"r"},
		"d": {"a", "b"},
		"e": {"d"},
	}))
	want := strings.Join([]string{
		"- [[r]]",
		"\t- [[a]]",
		"\t\t- [[d]]",
		"\t\t\t- [[e]]",
		"\t- [[b]]",
		"\t\t- [[d]]",
		"\t\t\t- [[e]]",
	}, "\n") + "\n"
	if got := b.NestedOutline("r"); got != want {
		t.Errorf("outline =\n%s\nwant\n%s", got, want)
	}
}

func TestNestedOutline_CyclicNodeOncePerPath(t *testing.T) {
	ups := map[string][]string{}
	// Dense graph: every node lists every other node as a parent.
	ids := []string{"n0", "n1", "n2", "n3"}
	for _, id := range ids {
		for _, other := range ids {
			if other != id {
				ups[id] = append(ups[id], other)
			}
		}
	}
	b := New(snapshot(ups))
	tree := b.Tree("n0")

	var check func(n *Node, path map[string]bool)
	check = func(n *Node, path map[string]bool) {
		if path[n.ID] {
			t.Fatalf("%s repeated on a path", n.ID)
		}
		path[n.ID] = true
		for _, c := range n.Children {
			check(c, path)
		}
		delete(path, n.ID)
	}
	check(tree, map[string]bool{})

	// 1 + 3 + 3*2 + 3*2*1 nodes.
	if got := tree.Count(); got != 16 {
		t.Errorf("count = %d, want 16", got)
	}
}

func TestBoundedOutline_TruncatesAtMaxDepth(t *testing.T) {
	ups := map[string][]string{}
	prev := "root"
	for i := 1; i <= 7; i++ {
		id := fmt.Sprintf("d%d", i)
		ups[id] = []string{prev}
		prev = id
	}
	b := New(snapshot(ups))
	n := b.BoundedOutline("root")

	depth := 0
	cur := n
	for len(cur.Children) > 0 {
		cur = cur.Children[0]
		depth++
	}
	if depth != MaxDepth {
		t.Errorf("depth = %d, want %d", depth, MaxDepth)
	}
	if !cur.Truncated {
		t.Error("deepest node should be marked truncated")
	}

	want := "- [[d1]]\n\t- [[d2]]\n\t\t- [[d3]]\n\t\t\t- [[d4]]\n"
	if got := RenderList(n, "", 0); got != want {
		t.Errorf("render = %q", got)
	}
}

func TestBoundedOutline_NoChildren(t *testing.T) {
	b := New(snapshot(map[string][]string{"leaf": {"m"}}))
	n := b.BoundedOutline("leaf")
	if len(n.Children) != 0 || n.Truncated {
		t.Errorf("leaf outline = %+v", n)
	}
	if RenderList(n, ">", 0) != "" {
		t.Error("expected no lines for a leaf")
	}
}

func TestBounded_CycleWithinDepth(t *testing.T) {
	b := New(snapshot(map[string][]string{
		"a": {"c"},
		"b": {"a"},
		"c": {"b"},
	}))
	got := RenderList(b.BoundedOutline("a"), ">", 0)
	want := ">- [[b]]\n>\t- [[c]]\n"
	if got != want {
		t.Errorf("render = %q, want %q", got, want)
	}
}

func TestBounded_ZeroDepth(t *testing.T) {
	b := New(snapshot(map[string][]string{"k": {"p"}}))
	n := b.Bounded("p", 0)
	if len(n.Children) != 0 || !n.Truncated {
		t.Errorf("zero-depth outline = %+v", n)
	}
}
