// Package hierarchy turns the flat "up" relation of the entry table into
// parent to child outlines.
//
// Every traversal keeps a set of the nodes on the current path from the
// traversal root. A child that is already on the path is skipped, so cycles
// in the up relation end the branch instead of recursing. Sibling branches
// never share that state: a node suppressed on one path is still expanded
// on another.
package hierarchy

import (
	"slices"
	"strings"
)

// MaxDepth is the number of list levels shown beneath the titled entry of a
// bounded outline. The titled entry is level 0 and its children are level 1,
// so 4 renders down to great-great-grandchildren.
const MaxDepth = 4

// Source is the read side of the relation store the builder needs.
type Source interface {
	IDs() []string
	Parents(id string) []string
}

// Node is one entry in an outline.
type Node struct {
	ID       string  `json:"id"`
	Children []*Node `json:"children,omitempty"`
	// Truncated is set when the depth limit stopped expansion of a node that
	// still has children.
	Truncated bool `json:"truncated,omitempty"`
}

// Count returns the number of nodes in the tree rooted at n.
func (n *Node) Count() int {
	if n == nil {
		return 0
	}
	total := 1
	for _, c := range n.Children {
		total += c.Count()
	}
	return total
}

// Builder answers child and outline queries over one snapshot.
type Builder struct {
	children map[string][]string
}

// New indexes the up lists of every entry in src.
func New(src Source) *Builder {
	children := make(map[string][]string)
	for _, id := range src.IDs() {
		seen := make(map[string]struct{})
		for _, parent := range src.Parents(id) {
			if _, dup := seen[parent]; dup {
				continue
			}
			seen[parent] = struct{}{}
			children[parent] = append(children[parent], id)
		}
	}
	for parent := range children {
		slices.Sort(children[parent])
	}
	return &Builder{children: children}
}

// Children returns every entry whose up list contains parent, in ascending
// order. An identifier with no children yields an empty slice.
func (b *Builder) Children(parent string) []string {
	kids := b.children[parent]
	if len(kids) == 0 {
		return []string{}
	}
	return slices.Clone(kids)
}

// Tree expands root depth-first without a depth limit.
func (b *Builder) Tree(root string) *Node {
	return b.walk(root, make(map[string]struct{}), 0, -1)
}

// Bounded expands root to at most depth levels of descendants.
func (b *Builder) Bounded(root string, depth int) *Node {
	if depth < 0 {
		depth = 0
	}
	return b.walk(root, make(map[string]struct{}), 0, depth)
}

// BoundedOutline expands root to MaxDepth levels of descendants.
func (b *Builder) BoundedOutline(root string) *Node {
	return b.Bounded(root, MaxDepth)
}

// NestedOutline renders the unbounded tree under root as a Markdown list,
// one tab of indentation per level.
func (b *Builder) NestedOutline(root string) string {
	var sb strings.Builder
	writeNode(&sb, b.Tree(root), "", 0)
	return sb.String()
}

// walk expands id. onPath holds the ancestors of id on the current path and
// is restored before returning. limit < 0 means unbounded.
func (b *Builder) walk(id string, onPath map[string]struct{}, depth, limit int) *Node {
	n := &Node{ID: id}
	onPath[id] = struct{}{}
	defer delete(onPath, id)

	for _, child := range b.children[id] {
		if _, cyclic := onPath[child]; cyclic {
			continue
		}
		if limit >= 0 && depth >= limit {
			n.Truncated = true
			break
		}
		n.Children = append(n.Children, b.walk(child, onPath, depth+1, limit))
	}
	return n
}

// RenderList writes the descendants of n as a nested Markdown list. Every
// line starts with prefix; the first level is indented by level tabs.
func RenderList(n *Node, prefix string, level int) string {
	var sb strings.Builder
	for _, c := range n.Children {
		writeNode(&sb, c, prefix, level)
	}
	return sb.String()
}

func writeNode(sb *strings.Builder, n *Node, prefix string, level int) {
	sb.WriteString(prefix)
	sb.WriteString(strings.Repeat("\t", level))
	sb.WriteString("- [[")
	sb.WriteString(n.ID)
	sb.WriteString("]]\n")
	for _, c := range n.Children {
		writeNode(sb, c, prefix, level+1)
	}
}
