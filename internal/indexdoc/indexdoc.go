// Package indexdoc composes the hierarchical index document of the vault.
//
// The document lists one foldable callout per direct child of the designated
// root, each holding a bounded outline of that branch, followed by the
// entries that do not trace back to the root. For a fixed snapshot and clock
// the output is byte-for-byte stable.
package indexdoc

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/starford/vaultgen/internal/hierarchy"
	"github.com/starford/vaultgen/internal/reach"
)

const (
	// TimeLayout formats the generation timestamp.
	TimeLayout = "2006-01-02 15:04:05"
	// DefaultTitle is used when Options.Title is empty.
	DefaultTitle = "Community Knowledge Index"
	// DefaultRoot is the identifier at the top of the hierarchy.
	DefaultRoot = "m"

	intro        = "This is a hierarchical index of all community knowledge entries, organized by their relationships in the database."
	orphansIntro = "The following entries are not connected to the main knowledge tree:"
	noChildren   = "No sub-entries found."
)

// Clock returns the current time.
type Clock func() time.Time

// Options configures a Composer.
type Options struct {
	Title string
	Root  string
	// Depth is the number of list levels inside each callout.
	Depth int
	// SourceName names the database in the footer, e.g. "responses.db".
	SourceName string
	Clock      Clock
}

// Source is the snapshot view the composer reads.
type Source interface {
	IDs() []string
	Parents(id string) []string
}

// Document is a composed index.
type Document struct {
	Content     []byte
	Sections    []string
	Orphans     []string
	GeneratedAt time.Time
}

// Composer renders index documents.
type Composer struct {
	opts Options
}

// New returns a Composer, filling unset options with defaults.
func New(opts Options) *Composer {
	if opts.Title == "" {
		opts.Title = DefaultTitle
	}
	if opts.Root == "" {
		opts.Root = DefaultRoot
	}
	if opts.Depth <= 0 {
		opts.Depth = hierarchy.MaxDepth
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	return &Composer{opts: opts}
}

// Compose builds the index for src. ctx is checked before each top-level
// branch and before classification.
func (c *Composer) Compose(ctx context.Context, src Source) (*Document, error) {
	b := hierarchy.New(src)
	sections := b.Children(c.opts.Root)

	var callouts strings.Builder
	for _, id := range sections {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		c.writeCallout(&callouts, b.Bounded(id, c.opts.Depth))
	}

	res, err := reach.Classify(ctx, src.IDs(), c.opts.Root, src)
	if err != nil {
		return nil, err
	}

	now := c.opts.Clock()
	stamp := now.Format(TimeLayout)

	var doc strings.Builder
	doc.WriteString("---\n")
	doc.WriteString("title: " + strconv.Quote(c.opts.Title) + "\n")
	doc.WriteString("generated: " + strconv.Quote(stamp) + "\n")
	doc.WriteString("---\n\n")
	doc.WriteString("# " + c.opts.Title + "\n\n")
	doc.WriteString(intro + "\n\n")
	doc.WriteString("## Knowledge Categories\n\n")
	doc.WriteString(callouts.String())
	doc.WriteString("\n\n")
	writeOrphans(&doc, res.Orphans)
	doc.WriteString("\n\n---\n\n")
	doc.WriteString("*Generated on " + stamp)
	if c.opts.SourceName != "" {
		doc.WriteString(" from " + c.opts.SourceName)
	}
	doc.WriteString("*\n")

	return &Document{
		Content:     []byte(doc.String()),
		Sections:    sections,
		Orphans:     res.Orphans,
		GeneratedAt: now,
	}, nil
}

func (c *Composer) writeCallout(sb *strings.Builder, n *hierarchy.Node) {
	sb.WriteString("\n>[!note]+ [[" + n.ID + "]]\n")
	if len(n.Children) == 0 {
		sb.WriteString(">" + noChildren + "\n")
		return
	}
	sb.WriteString(hierarchy.RenderList(n, ">", 0))
}

// writeOrphans writes nothing when there are no orphans.
func writeOrphans(sb *strings.Builder, orphans []string) {
	if len(orphans) == 0 {
		return
	}
	sb.WriteString("\n## Unconnected Entries\n\n" + orphansIntro + "\n\n")
	for _, id := range orphans {
		sb.WriteString("- [[" + id + "]]\n")
	}
}
