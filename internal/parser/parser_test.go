package parser

import (
	"testing"
)

func TestParse_FrontmatterAndBody(t *testing.T) {
	input := []byte("---\ntitle: \"Index\"\ngenerated: \"2025-01-02 03:04:05\"\n---\n\n# Index\nBody text.\n")
	r, err := Parse(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Title != "Index" {
		t.Errorf("title = %q, want %q", r.Title, "Index")
	}
	if r.Frontmatter["generated"] != "2025-01-02 03:04:05" {
		t.Errorf("generated = %v", r.Frontmatter["generated"])
	}
	if r.Body != "# Index\nBody text.\n" {
		t.Errorf("body = %q", r.Body)
	}
}

func TestParse_NoFrontmatter(t *testing.T) {
	input := []byte("# Just a heading\nSome text.\n")
	r, err := Parse(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Frontmatter != nil {
		t.Errorf("expected nil frontmatter, got %v", r.Frontmatter)
	}
	if r.Title != "Just a heading" {
		t.Errorf("title = %q, want %q", r.Title, "Just a heading")
	}
}

func TestParse_InvalidYAMLFallback(t *testing.T) {
	input := []byte("---\n: invalid: yaml: {{{\n---\nBody\n")
	r, err := Parse(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Frontmatter != nil {
		t.Errorf("expected nil frontmatter on invalid YAML")
	}
}

func TestExtractLinks_Basic(t *testing.T) {
	body := "See [[Note A]] and [[Note B|alias]].\nAlso [[Note A]] again."
	links := extractLinks(body)
	if len(links) != 2 {
		t.Fatalf("len(links) = %d, want 2", len(links))
	}
	if links[0] != "Note A" || links[1] != "Note B" {
		t.Errorf("links = %v", links)
	}
}

func TestExtractLinks_EmptyTarget(t *testing.T) {
	links := extractLinks("see [[ ]] and [[|alias]]")
	if len(links) != 0 {
		t.Errorf("expected no links, got %v", links)
	}
}

func TestExtractCallouts(t *testing.T) {
	body := ">[!note]+ [[tools]]\n>- [[spin]]\n\n>[!info]\n>**Up:** None\n> [!Warning]- careful\n"
	got := extractCallouts(body)
	if len(got) != 3 {
		t.Fatalf("callouts = %+v", got)
	}
	if got[0] != (Callout{Kind: "note", Title: "[[tools]]", Foldable: true}) {
		t.Errorf("callout[0] = %+v", got[0])
	}
	if got[1] != (Callout{Kind: "info"}) {
		t.Errorf("callout[1] = %+v", got[1])
	}
	if got[2].Kind != "warning" || !got[2].Foldable || got[2].Title != "careful" {
		t.Errorf("callout[2] = %+v", got[2])
	}
}

func TestDeriveTitle_FrontmatterOverH1(t *testing.T) {
	fm := map[string]any{"title": "FM Title"}
	body := "# H1 Title\ntext"
	title := deriveTitle(fm, body)
	if title != "FM Title" {
		t.Errorf("title = %q, want %q", title, "FM Title")
	}
}

func TestDeriveTitle_H1Fallback(t *testing.T) {
	title := deriveTitle(nil, "some text\n# My Heading\nmore")
	if title != "My Heading" {
		t.Errorf("title = %q, want %q", title, "My Heading")
	}
}
