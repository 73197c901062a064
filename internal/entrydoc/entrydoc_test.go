package entrydoc

import (
	"reflect"
	"strings"
	"testing"

	"github.com/starford/vaultgen/internal/models"
	"github.com/starford/vaultgen/internal/parser"
)

func TestFilename_Sanitizes(t *testing.T) {
	cases := map[string]string{
		"spin":          "spin.md",
		"a/b":           "a_b.md",
		`c:\d`:          "c__d.md",
		`what?*"<>|`:    "what______.md",
		"keep-this.one": "keep-this.one.md",
	}
	for id, want := range cases {
		if got := Filename(id); got != want {
			t.Errorf("Filename(%q) = %q, want %q", id, got, want)
		}
	}
}

func TestRender_FullEntry(t *testing.T) {
	e := models.Entry{
		ID:           "spin",
		Content:      "Spin the tube at 4000 rpm.",
		Author:       "u1",
		Helpers:      []string{"u2", "u3"},
		Related:      []string{"tube"},
		Up:           []string{"lab", "m"},
		CallCount:    12,
		LastModified: "2025-03-01 10:00:00",
	}
	data, err := Render(e)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	res, err := parser.Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	fm := res.Frontmatter
	if fm == nil {
		t.Fatalf("frontmatter missing in:\n%s", data)
	}
	if got := fm["up"]; !reflect.DeepEqual(got, []any{"[[lab]]", "[[m]]"}) {
		t.Errorf("up = %#v", got)
	}
	if got := fm["author"]; !reflect.DeepEqual(got, []any{"[[u1]]"}) {
		t.Errorf("author = %#v", got)
	}
	if got := fm["helpers"]; !reflect.DeepEqual(got, []any{"[[u2]]", "[[u3]]"}) {
		t.Errorf("helpers = %#v", got)
	}
	if got := fm["calls"]; got != 12 {
		t.Errorf("calls = %#v", got)
	}
	if !strings.HasPrefix(res.Body, "Spin the tube at 4000 rpm.\n") {
		t.Errorf("body = %q", res.Body)
	}

	for _, line := range []string{
		">**Up:** [[lab]], [[m]]",
		">**Related**: [[tube]]",
		">**Author:** [[u1]]",
		">**Volunteers:** [[u2]], [[u3]]",
		">**Last Edited:** 2025-03-01 10:00:00",
	} {
		if !strings.Contains(res.Body, line+"\n") {
			t.Errorf("missing line %q in body:\n%s", line, res.Body)
		}
	}
	if len(res.Callouts) != 1 || res.Callouts[0].Kind != "info" {
		t.Errorf("callouts = %+v", res.Callouts)
	}
}

func TestRender_EmptyFields(t *testing.T) {
	data, err := Render(models.Entry{ID: "bare", Content: "text"})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	res, err := parser.Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	for _, key := range []string{"up", "helpers", "related"} {
		v, ok := res.Frontmatter[key]
		if !ok {
			t.Errorf("key %q missing", key)
			continue
		}
		if list, _ := v.([]any); len(list) != 0 {
			t.Errorf("%s = %#v, want empty", key, v)
		}
	}
	if got := res.Frontmatter["author"]; !reflect.DeepEqual(got, []any{"[[Unknown]]"}) {
		t.Errorf("author = %#v", got)
	}
	for _, line := range []string{
		">**Up:** None",
		">**Related**: None",
		">**Volunteers:** None",
		">**Last Edited:** Unknown",
	} {
		if !strings.Contains(res.Body, line) {
			t.Errorf("missing %q", line)
		}
	}
}

func TestRender_Deterministic(t *testing.T) {
	e := models.Entry{ID: "x", Content: "c", Up: []string{"m"}}
	a, _ := Render(e)
	b, _ := Render(e)
	if string(a) != string(b) {
		t.Error("render is not deterministic")
	}
}
