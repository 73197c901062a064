// Package entrydoc renders one entry as a standalone Markdown document.
package entrydoc

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/starford/vaultgen/internal/models"
)

const unknownEdit = "Unknown"

var filenameReplacer = strings.NewReplacer(
	"/", "_", `\`, "_", ":", "_", "*", "_", "?", "_",
	`"`, "_", "<", "_", ">", "_", "|", "_",
)

// Filename returns the document file name for an entry identifier.
// Characters that are illegal in file names on common systems become "_".
func Filename(id string) string {
	return filenameReplacer.Replace(id + ".md")
}

// Render produces the document for e: YAML frontmatter with wikilinked
// relations, the entry body, and an info callout repeating the relations.
func Render(e models.Entry) ([]byte, error) {
	fm, err := frontmatter(e)
	if err != nil {
		return nil, fmt.Errorf("entrydoc: %s: %w", e.ID, err)
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(fm)
	buf.WriteString("---\n\n")
	buf.WriteString(e.Content)
	buf.WriteString("\n\n>[!info]\n")
	fmt.Fprintf(&buf, ">**Up:** %s\n", display(e.Up))
	fmt.Fprintf(&buf, ">**Related**: %s\n", display(e.Related))
	fmt.Fprintf(&buf, ">**Author:** [[%s]]\n", e.AuthorOrDefault())
	fmt.Fprintf(&buf, ">**Volunteers:** %s\n", display(e.Helpers))

	edited := e.LastModified
	if edited == "" {
		edited = unknownEdit
	}
	fmt.Fprintf(&buf, ">**Last Edited:** %s\n", edited)
	return buf.Bytes(), nil
}

func frontmatter(e models.Entry) ([]byte, error) {
	doc := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	add := func(key string, value *yaml.Node) {
		doc.Content = append(doc.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}, value)
	}
	add("up", linkList(e.Up))
	add("author", linkList([]string{e.AuthorOrDefault()}))
	add("helpers", linkList(e.Helpers))
	add("calls", &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.FormatInt(e.CallCount, 10)})
	add("related", linkList(e.Related))

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// linkList encodes ids as a sequence of quoted wikilinks. An empty list is
// written as [] so the key stays present.
func linkList(ids []string) *yaml.Node {
	seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
	if len(ids) == 0 {
		seq.Style = yaml.FlowStyle
		return seq
	}
	for _, id := range ids {
		seq.Content = append(seq.Content, &yaml.Node{
			Kind:  yaml.ScalarNode,
			Tag:   "!!str",
			Value: "[[" + id + "]]",
			Style: yaml.DoubleQuotedStyle,
		})
	}
	return seq
}

func display(ids []string) string {
	if len(ids) == 0 {
		return "None"
	}
	links := make([]string, len(ids))
	for i, id := range ids {
		links[i] = "[[" + id + "]]"
	}
	return strings.Join(links, ", ")
}
