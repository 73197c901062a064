package relstore

import (
	"encoding/json"
	"strings"

	"gopkg.in/yaml.v3"
)

// ParseList decodes a serialized identifier list as stored in the helpers,
// related_cmds and up columns. It accepts a JSON array of strings and, for
// rows written by older tools, a YAML flow sequence such as ['a', 'b'].
//
// An absent value yields an empty list with ok=true. A value that cannot be
// decoded yields an empty list with ok=false. Empty items are dropped; the
// remaining identifiers are returned exactly as stored.
func ParseList(raw string) (list []string, ok bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || trimmed == "null" {
		return []string{}, true
	}

	items, ok := parseJSONList(trimmed)
	if !ok {
		if !strings.HasPrefix(trimmed, "[") {
			return []string{}, false
		}
		if items, ok = parseFlowList(trimmed); !ok {
			return []string{}, false
		}
	}

	out := make([]string, 0, len(items))
	for _, it := range items {
		if it == "" {
			continue
		}
		out = append(out, it)
	}
	return out, true
}

// parseJSONList accepts a JSON array whose items are all strings.
func parseJSONList(raw string) ([]string, bool) {
	var values []any
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		return nil, false
	}
	items := make([]string, 0, len(values))
	for _, v := range values {
		s, isString := v.(string)
		if !isString {
			return nil, false
		}
		items = append(items, s)
	}
	return items, true
}

// parseFlowList accepts a single YAML flow sequence whose items are all
// quoted strings. Bare words, numbers, nested values and trailing content
// are rejected.
func parseFlowList(raw string) ([]string, bool) {
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, false
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) != 1 {
		return nil, false
	}
	seq := doc.Content[0]
	if seq.Kind != yaml.SequenceNode || seq.Style&yaml.FlowStyle == 0 {
		return nil, false
	}

	items := make([]string, 0, len(seq.Content))
	for _, n := range seq.Content {
		if n.Kind != yaml.ScalarNode || n.Style&(yaml.SingleQuotedStyle|yaml.DoubleQuotedStyle) == 0 {
			return nil, false
		}
		items = append(items, n.Value)
	}
	return items, true
}

// EncodeList serializes identifiers the way the bot stores them.
func EncodeList(list []string) string {
	if len(list) == 0 {
		return "[]"
	}
	data, _ := json.Marshal(list)
	return string(data)
}
