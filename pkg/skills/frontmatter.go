package skills

import (
	"encoding/json"
	"strings"

	"gopkg.in/yaml.v3"
)

const delimiter = "---"

// Document is a decoded skill document: the frontmatter metadata plus the
// instruction body below it.
type Document struct {
	Meta Metadata
	Body string
}

// ParseDocument decodes a skill document. It returns ok=false when the text
// does not carry a well-formed frontmatter block: no opening delimiter on
// the first line, no closing delimiter, an unparsable metadata block, or a
// value that is neither a string scalar nor a list of string scalars.
// Callers treat a failed parse as "not a skill document" and move on.
func ParseDocument(content string) (*Document, bool) {
	block, body, ok := splitFrontmatter(content)
	if !ok {
		return nil, false
	}

	meta, ok := parseMetadataBlock(block)
	if !ok {
		return nil, false
	}

	return &Document{Meta: meta, Body: body}, true
}

// splitFrontmatter separates the delimited metadata block from the body.
func splitFrontmatter(content string) (block string, body string, ok bool) {
	lines := strings.Split(content, "\n")
	if len(lines) == 0 || strings.TrimRight(lines[0], "\r") != delimiter {
		return "", "", false
	}

	end := -1
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == delimiter {
			end = i
			break
		}
	}
	if end == -1 {
		return "", "", false
	}

	block = strings.Join(lines[1:end], "\n")
	body = strings.TrimSpace(strings.Join(lines[end+1:], "\n"))
	return block, body, true
}

func parseMetadataBlock(block string) (Metadata, bool) {
	var root yaml.Node
	if err := yaml.Unmarshal([]byte(block), &root); err != nil {
		return Metadata{}, false
	}

	meta := Metadata{}
	if len(root.Content) == 0 {
		// Empty block parses to empty metadata; discovery drops it later
		// for the missing name and description.
		return meta, true
	}

	mapping := root.Content[0]
	if mapping.Kind != yaml.MappingNode {
		return Metadata{}, false
	}

	for i := 0; i+1 < len(mapping.Content); i += 2 {
		keyNode := mapping.Content[i]
		valNode := mapping.Content[i+1]
		if keyNode.Kind != yaml.ScalarNode {
			return Metadata{}, false
		}

		key := NormalizeKey(keyNode.Value)
		scalar, list, ok := decodeValue(valNode)
		if !ok {
			return Metadata{}, false
		}

		switch key {
		case "name":
			meta.Name = firstScalar(scalar, list)
		case "description":
			meta.Description = firstScalar(scalar, list)
		case "allowedTools":
			if list == nil && scalar != "" {
				list = []string{scalar}
			}
			meta.AllowedTools = list
		case "model":
			meta.Model = firstScalar(scalar, list)
		default:
			meta.Extra = append(meta.Extra, Field{Key: key, Value: scalar, Values: list})
		}
	}

	return meta, true
}

// decodeValue accepts a string scalar or a sequence of string scalars.
func decodeValue(node *yaml.Node) (scalar string, list []string, ok bool) {
	switch node.Kind {
	case yaml.ScalarNode:
		return node.Value, nil, true
	case yaml.SequenceNode:
		items := make([]string, 0, len(node.Content))
		for _, item := range node.Content {
			if item.Kind != yaml.ScalarNode {
				return "", nil, false
			}
			items = append(items, item.Value)
		}
		return "", items, true
	default:
		return "", nil, false
	}
}

func firstScalar(scalar string, list []string) string {
	if scalar != "" {
		return scalar
	}
	if len(list) > 0 {
		return list[0]
	}
	return ""
}

// NormalizeKey converts a hyphenated frontmatter key to its lower-camel
// compound form, e.g. "allowed-tools" becomes "allowedTools". Keys without
// hyphens are returned unchanged.
func NormalizeKey(key string) string {
	parts := strings.Split(key, "-")
	if len(parts) == 1 {
		return key
	}

	var b strings.Builder
	b.WriteString(parts[0])
	for _, part := range parts[1:] {
		if part == "" {
			continue
		}
		b.WriteString(strings.ToUpper(part[:1]))
		b.WriteString(part[1:])
	}
	return b.String()
}

// SerializeDocument renders a skill document: name and description first,
// the allowed-tools array only when non-empty, the model only when present,
// any preserved extra fields, then the closing delimiter, a blank line, and
// the body. ParseDocument(SerializeDocument(m, b)) reproduces m and b.
func SerializeDocument(meta Metadata, body string) string {
	var b strings.Builder
	b.WriteString(delimiter + "\n")
	b.WriteString("name: " + yamlScalar(meta.Name) + "\n")
	b.WriteString("description: " + yamlScalar(meta.Description) + "\n")
	if len(meta.AllowedTools) > 0 {
		b.WriteString("allowed-tools: " + jsonArray(meta.AllowedTools) + "\n")
	}
	if meta.Model != "" {
		b.WriteString("model: " + yamlScalar(meta.Model) + "\n")
	}
	for _, field := range meta.Extra {
		if field.Values != nil {
			b.WriteString(field.Key + ": " + jsonArray(field.Values) + "\n")
		} else {
			b.WriteString(field.Key + ": " + yamlScalar(field.Value) + "\n")
		}
	}
	b.WriteString(delimiter + "\n\n")
	b.WriteString(strings.TrimSpace(body))
	b.WriteString("\n")
	return b.String()
}

// jsonArray renders a JSON array of strings, which is also a valid YAML
// flow sequence.
func jsonArray(items []string) string {
	data, _ := json.Marshal(items)
	return string(data)
}

// yamlScalar emits a plain scalar when it is safe to do so, otherwise a
// JSON-quoted string (valid YAML double-quoted style).
func yamlScalar(s string) string {
	if s == "" || !isPlainScalar(s) {
		data, _ := json.Marshal(s)
		return string(data)
	}
	return s
}

func isPlainScalar(s string) bool {
	if strings.TrimSpace(s) != s {
		return false
	}
	if strings.ContainsAny(s, "\n\r") {
		return false
	}
	if strings.Contains(s, ": ") || strings.HasSuffix(s, ":") {
		return false
	}
	if strings.Contains(s, " #") {
		return false
	}
	// Leading indicator characters change the YAML node kind.
	if strings.ContainsAny(s[:1], "-?:,[]{}#&*!|>'\"%@`") {
		return false
	}
	return true
}
