package markdown

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const fence = "---"

// Note is a markdown document with optional YAML frontmatter.
type Note struct {
	Meta map[string]any
	Body string
}

// Parse splits content into frontmatter and body. Content without a leading
// fence is all body.
func Parse(content string) (Note, error) {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	if !strings.HasPrefix(content, fence+"\n") {
		return Note{Meta: map[string]any{}, Body: content}, nil
	}
	rest := content[len(fence)+1:]
	raw, body, ok := cutFence(rest)
	if !ok {
		return Note{}, fmt.Errorf("invalid frontmatter: missing closing fence")
	}
	meta := map[string]any{}
	if err := yaml.Unmarshal([]byte(raw), &meta); err != nil {
		return Note{}, fmt.Errorf("unmarshal frontmatter: %w", err)
	}
	return Note{Meta: meta, Body: body}, nil
}

func cutFence(rest string) (string, string, bool) {
	if strings.HasPrefix(rest, fence+"\n") {
		return "", rest[len(fence)+1:], true
	}
	if idx := strings.Index(rest, "\n"+fence+"\n"); idx >= 0 {
		return rest[:idx], rest[idx+len(fence)+2:], true
	}
	if strings.HasSuffix(rest, "\n"+fence) {
		return strings.TrimSuffix(rest, "\n"+fence), "", true
	}
	return "", "", false
}

func (n Note) Render() (string, error) {
	buf := bytes.Buffer{}
	if len(n.Meta) > 0 {
		raw, err := yaml.Marshal(n.Meta)
		if err != nil {
			return "", fmt.Errorf("marshal frontmatter: %w", err)
		}
		buf.WriteString(fence + "\n")
		buf.Write(raw)
		buf.WriteString(fence + "\n")
		if !strings.HasPrefix(n.Body, "\n") {
			buf.WriteString("\n")
		}
	}
	buf.WriteString(n.Body)
	return buf.String(), nil
}

// ReplaceBlock swaps the text between the begin and end markers for
// generated. Text outside the markers is kept; a missing block is appended.
func (n *Note) ReplaceBlock(begin, end, generated string) {
	block := begin + "\n" + strings.TrimRight(generated, "\n") + "\n" + end
	start := strings.Index(n.Body, begin)
	stop := strings.Index(n.Body, end)
	if start >= 0 && stop > start {
		n.Body = n.Body[:start] + block + n.Body[stop+len(end):]
		return
	}
	switch {
	case strings.TrimSpace(n.Body) == "":
		n.Body = block + "\n"
	case strings.HasSuffix(n.Body, "\n"):
		n.Body += "\n" + block + "\n"
	default:
		n.Body += "\n\n" + block + "\n"
	}
}
