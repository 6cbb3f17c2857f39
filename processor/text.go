package processor

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ZaguanLabs/lojgloss"
)

var paragraphBreak = regexp.MustCompile(`\n[ \t]*\n\s*`)

// TextProcessor treats plain text as a sequence of paragraphs separated by
// blank lines. Each paragraph is translated as one node and the separators
// are kept as they were.
type TextProcessor struct{}

// NewTextProcessor creates a new plain text processor.
func NewTextProcessor() *TextProcessor {
	return &TextProcessor{}
}

// parsedText keeps paragraphs and the separators between them.
type parsedText struct {
	paragraphs []string
	separators []string // separators[i] follows paragraphs[i]
}

// Extract splits content into paragraphs, one node per distinct paragraph.
func (p *TextProcessor) Extract(content string) (interface{}, []lojgloss.TextNode, error) {
	parsed := &parsedText{}
	last := 0
	for _, loc := range paragraphBreak.FindAllStringIndex(content, -1) {
		parsed.paragraphs = append(parsed.paragraphs, content[last:loc[0]])
		parsed.separators = append(parsed.separators, content[loc[0]:loc[1]])
		last = loc[1]
	}
	parsed.paragraphs = append(parsed.paragraphs, content[last:])
	parsed.separators = append(parsed.separators, "")

	var nodes []lojgloss.TextNode
	seen := make(map[string]bool)
	for i, para := range parsed.paragraphs {
		trimmed := strings.TrimSpace(para)
		if trimmed == "" {
			continue
		}
		hash := lojgloss.HashText(trimmed)
		if seen[hash] {
			continue
		}
		seen[hash] = true
		nodes = append(nodes, lojgloss.TextNode{
			ID:       fmt.Sprintf("para-%d", len(nodes)),
			Text:     trimmed,
			Hash:     hash,
			NodeType: "text",
			Metadata: map[string]string{"paragraph": fmt.Sprint(i)},
		})
	}

	return parsed, nodes, nil
}

// Apply replaces every paragraph that has a translation.
func (p *TextProcessor) Apply(parsed interface{}, nodes []lojgloss.TextNode, translations map[string]string) (string, error) {
	pt, ok := parsed.(*parsedText)
	if !ok {
		return "", &lojgloss.ProcessorError{
			Message:     "invalid parsed content type",
			ContentType: "text",
		}
	}

	var b strings.Builder
	for i, para := range pt.paragraphs {
		if translated, ok := translations[lojgloss.HashText(strings.TrimSpace(para))]; ok {
			para = preserveWhitespace(para, translated)
		}
		b.WriteString(para)
		b.WriteString(pt.separators[i])
	}
	return b.String(), nil
}

// ContentType returns "text".
func (p *TextProcessor) ContentType() string {
	return "text"
}

var _ ContentProcessor = (*TextProcessor)(nil)
