package processor

import (
	"fmt"
	"slices"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/ZaguanLabs/lojgloss"
	"golang.org/x/net/html"
)

// IgnoredTags lists elements whose text is never translated: code, markup
// islands and form input.
var IgnoredTags = []string{
	"script", "style", "noscript", "template",
	"code", "pre", "kbd", "samp", "var",
	"textarea", "svg", "math",
}

func tagSet(tags []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		set[strings.ToLower(t)] = struct{}{}
	}
	return set
}

// HTMLProcessor extracts and applies translations to the text nodes of HTML
// content. Markup, attributes and ignored elements pass through unchanged.
type HTMLProcessor struct {
	skipTags map[string]struct{}
	lang     string
}

// HTMLOption configures an HTMLProcessor.
type HTMLOption func(*HTMLProcessor)

// WithIgnoredTags replaces the default ignored tags.
func WithIgnoredTags(tags ...string) HTMLOption {
	return func(p *HTMLProcessor) { p.skipTags = tagSet(tags) }
}

// WithDocumentLang sets the lang attribute of the <html> element on Apply,
// e.g. "jbo" after a forward translation.
func WithDocumentLang(code string) HTMLOption {
	return func(p *HTMLProcessor) {
		p.lang = code
	}
}

func NewHTMLProcessor(opts ...HTMLOption) *HTMLProcessor {
	p := &HTMLProcessor{skipTags: tagSet(IgnoredTags)}
	for _, o := range opts {
		o(p)
	}
	return p
}

// htmlDocument is the parsed form handed from Extract to Apply.
type htmlDocument struct {
	doc *goquery.Document
}

// Extract parses HTML and extracts translatable text nodes, one per distinct
// trimmed text.
func (p *HTMLProcessor) Extract(content string) (interface{}, []lojgloss.TextNode, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
	if err != nil {
		return nil, nil, &lojgloss.ProcessorError{
			Message:     "parsing document",
			Cause:       err,
			ContentType: "html",
		}
	}

	var nodes []lojgloss.TextNode
	seen := make(map[string]struct{})

	p.walkText(doc, func(n *html.Node, text string) {
		h := lojgloss.HashText(text)
		if _, dup := seen[h]; dup {
			return
		}
		seen[h] = struct{}{}

		meta := make(map[string]string, 2)
		if n.Parent != nil {
			meta["parent_tag"] = n.Parent.Data
		}
		if path := ancestorPath(n); path != "" {
			meta["path"] = path
		}
		nodes = append(nodes, lojgloss.TextNode{
			ID:       fmt.Sprintf("node-%d", len(nodes)),
			Text:     text,
			Hash:     h,
			NodeType: "html_text",
			Metadata: meta,
		})
	})

	return &htmlDocument{doc: doc}, nodes, nil
}

// Apply applies translations back to the HTML document. Every text node whose
// trimmed text has a translation is replaced, duplicates included.
func (p *HTMLProcessor) Apply(parsed interface{}, nodes []lojgloss.TextNode, translations map[string]string) (string, error) {
	d, ok := parsed.(*htmlDocument)
	if !ok {
		return "", &lojgloss.ProcessorError{
			Message:     fmt.Sprintf("expected a document from Extract, got %T", parsed),
			ContentType: "html",
		}
	}

	p.walkText(d.doc, func(n *html.Node, text string) {
		if out, ok := translations[lojgloss.HashText(text)]; ok {
			n.Data = preserveWhitespace(n.Data, out)
		}
	})

	if p.lang != "" {
		d.doc.Find("html").First().SetAttr("lang", p.lang)
	}

	out, err := d.doc.Html()
	if err != nil {
		return "", &lojgloss.ProcessorError{
			Message:     "rendering document",
			Cause:       err,
			ContentType: "html",
		}
	}

	return out, nil
}

func (p *HTMLProcessor) ContentType() string { return "html" }

// walkText calls fn with the trimmed text of every non-blank text node that
// is not inside a skipped element, in document order.
func (p *HTMLProcessor) walkText(doc *goquery.Document, fn func(n *html.Node, text string)) {
	var visit func(*html.Node)
	visit = func(n *html.Node) {
		switch n.Type {
		case html.ElementNode:
			if p.skip(n) {
				return
			}
		case html.TextNode:
			if text := strings.TrimSpace(n.Data); text != "" {
				fn(n, text)
			}
			return
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			visit(child)
		}
	}
	for _, root := range doc.Nodes {
		visit(root)
	}
}

// skip reports whether an element's subtree stays untranslated: ignored
// tags, data-no-translate and translate="no".
func (p *HTMLProcessor) skip(n *html.Node) bool {
	if _, ok := p.skipTags[strings.ToLower(n.Data)]; ok {
		return true
	}
	return slices.ContainsFunc(n.Attr, func(a html.Attribute) bool {
		return a.Key == "data-no-translate" || (a.Key == "translate" && strings.EqualFold(a.Val, "no"))
	})
}

// ancestorPath names up to three enclosing elements outermost first, leaving
// out html and body, e.g. "ul > li > a".
func ancestorPath(n *html.Node) string {
	var path []string
	for a := n.Parent; a != nil && len(path) < 3; a = a.Parent {
		if a.Type == html.ElementNode && a.Data != "html" && a.Data != "body" {
			path = append(path, a.Data)
		}
	}
	slices.Reverse(path)
	return strings.Join(path, " > ")
}

// preserveWhitespace swaps the text inside original's surrounding
// whitespace for translated. Blank originals are returned unchanged.
func preserveWhitespace(original, translated string) string {
	core := strings.TrimSpace(original)
	if core == "" {
		return original
	}
	start := strings.Index(original, core)
	return original[:start] + translated + original[start+len(core):]
}

var _ ContentProcessor = (*HTMLProcessor)(nil)
