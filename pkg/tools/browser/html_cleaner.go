package browser

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// PageDigest is a compact rendering of a page for the model: scripts and
// styles removed, structure and targeting attributes kept.
type PageDigest struct {
	HTML        string
	Title       string
	Description string
	Truncated   bool
}

// DigestHTML parses rawHTML and renders at most maxLength characters of
// cleaned markup.
func DigestHTML(rawHTML string, maxLength int) (*PageDigest, error) {
	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	c := &htmlCleaner{max: maxLength}
	c.node(doc, 0)

	return &PageDigest{
		HTML:        c.b.String(),
		Title:       findTitle(doc),
		Description: findMetaDescription(doc),
		Truncated:   c.truncated,
	}, nil
}

type htmlCleaner struct {
	b         strings.Builder
	length    int
	max       int
	truncated bool
}

func (c *htmlCleaner) full() bool {
	if c.length >= c.max {
		c.truncated = true
	}
	return c.truncated
}

func (c *htmlCleaner) node(n *html.Node, depth int) {
	if c.full() {
		return
	}

	switch n.Type {
	case html.CommentNode, html.DoctypeNode:
		return
	case html.TextNode:
		c.text(n.Data)
	case html.ElementNode:
		tag := strings.ToLower(n.Data)
		if skippedElements[tag] {
			return
		}
		c.element(n, tag, depth)
	default:
		c.children(n, depth)
	}
}

func (c *htmlCleaner) text(data string) {
	text := strings.Join(strings.Fields(data), " ")
	if text == "" {
		return
	}

	if remaining := c.max - c.length; len(text) > remaining {
		c.b.WriteString(text[:remaining])
		c.b.WriteString("...")
		c.length = c.max
		c.truncated = true
		return
	}

	c.b.WriteString(text)
	c.length += len(text)
}

func (c *htmlCleaner) element(n *html.Node, tag string, depth int) {
	block := blockElements[tag]
	if depth > 0 && block {
		c.newline(depth)
	}

	c.b.WriteString("<")
	c.b.WriteString(tag)
	for _, attr := range n.Attr {
		if keepAttribute(tag, attr.Key) {
			fmt.Fprintf(&c.b, ` %s="%s"`, attr.Key, html.EscapeString(attr.Val))
		}
	}
	c.b.WriteString(">")
	c.length += len(tag) + 2

	if voidElements[tag] {
		return
	}

	// iframe children are fallback text; the embedded document is reached
	// by navigating to its src.
	if tag != "iframe" {
		c.children(n, depth+1)
	}

	if block {
		c.newline(depth)
	}
	c.b.WriteString("</")
	c.b.WriteString(tag)
	c.b.WriteString(">")
	c.length += len(tag) + 3
}

func (c *htmlCleaner) children(n *html.Node, depth int) {
	for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
		if c.full() {
			return
		}
		c.node(ch, depth)
	}
}

func (c *htmlCleaner) newline(depth int) {
	c.b.WriteString("\n")
	c.b.WriteString(strings.Repeat("  ", depth))
}

var skippedElements = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"template": true,
	"embed":    true,
	"object":   true,
	"svg":      true,
	"link":     true,
	"meta":     true,
}

var blockElements = map[string]bool{
	"div": true, "p": true, "section": true, "article": true,
	"header": true, "footer": true, "nav": true, "main": true, "aside": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"ul": true, "ol": true, "li": true,
	"table": true, "tr": true, "td": true, "th": true,
	"form": true, "fieldset": true, "blockquote": true, "pre": true,
	"iframe": true, "canvas": true,
}

var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "hr": true,
	"img": true, "input": true, "param": true, "source": true,
	"track": true, "wbr": true,
}

var globalAttributes = map[string]bool{
	"id":         true,
	"class":      true,
	"role":       true,
	"title":      true,
	"aria-label": true,
	"name":       true,
}

// keepAttribute reports whether an attribute helps the model target an element.
func keepAttribute(tag, attr string) bool {
	attr = strings.ToLower(attr)
	if globalAttributes[attr] || strings.HasPrefix(attr, "data-") {
		return true
	}

	switch tag {
	case "a":
		return attr == "href"
	case "img":
		return attr == "alt"
	case "iframe":
		return attr == "src"
	case "input", "textarea", "select":
		return attr == "type" || attr == "placeholder" || attr == "value"
	case "button":
		return attr == "type" || attr == "disabled"
	case "canvas":
		return attr == "width" || attr == "height"
	}
	return false
}

func findTitle(doc *html.Node) string {
	n := findNode(doc, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == "title" &&
			n.FirstChild != nil && n.FirstChild.Type == html.TextNode
	})
	if n == nil {
		return ""
	}
	return strings.TrimSpace(n.FirstChild.Data)
}

func findMetaDescription(doc *html.Node) string {
	var content string
	findNode(doc, func(n *html.Node) bool {
		if n.Type != html.ElementNode || n.Data != "meta" {
			return false
		}
		var isDescription bool
		content = ""
		for _, attr := range n.Attr {
			switch attr.Key {
			case "name":
				isDescription = attr.Val == "description"
			case "content":
				content = attr.Val
			}
		}
		return isDescription && content != ""
	})
	return strings.TrimSpace(content)
}

// findNode returns the first node in document order satisfying match.
func findNode(n *html.Node, match func(*html.Node) bool) *html.Node {
	if match(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findNode(c, match); found != nil {
			return found
		}
	}
	return nil
}
