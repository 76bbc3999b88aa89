// Package html builds a dom.Arena from markup. It tokenizes with
// golang.org/x/net/html and keeps its own open-element stack, so white-space
// text survives exactly as written.
package html

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	xhtml "golang.org/x/net/html"

	"boxtree/pkg/dom"
)

// Document is a parsed page: the arena plus the style and script text found
// in it, in document order.
type Document struct {
	Arena       *dom.Arena
	Stylesheets []string
	Scripts     []string
}

// Root returns the document node.
func (d *Document) Root() dom.NodeID { return d.Arena.Document() }

// Parser appends parsed nodes under one parent.
type Parser struct {
	z     *xhtml.Tokenizer
	doc   *Document
	stack []dom.NodeID

	rawTag string
	raw    strings.Builder
}

// Parse parses a complete page into a fresh arena.
func Parse(src string) (*Document, error) {
	doc := &Document{Arena: dom.NewArena()}
	if err := newParser(doc, doc.Arena.Document(), src).parse(); err != nil {
		return nil, err
	}
	return doc, nil
}

// ParseFragment parses markup as the new children of parent, as innerHTML
// does. Style and script text in the fragment is ignored.
func ParseFragment(a *dom.Arena, parent dom.NodeID, src string) error {
	if a.Get(parent) == nil {
		return dom.ErrNoNode
	}
	return newParser(&Document{Arena: a}, parent, src).parse()
}

func newParser(doc *Document, root dom.NodeID, src string) *Parser {
	return &Parser{
		z:     xhtml.NewTokenizer(strings.NewReader(src)),
		doc:   doc,
		stack: []dom.NodeID{root},
	}
}

func (p *Parser) parse() error {
	for {
		tt := p.z.Next()
		switch tt {
		case xhtml.ErrorToken:
			if err := p.z.Err(); !errors.Is(err, io.EOF) {
				return fmt.Errorf("html: %w", err)
			}
			return nil

		case xhtml.DoctypeToken:
			continue

		case xhtml.StartTagToken, xhtml.SelfClosingTagToken:
			if err := p.startTag(tt == xhtml.SelfClosingTagToken); err != nil {
				return err
			}

		case xhtml.EndTagToken:
			name, _ := p.z.TagName()
			p.endTag(string(name))

		case xhtml.TextToken:
			if p.rawTag != "" {
				p.raw.Write(p.z.Text())
				continue
			}
			p.appendText(string(p.z.Text()))

		case xhtml.CommentToken:
			id := p.doc.Arena.CreateComment(string(p.z.Text()))
			if err := p.doc.Arena.AppendChild(p.currentParent(), id); err != nil {
				return err
			}
		}
	}
}

func (p *Parser) startTag(selfClosing bool) error {
	name, hasAttr := p.z.TagName()
	tag := string(name)
	attrs := make(map[string]string)
	for hasAttr {
		var k, v []byte
		k, v, hasAttr = p.z.TagAttr()
		if _, dup := attrs[string(k)]; !dup {
			attrs[string(k)] = string(v)
		}
	}

	// style and script never reach the tree; their text is kept aside.
	if tag == "style" || tag == "script" {
		if !selfClosing {
			p.rawTag = tag
			p.raw.Reset()
		}
		return nil
	}

	if isBlockElement(tag) {
		p.autoCloseP()
	}
	id := p.doc.Arena.CreateElement(tag, attrs)
	if err := p.doc.Arena.AppendChild(p.currentParent(), id); err != nil {
		return err
	}
	if tag == "link" && strings.Contains(attrs["rel"], "stylesheet") {
		if sheet := loadLinkStylesheet(attrs["href"]); sheet != "" {
			p.doc.Stylesheets = append(p.doc.Stylesheets, sheet)
		}
	}
	if !selfClosing && !dom.IsVoidElement(tag) {
		p.stack = append(p.stack, id)
	}
	return nil
}

func (p *Parser) endTag(tag string) {
	if p.rawTag != "" && tag == p.rawTag {
		switch tag {
		case "style":
			p.doc.Stylesheets = append(p.doc.Stylesheets, p.raw.String())
		case "script":
			p.doc.Scripts = append(p.doc.Scripts, p.raw.String())
		}
		p.rawTag = ""
		p.raw.Reset()
		return
	}
	// Pop to the matching open element; stray end tags are ignored.
	for i := len(p.stack) - 1; i >= 1; i-- {
		if p.doc.Arena.Get(p.stack[i]).TagName() == tag {
			p.stack = p.stack[:i]
			return
		}
	}
}

// appendText extends a trailing text node or adds a new one.
func (p *Parser) appendText(text string) {
	if text == "" {
		return
	}
	a := p.doc.Arena
	parent := a.Get(p.currentParent())
	if k := len(parent.Children); k > 0 {
		if last := a.Get(parent.Children[k-1]); last.Kind == dom.KindText {
			last.Text += text
			return
		}
	}
	// Appending a fresh text node to a live parent cannot fail.
	_ = a.AppendChild(parent.ID, a.CreateText(text))
}

func (p *Parser) currentParent() dom.NodeID { return p.stack[len(p.stack)-1] }

// autoCloseP closes an open p when a block starts inside it.
func (p *Parser) autoCloseP() {
	for i := len(p.stack) - 1; i >= 1; i-- {
		tag := p.doc.Arena.Get(p.stack[i]).TagName()
		if tag == "p" {
			p.stack = p.stack[:i]
			return
		}
		if isBlockElement(tag) {
			return
		}
	}
}

func isBlockElement(tag string) bool {
	switch tag {
	case "address", "article", "aside", "blockquote", "details", "dialog",
		"dd", "div", "dl", "dt", "fieldset", "figcaption", "figure",
		"footer", "form", "h1", "h2", "h3", "h4", "h5", "h6",
		"header", "hgroup", "hr", "li", "main", "nav", "ol",
		"p", "pre", "section", "table", "ul":
		return true
	}
	return false
}

// loadLinkStylesheet reads CSS from a data:text/css href. Other hrefs are not
// fetched.
func loadLinkStylesheet(href string) string {
	href = strings.TrimSpace(href)
	encoded, ok := strings.CutPrefix(href, "data:text/css,")
	if !ok {
		return ""
	}
	decoded, err := url.PathUnescape(encoded)
	if err != nil {
		return encoded
	}
	return decoded
}
