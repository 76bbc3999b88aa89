package text

import (
	"strings"

	"boxtree/pkg/dom"
	"boxtree/pkg/style"
)

// InlineBoxKind says how an atomic box sits in the paragraph.
type InlineBoxKind int

const (
	InlineBoxInFlow InlineBoxKind = iota
	InlineBoxOutOfFlow
	InlineBoxFloat
)

func (k InlineBoxKind) String() string {
	switch k {
	case InlineBoxOutOfFlow:
		return "out-of-flow"
	case InlineBoxFloat:
		return "float"
	}
	return "in-flow"
}

// InlineBox is an atomic box embedded at a byte offset of the paragraph text.
type InlineBox struct {
	Node   dom.NodeID
	Kind   InlineBoxKind
	Offset int
}

// Span is the extent of one inline element's style. Spans nest; Depth is the
// nesting level starting at 1.
type Span struct {
	Start, End int
	Style      style.Computed
	Depth      int
}

// Run is a stretch of text measured at one font size.
type Run struct {
	Start, End int
	FontSize   float64
	Width      float64
}

// Paragraph is the shaped-ready content of one inline formatting context.
type Paragraph struct {
	Text   string
	Spans  []Span
	Runs   []Run
	Boxes  []InlineBox
	Breaks []int // byte offsets of forced line breaks

	LineHeight      float64
	MinContentWidth float64
	MaxContentWidth float64
}

// Builder accumulates one paragraph.
type Builder struct {
	ctx *Context

	modes      []style.WhiteSpaceCollapse
	fontSizes  []float64
	lineHeight float64

	spans []Span
	open  []int
	runs  []Run
	boxes []InlineBox
	brks  []int

	// atLineStart is true at the start of the paragraph and after a forced
	// break; collapsible spaces are dropped there. A collapsed space is held
	// back until something follows it, so spaces never end a line.
	atLineStart  bool
	pendingSpace bool
}

// NewBuilder starts a paragraph for an inline root with the given style, which
// may be nil.
func (c *Context) NewBuilder(root style.Computed) *Builder {
	if c.released {
		panic("text: context used after release")
	}
	c.buf.Reset()
	b := &Builder{
		ctx:         c,
		modes:       []style.WhiteSpaceCollapse{style.WhiteSpaceCollapseSpaces},
		fontSizes:   []float64{16},
		atLineStart: true,
	}
	if root != nil {
		b.modes[0] = root.WhiteSpaceCollapse()
		b.fontSizes[0] = root.FontSize()
		b.lineHeight = root.LineHeight()
	}
	return b
}

func (b *Builder) mode() style.WhiteSpaceCollapse { return b.modes[len(b.modes)-1] }
func (b *Builder) fontSize() float64 { return b.fontSizes[len(b.fontSizes)-1] }
func (b *Builder) offset() int { return b.ctx.buf.Len() }

// SetWhiteSpace overrides the collapse mode of the current span.
func (b *Builder) SetWhiteSpace(mode style.WhiteSpaceCollapse) {
	b.modes[len(b.modes)-1] = mode
}

// PushStyleSpan opens a span for an inline element. A nil style keeps the
// enclosing values.
func (b *Builder) PushStyleSpan(s style.Computed) {
	mode, size := b.mode(), b.fontSize()
	if s != nil {
		mode, size = s.WhiteSpaceCollapse(), s.FontSize()
		if lh := s.LineHeight(); lh > b.lineHeight {
			b.lineHeight = lh
		}
	}
	b.modes = append(b.modes, mode)
	b.fontSizes = append(b.fontSizes, size)
	b.open = append(b.open, len(b.spans))
	b.spans = append(b.spans, Span{Start: b.offset(), End: -1, Style: s, Depth: len(b.open)})
}

// PopStyleSpan closes the innermost span.
func (b *Builder) PopStyleSpan() {
	if len(b.open) == 0 {
		return
	}
	idx := b.open[len(b.open)-1]
	b.open = b.open[:len(b.open)-1]
	b.spans[idx].End = b.offset()
	b.modes = b.modes[:len(b.modes)-1]
	b.fontSizes = b.fontSizes[:len(b.fontSizes)-1]
}

// PushText appends text, collapsing white space according to the current mode.
func (b *Builder) PushText(s string) {
	start := b.offset()
	switch b.mode() {
	case style.WhiteSpaceCollapseSpaces:
		b.pushCollapsed(s, false)
	case style.WhiteSpacePreserveBreaks:
		b.pushCollapsed(s, true)
	case style.WhiteSpacePreserveSpaces:
		b.pushPreserved(strings.ReplaceAll(s, "\n", " "))
	default:
		b.pushPreserved(s)
	}
	b.addRun(start)
}

func (b *Builder) pushCollapsed(s string, keepBreaks bool) {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\n' && keepBreaks:
			b.pendingSpace = false
			b.forcedBreak()
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			if !b.atLineStart {
				b.pendingSpace = true
			}
		default:
			b.flushSpace()
			b.ctx.buf.WriteByte(c)
			b.atLineStart = false
		}
	}
}

func (b *Builder) pushPreserved(s string) {
	b.flushSpace()
	for _, line := range strings.SplitAfter(s, "\n") {
		if strings.HasSuffix(line, "\n") {
			b.ctx.buf.WriteString(strings.TrimSuffix(line, "\n"))
			b.forcedBreak()
			continue
		}
		if line != "" {
			b.ctx.buf.WriteString(line)
			b.atLineStart = false
		}
	}
}

// flushSpace writes a collapsed space that is now known not to end a line.
func (b *Builder) flushSpace() {
	if b.pendingSpace {
		b.ctx.buf.WriteByte(' ')
		b.pendingSpace = false
	}
}

func (b *Builder) forcedBreak() {
	b.ctx.buf.WriteByte('\n')
	b.brks = append(b.brks, b.offset()-1)
	b.atLineStart = true
}

func (b *Builder) addRun(start int) {
	end := b.offset()
	if end <= start {
		return
	}
	b.runs = append(b.runs, Run{Start: start, End: end, FontSize: b.fontSize()})
}

// PushLineBreak records a forced break, as produced by a br element.
func (b *Builder) PushLineBreak() {
	b.pendingSpace = false
	b.forcedBreak()
}

// PushInlineBox embeds an atomic box at the current position.
func (b *Builder) PushInlineBox(id dom.NodeID, kind InlineBoxKind) {
	if kind == InlineBoxInFlow {
		b.flushSpace()
		b.atLineStart = false
	}
	b.boxes = append(b.boxes, InlineBox{Node: id, Kind: kind, Offset: b.offset()})
}

// Build finishes the paragraph. The builder must not be used afterwards.
func (b *Builder) Build() *Paragraph {
	for len(b.open) > 0 {
		b.PopStyleSpan()
	}
	text := b.ctx.buf.String()
	b.ctx.buf.Reset()
	b.ctx.Paragraphs++

	p := &Paragraph{
		Text:       text,
		Spans:      b.spans,
		Boxes:      b.boxes,
		Breaks:     b.brks,
		LineHeight: b.lineHeight,
	}
	for _, r := range b.runs {
		r.Width = b.ctx.shaper.Measure(strings.ReplaceAll(text[r.Start:r.End], "\n", ""), r.FontSize)
		p.Runs = append(p.Runs, r)
	}
	p.measure(b.ctx.shaper)
	return p
}

// measure fills the intrinsic widths. Embedded boxes count as zero; their size
// is not known until they are laid out.
func (p *Paragraph) measure(s *Shaper) {
	line := 0.0
	prevEnd := 0
	for _, r := range p.Runs {
		// Breaks pushed outside any run (br elements) still end a line.
		if strings.Contains(p.Text[prevEnd:r.Start], "\n") {
			p.MaxContentWidth = max(p.MaxContentWidth, line)
			line = 0
		}
		prevEnd = r.End
		seg := p.Text[r.Start:r.End]
		for i, part := range strings.Split(seg, "\n") {
			if i > 0 {
				p.MaxContentWidth = max(p.MaxContentWidth, line)
				line = 0
			}
			line += s.Measure(part, r.FontSize)
			for _, word := range strings.Fields(part) {
				p.MinContentWidth = max(p.MinContentWidth, s.Measure(word, r.FontSize))
			}
		}
	}
	p.MaxContentWidth = max(p.MaxContentWidth, line)
}
