// Package render paints a schematic of the resolved box tree: one labelled
// bar per box, indented by depth, in the order a real painter would visit the
// boxes. It is a debugging view; no geometry is computed.
package render

import (
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/fogleman/gg"
	"go.uber.org/zap"
	"golang.org/x/image/font/basicfont"

	"boxtree/pkg/dom"
	"boxtree/pkg/layout"
)

// Options size the schematic.
type Options struct {
	RowHeight float64
	Indent    float64
	Width     int
	Logger    *zap.Logger
}

// DefaultOptions match the defaults of the render config section.
func DefaultOptions() Options {
	return Options{RowHeight: 18, Indent: 16, Width: 640}
}

// Kind classifies a row for colouring.
type Kind int

const (
	KindDocument Kind = iota
	KindBlock
	KindInlineRoot
	KindTable
	KindAnonymous
	KindPseudo
	KindText
	KindReplaced
)

// Row is one painted box.
type Row struct {
	Node  dom.NodeID
	Depth int
	Label string
	Kind  Kind
	// ZIndex is set for boxes that establish a stacking context.
	ZIndex  int
	Context bool
}

// Renderer draws schematics onto a gg context.
type Renderer struct {
	a    *dom.Arena
	opts Options
	log  *zap.Logger
}

// NewRenderer returns a renderer for a. Zero option fields take their
// defaults.
func NewRenderer(a *dom.Arena, opts Options) *Renderer {
	def := DefaultOptions()
	if opts.RowHeight <= 0 {
		opts.RowHeight = def.RowHeight
	}
	if opts.Indent <= 0 {
		opts.Indent = def.Indent
	}
	if opts.Width <= 0 {
		opts.Width = def.Width
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Renderer{a: a, opts: opts, log: log.Named("render")}
}

// Rows lists the boxes under root in paint order. Within a stacking context
// negative child contexts come first, then the context's own paint list, then
// positive child contexts.
func (r *Renderer) Rows(root dom.NodeID) []Row {
	po := layout.BuildPaintOrder(r.a, root)
	var rows []Row
	r.collect(po, root, 0, po.Root, &rows, make(map[dom.NodeID]bool))
	return rows
}

func (r *Renderer) collect(po *layout.PaintOrder, id dom.NodeID, depth int, sc *layout.StackingContext, rows *[]Row, seen map[dom.NodeID]bool) {
	n := r.a.Get(id)
	if n == nil || seen[id] || depth > layout.DefaultMaxDepth {
		return
	}
	seen[id] = true
	row := Row{Node: id, Depth: depth, Label: describe(n), Kind: kindOf(n)}
	if sc != nil && sc.Node == id {
		row.Context = true
		row.ZIndex = sc.ZIndex
	}
	*rows = append(*rows, row)

	if sc != nil {
		for _, c := range sc.Negative {
			r.collect(po, c.Node, depth+1, c, rows, seen)
		}
	}
	for _, c := range po.Children(id) {
		r.collect(po, c, depth+1, po.Context(c), rows, seen)
	}
	if sc != nil {
		for _, c := range sc.Positive {
			r.collect(po, c.Node, depth+1, c, rows, seen)
		}
	}
}

func kindOf(n *dom.Node) Kind {
	switch n.Kind {
	case dom.KindDocument:
		return KindDocument
	case dom.KindText:
		return KindText
	case dom.KindAnonymousBlock:
		if n.Origin == dom.FromPseudo {
			return KindPseudo
		}
		return KindAnonymous
	}
	switch {
	case n.HasFlag(dom.FlagTableRoot):
		return KindTable
	case n.HasFlag(dom.FlagInlineRoot):
		return KindInlineRoot
	}
	if _, ok := n.Special().(*dom.ReplacedImage); ok {
		return KindReplaced
	}
	return KindBlock
}

func describe(n *dom.Node) string {
	label := layout.Label(n)
	if il := layout.InlineLayoutOf(n); il != nil && n.HasFlag(dom.FlagInlineRoot) && il.Paragraph != nil {
		label += fmt.Sprintf(" %q", il.Paragraph.Text)
	}
	if tc := layout.TableContextOf(n); tc != nil {
		label += fmt.Sprintf(" [%dx%d]", len(tc.Columns), tc.Rows)
	}
	return label
}

var palette = map[Kind]color.RGBA{
	KindDocument:   {0xee, 0xee, 0xee, 0xff},
	KindBlock:      {0xcf, 0xe2, 0xf3, 0xff},
	KindInlineRoot: {0xd9, 0xea, 0xd3, 0xff},
	KindTable:      {0xfc, 0xe5, 0xcd, 0xff},
	KindAnonymous:  {0xff, 0xf2, 0xcc, 0xff},
	KindPseudo:     {0xd9, 0xd2, 0xe9, 0xff},
	KindText:       {0xff, 0xff, 0xff, 0xff},
	KindReplaced:   {0xf4, 0xcc, 0xcc, 0xff},
}

// Paint draws the schematic of the tree under root.
func (r *Renderer) Paint(root dom.NodeID) *gg.Context {
	rows := r.Rows(root)
	height := int(float64(len(rows))*r.opts.RowHeight) + 1
	dc := gg.NewContext(r.opts.Width, max(height, 1))
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	dc.SetFontFace(basicfont.Face7x13)

	for i, row := range rows {
		x := float64(row.Depth) * r.opts.Indent
		y := float64(i) * r.opts.RowHeight
		w := float64(r.opts.Width) - x - 1
		if w <= 0 {
			r.log.Debug("row does not fit the schematic width", zap.String("box", row.Label), zap.Int("depth", row.Depth))
			continue
		}

		c := palette[row.Kind]
		dc.SetRGBA255(int(c.R), int(c.G), int(c.B), int(c.A))
		dc.DrawRectangle(x, y, w, r.opts.RowHeight-2)
		dc.Fill()

		if row.Context {
			dc.SetRGB(0.8, 0.1, 0.1)
			dc.SetLineWidth(2)
		} else {
			dc.SetRGB(0.5, 0.5, 0.5)
			dc.SetLineWidth(1)
		}
		dc.DrawRectangle(x+0.5, y+0.5, w-1, r.opts.RowHeight-3)
		dc.Stroke()

		label := row.Label
		if row.Context {
			label = fmt.Sprintf("%s z=%d", label, row.ZIndex)
		}
		dc.SetRGB(0, 0, 0)
		dc.DrawStringAnchored(label, x+4, y+(r.opts.RowHeight-2)/2, 0, 0.35)
	}
	r.log.Debug("schematic painted", zap.Int("rows", len(rows)))
	return dc
}

// Image paints the tree under root and returns the bitmap.
func (r *Renderer) Image(root dom.NodeID) image.Image {
	return r.Paint(root).Image()
}

// EncodePNG paints the tree under root as PNG into w.
func (r *Renderer) EncodePNG(w io.Writer, root dom.NodeID) error {
	if err := r.Paint(root).EncodePNG(w); err != nil {
		return fmt.Errorf("encode schematic: %w", err)
	}
	return nil
}

// SavePNG paints the tree under root into a PNG file.
func (r *Renderer) SavePNG(filename string, root dom.NodeID) error {
	if err := r.Paint(root).SavePNG(filename); err != nil {
		return fmt.Errorf("save schematic %s: %w", filename, err)
	}
	return nil
}
