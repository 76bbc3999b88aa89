package layout

import (
	"strconv"
	"strings"

	"go.uber.org/zap"

	"boxtree/pkg/dom"
	"boxtree/pkg/style"
)

// maxColSpan bounds a colspan attribute, as browsers do.
const maxColSpan = 1000

// TableItemKind tells rows from cells in a table's item list.
type TableItemKind int

const (
	TableItemRow TableItemKind = iota
	TableItemCell
)

func (k TableItemKind) String() string {
	if k == TableItemRow {
		return "row"
	}
	return "cell"
}

// TableItem places a row or a cell on the table grid. Rows and columns count
// from 1; a row item spans every column.
type TableItem struct {
	Kind           TableItemKind
	Node           dom.NodeID
	Row            int
	Column         int
	ColSpan        int
	SuppressBorder bool
}

// TableContext is the grid description shared by a table and its parts.
type TableContext struct {
	Layout   style.TableLayout
	Collapse style.BorderCollapse

	// Columns has one width hint per grid column.
	Columns []style.Dimension
	Rows    int
	Items   []TableItem
	Cells   []dom.NodeID

	GapX, GapY float64

	// TableBorder overrides the table's own border widths when borders
	// collapse. It is nil for separated borders.
	TableBorder *style.Edges
}

func (*TableContext) SpecialKind() dom.SpecialKind { return dom.SpecialTableRoot }

// tableWalk carries the grid cursor while the table's descendants are read.
type tableWalk struct {
	tc    *TableContext
	row   int
	col   int
	inRow bool
	cols  int
	first dom.NodeID
}

// buildTableContext reads the rows and cells of a table element into a fresh
// context. Row groups and display: contents wrappers are transparent.
func (p *pass) buildTableContext(n *dom.Node) *TableContext {
	tc := &TableContext{}
	if n.Style != nil {
		tc.Layout = n.Style.TableLayout()
		tc.Collapse = n.Style.BorderCollapse()
	}
	w := &tableWalk{tc: tc, first: dom.None}
	p.collectTable(n, w, 0)

	for len(tc.Columns) < w.cols {
		tc.Columns = append(tc.Columns, style.Auto())
	}
	tc.Rows = w.row
	for i := range tc.Items {
		if tc.Items[i].Kind == TableItemRow {
			tc.Items[i].ColSpan = max(w.cols, 1)
		}
	}
	p.tableGaps(n, tc, w.first)
	p.stats.Tables++
	return tc
}

func (p *pass) collectTable(parent *dom.Node, w *tableWalk, depth int) {
	if depth > p.maxDepth {
		return
	}
	for _, c := range parent.Children {
		cn := p.a.Get(c)
		if !cn.IsElement() {
			p.consume(cn)
			continue
		}
		d := displayOf(cn)
		switch {
		case d.IsNone():
			p.consume(cn)

		case d.IsContents(),
			d.Inside == style.InsideTableRowGroup,
			d.Inside == style.InsideTableHeaderGroup,
			d.Inside == style.InsideTableFooterGroup:
			p.consume(cn)
			cn.LayoutParent = parent.ID
			p.collectTable(cn, w, depth+1)

		case d.Inside == style.InsideTableRow:
			p.consume(cn)
			cn.LayoutParent = parent.ID
			w.row++
			w.col = 0
			w.tc.Items = append(w.tc.Items, TableItem{Kind: TableItemRow, Node: c, Row: w.row, Column: 1})
			w.inRow = true
			p.collectTable(cn, w, depth+1)
			w.inRow = false

		case d.Inside == style.InsideTableCell:
			if !w.inRow {
				p.log.Debug("table cell outside a row dropped", zap.Int("node", int(c)))
				p.consume(cn)
				continue
			}
			p.addCell(cn, w)

		default:
			p.log.Debug("ignoring table descendant",
				zap.Int("node", int(c)), zap.Stringer("display", d))
			p.consume(cn)
		}
	}
}

func (p *pass) addCell(cn *dom.Node, w *tableWalk) {
	span := colSpan(cn)
	w.tc.Items = append(w.tc.Items, TableItem{
		Kind:           TableItemCell,
		Node:           cn.ID,
		Row:            w.row,
		Column:         w.col + 1,
		ColSpan:        span,
		SuppressBorder: w.tc.Collapse == style.BorderCollapsed,
	})
	w.tc.Cells = append(w.tc.Cells, cn.ID)
	if w.first == dom.None {
		w.first = cn.ID
	}

	if cn.Style != nil {
		p.columnHint(w, cn.Style)
	}
	w.col += span
	w.cols = max(w.cols, w.col)
}

// columnHint folds the width of a cell into the hint of its first column. The
// first row decides the hints; later rows may only widen a length under auto
// layout.
func (p *pass) columnHint(w *tableWalk, s style.Computed) {
	tc := w.tc
	width := s.Width()
	if w.row == 1 {
		for len(tc.Columns) <= w.col {
			tc.Columns = append(tc.Columns, style.Auto())
		}
		switch width.Kind {
		case style.DimensionLength:
			pad := s.Padding()
			tc.Columns[w.col] = style.Length(width.Value + pad.Left + pad.Right)
		case style.DimensionPercent:
			if tc.Layout == style.TableLayoutFixed {
				tc.Columns[w.col] = width
			}
		}
		return
	}
	if tc.Layout != style.TableLayoutAuto || width.Kind != style.DimensionLength || w.col >= len(tc.Columns) {
		return
	}
	switch old := tc.Columns[w.col]; old.Kind {
	case style.DimensionLength:
		tc.Columns[w.col] = style.Length(max(old.Value, width.Value))
	case style.DimensionAuto:
		tc.Columns[w.col] = width
	}
}

// tableGaps sets the spacing between cells. Collapsed borders take the first
// cell's widest border on each axis, and the table draws a border that wide.
func (p *pass) tableGaps(n *dom.Node, tc *TableContext, first dom.NodeID) {
	if tc.Collapse == style.BorderSeparate {
		if n.Style != nil {
			tc.GapX, tc.GapY = n.Style.BorderSpacing()
		}
		return
	}
	if fn := p.a.Get(first); fn != nil && fn.Style != nil {
		b := fn.Style.BorderWidths()
		tc.GapX = max(b.Left, b.Right)
		tc.GapY = max(b.Top, b.Bottom)
	}
	tc.TableBorder = &style.Edges{Top: tc.GapY, Right: tc.GapX, Bottom: tc.GapY, Left: tc.GapX}
}

func colSpan(n *dom.Node) int {
	v, ok := n.Attr("colspan")
	if !ok {
		return 1
	}
	span, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || span < 1 {
		return 1
	}
	return min(span, maxColSpan)
}
