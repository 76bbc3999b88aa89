package style

import "strings"

// DisplayOutside is how a box participates in its parent's formatting context.
type DisplayOutside int

const (
	OutsideNone DisplayOutside = iota
	OutsideInline
	OutsideBlock
	OutsideTableCaption
	OutsideInternalTable
)

// DisplayInside is the formatting context a box establishes for its children.
type DisplayInside int

const (
	InsideNone DisplayInside = iota
	InsideContents
	InsideFlow
	InsideFlowRoot
	InsideFlex
	InsideGrid
	InsideTable
	InsideTableRowGroup
	InsideTableHeaderGroup
	InsideTableFooterGroup
	InsideTableRow
	InsideTableCell
	InsideTableColumn
	InsideTableColumnGroup
)

// Display is the two-axis display value.
type Display struct {
	Outside DisplayOutside
	Inside  DisplayInside
}

var (
	DisplayNone     = Display{OutsideNone, InsideNone}
	DisplayContents = Display{OutsideNone, InsideContents}
	DisplayBlock    = Display{OutsideBlock, InsideFlow}
	DisplayInline   = Display{OutsideInline, InsideFlow}
)

// IsNone reports display: none.
func (d Display) IsNone() bool { return d.Outside == OutsideNone && d.Inside == InsideNone }

// IsContents reports display: contents.
func (d Display) IsContents() bool { return d.Inside == InsideContents }

// IsInlineFlow reports a plain inline box whose contents join the parent's
// inline formatting context.
func (d Display) IsInlineFlow() bool { return d.Outside == OutsideInline && d.Inside == InsideFlow }

// IsBlockLevel reports whether the box breaks a line when it sits among inline
// content.
func (d Display) IsBlockLevel() bool {
	switch d.Outside {
	case OutsideBlock, OutsideTableCaption, OutsideInternalTable:
		return true
	}
	return false
}

// IsTablePart reports the internal table displays that only make sense inside a
// table wrapper.
func (d Display) IsTablePart() bool { return d.Outside == OutsideInternalTable }

var displayKeywords = map[string]Display{
	"none":               DisplayNone,
	"contents":           DisplayContents,
	"block":              DisplayBlock,
	"inline":             DisplayInline,
	"list-item":          DisplayBlock,
	"flow-root":          {OutsideBlock, InsideFlowRoot},
	"inline-block":       {OutsideInline, InsideFlowRoot},
	"flex":               {OutsideBlock, InsideFlex},
	"inline-flex":        {OutsideInline, InsideFlex},
	"grid":               {OutsideBlock, InsideGrid},
	"inline-grid":        {OutsideInline, InsideGrid},
	"table":              {OutsideBlock, InsideTable},
	"inline-table":       {OutsideInline, InsideTable},
	"table-row-group":    {OutsideInternalTable, InsideTableRowGroup},
	"table-header-group": {OutsideInternalTable, InsideTableHeaderGroup},
	"table-footer-group": {OutsideInternalTable, InsideTableFooterGroup},
	"table-row":          {OutsideInternalTable, InsideTableRow},
	"table-cell":         {OutsideInternalTable, InsideTableCell},
	"table-column":       {OutsideInternalTable, InsideTableColumn},
	"table-column-group": {OutsideInternalTable, InsideTableColumnGroup},
	"table-caption":      {OutsideTableCaption, InsideFlowRoot},
}

// ParseDisplay reads a display value. Both the legacy single keywords and the
// two-keyword form ("inline flex", "block flow-root") are understood; anything
// else yields inline, the initial value.
func ParseDisplay(value string) Display {
	value = strings.ToLower(strings.TrimSpace(value))
	if d, ok := displayKeywords[value]; ok {
		return d
	}

	fields := strings.Fields(value)
	if len(fields) != 2 {
		return DisplayInline
	}
	var d Display
	switch fields[0] {
	case "block":
		d.Outside = OutsideBlock
	case "inline":
		d.Outside = OutsideInline
	default:
		return DisplayInline
	}
	switch fields[1] {
	case "flow":
		d.Inside = InsideFlow
	case "flow-root":
		d.Inside = InsideFlowRoot
	case "flex":
		d.Inside = InsideFlex
	case "grid":
		d.Inside = InsideGrid
	case "table":
		d.Inside = InsideTable
	default:
		return DisplayInline
	}
	return d
}

func (d Display) String() string {
	for kw, v := range displayKeywords {
		if v == d && kw != "list-item" {
			return kw
		}
	}
	return "inline"
}
