// Package style defines the typed view of computed styles that box construction
// reads. The cascade lives elsewhere; anything that implements Computed can drive
// the box tree.
package style

// Computed is an immutable, externally owned computed-style handle. Two handles
// are the same style only if they are the same value; box construction compares
// them by identity and never looks inside to decide whether something changed.
type Computed interface {
	Display() Display
	Float() Float
	Position() Position
	WhiteSpaceCollapse() WhiteSpaceCollapse
	TableLayout() TableLayout
	BorderCollapse() BorderCollapse
	// BorderSpacing returns the horizontal and vertical spacing between cells.
	BorderSpacing() (float64, float64)
	Width() Dimension
	Padding() Edges
	BorderWidths() Edges
	// Content returns the generated content of a pseudo-element style, or nil
	// for none/normal.
	Content() []ContentItem
	Quotes() (open, close string)
	FontSize() float64
	LineHeight() float64
	Bold() bool
	// ZIndex returns the stacking level and false when z-index is auto.
	ZIndex() (int, bool)
	Order() int

	// Pseudo returns the style of the given pseudo-element, or nil when the
	// element generates no such box.
	Pseudo(kind PseudoKind) Computed
	// Anonymous returns a fresh block-level style inheriting from this one, for
	// boxes that have no element of their own.
	Anonymous() Computed
}

// PseudoKind selects a generated-content slot.
type PseudoKind int

const (
	PseudoBefore PseudoKind = iota
	PseudoAfter
)

func (k PseudoKind) String() string {
	if k == PseudoAfter {
		return "::after"
	}
	return "::before"
}

// Edges holds the four sides of a box edge in pixels.
type Edges struct {
	Top    float64
	Right  float64
	Bottom float64
	Left   float64
}

// Float is the float property.
type Float int

const (
	FloatNone Float = iota
	FloatLeft
	FloatRight
)

// Position is the position property.
type Position int

const (
	PositionStatic Position = iota
	PositionRelative
	PositionSticky
	PositionAbsolute
	PositionFixed
)

// InFlow reports whether a box with this position stays in normal flow.
func (p Position) InFlow() bool {
	return p == PositionStatic || p == PositionRelative || p == PositionSticky
}

// WhiteSpaceCollapse is the collapse half of the white-space property.
type WhiteSpaceCollapse int

const (
	WhiteSpaceCollapseSpaces WhiteSpaceCollapse = iota
	WhiteSpacePreserve
	WhiteSpacePreserveBreaks
	WhiteSpacePreserveSpaces
	WhiteSpaceBreakSpaces
)

// TableLayout is the table-layout property.
type TableLayout int

const (
	TableLayoutAuto TableLayout = iota
	TableLayoutFixed
)

// BorderCollapse is the border-collapse property.
type BorderCollapse int

const (
	BorderSeparate BorderCollapse = iota
	BorderCollapsed
)

// DimensionKind tells how a Dimension should be read.
type DimensionKind int

const (
	DimensionAuto DimensionKind = iota
	DimensionLength
	DimensionPercent
)

// Dimension is a width-like value: auto, a pixel length or a percentage
// (stored as a fraction, so 50% is 0.5).
type Dimension struct {
	Kind  DimensionKind
	Value float64
}

func Auto() Dimension                { return Dimension{} }
func Length(px float64) Dimension    { return Dimension{Kind: DimensionLength, Value: px} }
func Percent(frac float64) Dimension { return Dimension{Kind: DimensionPercent, Value: frac} }

// ContentKind identifies one item of the content property.
type ContentKind int

const (
	ContentString ContentKind = iota
	ContentAttr
	ContentOpenQuote
	ContentCloseQuote
	ContentCounter
	ContentURL
)

// ContentItem is one piece of generated content. Value holds the literal text,
// the attribute name, the counter name or the URL depending on Kind.
type ContentItem struct {
	Kind  ContentKind
	Value string
}
