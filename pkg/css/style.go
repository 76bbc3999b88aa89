package css

import (
	"strconv"
	"strings"

	"boxtree/pkg/style"
)

// Style is a computed style: the flat property map left over after the cascade,
// plus the styles of the element's generated pseudo-elements. A *Style is
// immutable once the engine has published it, so the pointer is its identity.
type Style struct {
	Properties map[string]string

	pseudo [2]*Style
}

var _ style.Computed = (*Style)(nil)

func NewStyle() *Style {
	return &Style{Properties: make(map[string]string)}
}

func (s *Style) Get(property string) (string, bool) {
	val, ok := s.Properties[property]
	return val, ok
}

func (s *Style) Set(property, value string) {
	s.Properties[property] = value
}

func (s *Style) GetLength(property string) (float64, bool) {
	val, ok := s.Get(property)
	if !ok {
		return 0, false
	}
	return ParseLength(val)
}

// ParseLength parses a pixel length ("100px" or "100"). Font-relative units
// are resolved against the default 16px font.
func ParseLength(val string) (float64, bool) {
	val = strings.TrimSpace(val)
	scale := 1.0
	switch {
	case strings.HasSuffix(val, "px"):
		val = strings.TrimSuffix(val, "px")
	case strings.HasSuffix(val, "rem"):
		val, scale = strings.TrimSuffix(val, "rem"), 16
	case strings.HasSuffix(val, "em"):
		val, scale = strings.TrimSuffix(val, "em"), 16
	case strings.HasSuffix(val, "pt"):
		val, scale = strings.TrimSuffix(val, "pt"), 4.0/3.0
	}
	num, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, false
	}
	return num * scale, true
}

func (s *Style) getLengthOrZero(property string) float64 {
	val, ok := s.GetLength(property)
	if !ok {
		return 0
	}
	return val
}

// equal reports whether two styles carry the same properties and the same
// pseudo-element styles.
func (s *Style) equal(o *Style) bool {
	if s == nil || o == nil {
		return s == o
	}
	if len(s.Properties) != len(o.Properties) {
		return false
	}
	for k, v := range s.Properties {
		if ov, ok := o.Properties[k]; !ok || ov != v {
			return false
		}
	}
	return s.pseudo[0].equal(o.pseudo[0]) && s.pseudo[1].equal(o.pseudo[1])
}

func (s *Style) Display() style.Display {
	if v, ok := s.Get("display"); ok {
		return style.ParseDisplay(v)
	}
	return style.DisplayInline
}

func (s *Style) Float() style.Float {
	switch s.Properties["float"] {
	case "left", "inline-start":
		return style.FloatLeft
	case "right", "inline-end":
		return style.FloatRight
	}
	return style.FloatNone
}

func (s *Style) Position() style.Position {
	switch s.Properties["position"] {
	case "relative":
		return style.PositionRelative
	case "sticky":
		return style.PositionSticky
	case "absolute":
		return style.PositionAbsolute
	case "fixed":
		return style.PositionFixed
	}
	return style.PositionStatic
}

// WhiteSpaceCollapse reads white-space-collapse, falling back to the legacy
// white-space shorthand.
func (s *Style) WhiteSpaceCollapse() style.WhiteSpaceCollapse {
	if v, ok := s.Get("white-space-collapse"); ok {
		switch v {
		case "preserve":
			return style.WhiteSpacePreserve
		case "preserve-breaks":
			return style.WhiteSpacePreserveBreaks
		case "preserve-spaces":
			return style.WhiteSpacePreserveSpaces
		case "break-spaces":
			return style.WhiteSpaceBreakSpaces
		}
		return style.WhiteSpaceCollapseSpaces
	}
	switch s.Properties["white-space"] {
	case "pre", "pre-wrap":
		return style.WhiteSpacePreserve
	case "pre-line":
		return style.WhiteSpacePreserveBreaks
	case "break-spaces":
		return style.WhiteSpaceBreakSpaces
	}
	return style.WhiteSpaceCollapseSpaces
}

func (s *Style) TableLayout() style.TableLayout {
	if s.Properties["table-layout"] == "fixed" {
		return style.TableLayoutFixed
	}
	return style.TableLayoutAuto
}

func (s *Style) BorderCollapse() style.BorderCollapse {
	if s.Properties["border-collapse"] == "collapse" {
		return style.BorderCollapsed
	}
	return style.BorderSeparate
}

func (s *Style) BorderSpacing() (float64, float64) {
	parts := strings.Fields(s.Properties["border-spacing"])
	switch len(parts) {
	case 0:
		return 0, 0
	case 1:
		v, _ := ParseLength(parts[0])
		return v, v
	}
	h, _ := ParseLength(parts[0])
	v, _ := ParseLength(parts[1])
	return h, v
}

func (s *Style) Width() style.Dimension {
	return ParseDimension(s.Properties["width"])
}

// ParseDimension reads auto, a percentage or a length. Anything unreadable is
// auto.
func ParseDimension(val string) style.Dimension {
	val = strings.TrimSpace(val)
	if strings.HasSuffix(val, "%") {
		if f, err := strconv.ParseFloat(strings.TrimSuffix(val, "%"), 64); err == nil {
			return style.Percent(f / 100)
		}
		return style.Auto()
	}
	if l, ok := ParseLength(val); ok {
		return style.Length(l)
	}
	return style.Auto()
}

func (s *Style) Padding() style.Edges {
	return style.Edges{
		Top:    s.getLengthOrZero("padding-top"),
		Right:  s.getLengthOrZero("padding-right"),
		Bottom: s.getLengthOrZero("padding-bottom"),
		Left:   s.getLengthOrZero("padding-left"),
	}
}

// BorderWidths returns the used border widths. A side whose style is none or
// hidden has no width.
func (s *Style) BorderWidths() style.Edges {
	side := func(name string) float64 {
		switch s.Properties["border-"+name+"-style"] {
		case "", "none", "hidden":
			return 0
		}
		return s.getLengthOrZero("border-" + name + "-width")
	}
	return style.Edges{
		Top:    side("top"),
		Right:  side("right"),
		Bottom: side("bottom"),
		Left:   side("left"),
	}
}

func (s *Style) Content() []style.ContentItem {
	v, ok := s.Get("content")
	if !ok {
		return nil
	}
	return ParseContent(v)
}

func (s *Style) Quotes() (string, string) {
	q := parseStrings(s.Properties["quotes"])
	if len(q) >= 2 {
		return q[0], q[1]
	}
	return "“", "”"
}

func (s *Style) FontSize() float64 {
	if size, ok := s.GetLength("font-size"); ok {
		return size
	}
	return 16.0
}

// LineHeight returns the line height in pixels. Unitless values multiply the
// font size; normal is 1.2 times the font size.
func (s *Style) LineHeight() float64 {
	v, ok := s.Get("line-height")
	if !ok || v == "normal" {
		return s.FontSize() * 1.2
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return f * s.FontSize()
	}
	if l, ok := ParseLength(v); ok {
		return l
	}
	return s.FontSize() * 1.2
}

func (s *Style) Bold() bool {
	switch s.Properties["font-weight"] {
	case "bold", "bolder", "600", "700", "800", "900":
		return true
	}
	return false
}

func (s *Style) ZIndex() (int, bool) {
	v, ok := s.Get("z-index")
	if !ok || v == "auto" {
		return 0, false
	}
	z, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, false
	}
	return z, true
}

func (s *Style) Order() int {
	o, err := strconv.Atoi(strings.TrimSpace(s.Properties["order"]))
	if err != nil {
		return 0
	}
	return o
}

// Pseudo returns the pseudo-element style computed alongside this style. Nil
// interface, not a nil *Style, when there is none.
func (s *Style) Pseudo(kind style.PseudoKind) style.Computed {
	if p := s.pseudo[kind]; p != nil {
		return p
	}
	return nil
}

// Anonymous returns a block style that carries only the inherited properties.
func (s *Style) Anonymous() style.Computed {
	anon := inheritFrom(s)
	anon.Set("display", "block")
	return anon
}

// Inherited properties flow from parent to child when the child does not set
// them.
var inheritedProperties = []string{
	"color", "cursor", "direction", "font-family", "font-size", "font-style",
	"font-weight", "letter-spacing", "line-height", "list-style-type", "quotes",
	"text-align", "text-indent", "text-transform", "visibility", "white-space",
	"white-space-collapse", "word-spacing", "border-collapse", "border-spacing",
}

func inheritFrom(parent *Style) *Style {
	s := NewStyle()
	if parent == nil {
		return s
	}
	for _, p := range inheritedProperties {
		if v, ok := parent.Properties[p]; ok {
			s.Properties[p] = v
		}
	}
	return s
}

// ParseContent reads the content property. none and normal produce nil.
func ParseContent(val string) []style.ContentItem {
	val = strings.TrimSpace(val)
	if val == "" || val == "none" || val == "normal" {
		return nil
	}
	var items []style.ContentItem
	for len(val) > 0 {
		val = strings.TrimLeft(val, " \t\n")
		if val == "" {
			break
		}
		switch {
		case val[0] == '"' || val[0] == '\'':
			str, rest := readQuoted(val)
			items = append(items, style.ContentItem{Kind: style.ContentString, Value: str})
			val = rest
		case strings.HasPrefix(val, "attr("):
			arg, rest := readFunction(val[len("attr("):])
			items = append(items, style.ContentItem{Kind: style.ContentAttr, Value: arg})
			val = rest
		case strings.HasPrefix(val, "counter("):
			arg, rest := readFunction(val[len("counter("):])
			items = append(items, style.ContentItem{Kind: style.ContentCounter, Value: arg})
			val = rest
		case strings.HasPrefix(val, "url("):
			arg, rest := readFunction(val[len("url("):])
			items = append(items, style.ContentItem{Kind: style.ContentURL, Value: strings.Trim(arg, `"'`)})
			val = rest
		case strings.HasPrefix(val, "open-quote"):
			items = append(items, style.ContentItem{Kind: style.ContentOpenQuote})
			val = val[len("open-quote"):]
		case strings.HasPrefix(val, "close-quote"):
			items = append(items, style.ContentItem{Kind: style.ContentCloseQuote})
			val = val[len("close-quote"):]
		default:
			// Unknown token: skip to the next space.
			if i := strings.IndexAny(val, " \t\n"); i >= 0 {
				val = val[i:]
			} else {
				val = ""
			}
		}
	}
	return items
}

func readQuoted(val string) (string, string) {
	quote := val[0]
	var sb strings.Builder
	for i := 1; i < len(val); i++ {
		switch c := val[i]; {
		case c == '\\' && i+1 < len(val):
			i++
			if val[i] == 'A' || val[i] == 'a' {
				sb.WriteByte('\n')
			} else {
				sb.WriteByte(val[i])
			}
		case c == quote:
			return sb.String(), val[i+1:]
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String(), ""
}

func readFunction(val string) (string, string) {
	end := strings.IndexByte(val, ')')
	if end < 0 {
		return strings.TrimSpace(val), ""
	}
	return strings.TrimSpace(val[:end]), val[end+1:]
}

func parseStrings(val string) []string {
	var out []string
	val = strings.TrimSpace(val)
	for len(val) > 0 {
		if val[0] != '"' && val[0] != '\'' {
			return out
		}
		var s string
		s, val = readQuoted(val)
		out = append(out, s)
		val = strings.TrimSpace(val)
	}
	return out
}
