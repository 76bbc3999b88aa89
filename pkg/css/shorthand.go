package css

import "strings"

// ParseInlineStyle reads a style attribute.
func ParseInlineStyle(styleAttr string) *Style {
	style := NewStyle()
	for property, value := range parseDeclarations(styleAttr) {
		style.Set(property, value)
	}
	return style
}

// expandShorthand expands shorthand CSS properties into individual properties
func expandShorthand(style *Style, property, value string) {
	switch property {
	case "margin", "padding":
		expandBoxProperty(style, property, "", value)
	case "border-width":
		expandBoxProperty(style, "border", "-width", value)
	case "border-style":
		expandBoxProperty(style, "border", "-style", value)
	case "border-color":
		expandBoxProperty(style, "border", "-color", value)
	case "border":
		for _, side := range []string{"top", "right", "bottom", "left"} {
			expandBorderSide(style, "border-"+side, value)
		}
	case "border-top", "border-right", "border-bottom", "border-left":
		expandBorderSide(style, property, value)
	default:
		style.Set(property, value)
	}
}

// expandBoxProperty expands the one-to-four value box shorthands:
// "a" (all), "a b" (vertical horizontal), "a b c" (top horizontal bottom),
// "a b c d" (top right bottom left).
func expandBoxProperty(style *Style, prefix, suffix, value string) {
	parts := strings.Fields(value)
	var t, r, b, l string
	switch len(parts) {
	case 1:
		t, r, b, l = parts[0], parts[0], parts[0], parts[0]
	case 2:
		t, r, b, l = parts[0], parts[1], parts[0], parts[1]
	case 3:
		t, r, b, l = parts[0], parts[1], parts[2], parts[1]
	case 4:
		t, r, b, l = parts[0], parts[1], parts[2], parts[3]
	default:
		return
	}
	style.Set(prefix+"-top"+suffix, t)
	style.Set(prefix+"-right"+suffix, r)
	style.Set(prefix+"-bottom"+suffix, b)
	style.Set(prefix+"-left"+suffix, l)
}

// expandBorderSide expands "1px solid black" style values for one side.
func expandBorderSide(style *Style, prefix, value string) {
	for _, part := range strings.Fields(value) {
		switch {
		case isBorderStyle(part):
			style.Set(prefix+"-style", part)
		case isBorderWidth(part):
			style.Set(prefix+"-width", borderWidthKeyword(part))
		default:
			style.Set(prefix+"-color", part)
		}
	}
}

func isBorderStyle(v string) bool {
	switch v {
	case "none", "hidden", "solid", "dotted", "dashed", "double", "groove", "ridge", "inset", "outset":
		return true
	}
	return false
}

func isBorderWidth(v string) bool {
	switch v {
	case "thin", "medium", "thick":
		return true
	}
	_, ok := ParseLength(v)
	return ok
}

func borderWidthKeyword(v string) string {
	switch v {
	case "thin":
		return "1px"
	case "medium":
		return "3px"
	case "thick":
		return "5px"
	}
	return v
}
