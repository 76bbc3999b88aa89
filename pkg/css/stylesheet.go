package css

import (
	"fmt"
	"strings"
)

// Combinator joins two compound selectors.
type Combinator int

const (
	DescendantCombinator      Combinator = iota // "a b"
	ChildCombinator                             // "a > b"
	AdjacentSiblingCombinator                   // "a + b"
	GeneralSiblingCombinator                    // "a ~ b"
)

// AttributeSelector is one [name op value] test.
type AttributeSelector struct {
	Name     string
	Operator string
	Value    string
}

// SelectorPart is a compound selector: tag, id, classes and attribute tests
// that must all hold for one element.
type SelectorPart struct {
	Element       string
	ID            string
	Classes       []string
	Attributes    []AttributeSelector
	PseudoClasses []string
}

// Selector is a complex selector. Parts run left to right; Combinators[i] sits
// between Parts[i] and Parts[i+1].
type Selector struct {
	Raw           string
	Parts         []SelectorPart
	Combinators   []Combinator
	PseudoElement string // "before", "after" or ""
	Specificity   int
}

// Rule is one selector with its declarations. A rule written with a selector
// list becomes one Rule per selector.
type Rule struct {
	Selector     Selector
	Declarations map[string]string
	MediaQuery   string
	Order        int
}

// Stylesheet represents a parsed CSS stylesheet
type Stylesheet struct {
	Rules []Rule
}

// ParseStylesheet parses stylesheet text. Malformed rules are skipped; an error
// is only returned for unbalanced braces.
func ParseStylesheet(css string) (*Stylesheet, error) {
	sheet := &Stylesheet{}
	css = stripComments(css)
	if strings.Count(css, "{") != strings.Count(css, "}") {
		return sheet, fmt.Errorf("css: unbalanced braces")
	}
	sheet.parseBlock(css, "")
	return sheet, nil
}

func (sheet *Stylesheet) parseBlock(css, media string) {
	for _, ruleStr := range splitRules(css) {
		brace := strings.Index(ruleStr, "{")
		prelude := strings.TrimSpace(ruleStr[:brace])
		body := ruleStr[brace+1 : strings.LastIndex(ruleStr, "}")]

		if strings.HasPrefix(prelude, "@media") {
			sheet.parseBlock(body, strings.TrimSpace(strings.TrimPrefix(prelude, "@media")))
			continue
		}
		if strings.HasPrefix(prelude, "@") {
			continue
		}

		decls := parseDeclarations(body)
		for _, selStr := range strings.Split(prelude, ",") {
			sel, ok := parseSelector(selStr)
			if !ok {
				continue
			}
			sheet.Rules = append(sheet.Rules, Rule{
				Selector:     sel,
				Declarations: decls,
				MediaQuery:   media,
				Order:        len(sheet.Rules),
			})
		}
	}
}

func stripComments(css string) string {
	var sb strings.Builder
	for {
		start := strings.Index(css, "/*")
		if start < 0 {
			sb.WriteString(css)
			return sb.String()
		}
		sb.WriteString(css[:start])
		end := strings.Index(css[start+2:], "*/")
		if end < 0 {
			return sb.String()
		}
		css = css[start+2+end+2:]
	}
}

// splitRules splits CSS into top-level "prelude { body }" chunks.
func splitRules(css string) []string {
	var rules []string
	depth := 0
	start := 0
	for i, ch := range css {
		switch ch {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				if r := strings.TrimSpace(css[start : i+1]); r != "" {
					rules = append(rules, r)
				}
				start = i + 1
			}
		}
	}
	return rules
}

// parseDeclarations parses "prop: value; ..." with shorthands expanded.
// Semicolons inside quoted strings do not end a declaration.
func parseDeclarations(declStr string) map[string]string {
	declarations := make(map[string]string)
	for _, part := range splitDeclarations(declStr) {
		colon := strings.Index(part, ":")
		if colon == -1 {
			continue
		}
		property := strings.ToLower(strings.TrimSpace(part[:colon]))
		value := strings.TrimSpace(part[colon+1:])
		value = strings.TrimSpace(strings.TrimSuffix(value, "!important"))
		if property == "" || value == "" {
			continue
		}
		style := NewStyle()
		expandShorthand(style, property, value)
		for k, v := range style.Properties {
			declarations[k] = v
		}
	}
	return declarations
}

func splitDeclarations(s string) []string {
	var out []string
	var quote byte
	start := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == ';':
			out = append(out, s[start:i])
			start = i + 1
		}
	}
	out = append(out, s[start:])
	return out
}

// parseSelector parses one complex selector.
func parseSelector(raw string) (Selector, bool) {
	raw = strings.TrimSpace(raw)
	sel := Selector{Raw: raw}
	if raw == "" {
		return sel, false
	}

	fields := selectorFields(raw)
	pendingCombinator := DescendantCombinator
	for _, f := range fields {
		switch f {
		case ">":
			pendingCombinator = ChildCombinator
			continue
		case "+":
			pendingCombinator = AdjacentSiblingCombinator
			continue
		case "~":
			pendingCombinator = GeneralSiblingCombinator
			continue
		}
		part, pseudoElement, ok := parseCompound(f)
		if !ok {
			return sel, false
		}
		if sel.PseudoElement != "" {
			// A pseudo-element must be the last thing in a selector.
			return sel, false
		}
		if len(sel.Parts) > 0 {
			sel.Combinators = append(sel.Combinators, pendingCombinator)
		}
		pendingCombinator = DescendantCombinator
		sel.Parts = append(sel.Parts, part)
		sel.PseudoElement = pseudoElement
	}
	if len(sel.Parts) == 0 {
		return sel, false
	}
	sel.Specificity = specificity(sel)
	return sel, true
}

// selectorFields splits a selector into compound selectors and combinator
// tokens. Brackets and parentheses protect their contents, so [lang~=en] and
// :nth-child(2) stay whole.
func selectorFields(raw string) []string {
	var fields []string
	var cur strings.Builder
	depth := 0
	flush := func() {
		if cur.Len() > 0 {
			fields = append(fields, cur.String())
			cur.Reset()
		}
	}
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		switch {
		case c == '[' || c == '(':
			depth++
			cur.WriteByte(c)
		case c == ']' || c == ')':
			depth--
			cur.WriteByte(c)
		case depth > 0:
			cur.WriteByte(c)
		case c == '>' || c == '+' || c == '~':
			flush()
			fields = append(fields, string(c))
		case c == ' ' || c == '\t' || c == '\n':
			flush()
		default:
			cur.WriteByte(c)
		}
	}
	flush()
	return fields
}

// parseCompound splits "tag#id.a.b[x=y]:hover::before".
func parseCompound(s string) (SelectorPart, string, bool) {
	var part SelectorPart
	pseudoElement := ""
	i := 0
	readIdent := func() string {
		start := i
		for i < len(s) && isIdentChar(s[i]) {
			i++
		}
		return s[start:i]
	}

	if i < len(s) && (s[i] == '*' || isIdentChar(s[i])) {
		if s[i] == '*' {
			part.Element = "*"
			i++
		} else {
			part.Element = strings.ToLower(readIdent())
		}
	}
	for i < len(s) {
		switch s[i] {
		case '#':
			i++
			part.ID = readIdent()
		case '.':
			i++
			part.Classes = append(part.Classes, readIdent())
		case '[':
			end := strings.IndexByte(s[i:], ']')
			if end < 0 {
				return part, "", false
			}
			part.Attributes = append(part.Attributes, parseAttributeSelector(s[i+1:i+end]))
			i += end + 1
		case ':':
			i++
			double := i < len(s) && s[i] == ':'
			if double {
				i++
			}
			name := strings.ToLower(readIdent())
			if i < len(s) && s[i] == '(' {
				end := strings.IndexByte(s[i:], ')')
				if end < 0 {
					return part, "", false
				}
				name += s[i : i+end+1]
				i += end + 1
			}
			switch {
			case name == "before" || name == "after":
				pseudoElement = name
			case double:
				// Other pseudo-elements never generate boxes here.
				return part, "", false
			default:
				part.PseudoClasses = append(part.PseudoClasses, name)
			}
		default:
			return part, "", false
		}
	}
	return part, pseudoElement, true
}

func parseAttributeSelector(s string) AttributeSelector {
	for _, op := range []string{"~=", "|=", "^=", "$=", "*=", "="} {
		if idx := strings.Index(s, op); idx > 0 {
			return AttributeSelector{
				Name:     strings.TrimSpace(s[:idx]),
				Operator: op,
				Value:    strings.Trim(strings.TrimSpace(s[idx+len(op):]), `"'`),
			}
		}
	}
	return AttributeSelector{Name: strings.TrimSpace(s)}
}

func isIdentChar(c byte) bool {
	return c == '-' || c == '_' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= 0x80
}

// specificity packs (ids, classes, types) into one comparable int.
func specificity(sel Selector) int {
	ids, classes, types := 0, 0, 0
	for _, p := range sel.Parts {
		if p.ID != "" {
			ids++
		}
		classes += len(p.Classes) + len(p.Attributes) + len(p.PseudoClasses)
		if p.Element != "" && p.Element != "*" {
			types++
		}
	}
	if sel.PseudoElement != "" {
		types++
	}
	return ids*10000 + classes*100 + types
}
