package css

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStylesheet_Rules(t *testing.T) {
	sheet, err := ParseStylesheet(`
		/* heading */
		h1, .title { color: red; margin: 1px 2px }
		div > p + span ~ em { display: none !important }
	`)
	require.NoError(t, err)
	require.Len(t, sheet.Rules, 3)

	assert.Equal(t, "h1", sheet.Rules[0].Selector.Parts[0].Element)
	assert.Equal(t, []string{"title"}, sheet.Rules[1].Selector.Parts[0].Classes)
	assert.Equal(t, map[string]string{
		"color":         "red",
		"margin-top":    "1px",
		"margin-right":  "2px",
		"margin-bottom": "1px",
		"margin-left":   "2px",
	}, sheet.Rules[0].Declarations)

	last := sheet.Rules[2]
	assert.Equal(t, []Combinator{ChildCombinator, AdjacentSiblingCombinator, GeneralSiblingCombinator}, last.Selector.Combinators)
	assert.Equal(t, "none", last.Declarations["display"])
	assert.Equal(t, 2, last.Order)
}

func TestParseStylesheet_UnbalancedBraces(t *testing.T) {
	_, err := ParseStylesheet(`div { color: red`)
	assert.Error(t, err)
}

func TestParseStylesheet_MediaAndAtRules(t *testing.T) {
	sheet, err := ParseStylesheet(`
		@import url(x.css);
		@font-face { font-family: x }
		@media (max-width: 600px) { p { color: blue } }
		a { color: red }
	`)
	require.NoError(t, err)
	require.Len(t, sheet.Rules, 2)
	assert.Equal(t, "(max-width: 600px)", sheet.Rules[0].MediaQuery)
	assert.Equal(t, "", sheet.Rules[1].MediaQuery)
}

func TestParseSelector(t *testing.T) {
	tests := []struct {
		raw         string
		ok          bool
		pseudo      string
		specificity int
	}{
		{"div", true, "", 1},
		{"#a.b.c", true, "", 10200},
		{"ul li:first-child", true, "", 102},
		{"q::before", true, "before", 2},
		{"p:after", true, "after", 2},
		{`input[type="text"]`, true, "", 101},
		{"p::first-line", false, "", 0},
		{"p::before span", false, "", 0},
		{"", false, "", 0},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			sel, ok := parseSelector(tt.raw)
			assert.Equal(t, tt.ok, ok)
			if !ok {
				return
			}
			assert.Equal(t, tt.pseudo, sel.PseudoElement)
			assert.Equal(t, tt.specificity, sel.Specificity)
		})
	}
}

func TestParseDeclarations_QuotedSemicolon(t *testing.T) {
	decls := parseDeclarations(`content: "a;b"; color: red`)
	assert.Equal(t, `"a;b"`, decls["content"])
	assert.Equal(t, "red", decls["color"])
}

func TestParseInlineStyle_BorderShorthand(t *testing.T) {
	s := ParseInlineStyle("border: 2px solid red; border-left: none")
	assert.Equal(t, "2px", s.Properties["border-top-width"])
	assert.Equal(t, "solid", s.Properties["border-top-style"])
	assert.Equal(t, "red", s.Properties["border-top-color"])
	assert.Equal(t, "none", s.Properties["border-left-style"])
}

func TestEvaluateMediaQuery(t *testing.T) {
	tests := []struct {
		query string
		want  bool
	}{
		{"", true},
		{"screen", true},
		{"print", false},
		{"not print", true},
		{"screen and (min-width: 500px)", true},
		{"(max-width: 500px)", false},
		{"(max-width: 500px), (min-height: 600px)", true},
		{"(orientation: landscape)", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, EvaluateMediaQuery(tt.query, 800, 600), tt.query)
	}
}
