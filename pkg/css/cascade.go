package css

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"boxtree/pkg/dom"
	"boxtree/pkg/style"
)

// userAgentCSS gives elements their default display and a few defaults that
// box construction reads.
const userAgentCSS = `
html, body, address, article, aside, blockquote, center, details, dialog, dd, div, dl, dt,
fieldset, figcaption, figure, footer, form, h1, h2, h3, h4, h5, h6, header, hgroup, hr,
main, menu, nav, ol, p, pre, section, summary, ul { display: block }
li { display: list-item }
head, link, meta, script, style, template, title, noscript { display: none }
table { display: table; border-spacing: 2px }
caption { display: table-caption }
colgroup { display: table-column-group }
col { display: table-column }
thead { display: table-header-group }
tbody { display: table-row-group }
tfoot { display: table-footer-group }
tr { display: table-row }
td, th { display: table-cell; padding: 1px }
th, b, strong, h1, h2, h3 { font-weight: bold }
pre, textarea { white-space: pre }
h1 { font-size: 32px }
h2 { font-size: 24px }
q::before { content: open-quote }
q::after { content: close-quote }
`

type origin int

const (
	originUserAgent origin = iota
	originAuthor
)

type sheet struct {
	origin origin
	*Stylesheet
}

// Engine computes styles for every element of an arena and publishes them on
// the nodes. Restyling keeps the previous handle when nothing changed, so
// style identity doubles as a change signal for box construction.
type Engine struct {
	sheets         []sheet
	viewportWidth  float64
	viewportHeight float64
	logger         *zap.Logger
}

// NewEngine returns an engine loaded with the user-agent sheet.
func NewEngine(viewportWidth, viewportHeight float64, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	ua, err := ParseStylesheet(userAgentCSS)
	if err != nil {
		panic(fmt.Sprintf("css: user-agent sheet: %v", err))
	}
	return &Engine{
		sheets:         []sheet{{originUserAgent, ua}},
		viewportWidth:  viewportWidth,
		viewportHeight: viewportHeight,
		logger:         logger.Named("css"),
	}
}

// AddStylesheet parses and appends an author sheet.
func (e *Engine) AddStylesheet(text string) error {
	s, err := ParseStylesheet(text)
	if err != nil {
		return fmt.Errorf("add stylesheet: %w", err)
	}
	e.sheets = append(e.sheets, sheet{originAuthor, s})
	return nil
}

// RestyleStats summarises one Restyle pass.
type RestyleStats struct {
	Elements int
	Changed  int
}

// Restyle recomputes the style of every connected element. Changed elements get
// box damage; a change to a property that decides what kind of box an element
// generates also damages its parent, whose child list may need regrouping.
func (e *Engine) Restyle(a *dom.Arena) RestyleStats {
	var stats RestyleStats
	e.restyleChildren(a, a.Document(), nil, &stats)
	e.logger.Debug("restyle finished",
		zap.Int("elements", stats.Elements),
		zap.Int("changed", stats.Changed))
	return stats
}

func (e *Engine) restyleChildren(a *dom.Arena, id dom.NodeID, parentStyle *Style, stats *RestyleStats) {
	for _, c := range a.Get(id).Children {
		n := a.Get(c)
		if n.Kind != dom.KindElement {
			continue
		}
		stats.Elements++
		published := e.restyleElement(a, n, parentStyle, stats)
		e.restyleChildren(a, c, published, stats)
	}
}

func (e *Engine) restyleElement(a *dom.Arena, n *dom.Node, parentStyle *Style, stats *RestyleStats) *Style {
	next := e.ComputeStyle(a, n.ID, parentStyle)
	old, _ := n.Style.(*Style)
	for k := range next.pseudo {
		if old != nil && old.pseudo[k] != nil && old.pseudo[k].equal(next.pseudo[k]) {
			next.pseudo[k] = old.pseudo[k]
		}
	}
	if old != nil && old.equal(next) {
		return old
	}

	stats.Changed++
	n.Style = next
	a.MarkDirty(n.ID)
	if old == nil || boxKindChanged(old, next) {
		// Inline ancestors were grouped by whatever contains them, so the
		// regrouping reaches up to the first ancestor that is not inline.
		for p := a.Get(n.Parent); p != nil; p = a.Get(p.Parent) {
			a.MarkDirty(p.ID)
			if !groupedByParent(p) {
				break
			}
		}
	}
	return next
}

func groupedByParent(n *dom.Node) bool {
	s, ok := n.Style.(*Style)
	if !ok || n.Kind != dom.KindElement {
		return false
	}
	d := s.Display()
	return d.IsInlineFlow() || d.IsContents()
}

func boxKindChanged(old, next *Style) bool {
	return old.Display() != next.Display() ||
		old.Position() != next.Position() ||
		old.Float() != next.Float()
}

type matchedRule struct {
	origin origin
	rule   Rule
}

func (e *Engine) matchingRules(a *dom.Arena, id dom.NodeID, pseudoElement string) []matchedRule {
	var matches []matchedRule
	for _, s := range e.sheets {
		for _, rule := range s.Rules {
			if rule.Selector.PseudoElement != pseudoElement {
				continue
			}
			if !EvaluateMediaQuery(rule.MediaQuery, e.viewportWidth, e.viewportHeight) {
				continue
			}
			if MatchesSelector(a, id, rule.Selector) {
				matches = append(matches, matchedRule{s.origin, rule})
			}
		}
	}
	// Stable sort keeps source order between equals.
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].origin != matches[j].origin {
			return matches[i].origin < matches[j].origin
		}
		return matches[i].rule.Selector.Specificity < matches[j].rule.Selector.Specificity
	})
	return matches
}

// ComputeStyle computes the final style of an element: inherited values from
// the parent, then user-agent and author rules by specificity, then the style
// attribute. Pseudo-element styles are computed alongside.
func (e *Engine) ComputeStyle(a *dom.Arena, id dom.NodeID, parentStyle *Style) *Style {
	final := inheritFrom(parentStyle)
	for _, m := range e.matchingRules(a, id, "") {
		applyDeclarations(final, m.rule.Declarations, parentStyle)
	}
	if attr, ok := a.Get(id).Attr("style"); ok {
		applyDeclarations(final, ParseInlineStyle(attr).Properties, parentStyle)
	}
	final.pseudo[style.PseudoBefore] = e.ComputePseudoElementStyle(a, id, style.PseudoBefore, final)
	final.pseudo[style.PseudoAfter] = e.ComputePseudoElementStyle(a, id, style.PseudoAfter, final)
	return final
}

// ComputePseudoElementStyle returns the style of ::before or ::after, or nil
// when no rule gives it content.
func (e *Engine) ComputePseudoElementStyle(a *dom.Arena, id dom.NodeID, kind style.PseudoKind, elementStyle *Style) *Style {
	name := "before"
	if kind == style.PseudoAfter {
		name = "after"
	}
	matches := e.matchingRules(a, id, name)
	if len(matches) == 0 {
		return nil
	}
	ps := inheritFrom(elementStyle)
	for _, m := range matches {
		applyDeclarations(ps, m.rule.Declarations, elementStyle)
	}
	if ps.Content() == nil || ps.Display().IsNone() {
		return nil
	}
	return ps
}

func applyDeclarations(dst *Style, decls map[string]string, parent *Style) {
	for property, value := range decls {
		switch value {
		case "inherit":
			if parent != nil {
				if pv, ok := parent.Properties[property]; ok {
					dst.Set(property, pv)
					continue
				}
			}
			delete(dst.Properties, property)
		case "initial", "unset":
			delete(dst.Properties, property)
		default:
			dst.Set(property, value)
		}
	}
}
