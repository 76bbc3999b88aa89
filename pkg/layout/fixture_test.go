package layout

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"boxtree/pkg/css"
	"boxtree/pkg/dom"
	"boxtree/pkg/html"
)

// fixture is a parsed, styled and resolved document.
type fixture struct {
	t      *testing.T
	a      *dom.Arena
	styles *css.Engine
	driver *Driver
	first  Stats
}

func newFixture(t *testing.T, markup, sheet string) *fixture {
	t.Helper()
	return newFixtureWith(t, markup, sheet, Options{Strict: true})
}

func newFixtureWith(t *testing.T, markup, sheet string, opts Options) *fixture {
	t.Helper()
	doc, err := html.Parse(markup)
	require.NoError(t, err)

	if opts.Logger == nil {
		opts.Logger = zaptest.NewLogger(t)
	}
	styles := css.NewEngine(800, 600, opts.Logger)
	for _, s := range doc.Stylesheets {
		require.NoError(t, styles.AddStylesheet(s))
	}
	if sheet != "" {
		require.NoError(t, styles.AddStylesheet(sheet))
	}
	f := &fixture{
		t:      t,
		a:      doc.Arena,
		styles: styles,
		driver: NewDriver(doc.Arena, nil, opts),
	}
	f.first = f.resolve()
	return f
}

// resolve runs the cascade and one box-construction pass, as a frame would.
func (f *fixture) resolve() Stats {
	f.styles.Restyle(f.a)
	return f.driver.Resolve(f.a.Document())
}

func (f *fixture) id(elementID string) dom.NodeID {
	f.t.Helper()
	id := f.a.ElementByID(elementID)
	require.NotEqual(f.t, dom.None, id, "no element #%s", elementID)
	return id
}

func (f *fixture) node(elementID string) *dom.Node { return f.a.Get(f.id(elementID)) }

// members labels the layout members of an element.
func (f *fixture) members(elementID string) []string {
	var out []string
	for _, m := range LayoutMembers(f.a, f.id(elementID)) {
		out = append(out, Label(f.a.Get(m)))
	}
	return out
}

// snapshot copies every node's layout children and flags.
func (f *fixture) snapshot() map[dom.NodeID]string {
	out := make(map[dom.NodeID]string)
	for id := dom.NodeID(0); int(id) < f.a.Cap(); id++ {
		if n := f.a.Get(id); n != nil {
			out[id] = Dump(f.a, id) + n.Damage.String()
		}
	}
	return out
}
