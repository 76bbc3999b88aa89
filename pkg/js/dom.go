package js

import (
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/dop251/goja"

	"boxtree/pkg/css"
	"boxtree/pkg/dom"
	"boxtree/pkg/html"
)

// domContext holds the shared state of the DOM bindings. Proxies are cached
// per node so the same JS object comes back for the same node, which keeps ===
// working.
type domContext struct {
	vm     *goja.Runtime
	doc    *html.Document
	a      *dom.Arena
	docObj *goja.Object
	cache  map[dom.NodeID]*goja.Object
	nodes  map[*goja.Object]dom.NodeID
}

func newDOMContext(vm *goja.Runtime, doc *html.Document) *domContext {
	return &domContext{
		vm:    vm,
		doc:   doc,
		a:     doc.Arena,
		cache: make(map[dom.NodeID]*goja.Object),
		nodes: make(map[*goja.Object]dom.NodeID),
	}
}

// registerDocument sets up the global document object.
func registerDocument(vm *goja.Runtime, doc *html.Document) *domContext {
	ctx := newDOMContext(vm, doc)
	a := ctx.a

	docObj := vm.NewObject()
	ctx.docObj = docObj
	docObj.Set("nodeType", 9)
	docObj.Set("getElementById", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) == 0 {
			return goja.Null()
		}
		return ctx.proxyOrNull(a.ElementByID(call.Arguments[0].String()))
	})
	docObj.Set("getElementsByTagName", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) == 0 {
			return ctx.nodeArray(nil)
		}
		return ctx.nodeArray(elementsByTagName(a, a.Document(), strings.ToLower(call.Arguments[0].String())))
	})
	docObj.Set("getElementsByClassName", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) == 0 {
			return ctx.nodeArray(nil)
		}
		return ctx.nodeArray(elementsByClassName(a, a.Document(), call.Arguments[0].String()))
	})
	docObj.Set("createElement", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) == 0 {
			panic(vm.NewTypeError("Failed to execute 'createElement' on 'Document': 1 argument required"))
		}
		return ctx.proxy(a.CreateElement(strings.ToLower(call.Arguments[0].String()), nil))
	})
	docObj.Set("createTextNode", func(call goja.FunctionCall) goja.Value {
		text := ""
		if len(call.Arguments) > 0 {
			text = call.Arguments[0].String()
		}
		return ctx.proxy(a.CreateText(text))
	})
	docObj.Set("createComment", func(call goja.FunctionCall) goja.Value {
		text := ""
		if len(call.Arguments) > 0 {
			text = call.Arguments[0].String()
		}
		return ctx.proxy(a.CreateComment(text))
	})
	docObj.Set("appendChild", func(call goja.FunctionCall) goja.Value {
		return ctx.insert("appendChild", a.Document(), call.Argument(0), dom.None)
	})

	registerQuerySelectors(ctx, docObj, a.Document())
	registerDocumentProperties(ctx, docObj)

	vm.Set("document", docObj)
	return ctx
}

func elementsByTagName(a *dom.Arena, root dom.NodeID, tag string) []dom.NodeID {
	var out []dom.NodeID
	a.Walk(root, func(n *dom.Node) bool {
		if n.ID != root && n.Kind == dom.KindElement && (tag == "*" || n.TagName() == tag) {
			out = append(out, n.ID)
		}
		return true
	})
	return out
}

func elementsByClassName(a *dom.Arena, root dom.NodeID, cls string) []dom.NodeID {
	var out []dom.NodeID
	a.Walk(root, func(n *dom.Node) bool {
		if n.ID == root || n.Kind != dom.KindElement {
			return true
		}
		v, _ := n.Attr("class")
		if containsToken(strings.Fields(v), cls) {
			out = append(out, n.ID)
		}
		return true
	})
	return out
}

// nodeArray creates a JS array of node proxies.
func (ctx *domContext) nodeArray(ids []dom.NodeID) goja.Value {
	vals := make([]any, len(ids))
	for i, id := range ids {
		vals[i] = ctx.proxy(id)
	}
	return ctx.vm.NewArray(vals...)
}

// proxy returns the cached JS object wrapping id, creating it on first use.
func (ctx *domContext) proxy(id dom.NodeID) *goja.Object {
	if id == ctx.a.Document() {
		return ctx.docObj
	}
	if obj, ok := ctx.cache[id]; ok {
		return obj
	}
	obj := ctx.vm.NewDynamicObject(&nodeAccessor{ctx: ctx, id: id})
	ctx.cache[id] = obj
	ctx.nodes[obj] = id
	return obj
}

func (ctx *domContext) proxyOrNull(id dom.NodeID) goja.Value {
	if ctx.a.Get(id) == nil {
		return goja.Null()
	}
	return ctx.proxy(id)
}

// unwrap returns the node behind a proxy, or dom.None for anything else.
func (ctx *domContext) unwrap(val goja.Value) dom.NodeID {
	if val == nil || goja.IsNull(val) || goja.IsUndefined(val) {
		return dom.None
	}
	obj, ok := val.(*goja.Object)
	if !ok {
		return dom.None
	}
	if obj == ctx.docObj {
		return ctx.a.Document()
	}
	if id, ok := ctx.nodes[obj]; ok {
		return id
	}
	return dom.None
}

// throw raises a DOM error inside the running script.
func (ctx *domContext) throw(op string, err error) {
	panic(ctx.vm.NewTypeError("Failed to execute '%s': %v", op, err))
}

// nodeAccessor implements goja.DynamicObject for element, text and comment
// proxies.
type nodeAccessor struct {
	ctx *domContext
	id  dom.NodeID
}

func (e *nodeAccessor) node() *dom.Node { return e.ctx.a.Get(e.id) }

var nodeKeys = []string{
	"tagName", "nodeName", "nodeType", "nodeValue", "data", "id", "className",
	"textContent", "innerHTML", "outerHTML", "isConnected",
	"getAttribute", "setAttribute", "hasAttribute", "removeAttribute",
	"children", "childNodes", "parentElement", "parentNode", "style",
	"appendChild", "removeChild", "insertBefore", "replaceChild",
	"firstChild", "lastChild", "firstElementChild", "lastElementChild",
	"nextSibling", "previousSibling", "nextElementSibling", "previousElementSibling",
	"childElementCount",
	"querySelector", "querySelectorAll", "matches", "closest",
	"classList",
	"remove", "append", "prepend", "before", "after", "replaceWith", "replaceChildren",
	"cloneNode", "contains", "hasChildNodes",
	"getElementsByTagName", "getElementsByClassName",
}

func (e *nodeAccessor) Get(key string) goja.Value {
	vm := e.ctx.vm
	a := e.ctx.a
	n := e.node()
	if n == nil {
		return goja.Undefined()
	}

	switch key {
	case "nodeType":
		switch n.Kind {
		case dom.KindText:
			return vm.ToValue(3)
		case dom.KindComment:
			return vm.ToValue(8)
		}
		return vm.ToValue(1)
	case "nodeName":
		switch n.Kind {
		case dom.KindText:
			return vm.ToValue("#text")
		case dom.KindComment:
			return vm.ToValue("#comment")
		}
		return vm.ToValue(strings.ToUpper(n.TagName()))
	case "nodeValue", "data":
		if n.Kind == dom.KindText || n.Kind == dom.KindComment {
			return vm.ToValue(n.Text)
		}
		return goja.Null()
	case "tagName":
		if n.Kind != dom.KindElement {
			return goja.Undefined()
		}
		return vm.ToValue(strings.ToUpper(n.TagName()))
	case "id":
		v, _ := n.Attr("id")
		return vm.ToValue(v)
	case "className":
		v, _ := n.Attr("class")
		return vm.ToValue(v)
	case "textContent":
		return vm.ToValue(a.TextContent(e.id))
	case "innerHTML":
		return vm.ToValue(a.InnerHTML(e.id))
	case "outerHTML":
		return vm.ToValue(a.OuterHTML(e.id))
	case "isConnected":
		return vm.ToValue(a.Connected(e.id))
	case "getAttribute":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			v, ok := n.Attr(call.Argument(0).String())
			if !ok {
				return goja.Null()
			}
			return vm.ToValue(v)
		})
	case "setAttribute":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			if len(call.Arguments) < 2 {
				panic(vm.NewTypeError("Failed to execute 'setAttribute': 2 arguments required"))
			}
			e.setAttr("setAttribute", strings.ToLower(call.Arguments[0].String()), call.Arguments[1].String())
			return goja.Undefined()
		})
	case "hasAttribute":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			_, ok := n.Attr(call.Argument(0).String())
			return vm.ToValue(ok)
		})
	case "removeAttribute":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			if err := a.RemoveAttribute(e.id, call.Argument(0).String()); err != nil {
				e.ctx.throw("removeAttribute", err)
			}
			return goja.Undefined()
		})
	case "children":
		var els []dom.NodeID
		for _, c := range n.Children {
			if a.Get(c).Kind == dom.KindElement {
				els = append(els, c)
			}
		}
		return e.ctx.nodeArray(els)
	case "childNodes":
		return e.ctx.nodeArray(n.Children)
	case "parentElement":
		if p := a.Get(n.Parent); p != nil && p.Kind == dom.KindElement {
			return e.ctx.proxy(p.ID)
		}
		return goja.Null()
	case "parentNode":
		return e.ctx.proxyOrNull(n.Parent)
	case "style":
		return vm.NewDynamicObject(&styleAccessor{node: e})

	case "appendChild":
		return vm.ToValue(e.appendChildFn())
	case "removeChild":
		return vm.ToValue(e.removeChildFn())
	case "insertBefore":
		return vm.ToValue(e.insertBeforeFn())
	case "replaceChild":
		return vm.ToValue(e.replaceChildFn())

	case "firstChild":
		return e.firstChild()
	case "lastChild":
		return e.lastChild()
	case "firstElementChild":
		return e.firstElementChild()
	case "lastElementChild":
		return e.lastElementChild()
	case "nextSibling":
		return e.sibling(+1, false)
	case "previousSibling":
		return e.sibling(-1, false)
	case "nextElementSibling":
		return e.sibling(+1, true)
	case "previousElementSibling":
		return e.sibling(-1, true)
	case "childElementCount":
		count := 0
		for _, c := range n.Children {
			if a.Get(c).Kind == dom.KindElement {
				count++
			}
		}
		return vm.ToValue(count)

	case "querySelector":
		return vm.ToValue(querySelectorFn(e.ctx, e.id))
	case "querySelectorAll":
		return vm.ToValue(querySelectorAllFn(e.ctx, e.id))
	case "matches":
		return vm.ToValue(matchesFn(e.ctx, e.id))
	case "closest":
		return vm.ToValue(closestFn(e.ctx, e.id))

	case "classList":
		return newClassListProxy(e)

	case "remove":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			if a.Get(n.Parent) != nil {
				if err := a.RemoveChild(n.Parent, e.id); err != nil {
					e.ctx.throw("remove", err)
				}
			}
			return goja.Undefined()
		})
	case "append":
		return vm.ToValue(e.appendFn())
	case "prepend":
		return vm.ToValue(e.prependFn())
	case "before":
		return vm.ToValue(e.beforeFn())
	case "after":
		return vm.ToValue(e.afterFn())
	case "replaceWith":
		return vm.ToValue(e.replaceWithFn())
	case "replaceChildren":
		return vm.ToValue(e.replaceChildrenFn())

	case "cloneNode":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			return e.ctx.proxyOrNull(a.CloneSubtree(e.id, call.Argument(0).ToBoolean()))
		})
	case "contains":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			other := e.ctx.unwrap(call.Argument(0))
			return vm.ToValue(other != dom.None && a.Contains(e.id, other))
		})
	case "hasChildNodes":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			return vm.ToValue(len(n.Children) > 0)
		})
	case "getElementsByTagName":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			return e.ctx.nodeArray(elementsByTagName(a, e.id, strings.ToLower(call.Argument(0).String())))
		})
	case "getElementsByClassName":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			return e.ctx.nodeArray(elementsByClassName(a, e.id, call.Argument(0).String()))
		})
	}
	return goja.Undefined()
}

func (e *nodeAccessor) Set(key string, val goja.Value) bool {
	switch key {
	case "textContent":
		e.setTextContent(val.String())
		return true
	case "className":
		e.setAttr("className", "class", val.String())
		return true
	case "id":
		e.setAttr("id", "id", val.String())
		return true
	case "innerHTML":
		e.setInnerHTML(val.String())
		return true
	case "nodeValue", "data":
		if n := e.node(); n != nil && (n.Kind == dom.KindText || n.Kind == dom.KindComment) {
			if err := e.ctx.a.SetText(e.id, val.String()); err != nil {
				e.ctx.throw(key, err)
			}
		}
		return true
	}
	return false
}

func (e *nodeAccessor) Has(key string) bool {
	for _, k := range nodeKeys {
		if k == key {
			return true
		}
	}
	return false
}

func (e *nodeAccessor) Delete(key string) bool { return false }

func (e *nodeAccessor) Keys() []string { return nodeKeys }

func (e *nodeAccessor) setAttr(op, name, value string) {
	if err := e.ctx.a.SetAttribute(e.id, name, value); err != nil {
		e.ctx.throw(op, err)
	}
}

// styleAccessor maps camelCase property access to the kebab-case
// declarations of the element's style attribute.
type styleAccessor struct {
	node *nodeAccessor
}

func (s *styleAccessor) Get(key string) goja.Value {
	decls := css.ParseInlineStyle(s.attr()).Properties
	return s.node.ctx.vm.ToValue(decls[camelToKebab(key)])
}

func (s *styleAccessor) Set(key string, val goja.Value) bool {
	decls := parseStyleAttr(s.attr())
	prop := camelToKebab(key)
	if v := val.String(); v == "" {
		delete(decls, prop)
	} else {
		decls[prop] = v
	}
	s.node.setAttr("style", "style", serializeStyleAttr(decls))
	return true
}

func (s *styleAccessor) Has(key string) bool { return true }

func (s *styleAccessor) Delete(key string) bool {
	decls := parseStyleAttr(s.attr())
	delete(decls, camelToKebab(key))
	s.node.setAttr("style", "style", serializeStyleAttr(decls))
	return true
}

func (s *styleAccessor) Keys() []string {
	decls := parseStyleAttr(s.attr())
	keys := make([]string, 0, len(decls))
	for k := range decls {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (s *styleAccessor) attr() string {
	if n := s.node.node(); n != nil {
		v, _ := n.Attr("style")
		return v
	}
	return ""
}

// parseStyleAttr splits a style attribute into declarations without expanding
// shorthands, so writing one property back keeps the others as authored.
func parseStyleAttr(s string) map[string]string {
	out := make(map[string]string)
	for _, decl := range strings.Split(s, ";") {
		prop, val, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		if prop = strings.TrimSpace(prop); prop != "" {
			out[prop] = strings.TrimSpace(val)
		}
	}
	return out
}

func serializeStyleAttr(m map[string]string) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + m[k]
	}
	return strings.Join(parts, "; ")
}

// camelToKebab converts a JS camelCase property name to CSS kebab-case.
func camelToKebab(s string) string {
	if s == "cssFloat" {
		return "float"
	}
	var sb strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				sb.WriteByte('-')
			}
			sb.WriteRune(unicode.ToLower(r))
		} else {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// index parses an array-style property key.
func index(key string) (int, bool) {
	i, err := strconv.Atoi(key)
	return i, err == nil && i >= 0
}
