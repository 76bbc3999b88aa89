// Package js runs scripts against a parsed document. Every DOM mutation a
// script makes goes through the arena's mutation API, so it records the same
// damage a native edit would and the next box-construction pass picks it up.
package js

import (
	"fmt"

	"github.com/dop251/goja"
	"go.uber.org/zap"

	"boxtree/pkg/html"
)

// Engine executes JavaScript against one document.
type Engine struct {
	vm  *goja.Runtime
	doc *html.Document
	dom *domContext
	log *zap.Logger
}

// New creates an engine bound to doc with a fresh goja runtime. A nil logger
// discards console output.
func New(doc *html.Document, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	vm := goja.New()
	e := &Engine{vm: vm, doc: doc, log: logger.Named("js")}

	c := &consoleAPI{log: e.log.Named("console")}
	c.register(vm)
	e.dom = registerDocument(vm, doc)
	return e
}

// Run evaluates one script. name labels the script in errors.
func (e *Engine) Run(name, src string) error {
	if _, err := e.vm.RunScript(name, src); err != nil {
		return fmt.Errorf("run %s: %w", name, err)
	}
	return nil
}

// Execute runs the document's own scripts in order and stops at the first
// failure.
func (e *Engine) Execute() error {
	for i, script := range e.doc.Scripts {
		if err := e.Run(fmt.Sprintf("script %d", i), script); err != nil {
			return err
		}
	}
	return nil
}

// Value evaluates an expression and exports the result, for callers that
// inspect script state.
func (e *Engine) Value(expr string) (any, error) {
	v, err := e.vm.RunString(expr)
	if err != nil {
		return nil, fmt.Errorf("eval: %w", err)
	}
	return v.Export(), nil
}
