package js

import (
	"strings"

	"github.com/dop251/goja"
	"go.uber.org/zap"
)

// consoleAPI implements console.log, console.warn and console.error on top of
// the engine's logger.
type consoleAPI struct {
	log *zap.Logger
}

func (c *consoleAPI) register(vm *goja.Runtime) {
	console := vm.NewObject()
	console.Set("log", c.emit(c.log.Info))
	console.Set("info", c.emit(c.log.Info))
	console.Set("debug", c.emit(c.log.Debug))
	console.Set("warn", c.emit(c.log.Warn))
	console.Set("error", c.emit(c.log.Error))
	vm.Set("console", console)
}

func (c *consoleAPI) emit(write func(string, ...zap.Field)) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		write(formatArgs(call.Arguments))
		return goja.Undefined()
	}
}

func formatArgs(args []goja.Value) string {
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = arg.String()
	}
	return strings.Join(parts, " ")
}
