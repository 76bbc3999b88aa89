// Command boxtree parses an HTML file, builds its box tree and prints, paints
// or scripts it.
package main

import (
	"os"

	"go.uber.org/zap"

	"boxtree/pkg/observability"
)

func main() {
	err := newRootCmd().Execute()
	if err != nil {
		// Before PersistentPreRunE succeeds this is the stderr fallback logger.
		observability.GetLogger().Error("command failed", zap.Error(err))
	}
	observability.Sync()
	if err != nil {
		os.Exit(1)
	}
}
