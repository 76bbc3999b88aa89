package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"boxtree/pkg/config"
	"boxtree/pkg/css"
	"boxtree/pkg/html"
	"boxtree/pkg/images"
	"boxtree/pkg/layout"
	"boxtree/pkg/observability"
)

// app carries what PersistentPreRunE sets up for the subcommands.
type app struct {
	cfgFile string
	cfg     *config.Config
	log     *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "boxtree",
		Short:         "Build and inspect the box tree of an HTML document",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(viper.New(), a.cfgFile)
			if err != nil {
				return err
			}
			a.cfg = cfg
			observability.InitializeLogger(cfg.Logger)
			a.log = observability.GetLogger()
			return nil
		},
	}
	root.PersistentFlags().StringVarP(&a.cfgFile, "config", "c", "", "config file (default is ./boxtree.yaml)")

	root.AddCommand(newTreeCmd(a), newRenderCmd(a), newScriptCmd(a))
	return root
}

// document is a parsed page with the cascade and driver that keep its box
// tree current.
type document struct {
	doc    *html.Document
	styles *css.Engine
	driver *layout.Driver
}

func (a *app) open(path string) (*document, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	doc, err := html.Parse(string(src))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	styles := css.NewEngine(a.cfg.Viewport.Width, a.cfg.Viewport.Height, a.log)
	for i, sheet := range doc.Stylesheets {
		if err := styles.AddStylesheet(sheet); err != nil {
			return nil, fmt.Errorf("stylesheet %d of %s: %w", i, path, err)
		}
	}
	driver := layout.NewDriver(doc.Arena, nil, layout.Options{
		MaxDepth: a.cfg.Traversal.MaxDepth,
		Strict:   a.cfg.Traversal.Strict,
		Images:   images.NewCache(filepath.Dir(path)),
		Logger:   a.log,
	})
	a.log.Debug("document loaded",
		zap.String("path", path),
		zap.Int("nodes", doc.Arena.Len()),
		zap.Int("stylesheets", len(doc.Stylesheets)))
	return &document{doc: doc, styles: styles, driver: driver}, nil
}

// resolve restyles and runs one box-construction pass.
func (d *document) resolve() layout.Stats {
	d.styles.Restyle(d.doc.Arena)
	return d.driver.Resolve(d.doc.Arena.Document())
}

func formatStats(s layout.Stats) string {
	return fmt.Sprintf("visited=%d rebuilt=%d reused=%d skipped=%d inline_roots=%d tables=%d anonymous=+%d/-%d pseudo=+%d/-%d",
		s.Visited, s.Rebuilt, s.Reused, s.Skipped, s.InlineRoots, s.Tables,
		s.AnonymousCreated, s.AnonymousDiscarded, s.PseudoCreated, s.PseudoRemoved)
}
