package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"boxtree/pkg/js"
	"boxtree/pkg/layout"
	"boxtree/pkg/render"
)

func newTreeCmd(a *app) *cobra.Command {
	var stats bool
	cmd := &cobra.Command{
		Use:   "tree <file.html>",
		Short: "Print the box tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.open(args[0])
			if err != nil {
				return err
			}
			s := d.resolve()
			out := cmd.OutOrStdout()
			if stats {
				fmt.Fprintln(out, formatStats(s))
			}
			fmt.Fprint(out, layout.Dump(d.doc.Arena, d.doc.Arena.Document()))
			return nil
		},
	}
	cmd.Flags().BoolVar(&stats, "stats", false, "print pass statistics before the tree")
	return cmd
}

func newRenderCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "render <file.html> <out.png>",
		Short: "Paint a schematic of the box tree in paint order",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.open(args[0])
			if err != nil {
				return err
			}
			d.resolve()
			r := render.NewRenderer(d.doc.Arena, render.Options{
				RowHeight: a.cfg.Render.RowHeight,
				Indent:    a.cfg.Render.Indent,
				Width:     a.cfg.Render.Width,
				Logger:    a.log,
			})
			root := d.doc.Arena.Document()
			if err := r.SavePNG(args[1], root); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d boxes)\n", args[1], len(r.Rows(root)))
			return nil
		},
	}
}

func newScriptCmd(a *app) *cobra.Command {
	var pageScripts bool
	cmd := &cobra.Command{
		Use:   "script <file.html> <script.js>",
		Short: "Run a script against the resolved document and show what the next pass rebuilt",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.open(args[0])
			if err != nil {
				return err
			}
			src, err := os.ReadFile(args[1])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[1], err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "initial:", formatStats(d.resolve()))

			engine := js.New(d.doc, a.log)
			if pageScripts {
				if err := engine.Execute(); err != nil {
					return err
				}
			}
			if err := engine.Run(args[1], string(src)); err != nil {
				return err
			}

			fmt.Fprintln(out, "after script:", formatStats(d.resolve()))
			fmt.Fprint(out, layout.Dump(d.doc.Arena, d.doc.Arena.Document()))
			return nil
		},
	}
	cmd.Flags().BoolVar(&pageScripts, "page-scripts", false, "run the document's own scripts before the given one")
	return cmd
}
