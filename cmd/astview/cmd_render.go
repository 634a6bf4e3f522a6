package main

import (
	"fmt"

	"github.com/dgallion1/astview/internal/outline"
	"github.com/dgallion1/astview/internal/parser"
	"github.com/dgallion1/astview/internal/render"
	"github.com/spf13/cobra"
)

// newRenderCmd prints the tree markup for a dump.
func newRenderCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "render [dump-file|-]",
		Short: "Render an AST dump as nested HTML lists",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			tree, err := parser.Parse(text)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), render.Render(tree))
			return nil
		},
	}
}

// newOutlineCmd prints a dump as an indented tree.
func newOutlineCmd() *cobra.Command {
	var opts outline.Options

	cmd := &cobra.Command{
		Use:   "outline [dump-file|-]",
		Short: "Print an AST dump as a styled outline",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			tree, err := parser.Parse(text)
			if err != nil {
				return err
			}
			return outline.Write(cmd.OutOrStdout(), tree, opts)
		},
	}
	cmd.Flags().BoolVar(&opts.Plain, "plain", false, "Disable colors and guides")
	cmd.Flags().IntVar(&opts.MaxDepth, "depth", 0, "Maximum depth to print (0 = all)")
	return cmd
}
