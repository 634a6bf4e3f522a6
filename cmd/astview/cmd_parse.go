package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/dgallion1/astview/internal/compiler"
	"github.com/dgallion1/astview/internal/config"
	"github.com/dgallion1/astview/internal/outline"
	"github.com/dgallion1/astview/internal/parser"
	"github.com/dgallion1/astview/internal/render"
	"github.com/dgallion1/astview/internal/samples"
	"github.com/spf13/cobra"
)

// newParseCmd sends source to the compiler service and shows the result.
func newParseCmd() *cobra.Command {
	cfg := config.Load()
	var (
		op     string
		sample string
		dump   string
		format string
		apiKey = cfg.CompilerAPIKey
		url    = cfg.CompilerURL
	)

	cmd := &cobra.Command{
		Use:   "parse [source-file|-]",
		Short: "Run source through the compiler service",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var source string
			if sample != "" {
				s, err := samples.Get(sample)
				if err != nil {
					return err
				}
				source = s.Source
			} else {
				text, err := readInput(cmd, args)
				if err != nil {
					return err
				}
				source = text
			}

			var c compiler.Compiler
			if dump != "" {
				// Replay a saved dump through the same path as a live compiler.
				data, err := os.ReadFile(dump)
				if err != nil {
					return err
				}
				c = compiler.Static{ParseOutput: string(data)}
			} else {
				client := compiler.NewClient(url, apiKey, cfg.CompilerTimeout, logger())
				defer client.Close()
				c = client
			}

			out, err := compiler.Run(cmd.Context(), c, compiler.Op(op), source)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if compiler.Op(op) != compiler.OpParse {
				fmt.Fprint(w, out)
				return nil
			}

			tree := parser.ParseDump(out)
			if tree == nil {
				// Not a tree: the compiler reported an error.
				fmt.Fprint(w, out)
				return errors.New("compiler did not return an AST")
			}
			switch format {
			case "html":
				fmt.Fprintln(w, render.Render(tree))
				return nil
			case "dump":
				fmt.Fprint(w, out)
				return nil
			default:
				return outline.Write(w, tree, outline.Options{})
			}
		},
	}
	ops := make([]string, len(compiler.Ops))
	for i, o := range compiler.Ops {
		ops[i] = string(o)
	}
	cmd.Flags().StringVar(&op, "op", string(compiler.OpParse), "Compiler operation: "+strings.Join(ops, ", "))
	cmd.Flags().StringVar(&sample, "sample", "", "Use a built-in sample instead of a file")
	cmd.Flags().StringVar(&dump, "dump", "", "Read the parse result from a saved dump instead of the compiler")
	cmd.Flags().StringVarP(&format, "format", "f", "outline", "Output for parse: outline, html or dump")
	cmd.Flags().StringVar(&url, "compiler-url", url, "Compiler service base URL")
	cmd.Flags().StringVar(&apiKey, "compiler-key", apiKey, "Compiler service API key")
	return cmd
}
