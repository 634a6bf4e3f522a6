package main

import (
	"fmt"

	"github.com/dgallion1/astview/internal/samples"
	"github.com/spf13/cobra"
)

// newSamplesCmd lists the built-in programs, or prints one by name.
func newSamplesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "samples [name]",
		Short: "List or print built-in sample programs",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			if len(args) == 1 {
				s, err := samples.Get(args[0])
				if err != nil {
					return err
				}
				fmt.Fprint(w, s.Source)
				return nil
			}
			for _, s := range samples.All() {
				fmt.Fprintf(w, "%s\n", s.Name)
				if s.Description != "" {
					fmt.Fprintf(w, "  %s\n", s.Description)
				}
			}
			return nil
		},
	}
}
