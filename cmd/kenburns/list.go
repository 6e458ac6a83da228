package main

import (
	"fmt"

	"github.com/ivlev/kenburns/internal/effects"
	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "list [easings|transitions]",
		Short:     "List the available easings or transitions",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"easings", "transitions"},
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			switch args[0] {
			case "easings":
				for _, e := range effects.Easings() {
					fmt.Fprintln(w, e)
				}
			case "transitions":
				for _, t := range effects.Transitions() {
					fmt.Fprintln(w, t)
				}
			default:
				return fmt.Errorf("unknown list %q, expected easings or transitions", args[0])
			}
			return nil
		},
	}
}
