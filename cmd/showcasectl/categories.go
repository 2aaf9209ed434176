package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/phambaophuc/showcase/internal/models"
	"github.com/spf13/cobra"
)

func newCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List the accepted business types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, c := range models.Categories() {
				fmt.Fprintf(w, "%s\t%s\n", c.Value, c.Label)
			}
			return w.Flush()
		},
	}
}
