package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mahdiidarabi/vdaf-rejection-search/pkg/rejsearch"
)

func newFieldsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fields",
		Short: "List the built-in fields",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tBYTES\tEXPECTED CANDIDATES\tMODULUS")
			for _, f := range rejsearch.Fields() {
				fmt.Fprintf(w, "%s\t%d\t%.3g\t%s\n", f.Name(), f.EncodedSize(), rejsearch.ExpectedCandidates(f), f.Modulus().Text(10))
			}
			return w.Flush()
		},
	}
}
