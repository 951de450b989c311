package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"sourceScope/internal/explorer"
	"sourceScope/internal/network"
)

func runNetworks(cmd *cobra.Command, _ []string) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tCHAIN ID\tAPI")
	for _, n := range network.Supported() {
		fmt.Fprintf(w, "%s\t%d\t%s\n", n.Name, n.ChainID, n.APIBaseURL(explorer.DefaultDomain))
	}
	return w.Flush()
}
