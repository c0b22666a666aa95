package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"saucenao/databases"
)

var databasesCmd = &cobra.Command{
	Use:   "databases",
	Short: "List the databases a search can be restricted to",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "CODE\tNAME")
		for _, db := range databases.Catalogue() {
			fmt.Fprintf(w, "%d\t%s\n", db.Code, db.Name)
		}
		return w.Flush()
	},
}
