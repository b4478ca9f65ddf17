package commands

import (
	"github.com/erraggy/xmlmerge"
	"github.com/erraggy/xmlmerge/internal/cliutil"
	"github.com/spf13/cobra"
)

func newVersionCommand() *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			if verbose {
				cliutil.Writef(cmd.OutOrStdout(), "%s\n", xmlmerge.BuildInfo())
				return
			}
			cliutil.Writef(cmd.OutOrStdout(), "xmlmerge version %s (commit %s, built %s)\n",
				xmlmerge.Version(), xmlmerge.Commit(), xmlmerge.BuildTime())
		},
	}
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "print full build information")
	return cmd
}
