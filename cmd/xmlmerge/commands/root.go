package commands

import (
	"github.com/spf13/cobra"
)

// Execute runs the xmlmerge command line with os.Args.
func Execute() error {
	return NewRootCommand().Execute()
}

// NewRootCommand builds the xmlmerge command tree. The root command merges
// two files; keys, mcp and version are subcommands.
func NewRootCommand() *cobra.Command {
	flags := &MergeFlags{}
	root := &cobra.Command{
		Use:   "xmlmerge <file1> <file2> [property...]",
		Short: "Merge the records of two XML documents",
		Long: `Merge the records of two XML documents on match properties.

Records are the element children of each document's root. Records whose
property values (the key) are equal in both documents are merged into one:
attributes are united with the second file winning on conflicts, and
children are concatenated. All other records are copied through unchanged.

Properties default to "id". A property is an attribute name, "@name" for
attributes only, or a child path such as "meta/code" or "meta/@lang".`,
		Example: `  xmlmerge a.xml b.xml
  xmlmerge a.xml b.xml sku region -o merged.xml
  xmlmerge --strategy accept-left a.xml b.xml -o -
  xmlmerge --config merge.yaml a.xml b.xml`,
		Args:          cobra.MinimumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMerge(cmd, args, flags)
		},
	}
	flags.register(root)

	root.AddCommand(newKeysCommand(), newMCPCommand(), newVersionCommand())
	return root
}
