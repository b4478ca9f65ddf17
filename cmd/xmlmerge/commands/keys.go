package commands

import (
	"fmt"
	"strings"

	"github.com/erraggy/xmlmerge/document"
	"github.com/erraggy/xmlmerge/internal/cliutil"
	"github.com/erraggy/xmlmerge/merger"
	"github.com/spf13/cobra"
)

// KeysFlags contains flags for the keys command
type KeysFlags struct {
	IgnoreCase  bool
	TrimSpace   bool
	MissingOnly bool
	Format      string
}

type keysReport struct {
	File    string             `json:"file" yaml:"file"`
	Total   int                `json:"total" yaml:"total"`
	Missing int                `json:"missing" yaml:"missing"`
	Records []merger.RecordKey `json:"records" yaml:"records"`
}

func newKeysCommand() *cobra.Command {
	flags := &KeysFlags{}
	cmd := &cobra.Command{
		Use:   "keys <file> [property...]",
		Short: "List the match key of every record in a document",
		Long: `List the match key of every record in a document, or the properties a
record is missing. Records missing a property never match during a merge.`,
		Example: `  xmlmerge keys catalog.xml
  xmlmerge keys --missing-only catalog.xml sku region
  xmlmerge keys --format json catalog.xml`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runKeys(cmd, args, flags)
		},
	}
	fs := cmd.Flags()
	fs.BoolVar(&flags.IgnoreCase, "ignore-case", false, "fold key values as a case-insensitive merge would")
	fs.BoolVar(&flags.TrimSpace, "trim-space", false, "trim whitespace around key values")
	fs.BoolVar(&flags.MissingOnly, "missing-only", false, "only list records missing a property")
	fs.StringVar(&flags.Format, "format", FormatText, "output format (text, json, yaml)")
	return cmd
}

func runKeys(cmd *cobra.Command, args []string, flags *KeysFlags) error {
	if err := ValidateOutputFormat(flags.Format); err != nil {
		return err
	}

	properties := []string{merger.DefaultProperty}
	if len(args) > 1 {
		properties = args[1:]
	}

	res, err := document.ParseWithOptions(
		document.WithFilePath(args[0]),
		document.WithContext(cmd.Context()),
	)
	if err != nil {
		return err
	}

	m := merger.New(merger.MergerConfig{
		Properties: properties,
		IgnoreCase: flags.IgnoreCase,
		TrimSpace:  flags.TrimSpace,
	})
	keys, err := m.Keys(res.Document)
	if err != nil {
		return err
	}

	report := keysReport{File: args[0], Total: len(keys), Records: make([]merger.RecordKey, 0, len(keys))}
	for _, k := range keys {
		if k.Missing != nil {
			report.Missing++
		} else if flags.MissingOnly {
			continue
		}
		report.Records = append(report.Records, k)
	}

	out := cmd.OutOrStdout()
	if flags.Format != FormatText {
		return OutputStructured(out, report, flags.Format)
	}

	for _, k := range report.Records {
		cliutil.Writef(out, "%s\n", formatRecordKey(k))
	}
	cliutil.Writef(cmd.ErrOrStderr(), "%s, %d missing a property\n", cliutil.Plural(report.Total, "record"), report.Missing)
	return nil
}

func formatRecordKey(k merger.RecordKey) string {
	loc := fmt.Sprintf("#%d", k.Index)
	if k.Line > 0 {
		loc = fmt.Sprintf("line %d", k.Line)
	}
	if k.Missing != nil {
		return fmt.Sprintf("%s <%s> missing %s", loc, k.Tag, strings.Join(k.Missing, ", "))
	}
	return fmt.Sprintf("%s <%s> [%s]", loc, k.Tag, strings.Join(k.Key, ", "))
}
