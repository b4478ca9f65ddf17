package commands

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/erraggy/xmlmerge"
	"github.com/erraggy/xmlmerge/document"
	"github.com/erraggy/xmlmerge/internal/cliutil"
	"github.com/erraggy/xmlmerge/internal/config"
	"github.com/erraggy/xmlmerge/merger"
	"github.com/spf13/cobra"
)

// MergeFlags contains flags for the merge (root) command
type MergeFlags struct {
	Output             string
	Strategy           string
	Order              string
	NoMergeChildren    bool
	IgnoreCase         bool
	TrimSpace          bool
	PreserveWhitespace bool
	CollisionReport    bool
	Report             string
	ConfigPath         string
	Quiet              bool
	Verbose            bool
}

func (f *MergeFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVarP(&f.Output, "output", "o", DefaultOutput, "output file path, or - for stdout")
	fs.StringVar(&f.Strategy, "strategy", string(merger.StrategyAcceptRight), "which side wins conflicting attributes (accept-left, accept-right)")
	fs.StringVar(&f.Order, "order", string(merger.OrderDocument), "output record order (document, grouped)")
	fs.BoolVar(&f.NoMergeChildren, "no-merge-children", false, "keep only the winning side's children of matched records")
	fs.BoolVar(&f.IgnoreCase, "ignore-case", false, "compare key values case-insensitively")
	fs.BoolVar(&f.TrimSpace, "trim-space", false, "trim whitespace around key values")
	fs.BoolVar(&f.PreserveWhitespace, "preserve-whitespace", false, "keep whitespace-only text between elements")
	fs.BoolVar(&f.CollisionReport, "collision-report", false, "report every conflicting attribute")
	fs.StringVar(&f.Report, "report", FormatText, "summary format (text, json, yaml)")
	fs.StringVar(&f.ConfigPath, "config", "", "YAML or TOML config file; command-line values override it")
	fs.BoolVarP(&f.Quiet, "quiet", "q", false, "quiet mode: suppress diagnostic messages")
	fs.BoolVarP(&f.Verbose, "verbose", "v", false, "debug logging")
}

// mergeReport is the structured summary written by --report json|yaml.
type mergeReport struct {
	Version        string                  `json:"version" yaml:"version"`
	Inputs         []string                `json:"inputs" yaml:"inputs"`
	Output         string                  `json:"output" yaml:"output"`
	Properties     []string                `json:"properties" yaml:"properties"`
	Strategy       merger.MergeStrategy    `json:"strategy" yaml:"strategy"`
	Order          merger.OrderMode        `json:"order" yaml:"order"`
	Stats          merger.Stats            `json:"stats" yaml:"stats"`
	CollisionCount int                     `json:"collision_count" yaml:"collision_count"`
	Collisions     *merger.CollisionReport `json:"collisions,omitempty" yaml:"collisions,omitempty"`
	Warnings       merger.MergeWarnings    `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	Fingerprint    string                  `json:"fingerprint" yaml:"fingerprint"`
	Duration       string                  `json:"duration" yaml:"duration"`
}

// resolveConfig layers the defaults, the config file and the command line.
func resolveConfig(cmd *cobra.Command, args []string, flags *MergeFlags) (merger.MergerConfig, string, error) {
	cfg := merger.DefaultConfig()
	output := DefaultOutput

	if flags.ConfigPath != "" {
		file, err := config.Load(flags.ConfigPath)
		if err != nil {
			return cfg, "", err
		}
		file.Apply(&cfg)
		if file.Output != nil && *file.Output != "" {
			output = *file.Output
		}
	}

	if len(args) > 2 {
		cfg.Properties = args[2:]
	}

	fs := cmd.Flags()
	if fs.Changed("output") {
		output = flags.Output
	}
	if fs.Changed("strategy") {
		cfg.Strategy = merger.MergeStrategy(flags.Strategy)
	}
	if fs.Changed("order") {
		cfg.Order = merger.OrderMode(flags.Order)
	}
	if fs.Changed("no-merge-children") {
		cfg.MergeChildren = !flags.NoMergeChildren
	}
	if fs.Changed("ignore-case") {
		cfg.IgnoreCase = flags.IgnoreCase
	}
	if fs.Changed("trim-space") {
		cfg.TrimSpace = flags.TrimSpace
	}
	if fs.Changed("preserve-whitespace") {
		cfg.PreserveWhitespace = flags.PreserveWhitespace
	}
	if fs.Changed("collision-report") {
		cfg.CollisionReport = flags.CollisionReport
	}
	return cfg, output, nil
}

func runMerge(cmd *cobra.Command, args []string, flags *MergeFlags) error {
	stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()
	merger.SetLogger(newLogger(stderr, flags.Verbose, flags.Quiet))
	defer merger.SetLogger(nil)

	if err := ValidateOutputFormat(flags.Report); err != nil {
		return err
	}
	cfg, output, err := resolveConfig(cmd, args, flags)
	if err != nil {
		return err
	}

	inputs := args[:2]
	if output == "" {
		return fmt.Errorf("output path must not be empty")
	}
	if output != StdoutPath {
		diag := stderr
		if flags.Quiet {
			diag = io.Discard
		}
		if err := ValidateOutputPath(output, inputs, diag); err != nil {
			return err
		}
	}

	startTime := time.Now()
	result, err := merger.MergeWithOptions(
		merger.WithFilePaths(inputs...),
		merger.WithContext(cmd.Context()),
		merger.WithConfig(cfg),
	)
	if err != nil {
		return err
	}
	totalTime := time.Since(startTime)

	if output == StdoutPath {
		if err := document.Encode(stdout, result.Document, document.DefaultIndent); err != nil {
			return fmt.Errorf("writing merged document to stdout: %w", err)
		}
	} else if err := merger.WriteResult(result, output); err != nil {
		return err
	}

	// With the document on stdout, reports go to stderr.
	reportOut := stdout
	if output == StdoutPath {
		reportOut = stderr
	}

	if flags.Report != FormatText {
		fp, err := result.Fingerprint()
		if err != nil {
			return err
		}
		return OutputStructured(reportOut, mergeReport{
			Version:        xmlmerge.Version(),
			Inputs:         inputs,
			Output:         output,
			Properties:     cfg.Properties,
			Strategy:       cfg.Strategy,
			Order:          cfg.Order,
			Stats:          result.Stats,
			CollisionCount: result.CollisionCount,
			Collisions:     result.CollisionDetails,
			Warnings:       result.StructuredWarnings,
			Fingerprint:    fmt.Sprintf("%016x", fp),
			Duration:       totalTime.String(),
		}, flags.Report)
	}

	if !flags.Quiet {
		printMergeSummary(stderr, inputs, output, cfg, result, totalTime)
	}
	return nil
}

func printMergeSummary(w io.Writer, inputs []string, output string, cfg merger.MergerConfig, result *merger.MergeResult, totalTime time.Duration) {
	s := result.Stats
	cliutil.Writef(w, "XML Record Merger\n")
	cliutil.Writef(w, "=================\n\n")
	cliutil.Writef(w, "xmlmerge version: %s\n", xmlmerge.Version())
	cliutil.Writef(w, "Inputs: %s\n", strings.Join(inputs, ", "))
	cliutil.Writef(w, "Properties: %s\n", strings.Join(cfg.Properties, ", "))
	if output == StdoutPath {
		cliutil.Writef(w, "Output: <stdout>\n")
	} else {
		cliutil.Writef(w, "Output: %s\n", output)
	}
	cliutil.Writef(w, "Records: %d + %d -> %d (%d matched)\n", s.LeftRecords, s.RightRecords, s.Output, s.Matched)
	cliutil.Writef(w, "Total Time: %v\n\n", totalTime)

	if result.CollisionCount > 0 {
		cliutil.Writef(w, "Attribute conflicts resolved: %d\n", result.CollisionCount)
	}
	if result.CollisionDetails != nil {
		cliutil.Writef(w, "%s\n", result.CollisionDetails.Summary())
	}
	if result.CollisionCount > 0 || result.CollisionDetails != nil {
		cliutil.Writef(w, "\n")
	}

	if len(result.StructuredWarnings) > 0 {
		cliutil.Writef(w, "%s\n\n", result.StructuredWarnings.Summary())
	}

	cliutil.Writef(w, "Merged %s successfully\n", cliutil.Plural(s.Output, "record"))
}
