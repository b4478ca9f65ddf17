package mcpserver

import (
	"context"
	"fmt"
	"strconv"

	"github.com/erraggy/xmlmerge/document"
	"github.com/erraggy/xmlmerge/internal/pathutil"
	"github.com/erraggy/xmlmerge/merger"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type mergeInput struct {
	Left               xmlInput `json:"left"                          jsonschema:"First XML document; its record order and root are kept"`
	Right              xmlInput `json:"right"                         jsonschema:"Second XML document"`
	Properties         []string `json:"properties,omitempty"          jsonschema:"Match properties forming the record key (default: id)"`
	Strategy           string   `json:"strategy,omitempty"            jsonschema:"Which side wins conflicting attributes: accept-left or accept-right"`
	Order              string   `json:"order,omitempty"               jsonschema:"Output order: document or grouped"`
	MergeChildren      *bool    `json:"merge_children,omitempty"      jsonschema:"Concatenate children of matched records (default: true); false keeps only the winning side's children"`
	IgnoreCase         bool     `json:"ignore_case,omitempty"         jsonschema:"Compare key values case-insensitively"`
	TrimSpace          bool     `json:"trim_space,omitempty"          jsonschema:"Trim whitespace around key values"`
	PreserveWhitespace bool     `json:"preserve_whitespace,omitempty" jsonschema:"Keep whitespace-only text between elements instead of re-indenting"`
	Collisions         bool     `json:"collisions,omitempty"          jsonschema:"Include each conflicting attribute in the result"`
	Output             string   `json:"output,omitempty"              jsonschema:"File path to write the merged document. If omitted the result is returned inline."`
}

type mergeWarning struct {
	Category string `json:"category"`
	Location string `json:"location,omitempty"`
	Message  string `json:"message"`
}

type mergeCollision struct {
	Key        string `json:"key"`
	Attribute  string `json:"attribute"`
	LeftValue  string `json:"left_value"`
	RightValue string `json:"right_value"`
	Resolution string `json:"resolution"`
}

type mergeOutput struct {
	Stats          merger.Stats     `json:"stats"`
	CollisionCount int              `json:"collision_count"`
	Collisions     []mergeCollision `json:"collisions,omitempty"`
	WarningCount   int              `json:"warning_count"`
	Warnings       []mergeWarning   `json:"warnings,omitempty"`
	Fingerprint    string           `json:"fingerprint"`
	WrittenTo      string           `json:"written_to,omitempty"`
	Document       string           `json:"document,omitempty"`
	Summary        string           `json:"summary"`
}

func handleMerge(ctx context.Context, _ *mcp.CallToolRequest, input mergeInput) (*mcp.CallToolResult, mergeOutput, error) {
	// Apply config defaults.
	if input.Properties == nil {
		input.Properties = cfg.Properties
	}
	if input.Strategy == "" {
		input.Strategy = cfg.Strategy
	}
	if input.Order == "" {
		input.Order = cfg.Order
	}

	left, err := input.Left.resolve(ctx, input.PreserveWhitespace)
	if err != nil {
		return errResult(fmt.Errorf("left: %w", err)), mergeOutput{}, nil
	}
	right, err := input.Right.resolve(ctx, input.PreserveWhitespace)
	if err != nil {
		return errResult(fmt.Errorf("right: %w", err)), mergeOutput{}, nil
	}

	opts := []merger.Option{
		merger.WithDocuments(left.Document, right.Document),
		merger.WithProperties(input.Properties...),
		merger.WithIgnoreCase(input.IgnoreCase),
		merger.WithTrimSpace(input.TrimSpace),
		merger.WithCollisionReport(input.Collisions),
	}
	if input.Strategy != "" {
		opts = append(opts, merger.WithStrategy(merger.MergeStrategy(input.Strategy)))
	}
	if input.Order != "" {
		opts = append(opts, merger.WithOrder(merger.OrderMode(input.Order)))
	}
	if input.MergeChildren != nil {
		opts = append(opts, merger.WithMergeChildren(*input.MergeChildren))
	}

	result, err := merger.MergeWithOptions(opts...)
	if err != nil {
		return errResult(err), mergeOutput{}, nil
	}

	output := mergeOutput{
		Stats:          result.Stats,
		CollisionCount: result.CollisionCount,
		WarningCount:   len(result.StructuredWarnings),
	}

	output.Warnings = makeSlice[mergeWarning](len(result.StructuredWarnings))
	for _, w := range result.StructuredWarnings {
		output.Warnings = append(output.Warnings, mergeWarning{
			Category: string(w.Category),
			Location: w.Location(),
			Message:  w.Message,
		})
	}
	if result.CollisionDetails != nil {
		output.Collisions = makeSlice[mergeCollision](len(result.CollisionDetails.Events))
		for _, e := range result.CollisionDetails.Events {
			output.Collisions = append(output.Collisions, mergeCollision{
				Key:        e.Key,
				Attribute:  e.Attribute,
				LeftValue:  e.LeftValue,
				RightValue: e.RightValue,
				Resolution: e.Resolution,
			})
		}
	}

	fp, err := result.Fingerprint()
	if err != nil {
		return errResult(err), mergeOutput{}, nil
	}
	output.Fingerprint = fmt.Sprintf("%016x", fp)
	output.Summary = buildMergeSummary(output)

	if input.Output != "" {
		cleanPath, pathErr := pathutil.SanitizeOutputPath(input.Output)
		if pathErr != nil {
			return errResult(fmt.Errorf("invalid output path: %w", pathErr)), mergeOutput{}, nil
		}
		if isInput(cleanPath, input.Left, input.Right) {
			return errResult(fmt.Errorf("output path must not overwrite an input file")), mergeOutput{}, nil
		}
		if err := merger.WriteResult(result, cleanPath); err != nil {
			return errResult(err), mergeOutput{}, nil
		}
		output.WrittenTo = cleanPath
	} else {
		data, err := document.Marshal(result.Document)
		if err != nil {
			return errResult(err), mergeOutput{}, nil
		}
		output.Document = string(data)
	}

	return nil, output, nil
}

func isInput(path string, inputs ...xmlInput) bool {
	for _, in := range inputs {
		if in.File != "" && pathutil.SameFile(path, in.File) {
			return true
		}
	}
	return false
}

func buildMergeSummary(output mergeOutput) string {
	s := output.Stats
	summary := "Merged " + formatCount(s.LeftRecords, "record") + " with " + formatCount(s.RightRecords, "record")
	summary += " into " + formatCount(s.Output, "record") + " (" + strconv.Itoa(s.Matched) + " matched)."

	if output.CollisionCount > 0 {
		summary += " " + formatCount(output.CollisionCount, "attribute conflict") + " resolved."
	}
	if output.WarningCount > 0 {
		summary += " " + formatCount(output.WarningCount, "warning") + "."
	}

	return summary
}
