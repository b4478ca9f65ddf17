package mcpserver

import (
	"context"
	"fmt"
	"strings"

	"github.com/erraggy/xmlmerge/merger"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type keysInput struct {
	Doc         xmlInput `json:"doc"                    jsonschema:"The XML document to inspect"`
	Properties  []string `json:"properties,omitempty"   jsonschema:"Match properties forming the record key (default: id)"`
	IgnoreCase  bool     `json:"ignore_case,omitempty"  jsonschema:"Fold key values to lower case as merge would compare them"`
	TrimSpace   bool     `json:"trim_space,omitempty"   jsonschema:"Trim whitespace around key values"`
	MissingOnly bool     `json:"missing_only,omitempty" jsonschema:"Only list records missing a property"`
	Offset      int      `json:"offset,omitempty"       jsonschema:"Skip the first N results (for pagination)"`
	Limit       int      `json:"limit,omitempty"        jsonschema:"Maximum number of results to return"`
}

type keysOutput struct {
	Total     int                `json:"total"`
	Keyed     int                `json:"keyed"`
	Missing   int                `json:"missing"`
	Duplicate int                `json:"duplicate"`
	Returned  int                `json:"returned"`
	Records   []merger.RecordKey `json:"records,omitempty"`
	Summary   string             `json:"summary"`
}

func handleKeys(ctx context.Context, _ *mcp.CallToolRequest, input keysInput) (*mcp.CallToolResult, keysOutput, error) {
	if input.Properties == nil {
		input.Properties = cfg.Properties
	}

	doc, err := input.Doc.resolve(ctx, false)
	if err != nil {
		return errResult(fmt.Errorf("doc: %w", err)), keysOutput{}, nil
	}

	m := merger.New(merger.MergerConfig{
		Properties: input.Properties,
		IgnoreCase: input.IgnoreCase,
		TrimSpace:  input.TrimSpace,
	})
	keys, err := m.Keys(doc.Document)
	if err != nil {
		return errResult(err), keysOutput{}, nil
	}

	output := keysOutput{Total: len(keys)}
	seen := make(map[string]bool, len(keys))
	filtered := makeSlice[merger.RecordKey](len(keys))
	for _, k := range keys {
		if k.Missing != nil {
			output.Missing++
		} else {
			output.Keyed++
			id := strings.Join(k.Key, "\x00")
			if seen[id] {
				output.Duplicate++
			}
			seen[id] = true
		}
		if input.MissingOnly && k.Missing == nil {
			continue
		}
		filtered = append(filtered, k)
	}

	output.Records = paginate(filtered, input.Offset, input.Limit)
	output.Returned = len(output.Records)
	output.Summary = fmt.Sprintf("%s: %d keyed, %d missing a property, %d duplicate.",
		formatCount(output.Total, "record"), output.Keyed, output.Missing, output.Duplicate)

	return nil, output, nil
}
