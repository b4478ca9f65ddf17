// Package mcpserver implements an MCP (Model Context Protocol) server
// that exposes xmlmerge capabilities as MCP tools over stdio.
package mcpserver

import (
	"context"
	"regexp"
	"strconv"

	"github.com/erraggy/xmlmerge"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `xmlmerge MCP server: merges the records of two XML documents on match properties.

Records are the element children of each document's root. Records whose key (the values of the match properties) appears in both documents are merged: attributes are unioned, the second document wins conflicts by default, and children are concatenated. Other records pass through unchanged.

Property syntax: "id" (attribute, or text of a child element), "@sku" (attribute only), "meta/code" (child text), "meta/@lang" (child attribute).

Configuration: defaults are configurable via XMLMERGE_* environment variables set in your MCP client config.
- XMLMERGE_PROPERTIES (default: id), comma-separated match properties
- XMLMERGE_STRATEGY (default: accept-right), accept-left or accept-right
- XMLMERGE_ORDER (default: document), document or grouped
- XMLMERGE_KEYS_LIMIT (default: 100), default result limit for the keys tool
- XMLMERGE_CACHE_ENABLED (default: true), disable document caching entirely

Caching: parsed documents are cached per session. File entries use path+mtime as key. Inline content is keyed by a hash of the content.`

// Run starts the MCP server over stdio and blocks until the client disconnects
// or the context is cancelled.
func Run(ctx context.Context) error {
	if cfg.CacheEnabled {
		docCache.startSweeper(ctx, cfg.CacheSweepInterval)
	}

	server := mcp.NewServer(
		&mcp.Implementation{Name: "xmlmerge", Version: xmlmerge.Version()},
		&mcp.ServerOptions{
			Instructions: serverInstructions,
		},
	)
	registerAllTools(server)
	return server.Run(ctx, &mcp.StdioTransport{})
}

func registerAllTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "merge",
		Description: "Merge the records of two XML documents (left and right) on match properties. Records with the same key are merged into one: attributes are unioned with the winning side chosen by strategy (accept-right by default), children are concatenated unless merge_children=false. Unmatched records and records missing a property pass through unchanged. Returns record counts, warnings, and the merged document inline unless output is set. Defaults are configurable via XMLMERGE_PROPERTIES, XMLMERGE_STRATEGY and XMLMERGE_ORDER env vars.",
	}, handleMerge)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "keys",
		Description: "List the match key of every record in an XML document, or the properties each record is missing. Use this before merge to check which records will match. Use offset/limit to paginate; default limit is configurable via XMLMERGE_KEYS_LIMIT.",
	}, handleKeys)
}

// paginate applies offset/limit pagination to a slice, returning the
// requested page. A non-positive limit defaults to cfg.KeysLimit.
func paginate[T any](items []T, offset, limit int) []T {
	if limit <= 0 {
		limit = cfg.KeysLimit
	}
	if limit > cfg.MaxLimit {
		limit = cfg.MaxLimit
	}
	if offset < 0 || offset >= len(items) {
		return nil
	}
	end := offset + limit
	if end < offset || end > len(items) { // overflow or beyond slice
		end = len(items)
	}
	return items[offset:end]
}

// makeSlice returns nil when n is 0 (preserving omitempty JSON semantics),
// otherwise returns make([]T, 0, n) for pre-allocated appending.
func makeSlice[T any](n int) []T {
	if n == 0 {
		return nil
	}
	return make([]T, 0, n)
}

// sanitizeError strips absolute filesystem paths from error messages
// to prevent leaking internal directory structure to MCP clients.
var pathPattern = regexp.MustCompile(`(?:/(?:home|tmp|var|Users|etc|opt|usr|private|root|mnt|srv|run|snap|nix)[a-zA-Z0-9._/-]*)`)

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return pathPattern.ReplaceAllString(err.Error(), "<path>")
}

// errResult creates an MCP error result from an error.
func errResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: sanitizeError(err)}},
	}
}

func formatCount(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return strconv.Itoa(n) + " " + noun + "s"
}
