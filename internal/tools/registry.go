package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/xeipuuv/gojsonschema"
	"go.uber.org/zap"

	"github.com/Agents-Store/openclaw-deepsearch/internal/research"
)

// Registry holds the eight research tools: their declared parameter schemas
// (the external contract consumed by the hosting system) and the handlers
// that bridge validated arguments into the research service.
type Registry struct {
	service *research.Service
	log     *zap.Logger
	entries []entry
}

type entry struct {
	tool    mcp.Tool
	schema  *gojsonschema.Schema
	handler func(ctx context.Context, args map[string]any) string
}

func NewRegistry(service *research.Service, log *zap.Logger) (*Registry, error) {
	r := &Registry{service: service, log: log}

	defs := []struct {
		name        string
		description string
		schema      map[string]any
		handler     func(ctx context.Context, args map[string]any) string
	}{
		{
			name:        "deep_search",
			description: "Search the web via Exa, Firecrawl and Perplexity in parallel, with deduplicated, cross-ranked results.",
			schema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"query":          map[string]any{"type": "string", "description": "Search query"},
					"numResults":     map[string]any{"type": "number", "description": "Results per provider (max 50)"},
					"domains":        map[string]any{"type": "array", "items": map[string]any{"type": "string"}, "description": "Restrict results to these domains"},
					"excludeDomains": map[string]any{"type": "array", "items": map[string]any{"type": "string"}, "description": "Exclude these domains"},
					"category":       map[string]any{"type": "string", "description": "Content category hint, e.g. 'news' or 'research paper'"},
				},
				"required": []string{"query"},
			},
			handler: r.handleDeepSearch,
		},
		{
			name:        "deep_research",
			description: "Multi-round research on a topic: a broad pass, per-focus-area passes and query variations at higher depths, with narrative synthesis.",
			schema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"topic":      map[string]any{"type": "string", "description": "Research topic"},
					"depth":      map[string]any{"type": "string", "enum": []string{"standard", "deep", "exhaustive"}, "description": "How many research rounds to run"},
					"focusAreas": map[string]any{"type": "array", "items": map[string]any{"type": "string"}, "description": "Aspects to research individually"},
					"language":   map[string]any{"type": "string", "description": "Answer language code"},
				},
				"required": []string{"topic"},
			},
			handler: r.handleDeepResearch,
		},
		{
			name:        "mass_summary",
			description: "Collect 100+ sources on a topic via query variations across all providers and synthesize a narrative summary.",
			schema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"topic":      map[string]any{"type": "string", "description": "Topic to collect sources for"},
					"minSources": map[string]any{"type": "number", "description": "Minimum source count (default 100)"},
					"maxSources": map[string]any{"type": "number", "description": "Maximum source count (default 150)"},
					"domains":    map[string]any{"type": "array", "items": map[string]any{"type": "string"}, "description": "Restrict sources to these domains"},
					"dateFrom":   map[string]any{"type": "string", "description": "Earliest publication date, YYYY-MM-DD"},
					"dateTo":     map[string]any{"type": "string", "description": "Latest publication date, YYYY-MM-DD"},
				},
				"required": []string{"topic"},
			},
			handler: r.handleMassSummary,
		},
		{
			name:        "date_search",
			description: "Search restricted to a publication date window.",
			schema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"query":      map[string]any{"type": "string", "description": "Search query"},
					"dateFrom":   map[string]any{"type": "string", "description": "Earliest publication date, YYYY-MM-DD"},
					"dateTo":     map[string]any{"type": "string", "description": "Latest publication date, YYYY-MM-DD"},
					"domains":    map[string]any{"type": "array", "items": map[string]any{"type": "string"}, "description": "Restrict results to these domains"},
					"numResults": map[string]any{"type": "number", "description": "Results per provider (max 50)"},
				},
				"required": []string{"query", "dateFrom", "dateTo"},
			},
			handler: r.handleDateSearch,
		},
		{
			name:        "compare_offers",
			description: "Find offers and compare them in a table along the given criteria, with structured extraction and a recommendation.",
			schema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"query":     map[string]any{"type": "string", "description": "What to compare, e.g. 'cloud GPU rental'"},
					"criteria":  map[string]any{"type": "array", "items": map[string]any{"type": "string"}, "description": "Comparison columns, e.g. price, warranty"},
					"numOffers": map[string]any{"type": "number", "description": "How many offers to gather (default 30)"},
					"domains":   map[string]any{"type": "array", "items": map[string]any{"type": "string"}, "description": "Restrict to these domains"},
				},
				"required": []string{"query"},
			},
			handler: r.handleCompareOffers,
		},
		{
			name:        "scrape_and_extract",
			description: "Fetch content from up to 20 URLs, optionally run structured extraction, and add a holistic analysis of the set.",
			schema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"urls":          map[string]any{"type": "array", "items": map[string]any{"type": "string"}, "maxItems": 20, "description": "URLs to analyze (max 20)"},
					"extractPrompt": map[string]any{"type": "string", "description": "What to extract from each page"},
					"extractSchema": map[string]any{"type": "object", "description": "JSON schema for structured extraction"},
					"formats":       map[string]any{"type": "array", "items": map[string]any{"type": "string"}, "description": "Scrape formats, e.g. markdown, html, links"},
				},
				"required": []string{"urls"},
			},
			handler: r.handleScrape,
		},
		{
			name:        "site_search",
			description: "Search within specific sites, optionally mapping each site's URL space.",
			schema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"query":      map[string]any{"type": "string", "description": "Search query"},
					"domains":    map[string]any{"type": "array", "items": map[string]any{"type": "string"}, "description": "Sites to search within"},
					"numResults": map[string]any{"type": "number", "description": "Results per provider (max 50)"},
					"mapSites":   map[string]any{"type": "boolean", "description": "Also list URLs discovered on each site"},
				},
				"required": []string{"query", "domains"},
			},
			handler: r.handleSiteSearch,
		},
		{
			name:        "find_similar",
			description: "Find pages similar to a given URL.",
			schema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"url":            map[string]any{"type": "string", "description": "Reference URL"},
					"numResults":     map[string]any{"type": "number", "description": "Results per provider (max 50)"},
					"excludeDomains": map[string]any{"type": "array", "items": map[string]any{"type": "string"}, "description": "Exclude these domains"},
				},
				"required": []string{"url"},
			},
			handler: r.handleFindSimilar,
		},
	}

	for _, def := range defs {
		compiled, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(def.schema))
		if err != nil {
			return nil, fmt.Errorf("compile %s schema: %w", def.name, err)
		}
		r.entries = append(r.entries, entry{
			tool:    mcp.NewToolWithRawSchema(def.name, def.description, jsonSchema(def.schema)),
			schema:  compiled,
			handler: def.handler,
		})
	}

	return r, nil
}

// Tools returns the declared tool surface, mostly for tests.
func (r *Registry) Tools() []mcp.Tool {
	tools := make([]mcp.Tool, len(r.entries))
	for i, e := range r.entries {
		tools[i] = e.tool
	}
	return tools
}

// Install registers every tool with the MCP server.
func (r *Registry) Install(s *server.MCPServer) {
	for _, e := range r.entries {
		e := e
		s.AddTool(e.tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return r.dispatch(ctx, e, req)
		})
	}
}

// dispatch validates arguments against the declared schema, then hands them
// to the workflow. Workflow output is always a text report; validation
// failure is the only condition that returns a tool error.
func (r *Registry) dispatch(ctx context.Context, e entry, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.Params.Arguments
	if args == nil {
		args = map[string]any{}
	}

	if msg := validate(e.schema, args); msg != "" {
		return mcp.NewToolResultError(fmt.Sprintf("invalid arguments for %s: %s", e.tool.Name, msg)), nil
	}

	log := r.log.With(zap.String("tool", e.tool.Name), zap.String("request_id", uuid.NewString()))
	log.Info("tool invoked")

	return mcp.NewToolResultText(e.handler(ctx, args)), nil
}

func validate(schema *gojsonschema.Schema, args map[string]any) string {
	result, err := schema.Validate(gojsonschema.NewGoLoader(args))
	if err != nil {
		return err.Error()
	}
	if result.Valid() {
		return ""
	}
	msgs := make([]string, 0, len(result.Errors()))
	for _, resultErr := range result.Errors() {
		msgs = append(msgs, resultErr.String())
	}
	return strings.Join(msgs, "; ")
}
