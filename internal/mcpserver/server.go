// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes built examples for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/exampledeck/internal/apperr"
	"github.com/starford/exampledeck/internal/catalog"
	"github.com/starford/exampledeck/internal/example"
	"github.com/starford/exampledeck/internal/jsonfile"
)

// FormatResourceURI is the URI of the authoring format resource.
const FormatResourceURI = "exampledeck://example-format"

// Server wraps the MCP server with example tools.
type Server struct {
	mcp     *server.MCPServer
	catalog *catalog.Service
	parser  *example.Parser
}

// New creates a new MCP server with all example tools registered.
func New(svc *catalog.Service, parser *example.Parser) *Server {
	if parser == nil {
		parser = example.NewParser(nil)
	}
	s := &Server{catalog: svc, parser: parser}

	s.mcp = server.NewMCPServer(
		"exampledeck",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_examples",
		mcp.WithDescription("List built examples, optionally within one category."),
		mcp.WithString("category", mcp.Description("Optional category to list (empty for all)")),
	), s.listExamples)

	s.mcp.AddTool(mcp.NewTool("get_example",
		mcp.WithDescription("Read the full JSON record of a built example."),
		mcp.WithString("slug", mcp.Required(), mcp.Description("Example slug (e.g. basic-join)")),
	), s.getExample)

	s.mcp.AddTool(mcp.NewTool("search_examples",
		mcp.WithDescription("Full-text search through example titles, descriptions and code."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
	), s.searchExamples)

	s.mcp.AddTool(mcp.NewTool("get_example_format",
		mcp.WithDescription("Returns the Markdown authoring format for examples. "+
			"Call this before drafting a new example file."),
	), s.getExampleFormat)

	s.mcp.AddTool(mcp.NewTool("parse_example",
		mcp.WithDescription("Parse Markdown in the example format and return the record "+
			"the builder would publish, without writing anything."),
		mcp.WithString("content", mcp.Required(), mcp.Description("Markdown content following the example format contract")),
		mcp.WithString("slug", mcp.Description("Optional file slug; overrides the slug derived from the title")),
	), s.parseExample)

	// Resource: example format contract.
	s.mcp.AddResource(
		mcp.NewResource(FormatResourceURI, "Example Format Contract",
			mcp.WithResourceDescription("Markdown format that example source files must follow."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readExampleFormatResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func jsonResult(v any) *mcp.CallToolResult {
	out, err := jsonfile.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(err.Error())
	}
	return mcp.NewToolResultText(string(out))
}

func errorResult(err error) *mcp.CallToolResult {
	if errors.Is(err, apperr.ErrNotBuilt) {
		return mcp.NewToolResultError("examples have not been built yet; run `exampledeck build` first")
	}
	return mcp.NewToolResultError(err.Error())
}

func (s *Server) listExamples(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	category := ""
	if c, err := req.RequireString("category"); err == nil {
		category = c
	}
	items, err := s.catalog.List(ctx, category)
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(items), nil
}

func (s *Server) getExample(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	slug, err := req.RequireString("slug")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	rec, err := s.catalog.Get(ctx, slug)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("not found: %s", slug)), nil
		}
		return errorResult(err), nil
	}
	return jsonResult(rec), nil
}

func (s *Server) searchExamples(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	results, err := s.catalog.Search(ctx, query, 20)
	if err != nil {
		if errors.Is(err, apperr.ErrUnavailable) {
			return mcp.NewToolResultError("search index is disabled; set index.enabled in the config"), nil
		}
		return errorResult(err), nil
	}
	if len(results) == 0 {
		return mcp.NewToolResultText("no examples found"), nil
	}
	return jsonResult(results), nil
}

func (s *Server) getExampleFormat(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(ExampleFormatContract), nil
}

func (s *Server) parseExample(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	content, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	rec := s.parser.ParseFile([]byte(content))
	if rec == nil {
		return mcp.NewToolResultError("no well-formed example found: a section needs a level-2 title and a ### Code block"), nil
	}
	if slug, err := req.RequireString("slug"); err == nil {
		rec.Identifier, _ = example.ReconcileIdentifier(rec.Identifier, slug)
	}
	return jsonResult(rec), nil
}

func (s *Server) readExampleFormatResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      FormatResourceURI,
			MIMEType: "text/markdown",
			Text:     ExampleFormatContract,
		},
	}, nil
}
