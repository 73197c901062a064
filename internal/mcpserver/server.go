// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes the vault's hierarchy queries via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/vaultgen/internal/apperr"
	"github.com/starford/vaultgen/internal/generator"
	"github.com/starford/vaultgen/internal/vaultservice"
)

const indexFormatURI = "vault://index-format"

// Server wraps the MCP server with vault tools.
type Server struct {
	mcp    *server.MCPServer
	svc    *vaultservice.Service
	notify func(trigger string, rep *generator.Report, err error)
}

// New creates a new MCP server with all vault tools registered. notify, if
// non-nil, is told about runs started through the regenerate tool.
func New(svc *vaultservice.Service, notify func(trigger string, rep *generator.Report, err error)) *Server {
	s := &Server{svc: svc, notify: notify}

	s.mcp = server.NewMCPServer(
		"vaultgen",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("get_entry",
		mcp.WithDescription("Read one knowledge entry with its relations, children and whether it is connected to the root."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Entry identifier")),
	), s.getEntry)

	s.mcp.AddTool(mcp.NewTool("list_children",
		mcp.WithDescription("List the entries whose up list contains the given identifier, in ascending order."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Parent identifier")),
	), s.listChildren)

	s.mcp.AddTool(mcp.NewTool("get_outline",
		mcp.WithDescription("Render the hierarchy beneath an entry as a nested Markdown list. "+
			"Cycles end the branch; bounded outlines stop at the index callout depth."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Identifier at the top of the outline")),
		mcp.WithBoolean("bounded", mcp.Description("Limit to the index callout depth")),
	), s.getOutline)

	s.mcp.AddTool(mcp.NewTool("find_orphans",
		mcp.WithDescription("List the entries that do not trace back to the root through their up lists."),
	), s.findOrphans)

	s.mcp.AddTool(mcp.NewTool("read_document",
		mcp.WithDescription("Read a generated vault document, e.g. Index.md or Commands/<id>.md."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Vault-relative path ending in .md")),
	), s.readDocument)

	s.mcp.AddTool(mcp.NewTool("regenerate",
		mcp.WithDescription("Regenerate entry documents and the index from the relation store. "+
			"See "+indexFormatURI+" for the layout of the index."),
		mcp.WithBoolean("commands_only", mcp.Description("Only write entry documents")),
		mcp.WithBoolean("index_only", mcp.Description("Only write the index")),
	), s.regenerate)

	s.mcp.AddResource(
		mcp.NewResource(indexFormatURI, "Index Format",
			mcp.WithResourceDescription("Layout of the generated index document."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readIndexFormatResource,
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

func toolError(err error) *mcp.CallToolResult {
	if errors.Is(err, apperr.ErrNotFound) {
		return mcp.NewToolResultError("not found")
	}
	return mcp.NewToolResultError(err.Error())
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) getEntry(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	entry, err := s.svc.GetEntry(ctx, id)
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(entry)
}

func (s *Server) listChildren(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	kids, err := s.svc.Children(ctx, id)
	if err != nil {
		return toolError(err), nil
	}
	if len(kids) == 0 {
		return mcp.NewToolResultText("no children found"), nil
	}
	return mcp.NewToolResultText(strings.Join(kids, "\n")), nil
}

func (s *Server) getOutline(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	md, err := s.svc.OutlineMarkdown(ctx, id, req.GetBool("bounded", false))
	if err != nil {
		return toolError(err), nil
	}
	return mcp.NewToolResultText(md), nil
}

func (s *Server) findOrphans(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	orphans, err := s.svc.Orphans(ctx)
	if err != nil {
		return toolError(err), nil
	}
	if len(orphans) == 0 {
		return mcp.NewToolResultText("no orphans found"), nil
	}
	return mcp.NewToolResultText(strings.Join(orphans, "\n")), nil
}

func (s *Server) readDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	doc, err := s.svc.GetDocument(ctx, path)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("not found: %s", path)), nil
		}
		return toolError(err), nil
	}
	return mcp.NewToolResultText(doc.Content), nil
}

func (s *Server) regenerate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	targets, err := generator.SelectTargets(req.GetBool("commands_only", false), req.GetBool("index_only", false))
	if err != nil {
		return toolError(err), nil
	}
	rep, err := s.svc.Regenerate(ctx, targets)
	if s.notify != nil && !errors.Is(err, apperr.ErrGenerationRunning) {
		s.notify("mcp", rep, err)
	}
	if err != nil {
		return toolError(err), nil
	}
	return jsonResult(rep)
}

func (s *Server) readIndexFormatResource(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      indexFormatURI,
			MIMEType: "text/markdown",
			Text:     IndexFormat,
		},
	}, nil
}
