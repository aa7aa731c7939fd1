package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve rebind, attribute resolution and mixed-property queries over MCP (stdio)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return server.ServeStdio(newMCPServer(configPath))
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func newMCPServer(cfgPath string) *server.MCPServer {
	s := server.NewMCPServer("chartbind", "0.1.0", server.WithToolCapabilities(false))
	h := &toolHandler{cfgPath: cfgPath}

	s.AddTool(mcp.NewTool("rebind",
		mcp.WithDescription("Bind the charts of a document against the configured column universe and list the runtime fields"),
		mcp.WithString("document", mcp.Required(), mcp.Description("Path to the chart document")),
		mcp.WithString("chart", mcp.Description("Only this chart")),
	), h.rebind)

	s.AddTool(mcp.NewTool("resolve_attribute",
		mcp.WithDescription("Resolve text format attributes of declared fields through the user, stylesheet and default tiers"),
		mcp.WithString("document", mcp.Required(), mcp.Description("Path to the chart document")),
		mcp.WithString("field", mcp.Description("Field name; all fields when empty")),
		mcp.WithString("attribute", mcp.Description("Attribute name such as color or alignment; all when empty")),
		mcp.WithString("chart", mcp.Description("Only this chart")),
	), h.resolveAttribute)

	s.AddTool(mcp.NewTool("mixed_properties",
		mcp.WithDescription("Report which measure properties are shared or mixed across each chart"),
		mcp.WithString("document", mcp.Required(), mcp.Description("Path to the chart document")),
		mcp.WithString("chart", mcp.Description("Only this chart")),
	), h.mixedProperties)

	return s
}

type toolHandler struct {
	cfgPath string
}

func (h *toolHandler) open(ctx context.Context, req mcp.CallToolRequest) (*session, error) {
	doc, err := req.RequireString("document")
	if err != nil {
		return nil, err
	}
	return openSession(ctx, h.cfgPath, doc, req.GetString("chart", ""))
}

func (h *toolHandler) rebind(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s, err := h.open(ctx, req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	var b strings.Builder
	if err := s.rebindAll(); err != nil {
		fmt.Fprintf(&b, "errors: %v\n", err)
	}
	for _, c := range s.charts {
		writeRuntime(&b, c)
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (h *toolHandler) resolveAttribute(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var names []string
	if a := req.GetString("attribute", ""); a != "" {
		names = append(names, a)
	}
	attrs, err := parseAttributes(names)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	s, err := h.open(ctx, req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	field := req.GetString("field", "")
	var b strings.Builder
	n := 0
	for _, c := range s.charts {
		n += writeResolved(&b, s.resolver, c, field, attrs)
	}
	if n == 0 {
		return mcp.NewToolResultError(fmt.Sprintf("field %q not found", field)), nil
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (h *toolHandler) mixedProperties(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s, err := h.open(ctx, req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.rebindAll(); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	var b strings.Builder
	for _, c := range s.charts {
		if err := writeMixed(&b, c); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
	}
	return mcp.NewToolResultText(b.String()), nil
}
