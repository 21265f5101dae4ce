package mcp

import (
	"github.com/mark3labs/mcp-go/server"
)

// NewReviewLabMCPServer creates an MCP server with all reviewlab tools and
// resources registered. Relative file paths passed to tools are resolved
// against projectPath, which also holds config, history and baseline.
func NewReviewLabMCPServer(projectPath, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"reviewlab",
		version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
	)

	registerTools(s, projectPath)
	registerResources(s)

	return s
}
