package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/reviewlab/reviewlab/internal/domain/matching"
)

const strategiesURI = "reviewlab://strategies"

func registerResources(s *server.MCPServer) {
	s.AddResource(
		mcplib.NewResource(
			strategiesURI,
			"Matching Strategies",
			mcplib.WithResourceDescription("Matching strategies in priority order with descriptions"),
			mcplib.WithMIMEType("application/json"),
		),
		handleStrategiesResource,
	)
}

func handleStrategiesResource(_ context.Context, _ mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
	data, err := json.MarshalIndent(matching.Catalog(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling strategies: %w", err)
	}
	return []mcplib.ResourceContents{
		mcplib.TextResourceContents{
			URI:      strategiesURI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
