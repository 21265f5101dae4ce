package cli

import (
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	mcpadapter "github.com/reviewlab/reviewlab/internal/adapters/inbound/mcp"
)

func newMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "MCP server commands",
		Long:  "Commands for running the ReviewLab MCP (Model Context Protocol) server.",
	}
	cmd.AddCommand(newMCPServeCmd())
	return cmd
}

func newMCPServeCmd() *cobra.Command {
	var projectPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start ReviewLab MCP server (stdio)",
		Long:  "Start the ReviewLab MCP server using stdio transport so AI assistants can run evaluations and read history.",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := absDir(projectPath)
			if err != nil {
				return err
			}
			s := mcpadapter.NewReviewLabMCPServer(dir, version)
			return server.ServeStdio(s)
		},
	}

	cmd.Flags().StringVar(&projectPath, "path", ".", "Project path holding config and history")

	return cmd
}
