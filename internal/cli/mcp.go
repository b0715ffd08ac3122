package cli

import (
	"github.com/spf13/cobra"

	"github.com/i474232898/weather-team/internal/mcpserver"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server over stdio",
	Long: `Start the Model Context Protocol server for AI assistant integration.

The server speaks JSON-RPC over stdio and exposes the tools
query_weather_today, query_weather_tomorrow, query_weather_future_days,
get_supported_cities and get_city_coordinates. Logs go to stderr.

Client configuration:
  {
    "mcpServers": {
      "weather": {
        "command": "/path/to/weather-team",
        "args": ["mcp"]
      }
    }
  }`,
	Args: cobra.NoArgs,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, _ []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}

	server, err := mcpserver.New(a.Service)
	if err != nil {
		return err
	}
	return server.Run(cmd.Context())
}
