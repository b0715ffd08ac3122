package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/i474232898/weather-team/internal/app"
	"github.com/i474232898/weather-team/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "weather-team",
	Short: "Weather queries answered by a small team of stage workers",
	Long: `weather-team answers natural-language weather questions such as
"北京今天天气怎么样" by passing them through intent, retrieval and
presentation workers. It also serves the same tools over HTTP and MCP.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// loadApp builds the application from the environment. Tests replace it.
var loadApp = func() (*app.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return app.New(cfg)
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}
