package cli

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"

	httpapi "github.com/i474232898/weather-team/internal/api/http"
)

var servePort string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start the HTTP API and the coordinate warm-up scheduler.

Routes:
  GET  /health
  GET  /api/v1/weather/today?city=北京
  GET  /api/v1/weather/tomorrow?city=北京
  GET  /api/v1/weather/forecast?city=北京&days=3
  GET  /api/v1/cities
  GET  /api/v1/coordinates?city=北京
  POST /api/v1/ask {"query": "...", "strategy": "selector|handoff|autoplan"}`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&servePort, "port", "p", "", "listen port (default $PORT or 8080)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}

	if err := a.Scheduler.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	defer a.Scheduler.Stop()

	server := httpapi.NewApp(a.Service, a)

	port := servePort
	if port == "" {
		port = a.Config.Port
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Listen(":" + port)
	}()
	log.Printf("INFO: listening on :%s", port)

	select {
	case <-cmd.Context().Done():
	case err := <-errCh:
		return fmt.Errorf("fiber server stopped: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
		return err
	}
	return nil
}
