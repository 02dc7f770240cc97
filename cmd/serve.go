/*
serve.go - HTTP server subcommand

PURPOSE:
  Starts the worklog HTTP server. Handles configuration, dependency
  injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Read configuration (flags, config file, environment)
  2. Initialize SQLite store and seed status master data
  3. Create API handler with dependencies
  4. Configure HTTP router
  5. Start server with graceful shutdown

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connection
  4. Exit

EXAMPLES:
  # Run with file database
  worklog serve --db=./data/worklog.db --state=BY

  # Run with in-memory database on a different port
  worklog serve --db=:memory: --port=3000

SEE ALSO:
  - api/server.go: Router configuration
  - api/handlers.go: HTTP handlers
  - store/sqlite/sqlite.go: Database implementation
*/
package cmd

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/punchcard/worklog/api"
	"github.com/punchcard/worklog/store/sqlite"
	"github.com/punchcard/worklog/timesheet"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().Int("port", 8080, "HTTP server port")
	viper.BindPFlag("port", serveCmd.Flags().Lookup("port"))
}

func runServe(cmd *cobra.Command, args []string) error {
	store, err := sqlite.New(viper.GetString("db"))
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer store.Close()

	if err := store.SeedDefaults(context.Background()); err != nil {
		return fmt.Errorf("failed to seed defaults: %w", err)
	}

	commands := timesheet.NewCommands(viper.GetString("state"))
	handler := api.NewHandler(store, commands)
	router := api.NewRouter(handler)

	port := viper.GetInt("port")
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on http://localhost:%d", port)
		log.Printf("API available at http://localhost:%d/api", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Println("Server stopped")
	return nil
}
