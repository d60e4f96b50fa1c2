package cli

import (
	"fmt"
	"time"

	"github.com/mvp-joe/project-neo/internal/api"
	"github.com/mvp-joe/project-neo/internal/catalog"
	"github.com/spf13/cobra"
)

var serveAddr string

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the catalog over an HTTP JSON API",
	Long: `Serve loads the data files once and answers lookups, approach queries and
searches over HTTP. Prometheus metrics are exposed on /metrics.

When watching is enabled (watch.enabled), edits to either data file reload the
catalog; a failed reload keeps serving the previous data.

Endpoints:
  GET /health
  GET /metrics
  GET /api/v1/stats
  GET /api/v1/neos/{designation}
  GET /api/v1/neos?name=NAME
  GET /api/v1/approaches?date=&start_date=&end_date=&distance_min=&...&hazardous=&limit=
  GET /api/v1/search?q=TEXT&glob=true&limit=N

Example:
  neo serve --addr :8080`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from server.addr)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	s, err := newSession()
	if err != nil {
		return err
	}
	defer s.close()

	addr := s.cfg.Server.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	cat, err := s.openCatalog(ctx)
	if err != nil {
		return err
	}
	defer cat.Close()

	if s.cfg.Watch.Enabled {
		watcher, err := catalog.NewFileWatcher(
			cat,
			[]string{s.cfg.Data.NEOPath, s.cfg.Data.CADPath},
			time.Duration(s.cfg.Watch.DebounceMs)*time.Millisecond,
			s.logger,
		)
		if err != nil {
			return fmt.Errorf("failed to create file watcher: %w", err)
		}
		watcher.Start(ctx)
		defer watcher.Stop()
	}

	if err := api.NewServer(cat, s.cfg, s.logger).Run(ctx, addr); err != nil {
		return fmt.Errorf("HTTP server error: %w", err)
	}
	return nil
}
