package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mvp-joe/project-neo/internal/catalog"
	"github.com/mvp-joe/project-neo/internal/config"
	"github.com/mvp-joe/project-neo/internal/extract"
	"github.com/mvp-joe/project-neo/internal/logging"
	"github.com/mvp-joe/project-neo/internal/neo"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	cfgFile string
	verbose bool
	quiet   bool
	neoFile string
	cadFile string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "neo",
	Short: "Explore near-Earth objects and their close approaches to Earth",
	Long: `neo links a catalog of near-Earth objects (CSV) with NASA/JPL close-approach
data (JSON) and lets you inspect single objects or query approaches by date,
distance, velocity, diameter and hazard.

Data file locations come from .neo/config.yml, NEO_* environment variables
or the --neofile and --cadfile flags.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .neo/config.yml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Disable progress bars and non-error output")
	rootCmd.PersistentFlags().StringVar(&neoFile, "neofile", "", "path to the NEO catalog CSV (overrides data.neo_path)")
	rootCmd.PersistentFlags().StringVar(&cadFile, "cadfile", "", "path to the close-approach JSON (overrides data.cad_path)")
}

// session bundles the configuration and logger shared by data commands.
type session struct {
	cfg    *config.Config
	logger *zap.Logger
}

// newSession loads configuration, applies global flag overrides and builds
// the logger.
func newSession() (*session, error) {
	var (
		cfg *config.Config
		err error
	)
	if cfgFile != "" {
		cfg, err = config.NewFileLoader(cfgFile).Load()
	} else {
		cfg, err = config.LoadConfig()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if neoFile != "" {
		cfg.Data.NEOPath = neoFile
	}
	if cadFile != "" {
		cfg.Data.CADPath = cadFile
	}

	logger, err := logging.New(logging.Verbose(cfg.Log, verbose))
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	return &session{cfg: cfg, logger: logger}, nil
}

func (s *session) extractOptions() []extract.Option {
	return []extract.Option{
		extract.WithLogger(s.logger),
		extract.WithProgress(NewCLIProgressReporter(quiet)),
	}
}

// loadDatabase extracts both data files and links them.
func (s *session) loadDatabase(ctx context.Context) (*neo.Database, error) {
	db, err := extract.Load(ctx, s.cfg.Data.NEOPath, s.cfg.Data.CADPath, s.extractOptions()...)
	if err != nil {
		return nil, fmt.Errorf("failed to load data: %w", err)
	}
	if s.cfg.Data.StrictLinking && len(db.Orphans()) > 0 {
		return nil, fmt.Errorf("%w: %d approaches", catalog.ErrOrphanApproaches, len(db.Orphans()))
	}
	return db, nil
}

// openCatalog builds the reloadable catalog used by the long-running servers.
func (s *session) openCatalog(ctx context.Context) (*catalog.Catalog, error) {
	cat, err := catalog.New(ctx,
		catalog.FromFiles(s.cfg.Data.NEOPath, s.cfg.Data.CADPath, s.extractOptions()...),
		catalog.WithLogger(s.logger),
		catalog.WithStrictLinking(s.cfg.Data.StrictLinking),
		catalog.WithQueryCache(s.cfg.Cache.QueryCacheSize, time.Duration(s.cfg.Cache.QueryCacheTTLSeconds)*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	return cat, nil
}

// close flushes the logger.
func (s *session) close() {
	_ = s.logger.Sync()
}
