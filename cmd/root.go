package cmd

import (
	"fmt"

	"github.com/pisaph/pisaph/internal/catalog"
	"github.com/pisaph/pisaph/internal/config"
	"github.com/pisaph/pisaph/internal/evaluation"
	"github.com/pisaph/pisaph/internal/logging"
	"github.com/pisaph/pisaph/internal/store"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var rootCmd = &cobra.Command{
	Use:   "pisaph",
	Short: "Grade repetition dashboard for PISA Philippines",
	Long: "pisaph is a terminal dashboard presenting an analysis of grade repetition among\n" +
		"Filipino students in PISA 2022, with live evaluation of the trained classifier.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "Path to config file (default $XDG_CONFIG_HOME/pisaph/config.yaml)")
	flags.String("db", "", "Path to SQLite database file (overrides PISAPH_DB env var)")
	flags.String("model", "", "Path to the model artifact JSON")
	flags.String("holdout", "", "Path to the holdout CSV")
	flags.String("catalog", "", "Path to a catalog YAML (default: built in)")
	flags.String("log", "", "Path to the log file")

	rootCmd.AddCommand(evaluateCmd)
	rootCmd.AddCommand(predictCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(sectionsCmd)
	rootCmd.AddCommand(describeCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the config file and environment, then applies flags.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}
	overrides := map[string]*string{
		"db":      &cfg.DB,
		"model":   &cfg.Model,
		"holdout": &cfg.Holdout,
		"catalog": &cfg.Catalog,
		"log":     &cfg.Log,
	}
	for name, dst := range overrides {
		if v, _ := cmd.Flags().GetString(name); v != "" {
			*dst = v
		}
	}
	return cfg, nil
}

// resolveDBPath returns the configured database path, falling back to the
// default XDG path.
func resolveDBPath(cfg config.Config) (string, error) {
	if cfg.DB != "" {
		return cfg.DB, store.EnsureDir(cfg.DB)
	}
	return store.DefaultDBPath()
}

// env holds what most commands need. Close releases it.
type env struct {
	cfg   config.Config
	log   *zap.Logger
	store *store.Store

	closeLog func() error
}

// openEnv loads configuration, the logger and the store.
func openEnv(cmd *cobra.Command) (*env, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	log, closeLog, err := logging.New(cfg.Log, cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}

	dbPath, err := resolveDBPath(cfg)
	if err != nil {
		closeLog()
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		closeLog()
		return nil, fmt.Errorf("open database: %w", err)
	}
	return &env{cfg: cfg, log: log, store: st, closeLog: closeLog}, nil
}

func (e *env) Close() {
	e.store.Close()
	e.closeLog()
}

// evaluation returns a service over the configured model and holdout.
func (e *env) evaluation() *evaluation.Service {
	loader := evaluation.NewLoader(e.cfg.Model, e.cfg.Holdout)
	return evaluation.NewService(loader, e.store.RunRepo(), e.log)
}

// loadCatalog returns the configured catalog, or the built-in one.
func loadCatalog(cfg config.Config) (*catalog.Catalog, error) {
	if cfg.Catalog != "" {
		return catalog.LoadFile(cfg.Catalog)
	}
	return catalog.Default()
}
