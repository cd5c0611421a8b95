// Package cli implements the molecule-lab CLI commands.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rcliao/molecule-lab/internal/config"
	"github.com/rcliao/molecule-lab/internal/logging"
	"github.com/rcliao/molecule-lab/internal/store"
)

var (
	dbPath     string
	configPath string
	nsFlag     string
	formatFlag string
	verbose    bool

	cfg    = config.Default()
	logger = zap.NewNop()
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "molecule-lab",
	Short: "Build, inspect and store molecules",
	Long: `molecule-lab is a molecule construction toolkit: bond inference, geometry
templates, an undoable scene editor and a versioned SQLite molecule library.
JSON in, JSON out. Logs go to stderr.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded

		logger, err = logging.New(cfg.LogLevel, verbose)
		if err != nil {
			return err
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Database path (default: $MOLECULE_LAB_DB or ~/.molecule-lab/lab.db)")
	RootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: $MOLECULE_LAB_CONFIG or ~/.molecule-lab/config.yaml)")
	RootCmd.PersistentFlags().StringVarP(&nsFlag, "ns", "n", "", "Namespace (default: $MOLECULE_LAB_NS or config namespace)")
	RootCmd.PersistentFlags().StringVarP(&formatFlag, "format", "f", "json", "Output format: json or text")
	RootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Debug logging")
}

func getDBPath() string {
	if dbPath != "" {
		return dbPath
	}
	return cfg.DBPath
}

// namespace resolves the namespace for commands that address one molecule.
func namespace() string {
	if nsFlag != "" {
		return nsFlag
	}
	return cfg.Namespace
}

func openStore() (*store.SQLiteStore, error) {
	logger.Debug("opening store", zap.String("db", getDBPath()))
	return store.NewSQLiteStore(getDBPath())
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
