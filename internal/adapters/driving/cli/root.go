// Package cli implements the catsync command line interface.
package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	configfile "github.com/meridian-labs/catsync-cli/internal/adapters/driven/config/file"
	statefile "github.com/meridian-labs/catsync-cli/internal/adapters/driven/state/file"
	"github.com/meridian-labs/catsync-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// CheckpointFileName is the checkpoint file inside the state directory.
const CheckpointFileName = "modified_time.txt"

var (
	configDirFlag string
	verboseFlag   bool

	appConfig   configfile.Config
	checkpoints *statefile.CheckpointStore
	ledgerStore *statefile.LedgerStore
)

var rootCmd = &cobra.Command{
	Use:   "catsync",
	Short: "One-way Google Drive to document-catalog synchronisation",
	Long: `catsync watches a Google Drive account for files modified since a
checkpoint, downloads each qualifying file, uploads it to a document
catalog, and triggers asynchronous content processing.

Per-file outcomes are recorded in durable ledgers (uploaded, failed,
unsupported) so re-running is idempotent.`,
	SilenceUsage:      true,
	PersistentPreRunE: initState,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDirFlag, "config-dir", "",
		"configuration directory (default ~/.catsync)")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false,
		"enable verbose logging")
}

// initState loads configuration and opens the durable state stores.
// Drive and catalog clients are constructed per command, since not every
// command needs the network.
func initState(_ *cobra.Command, _ []string) error {
	logger.SetVerbose(verboseFlag)

	cfg, err := configfile.Load(configDirFlag)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	appConfig = cfg

	checkpoints, err = statefile.NewCheckpointStore(
		filepath.Join(cfg.Sync.StateDir, CheckpointFileName))
	if err != nil {
		return fmt.Errorf("open checkpoint store: %w", err)
	}

	ledgerStore, err = statefile.NewLedgerStore(cfg.Sync.StateDir)
	if err != nil {
		return fmt.Errorf("open ledger store: %w", err)
	}
	return nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
