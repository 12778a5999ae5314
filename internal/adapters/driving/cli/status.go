package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/meridian-labs/catsync-cli/internal/core/domain"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the checkpoint and ledger counts",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	checkpoint, err := checkpoints.Read(ctx)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		cmd.Println("Checkpoint: none (next run starts from now)")
	case err != nil:
		return fmt.Errorf("read checkpoint: %w", err)
	default:
		cmd.Printf("Checkpoint: %s\n", checkpoint.Format(time.RFC3339))
	}

	for _, set := range domain.LedgerSets {
		ids, err := ledgerStore.IDs(ctx, set)
		if err != nil {
			return fmt.Errorf("read %s ledger: %w", set, err)
		}
		cmd.Printf("%-12s %d files\n", string(set)+":", len(ids))
	}
	return nil
}
