package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/meridian-labs/catsync-cli/internal/core/domain"
)

var ledgerCmd = &cobra.Command{
	Use:       "ledger [uploaded|failed|unsupported]",
	Short:     "List the file IDs recorded in a ledger set",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"uploaded", "failed", "unsupported"},
	RunE:      runLedger,
}

func init() {
	rootCmd.AddCommand(ledgerCmd)
}

func runLedger(cmd *cobra.Command, args []string) error {
	set := domain.LedgerSet(args[0])
	switch set {
	case domain.LedgerUploaded, domain.LedgerFailed, domain.LedgerUnsupported:
	default:
		return fmt.Errorf("unknown ledger set %q", args[0])
	}

	ids, err := ledgerStore.IDs(cmd.Context(), set)
	if err != nil {
		return fmt.Errorf("read %s ledger: %w", set, err)
	}

	if len(ids) == 0 {
		cmd.Printf("No files in the %s ledger.\n", set)
		return nil
	}
	for _, id := range ids {
		cmd.Println(id)
	}
	return nil
}
