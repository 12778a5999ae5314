package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/oauth2"

	"github.com/meridian-labs/catsync-cli/internal/adapters/driven/auth"
	"github.com/meridian-labs/catsync-cli/internal/catalog"
	"github.com/meridian-labs/catsync-cli/internal/connectors/google"
	"github.com/meridian-labs/catsync-cli/internal/connectors/google/drive"
	"github.com/meridian-labs/catsync-cli/internal/core/domain"
	"github.com/meridian-labs/catsync-cli/internal/core/ports/driving"
	"github.com/meridian-labs/catsync-cli/internal/core/services"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Run one synchronisation pass",
	Long: `Lists Drive files modified since the checkpoint, uploads each
supported file to the catalog, triggers processing, and records the
outcome in the ledgers.`,
	RunE: runSync,
}

func init() {
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	runner, err := buildRunner(ctx)
	if err != nil {
		return err
	}

	cmd.Println("Synchronising Drive to catalog...")
	report, err := syncWithProgress(ctx, cmd, runner)
	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}

	printSummary(cmd, report)
	return nil
}

// buildRunner wires the Drive and catalog collaborators into a sync runner.
func buildRunner(ctx context.Context) (driving.SyncRunner, error) {
	tokenSource, err := driveTokenSource(ctx)
	if err != nil {
		return nil, fmt.Errorf("load Drive token: %w", err)
	}

	svc, err := google.NewDriveService(ctx, tokenSource)
	if err != nil {
		return nil, fmt.Errorf("create Drive service: %w", err)
	}

	limiter := google.NewRateLimiter(google.DefaultDriveRateLimit)
	lister := drive.NewLister(svc, drive.Config{PageSize: appConfig.Drive.PageSize}, limiter)
	fetcher := drive.NewFetcher(svc, limiter)

	catalogClient := catalog.NewClient(catalog.Config{
		BaseURL:     appConfig.Catalog.BaseURL,
		NamespaceID: appConfig.Catalog.NamespaceID,
		CatalogID:   appConfig.Catalog.CatalogID,
		Timeout:     time.Duration(appConfig.Catalog.TimeoutSeconds) * time.Second,
	}, auth.NewStaticTokenProvider(os.Getenv(appConfig.Catalog.TokenEnv)))

	if err := os.MkdirAll(appConfig.Sync.WorkDir, 0o700); err != nil {
		return nil, fmt.Errorf("create work dir: %w", err)
	}

	return services.NewSyncRunner(checkpoints, ledgerStore, lister, fetcher, catalogClient, services.Config{
		WorkDir:           appConfig.Sync.WorkDir,
		ListAttempts:      appConfig.Sync.ListAttempts,
		ListBackoff:       time.Duration(appConfig.Sync.ListBackoffSeconds) * time.Second,
		AdvanceCheckpoint: appConfig.Sync.AdvanceCheckpoint,
	}), nil
}

// driveTokenSource picks the Drive credential source: a raw token from the
// environment when drive.token_env is set, otherwise the refreshing token
// file.
func driveTokenSource(ctx context.Context) (oauth2.TokenSource, error) {
	if env := appConfig.Drive.TokenEnv; env != "" {
		if token := os.Getenv(env); token != "" {
			return google.NewTokenSource(ctx, auth.NewStaticTokenProvider(token)), nil
		}
	}
	return auth.NewTokenFileSource(ctx, appConfig.Drive.TokenFile, &oauth2.Config{
		ClientID:     appConfig.Drive.ClientID,
		ClientSecret: appConfig.Drive.ClientSecret,
		Endpoint: oauth2.Endpoint{
			TokenURL: "https://oauth2.googleapis.com/token",
		},
	})
}

// syncWithProgress runs the sync while displaying progress updates.
func syncWithProgress(ctx context.Context, cmd *cobra.Command, runner driving.SyncRunner) (*domain.RunReport, error) {
	type syncResult struct {
		report *domain.RunReport
		err    error
	}
	resultCh := make(chan syncResult, 1)
	go func() {
		report, err := runner.Sync(ctx)
		resultCh <- syncResult{report, err}
	}()

	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	lastCount := 0
	for {
		select {
		case res := <-resultCh:
			if lastCount > 0 {
				cmd.Println()
			}
			return res.report, res.err
		case <-ticker.C:
			// Best effort progress; status errors are ignored.
			status, err := runner.Status(ctx)
			if err == nil && status != nil && status.FilesProcessed > lastCount {
				cmd.Printf("\rProcessing... %d files (%d errors)", status.FilesProcessed, status.ErrorCount)
				lastCount = status.FilesProcessed
			}
		}
	}
}

func printSummary(cmd *cobra.Command, report *domain.RunReport) {
	cmd.Printf("Run %s finished in %s\n", report.RunID,
		report.FinishedAt.Sub(report.StartedAt).Round(time.Millisecond))
	cmd.Printf("  uploaded:            %d\n", report.Count(domain.OutcomeUploaded))
	cmd.Printf("  already uploaded:    %d\n", report.Count(domain.OutcomeSkippedAlreadyUploaded))
	cmd.Printf("  folders skipped:     %d\n", report.Count(domain.OutcomeSkippedFolder))
	cmd.Printf("  unsupported:         %d\n", report.Count(domain.OutcomeSkippedUnsupported))
	cmd.Printf("  upload failures:     %d\n", report.Count(domain.OutcomeFailedUpload))
	cmd.Printf("  processing failures: %d\n", report.Count(domain.OutcomeFailedProcessing))
	cmd.Printf("  fetch failures:      %d\n", report.Count(domain.OutcomeFailedFetch))
}
