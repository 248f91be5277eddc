package cmd

import (
	"context"
	"fmt"
	"os"

	"boardgame-sync/core/reconcile"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	reviewFlag  bool
	offlineFlag bool
	jsonFlag    bool
)

// syncCmd is the parent command for reconciliation runs.
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Reconcile the two collections",
}

// syncRunCmd runs one reconciliation.
var syncRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Fetch both collections and commit matches",
	Long: `Fetches both collections, commits exact title matches and, when the
matcher is enabled, fuzzy matches of the remaining items.

Examples:
  # Commit everything
  sync run

  # Commit exact matches, print fuzzy candidates for review
  sync run --review`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap()
		if err != nil {
			return err
		}
		defer rt.logger.Sync()

		result, err := rt.collectionService().Sync(commandContext(cmd), reviewFlag || rt.cfg.Sync.Review)
		if result != nil {
			printResult(rt.logger, result)
		}
		return err
	},
}

// syncResidualsCmd lists the items without a match.
var syncResidualsCmd = &cobra.Command{
	Use:   "residuals",
	Short: "List unmatched items of both collections",
	Long:  `Lists the items of both collections that have no match. Nothing is committed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap()
		if err != nil {
			return err
		}
		defer rt.logger.Sync()

		result, err := rt.collectionService().Residuals(commandContext(cmd), offlineFlag)
		if err != nil {
			return err
		}
		printResult(rt.logger, result)
		return nil
	},
}

func init() {
	syncCmd.PersistentFlags().BoolVar(&jsonFlag, "json", false, "Print the full result as JSON")
	syncRunCmd.Flags().BoolVar(&reviewFlag, "review", false, "Hold fuzzy candidates for review instead of committing them")
	syncResidualsCmd.Flags().BoolVar(&offlineFlag, "offline", false, "Use the archived snapshots instead of fetching")

	syncCmd.AddCommand(syncRunCmd, syncResidualsCmd)
	RootCmd.AddCommand(syncCmd)
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// printResult logs the run summary and prints the residuals and candidates.
func printResult(l *zap.Logger, result *reconcile.Result) {
	s := result.Summary
	l.Info("Reconciliation report",
		zap.String("state", string(result.State)),
		zap.Int("fetched_a", s.FetchedA),
		zap.Int("fetched_b", s.FetchedB),
		zap.Int("invalid_a", s.InvalidA),
		zap.Int("invalid_b", s.InvalidB),
		zap.Int("previously_matched", s.PreviouslyMatched),
		zap.Int("exact", s.Exact),
		zap.Int("fuzzy_accepted", s.FuzzyAccepted),
		zap.Int("conflicted", s.Conflicted),
		zap.Int("unresolved", s.Unresolved),
		zap.Int("pending", s.Pending),
		zap.Bool("matcher_failed", s.MatcherFailed),
	)

	if jsonFlag {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			l.Error("Failed to encode result", zap.Error(err))
			return
		}
		fmt.Fprintln(os.Stdout, string(data))
		return
	}

	fmt.Printf("\n=== Only in A (%d) ===\n", len(result.OnlyInA))
	for _, r := range result.OnlyInA {
		fmt.Printf("%s\t%s\n", r.ItemKey(), r.DisplayName)
	}
	fmt.Printf("\n=== Only in B (%d) ===\n", len(result.OnlyInB))
	for _, r := range result.OnlyInB {
		fmt.Printf("%s\t%s\n", r.ProviderID, r.DisplayName)
	}
	if len(result.Candidates) > 0 {
		fmt.Printf("\n=== Candidates awaiting review (%d) ===\n", len(result.Candidates))
		for _, c := range result.Candidates {
			fmt.Printf("%s\t%s\t<->\t%s\t%s\t(%.2f)\n", c.AKey(), c.AName, c.BProviderID, c.BName, c.Confidence)
		}
	}
}
