package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"boardgame-sync/core/reconcile"
	"boardgame-sync/feature/matches"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	yesConfirm bool
	pairFlags  matches.ManualPair
)

// matchesCmd is the parent command for match housekeeping.
var matchesCmd = &cobra.Command{
	Use:   "matches",
	Short: "Inspect and edit committed matches",
}

var matchesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List committed matches",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap()
		if err != nil {
			return err
		}

		records, err := rt.matchesService().List(commandContext(cmd))
		if err != nil {
			return err
		}
		for _, m := range records {
			fmt.Printf("%d\t%s\t%s\t<->\t%s\t%s\t%s\n", m.ID, m.AKey(), m.AName, m.BProviderID, m.BName, m.MatchType)
		}
		fmt.Printf("\n%d matches\n", len(records))
		return nil
	},
}

var matchesAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Commit a manual pair",
	Long: `Commits an operator supplied pair without checking the collections.
The pair is rejected when either item is already matched.

Example:
  matches add --a-id 13 --b-id 9`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap()
		if err != nil {
			return err
		}

		res, err := rt.matchesService().AddManual(commandContext(cmd), pairFlags)
		if err != nil {
			return err
		}
		return reportProposal(rt.logger, res)
	},
}

var matchesAcceptCmd = &cobra.Command{
	Use:   "accept",
	Short: "Accept a reviewed candidate",
	Long: `Fetches both collections, checks that both items still exist, and commits
the pair. A pair touching an already matched item is rejected.

Example:
  matches accept --a-id 13 --b-id 9`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap()
		if err != nil {
			return err
		}

		res, err := rt.collectionService().Accept(commandContext(cmd), []reconcile.Candidate{{
			AProviderID: pairFlags.AProviderID,
			AVariantID:  pairFlags.AVariantID,
			AName:       pairFlags.AName,
			BProviderID: pairFlags.BProviderID,
			BName:       pairFlags.BName,
			MatchType:   reconcile.MatchAISuggested,
		}})
		if err != nil {
			return err
		}
		return reportProposal(rt.logger, res)
	},
}

var matchesRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove one match",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid match id %q", args[0])
		}

		rt, err := bootstrap()
		if err != nil {
			return err
		}
		if err := rt.matchesService().Remove(commandContext(cmd), uint(id)); err != nil {
			return err
		}
		rt.logger.Info("Match removed", zap.Uint64("id", id))
		return nil
	},
}

var matchesClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every match of the account pair",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap()
		if err != nil {
			return err
		}

		if !confirmDestructiveAction() {
			rt.logger.Warn("Operation cancelled by user. No changes were made.")
			return nil
		}
		_, err = rt.matchesService().Clear(commandContext(cmd))
		return err
	},
}

func init() {
	for _, c := range []*cobra.Command{matchesAddCmd, matchesAcceptCmd} {
		c.Flags().StringVar(&pairFlags.AProviderID, "a-id", "", "Item id on the first service")
		c.Flags().StringVar(&pairFlags.AVariantID, "a-variant", "", "Variant id on the first service")
		c.Flags().StringVar(&pairFlags.AName, "a-name", "", "Item name on the first service")
		c.Flags().StringVar(&pairFlags.BProviderID, "b-id", "", "Item id on the second service")
		c.Flags().StringVar(&pairFlags.BName, "b-name", "", "Item name on the second service")
	}
	matchesAddCmd.MarkFlagRequired("a-id")
	matchesAddCmd.MarkFlagRequired("b-id")
	matchesClearCmd.Flags().BoolVar(&yesConfirm, "yes", false, "Auto-confirm destructive actions (non-interactive)")

	matchesCmd.AddCommand(matchesListCmd, matchesAddCmd, matchesAcceptCmd, matchesRemoveCmd, matchesClearCmd)
	RootCmd.AddCommand(matchesCmd)
}

func reportProposal(l *zap.Logger, res *reconcile.ProposeResult) error {
	for _, m := range res.Accepted {
		l.Info("Match committed", zap.Uint("id", m.ID), zap.String("a_id", m.AKey()), zap.String("b_id", m.BProviderID))
	}
	for _, rej := range res.Rejected {
		l.Warn("Pair rejected",
			zap.String("reason", string(rej.Reason)),
			zap.String("conflicting_id", rej.ConflictingID),
			zap.Uint("conflicting_match", rej.ConflictingMatchID),
		)
	}
	if len(res.Accepted) == 0 {
		return fmt.Errorf("no pair was committed")
	}
	return nil
}

// confirmDestructiveAction prompts the user for confirmation or uses --yes flag.
func confirmDestructiveAction() bool {
	if yesConfirm {
		fmt.Println("\nAuto-confirmed via --yes flag")
		return true
	}

	fmt.Print("\nType 'yes' to confirm destructive actions: ")
	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	return strings.TrimSpace(response) == "yes"
}
