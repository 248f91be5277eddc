package cmd

import (
	"errors"

	"boardgame-sync/feature/integrity"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var fixFlag bool

// integrityCmd runs the storage and schema checks.
var integrityCmd = &cobra.Command{
	Use:   "integrity",
	Short: "Check object storage folders and the match table schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap()
		if err != nil {
			return err
		}
		logg := rt.logger
		ctx := commandContext(cmd)
		svc := integrity.NewService(rt.client, rt.cfg.Storage.Bucket, rt.db, logg)

		logg.Info("Checking folder structure...")
		missing, err := svc.CheckStructure(ctx)
		switch {
		case errors.Is(err, integrity.ErrStorageDisabled):
			logg.Info("Object storage disabled, structure check skipped.")
		case err != nil:
			return err
		case len(missing) == 0:
			logg.Info("Structure is intact.")
		case fixFlag:
			if err := svc.FixStructure(ctx, missing); err != nil {
				return err
			}
			logg.Info("Structure fixed successfully.", zap.Strings("created", missing))
		default:
			logg.Warn("Missing folders detected", zap.Strings("missing", missing))
			logg.Info("Run with --fix to create missing folders.")
		}

		logg.Info("Checking match schema...")
		report, err := svc.CheckSchema()
		if err != nil {
			return err
		}
		if report.Matched {
			logg.Info("Match schema matches expected definition.")
			return nil
		}
		for table, tbl := range report.Tables {
			if tbl.Status == "ok" {
				continue
			}
			if len(tbl.MissingColumns) > 0 {
				logg.Warn("Missing Columns", zap.String("table", table), zap.Strings("columns", tbl.MissingColumns))
			}
			if len(tbl.MissingIndexes) > 0 {
				logg.Warn("Missing Indexes", zap.String("table", table), zap.Strings("indexes", tbl.MissingIndexes))
			}
		}
		for _, e := range report.Errors {
			logg.Error("Inspection Error", zap.String("error", e))
		}
		return errors.New("match schema check failed")
	},
}

func init() {
	integrityCmd.Flags().BoolVar(&fixFlag, "fix", false, "Create missing folders")
	RootCmd.AddCommand(integrityCmd)
}
