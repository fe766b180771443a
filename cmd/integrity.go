package cmd

import (
	"context"
	"fmt"
	"sort"
	"time"

	"frameload-sync/core/storage"
	"frameload-sync/feature/frameloads"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var fixFlag bool

// integrityCmd represents the integrity command
var integrityCmd = &cobra.Command{
	Use:   "integrity",
	Short: "Check the model schema and report storage",
	Long:  `Checks that the model database carries the tables sync writes to and that the report bucket exists.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrityChecks(cmd.Context(), true, true)
	},
}

// schemaCmd represents the integrity schema command
var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Check the model database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrityChecks(cmd.Context(), true, false)
	},
}

// bucketCmd represents the integrity bucket command
var bucketCmd = &cobra.Command{
	Use:   "bucket",
	Short: "Check and fix the report bucket",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrityChecks(cmd.Context(), false, true)
	},
}

func init() {
	RootCmd.AddCommand(integrityCmd)
	integrityCmd.AddCommand(schemaCmd, bucketCmd)

	schemaCmd.Flags().BoolVar(&fixFlag, "fix", false, "Create missing model tables")
	bucketCmd.Flags().BoolVar(&fixFlag, "fix", false, "Create the missing bucket")
}

func runIntegrityChecks(ctx context.Context, checkSchema, checkBucket bool) error {
	rt, err := newRuntime(checkSchema)
	if err != nil {
		return err
	}
	logg := rt.logger
	defer logg.Sync()

	if checkSchema {
		logg.Info("Checking model schema...", zap.String("driver", rt.cfg.Database.Driver))
		store := frameloads.NewStore(rt.db, logg)
		missing, err := store.CheckSchema(ctx)
		if err != nil {
			return fmt.Errorf("schema check failed: %w", err)
		}
		if len(missing) == 0 {
			logg.Info("Model schema is intact.")
		} else {
			tables := make([]string, 0, len(missing))
			for t := range missing {
				tables = append(tables, t)
			}
			sort.Strings(tables)
			for _, t := range tables {
				logg.Warn("Missing columns", zap.String("table", t), zap.Strings("columns", missing[t]))
			}
			if fixFlag {
				logg.Info("Creating missing model tables...")
				if err := frameloads.Migrate(rt.db); err != nil {
					return fmt.Errorf("failed to fix schema: %w", err)
				}
				logg.Info("Model schema fixed successfully.")
			} else {
				logg.Info("Run with --fix to create missing tables.")
			}
		}
	}

	if checkBucket {
		if rt.client == nil {
			return fmt.Errorf("storage client unavailable")
		}
		bucket := rt.cfg.Storage.Bucket
		logg.Info("Checking report bucket...", zap.String("bucket", bucket))

		ctx, cancel := context.WithTimeout(ctx, time.Duration(rt.cfg.Storage.TimeoutSeconds)*time.Second)
		defer cancel()

		exists, err := rt.client.BucketExists(ctx, bucket)
		if err != nil {
			return fmt.Errorf("bucket check failed: %w", err)
		}
		switch {
		case exists:
			keys, err := storage.ListKeys(ctx, rt.client, bucket, storage.ReportPrefix)
			if err != nil {
				return err
			}
			logg.Info("Report bucket is present.", zap.Int("reports", len(keys)))
		case fixFlag:
			if err := storage.EnsureBucket(ctx, rt.client, bucket, rt.cfg.Storage.Region); err != nil {
				return err
			}
			logg.Info("Report bucket created.", zap.String("bucket", bucket))
		default:
			logg.Warn("Report bucket is missing", zap.String("bucket", bucket))
			logg.Info("Run with --fix to create it.")
		}
	}
	return nil
}
