package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"frameload-sync/core/reconcile"
	"frameload-sync/feature/frameloads"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Flags for sync frame-loads command
	workbookFlag   string
	sheetFlag      string
	replaceFlag    bool
	autoRemoveFlag bool
	dryRunFlag     bool
	duplicatesFlag string
	outputFlag     string
)

// syncCmd is the parent command for all sync operations.
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Synchronize spreadsheet data into the structural model",
}

// frameLoadsSyncCmd runs one frame load reconciliation.
var frameLoadsSyncCmd = &cobra.Command{
	Use:   "frame-loads",
	Short: "Apply frame distributed loads from a workbook",
	Long: `Reads the frame load sheet, validates and normalizes every row and
applies the result to the structural model.

Examples:
  # Apply the configured workbook
  sync frame-loads

  # Preview a workbook from object storage
  sync frame-loads --workbook s3://frame-loads/loads.xlsx --dry-run

  # Remove loads dropped from the sheet since the last run
  sync frame-loads --auto-remove --output json`,
	RunE: runFrameLoadsSync,
}

func init() {
	syncCmd.AddCommand(frameLoadsSyncCmd)

	f := frameLoadsSyncCmd.Flags()
	f.StringVar(&workbookFlag, "workbook", "", "Workbook path or s3://bucket/key (overrides SHEET_PATH)")
	f.StringVar(&sheetFlag, "sheet", "", "Worksheet name (overrides SHEET_NAME)")
	f.BoolVar(&replaceFlag, "replace", true, "Replace existing loads for a frame and pattern instead of adding")
	f.BoolVar(&autoRemoveFlag, "auto-remove", false, "Remove keys absent from the sheet since the last snapshot")
	f.BoolVar(&dryRunFlag, "dry-run", false, "Prepare and report without writing to the model")
	f.StringVar(&duplicatesFlag, "duplicates", "", "Duplicate key policy: last-wins, first-wins, reject, keep-all")
	f.StringVarP(&outputFlag, "output", "o", "text", "Output format: text, json, yaml")

	RootCmd.AddCommand(syncCmd)
}

func runFrameLoadsSync(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime(true)
	if err != nil {
		return err
	}
	defer rt.logger.Sync()

	cfg := rt.cfg.Sync
	flags := cmd.Flags()
	if flags.Changed("replace") {
		cfg.Replace = replaceFlag
	}
	if flags.Changed("auto-remove") {
		cfg.AutoRemove = autoRemoveFlag
	}
	if flags.Changed("dry-run") {
		cfg.DryRun = dryRunFlag
	}
	if duplicatesFlag != "" {
		cfg.Duplicates = duplicatesFlag
	}
	opts, err := cfg.Options()
	if err != nil {
		return err
	}

	rt.logger.Info("Starting frame load sync",
		zap.Bool("replace", opts.Replace),
		zap.Bool("auto_remove", opts.AutoRemove),
		zap.Bool("dry_run", opts.DryRun),
		zap.String("duplicates", string(opts.Duplicates)),
	)

	out := rt.service(opts).Run(cmd.Context(), frameloads.RunRequest{Path: workbookFlag, Sheet: sheetFlag})
	if err := writeOutput(cmd.OutOrStdout(), out, outputFlag); err != nil {
		return err
	}
	if out.Aborted {
		return fmt.Errorf("run %s aborted: %s", out.RunID, out.Error)
	}
	return nil
}

// writeOutput renders an output in the requested format.
func writeOutput(w io.Writer, out reconcile.Output, format string) error {
	switch format {
	case "", "text":
		_, err := io.WriteString(w, reconcile.FormatText(out))
		return err
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	case "yaml":
		data, err := yaml.Marshal(out)
		if err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		_, err = w.Write(data)
		return err
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
