package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/s0up4200/engage/batch"
	"github.com/s0up4200/engage/engage"
)

var (
	batchFile        string
	batchOverwrite   bool
	batchConcurrency int
)

// mapBatchCmd represents the map-batch command
var mapBatchCmd = &cobra.Command{
	Use:   "map-batch",
	Short: "Map identifiers to primary keys from a CSV file",
	Long: `Map identifiers to primary keys from a CSV file with the columns
identifier,primaryKey. A header row is optional. Use --file - to read stdin.

Rows are mapped concurrently; failed rows are reported and do not stop the batch.`,
	Args:    cobra.NoArgs,
	PreRunE: initializeClient,
	RunE:    runMapBatch,
}

func init() {
	rootCmd.AddCommand(mapBatchCmd)

	mapBatchCmd.Flags().StringVar(&batchFile, "file", "", "CSV file with identifier,primaryKey rows")
	mapBatchCmd.Flags().BoolVar(&batchOverwrite, "overwrite", true, "replace mappings of identifiers to other primary keys")
	mapBatchCmd.Flags().IntVar(&batchConcurrency, "concurrency", 0, "override batch.concurrency")
	_ = mapBatchCmd.MarkFlagRequired("file")
}

func runMapBatch(cmd *cobra.Command, args []string) error {
	var in io.Reader = cmd.InOrStdin()
	if batchFile != "-" {
		f, err := os.Open(batchFile)
		if err != nil {
			return fmt.Errorf("failed to open batch file: %w", err)
		}
		defer f.Close()
		in = f
	}

	rows, err := batch.ReadRows(in)
	if err != nil {
		return err
	}

	var ow *bool
	if cmd.Flags().Changed("overwrite") {
		ow = engage.Bool(batchOverwrite)
	}

	concurrency := cfg.Batch.Concurrency
	if batchConcurrency > 0 {
		concurrency = batchConcurrency
	}

	logger.Info().
		Int("rows", len(rows)).
		Int("concurrency", concurrency).
		Msg("Mapping identifiers")

	result := batch.Map(cmd.Context(), client, rows, ow, concurrency, logger)
	if err := printJSON(cmd.OutOrStdout(), result); err != nil {
		return err
	}

	if len(result.Failed) > 0 {
		return fmt.Errorf("%d of %d rows failed", len(result.Failed), result.Requested)
	}
	return nil
}
