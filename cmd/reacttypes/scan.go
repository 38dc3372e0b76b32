package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/gnana997/reacttypes/pkg/indexer"
)

var scanOutput string

var scanCmd = &cobra.Command{
	Use:   "scan [DIR]",
	Short: "Extract every component under DIR into a catalog",
	Long: `scan discovers sources under DIR (default: the current directory), extracts
each one independently and writes the catalog as JSON. A file that fails to
extract is recorded with its error and does not stop the scan.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		ix, err := rt.newIndexer(dirArg(args))
		if err != nil {
			return err
		}
		if _, err := rt.scan(cmd.Context(), ix); err != nil {
			return err
		}

		output := scanOutput
		if output == "" {
			output = rt.settings.Catalog
		}
		if output == "" || output == "-" {
			return writeJSON(cmd.OutOrStdout(), ix.Catalog(), true)
		}
		if err := ix.Catalog().Save(output); err != nil {
			return err
		}
		rt.logger.Info("catalog written", "path", output)
		return nil
	},
}

func init() {
	scanCmd.Flags().StringVarP(&scanOutput, "output", "o", "", "Catalog file to write (default: config catalog, else stdout)")
	rootCmd.AddCommand(scanCmd)
}

func dirArg(args []string) string {
	if len(args) == 0 {
		return "."
	}
	return args[0]
}

func (r *runtime) newIndexer(root string) (*indexer.Indexer, error) {
	opts, err := r.extractOptions()
	if err != nil {
		return nil, err
	}
	scan := indexer.DefaultScanOptions()
	if len(r.settings.Include) > 0 {
		scan.Include = r.settings.Include
	}
	if len(r.settings.Exclude) > 0 {
		scan.Exclude = r.settings.Exclude
	}
	scan.Workers = r.settings.Workers
	return indexer.New(root, indexer.Config{
		Engine:  r.engine,
		Extract: opts,
		Scan:    scan,
		Watch:   indexer.DefaultWatchOptions(),
		Logger:  r.logger,
	})
}

// scan runs a full scan. Per-file failures are recorded in the catalog and
// logged by the scanner; only an unusable root is an error.
func (r *runtime) scan(ctx context.Context, ix *indexer.Indexer) (*indexer.ScanStats, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	return ix.Scan(ctx, func(done, total int, file string) {
		r.logger.Debug("extracted", "file", file, "done", done, "total", total)
	})
}
