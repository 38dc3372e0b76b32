package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var watchOutput string

var watchCmd = &cobra.Command{
	Use:   "watch [DIR]",
	Short: "Scan DIR and keep the catalog current as files change",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		parent := cmd.Context()
		if parent == nil {
			parent = context.Background()
		}
		ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
		defer stop()

		ix, err := rt.newIndexer(dirArg(args))
		if err != nil {
			return err
		}
		if _, err := rt.scan(ctx, ix); err != nil {
			return err
		}

		output := watchOutput
		if output == "" {
			output = rt.settings.Catalog
		}
		save := func() {
			if output == "" {
				return
			}
			if err := ix.Catalog().Save(output); err != nil {
				rt.logger.Error("failed to write catalog", "path", output, "error", err)
			}
		}
		save()

		fw, err := ix.Watch(ctx)
		if err != nil {
			return err
		}
		defer fw.Stop()

		for ev := range fw.Events() {
			rt.logger.Info("catalog updated",
				"file", ev.FilePath,
				"op", ev.Op,
				"updated", len(ev.Updated),
				"removed", ev.Removed,
			)
			save()
		}
		return nil
	},
}

func init() {
	watchCmd.Flags().StringVarP(&watchOutput, "output", "o", "", "Catalog file rewritten after each change (default: config catalog)")
	rootCmd.AddCommand(watchCmd)
}
