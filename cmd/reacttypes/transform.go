package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/gnana997/reacttypes/pkg/plugin"
)

var transformOutput string

var transformCmd = &cobra.Command{
	Use:   "transform FILE",
	Short: "Append Component.__types assignments to FILE",
	Long: `transform writes FILE followed by one Name.__types = {...}; statement per
@ReactComponent declaration and per @WithProps variable. Files without
components are written unchanged.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		opts, err := rt.extractOptions()
		if err != nil {
			return err
		}
		path, err := filepath.Abs(args[0])
		if err != nil {
			return err
		}

		out, err := plugin.New(rt.engine, rt.logger).TransformFile(path, opts)
		if err != nil {
			return err
		}
		rt.logger.Info("transformed", "file", path, "assignments", len(out.Assignments))

		if transformOutput == "" || transformOutput == "-" {
			_, err = cmd.OutOrStdout().Write(out.Code)
			return err
		}
		if dir := filepath.Dir(transformOutput); dir != "" {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("create output directory: %w", err)
			}
		}
		return os.WriteFile(transformOutput, out.Code, 0644)
	},
}

func init() {
	transformCmd.Flags().StringVarP(&transformOutput, "output", "o", "", "Write the transformed module here instead of stdout")
	rootCmd.AddCommand(transformCmd)
}
