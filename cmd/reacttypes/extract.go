package main

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/gnana997/reacttypes/pkg/catalog"
	"github.com/gnana997/reacttypes/pkg/extract"
)

var (
	extractSelect   string
	extractPretty   bool
	extractFilename string
)

var extractCmd = &cobra.Command{
	Use:   "extract FILE",
	Short: "Print the prop types of the components in FILE as JSON",
	Long: `extract prints {"classes": [...], "functions": [...]} for FILE.
Use - to read the module from stdin; --filename then anchors relative imports.`,
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

		var res *extract.Result
		if args[0] == "-" {
			src, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("read stdin: %w", err)
			}
			if extractFilename != "" {
				if opts.Filename, err = filepath.Abs(extractFilename); err != nil {
					return err
				}
			}
			res, err = rt.engine.Extract(src, opts)
			if err != nil {
				return err
			}
		} else {
			path, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}
			if res, err = rt.engine.ExtractFile(path, opts); err != nil {
				return err
			}
		}
		var out any = res.Data()
		if extractSelect != "" {
			if out, err = catalog.Select(out, extractSelect); err != nil {
				return err
			}
		}
		return writeJSON(cmd.OutOrStdout(), out, extractPretty)
	},
}

func init() {
	extractCmd.Flags().StringVarP(&extractSelect, "select", "s", "", "JSONPath applied to the result, e.g. $.classes[*].name.name")
	extractCmd.Flags().BoolVarP(&extractPretty, "pretty", "p", false, "Indent the JSON output")
	extractCmd.Flags().StringVar(&extractFilename, "filename", "", "Path used to resolve imports when reading stdin")
	rootCmd.AddCommand(extractCmd)
}

func writeJSON(w io.Writer, v any, pretty bool) error {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}
