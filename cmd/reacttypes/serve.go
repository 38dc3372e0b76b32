package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/gnana997/reacttypes/pkg/catalog"
	mcpserver "github.com/gnana997/reacttypes/pkg/mcp"
	"github.com/gnana997/reacttypes/pkg/mcplog"
)

var (
	serveCatalog string
	serveRoot    string
	serveLogFile string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server on stdio",
	Long: `serve exposes extract_types, get_component_types, list_components and
query_catalog over the MCP stdio transport. Without a catalog only
extract_types is useful.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime(cmd)
		if err != nil {
			return err
		}
		defer rt.Close()

		cat, err := loadServeCatalog(rt.settings)
		if err != nil {
			return err
		}

		root := serveRoot
		if root == "" && cat != nil {
			root = cat.Root()
		}
		if root == "" {
			if root, err = os.Getwd(); err != nil {
				return err
			}
		}
		if root, err = filepath.Abs(root); err != nil {
			return err
		}

		callLog, err := mcplog.NewLogger(serveLogFile)
		if err != nil {
			return fmt.Errorf("open call log: %w", err)
		}
		defer callLog.Close()

		srv := mcpserver.NewServer(rt.engine, cat, mcpserver.Options{
			Dialect: rt.settings.Dialect,
			Root:    root,
			CallLog: callLog,
		})
		rt.logger.Debug("serving", "root", root, "catalog", cat != nil)
		return srv.ServeStdio()
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveCatalog, "catalog", "", "Catalog written by scan (default: config catalog)")
	serveCmd.Flags().StringVar(&serveRoot, "root", "", "Directory relative file arguments resolve against (default: catalog root)")
	serveCmd.Flags().StringVar(&serveLogFile, "log-file", "", "Append one JSON line per tool call to this file")
	rootCmd.AddCommand(serveCmd)
}

// loadServeCatalog loads the catalog named by --catalog or the settings.
// No configured catalog is not an error; a configured but unreadable one is.
func loadServeCatalog(s settings) (*catalog.Catalog, error) {
	path := serveCatalog
	if path == "" {
		path = s.Catalog
	}
	if path == "" {
		return nil, nil
	}
	cat, err := catalog.LoadFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	return cat, nil
}
