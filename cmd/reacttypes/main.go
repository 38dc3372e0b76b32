// Command reacttypes extracts React component prop types from Flow and
// TypeScript sources and serves them to tools.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const version = "0.1.0-dev"

var (
	configPath string
	dialect    string
	logLevel   string
	logFormat  string
)

var rootCmd = &cobra.Command{
	Use:   "reacttypes",
	Short: "Extract prop types of annotated React components",
	Long: `reacttypes reads components marked with @ReactComponent and reports the
shape of their props, following imports across modules.`,
	SilenceUsage: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "reacttypes %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to .reacttypes/config.yaml (default: searched upward)")
	rootCmd.PersistentFlags().StringVarP(&dialect, "dialect", "d", "", "Source dialect: typescript or flow")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log format: text or json")
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
