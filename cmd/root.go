// ABOUTME: Root command for the catalog-console CLI
// ABOUTME: Handles global flags and loads the .env file before any subcommand runs

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/storeops/catalog-console/config"
)

var (
	envFile    string
	jsonOutput bool
)

// rootCmd is the base command
var rootCmd = &cobra.Command{
	Use:   "catalog-console",
	Short: "Admin console for the product catalog API",
	Long: `catalog-console signs a store manager in to the product catalog API and
browses the admin product list, either in a web browser (serve) or in the
terminal (browse).

Environment Variables:
  API_BASE             Origin of the catalog API (required)
  API_PATH             API namespace used in /api/{path}/admin/products (required)
  PORT                 HTTP port for serve (default: 8080)
  VIEW_STORE           memory or redis (default: memory)
  TOKEN_FILE           Session file used by browse and check`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return config.LoadDotEnv(envFile)
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "Env file to load (default: .env if present)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output JSON instead of human-readable text")
}

// IsJSONOutput returns whether JSON output is requested
func IsJSONOutput() bool {
	return jsonOutput
}
