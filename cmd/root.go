package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	configDir  string
	userFlag   string
	apiKeyFlag string
)

var rootCmd = &cobra.Command{
	Use:   "modlist-manager",
	Short: "Curate modlists and keep them in sync with your Nexus Mods account",
	Long: `modlist-manager keeps a local mirror of the Nexus Mods catalogue,
lets you curate named modlists, and keeps a "Nexus Tracked Mods" list in
sync with your Nexus Tracking Centre.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configDir, "config", ".", "directory containing the .env file")
	rootCmd.PersistentFlags().StringVarP(&userFlag, "user", "u", "", "username to act as")
	rootCmd.PersistentFlags().StringVar(&apiKeyFlag, "api-key", "", "Nexus API key (overrides NEXUS_API_KEY)")
}
