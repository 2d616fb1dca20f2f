// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"

	"github.com/staffpanel/staffpanel/internal/config"
)

var (
	configPath string // directory holding main.toml
	cfg        config.Config
)

var rootCmd = &cobra.Command{
	Use:   "staffpanel",
	Short: "staffpanel is a Discord backed staff dashboard",
	Long: `staffpanel is a web dashboard for a Discord staff guild.
Logged in staff browse the member roster and apply commendations,
demerits, reprimands, suspensions and summons, each logged to a channel.`,
	Args: cobra.OnlyValidArgs,
}

func init() { //nolint: gochecknoinits
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "directory of main.toml (default ./etc/)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
