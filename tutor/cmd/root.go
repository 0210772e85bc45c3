// Command-line client for the History Tutor server
package main

import (
	"fmt"
	"os"

	"historytutor/tutor/config"
	"historytutor/tutor/utils/color"
	"historytutor/tutor/utils/logging"

	"github.com/spf13/cobra"
)

var (
	cfg          config.Config
	serverURL    string
	noColor      bool
	settingsPath string
)

var rootCmd = &cobra.Command{
	Use:   "tutor",
	Short: "Talk to the History Tutor from your terminal",
	Long: `A terminal client for the History Tutor server.

  tutor chat                         # start a conversation
  tutor locales push es es.properties # upload a translation overlay`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSettings(settingsPath)
		if err != nil {
			return err
		}
		s.apply(cmd)
		if noColor {
			color.Disable()
		}
		return nil
	},
}

func init() {
	cfg = config.LoadConfig()
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", cfg.ServerURL, "History Tutor server URL")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable coloured output")
	rootCmd.PersistentFlags().StringVar(&settingsPath, "settings", defaultSettingsPath(), "Client settings file (YAML)")
}

func main() {
	logging.InitLogger(cfg.LogDir)
	defer logging.Sync()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.ColorError("Error: "+err.Error()))
		logging.Sync()
		os.Exit(1)
	}
}
