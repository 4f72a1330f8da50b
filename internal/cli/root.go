// Package cli implements the scorectl commands.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	cliconfig "github.com/jens-limbach/SSv2-webhook-sync-and-async/internal/cli/config"
)

var (
	cfgFile    string
	serviceURL string
	cfg        *cliconfig.Config
)

var rootCmd = &cobra.Command{
	Use:   "scorectl",
	Short: "Scorehook CLI",
	Long: `scorectl is the command-line companion for the scorehook service.

Send account events to the sync or async scoring webhook, seed a running
service with generated traffic, and check service health from your terminal.`,
	Version: "0.1.0",
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.scorehook/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&serviceURL, "service-url", "", "scorehook service URL (overrides the profile)")
	rootCmd.PersistentFlags().String("profile", "", "profile to use")
}

func initConfig() {
	var err error
	cfg, err = cliconfig.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Could not load config: %v\n", err)
		cfg = cliconfig.Default()
	}
}

// resolveServiceURL returns the --service-url flag value when set, falling
// back to the selected profile.
func resolveServiceURL(cmd *cobra.Command) (string, error) {
	if serviceURL != "" {
		return serviceURL, nil
	}

	profileName, _ := cmd.Flags().GetString("profile")
	profile, err := cfg.GetProfile(profileName)
	if err != nil {
		return "", err
	}

	return profile.ServiceURL, nil
}
