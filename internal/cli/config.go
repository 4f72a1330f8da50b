package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jens-limbach/SSv2-webhook-sync-and-async/internal/cli/output"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage scorectl configuration",
}

var configSetURLCmd = &cobra.Command{
	Use:   "set-url <url>",
	Short: "Set the service URL for the current profile",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigSetURL,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the active profile",
	RunE:  runConfigShow,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configSetURLCmd)
	configCmd.AddCommand(configShowCmd)
}

func runConfigSetURL(cmd *cobra.Command, args []string) error {
	profileName, _ := cmd.Flags().GetString("profile")
	if profileName == "" {
		profileName = cfg.CurrentProfile
	}

	if err := cfg.SaveProfile(profileName, args[0]); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	output.Success("Profile '%s' now points at %s", profileName, args[0])
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	profileName, _ := cmd.Flags().GetString("profile")
	profile, err := cfg.GetProfile(profileName)
	if err != nil {
		return err
	}

	name := profileName
	if name == "" {
		name = cfg.CurrentProfile
	}

	output.Info("Profile:     %s", name)
	output.Info("Service URL: %s", profile.ServiceURL)
	return nil
}
