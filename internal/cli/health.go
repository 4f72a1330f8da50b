package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jens-limbach/SSv2-webhook-sync-and-async/internal/cli/client"
	"github.com/jens-limbach/SSv2-webhook-sync-and-async/internal/cli/output"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check scorehook service health",
	RunE:  runHealth,
}

func init() {
	rootCmd.AddCommand(healthCmd)
}

func runHealth(cmd *cobra.Command, args []string) error {
	url, err := resolveServiceURL(cmd)
	if err != nil {
		return err
	}

	h, err := client.New(url).Health()
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}

	output.Success("%s is %s (checked at %s)", h.Service, h.Status, h.Timestamp)
	return nil
}
