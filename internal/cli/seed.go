package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/jens-limbach/SSv2-webhook-sync-and-async/internal/cli/client"
	"github.com/jens-limbach/SSv2-webhook-sync-and-async/internal/cli/output"
	"github.com/jens-limbach/SSv2-webhook-sync-and-async/internal/seeder"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Send generated account events to a running service",
	Long: `Generate realistic account events and post them to the scoring webhook.

Useful for exercising a local service or demo environment. Payload shapes
vary the way real CRM traffic does: most events arrive wrapped in a data
envelope, some bare, and classifications are skewed towards A and B.`,
	Example: `  scorectl seed --count 50
  scorectl seed --count 20 --interval 200ms --async
  scorectl seed --count 100 --seed 42`,
	RunE: runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)

	seedCmd.Flags().Int("count", 10, "number of events to send")
	seedCmd.Flags().Duration("interval", 0, "pause between events")
	seedCmd.Flags().Int64("seed", 0, "random seed (0 = random)")
	seedCmd.Flags().Bool("async", false, "use the asynchronous endpoint")
}

func runSeed(cmd *cobra.Command, args []string) error {
	count, _ := cmd.Flags().GetInt("count")
	interval, _ := cmd.Flags().GetDuration("interval")
	seed, _ := cmd.Flags().GetInt64("seed")
	async, _ := cmd.Flags().GetBool("async")

	url, err := resolveServiceURL(cmd)
	if err != nil {
		return err
	}
	c := client.New(url)

	send := func(body []byte) error {
		if async {
			_, err := c.SendAsync(body)
			return err
		}
		_, err := c.SendSync(body)
		return err
	}

	runner := seeder.NewRunner(seeder.Config{
		Count:    count,
		Interval: interval,
		Seed:     seed,
	}, send)

	start := time.Now()
	summary := runner.Run()

	if summary.Failed > 0 {
		output.Warn("Sent %d events, %d failed (%s)", summary.Sent, summary.Failed, time.Since(start).Round(time.Millisecond))
		return nil
	}
	output.Success("Sent %d events in %s", summary.Sent, time.Since(start).Round(time.Millisecond))
	return nil
}
