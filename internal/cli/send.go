package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jens-limbach/SSv2-webhook-sync-and-async/internal/cli/client"
	"github.com/jens-limbach/SSv2-webhook-sync-and-async/internal/cli/output"
	"github.com/jens-limbach/SSv2-webhook-sync-and-async/internal/models"
)

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Send an account event to the scoring webhook",
	Long: `Send a single account event to the scorehook service.

Builds a minimal event from --id and --classification, or sends the raw
JSON body from --file as-is. By default the event targets the synchronous
endpoint and prints the scored record; --async hands it to the deferred
pipeline instead.`,
	Example: `  scorectl send --id 7f9a1c22 --classification A
  scorectl send --id 7f9a1c22 -c B --async
  scorectl send --file event.json`,
	RunE: runSend,
}

func init() {
	rootCmd.AddCommand(sendCmd)

	sendCmd.Flags().String("id", "", "account identifier")
	sendCmd.Flags().StringP("classification", "c", "", "account classification (A, B or C)")
	sendCmd.Flags().String("file", "", "read the event body from a JSON file")
	sendCmd.Flags().Bool("bare", false, "send the payload without the data envelope")
	sendCmd.Flags().Bool("async", false, "use the asynchronous endpoint")
}

func runSend(cmd *cobra.Command, args []string) error {
	id, _ := cmd.Flags().GetString("id")
	classification, _ := cmd.Flags().GetString("classification")
	file, _ := cmd.Flags().GetString("file")
	bare, _ := cmd.Flags().GetBool("bare")
	async, _ := cmd.Flags().GetBool("async")

	body, err := buildEventBody(id, classification, file, bare)
	if err != nil {
		return err
	}

	url, err := resolveServiceURL(cmd)
	if err != nil {
		return err
	}
	c := client.New(url)

	if async {
		message, err := c.SendAsync(body)
		if err != nil {
			return fmt.Errorf("send failed: %w", err)
		}
		output.Success("Event accepted: %s", message)
		return nil
	}

	scored, err := c.SendSync(body)
	if err != nil {
		return fmt.Errorf("send failed: %w", err)
	}

	output.Success("Score %v applied to account %s", scored.Extensions()[models.FieldCustomScore], scored.ID())
	return output.JSON(scored)
}

// buildEventBody assembles the request body, either from a file or from
// the --id / --classification flags.
func buildEventBody(id, classification, file string, bare bool) ([]byte, error) {
	if file != "" {
		body, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read event file: %w", err)
		}
		return body, nil
	}

	if id == "" {
		return nil, fmt.Errorf("either --id or --file is required")
	}

	record := map[string]interface{}{models.FieldID: id}
	if classification != "" {
		record[models.FieldClassification] = classification
	}

	payload := map[string]interface{}{"currentImage": record}
	if bare {
		return json.Marshal(payload)
	}
	return json.Marshal(map[string]interface{}{"data": payload})
}
