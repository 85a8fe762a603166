package commands

import (
	"fmt"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/drivernote/drivernote/ai/tracker"
	"github.com/drivernote/drivernote/errors"
)

// UsageCmd shows model usage and cost statistics
var UsageCmd = &cobra.Command{
	Use:   "usage",
	Short: "Show model usage and cost statistics",
	Long: `Show model usage and cost statistics from the online store database.

Every model call made by 'drivernote note' is recorded with its token
count and estimated cost.

Examples:
  drivernote usage
  drivernote usage --days 7`,
	RunE: runUsage,
}

var usageDaysFlag int

func init() {
	UsageCmd.Flags().IntVar(&usageDaysFlag, "days", 30, "Number of days to include")
}

func runUsage(cmd *cobra.Command, args []string) error {
	client, err := openFeatureStore(cmd)
	if err != nil {
		return err
	}
	defer client.Close()

	since := time.Now().AddDate(0, 0, -usageDaysFlag)
	t := tracker.NewUsageTracker(client.DB())

	stats, err := t.GetUsageStats(since)
	if err != nil {
		return errors.Wrap(err, "failed to query usage stats")
	}

	pterm.DefaultSection.Printf("Model usage (last %d days)", usageDaysFlag)
	pterm.Printf("Total requests:  %d\n", stats.TotalRequests)
	pterm.Printf("Successful:      %d (%.1f%%)\n", stats.SuccessfulRequests, stats.SuccessRate*100)
	pterm.Printf("Total tokens:    %d\n", stats.TotalTokens)
	pterm.Printf("Estimated cost:  $%.4f\n", stats.TotalCost)
	pterm.Println()

	if stats.TotalRequests == 0 {
		pterm.Info.Println("No model usage recorded yet")
		return nil
	}

	breakdown, err := t.GetModelBreakdown(since)
	if err != nil {
		return errors.Wrap(err, "failed to query model breakdown")
	}
	if len(breakdown) == 0 {
		return nil
	}

	tableData := pterm.TableData{{"Model", "Provider", "Requests", "Tokens", "Cost"}}
	for _, mb := range breakdown {
		tableData = append(tableData, []string{
			mb.ModelName,
			mb.ModelProvider,
			fmt.Sprintf("%d", mb.RequestCount),
			fmt.Sprintf("%d", mb.TotalTokens),
			fmt.Sprintf("$%.4f", mb.TotalCost),
		})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(tableData).Render()
}
