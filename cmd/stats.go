package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/facedeck/facedeck/internal/config"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show recognition and registry statistics",
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)

	statsCmd.Flags().Int("days", 7, "Days of analytics history to include")
	statsCmd.Flags().Bool("analytics", false, "Also show daily trends and top persons")
}

func runStats(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	manager, client, err := newBackend(cfg)
	if err != nil {
		return err
	}
	if err := requireLogin(manager); err != nil {
		return err
	}

	dash, err := client.DashboardStats(cmd.Context())
	if err != nil {
		return fmt.Errorf("could not get dashboard stats: %w", err)
	}

	fmt.Println("Registry")
	fmt.Printf("  Persons:        %d (%d active)\n", dash.TotalPeople, dash.ActivePeople)
	fmt.Printf("  Photos:         %d\n", dash.TotalPhotos)
	fmt.Println("Recognition")
	fmt.Printf("  Total:          %d\n", dash.TotalRecognitions)
	fmt.Printf("  Today:          %d\n", dash.RecognitionsToday)
	fmt.Printf("  Success rate:   %.1f%%\n", dash.SuccessRate*100)

	stats, err := client.RecognitionStats(cmd.Context())
	if err == nil {
		fmt.Printf("  Avg confidence: %.1f%%\n", stats.AvgConfidence*100)
		fmt.Printf("  Avg time:       %.0fms\n", stats.AvgProcessingTime*1000)
	}

	if !mustGetBool(cmd, "analytics") {
		return nil
	}

	overview, err := client.AnalyticsOverview(cmd.Context(), mustGetInt(cmd, "days"))
	if err != nil {
		return fmt.Errorf("could not get analytics: %w", err)
	}

	if len(overview.DailyRecognitions) > 0 {
		fmt.Println("Daily recognitions")
		for _, day := range overview.DailyRecognitions {
			fmt.Printf("  %s  %d\n", day.Date, day.Count)
		}
	}
	if len(overview.TopPersons) > 0 {
		fmt.Println("Most recognized")
		for _, top := range overview.TopPersons {
			fmt.Printf("  %-24s %d\n", top.PersonName, top.Count)
		}
	}
	return nil
}
