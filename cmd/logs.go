package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/facedeck/facedeck/internal/config"
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Show the recognition audit trail",
	RunE:  runLogs,
}

func init() {
	rootCmd.AddCommand(logsCmd)

	logsCmd.Flags().Int("page", 1, "Page number")
	logsCmd.Flags().Int("size", 20, "Page size")
	logsCmd.Flags().String("status", "", "Filter by outcome (success, no_match, no_face, error)")
}

func runLogs(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	manager, client, err := newBackend(cfg)
	if err != nil {
		return err
	}
	if err := requireLogin(manager); err != nil {
		return err
	}

	page := mustGetInt(cmd, "page")
	size := mustGetInt(cmd, "size")
	status := mustGetString(cmd, "status")

	logs, err := client.RecognitionLogs(cmd.Context(), page, size, status)
	if err != nil {
		return fmt.Errorf("could not get recognition logs: %w", err)
	}

	if len(logs.Logs) == 0 {
		fmt.Println("No log entries")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tSTATUS\tPERSON\tCONFIDENCE\tDURATION")
	for _, entry := range logs.Logs {
		person := entry.PersonName
		if person == "" {
			person = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%.0f%%\t%.0fms\n",
			entry.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			entry.Status, person, entry.Confidence*100, entry.ProcessingTime*1000)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("Page %d of %d entries\n", logs.Page, logs.Total)
	return nil
}
