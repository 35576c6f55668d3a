package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/quitplan/internal/ports/primary"
	"github.com/example/quitplan/internal/wire"
)

var logCmd = &cobra.Command{
	Use:   "log [entity-id]",
	Short: "View the audit trail",
	Long:  "Show create, update and delete activity on plans, stages, tasks and ratings",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		actorID, _ := cmd.Flags().GetString("actor")
		entityType, _ := cmd.Flags().GetString("type")

		filters := primary.LogFilters{
			ActorID:    actorID,
			EntityType: entityType,
			Limit:      limit,
		}
		if len(args) > 0 {
			filters.EntityID = args[0]
		}

		entries, err := wire.LogService().ListLogs(NewContext(), filters)
		if err != nil {
			return fmt.Errorf("failed to fetch logs: %w", err)
		}

		printLogEntries(entries)
		return nil
	},
}

func printLogEntries(entries []*primary.LogEntry) {
	if len(entries) == 0 {
		fmt.Println("No log entries found.")
		return
	}

	fmt.Printf("Found %d log entries:\n\n", len(entries))

	// Oldest first
	for i := len(entries) - 1; i >= 0; i-- {
		printLogEntry(entries[i])
	}
}

func printLogEntry(entry *primary.LogEntry) {
	actorStr := entry.ActorID
	if actorStr == "" {
		actorStr = "-"
	}

	fmt.Printf("%s | %-12s | %s %s | %s/%s",
		formatTimestamp(entry.CreatedAt),
		actorStr,
		getActionIcon(entry.Action),
		entry.Action,
		entry.EntityType,
		entry.EntityID,
	)

	if entry.Action == "update" && entry.FieldName != "" {
		fmt.Printf(" | %s: %s -> %s", entry.FieldName, entry.OldValue, entry.NewValue)
	}

	fmt.Println()
}

func getActionIcon(action string) string {
	switch action {
	case "create":
		return "+"
	case "update":
		return "~"
	case "delete":
		return "-"
	default:
		return "?"
	}
}

func formatTimestamp(ts string) string {
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return ts
	}
	return t.Format("2006-01-02 15:04:05")
}

// LogCmd returns the log command.
func LogCmd() *cobra.Command {
	logCmd.Flags().IntP("limit", "n", 50, "Number of entries to show")
	logCmd.Flags().String("actor", "", "Filter by actor ID")
	logCmd.Flags().String("type", "", "Filter by entity type (plan, stage, task, rating)")
	return logCmd
}
