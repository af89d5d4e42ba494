package cmd

import (
	"fmt"
	"gradeplane/pkg/api"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var statusCmd = &cobra.Command{
	Use:   "status [plan_name] [record_id]",
	Short: "Get status of a homework record",
	Long: `Retrieve a homework record, including its grading status (pending,
processing, done, failed), recognized text, and grading result.`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		plan := args[0]
		recordID := args[1]

		url := viper.GetString("url")

		client := NewGradeClient(url)
		record, err := client.GetRecord(plan, recordID)
		if err != nil {
			if apiErr, ok := err.(*APIError); ok {
				cmd.Printf("Error (%d): %s\n", apiErr.StatusCode, apiErr.Message)
			} else {
				cmd.Printf("Error: %v\n", err)
			}
			return
		}

		printRecord(cmd, record)
	},
}

func printRecord(cmd *cobra.Command, record *api.Record) {
	icon := statusIcon(record.Status)
	cmd.Printf("%s %sHomework Record%s\n", icon, colorBold, colorReset)
	cmd.Println("──────────────────────────────")

	cmd.Printf("%sID:%s        %s\n", colorDim, colorReset, record.ID)
	cmd.Printf("%sStudent:%s   %s\n", colorDim, colorReset, record.Student)
	cmd.Printf("%sStatus:%s    %s\n", colorDim, colorReset, colorizeStatus(record.Status))
	cmd.Printf("%sImages:%s    %d\n", colorDim, colorReset, len(record.Images))
	cmd.Printf("%sRegrades:%s  %d\n", colorDim, colorReset, record.RegradeCount)

	if record.Error != "" {
		cmd.Printf("%sError:%s     %s%s%s\n", colorDim, colorReset, colorRed, record.Error, colorReset)
	}

	cmd.Printf("%sUploaded:%s  %s\n", colorDim, colorReset, formatTimeWithRelative(record.CreatedAt))
	cmd.Printf("%sUpdated:%s   %s\n", colorDim, colorReset, formatTimeWithRelative(record.UpdatedAt))

	if record.Result != "" {
		cmd.Printf("\n%sResult%s\n", colorBold, colorReset)
		cmd.Println("──────────────────────────────")
		cmd.Println(record.Result)
	}

	if record.PreviousResult != "" {
		cmd.Printf("\n%sPrevious result%s\n", colorDim, colorReset)
		cmd.Println("──────────────────────────────")
		cmd.Println(record.PreviousResult)
	}
}

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorBold   = "\033[1m"
	colorDim    = "\033[2m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
)

func statusIcon(status string) string {
	switch status {
	case "done":
		return colorGreen + "✓" + colorReset
	case "failed":
		return colorRed + "✗" + colorReset
	case "processing":
		return colorYellow + "⏳" + colorReset
	case "pending":
		return colorCyan + "◯" + colorReset
	default:
		return "•"
	}
}

func colorizeStatus(status string) string {
	icon := statusIcon(status)
	switch status {
	case "done":
		return icon + " " + colorGreen + status + colorReset
	case "failed":
		return icon + " " + colorRed + status + colorReset
	case "processing":
		return icon + " " + colorYellow + status + colorReset
	case "pending":
		return icon + " " + colorCyan + status + colorReset
	default:
		return status
	}
}

func formatTimeWithRelative(t time.Time) string {
	relative := relativeTime(t)
	return fmt.Sprintf("%s %s(%s ago)%s", t.Format("Mon, 02 Jan 2006 15:04:05 MST"), colorDim, relative, colorReset)
}

func relativeTime(t time.Time) string {
	duration := time.Since(t)

	if duration < time.Minute {
		return fmt.Sprintf("%ds", int(duration.Seconds()))
	} else if duration < time.Hour {
		return fmt.Sprintf("%dm", int(duration.Minutes()))
	} else if duration < 24*time.Hour {
		return fmt.Sprintf("%dh", int(duration.Hours()))
	} else {
		days := int(duration.Hours() / 24)
		if days == 1 {
			return "1 day"
		}
		return fmt.Sprintf("%d days", days)
	}
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
