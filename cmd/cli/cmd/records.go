package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var recordsCmd = &cobra.Command{
	Use:   "records [plan_name]",
	Short: "List a plan's homework records",
	Long: `List every homework record of a plan, newest first, with its grading
status.

Example:
  gradectl records math-week3`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		plan := args[0]

		url := viper.GetString("url")

		client := NewGradeClient(url)
		records, err := client.ListRecords(plan)
		if err != nil {
			if apiErr, ok := err.(*APIError); ok {
				cmd.Printf("Error (%d): %s\n", apiErr.StatusCode, apiErr.Message)
			} else {
				cmd.Printf("Error: %v\n", err)
			}
			return
		}

		if len(records) == 0 {
			cmd.Println("No records found")
			return
		}

		cmd.Printf("%sRecords for %s%s\n", colorBold, plan, colorReset)
		cmd.Println("──────────────────────────────")
		for _, rec := range records {
			cmd.Printf("%s  %-20s %s", rec.ID, rec.Student, colorizeStatus(rec.Status))
			if rec.RegradeCount > 0 {
				cmd.Printf("  %s(regraded %dx)%s", colorDim, rec.RegradeCount, colorReset)
			}
			cmd.Println()
		}
	},
}

func init() {
	rootCmd.AddCommand(recordsCmd)
}
