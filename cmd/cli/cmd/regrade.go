package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var regradeCmd = &cobra.Command{
	Use:   "regrade [plan_name] [record_ids...]",
	Short: "Re-grade homework records with the current prompt",
	Long: `Queue records of a plan for re-grading with the plan's current prompt.
Without record ids, every record of the plan is re-graded. The existing
result of each record is archived as its previous result.

Example:
  gradectl regrade math-week3
  gradectl regrade math-week3 1756300000123 1756300000456`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		plan := args[0]
		recordIDs := args[1:]

		url := viper.GetString("url")

		client := NewGradeClient(url)
		result, err := client.Regrade(plan, recordIDs)
		if err != nil {
			if apiErr, ok := err.(*APIError); ok {
				cmd.Printf("Error (%d): %s\n", apiErr.StatusCode, apiErr.Message)
			} else {
				cmd.Printf("Error: %v\n", err)
			}
			return
		}

		cmd.Printf("✓ Queued %d record(s) for re-grading\n", result.Count)
	},
}

func init() {
	rootCmd.AddCommand(regradeCmd)
}
