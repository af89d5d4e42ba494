package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var deleteCmd = &cobra.Command{
	Use:   "delete [plan_name] [record_id]",
	Short: "Delete a homework record",
	Long: `Delete a homework record and its stored images.

Example:
  gradectl delete math-week3 1756300000123`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		plan := args[0]
		recordID := args[1]

		url := viper.GetString("url")

		client := NewGradeClient(url)
		result, err := client.DeleteRecord(plan, recordID)
		if err != nil {
			if apiErr, ok := err.(*APIError); ok {
				cmd.Printf("Error (%d): %s\n", apiErr.StatusCode, apiErr.Message)
			} else {
				cmd.Printf("Error: %v\n", err)
			}
			return
		}

		cmd.Printf("✓ Record deleted!\nID: %s\nStudent: %s\nImages removed: %d\n",
			result.RecordID, result.Student, result.ImagesCount)
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
