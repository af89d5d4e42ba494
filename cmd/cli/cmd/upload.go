package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var uploadCmd = &cobra.Command{
	Use:   "upload [plan_name] [image files...]",
	Short: "Upload homework images for grading",
	Long: `Upload one or more homework images for a student. The server queues the
record for OCR and grading in the background; poll it with "gradectl status".

Example:
  gradectl upload math-week3 --student "Zhang San" page1.jpg page2.jpg`,
	Args: cobra.MinimumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		plan := args[0]
		files := args[1:]
		student, _ := cmd.Flags().GetString("student")

		url := viper.GetString("url")

		if student == "" {
			cmd.Println("Error: --student is required")
			return
		}

		client := NewGradeClient(url)
		result, err := client.Upload(plan, student, files)
		if err != nil {
			if apiErr, ok := err.(*APIError); ok {
				cmd.Printf("Error (%d): %s\n", apiErr.StatusCode, apiErr.Message)
			} else {
				cmd.Printf("Error: %v\n", err)
			}
			return
		}

		cmd.Printf("✓ Homework uploaded!\nRecord ID: %s\nStatus: %s\n\nCheck progress with:\n  gradectl status %s %s\n",
			result.RecordID, result.Status, plan, result.RecordID)
	},
}

func init() {
	uploadCmd.Flags().StringP("student", "s", "", "Student name (required)")

	rootCmd.AddCommand(uploadCmd)
}
