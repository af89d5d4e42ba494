package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var promptCmd = &cobra.Command{
	Use:   "prompt [plan_name]",
	Short: "Replace a plan's grading prompt",
	Long: `Replace the grading prompt of an existing plan. Records already graded
keep their results; run "gradectl regrade" to apply the new prompt to them.

Example:
  gradectl prompt math-week3 --prompt "Stricter rubric: deduct points for missing steps"`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		plan := args[0]
		prompt, _ := cmd.Flags().GetString("prompt")

		url := viper.GetString("url")

		if prompt == "" {
			cmd.Println("Error: --prompt is required")
			return
		}

		client := NewGradeClient(url)
		result, err := client.UpdatePrompt(plan, prompt)
		if err != nil {
			if apiErr, ok := err.(*APIError); ok {
				cmd.Printf("Error (%d): %s\n", apiErr.StatusCode, apiErr.Message)
			} else {
				cmd.Printf("Error: %v\n", err)
			}
			return
		}

		cmd.Printf("✓ Prompt updated for plan %s\n", result.PlanName)
	},
}

func init() {
	promptCmd.Flags().StringP("prompt", "p", "", "New grading prompt (required)")

	rootCmd.AddCommand(promptCmd)
}
