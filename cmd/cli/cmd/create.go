package cmd

import (
	"gradeplane/pkg/api"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new grading plan",
	Long: `Create a new grading plan with a grading prompt.

Example:
  gradectl create --name "math-week3" --prompt "Grade this math homework and list mistakes"
  gradectl create --name "english-essay" --description "Unit 5 essays" --prompt "Grade for grammar and structure"`,
	Run: func(cmd *cobra.Command, args []string) {
		flags := cmd.Flags()
		name, _ := flags.GetString("name")
		description, _ := flags.GetString("description")
		prompt, _ := flags.GetString("prompt")

		url := viper.GetString("url")

		if name == "" {
			cmd.Println("Error: --name is required")
			return
		}

		if prompt == "" {
			cmd.Println("Error: --prompt is required")
			return
		}

		client := NewGradeClient(url)
		req := api.CreatePlanRequest{
			PlanName:    name,
			Description: description,
			Prompt:      prompt,
		}

		result, err := client.CreatePlan(req)
		if err != nil {
			if apiErr, ok := err.(*APIError); ok {
				cmd.Printf("Error (%d): %s\n", apiErr.StatusCode, apiErr.Message)
			} else {
				cmd.Printf("Error: %v\n", err)
			}
			return
		}

		cmd.Printf("✓ Plan created!\nName: %s\n", result.PlanName)
	},
}

func init() {
	flags := createCmd.Flags()
	flags.StringP("name", "n", "", "Name of the plan (required)")
	flags.StringP("description", "d", "", "Description of the plan (optional)")
	flags.StringP("prompt", "p", "", "Grading prompt sent to the model (required)")

	rootCmd.AddCommand(createCmd)
}
