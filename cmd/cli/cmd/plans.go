package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var plansCmd = &cobra.Command{
	Use:   "plans [plan_name]",
	Short: "List grading plans, or show one plan in detail",
	Long: `Without arguments, list every grading plan with its record count.
With a plan name, show the plan's prompt and per-status record counts.

Example:
  gradectl plans
  gradectl plans math-week3`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		url := viper.GetString("url")
		client := NewGradeClient(url)

		if len(args) == 1 {
			showPlanDetail(cmd, client, args[0])
			return
		}

		plans, err := client.ListPlans()
		if err != nil {
			if apiErr, ok := err.(*APIError); ok {
				cmd.Printf("Error (%d): %s\n", apiErr.StatusCode, apiErr.Message)
			} else {
				cmd.Printf("Error: %v\n", err)
			}
			return
		}

		if len(plans) == 0 {
			cmd.Println("No plans found")
			return
		}

		cmd.Printf("%sPlans%s\n", colorBold, colorReset)
		cmd.Println("──────────────────────────────")
		for _, plan := range plans {
			cmd.Printf("%s  %s(%d records)%s\n", plan.PlanName, colorDim, plan.RecordCount, colorReset)
			if plan.Description != "" {
				cmd.Printf("  %s%s%s\n", colorDim, plan.Description, colorReset)
			}
		}
	},
}

func showPlanDetail(cmd *cobra.Command, client *GradeClient, name string) {
	detail, err := client.GetPlan(name)
	if err != nil {
		if apiErr, ok := err.(*APIError); ok {
			cmd.Printf("Error (%d): %s\n", apiErr.StatusCode, apiErr.Message)
		} else {
			cmd.Printf("Error: %v\n", err)
		}
		return
	}

	cmd.Printf("%sPlan: %s%s\n", colorBold, detail.Plan.PlanName, colorReset)
	cmd.Println("──────────────────────────────")
	if detail.Plan.Description != "" {
		cmd.Printf("%sDescription:%s %s\n", colorDim, colorReset, detail.Plan.Description)
	}
	cmd.Printf("%sPrompt:%s      %s\n", colorDim, colorReset, detail.Plan.Prompt)
	cmd.Printf("%sCreated:%s     %s\n", colorDim, colorReset, detail.Plan.CreatedAt.Format("Mon, 02 Jan 2006 15:04:05 MST"))
	cmd.Printf("%sRecords:%s     %d total  %d pending  %d processing  %d done  %d failed\n",
		colorDim, colorReset,
		detail.Stats["total"], detail.Stats["pending"], detail.Stats["processing"],
		detail.Stats["done"], detail.Stats["failed"])
}

func init() {
	rootCmd.AddCommand(plansCmd)
}
