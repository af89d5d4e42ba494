package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "gradectl",
	Short: "gradectl is a command line tool for the gradeplane grading service",
	Long: `gradectl is the command-line interface for the gradeplane homework
grading service.

Gradeplane lets a teacher define grading plans (an assignment plus a grading
prompt), collect photographed homework from students, and grade it
automatically: each upload is OCR'd and sent to a grading model in the
background while students poll the record status.

Common workflows:

  Create a grading plan:
    gradectl create --name "math-week3" --prompt "Grade this math homework..."

  Upload homework for a student:
    gradectl upload math-week3 --student "Zhang San" page1.jpg page2.jpg

  Watch a record:
    gradectl status math-week3 <record-id>

  Re-grade after refining the prompt:
    gradectl prompt math-week3 --prompt "Stricter rubric..."
    gradectl regrade math-week3

Configuration:
  Set the API endpoint via environment variables or a config file:
    GRADEPLANE_URL    API endpoint (default: http://localhost:8000)`,
}

func Execute() error {
	return rootCmd.Execute()
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		// Search config in home directory with name ".gradectl"
		viper.AddConfigPath(home)
		viper.SetConfigName(".gradectl")
		viper.SetConfigType("yaml")
	}

	// Read environment variables that match "GRADEPLANE_VARNAME"
	viper.SetEnvPrefix("GRADEPLANE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Println("Using config file:", viper.ConfigFileUsed())
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.gradectl.yaml)")

	rootCmd.PersistentFlags().String("url", "http://localhost:8000", "Gradeplane server URL")
	viper.BindPFlag("url", rootCmd.PersistentFlags().Lookup("url"))
}
