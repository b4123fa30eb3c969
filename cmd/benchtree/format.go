package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"benchtree/internal/model"
	"benchtree/internal/report"
)

var formatReporter string

var formatCmd = &cobra.Command{
	Use:   "format <json_result>",
	Short: "Load a previously serialized TestResult and re-render it",
	Args:  cobra.ExactArgs(1),
	RunE:  runFormat,
}

func init() {
	formatCmd.Flags().StringVar(&formatReporter, "reporter", "text", "result reporter: text|json")
}

func runFormat(cmd *cobra.Command, args []string) error {
	b, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	var result model.TestResult
	if err := json.Unmarshal(b, &result); err != nil {
		return err
	}

	switch formatReporter {
	case "json":
		return report.JSON(os.Stdout, &result)
	default:
		report.Text(os.Stdout, &result)
		return nil
	}
}
