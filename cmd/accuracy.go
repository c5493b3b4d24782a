package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/vinoteca/enrich-cli/internal/accuracy"
)

var accuracyCmd = &cobra.Command{
	Use:   "accuracy <execution-id>",
	Short: "Score an execution against the ground-truth catalog",
	Long:  "Compares the attributes an execution produced with the products table, stratified by the model's declared confidence. Only successful executions can be analyzed.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return eris.Errorf("invalid execution id %q", args[0])
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		report, err := accuracy.NewAnalyzer(st).AnalyzeExecution(ctx, id)
		if err != nil {
			return eris.Wrap(err, "accuracy")
		}

		format, _ := cmd.Flags().GetString("format")
		switch format {
		case "json":
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		case "yaml":
			enc := yaml.NewEncoder(os.Stdout)
			defer enc.Close() //nolint:errcheck
			return enc.Encode(report)
		case "summary":
			fmt.Print(accuracy.Summary(report))
			return nil
		default:
			return eris.Errorf("unknown format %q (json, yaml, summary)", format)
		}
	},
}

func init() {
	accuracyCmd.Flags().String("format", "summary", "output format: json, yaml or summary")
	rootCmd.AddCommand(accuracyCmd)
}
