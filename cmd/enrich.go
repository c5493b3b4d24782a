package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/vinoteca/enrich-cli/internal/enrich"
	"github.com/vinoteca/enrich-cli/internal/model"
	"github.com/vinoteca/enrich-cli/internal/provider"
)

var enrichCmd = &cobra.Command{
	Use:   "enrich <input.csv>",
	Short: "Enrich a CSV of wine titles",
	Long:  "Reads a CSV with a title (or nome) column, generates attributes for every row via the configured AI provider and writes the enriched CSV. Every row outcome is persisted under a new execution.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		raw, err := os.ReadFile(args[0])
		if err != nil {
			return eris.Wrapf(err, "read %s", args[0])
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		gen, err := provider.Select(cfg, initSettings().Load())
		if err != nil {
			return err
		}

		files, err := initFiles()
		if err != nil {
			return err
		}

		result, err := enrich.NewProcessor(st, gen, files).ProcessCSV(ctx, raw)
		if err != nil {
			return eris.Wrap(err, "enrich")
		}

		if out, _ := cmd.Flags().GetString("output"); out != "" {
			data, err := os.ReadFile(result.OutputPath)
			if err != nil {
				return eris.Wrap(err, "read enriched csv")
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return eris.Wrapf(err, "write %s", out)
			}
			fmt.Printf("Enriched CSV written to %s\n", out)
		} else {
			fmt.Printf("Enriched CSV at %s\n", result.OutputPath)
		}

		fmt.Printf("Execution %d: %d rows, %d successful, %d failed (%s)\n",
			result.ExecutionID, result.Total, result.Successful, result.Failed, gen.Name())
		return nil
	},
}

// -- enrich preview --

var enrichPreviewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Enrich a single title without persisting",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		title, _ := cmd.Flags().GetString("title")
		if title == "" {
			return eris.New("--title is required")
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		gen, err := provider.Select(cfg, initSettings().Load())
		if err != nil {
			return err
		}

		record := enrich.NewProcessor(st, gen, nil).Preview(ctx, model.WineInput{ID: 1, Title: title})

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(record)
	},
}

func init() {
	enrichCmd.Flags().String("output", "", "copy the enriched CSV to this path")
	enrichPreviewCmd.Flags().String("title", "", "wine title to enrich")

	enrichCmd.AddCommand(enrichPreviewCmd)
	rootCmd.AddCommand(enrichCmd)
}
