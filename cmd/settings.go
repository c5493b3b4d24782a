package main

import (
	"encoding/json"
	"os"
	"slices"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/vinoteca/enrich-cli/internal/provider"
	"github.com/vinoteca/enrich-cli/internal/settings"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change runtime settings",
}

// -- settings show --

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE: func(_ *cobra.Command, _ []string) error {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(initSettings().Load())
	},
}

// -- settings set --

var settingsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Update settings",
	RunE: func(cmd *cobra.Command, _ []string) error {
		var changes settings.Partial

		if cmd.Flags().Changed("provider") {
			id, _ := cmd.Flags().GetString("provider")
			if !slices.Contains(provider.IDs(), id) {
				return eris.Errorf("unknown provider %q (openai, anthropic, gemini)", id)
			}
			changes.AIProvider = &id
		}
		if cmd.Flags().Changed("confidence") {
			c, _ := cmd.Flags().GetInt("confidence")
			if c < 0 || c > 100 {
				return eris.New("confidence must be between 0 and 100")
			}
			changes.Confidence = &c
		}
		if cmd.Flags().Changed("language") {
			lang, _ := cmd.Flags().GetString("language")
			changes.Language = &lang
		}

		if changes.AIProvider == nil && changes.Confidence == nil && changes.Language == nil {
			return eris.New("nothing to change: pass --provider, --confidence or --language")
		}

		updated, err := initSettings().Update(changes)
		if err != nil {
			return eris.Wrap(err, "settings set")
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(updated)
	},
}

func init() {
	settingsSetCmd.Flags().String("provider", "", "AI provider (openai, anthropic, gemini)")
	settingsSetCmd.Flags().Int("confidence", 0, "confidence threshold (0-100)")
	settingsSetCmd.Flags().String("language", "", "prompt language")

	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	rootCmd.AddCommand(settingsCmd)
}
