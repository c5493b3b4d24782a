package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vinoteca/enrich-cli/internal/config"
	"github.com/vinoteca/enrich-cli/internal/provider"
)

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List AI providers and their key status",
	RunE: func(_ *cobra.Command, _ []string) error {
		formatProviders(os.Stdout, cfg, initSettings().Load().AIProvider)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(providersCmd)
}

func formatProviders(out io.Writer, c *config.Config, active string) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "PROVIDER\tAPI KEY\tACTIVE")
	for _, id := range provider.IDs() {
		key := "missing"
		if provider.HasKey(c, id) {
			key = "configured"
		}
		marker := ""
		if id == active {
			marker = "*"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", id, key, marker)
	}
	_ = w.Flush()
}
