package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/vinoteca/enrich-cli/internal/model"
)

var executionsCmd = &cobra.Command{
	Use:   "executions",
	Short: "Inspect enrichment execution history",
}

// -- executions list --

var executionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List executions",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		limit, _ := cmd.Flags().GetInt("limit")
		execs, err := st.ListExecutions(ctx, limit)
		if err != nil {
			return eris.Wrap(err, "executions list")
		}

		if len(execs) == 0 {
			fmt.Fprintln(os.Stderr, "No executions found.")
			return nil
		}

		formatExecutions(os.Stdout, execs)
		return nil
	},
}

// -- executions show --

var executionsShowCmd = &cobra.Command{
	Use:   "show <execution-id>",
	Short: "Show an execution's enriched rows",
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

		exec, err := st.GetExecution(ctx, id)
		if err != nil {
			return eris.Wrap(err, "executions show")
		}
		rows, err := st.ListEnrichments(ctx, id)
		if err != nil {
			return eris.Wrap(err, "executions show")
		}

		fmt.Printf("Execution %d  provider=%s  status=%s  date=%s\n\n",
			exec.ID, exec.Provider, exec.Status, exec.ExecutionDate.Format("2006-01-02 15:04"))
		formatEnrichments(os.Stdout, rows)
		return nil
	},
}

// -- executions delete --

var executionsDeleteCmd = &cobra.Command{
	Use:   "delete <execution-id>",
	Short: "Delete an execution and its rows",
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

		if err := st.DeleteExecution(ctx, id); err != nil {
			return eris.Wrap(err, "executions delete")
		}
		fmt.Printf("Execution %d deleted.\n", id)
		return nil
	},
}

func init() {
	executionsListCmd.Flags().Int("limit", 50, "max number of executions to display")

	executionsCmd.AddCommand(executionsListCmd)
	executionsCmd.AddCommand(executionsShowCmd)
	executionsCmd.AddCommand(executionsDeleteCmd)
	rootCmd.AddCommand(executionsCmd)
}

func formatExecutions(out io.Writer, execs []model.Execution) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tDATE\tPROVIDER\tSTATUS")
	_, _ = fmt.Fprintln(w, "--\t----\t--------\t------")
	for _, e := range execs {
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\n",
			e.ID, e.ExecutionDate.Format("2006-01-02 15:04"), e.Provider, e.Status)
	}
	_ = w.Flush()
}

func formatEnrichments(out io.Writer, rows []model.Enrichment) {
	str := func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "PRODUCT\tTITLE\tSTATUS\tPAIS\tTIPO\tUVA\tERROR")
	for _, r := range rows {
		title := r.ProductTitle
		if len(title) > 40 {
			title = title[:37] + "..."
		}
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.ProductID, title, r.Status, str(r.Country), str(r.Type), str(r.GrapeVariety), str(r.Error))
	}
	_ = w.Flush()
}
