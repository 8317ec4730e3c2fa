package summary

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/fintrack/fintrack/cmd/cli/client"
	"github.com/fintrack/fintrack/cmd/cli/output"
	report "github.com/fintrack/fintrack/internal/summary"
	"github.com/spf13/cobra"
)

// InitSummary registers the summary command.
func InitSummary(rootCmd *cobra.Command) {
	rootCmd.AddCommand(summaryCmd())
}

func summaryCmd() *cobra.Command {
	var tz string
	var months int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show this month's totals and the monthly trend",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client.NewAuthenticated()
			if err != nil {
				return err
			}

			q := url.Values{}
			if tz != "" {
				q.Set("tz", tz)
			}
			if months > 0 {
				q.Set("months", strconv.Itoa(months))
			}
			path := "/api/auth/summary"
			if len(q) > 0 {
				path += "?" + q.Encode()
			}

			var resp struct {
				Summary report.Report `json:"summary"`
			}
			if err := c.Do(cmd.Context(), http.MethodGet, path, nil, &resp); err != nil {
				return err
			}

			if asJSON {
				return output.JSON(cmd.OutOrStdout(), resp.Summary)
			}
			render(cmd, resp.Summary)
			return nil
		},
	}

	cmd.Flags().StringVar(&tz, "tz", "", "IANA timezone for month boundaries (server default when empty)")
	cmd.Flags().IntVar(&months, "months", 0, "Number of months in the trend (server default when 0)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of tables")
	return cmd
}

func render(cmd *cobra.Command, r report.Report) {
	w := cmd.OutOrStdout()
	cm := r.CurrentMonth

	fmt.Fprintf(w, "%s %d (%s)\n", time.Month(cm.Month), cm.Year, r.Timezone)
	output.RenderTable(w, []string{"INCOME", "EXPENSE", "BALANCE"}, [][]interface{}{
		{cm.TotalIncome.StringFixed(2), cm.TotalExpense.StringFixed(2), cm.Balance.StringFixed(2)},
	}, "INCOME", "EXPENSE", "BALANCE")

	if len(cm.IncomeBySource) > 0 {
		output.RenderTable(w, []string{"SOURCE", "TOTAL"}, bucketRows(cm.IncomeBySource), "TOTAL")
	}
	if len(cm.ExpenseByCategory) > 0 {
		output.RenderTable(w, []string{"CATEGORY", "TOTAL"}, bucketRows(cm.ExpenseByCategory), "TOTAL")
	}

	rows := make([][]interface{}, 0, len(r.Months))
	for _, m := range r.Months {
		rows = append(rows, []interface{}{
			fmt.Sprintf("%d-%02d", m.Year, m.Month),
			m.Income.StringFixed(2),
			m.Expense.StringFixed(2),
		})
	}
	output.RenderTable(w, []string{"MONTH", "INCOME", "EXPENSE"}, rows, "INCOME", "EXPENSE")
}

func bucketRows(buckets []report.Bucket) [][]interface{} {
	rows := make([][]interface{}, 0, len(buckets))
	for _, b := range buckets {
		rows = append(rows, []interface{}{b.Name, b.Total.StringFixed(2)})
	}
	return rows
}
