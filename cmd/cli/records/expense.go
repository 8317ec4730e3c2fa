package records

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/fintrack/fintrack/cmd/cli/client"
	"github.com/fintrack/fintrack/cmd/cli/output"
	"github.com/fintrack/fintrack/internal/models"
	"github.com/spf13/cobra"
)

const expensePath = "/api/auth/expense"

func expenseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "expense",
		Short: "Manage expenses",
	}
	cmd.AddCommand(expenseListCmd(), expenseAddCmd(), expenseEditCmd(), expenseDeleteCmd())
	return cmd
}

func expenseListCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List your expenses, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client.NewAuthenticated()
			if err != nil {
				return err
			}

			var resp struct {
				Expenses []models.Expense `json:"expenses"`
			}
			if err := c.Do(cmd.Context(), http.MethodGet, expensePath, nil, &resp); err != nil {
				return err
			}

			if asJSON {
				return output.JSON(cmd.OutOrStdout(), resp.Expenses)
			}
			if len(resp.Expenses) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No expenses recorded.")
				return nil
			}

			rows := make([][]interface{}, 0, len(resp.Expenses))
			for _, e := range resp.Expenses {
				rows = append(rows, []interface{}{e.ID, e.Date.Format(dateLayout), e.Icon, e.Category, e.PaymentMethod, e.Amount.StringFixed(2)})
			}
			output.RenderTable(cmd.OutOrStdout(), []string{"ID", "DATE", "ICON", "CATEGORY", "PAID BY", "AMOUNT"}, rows, "AMOUNT")
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of a table")
	return cmd
}

type expenseFlags struct {
	recordFlags
	category      string
	paymentMethod string
}

func (f *expenseFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.category, "category", "", "Spending category (required)")
	cmd.Flags().StringVar(&f.paymentMethod, "payment-method", "", "cash, credit card, debit card, upi, bank transfer or other (default cash)")
	f.recordFlags.register(cmd)
}

func expenseAddCmd() *cobra.Command {
	var f expenseFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record an expense",
		RunE: func(cmd *cobra.Command, args []string) error {
			return saveExpense(cmd, http.MethodPost, expensePath, &f)
		},
	}

	f.register(cmd)
	return cmd
}

func expenseEditCmd() *cobra.Command {
	var f expenseFlags

	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Replace an expense's fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return saveExpense(cmd, http.MethodPut, recordPath(expensePath, args[0]), &f)
		},
	}

	f.register(cmd)
	return cmd
}

func saveExpense(cmd *cobra.Command, method, path string, f *expenseFlags) error {
	if f.category == "" {
		return errors.New("--category is required")
	}
	payload, err := f.payload()
	if err != nil {
		return err
	}
	payload["category"] = f.category
	if f.paymentMethod != "" {
		pm := models.PaymentMethod(strings.ToLower(f.paymentMethod))
		if !pm.Valid() {
			return fmt.Errorf("invalid --payment-method %q", f.paymentMethod)
		}
		payload["paymentMethod"] = pm
	}

	c, err := client.NewAuthenticated()
	if err != nil {
		return err
	}

	var resp struct {
		Expense models.Expense `json:"expense"`
	}
	if err := c.Do(cmd.Context(), method, path, payload, &resp); err != nil {
		return err
	}

	verb := "Added"
	if method == http.MethodPut {
		verb = "Updated"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s expense %s: %s %s (%s)\n", verb, resp.Expense.ID, resp.Expense.Category, resp.Expense.Amount.StringFixed(2), resp.Expense.PaymentMethod)
	return nil
}

func expenseDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete an expense",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client.NewAuthenticated()
			if err != nil {
				return err
			}
			var resp struct {
				Message string `json:"message"`
			}
			if err := c.Do(cmd.Context(), http.MethodDelete, recordPath(expensePath, args[0]), nil, &resp); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), resp.Message)
			return nil
		},
	}
}
