package records

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/fintrack/fintrack/cmd/cli/client"
	"github.com/fintrack/fintrack/cmd/cli/output"
	"github.com/fintrack/fintrack/internal/models"
	"github.com/spf13/cobra"
)

const incomePath = "/api/auth/income"

func incomeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "income",
		Short: "Manage incomes",
	}
	cmd.AddCommand(incomeListCmd(), incomeAddCmd(), incomeEditCmd(), incomeDeleteCmd())
	return cmd
}

func incomeListCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List your incomes, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client.NewAuthenticated()
			if err != nil {
				return err
			}

			var resp struct {
				Incomes []models.Income `json:"incomes"`
			}
			if err := c.Do(cmd.Context(), http.MethodGet, incomePath, nil, &resp); err != nil {
				return err
			}

			if asJSON {
				return output.JSON(cmd.OutOrStdout(), resp.Incomes)
			}
			if len(resp.Incomes) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No incomes recorded.")
				return nil
			}

			rows := make([][]interface{}, 0, len(resp.Incomes))
			for _, in := range resp.Incomes {
				rows = append(rows, []interface{}{in.ID, in.Date.Format(dateLayout), in.Icon, in.Source, in.Amount.StringFixed(2)})
			}
			output.RenderTable(cmd.OutOrStdout(), []string{"ID", "DATE", "ICON", "SOURCE", "AMOUNT"}, rows, "AMOUNT")
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of a table")
	return cmd
}

func incomeAddCmd() *cobra.Command {
	var source string
	var f recordFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record an income",
		RunE: func(cmd *cobra.Command, args []string) error {
			return saveIncome(cmd, http.MethodPost, incomePath, source, &f)
		},
	}

	cmd.Flags().StringVar(&source, "source", "", "Where the money came from (required)")
	f.register(cmd)
	return cmd
}

func incomeEditCmd() *cobra.Command {
	var source string
	var f recordFlags

	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Replace an income's fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return saveIncome(cmd, http.MethodPut, recordPath(incomePath, args[0]), source, &f)
		},
	}

	cmd.Flags().StringVar(&source, "source", "", "Where the money came from (required)")
	f.register(cmd)
	return cmd
}

func saveIncome(cmd *cobra.Command, method, path, source string, f *recordFlags) error {
	if source == "" {
		return errors.New("--source is required")
	}
	payload, err := f.payload()
	if err != nil {
		return err
	}
	payload["source"] = source

	c, err := client.NewAuthenticated()
	if err != nil {
		return err
	}

	var resp struct {
		Income models.Income `json:"income"`
	}
	if err := c.Do(cmd.Context(), method, path, payload, &resp); err != nil {
		return err
	}

	verb := "Added"
	if method == http.MethodPut {
		verb = "Updated"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s income %s: %s %s\n", verb, resp.Income.ID, resp.Income.Source, resp.Income.Amount.StringFixed(2))
	return nil
}

func incomeDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete an income",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := client.NewAuthenticated()
			if err != nil {
				return err
			}
			var resp struct {
				Message string `json:"message"`
			}
			if err := c.Do(cmd.Context(), http.MethodDelete, recordPath(incomePath, args[0]), nil, &resp); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), resp.Message)
			return nil
		},
	}
}
