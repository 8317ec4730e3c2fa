// Package records holds the income and expense commands.
package records

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

// InitRecords registers the income and expense command groups.
func InitRecords(rootCmd *cobra.Command) {
	rootCmd.AddCommand(incomeCmd(), expenseCmd())
}

const dateLayout = "2006-01-02"

// recordFlags are the flags shared by add and edit.
type recordFlags struct {
	amount string
	date   string
	icon   string
}

func (f *recordFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.amount, "amount", "", "Amount, e.g. 42.50 (required)")
	cmd.Flags().StringVar(&f.date, "date", "", "Date as YYYY-MM-DD or RFC3339 (default today)")
	cmd.Flags().StringVar(&f.icon, "icon", "", "Emoji icon (server default when empty)")
}

// payload returns amount, date and icon ready for a request body. The amount
// is sent as a JSON number.
func (f *recordFlags) payload() (map[string]any, error) {
	if f.amount == "" {
		return nil, errors.New("--amount is required")
	}
	amount, err := decimal.NewFromString(f.amount)
	if err != nil {
		return nil, fmt.Errorf("invalid --amount %q", f.amount)
	}
	if amount.IsNegative() {
		return nil, errors.New("--amount must be >= 0")
	}

	date := f.date
	if date == "" {
		date = time.Now().Format(dateLayout)
	}

	p := map[string]any{
		"amount": amount,
		"date":   date,
	}
	if f.icon != "" {
		p["icon"] = f.icon
	}
	return p, nil
}

func recordPath(base, id string) string {
	return base + "/" + url.PathEscape(id)
}
