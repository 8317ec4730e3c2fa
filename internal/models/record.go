package models

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Amounts go over the wire as JSON numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// Default icons applied when the client sends none.
const (
	DefaultIncomeIcon  = "💰"
	DefaultExpenseIcon = "🧾"
)

// PaymentMethod is the closed set of ways an expense can be paid.
type PaymentMethod string

const (
	PaymentCash         PaymentMethod = "cash"
	PaymentCreditCard   PaymentMethod = "credit card"
	PaymentDebitCard    PaymentMethod = "debit card"
	PaymentUPI          PaymentMethod = "upi"
	PaymentBankTransfer PaymentMethod = "bank transfer"
	PaymentOther        PaymentMethod = "other"
)

// PaymentMethods lists every accepted PaymentMethod.
var PaymentMethods = []PaymentMethod{
	PaymentCash, PaymentCreditCard, PaymentDebitCard, PaymentUPI, PaymentBankTransfer, PaymentOther,
}

// Valid reports whether m is one of PaymentMethods.
func (m PaymentMethod) Valid() bool {
	for _, pm := range PaymentMethods {
		if m == pm {
			return true
		}
	}
	return false
}

// Income is money received by its owner. Username is a snapshot taken when the
// record was created and is not updated if the owner is renamed later.
type Income struct {
	ID        string          `json:"_id"`
	UserID    string          `json:"user"`
	Username  string          `json:"username"`
	Source    string          `json:"source"`
	Icon      string          `json:"icon"`
	Amount    decimal.Decimal `json:"amount"`
	Date      time.Time       `json:"date"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// IncomeFields are the caller-controlled fields of an Income.
type IncomeFields struct {
	Source string
	Icon   string
	Amount decimal.Decimal
	Date   time.Time
}

// Expense is money spent by its owner. See Income for the Username snapshot.
type Expense struct {
	ID            string          `json:"_id"`
	UserID        string          `json:"user"`
	Username      string          `json:"username"`
	Category      string          `json:"category"`
	Icon          string          `json:"icon"`
	Amount        decimal.Decimal `json:"amount"`
	Date          time.Time       `json:"date"`
	PaymentMethod PaymentMethod   `json:"paymentMethod"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// ExpenseFields are the caller-controlled fields of an Expense.
type ExpenseFields struct {
	Category      string
	Icon          string
	Amount        decimal.Decimal
	Date          time.Time
	PaymentMethod PaymentMethod
}
