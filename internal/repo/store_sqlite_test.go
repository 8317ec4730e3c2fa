package repo

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/fintrack/fintrack/internal/config"
	"github.com/fintrack/fintrack/internal/db"
	"github.com/fintrack/fintrack/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"
)

// StoreSuite runs the repositories against a migrated in-memory sqlite database.
type StoreSuite struct {
	suite.Suite
	db       *sql.DB
	users    *UserRepo
	incomes  *IncomeRepo
	expenses *ExpenseRepo
	audit    *AuditRepo

	alice *models.User
	bob   *models.User
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreSuite))
}

func (s *StoreSuite) SetupTest() {
	conn, err := db.Open(config.Config{DBDriver: "sqlite", DBPath: ":memory:"})
	s.Require().NoError(err)
	s.Require().NoError(db.Migrate(conn, "sqlite"))

	s.db = conn
	s.users = NewUserRepo(conn, bcrypt.MinCost)
	s.incomes = NewIncomeRepo(conn)
	s.expenses = NewExpenseRepo(conn)
	s.audit = NewAuditRepo(conn)

	ctx := context.Background()
	s.alice, err = s.users.Register(ctx, "alice", "a@x.com", "secret123")
	s.Require().NoError(err)
	s.bob, err = s.users.Register(ctx, "bob", "b@x.com", "hunter22")
	s.Require().NoError(err)
}

func (s *StoreSuite) TearDownTest() {
	s.db.Close()
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (s *StoreSuite) TestRegister_DuplicateEmail() {
	_, err := s.users.Register(context.Background(), "alice again", "A@X.COM", "whatever1")
	s.ErrorIs(err, ErrDuplicateIdentity)
}

func (s *StoreSuite) TestAuthenticate() {
	ctx := context.Background()
	u, err := s.users.Authenticate(ctx, "a@x.com", "secret123")
	s.Require().NoError(err)
	s.Equal(s.alice.ID, u.ID)

	_, err = s.users.Authenticate(ctx, "a@x.com", "secret124")
	s.Error(err)
}

func (s *StoreSuite) TestIncome_CreateThenList() {
	ctx := context.Background()
	created, err := s.incomes.Create(ctx, s.alice.ID, s.alice.Username, models.IncomeFields{
		Source: "Salary",
		Amount: decimal.RequireFromString("5000.25"),
		Date:   day(2024, 1, 1),
	})
	s.Require().NoError(err)

	list, err := s.incomes.List(ctx, s.alice.ID)
	s.Require().NoError(err)
	s.Require().Len(list, 1)

	got := list[0]
	s.Equal(created.ID, got.ID)
	s.Equal("alice", got.Username)
	s.Equal(models.DefaultIncomeIcon, got.Icon)
	s.True(got.Amount.Equal(decimal.RequireFromString("5000.25")), "amount %s", got.Amount)
	s.True(got.Date.Equal(day(2024, 1, 1)), "date %s", got.Date)
}

func (s *StoreSuite) TestIncome_ListOrderedByDateDesc() {
	ctx := context.Background()
	for _, d := range []time.Time{day(2024, 2, 1), day(2024, 3, 15), day(2023, 12, 31)} {
		_, err := s.incomes.Create(ctx, s.alice.ID, "alice", models.IncomeFields{Source: "x", Amount: decimal.NewFromInt(1), Date: d})
		s.Require().NoError(err)
	}

	list, err := s.incomes.List(ctx, s.alice.ID)
	s.Require().NoError(err)
	s.Require().Len(list, 3)
	for i := 1; i < len(list); i++ {
		s.False(list[i].Date.After(list[i-1].Date), "list not sorted by date desc: %v", list)
	}
}

func (s *StoreSuite) TestIncome_OwnershipIsolation() {
	ctx := context.Background()
	in, err := s.incomes.Create(ctx, s.alice.ID, "alice", models.IncomeFields{Source: "Salary", Amount: decimal.NewFromInt(5000), Date: day(2024, 1, 1)})
	s.Require().NoError(err)

	list, err := s.incomes.List(ctx, s.bob.ID)
	s.Require().NoError(err)
	s.Empty(list)

	_, err = s.incomes.Get(ctx, s.bob.ID, in.ID)
	s.ErrorIs(err, ErrNotFoundOrNotOwned)

	_, err = s.incomes.Update(ctx, s.bob.ID, in.ID, models.IncomeFields{Source: "Stolen", Amount: decimal.NewFromInt(1), Date: day(2024, 1, 2)})
	s.ErrorIs(err, ErrNotFoundOrNotOwned)

	s.ErrorIs(s.incomes.Delete(ctx, s.bob.ID, in.ID), ErrNotFoundOrNotOwned)

	// Alice's record is untouched.
	got, err := s.incomes.Get(ctx, s.alice.ID, in.ID)
	s.Require().NoError(err)
	s.Equal("Salary", got.Source)
	s.True(got.Amount.Equal(decimal.NewFromInt(5000)))

	s.Require().NoError(s.incomes.Delete(ctx, s.alice.ID, in.ID))
	s.ErrorIs(s.incomes.Delete(ctx, s.alice.ID, in.ID), ErrNotFoundOrNotOwned)
}

func (s *StoreSuite) TestIncome_UpdateKeepsIdentityFields() {
	ctx := context.Background()
	in, err := s.incomes.Create(ctx, s.alice.ID, "alice", models.IncomeFields{Source: "Salary", Amount: decimal.NewFromInt(5000), Date: day(2024, 1, 1)})
	s.Require().NoError(err)

	up, err := s.incomes.Update(ctx, s.alice.ID, in.ID, models.IncomeFields{Source: "Bonus", Icon: "🎉", Amount: decimal.NewFromInt(700), Date: day(2024, 2, 1)})
	s.Require().NoError(err)
	s.Equal(in.ID, up.ID)
	s.Equal(s.alice.ID, up.UserID)
	s.Equal("Bonus", up.Source)
	s.Equal("🎉", up.Icon)
	s.True(up.CreatedAt.Equal(in.CreatedAt), "createdAt changed")
	s.False(up.UpdatedAt.Before(in.UpdatedAt))
}

func (s *StoreSuite) TestExpense_OwnershipIsolation() {
	ctx := context.Background()
	e, err := s.expenses.Create(ctx, s.alice.ID, "alice", models.ExpenseFields{
		Category:      "Rent",
		Amount:        decimal.NewFromInt(1200),
		Date:          day(2024, 1, 3),
		PaymentMethod: models.PaymentBankTransfer,
	})
	s.Require().NoError(err)

	list, err := s.expenses.List(ctx, s.bob.ID)
	s.Require().NoError(err)
	s.Empty(list)
	s.ErrorIs(s.expenses.Delete(ctx, s.bob.ID, e.ID), ErrNotFoundOrNotOwned)

	list, err = s.expenses.List(ctx, s.alice.ID)
	s.Require().NoError(err)
	s.Require().Len(list, 1)
	s.Equal(models.PaymentBankTransfer, list[0].PaymentMethod)

	up, err := s.expenses.Update(ctx, s.alice.ID, e.ID, models.ExpenseFields{Category: "Rent", Amount: decimal.NewFromInt(1250), Date: day(2024, 1, 3)})
	s.Require().NoError(err)
	s.Equal(models.PaymentCash, up.PaymentMethod)
	s.Equal(models.DefaultExpenseIcon, up.Icon)
}

func (s *StoreSuite) TestAudit_LogListPurge() {
	ctx := context.Background()
	s.Require().NoError(s.audit.Log(ctx, s.alice.ID, models.ActionCreate, models.ResourceIncome, "r1", "Salary"))
	s.Require().NoError(s.audit.Log(ctx, s.alice.ID, models.ActionDelete, models.ResourceIncome, "r1", ""))
	s.Require().NoError(s.audit.Log(ctx, s.bob.ID, models.ActionCreate, models.ResourceExpense, "r2", ""))

	entries, err := s.audit.ListByUser(ctx, s.alice.ID, 50, 0)
	s.Require().NoError(err)
	s.Require().Len(entries, 2)
	s.Equal(models.ActionDelete, entries[0].Action)
	for _, e := range entries {
		s.Equal(s.alice.ID, e.UserID)
	}

	n, err := s.audit.PurgeBefore(ctx, time.Now().Add(time.Hour))
	s.Require().NoError(err)
	s.EqualValues(3, n)

	entries, err = s.audit.ListByUser(ctx, s.bob.ID, 50, 0)
	s.Require().NoError(err)
	s.Empty(entries)
}

func TestMigrate_Idempotent(t *testing.T) {
	conn, err := db.Open(config.Config{DBDriver: "sqlite", DBPath: ":memory:"})
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, db.Migrate(conn, "sqlite"))
	require.NoError(t, db.Migrate(conn, "sqlite"))
}
