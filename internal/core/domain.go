package core

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	Expense TransactionType = "expense"
	Income  TransactionType = "income"

	Monthly RecurrenceInterval = "monthly"
	Weekly  RecurrenceInterval = "weekly"
	Yearly  RecurrenceInterval = "yearly"

	Savings          GoalType = "savings"
	ExpenseReduction GoalType = "expense_reduction"
)

type (
	TransactionType    string
	RecurrenceInterval string
	GoalType           string

	// Date is a calendar date. The time component is always UTC midnight
	// and carries no meaning.
	Date struct {
		time.Time
	}

	Transaction struct {
		ID          string          `json:"id"`
		Date        Date            `json:"date"`
		Amount      decimal.Decimal `json:"amount"`
		Description string          `json:"description"`
		// Category holds a Category.ID. The referenced category may have
		// been deleted; consumers must not assume it resolves.
		Category string          `json:"category"`
		Type     TransactionType `json:"type"`

		IsRecurring        bool               `json:"is_recurring,omitempty"`
		RecurrenceInterval RecurrenceInterval `json:"recurrence_interval,omitempty"`
		NextDueDate        Date               `json:"next_due_date,omitempty"`
	}

	Category struct {
		ID    string          `json:"id"`
		Name  string          `json:"name"`
		Color string          `json:"color"`
		Icon  string          `json:"icon"`
		Type  TransactionType `json:"type"`
	}

	Goal struct {
		ID            string          `json:"id"`
		UserID        string          `json:"user_id"`
		Type          GoalType        `json:"type"`
		TargetAmount  decimal.Decimal `json:"target_amount"`
		CurrentAmount decimal.Decimal `json:"current_amount"`
		StartDate     Date            `json:"start_date"`
		EndDate       Date            `json:"end_date"`
		Category      string          `json:"category,omitempty"`
		Title         string          `json:"title"`
		Description   string          `json:"description,omitempty"`
		CreatedAt     time.Time       `json:"created_at"`
		UpdatedAt     time.Time       `json:"updated_at"`
	}

	// ChartPoint is an ephemeral report row, recomputed on every request
	// and never persisted.
	ChartPoint struct {
		Name  string          `json:"name"`
		Value decimal.Decimal `json:"value"`
		Color string          `json:"color"`
	}

	// Profile is the per-user settings record.
	Profile struct {
		UserID   string `json:"user_id,omitempty"`
		FullName string `json:"full_name"`
		Theme    string `json:"theme"`
		Language string `json:"language"`
	}
)

var (
	ErrInvalidDate       = errors.New("invalid date")
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrNegativeAmount    = errors.New("amount must not be negative")
	ErrEmptyDescription  = errors.New("empty description")
	ErrInvalidType       = errors.New("invalid transaction type")
	ErrInvalidRecurrence = errors.New("invalid recurrence interval")
	ErrEmptyName         = errors.New("empty name")
	ErrEmptyTitle        = errors.New("empty title")
	ErrInvalidGoalType   = errors.New("invalid goal type")
	ErrInvalidGoalTarget = errors.New("goal target amount must be positive")
	ErrInvalidGoalDates  = errors.New("goal end date must be after start date")
)

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates an instant to its calendar date.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

// ParseDate parses a date in YYYY-MM-DD form.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	return d.Format("2006-01-02")
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte(`""`), nil
	}
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (t TransactionType) Valid() bool {
	return t == Expense || t == Income
}

// Signed returns amount with the sign implied by the type: income
// contributes positively, expense negatively.
func (t TransactionType) Signed(amount decimal.Decimal) decimal.Decimal {
	if t == Expense {
		return amount.Neg()
	}
	return amount
}

func (r RecurrenceInterval) Valid() bool {
	switch r {
	case Monthly, Weekly, Yearly:
		return true
	default:
		return false
	}
}

func (g GoalType) Valid() bool {
	return g == Savings || g == ExpenseReduction
}

func (t Transaction) Validate() error {
	if t.Date.IsZero() {
		return ErrInvalidDate
	}
	if t.Amount.IsNegative() {
		return ErrNegativeAmount
	}
	if strings.TrimSpace(t.Description) == "" {
		return ErrEmptyDescription
	}
	if !t.Type.Valid() {
		return ErrInvalidType
	}
	if t.IsRecurring && !t.RecurrenceInterval.Valid() {
		return ErrInvalidRecurrence
	}
	return nil
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	if !c.Type.Valid() {
		return ErrInvalidType
	}
	return nil
}

func (g Goal) Validate() error {
	if strings.TrimSpace(g.Title) == "" {
		return ErrEmptyTitle
	}
	if !g.Type.Valid() {
		return ErrInvalidGoalType
	}
	if !g.TargetAmount.IsPositive() {
		return ErrInvalidGoalTarget
	}
	if g.CurrentAmount.IsNegative() {
		return ErrNegativeAmount
	}
	if g.StartDate.IsZero() || g.EndDate.IsZero() || !g.EndDate.After(g.StartDate.Time) {
		return ErrInvalidGoalDates
	}
	return nil
}

// Complete reports whether the goal has reached its target.
func (g Goal) Complete() bool {
	return g.CurrentAmount.GreaterThanOrEqual(g.TargetAmount)
}
