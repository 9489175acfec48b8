package report

import (
	"testing"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
)

func tx(date string, amount string, txType core.TransactionType, category string) core.Transaction {
	d, err := core.ParseDate(date)
	if err != nil {
		panic(err)
	}
	return core.Transaction{
		ID:          "test",
		Date:        d,
		Amount:      decimal.RequireFromString(amount),
		Description: "test transaction",
		Category:    category,
		Type:        txType,
	}
}

func TestTopCategories(t *testing.T) {
	txs := []core.Transaction{
		tx("2024-01-05", "300", core.Expense, "groceries"),
		tx("2024-01-10", "150", core.Expense, "transport"),
		tx("2024-01-12", "150", core.Expense, "groceries"),
		tx("2024-01-15", "50", core.Expense, "leisure"),
		tx("2024-01-20", "1000", core.Income, "salary"),
	}
	cats := append(core.DefaultExpenseCategories(), core.DefaultIncomeCategories()...)

	rows := TopCategories(txs, cats, core.Expense, 2)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].CategoryID != "groceries" || !rows[0].Total.Equal(decimal.NewFromInt(450)) {
		t.Errorf("top row = %+v, want groceries 450", rows[0])
	}
	if rows[0].Name != "Groceries" {
		t.Errorf("top row name = %q, want resolved category name", rows[0].Name)
	}
	if rows[1].CategoryID != "transport" {
		t.Errorf("second row = %+v, want transport", rows[1])
	}
	// 450 of 550 expense total.
	want := decimal.RequireFromString("450").Div(decimal.RequireFromString("550")).Mul(decimal.NewFromInt(100))
	if !rows[0].PercentOfTotal.Equal(want) {
		t.Errorf("groceries share = %s, want %s", rows[0].PercentOfTotal, want)
	}
}

func TestTopCategories_SingleCategoryIsFullShare(t *testing.T) {
	txs := []core.Transaction{
		tx("2024-01-05", "80", core.Expense, "home"),
		tx("2024-01-06", "20", core.Expense, "home"),
	}

	rows := TopCategories(txs, core.DefaultExpenseCategories(), core.Expense, 5)
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if !rows[0].PercentOfTotal.Equal(decimal.NewFromInt(100)) {
		t.Errorf("single category share = %s, want 100", rows[0].PercentOfTotal)
	}
}

func TestTopCategories_Empty(t *testing.T) {
	if rows := TopCategories(nil, core.DefaultExpenseCategories(), core.Expense, 5); len(rows) != 0 {
		t.Errorf("expected no rows for no transactions, got %d", len(rows))
	}
}

func TestTopCategories_OrphanedCategory(t *testing.T) {
	txs := []core.Transaction{tx("2024-01-05", "30", core.Expense, "deleted-cat")}

	rows := TopCategories(txs, core.DefaultExpenseCategories(), core.Expense, 5)
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0].Name != "deleted-cat" {
		t.Errorf("orphaned row name = %q, want raw category id", rows[0].Name)
	}
}

func TestCategoryPie(t *testing.T) {
	txs := []core.Transaction{
		tx("2024-01-05", "70", core.Expense, "groceries"),
		tx("2024-01-06", "30", core.Expense, "transport"),
	}

	points := CategoryPie(txs, core.DefaultExpenseCategories(), core.Expense)
	if len(points) != 2 {
		t.Fatalf("expected 2 slices, got %d", len(points))
	}
	if points[0].Name != "Groceries" || !points[0].Value.Equal(decimal.NewFromInt(70)) {
		t.Errorf("largest slice = %+v", points[0])
	}
	if points[0].Color == "" {
		t.Error("slice color must be resolved from the category")
	}
}

func TestFormatEUR(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "12.34", want: "€12,34"},
		{in: "1000", want: "€1000,00"},
		{in: "0", want: "€0,00"},
		{in: "-5.5", want: "-€5,50"},
	}

	for _, tt := range tests {
		if got := FormatEUR(decimal.RequireFromString(tt.in)); got != tt.want {
			t.Errorf("FormatEUR(%s) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
