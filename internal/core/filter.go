package core

import (
	"sort"
	"strings"
)

// Criteria selects transactions. All set fields combine with logical AND;
// zero values mean "no constraint":
//
//   - Start/End bound the date range inclusively; either may be open.
//   - Type narrows to one transaction type; empty or "all" matches both.
//   - Categories, when non-empty, requires membership by category id.
//   - Search matches case-insensitively against the description or the
//     category id.
type Criteria struct {
	Start      Date
	End        Date
	Type       TransactionType
	Categories []string
	Search     string
}

// Apply returns the transactions matching the criteria. It never mutates
// its input and leaves result order unspecified; callers sort separately.
func (c Criteria) Apply(txs []Transaction) []Transaction {
	search := strings.ToLower(strings.TrimSpace(c.Search))

	var out []Transaction
	for _, tx := range txs {
		if !c.Start.IsZero() && tx.Date.Before(c.Start.Time) {
			continue
		}
		if !c.End.IsZero() && tx.Date.After(c.End.Time) {
			continue
		}
		if c.Type.Valid() && tx.Type != c.Type {
			continue
		}
		if len(c.Categories) > 0 && !containsString(c.Categories, tx.Category) {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(tx.Description), search) &&
			!strings.Contains(strings.ToLower(tx.Category), search) {
			continue
		}
		out = append(out, tx)
	}
	return out
}

// SortByDateDesc returns a copy sorted newest first, the presentation
// order used by the transaction list.
func SortByDateDesc(txs []Transaction) []Transaction {
	out := make([]Transaction, len(txs))
	copy(out, txs)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date.Time)
	})
	return out
}

func containsString(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
