package report

import (
	"encoding/json"
	"fmt"
	"io"

	"fintrack/internal/core"
)

// Archive is the JSON backup format: the user's profile plus every
// transaction with all fields intact.
type Archive struct {
	Profile      core.Profile       `json:"profile"`
	Transactions []core.Transaction `json:"transactions"`
}

// ExportJSON writes the archive, indented for hand inspection.
func ExportJSON(w io.Writer, profile core.Profile, txs []core.Transaction) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if txs == nil {
		txs = []core.Transaction{}
	}
	if err := enc.Encode(Archive{Profile: profile, Transactions: txs}); err != nil {
		return fmt.Errorf("encode archive: %w", err)
	}
	return nil
}

// ImportJSON reads an archive back and validates every transaction in
// it. A malformed document or an invalid record rejects the whole
// import; nothing partial ever reaches the caller.
func ImportJSON(r io.Reader) (Archive, error) {
	var a Archive
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&a); err != nil {
		return Archive{}, fmt.Errorf("decode archive: %w", err)
	}
	for i, tx := range a.Transactions {
		if err := tx.Validate(); err != nil {
			return Archive{}, fmt.Errorf("archive transaction %d: %w", i, err)
		}
	}
	return a, nil
}
