package core

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr error
	}{
		{name: "dot separator", in: "12.34", want: "12.34"},
		{name: "comma separator", in: "12,34", want: "12.34"},
		{name: "integer", in: "100", want: "100"},
		{name: "surrounding whitespace", in: " 7.50 ", want: "7.5"},
		{name: "zero", in: "0", want: "0"},
		{name: "empty", in: "", wantErr: ErrInvalidAmount},
		{name: "not a number", in: "ten euros", wantErr: ErrInvalidAmount},
		{name: "negative", in: "-5", wantErr: ErrNegativeAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAmount(tt.in)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ParseAmount(%q) error = %v, want %v", tt.in, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(decimal.RequireFromString(tt.want)) {
				t.Errorf("ParseAmount(%q) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}
