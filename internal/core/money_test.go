package core

import "testing"

func TestParseDecimalToCents(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int64
		wantErr bool
	}{
		{name: "dot separator", input: "12.34", want: 1234},
		{name: "comma separator", input: "12,34", want: 1234},
		{name: "integer only", input: "45", want: 4500},
		{name: "single fractional digit", input: "7.5", want: 750},
		{name: "third digit rounds down", input: "12.344", want: 1234},
		{name: "third digit rounds up", input: "12.345", want: 1235},
		{name: "leading dot", input: ".50", want: 50},
		{name: "surrounding whitespace", input: " 9.99 ", want: 999},
		{name: "empty", input: "", wantErr: true},
		{name: "negative", input: "-5.00", wantErr: true},
		{name: "explicit plus", input: "+5.00", wantErr: true},
		{name: "zero", input: "0", wantErr: true},
		{name: "zero with decimals", input: "0.00", wantErr: true},
		{name: "not a number", input: "abc", wantErr: true},
		{name: "two separators", input: "1.2.3", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDecimalToCents(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseDecimalToCents(%q) = %d, want error", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDecimalToCents(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseDecimalToCents(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestMoneyDollars(t *testing.T) {
	m := Money{Cents: 1234}
	if got := m.Dollars(); got != 12.34 {
		t.Errorf("Dollars() = %v, want 12.34", got)
	}
}

func TestMoneyValidate(t *testing.T) {
	if err := (Money{Cents: 100}).Validate(); err != nil {
		t.Errorf("positive amount should validate, got %v", err)
	}
	if err := (Money{}).Validate(); err != ErrInvalidAmount {
		t.Errorf("zero amount should fail with ErrInvalidAmount, got %v", err)
	}
	if err := (Money{Cents: -1}).Validate(); err != ErrInvalidAmount {
		t.Errorf("negative amount should fail with ErrInvalidAmount, got %v", err)
	}
}
