package stats

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"

	"gigtrack/internal/core"
)

func TestSafeDivide(t *testing.T) {
	tests := []struct {
		name   string
		num    int64
		den    int64
		wantOK bool
		want   string
	}{
		{name: "exact", num: 150, den: 6, wantOK: true, want: "25"},
		{name: "rounds to two places", num: 100, den: 3, wantOK: true, want: "33.33"},
		{name: "zero denominator", num: 100, den: 0, wantOK: false},
		{name: "zero numerator", num: 0, den: 5, wantOK: true, want: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SafeDivide(decimal.NewFromInt(tt.num), decimal.NewFromInt(tt.den))
			if got.OK != tt.wantOK {
				t.Fatalf("OK = %v, want %v", got.OK, tt.wantOK)
			}
			if tt.wantOK && got.Value.String() != tt.want {
				t.Errorf("Value = %s, want %s", got.Value, tt.want)
			}
		})
	}
}

func TestPerHourRate(t *testing.T) {
	r := PerHourRate(core.Money{Cents: 4500}, 90)
	if !r.OK {
		t.Fatal("rate should be defined for nonzero minutes")
	}
	if r.Value.String() != "30" {
		t.Errorf("per hour = %s, want 30", r.Value)
	}

	if r := PerHourRate(core.Money{Cents: 4500}, 0); r.OK {
		t.Error("zero minutes must yield an undefined rate")
	}
}

func TestRate_JSONRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		rate Rate
		wire string
	}{
		{name: "undefined serializes as null", rate: Rate{}, wire: "null"},
		{name: "defined serializes as decimal", rate: Rate{Value: decimal.RequireFromString("12.5"), OK: true}, wire: `"12.5"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.rate)
			if err != nil {
				t.Fatalf("Marshal() error: %v", err)
			}
			if string(data) != tt.wire {
				t.Fatalf("Marshal() = %s, want %s", data, tt.wire)
			}

			var got Rate
			if err := json.Unmarshal(data, &got); err != nil {
				t.Fatalf("Unmarshal(%s) error: %v", data, err)
			}
			if got.OK != tt.rate.OK {
				t.Errorf("OK = %v, want %v", got.OK, tt.rate.OK)
			}
			if got.OK && !got.Value.Equal(tt.rate.Value) {
				t.Errorf("Value = %s, want %s", got.Value, tt.rate.Value)
			}
		})
	}
}

func TestRate_UnmarshalBareNumber(t *testing.T) {
	var r Rate
	if err := json.Unmarshal([]byte("7.25"), &r); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if !r.OK || r.Value.String() != "7.25" {
		t.Errorf("Rate = %+v, want OK with 7.25", r)
	}
}

// Rates embedded in a response struct must decode, not just encode.
func TestRate_DecodesInsideStruct(t *testing.T) {
	type rollup struct {
		PerTrip Rate `json:"perTrip"`
		PerHour Rate `json:"perHour"`
	}

	in := rollup{
		PerTrip: PerTripRate(core.Money{Cents: 15000}, 7),
		PerHour: Rate{},
	}
	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}

	var out rollup
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	if !out.PerTrip.OK || !out.PerTrip.Value.Equal(in.PerTrip.Value) {
		t.Errorf("PerTrip = %+v, want %+v", out.PerTrip, in.PerTrip)
	}
	if out.PerHour.OK {
		t.Error("undefined rate must stay undefined after decoding null")
	}
}
