package progress

import (
	"testing"

	"github.com/tilemeter/tilemeter/pkg/errors"
)

func TestDecodeLine(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		want    Event
		wantErr bool
	}{
		{"denominator", "R10", Event{Kind: EventDenominator, Value: 10}, false},
		{"denominator large", "R100000", Event{Kind: EventDenominator, Value: 100000}, false},
		{"bare restart", "R", Event{Kind: EventRestart}, false},
		{"numerator", "3", Event{Kind: EventNumerator, Value: 3}, false},
		{"numerator zero", "0", Event{Kind: EventNumerator, Value: 0}, false},
		{"surrounding whitespace", "  7 \n", Event{Kind: EventNumerator, Value: 7}, false},

		{"empty", "", Event{}, true},
		{"whitespace only", "   ", Event{}, true},
		{"non-numeric", "abc", Event{}, true},
		{"non-numeric denominator", "Rabc", Event{}, true},
		{"negative numerator", "-3", Event{}, true},
		{"zero denominator", "R0", Event{}, true},
		{"negative denominator", "R-5", Event{}, true},
		{"float numerator", "3.5", Event{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeLine(tt.line)
			if (err != nil) != tt.wantErr {
				t.Fatalf("DecodeLine(%q) error = %v, wantErr %v", tt.line, err, tt.wantErr)
			}
			if err != nil {
				if !errors.Is(err, errors.ErrCodeDecode) {
					t.Errorf("error code = %v, want DECODE_ERROR", errors.GetCode(err))
				}
				return
			}
			if got != tt.want {
				t.Errorf("DecodeLine(%q) = %+v, want %+v", tt.line, got, tt.want)
			}
		})
	}
}

func TestEventKindString(t *testing.T) {
	tests := []struct {
		kind EventKind
		want string
	}{
		{EventDenominator, "denominator"},
		{EventNumerator, "numerator"},
		{EventRestart, "restart"},
		{EventKind(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("EventKind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}
