package models

import "testing"

func TestParseCriticalLevel(t *testing.T) {
	tests := []struct {
		value  string
		want   CriticalLevel
		wantOK bool
	}{
		{value: "High", want: CriticalHigh, wantOK: true},
		{value: "high", want: CriticalHigh, wantOK: true},
		{value: " MEDIUM ", want: CriticalMedium, wantOK: true},
		{value: "low", want: CriticalLow, wantOK: true},
		{value: "Severe"},
		{value: ""},
	}

	for _, tt := range tests {
		got, ok := ParseCriticalLevel(tt.value)
		if got != tt.want || ok != tt.wantOK {
			t.Fatalf("ParseCriticalLevel(%q) = %q, %v; want %q, %v", tt.value, got, ok, tt.want, tt.wantOK)
		}
	}
}
