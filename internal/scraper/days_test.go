package scraper

import (
	"fmt"
	"reflect"
	"testing"
)

func TestParseDays(t *testing.T) {
	tests := []struct {
		input    string
		expected []int
	}{
		{"15", []int{15}},
		{"1-5", []int{1, 2, 3, 4, 5}},
		{"1, 5, 10", []int{1, 5, 10}},
		{"1-3, 20", []int{1, 2, 3, 20}},
		{"29-31, 1-2", []int{29, 30, 31, 1, 2}},
		{" 7 - 9 ", []int{7, 8, 9}},
		{"5-5", []int{5}},
		{"10-3", []int{}}, // backwards range yields nothing
		{"TBA", []int{}},
		{"3, TBA, 4", []int{3, 4}},
		{"15th", []int{15}},
		{"a-5", []int{}},
		{"-5", []int{}},
		{"1-2-3", []int{1, 2}},
		{"2, 2", []int{2, 2}},
		{"", []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDays(tt.input)
			if err != nil {
				t.Fatalf("ParseDays(%q) error: %v", tt.input, err)
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("ParseDays(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestParseDays_RangeLength(t *testing.T) {
	for a := 1; a <= 31; a++ {
		for b := a; b <= 31; b++ {
			days, err := ParseDays(fmt.Sprintf("%d-%d", a, b))
			if err != nil {
				t.Fatalf("ParseDays(%d-%d) error: %v", a, b, err)
			}

			if len(days) != b-a+1 {
				t.Fatalf("ParseDays(%d-%d) returned %d days, want %d", a, b, len(days), b-a+1)
			}
			for i, d := range days {
				if d != a+i {
					t.Fatalf("ParseDays(%d-%d)[%d] = %d, want %d", a, b, i, d, a+i)
				}
			}
		}
	}
}

func TestParseDays_MixedLength(t *testing.T) {
	// 3 + 1 + 5 + 1
	days, err := ParseDays("1-3, 7, 10-14, 28")
	if err != nil {
		t.Fatalf("ParseDays() error: %v", err)
	}
	if len(days) != 10 {
		t.Errorf("expected 10 days, got %d: %v", len(days), days)
	}

	want := []int{1, 2, 3, 7, 10, 11, 12, 13, 14, 28}
	if !reflect.DeepEqual(days, want) {
		t.Errorf("ParseDays() = %v, want %v", days, want)
	}
}

func TestParseDays_RangeOutOfBounds(t *testing.T) {
	tests := []string{
		"1-9223372036854775807",
		"1-50000000",
		"0-5",
		"30-32",
		"3, 1-100",
	}

	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			days, err := ParseDays(input)
			if err == nil {
				t.Fatalf("ParseDays(%q) = %v, want error", input, days)
			}
		})
	}
}

func TestLeadingInt(t *testing.T) {
	tests := []struct {
		input  string
		want   int
		wantOK bool
	}{
		{"12", 12, true},
		{" 12 ", 12, true},
		{"12 (Mon)", 12, true},
		{"x12", 0, false},
		{"", 0, false},
		{"99999999999999999999999", 0, false}, // overflow
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := leadingInt(tt.input)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("leadingInt(%q) = (%d, %v), want (%d, %v)", tt.input, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}
