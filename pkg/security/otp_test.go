package security

import (
	"strconv"
	"testing"
)

func TestNewOTP_Range(t *testing.T) {
	for i := 0; i < 1000; i++ {
		code := NewOTP()
		if len(code) != 4 {
			t.Fatalf("NewOTP() = %q, want 4 digits", code)
		}
		n, err := strconv.Atoi(code)
		if err != nil {
			t.Fatalf("NewOTP() = %q, not numeric", code)
		}
		if n < 1000 || n > 9999 {
			t.Fatalf("NewOTP() = %d, want within [1000, 9999]", n)
		}
	}
}

func TestOTPMatches(t *testing.T) {
	tests := []struct {
		name     string
		expected string
		supplied string
		want     bool
	}{
		{"exact match", "1234", "1234", true},
		{"mismatch", "1234", "4321", false},
		{"empty supplied", "1234", "", false},
		{"leading zero is not the same code", "1234", "01234", false},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := OTPMatches(test.expected, test.supplied); got != test.want {
				t.Errorf("OTPMatches(%q, %q) = %v, want %v", test.expected, test.supplied, got, test.want)
			}
		})
	}
}
