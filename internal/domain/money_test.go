package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestSanitizeAmount(t *testing.T) {
	cases := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"$100.00", "100", true},
		{"50", "50", true},
		{"  1,234.50 ", "1234.5", true},
		{"$ 7.25", "7.25", true},
		{"$1,000,000", "1000000", true},
		{"-5", "-5", true},
		{"0", "0", true},
		{"", "", false},
		{"   ", "", false},
		{"$", "", false},
		{"abc", "", false},
		{"12abc", "", false},
		{"1.2.3", "", false},
	}
	for _, tc := range cases {
		got, ok := SanitizeAmount(tc.in)
		if ok != tc.wantOK {
			t.Fatalf("SanitizeAmount(%q) ok=%v want=%v", tc.in, ok, tc.wantOK)
		}
		if !ok {
			continue
		}
		if want := decimal.RequireFromString(tc.want); !got.Equal(want) {
			t.Fatalf("SanitizeAmount(%q)=%s want=%s", tc.in, got, want)
		}
	}
}

func TestSanitizeAmountIsExact(t *testing.T) {
	a, _ := SanitizeAmount("0.1")
	b, _ := SanitizeAmount("0.2")
	if sum := a.Add(b); !sum.Equal(decimal.RequireFromString("0.3")) {
		t.Fatalf("0.1+0.2=%s want 0.3", sum)
	}
}

func TestFormatExact(t *testing.T) {
	cases := map[string]string{
		"100":   "100.00",
		"50.5":  "50.50",
		"0":     "0.00",
		"1.005": "1.005",
		"12.34": "12.34",
	}
	for in, want := range cases {
		if got := FormatExact(decimal.RequireFromString(in)); got != want {
			t.Errorf("FormatExact(%s)=%q want=%q", in, got, want)
		}
	}
}

func TestFormatMoney(t *testing.T) {
	if got := FormatMoney(decimal.RequireFromString("100")); got != "$100.00" {
		t.Fatalf("FormatMoney=%q want=$100.00", got)
	}
}

func TestValidPIN(t *testing.T) {
	for _, pin := range []string{"0000", "1234", "9999"} {
		if !ValidPIN(pin) {
			t.Errorf("ValidPIN(%q)=false want true", pin)
		}
	}
	for _, pin := range []string{"", "123", "12345", "12a4", " 123", "１２３４"} {
		if ValidPIN(pin) {
			t.Errorf("ValidPIN(%q)=true want false", pin)
		}
	}
}
