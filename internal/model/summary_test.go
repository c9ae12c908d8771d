package model

import "testing"

func TestParseAmount(t *testing.T) {
	tests := []struct {
		input  string
		want   int64
		wantOK bool
	}{
		{"25000", 25000, true},
		{"Rp 25.000", 25000, true},
		{"  1,500,000 ", 1500000, true},
		{"0", 0, true},
		{"abc", 0, false},
		{"", 0, false},
		{"99999999999999999999999", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseAmount(tt.input)
			if ok != tt.wantOK || got != tt.want {
				t.Fatalf("ParseAmount(%q) = %d, %v; want %d, %v", tt.input, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestFormatRupiah(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1.000"},
		{25000, "25.000"},
		{250000, "250.000"},
		{1500000, "1.500.000"},
	}
	for _, tt := range tests {
		if got := FormatRupiah(tt.in); got != tt.want {
			t.Fatalf("FormatRupiah(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSummaryFallbacks(t *testing.T) {
	d := &Draft{TxID: "TX-1", Name: "Budi", Maal: 25000}
	s := d.Summary()

	if s.Name != "Budi" || s.Address != "-" || s.PaymentMethod != "-" || s.Headcount != "-" {
		t.Fatalf("unexpected fallbacks %+v", s)
	}
	if s.Maal != "25.000" || s.Fidyah != "0" {
		t.Fatalf("unexpected amounts %+v", s)
	}
	if s.Ready() {
		t.Fatalf("incomplete draft reported ready")
	}

	d.Address, d.PaymentMethod, d.Headcount = "A1/1", "Uang", 3
	s = d.Summary()
	if !s.Ready() || s.Headcount != "3" {
		t.Fatalf("expected ready summary, got %+v", s)
	}
}
