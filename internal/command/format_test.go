package command

import (
	"testing"
	"time"
)

func TestFormatNumber(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{999, "999"},
		{1500, "1.5K"},
		{2_300_000, "2.3M"},
		{9_400_000_000, "9.4B"},
	}
	for _, c := range cases {
		if got := FormatNumber(c.in); got != c.want {
			t.Fatalf("FormatNumber(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestFormatPB(t *testing.T) {
	if got := FormatPB(nil); got != PBNotAvailable {
		t.Fatalf("FormatPB(nil) = %q, want %q", got, PBNotAvailable)
	}
	d := 405 * time.Second
	if got := FormatPB(&d); got != "6:45" {
		t.Fatalf("FormatPB(6m45s) = %q", got)
	}
	short := 59 * time.Second
	if got := FormatPB(&short); got != "0:59" {
		t.Fatalf("FormatPB(59s) = %q", got)
	}
}

func TestFormatLevel(t *testing.T) {
	if got := FormatLevel(44.5637); got != "44.56" {
		t.Fatalf("FormatLevel = %q", got)
	}
	if got := FormatLevel(0); got != "0.00" {
		t.Fatalf("FormatLevel(0) = %q", got)
	}
}
