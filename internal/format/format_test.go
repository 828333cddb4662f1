package format_test

import (
	"strings"
	"testing"
	"time"

	"nucascade/internal/format"
)

func TestTableASCII(t *testing.T) {
	tb := format.NewTable(format.ASCII)
	tb.Header("Run", "Events", "Duration")
	tb.Row("a1b2c3d4", 1000, "3s")
	tb.Row("e5f6a7b8", 250, "740ms")
	tb.Footer("total", 1250, "")

	out := tb.String()
	for _, want := range []string{"RUN", "EVENTS", "DURATION", "a1b2c3d4", "1000", "740ms", "1250"} {
		if !strings.Contains(out, want) {
			t.Errorf("ASCII output missing %q:\n%s", want, out)
		}
	}
	if lines := strings.Split(out, "\n"); len(lines) < 5 {
		t.Errorf("ASCII output suspiciously short:\n%s", out)
	}
}

func TestTableMarkdown(t *testing.T) {
	tb := format.NewTable(format.Markdown)
	tb.Header("Level", "Ex (MeV)")
	tb.Row("2+", "1.4609")
	out := tb.String()

	if !strings.Contains(out, "|") {
		t.Errorf("Markdown output has no pipes:\n%s", out)
	}
	if !strings.Contains(out, "---") {
		t.Errorf("Markdown output has no separator row:\n%s", out)
	}
	if !strings.Contains(out, "1.4609") {
		t.Errorf("Markdown output missing row value:\n%s", out)
	}
}

func TestTableColumnConfig(t *testing.T) {
	tb := format.NewTable(format.ASCII)
	tb.Header("Key", "Value")
	tb.Columns(
		format.ColumnConfig{Number: 1, Align: format.AlignLeft},
		format.ColumnConfig{Number: 2, Align: format.AlignRight, MaxWidth: 12},
	)
	tb.Row("events", 100000)
	out := tb.String()
	if !strings.Contains(out, "100000") {
		t.Errorf("configured table missing value:\n%s", out)
	}
}

func TestFmtDuration(t *testing.T) {
	cases := []struct {
		in   time.Duration
		want string
	}{
		{90 * time.Second, "1m30s"},
		{1234 * time.Millisecond, "1.23s"},
		{250 * time.Millisecond, "250ms"},
		{7*time.Millisecond + 400*time.Microsecond, "7ms"},
	}
	for _, tc := range cases {
		if got := format.FmtDuration(tc.in); got != tc.want {
			t.Errorf("FmtDuration(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFmtCount(t *testing.T) {
	cases := []struct {
		in   int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{1234567, "1,234,567"},
		{-4500, "-4,500"},
	}
	for _, tc := range cases {
		if got := format.FmtCount(tc.in); got != tc.want {
			t.Errorf("FmtCount(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFmtMeV(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{7.7998, "7.7998"},
		{0, "0.0000"},
		{1.5, "1.5000"},
	}
	for _, tc := range cases {
		if got := format.FmtMeV(tc.in); got != tc.want {
			t.Errorf("FmtMeV(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	cases := []struct {
		in   string
		max  int
		want string
	}{
		{"cascade", 10, "cascade"},
		{"fermi-dirac", 5, "ferm…"},
		{"untouched", 0, "untouched"},
		{"αβγδ", 3, "αβ…"},
		{"ab", 1, "…"},
	}
	for _, tc := range cases {
		if got := format.Truncate(tc.in, tc.max); got != tc.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tc.in, tc.max, got, tc.want)
		}
	}
}

func TestBoolMark(t *testing.T) {
	if got := format.BoolMark(true); got != "✓" {
		t.Errorf("BoolMark(true) = %q", got)
	}
	if got := format.BoolMark(false); got != "" {
		t.Errorf("BoolMark(false) = %q", got)
	}
}
