package main

import (
	"fmt"
	"io"
	"strings"

	"nucascade/internal/format"
	"nucascade/pkg/nucleus"
)

func tableMode(markdown bool) format.Mode {
	if markdown {
		return format.Markdown
	}
	return format.ASCII
}

// jpiString renders a level spin-parity, e.g. "2+" or "3/2-". TwoJ is twice
// the spin, so odd values are half-integer spins.
func jpiString(twoJ int, p nucleus.Parity) string {
	if twoJ%2 == 0 {
		return fmt.Sprintf("%d%s", twoJ/2, p)
	}
	return fmt.Sprintf("%d/2%s", twoJ, p)
}

// branchString renders a level's gamma branches as arrows to level indices
// with their branching ratios.
func branchString(lv nucleus.Level) string {
	if len(lv.Branches) == 0 {
		return "-"
	}
	parts := make([]string, len(lv.Branches))
	for i, br := range lv.Branches {
		parts[i] = fmt.Sprintf("→%d %.3f", br.Target, br.Probability)
	}
	return strings.Join(parts, "  ")
}

func printViolations(w io.Writer, res nucleus.Result, markdown bool) {
	tb := format.NewTable(tableMode(markdown))
	tb.Header("Severity", "Nuclide", "Level", "Rule", "Message")
	tb.Columns(format.ColumnConfig{Number: 5, MaxWidth: 60})
	for _, v := range res.Violations {
		tb.Row(string(v.Severity), v.Nuclide.String(), v.Level, v.Rule, v.Message)
	}
	fmt.Fprintln(w, tb.String())
}
