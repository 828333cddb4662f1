package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"nucascade/internal/evgen"
	"nucascade/internal/format"
	"nucascade/pkg/nucleus"
)

var levelsFlags struct {
	z        int
	a        int
	markdown bool
}

var levelsCmd = &cobra.Command{
	Use:   "levels",
	Short: "Print the tabulated decay scheme for a nuclide",
	RunE:  runLevels,
}

func init() {
	f := levelsCmd.Flags()
	f.IntVar(&levelsFlags.z, "z", 0, "Proton number (default: the capture residue of the configured target)")
	f.IntVar(&levelsFlags.a, "a", 0, "Mass number")
	f.BoolVar(&levelsFlags.markdown, "markdown", false, "Render the table as Markdown")
}

func runLevels(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	db, err := evgen.OpenStructure(ctx, rootCfg.Structure)
	if err != nil {
		return fmt.Errorf("open structure database: %w", err)
	}
	defer db.Close()

	n := nucleus.Nuclide{Z: rootCfg.Target.Z + 1, A: rootCfg.Target.A}
	if levelsFlags.z > 0 || levelsFlags.a > 0 {
		n = nucleus.Nuclide{Z: levelsFlags.z, A: levelsFlags.a}
	}
	ds, err := db.Scheme(ctx, n)
	if err != nil {
		return fmt.Errorf("load scheme for %s: %w", n, err)
	}

	tb := format.NewTable(tableMode(levelsFlags.markdown))
	tb.Header("#", "Ex (MeV)", "Jπ", "Gamma branches")
	tb.Columns(
		format.ColumnConfig{Number: 1, Align: format.AlignRight},
		format.ColumnConfig{Number: 2, Align: format.AlignRight},
	)
	for i, lv := range ds.Levels {
		tb.Row(i, format.FmtMeV(lv.Energy), jpiString(lv.TwoJ, lv.Parity), branchString(lv))
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s: %d tabulated levels\n", n, len(ds.Levels))
	fmt.Fprintln(out, tb.String())
	return nil
}
