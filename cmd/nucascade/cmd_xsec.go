package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"nucascade/internal/evgen"
	"nucascade/internal/format"
	"nucascade/internal/masses"
	"nucascade/internal/reaction"
)

var xsecFlags struct {
	energies []float64
	markdown bool
}

var xsecCmd = &cobra.Command{
	Use:   "xsec",
	Short: "Tabulate the total capture cross section",
	Long: "Xsec evaluates the charged-current capture cross section on the\n" +
		"configured target at a ladder of projectile energies.",
	RunE: runXsec,
}

func init() {
	f := xsecCmd.Flags()
	f.Float64SliceVar(&xsecFlags.energies, "energy",
		[]float64{2.5, 5, 10, 15, 20, 25, 30, 40, 50}, "Projectile energies in MeV")
	f.BoolVar(&xsecFlags.markdown, "markdown", false, "Render the table as Markdown")
}

func runXsec(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	db, err := evgen.OpenStructure(ctx, rootCfg.Structure)
	if err != nil {
		return fmt.Errorf("open structure database: %w", err)
	}
	defer db.Close()

	rx, err := reaction.New(ctx, db, masses.NewTable(), rootCfg.Target)
	if err != nil {
		return fmt.Errorf("build reaction: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "νe + %s → e⁻ + %s, threshold %s MeV\n",
		rx.Target(), rx.Residue(), format.FmtMeV(rx.ThresholdEnergy()))

	tb := format.NewTable(tableMode(xsecFlags.markdown))
	tb.Header("E (MeV)", "σ (10⁻⁴² cm²)")
	tb.Columns(
		format.ColumnConfig{Number: 1, Align: format.AlignRight},
		format.ColumnConfig{Number: 2, Align: format.AlignRight},
	)
	for _, e := range xsecFlags.energies {
		sigma := rx.TotalXS(e) * reaction.HbarCSquared / 1e-42
		tb.Row(format.FmtMeV(e), fmt.Sprintf("%.4g", sigma))
	}
	fmt.Fprintln(out, tb.String())
	return nil
}
