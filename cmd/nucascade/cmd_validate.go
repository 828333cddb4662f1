package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"nucascade/internal/evgen"
	"nucascade/internal/structure"
	"nucascade/pkg/nucleus"
)

var validateFlags struct {
	markdown bool
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the structure database against the validation rules",
	Long: "Validate runs every structure rule (level ordering, branch targets,\n" +
		"branching ratio sums, spin-parity ranges) over the configured database\n" +
		"and reports violations. Blocking violations make the command fail.",
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().BoolVar(&validateFlags.markdown, "markdown", false, "Render violations as Markdown")
}

func runValidate(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	db, err := evgen.OpenStructure(ctx, rootCfg.Structure)
	if err != nil {
		// The memory backend validates on open; surface its findings the
		// same way as a post-open check.
		var rve nucleus.RuleViolationError
		if errors.As(err, &rve) {
			printViolations(out, rve.Result, validateFlags.markdown)
			return err
		}
		return fmt.Errorf("open structure database: %w", err)
	}
	defer db.Close()

	res, err := structure.Validate(ctx, db)
	if len(res.Violations) > 0 {
		printViolations(out, res, validateFlags.markdown)
	}
	if err != nil {
		return err
	}

	nuclides, err := db.Nuclides(ctx)
	if err != nil {
		return err
	}
	targets, err := db.Targets(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "structure data OK: %d decay schemes, %d reaction targets\n",
		len(nuclides), len(targets))
	return nil
}
