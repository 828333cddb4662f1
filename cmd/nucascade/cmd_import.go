package main

import (
	"fmt"

	"github.com/spf13/cobra"

	structmem "nucascade/internal/structure/memory"
	structsqlite "nucascade/internal/structure/sqlite"
)

var importFlags struct {
	dataset string
	out     string
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Load a YAML dataset into a sqlite structure database",
	Long: "Import reads a structure dataset, validates it and replaces the\n" +
		"contents of the destination sqlite database with it.",
	RunE: runImport,
}

func init() {
	f := importCmd.Flags()
	f.StringVar(&importFlags.dataset, "dataset", "", "Dataset YAML file (default: the embedded dataset)")
	f.StringVar(&importFlags.out, "out", "nucascade.db", "Destination sqlite database file")
}

func runImport(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	src, err := structmem.Open(ctx, importFlags.dataset)
	if err != nil {
		return fmt.Errorf("load dataset: %w", err)
	}
	dst, err := structsqlite.Open(importFlags.out)
	if err != nil {
		return fmt.Errorf("open destination: %w", err)
	}
	defer dst.Close()
	if err := dst.Import(ctx, src); err != nil {
		return fmt.Errorf("import: %w", err)
	}

	nuclides, err := src.Nuclides(ctx)
	if err != nil {
		return err
	}
	targets, err := src.Targets(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d decay schemes and %d reaction targets into %s\n",
		len(nuclides), len(targets), dst.Path())
	return nil
}
