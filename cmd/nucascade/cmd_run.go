package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"nucascade/internal/evgen"
	"nucascade/internal/format"
)

var runFlags struct {
	events int
	seed   uint64
	shards int
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Generate a batch of cascade events",
	Long: "Run samples projectile energies from the configured spectrum, builds\n" +
		"one capture event per interacting neutrino, walks the residue\n" +
		"de-excitation and writes the batch to the event sink in HEPEvt format.",
	RunE: runRun,
}

func init() {
	f := runCmd.Flags()
	f.IntVar(&runFlags.events, "events", 0, "Number of events to generate (overrides config)")
	f.Uint64Var(&runFlags.seed, "seed", 0, "Random seed (overrides config)")
	f.IntVar(&runFlags.shards, "shards", 0, "Parallel generation shards (overrides config)")
}

func runRun(cmd *cobra.Command, _ []string) error {
	cfg := rootCfg
	if runFlags.events > 0 {
		cfg.Run.Events = runFlags.events
	}
	if cmd.Flags().Changed("seed") {
		cfg.Run.Seed = runFlags.seed
	}
	if runFlags.shards > 0 {
		cfg.Run.Shards = runFlags.shards
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx := cmd.Context()
	db, err := evgen.OpenStructure(ctx, cfg.Structure)
	if err != nil {
		return fmt.Errorf("open structure database: %w", err)
	}
	defer db.Close()
	snk, err := evgen.OpenSink(ctx, cfg.Sink)
	if err != nil {
		return fmt.Errorf("open event sink: %w", err)
	}
	arch, err := evgen.OpenArchive(ctx, cfg.Archive)
	if err != nil {
		return fmt.Errorf("open run archive: %w", err)
	}
	defer arch.Close()
	rec, err := evgen.BuildRecorder(cfg.Metrics, nil)
	if err != nil {
		return fmt.Errorf("build metrics recorder: %w", err)
	}

	run, err := evgen.New(cfg, db, snk, arch, rec).Run(ctx)
	if err != nil {
		return err
	}

	tb := format.NewTable(format.ASCII)
	tb.Header("Run", "Target", "Source", "Events", "Gammas", "Fragments", "Duration")
	tb.Row(
		run.ID,
		run.Target,
		run.Source,
		format.FmtCount(int64(run.Events)),
		format.FmtCount(run.Gammas),
		format.FmtCount(run.Fragments),
		format.FmtDuration(run.Duration()),
	)
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, tb.String())
	fmt.Fprintf(out, "Events written to %s\n", run.EventsKey)
	return nil
}
