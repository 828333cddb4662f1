// Package evgen orchestrates full generation runs. It binds the reaction,
// source spectrum, cascade, and storage layers together and drives the
// parallel shards that emit events.
package evgen

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"nucascade/internal/archive"
	"nucascade/internal/cascade"
	"nucascade/internal/config"
	"nucascade/internal/logging"
	"nucascade/internal/masses"
	"nucascade/internal/metrics"
	"nucascade/internal/reaction"
	"nucascade/internal/rng"
	"nucascade/internal/sink"
	"nucascade/internal/strength"
	"nucascade/internal/structure"
	"nucascade/pkg/nucleus"
)

// Service runs event generation against a fixed set of backends.
type Service struct {
	cfg  config.Config
	db   structure.Database
	mt   *masses.Table
	sink sink.Store
	arch archive.Store
	rec  metrics.Recorder
	log  *slog.Logger
}

// New builds a generation service. A nil recorder disables metrics.
func New(cfg config.Config, db structure.Database, snk sink.Store, arch archive.Store, rec metrics.Recorder) *Service {
	if rec == nil {
		rec = metrics.Nop{}
	}
	return &Service{
		cfg:  cfg,
		db:   db,
		mt:   masses.NewTable(),
		sink: snk,
		arch: arch,
		rec:  rec,
		log:  logging.New("evgen"),
	}
}

// shard is one worker's slice of the run: a contiguous range of event
// numbers with a private generator and output buffer, so shard outputs
// concatenate into the same file regardless of scheduling.
type shard struct {
	index int
	start int
	count int

	buf       bytes.Buffer
	steps     int64
	gammas    int64
	fragments int64
}

// Run generates the configured number of events, writes the run's HEPEvt
// file to the sink, and registers the run in the archive. The record is
// stored once at start and upserted complete at finish, so an aborted run
// stays visible with a zero FinishedAt.
func (s *Service) Run(ctx context.Context) (archive.Run, error) {
	runID := uuid.NewString()
	log := s.log.With(slog.String("run", runID))
	started := time.Now().UTC()

	rx, err := reaction.New(ctx, s.db, s.mt, s.cfg.Target)
	if err != nil {
		return archive.Run{}, err
	}
	spec, err := buildSpectrum(s.cfg.Source)
	if err != nil {
		return archive.Run{}, err
	}
	sampler, err := newFoldedSampler(spec, rx)
	if err != nil {
		return archive.Run{}, err
	}

	emin, emax := spec.Bounds()
	run := archive.Run{
		ID:            runID,
		Seed:          s.cfg.Run.Seed,
		Shards:        s.cfg.Run.Shards,
		Target:        s.cfg.Target,
		ProjectilePDG: nucleus.PDGElectronNeutrino,
		Source:        s.cfg.Source.String(),
		EnergyMin:     emin,
		EnergyMax:     emax,
		StartedAt:     started,
	}
	if err := s.arch.Put(ctx, run); err != nil {
		return archive.Run{}, fmt.Errorf("registering run %s: %w", runID, err)
	}

	log.Info("run started",
		slog.String("target", s.cfg.Target.String()),
		slog.String("source", run.Source),
		slog.Int("events", s.cfg.Run.Events),
		slog.Int("shards", s.cfg.Run.Shards),
		slog.Uint64("seed", s.cfg.Run.Seed),
	)

	shards := splitShards(s.cfg.Run.Events, s.cfg.Run.Shards)
	root := rng.New(s.cfg.Run.Seed)
	g, gctx := errgroup.WithContext(ctx)
	for _, sh := range shards {
		g.Go(func() error {
			return s.runShard(gctx, sh, rx, sampler, root.Derive(uint64(sh.index)))
		})
	}
	if err := g.Wait(); err != nil {
		return archive.Run{}, fmt.Errorf("run %s: %w", runID, err)
	}

	var out bytes.Buffer
	for _, sh := range shards {
		run.Steps += sh.steps
		run.Gammas += sh.gammas
		run.Fragments += sh.fragments
		out.Write(sh.buf.Bytes())
	}
	run.Events = s.cfg.Run.Events

	info, err := s.sink.Put(ctx, sink.EventsKey(runID), &out, sink.PutOptions{
		ContentType: "text/plain; charset=utf-8",
		Metadata: map[string]string{
			"events": strconv.Itoa(run.Events),
			"seed":   strconv.FormatUint(run.Seed, 10),
		},
	})
	if err != nil {
		return archive.Run{}, fmt.Errorf("writing events for run %s: %w", runID, err)
	}
	run.EventsKey = info.Key
	run.FinishedAt = time.Now().UTC()

	if err := s.arch.Put(ctx, run); err != nil {
		return archive.Run{}, fmt.Errorf("completing run %s: %w", runID, err)
	}
	s.rec.RecordRun(run.Events, run.Duration())

	log.Info("run finished",
		slog.Int("events", run.Events),
		slog.Int64("cascade_steps", run.Steps),
		slog.String("events_key", run.EventsKey),
		slog.Duration("duration", run.Duration()),
	)
	return run, nil
}

// splitShards divides n events over up to count contiguous shards,
// front-loading the remainder so shard outputs concatenate in event order.
func splitShards(n, count int) []*shard {
	if count > n {
		count = n
	}
	if count < 1 {
		count = 1
	}
	out := make([]*shard, count)
	base, rem := n/count, n%count
	start := 0
	for i := range out {
		c := base
		if i < rem {
			c++
		}
		out[i] = &shard{index: i, start: start, count: c}
		start += c
	}
	return out
}

// runShard generates the shard's slice of events into its private buffer.
// Each shard owns its channel source, so no width tables are shared across
// generators.
func (s *Service) runShard(ctx context.Context, sh *shard, rx *reaction.Reaction, sampler *foldedSampler, gen *rng.Generator) error {
	driver := cascade.NewDriver(strength.NewModel(s.db, s.mt, nil))
	for k := 0; k < sh.count; k++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		ea, err := sampler.Sample(gen)
		if err != nil {
			return err
		}
		ev, st, err := rx.CreateEvent(ea, gen)
		if err != nil {
			return err
		}
		_, stats, err := driver.Cascade(ctx, st, &ev, gen)
		if err != nil {
			return err
		}
		if err := ev.WriteHEPEvt(sh.start+k+1, &sh.buf); err != nil {
			return err
		}
		sh.steps += int64(stats.Steps)
		sh.gammas += int64(stats.Gammas)
		sh.fragments += int64(stats.Fragments)
		s.rec.RecordEvent(stats.Steps, stats.Gammas, stats.Fragments)
	}
	return nil
}
