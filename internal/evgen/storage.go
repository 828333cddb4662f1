package evgen

import (
	"context"
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"

	"nucascade/internal/archive"
	archivemem "nucascade/internal/archive/memory"
	archivepg "nucascade/internal/archive/postgres"
	archivesqlite "nucascade/internal/archive/sqlite"
	"nucascade/internal/config"
	"nucascade/internal/metrics"
	"nucascade/internal/sink"
	sinkfs "nucascade/internal/sink/fs"
	sinkmem "nucascade/internal/sink/memory"
	sinks3 "nucascade/internal/sink/s3"
	"nucascade/internal/structure"
	structmem "nucascade/internal/structure/memory"
	structsqlite "nucascade/internal/structure/sqlite"
)

// StructureStore is a structure database with a releasable handle.
type StructureStore interface {
	structure.Database
	Close() error
}

// OpenStructure selects the structure database backend from cfg.
// Environment variables take precedence over the configuration:
//
//	NUCASCADE_STRUCTURE_DRIVER: memory|sqlite
//	NUCASCADE_STRUCTURE_PATH: dataset YAML (memory) or database file (sqlite)
func OpenStructure(ctx context.Context, cfg config.Structure) (StructureStore, error) {
	driver := os.Getenv("NUCASCADE_STRUCTURE_DRIVER")
	if driver == "" {
		driver = cfg.Driver
	}
	path := os.Getenv("NUCASCADE_STRUCTURE_PATH")
	if path == "" {
		path = cfg.Path
	}
	switch driver {
	case "memory":
		return structmem.Open(ctx, path)
	case "sqlite":
		return structsqlite.Open(path)
	default:
		return nil, fmt.Errorf("unknown structure driver %q", driver)
	}
}

// OpenSink selects the event sink backend from cfg.
// Environment variables take precedence over the configuration:
//
//	NUCASCADE_SINK_DRIVER: fs|memory|s3
//	NUCASCADE_SINK_FS_ROOT: filesystem root directory
//	NUCASCADE_SINK_S3_*: S3 settings (see internal/sink/s3)
func OpenSink(ctx context.Context, cfg config.Sink) (sink.Store, error) {
	driver := os.Getenv("NUCASCADE_SINK_DRIVER")
	if driver == "" {
		driver = cfg.Driver
	}
	switch sink.Driver(driver) {
	case sink.DriverMemory:
		return sinkmem.New(), nil
	case sink.DriverFilesystem:
		root := os.Getenv("NUCASCADE_SINK_FS_ROOT")
		if root == "" {
			root = cfg.Root
		}
		return sinkfs.New(root)
	case sink.DriverS3:
		return sinks3.OpenFromEnv(ctx)
	default:
		return nil, fmt.Errorf("unknown sink driver %q", driver)
	}
}

// OpenArchive selects the run catalog backend from cfg.
// Environment variables take precedence over the configuration:
//
//	NUCASCADE_ARCHIVE_DRIVER: memory|sqlite|postgres
//	NUCASCADE_ARCHIVE_SQLITE_PATH: sqlite file
//	NUCASCADE_ARCHIVE_POSTGRES_DSN: postgres connection string
func OpenArchive(ctx context.Context, cfg config.Archive) (archive.Store, error) {
	driver := os.Getenv("NUCASCADE_ARCHIVE_DRIVER")
	if driver == "" {
		driver = cfg.Driver
	}
	switch driver {
	case "memory":
		return archivemem.New(), nil
	case "sqlite":
		path := os.Getenv("NUCASCADE_ARCHIVE_SQLITE_PATH")
		if path == "" {
			path = cfg.Path
		}
		return archivesqlite.NewStore(ctx, path)
	case "postgres":
		dsn := os.Getenv("NUCASCADE_ARCHIVE_POSTGRES_DSN")
		if dsn == "" {
			dsn = cfg.DSN
		}
		return archivepg.NewStore(ctx, dsn)
	default:
		return nil, fmt.Errorf("unknown archive driver %q", driver)
	}
}

// BuildRecorder assembles the metrics recorders the configuration enables.
// A nil registerer selects the default Prometheus registry.
func BuildRecorder(cfg config.Metrics, reg prometheus.Registerer) (metrics.Recorder, error) {
	recs := make([]metrics.Recorder, 0, 2)
	if cfg.Expvar {
		recs = append(recs, metrics.NewExpvarRecorder(""))
	}
	if cfg.Prometheus {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		rec, err := metrics.NewPrometheusRecorder(reg)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return metrics.Tee(recs...), nil
}
