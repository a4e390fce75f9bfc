// Package batch runs a plan of fixture generations one after another.
package batch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/dustin/go-humanize"
	log "github.com/sirupsen/logrus"

	"pkg.jsn.cam/fixturegen/pkg/fixture"
)

// ErrRunFailed wraps the error of the run that stopped a batch
var ErrRunFailed = errors.New("fixture run failed")

// DefaultCounts are the row counts of the standard students batch
var DefaultCounts = []int64{10, 100, 1000, 10000, 100000, 1000000}

// Run is one entry of a plan
type Run struct {
	Count int64  `toml:"count"`
	Path  string `toml:"path"`
}

// Plan is the pool and run list a Driver executes
type Plan struct {
	Generator string
	Names     []string
	Runs      []Run
	Buckets   int
	Seed      *uint64 // fixed seed for every run; nil means random
}

// DefaultPath is the conventional output file for a run of count rows
func DefaultPath(count int64) string {
	return fmt.Sprintf("./students-%d.json.txt", count)
}

// DefaultPlan returns the six standard students runs in the current directory
func DefaultPlan() Plan {
	runs := make([]Run, len(DefaultCounts))
	for i, count := range DefaultCounts {
		runs[i] = Run{Count: count, Path: DefaultPath(count)}
	}
	return Plan{
		Generator: "students",
		Names:     append([]string(nil), fixture.DefaultNames...),
		Runs:      runs,
		Buckets:   fixture.DefaultBuckets,
	}
}

// Recorder is told about every completed run
type Recorder interface {
	Record(sum *fixture.Summary, generator string, names []string) error
}

// ObserverFactory builds the progress observer for one run
type ObserverFactory func(run Run) fixture.Observer

// Driver executes a Plan sequentially
type Driver struct {
	Plan      Plan
	Dir       string // base for relative run paths; empty means the working directory
	Observers ObserverFactory
	Recorder  Recorder
}

// Run executes every run in order. The first failure stops the batch; the
// summaries of runs completed before it are returned along with the error.
func (d *Driver) Run(ctx context.Context) ([]*fixture.Summary, error) {
	logger := log.WithField("component", "batch")

	pool, err := fixture.NewNamePool(d.Plan.Names)
	if err != nil {
		return nil, err
	}
	generator := d.Plan.Generator
	if generator == "" {
		generator = "students"
	}
	// fail on an unknown generator before touching any file
	factory, err := fixture.Lookup(generator)
	if err != nil {
		return nil, err
	}

	logger.Infof("Starting batch of %d runs (generator: %s)", len(d.Plan.Runs), generator)

	summaries := make([]*fixture.Summary, 0, len(d.Plan.Runs))
	for i, run := range d.Plan.Runs {
		path := d.resolve(run.Path)

		opts := []fixture.Option{fixture.WithGenerator(factory(pool))}
		if d.Plan.Buckets > 0 {
			opts = append(opts, fixture.WithBuckets(d.Plan.Buckets))
		}
		if d.Plan.Seed != nil {
			opts = append(opts, fixture.WithSeed(*d.Plan.Seed))
		}
		if d.Observers != nil {
			opts = append(opts, fixture.WithObserver(d.Observers(Run{Count: run.Count, Path: path})))
		}

		logger.Infof("Run %d/%d: %s rows -> %s", i+1, len(d.Plan.Runs), humanize.Comma(run.Count), path)

		sum, err := fixture.Generate(ctx, run.Count, path, opts...)
		if err != nil {
			return summaries, fmt.Errorf("%w: %s: %w", ErrRunFailed, path, err)
		}

		if d.Recorder != nil {
			if err := d.Recorder.Record(sum, generator, pool.Names()); err != nil {
				return summaries, fmt.Errorf("%w: %s: recording: %w", ErrRunFailed, path, err)
			}
		}

		logger.Infof("Wrote %s (%s, %s rows) in %v",
			path, humanize.Bytes(uint64(sum.Bytes)), humanize.Comma(sum.Rows), sum.Elapsed)
		summaries = append(summaries, sum)
	}

	return summaries, nil
}

func (d *Driver) resolve(path string) string {
	if d.Dir == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(d.Dir, path)
}
