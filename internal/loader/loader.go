// Package loader streams fixture files into a sink in batches.
package loader

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"pkg.jsn.cam/fixturegen/pkg/fixture"
)

const (
	DefaultBatchSize = 4
	DefaultWorkers   = 4

	maxLineSize = 1024 * 1024
)

// Sink receives decoded records. Insert may be called from several
// goroutines at once.
type Sink interface {
	Insert(ctx context.Context, records []fixture.Record) error
}

// Loader reads a fixture line by line, groups rows into batches and hands
// the batches to a fixed number of workers.
type Loader struct {
	Sink      Sink
	BatchSize int
	Workers   int
}

// Stats summarises a load
type Stats struct {
	Rows    int64
	Batches int64
	Elapsed time.Duration
}

type line struct {
	n    int64
	text string
}

// Run loads the file at path
func (l *Loader) Run(ctx context.Context, path string) (*Stats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return l.RunReader(ctx, f)
}

// RunReader loads rows from r. The first error (read, decode or insert)
// cancels the remaining work and is returned; rows already inserted stay.
func (l *Loader) RunReader(ctx context.Context, r io.Reader) (*Stats, error) {
	batchSize := l.BatchSize
	if batchSize < 1 {
		batchSize = DefaultBatchSize
	}
	workers := l.Workers
	if workers < 1 {
		workers = DefaultWorkers
	}
	logger := log.WithField("component", "loader")

	start := time.Now()
	var rows, batchCount atomic.Int64

	g, ctx := errgroup.WithContext(ctx)
	lines := make(chan line, batchSize*workers)
	batches := make(chan []fixture.Record, workers)

	// Read file line by line
	g.Go(func() error {
		defer close(lines)

		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
		var n int64
		for scanner.Scan() {
			select {
			case lines <- line{n: n, text: scanner.Text()}:
			case <-ctx.Done():
				return ctx.Err()
			}
			n++
		}
		if err := scanner.Err(); err != nil {
			return fmt.Errorf("read line %d: %w", n, err)
		}
		logger.Debugf("Finished reading %s rows", humanize.Comma(n))
		return nil
	})

	// Decode and group into batches
	g.Go(func() error {
		defer close(batches)

		send := func(b []fixture.Record) error {
			select {
			case batches <- b:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		batch := make([]fixture.Record, 0, batchSize)
		for ln := range lines {
			rec, err := fixture.ParseRecord([]byte(ln.text))
			if err != nil {
				return fmt.Errorf("%w: line %d: %v", ErrMalformedRow, ln.n, err)
			}
			batch = append(batch, rec)
			if len(batch) == batchSize {
				if err := send(batch); err != nil {
					return err
				}
				batch = make([]fixture.Record, 0, batchSize)
			}
		}
		if len(batch) > 0 {
			return send(batch)
		}
		return nil
	})

	for id := 0; id < workers; id++ {
		g.Go(func() error {
			wlog := logger.WithField("worker", id)
			for batch := range batches {
				if err := l.Sink.Insert(ctx, batch); err != nil {
					return fmt.Errorf("%w: worker %d, rows %d-%d: %w",
						ErrInsertFailed, id, batch[0].ID, batch[len(batch)-1].ID, err)
				}
				rows.Add(int64(len(batch)))
				batchCount.Add(1)
				wlog.Debugf("Inserted %d rows", len(batch))
			}
			return nil
		})
	}

	logger.Infof("Loading with %d workers (batch size %d)", workers, batchSize)

	err := g.Wait()
	stats := &Stats{Rows: rows.Load(), Batches: batchCount.Load(), Elapsed: time.Since(start)}
	if err != nil {
		return stats, err
	}

	logger.Infof("Loaded %s rows in %s batches (%v)",
		humanize.Comma(stats.Rows), humanize.Comma(stats.Batches), stats.Elapsed)
	return stats, nil
}
