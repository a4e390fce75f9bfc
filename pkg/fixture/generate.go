package fixture

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"time"

	"github.com/zeebo/xxh3"
)

const writeBufferSize = 64 * 1024

type options struct {
	observer  Observer
	buckets   int
	pool      *NamePool
	rand      *rand.Rand
	generator RowGenerator
}

// Option configures a Generate call
type Option func(*options)

// WithObserver sets the progress observer. The default discards notices.
func WithObserver(o Observer) Option {
	return func(opts *options) {
		if o != nil {
			opts.observer = o
		}
	}
}

// WithBuckets sets how many reporting intervals a run is split into
func WithBuckets(n int) Option {
	return func(opts *options) { opts.buckets = n }
}

// WithPool sets the name pool used by the default students generator
func WithPool(p *NamePool) Option {
	return func(opts *options) { opts.pool = p }
}

// WithRand sets the random source, typically to get a reproducible file
func WithRand(r *rand.Rand) Option {
	return func(opts *options) { opts.rand = r }
}

// WithSeed is WithRand over a PCG source seeded with seed
func WithSeed(seed uint64) Option {
	return WithRand(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
}

// WithGenerator replaces the students generator; WithPool is then ignored
func WithGenerator(g RowGenerator) Option {
	return func(opts *options) { opts.generator = g }
}

// countingWriter tracks how many bytes reached the file
type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

// Generate writes limit rows to path, creating or truncating it.
//
// A zero limit produces an empty file. Progress is reported every
// ReportingInterval rows, never at row 0. The file is flushed and closed on
// every return path; a failed or cancelled run leaves whatever rows were
// written so far.
func Generate(ctx context.Context, limit int64, path string, opts ...Option) (sum *Summary, err error) {
	o := options{
		observer: NopObserver{},
		buckets:  DefaultBuckets,
	}
	for _, opt := range opts {
		opt(&o)
	}

	if limit < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLimit, limit)
	}
	if o.buckets < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidBuckets, o.buckets)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if o.rand == nil {
		o.rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	gen := o.generator
	if gen == nil {
		pool := o.pool
		if pool == nil {
			pool = DefaultPool()
		}
		gen = &StudentGenerator{Pool: pool}
	}
	gen.Init(o.rand)

	interval := ReportingInterval(limit, o.buckets)
	start := time.Now()

	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCreate, err)
	}

	hasher := xxh3.New()
	counter := &countingWriter{w: io.MultiWriter(file, hasher)}
	w := bufio.NewWriterSize(counter, writeBufferSize)

	defer func() {
		flushErr := w.Flush()
		closeErr := file.Close()
		if err != nil {
			return
		}
		switch {
		case flushErr != nil:
			err = fmt.Errorf("%w: %s: %w", ErrFlush, path, flushErr)
		case closeErr != nil:
			err = fmt.Errorf("%w: %s: %w", ErrFlush, path, closeErr)
		default:
			sum.Bytes = counter.n
			sum.Checksum = hasher.Sum64()
			sum.Elapsed = time.Since(start)
			return
		}
		sum = nil
	}()

	for idx := int64(0); idx < limit; idx++ {
		if idx > 0 && idx%interval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			o.observer.Progress(idx)
		}
		if err := gen.WriteRow(w, idx); err != nil {
			return nil, fmt.Errorf("%w: row %d of %s: %w", ErrWrite, idx, path, err)
		}
	}
	o.observer.Done(limit)

	return &Summary{Path: path, Rows: limit}, nil
}
