package main

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"

	"pkg.jsn.cam/fixturegen/internal/loader"
	"pkg.jsn.cam/fixturegen/pkg/storage"
)

type CmdLoad struct {
	File      string `arg:"" type:"existingfile" help:"Fixture file to load."`
	Sink      string `default:"bolt" enum:"bolt,bigquery" help:"Where rows go (${enum})."`
	DB        string `default:"var/records.db" help:"Database file for the bolt sink."`
	Project   string `help:"GCP project (bigquery sink)."`
	Dataset   string `help:"BigQuery dataset (bigquery sink)."`
	Table     string `help:"BigQuery table (bigquery sink)."`
	NoCreate  bool   `help:"Do not create the BigQuery table first."`
	BatchSize int    `default:"4" help:"Rows per insert."`
	Workers   int    `default:"4" help:"Concurrent insert workers."`
}

func (c *CmdLoad) Run(ctx context.Context) error {
	sink, closeSink, err := c.openSink(ctx)
	if err != nil {
		return err
	}
	defer closeSink()

	l := &loader.Loader{Sink: sink, BatchSize: c.BatchSize, Workers: c.Workers}
	stats, err := l.Run(ctx, c.File)
	if err != nil {
		return err
	}

	fmt.Printf("Loaded %s rows in %s batches (%v)\n",
		humanize.Comma(stats.Rows), humanize.Comma(stats.Batches), stats.Elapsed)
	return nil
}

func (c *CmdLoad) openSink(ctx context.Context) (loader.Sink, func() error, error) {
	switch c.Sink {
	case "bigquery":
		sink, err := loader.NewBigQuerySink(ctx, loader.TableID{
			Project: c.Project,
			Dataset: c.Dataset,
			Table:   c.Table,
		})
		if err != nil {
			return nil, nil, err
		}
		if !c.NoCreate {
			if err := sink.EnsureTable(ctx); err != nil {
				sink.Close()
				return nil, nil, err
			}
		}
		return sink, sink.Close, nil

	case "bolt":
		if err := ensureParent(c.DB); err != nil {
			return nil, nil, err
		}
		backend, err := storage.NewBboltBackend(c.DB)
		if err != nil {
			return nil, nil, err
		}
		sink, err := loader.NewBoltSink(backend)
		if err != nil {
			backend.Close()
			return nil, nil, err
		}
		return sink, backend.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown sink %q", c.Sink)
}
