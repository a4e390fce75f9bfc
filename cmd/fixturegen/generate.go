package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	log "github.com/sirupsen/logrus"
	"golang.org/x/term"

	"pkg.jsn.cam/fixturegen/internal/catalog"
	"pkg.jsn.cam/fixturegen/internal/config"
	"pkg.jsn.cam/fixturegen/pkg/fixture"
	"pkg.jsn.cam/fixturegen/pkg/fixture/batch"
)

type CmdGenerate struct {
	Config    string   `short:"c" type:"existingfile" help:"TOML plan file (names, buckets, runs)."`
	Dir       string   `type:"existingdir" help:"Directory for relative output paths."`
	Catalog   string   `help:"Catalog database to record runs in."`
	Generator string   `help:"Row generator to use (default students)."`
	Names     []string `sep:"," help:"Override the name pool."`
	Count     int64    `short:"n" default:"-1" help:"Generate a single fixture with this many rows."`
	Output    string   `short:"o" help:"Output path for --count (default students-<count>.json.txt)."`
	Buckets   int      `help:"Number of progress notices per run (default 100)."`
	Seed      int64    `default:"-1" help:"Fixed random seed; negative means random."`
	Quiet     bool     `short:"q" help:"Suppress progress notices."`
	List      bool     `short:"l" help:"List the available generators and exit."`
}

func (c *CmdGenerate) Run(ctx context.Context) error {
	if c.List {
		return listGenerators(os.Stdout)
	}

	cfg, err := c.config()
	if err != nil {
		return err
	}

	driver := &batch.Driver{
		Plan:      cfg.Plan,
		Dir:       c.Dir,
		Observers: c.observers(),
	}

	if cfg.Catalog != "" {
		if err := ensureParent(cfg.Catalog); err != nil {
			return err
		}
		cat, err := catalog.NewBboltStorage(cfg.Catalog)
		if err != nil {
			return err
		}
		defer cat.Close()
		driver.Recorder = cat
	}

	summaries, err := driver.Run(ctx)
	printSummaries(summaries)
	return err
}

// config merges the plan file (or the default plan) with command line overrides
func (c *CmdGenerate) config() (*config.Config, error) {
	cfg := config.Default()
	if c.Config != "" {
		loaded, err := config.Load(c.Config)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if c.Generator != "" {
		cfg.Plan.Generator = c.Generator
	}
	if len(c.Names) > 0 {
		cfg.Plan.Names = c.Names
	}
	if c.Buckets > 0 {
		cfg.Plan.Buckets = c.Buckets
	}
	if c.Seed >= 0 {
		seed := uint64(c.Seed)
		cfg.Plan.Seed = &seed
	}
	if c.Catalog != "" {
		cfg.Catalog = c.Catalog
	}
	count := c.Count
	if count < 0 && c.Generator != "" && c.Config == "" {
		// a generator picked on the command line runs once at its own size
		gen, err := fixture.Get(c.Generator, nil)
		if err != nil {
			return nil, err
		}
		count = gen.DefaultCount()
	}
	if count >= 0 {
		output := c.Output
		if output == "" {
			output = batch.DefaultPath(count)
		}
		cfg.Plan.Runs = []batch.Run{{Count: count, Path: output}}
	} else if c.Output != "" {
		return nil, fmt.Errorf("--output needs --count")
	}

	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// observers draws a progress bar on a terminal and logs otherwise
func (c *CmdGenerate) observers() batch.ObserverFactory {
	if c.Quiet {
		return nil
	}
	interactive := term.IsTerminal(int(os.Stderr.Fd()))
	return func(run batch.Run) fixture.Observer {
		if interactive && run.Count > 0 {
			return fixture.NewBarObserver(run.Count, filepath.Base(run.Path), os.Stderr)
		}
		return fixture.NewLogObserver(run.Path)
	}
}

func listGenerators(w io.Writer) error {
	for _, name := range fixture.List() {
		gen, err := fixture.Get(name, nil)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%-12s %10s rows  %s\n", name, humanize.Comma(gen.DefaultCount()), gen.Description())
	}
	return nil
}

func printSummaries(summaries []*fixture.Summary) {
	if len(summaries) == 0 {
		return
	}
	fmt.Printf("%-40s %12s %10s %-16s %s\n", "PATH", "ROWS", "SIZE", "CHECKSUM", "ELAPSED")
	fmt.Println("─────────────────────────────────────────────────────────────────────────────────────────────")
	for _, sum := range summaries {
		fmt.Printf("%-40s %12s %10s %-16s %v\n",
			sum.Path,
			humanize.Comma(sum.Rows),
			humanize.Bytes(uint64(sum.Bytes)),
			catalog.FormatChecksum(sum.Checksum),
			sum.Elapsed.Round(time.Millisecond))
	}
	log.WithField("component", "batch").Infof("Generated %d fixtures", len(summaries))
}
