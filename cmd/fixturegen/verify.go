package main

import (
	"fmt"
	"path/filepath"

	"github.com/dustin/go-humanize"
	log "github.com/sirupsen/logrus"

	"pkg.jsn.cam/fixturegen/internal/catalog"
	"pkg.jsn.cam/fixturegen/internal/verify"
	"pkg.jsn.cam/fixturegen/pkg/fixture"
)

type CmdVerify struct {
	File    string   `arg:"" type:"existingfile" help:"Fixture file to check."`
	Names   []string `sep:"," help:"Name pool the file was generated from (default aaa,bbb,ccc)."`
	Plot    string   `help:"Write a bar chart of name counts to this file (.png, .svg, .pdf)."`
	Catalog string   `help:"Compare the checksum with the newest catalog entry for this file."`
}

func (c *CmdVerify) Run() error {
	pool := fixture.DefaultPool()
	if len(c.Names) > 0 {
		p, err := fixture.NewNamePool(c.Names)
		if err != nil {
			return err
		}
		pool = p
	}

	report, err := verify.File(c.File, pool)
	if err != nil {
		return err
	}

	fmt.Printf("File:     %s\n", report.Path)
	fmt.Printf("Rows:     %s\n", humanize.Comma(report.Rows))
	fmt.Printf("Size:     %s\n", humanize.Bytes(uint64(report.Bytes)))
	fmt.Printf("Checksum: %s\n", catalog.FormatChecksum(report.Checksum))
	fmt.Printf("Names:\n")
	for _, name := range report.Names {
		share := 0.0
		if report.Rows > 0 {
			share = 100 * float64(report.Counts[name]) / float64(report.Rows)
		}
		fmt.Printf("  %-20s %12s  %5.1f%%\n", name, humanize.Comma(report.Counts[name]), share)
	}

	if c.Plot != "" {
		if err := verify.PlotNames(report, c.Plot); err != nil {
			return err
		}
		log.WithField("component", "verify").Infof("Wrote name chart to %s", c.Plot)
	}

	if c.Catalog != "" {
		return c.compareCatalog(report)
	}
	return nil
}

func (c *CmdVerify) compareCatalog(report *verify.Report) error {
	cat, err := openCatalog(c.Catalog)
	if err != nil {
		return err
	}
	defer cat.Close()

	entries, err := cat.LoadEntries()
	if err != nil {
		return err
	}

	want, err := filepath.Abs(report.Path)
	if err != nil {
		return err
	}
	for i := len(entries) - 1; i >= 0; i-- {
		entry := entries[i]
		got, err := filepath.Abs(entry.Path)
		if err != nil || got != want {
			continue
		}
		sum, err := catalog.ParseChecksum(entry.Checksum)
		if err != nil {
			return fmt.Errorf("catalog entry %s has a bad checksum %q: %w", entry.ID, entry.Checksum, err)
		}
		if sum != report.Checksum {
			return fmt.Errorf("checksum %s does not match catalog entry %s (%s)",
				catalog.FormatChecksum(report.Checksum), entry.ID, entry.Checksum)
		}
		fmt.Printf("Catalog:  matches entry %s\n", entry.ID)
		return nil
	}

	log.WithField("component", "verify").Warnf("No catalog entry for %s", report.Path)
	return nil
}
