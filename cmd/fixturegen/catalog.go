package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/dustin/go-humanize"
	log "github.com/sirupsen/logrus"

	"pkg.jsn.cam/fixturegen/internal/catalog"
)

type CatalogFlags struct {
	Catalog string `default:"var/catalog.db" help:"Catalog database."`
}

// open returns the catalog named by the flags. A catalog that was never written reads
// as empty, and no database file is created for it.
func (f CatalogFlags) open() (catalog.Storage, error) {
	return openCatalog(f.Catalog)
}

func openCatalog(path string) (catalog.Storage, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		log.WithField("component", "catalog").Debugf("No catalog at %s", path)
		return catalog.NewMemoryStorage(), nil
	}
	return catalog.NewBboltStorage(path)
}

type CmdCatalog struct {
	List   CmdCatalogList   `cmd:"" default:"1" help:"List recorded fixtures."`
	Show   CmdCatalogShow   `cmd:"" help:"Show one catalog entry."`
	Delete CmdCatalogDelete `cmd:"" help:"Delete a catalog entry (the file is left alone)."`
}

type CmdCatalogList struct {
	CatalogFlags
}

func (c *CmdCatalogList) Run() error {
	cat, err := c.open()
	if err != nil {
		return err
	}
	defer cat.Close()

	entries, err := cat.LoadEntries()
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("No fixtures recorded")
		return nil
	}

	fmt.Printf("%-36s %-19s %12s %10s %s\n", "ID", "CREATED", "ROWS", "SIZE", "PATH")
	fmt.Println("─────────────────────────────────────────────────────────────────────────────────────────────")
	for _, entry := range entries {
		fmt.Printf("%-36s %-19s %12s %10s %s\n",
			entry.ID,
			entry.StartedAt.Format("2006-01-02 15:04:05"),
			humanize.Comma(entry.Rows),
			humanize.Bytes(uint64(entry.Bytes)),
			entry.Path)
	}
	return nil
}

type CmdCatalogShow struct {
	CatalogFlags
	ID string `arg:"" help:"Entry id."`
}

func (c *CmdCatalogShow) Run() error {
	cat, err := c.open()
	if err != nil {
		return err
	}
	defer cat.Close()

	entry, err := cat.GetEntry(c.ID)
	if err != nil {
		return err
	}

	fmt.Printf("Fixture Details:\n")
	fmt.Printf("  ID:        %s\n", entry.ID)
	fmt.Printf("  Generator: %s\n", entry.Generator)
	fmt.Printf("  Path:      %s\n", entry.Path)
	fmt.Printf("  Rows:      %s\n", humanize.Comma(entry.Rows))
	fmt.Printf("  Size:      %s\n", humanize.Bytes(uint64(entry.Bytes)))
	fmt.Printf("  Checksum:  %s\n", entry.Checksum)
	fmt.Printf("  Names:     %v\n", entry.Names)
	fmt.Printf("  Created:   %s (%s)\n", entry.StartedAt.Format("2006-01-02 15:04:05"), humanize.Time(entry.StartedAt))
	fmt.Printf("  Duration:  %v\n", entry.Duration)
	return nil
}

type CmdCatalogDelete struct {
	CatalogFlags
	ID string `arg:"" help:"Entry id."`
}

func (c *CmdCatalogDelete) Run() error {
	cat, err := c.open()
	if err != nil {
		return err
	}
	defer cat.Close()

	if err := cat.DeleteEntry(c.ID); err != nil {
		return err
	}
	fmt.Printf("Deleted catalog entry %s\n", c.ID)
	return nil
}
