// Package catalog keeps a history of generated fixtures.
package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"pkg.jsn.cam/fixturegen/pkg/fixture"
	"pkg.jsn.cam/fixturegen/pkg/storage"
)

var fixturesBucket = []byte("fixtures")

var ErrEntryNotFound = errors.New("catalog entry not found")

// Entry describes one generated fixture file
type Entry struct {
	ID        string        `json:"id"`
	Generator string        `json:"generator"`
	Path      string        `json:"path"`
	Rows      int64         `json:"rows"`
	Bytes     int64         `json:"bytes"`
	Checksum  string        `json:"checksum"`
	Names     []string      `json:"names"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
}

// FormatChecksum renders an xxh3-64 sum the way entries store it
func FormatChecksum(sum uint64) string {
	return fmt.Sprintf("%016x", sum)
}

// ParseChecksum is the inverse of FormatChecksum
func ParseChecksum(s string) (uint64, error) {
	return strconv.ParseUint(s, 16, 64)
}

// Storage defines how catalog entries are persisted
type Storage interface {
	SaveEntry(entry *Entry) error
	LoadEntries() ([]*Entry, error)
	GetEntry(id string) (*Entry, error)
	DeleteEntry(id string) error
	Close() error
}

// Catalog implements Storage on a storage.Backend
type Catalog struct {
	backend storage.Backend
	now     func() time.Time
}

// New creates a catalog on backend, creating its bucket if needed
func New(backend storage.Backend) (*Catalog, error) {
	if err := backend.CreateBucket(fixturesBucket); err != nil {
		return nil, fmt.Errorf("failed to create bucket: %w", err)
	}
	return &Catalog{backend: backend, now: time.Now}, nil
}

// NewBboltStorage opens a catalog database file
func NewBboltStorage(dbPath string) (*Catalog, error) {
	backend, err := storage.NewBboltBackend(dbPath)
	if err != nil {
		return nil, err
	}

	log.WithField("component", "catalog").Infof("Catalog opened at %s", dbPath)

	return New(backend)
}

// NewMemoryStorage creates a catalog that lives only as long as the process
func NewMemoryStorage() *Catalog {
	c, _ := New(storage.NewMemoryBackend())
	return c
}

func (c *Catalog) SaveEntry(entry *Entry) error {
	if entry.ID == "" {
		return fmt.Errorf("entry has no id")
	}
	return storage.PutJSON(c.backend, fixturesBucket, entry.ID, entry)
}

// LoadEntries returns all entries, oldest first. Entries that fail to decode
// are logged and skipped.
func (c *Catalog) LoadEntries() ([]*Entry, error) {
	var entries []*Entry

	err := c.backend.ForEach(fixturesBucket, func(k, v []byte) error {
		var entry Entry
		if err := json.Unmarshal(v, &entry); err != nil {
			log.WithField("component", "catalog").Warnf("Failed to decode entry %s: %v", k, err)
			return nil
		}
		entries = append(entries, &entry)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].StartedAt.Before(entries[j].StartedAt)
	})
	return entries, nil
}

func (c *Catalog) GetEntry(id string) (*Entry, error) {
	var entry Entry
	found, err := storage.GetJSON(c.backend, fixturesBucket, id, &entry)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%w: %s", ErrEntryNotFound, id)
	}
	return &entry, nil
}

func (c *Catalog) DeleteEntry(id string) error {
	if _, err := c.GetEntry(id); err != nil {
		return err
	}
	return c.backend.Delete(fixturesBucket, []byte(id))
}

func (c *Catalog) Close() error {
	return c.backend.Close()
}

// Record saves a new entry for a completed run. It satisfies batch.Recorder.
// The path is stored absolute so later lookups do not depend on the working directory.
func (c *Catalog) Record(sum *fixture.Summary, generator string, names []string) error {
	path, err := filepath.Abs(sum.Path)
	if err != nil {
		path = sum.Path
	}
	entry := &Entry{
		ID:        uuid.NewString(),
		Generator: generator,
		Path:      path,
		Rows:      sum.Rows,
		Bytes:     sum.Bytes,
		Checksum:  FormatChecksum(sum.Checksum),
		Names:     names,
		StartedAt: c.now().Add(-sum.Elapsed),
		Duration:  sum.Elapsed,
	}
	return c.SaveEntry(entry)
}
