package fixture

import (
	"io"
	"math/rand/v2"
	"time"
)

// RowGenerator produces the rows of one kind of fixture
type RowGenerator interface {
	// Init hands the generator its random source. Each run owns its source,
	// so seeding one gives a reproducible file.
	Init(r *rand.Rand)

	// WriteRow writes the row with the given zero-based id, newline included
	WriteRow(w io.Writer, id int64) error

	// Description returns a human-readable description of the row format
	Description() string

	// DefaultCount returns the suggested number of rows when none is given
	DefaultCount() int64
}

// Summary describes a completed generation run
type Summary struct {
	Path     string
	Rows     int64
	Bytes    int64
	Checksum uint64 // xxh3-64 of the file contents
	Elapsed  time.Duration
}
