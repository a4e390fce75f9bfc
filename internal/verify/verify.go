// Package verify checks fixture files against the students row format.
package verify

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/zeebo/xxh3"

	"pkg.jsn.cam/fixturegen/pkg/fixture"
)

var ErrMalformed = errors.New("malformed fixture")

// Problem locates the first violation in a file
type Problem struct {
	Line   int64 // zero-based, equal to the expected id
	Reason string
}

func (p *Problem) String() string {
	return fmt.Sprintf("line %d: %s", p.Line, p.Reason)
}

// Report is the outcome of verifying one file
type Report struct {
	Path     string
	Rows     int64
	Bytes    int64
	Checksum uint64
	Names    []string // pool order
	Counts   map[string]int64
	Problem  *Problem
}

// File verifies the fixture at path. Every line must be a JSON object with
// exactly "id" and "name", the id must equal the line's index and the name
// must belong to pool. On the first violation the partial report is returned
// together with an ErrMalformed error.
func File(path string, pool *fixture.NamePool) (*Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	report, err := Reader(f, pool)
	if report != nil {
		report.Path = path
	}
	return report, err
}

// Reader is File over an arbitrary stream
func Reader(r io.Reader, pool *fixture.NamePool) (*Report, error) {
	if pool == nil {
		pool = fixture.DefaultPool()
	}

	report := &Report{
		Names:  pool.Names(),
		Counts: make(map[string]int64, pool.Len()),
	}
	for _, name := range report.Names {
		report.Counts[name] = 0
	}

	hasher := xxh3.New()
	br := bufio.NewReaderSize(io.TeeReader(r, hasher), 64*1024)

	fail := func(reason string, args ...any) (*Report, error) {
		report.Problem = &Problem{Line: report.Rows, Reason: fmt.Sprintf(reason, args...)}
		return report, fmt.Errorf("%w: %s", ErrMalformed, report.Problem)
	}

	for {
		line, err := br.ReadBytes('\n')
		report.Bytes += int64(len(line))
		if len(line) > 0 {
			if line[len(line)-1] != '\n' {
				return fail("missing trailing newline")
			}
			rec, perr := fixture.ParseRecord(line[:len(line)-1])
			switch {
			case perr != nil:
				return fail("%v", perr)
			case rec.ID != report.Rows:
				return fail("id %d, want %d", rec.ID, report.Rows)
			case !pool.Contains(rec.Name):
				return fail("name %q not in pool", rec.Name)
			}
			report.Counts[rec.Name]++
			report.Rows++
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
	}

	report.Checksum = hasher.Sum64()
	return report, nil
}
