package fixture

import (
	"io"
	"math/rand/v2"
)

// StudentGenerator writes {"id":<n>,"name":"<name>"} rows with names from Pool.
type StudentGenerator struct {
	Pool *NamePool
	rand *rand.Rand
	buf  []byte
}

func (g *StudentGenerator) Init(r *rand.Rand) {
	g.rand = r
	if g.Pool == nil {
		g.Pool = DefaultPool()
	}
	g.buf = make([]byte, 0, 64)
}

func (g *StudentGenerator) WriteRow(w io.Writer, id int64) error {
	rec := Record{ID: id, Name: g.Pool.Pick(g.rand)}
	g.buf = append(rec.AppendJSON(g.buf[:0]), '\n')
	_, err := w.Write(g.buf)
	return err
}

func (g *StudentGenerator) Description() string {
	return `Student records: {"id":<n>,"name":"<name>"}`
}

func (g *StudentGenerator) DefaultCount() int64 {
	return 1e4
}
