package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"pkg.jsn.cam/fixturegen/pkg/fixture/batch"
)

func TestParseFull(t *testing.T) {
	r := require.New(t)

	cfg, err := Parse([]byte(`
generator = "students"
names = ["ann", "bob"]
buckets = 10
seed = 99
catalog = "var/catalog.db"

[[runs]]
count = 5
path = "small.txt"

[[runs]]
count = 50
path = "big.txt"
`))
	r.NoError(err)

	r.Equal([]string{"ann", "bob"}, cfg.Plan.Names)
	r.Equal(10, cfg.Plan.Buckets)
	r.NotNil(cfg.Plan.Seed)
	r.Equal(uint64(99), *cfg.Plan.Seed)
	r.Equal("var/catalog.db", cfg.Catalog)
	r.Equal([]batch.Run{{Count: 5, Path: "small.txt"}, {Count: 50, Path: "big.txt"}}, cfg.Plan.Runs)
}

func TestParseDefaults(t *testing.T) {
	r := require.New(t)

	cfg, err := Parse([]byte(`names = ["x"]`))
	r.NoError(err)

	def := batch.DefaultPlan()
	r.Equal([]string{"x"}, cfg.Plan.Names)
	r.Equal(def.Runs, cfg.Plan.Runs)
	r.Equal(def.Buckets, cfg.Plan.Buckets)
	r.Nil(cfg.Plan.Seed)
	r.Empty(cfg.Catalog)

	cfg, err = Parse(nil)
	r.NoError(err)
	r.Equal(def.Names, cfg.Plan.Names)
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name string
		toml string
		msg  string
	}{
		{"syntax", `names = [`, ""},
		{"empty pool", `names = []`, "name pool is empty"},
		{"quote in name", `names = ['a"b']`, "invalid name"},
		{"zero buckets", `buckets = 0`, "buckets"},
		{"unknown generator", `generator = "nope"`, "unknown generator"},
		{"negative seed", `seed = -1`, "seed must not be negative"},
		{"negative count", "[[runs]]\ncount = -1\npath = \"a.txt\"", "negative count"},
		{"missing path", "[[runs]]\ncount = 1", "no path"},
		{"duplicate path", "[[runs]]\ncount = 1\npath = \"a.txt\"\n[[runs]]\ncount = 2\npath = \"a.txt\"", "both write"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := require.New(t)
			_, err := Parse([]byte(tt.toml))
			r.ErrorIs(err, ErrInvalidConfig)
			if tt.msg != "" {
				r.ErrorContains(err, tt.msg)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	r := require.New(t)
	path := filepath.Join(t.TempDir(), "plan.toml")
	r.NoError(os.WriteFile(path, []byte("[[runs]]\ncount = 3\npath = \"three.txt\"\n"), 0644))

	cfg, err := Load(path)
	r.NoError(err)
	r.Len(cfg.Plan.Runs, 1)

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	r.Error(err)
}
