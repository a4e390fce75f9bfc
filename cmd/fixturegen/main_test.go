package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/require"

	"pkg.jsn.cam/fixturegen/internal/catalog"
	"pkg.jsn.cam/fixturegen/pkg/fixture"
	"pkg.jsn.cam/fixturegen/pkg/fixture/batch"
)

func parse(t *testing.T, args ...string) (*Cmd, *kong.Context) {
	t.Helper()
	cmd := &Cmd{}
	parser, err := kong.New(cmd, kong.Vars{"version": AppVersion}, kong.Exit(func(int) { t.Fatal("unexpected exit") }))
	require.NoError(t, err)
	kctx, err := parser.Parse(args)
	require.NoError(t, err)
	return cmd, kctx
}

func TestNoArgsRunsDefaultBatch(t *testing.T) {
	r := require.New(t)
	cmd, kctx := parse(t)
	r.Equal("generate", kctx.Command())

	cfg, err := cmd.Generate.config()
	r.NoError(err)
	r.Equal(batch.DefaultPlan().Runs, cfg.Plan.Runs)
	r.Nil(cfg.Plan.Seed)
	r.Empty(cfg.Catalog)
}

func TestGenerateOverrides(t *testing.T) {
	r := require.New(t)
	cmd, _ := parse(t, "generate", "--count", "25", "--names", "x,y", "--seed", "3", "--buckets", "5")

	cfg, err := cmd.Generate.config()
	r.NoError(err)
	r.Equal([]batch.Run{{Count: 25, Path: "./students-25.json.txt"}}, cfg.Plan.Runs)
	r.Equal([]string{"x", "y"}, cfg.Plan.Names)
	r.Equal(5, cfg.Plan.Buckets)
	r.Equal(uint64(3), *cfg.Plan.Seed)
}

func TestGenerateRejectsOutputWithoutCount(t *testing.T) {
	cmd, _ := parse(t, "generate", "--output", "x.txt")
	_, err := cmd.Generate.config()
	require.Error(t, err)
}

func TestGenerateWithConfigAndCatalog(t *testing.T) {
	r := require.New(t)
	dir := t.TempDir()

	plan := filepath.Join(dir, "plan.toml")
	r.NoError(os.WriteFile(plan, []byte(`
names = ["aaa", "bbb"]

[[runs]]
count = 10
path = "ten.txt"

[[runs]]
count = 0
path = "empty.txt"
`), 0644))
	db := filepath.Join(dir, "var", "catalog.db")

	cmd, _ := parse(t, "generate", "--config", plan, "--dir", dir, "--catalog", db, "--quiet")
	r.NoError(cmd.Generate.Run(context.Background()))

	r.FileExists(filepath.Join(dir, "ten.txt"))
	r.FileExists(filepath.Join(dir, "empty.txt"))

	cat, err := catalog.NewBboltStorage(db)
	r.NoError(err)
	defer cat.Close()
	entries, err := cat.LoadEntries()
	r.NoError(err)
	r.Len(entries, 2)
	r.Equal([]string{"aaa", "bbb"}, entries[0].Names)
}

func TestVerifyAndLoadCommands(t *testing.T) {
	r := require.New(t)
	dir := t.TempDir()
	out := filepath.Join(dir, "f.txt")
	db := filepath.Join(dir, "catalog.db")

	gen, _ := parse(t, "generate", "-n", "40", "-o", out, "--catalog", db, "-q")
	r.NoError(gen.Generate.Run(context.Background()))

	ver, kctx := parse(t, "verify", out, "--catalog", db, "--plot", filepath.Join(dir, "names.svg"))
	r.Equal("verify <file>", kctx.Command())
	r.NoError(ver.Verify.Run())
	r.FileExists(filepath.Join(dir, "names.svg"))

	load, _ := parse(t, "load", out, "--db", filepath.Join(dir, "records.db"), "--workers", "2")
	r.NoError(load.Load.Run(context.Background()))
}

func TestCatalogCommandsWithoutDatabase(t *testing.T) {
	r := require.New(t)
	dir := t.TempDir()
	db := filepath.Join(dir, "var", "catalog.db")
	r.NoError(os.Mkdir(filepath.Join(dir, "var"), 0755))

	list, _ := parse(t, "catalog", "list", "--catalog", db)
	r.NoError(list.Catalog.List.Run())

	show, _ := parse(t, "catalog", "show", "abc", "--catalog", db)
	r.ErrorIs(show.Catalog.Show.Run(), catalog.ErrEntryNotFound)

	del, _ := parse(t, "catalog", "delete", "abc", "--catalog", db)
	r.ErrorIs(del.Catalog.Delete.Run(), catalog.ErrEntryNotFound)

	r.NoFileExists(db)
}

func TestCatalogDefaultPathMissing(t *testing.T) {
	r := require.New(t)
	t.Chdir(t.TempDir())

	list, kctx := parse(t, "catalog")
	r.Equal("catalog list", kctx.Command())
	r.Equal("var/catalog.db", list.Catalog.List.Catalog)
	r.NoError(list.Catalog.List.Run())
	r.NoDirExists("var")
}

func TestGeneratorDefaultCount(t *testing.T) {
	r := require.New(t)
	cmd, _ := parse(t, "generate", "--generator", "students")

	cfg, err := cmd.Generate.config()
	r.NoError(err)
	gen, err := fixture.Get("students", nil)
	r.NoError(err)
	r.Equal([]batch.Run{{Count: gen.DefaultCount(), Path: batch.DefaultPath(gen.DefaultCount())}}, cfg.Plan.Runs)

	cmd, _ = parse(t, "generate", "--generator", "nope")
	_, err = cmd.Generate.config()
	r.ErrorIs(err, fixture.ErrUnknownGenerator)
}

func TestListGenerators(t *testing.T) {
	r := require.New(t)
	var out bytes.Buffer
	r.NoError(listGenerators(&out))
	r.Contains(out.String(), "students")
	r.Contains(out.String(), `{"id":<n>,"name":"<name>"}`)
	r.Contains(out.String(), "10,000")
}
