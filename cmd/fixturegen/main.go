package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"
	log "github.com/sirupsen/logrus"
)

const AppVersion = "0.3.0"

// Cmd is the command tree. Running with no arguments generates the six
// standard students fixtures in the working directory.
type Cmd struct {
	JsonLogs bool             `default:"false" help:"Print logs in json."`
	LogLevel string           `default:"info" enum:"debug,info,warn,error" help:"Minimum log level."`
	Version  kong.VersionFlag `help:"Print version and exit."`

	Generate CmdGenerate `cmd:"" default:"withargs" help:"Generate fixture files (default command)."`
	Verify   CmdVerify   `cmd:"" help:"Check a fixture file against the row format."`
	Load     CmdLoad     `cmd:"" help:"Load a fixture file into BigQuery or a local database."`
	Catalog  CmdCatalog  `cmd:"" help:"Inspect the catalog of generated fixtures."`
}

func main() {
	cmd := &Cmd{}
	kctx := kong.Parse(cmd,
		kong.Name("fixturegen"),
		kong.Description("Generates line-delimited JSON test fixtures."),
		kong.UsageOnError(),
		kong.Vars{"version": AppVersion},
	)

	setupLogging(cmd.JsonLogs, cmd.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	kctx.BindTo(ctx, (*context.Context)(nil))
	if err := kctx.Run(); err != nil {
		log.WithError(err).Error("failed to run command")
		stop()
		os.Exit(1)
	}
}

func setupLogging(jsonLogs bool, level string) {
	log.SetOutput(os.Stderr)
	if jsonLogs {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
	if lvl, err := log.ParseLevel(level); err == nil {
		log.SetLevel(lvl)
	}
}

// ensureParent creates the directory a database file lives in
func ensureParent(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0755)
}
