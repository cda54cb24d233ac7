package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/go-pkgz/lgr"
	"github.com/jessevdk/go-flags"
	"github.com/joho/godotenv"
	"github.com/spf13/afero"

	"github.com/joolab/newswire/pkg/config"
	"github.com/joolab/newswire/pkg/domain"
	"github.com/joolab/newswire/pkg/feed"
	"github.com/joolab/newswire/pkg/pipeline"
	"github.com/joolab/newswire/pkg/repository"
	"github.com/joolab/newswire/pkg/store"
	"github.com/joolab/newswire/pkg/tagger"
)

// Opts with all CLI options
type Opts struct {
	Config  string `short:"c" long:"config" env:"CONFIG" description:"path to yaml config, embedded defaults if empty"`
	Output  string `short:"o" long:"output" env:"OUTPUT_DIR" description:"output directory, overrides output.dir"`
	History string `long:"history" env:"HISTORY_DSN" description:"sqlite dsn for run history, overrides history.dsn"`
	OPML    string `long:"opml" description:"write feed registry as OPML to this file and exit"`
	Report  int    `long:"report" description:"print the last N recorded runs from history and exit"`

	// Common options
	Debug   bool `long:"dbg" env:"DEBUG" description:"debug mode"`
	Version bool `short:"V" long:"version" description:"show version info"`
	NoColor bool `long:"no-color" env:"NO_COLOR" description:"disable color output"`
}

var revision = "unknown"

func main() {
	envErr := godotenv.Load() // optional .env, sets env vars used by flags

	var opts Opts
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if opts.Version {
		fmt.Printf("Version: %s\nGolang: %s\n", revision, runtime.Version())
		os.Exit(0)
	}

	setupLog(opts.Debug, opts.NoColor)
	if envErr != nil && !errors.Is(envErr, os.ErrNotExist) {
		lgr.Printf("[WARN] can't load .env: %v", envErr)
	}
	lgr.Printf("[INFO] starting newswire version %s", revision)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// the job reports success even if collection failed, failures are in the written payload
	if err := run(ctx, opts); err != nil {
		lgr.Printf("[ERROR] %v", err)
	}
}

// run loads configuration and executes one collection run. Any failure after this point
// still leaves a valid latest.json behind.
func run(ctx context.Context, opts Opts) (err error) {
	cfg, cfgErr := config.Load(opts.Config)
	if cfgErr != nil {
		cfg = config.Default()
	}
	if opts.Output != "" {
		cfg.Output.Dir = opts.Output
	}
	if opts.History != "" {
		cfg.History.DSN = opts.History
	}

	loc := cfg.Location()
	generator := feed.NewGenerator(cfg.Output.BaseURL, cfg.Output.Title, loc)
	writer := store.New(store.Params{
		Dir:        cfg.Output.Dir,
		Latest:     cfg.Output.Latest,
		Index:      cfg.Output.Index,
		ArchiveDir: cfg.Output.ArchiveDir,
		RSS:        cfg.Output.RSS,
		Retention:  cfg.Output.Retention,
		Renderer:   generator,
	})

	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic: %v", rec)
			pipeline.Degrade(writer, time.Now().In(loc).Format(pipeline.UpdatedAtLayout), err)
		}
	}()

	if cfgErr != nil {
		err := fmt.Errorf("failed to load config: %w", cfgErr)
		pipeline.Degrade(writer, time.Now().In(loc).Format(pipeline.UpdatedAtLayout), err)
		return err
	}

	if opts.Report > 0 {
		return printReport(ctx, cfg.History.DSN, opts.Report, os.Stdout)
	}

	if opts.OPML != "" {
		return writeOPML(generator, cfg, opts.OPML)
	}

	params := pipeline.Params{
		Ingestor: feed.NewIngestor(feed.IngestorParams{
			Parser:     feed.NewParser(cfg.Fetch.Timeout, cfg.Fetch.UserAgent),
			Tagger:     tagger.New(cfg.Keywords, cfg.Limits.KeywordHits),
			Normalizer: feed.NewNormalizer(loc),
			PerSource:  cfg.Limits.PerSource,
		}),
		Writer:   writer,
		Sources:  cfg.FeedSources(),
		MaxItems: cfg.Limits.MaxItems,
		Location: loc,
		KeepRuns: cfg.Output.Retention,
	}

	if cfg.History.DSN != "" {
		history, err := repository.NewHistory(ctx, repository.Config{DSN: cfg.History.DSN})
		if err != nil {
			lgr.Printf("[WARN] run history disabled: %v", err)
		} else {
			defer history.Close()
			params.History = history
		}
	}

	payload := pipeline.NewRunner(params).Execute(ctx)
	if payload.Note != "" {
		return errors.New(payload.Note)
	}
	return nil
}

func writeOPML(generator *feed.Generator, cfg *config.Config, path string) error {
	doc, err := generator.GenerateOPML(cfg.FeedSources())
	if err != nil {
		return fmt.Errorf("generate opml: %w", err)
	}
	if err := store.AtomicWrite(afero.NewOsFs(), path, []byte(doc)); err != nil {
		return fmt.Errorf("write opml: %w", err)
	}
	lgr.Printf("[INFO] %d sources written to %s", len(cfg.Sources), path)
	return nil
}

// printReport writes the last n runs from history, newest first, one line per run
func printReport(ctx context.Context, dsn string, n int, w io.Writer) error {
	if dsn == "" {
		return errors.New("no history dsn configured")
	}
	history, err := repository.NewHistory(ctx, repository.Config{DSN: dsn})
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	defer history.Close()

	runs, err := history.RecentRuns(ctx, n)
	if err != nil {
		return err
	}
	for _, r := range runs {
		counts := map[domain.Status]int{}
		failed := []string{}
		for _, s := range r.Sources {
			counts[s.Status]++
			if s.Status.Failed() {
				failed = append(failed, s.SourceID)
			}
		}
		line := fmt.Sprintf("%s  %s  items=%d ok=%d degraded=%d missing=%d error=%d",
			r.UpdatedAt, r.ID, r.Count, counts[domain.StatusOK], counts[domain.StatusDegraded],
			counts[domain.StatusMissing], counts[domain.StatusError])
		if len(failed) > 0 {
			line += " failed=" + strings.Join(failed, ",")
		}
		if r.Note != "" {
			line += " note=" + r.Note
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
	}
	lgr.Printf("[DEBUG] %d runs reported", len(runs))
	return nil
}

func setupLog(dbg, noColor bool, secs ...string) {
	logOpts := []lgr.Option{}
	if dbg {
		logOpts = []lgr.Option{lgr.Debug, lgr.Msec, lgr.LevelBraces, lgr.StackTraceOnError}
	}

	if !noColor {
		colorizer := lgr.Mapper{
			ErrorFunc:  func(s string) string { return color.New(color.FgHiRed).Sprint(s) },
			WarnFunc:   func(s string) string { return color.New(color.FgRed).Sprint(s) },
			InfoFunc:   func(s string) string { return color.New(color.FgYellow).Sprint(s) },
			DebugFunc:  func(s string) string { return color.New(color.FgWhite).Sprint(s) },
			CallerFunc: func(s string) string { return color.New(color.FgBlue).Sprint(s) },
			TimeFunc:   func(s string) string { return color.New(color.FgCyan).Sprint(s) },
		}
		logOpts = append(logOpts, lgr.Map(colorizer))
	}
	if len(secs) > 0 {
		logOpts = append(logOpts, lgr.Secret(secs...))
	}
	lgr.SetupStdLogger(logOpts...)
	lgr.Setup(logOpts...)
}
