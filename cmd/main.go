package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/apex/log"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/urfave/cli/v3"

	cache "github.com/krisalay/sheets-cache"
	"github.com/krisalay/sheets-cache/config"
	"github.com/krisalay/sheets-cache/engine"
	"github.com/krisalay/sheets-cache/expiration"
	"github.com/krisalay/sheets-cache/logging"
	"github.com/krisalay/sheets-cache/metrics"
	"github.com/krisalay/sheets-cache/refresh"
	"github.com/krisalay/sheets-cache/sheets"
	"github.com/krisalay/sheets-cache/types"
	"github.com/krisalay/sheets-cache/web"
)

const shutdownGrace = 10 * time.Second

func main() {
	os.Exit(realMain())
}

func realMain() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := newRootCommand()

	if err := root.Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func newRootCommand() *cli.Command {
	return &cli.Command{
		Name:  "sheetcache",
		Usage: "Serve a Google Sheets worksheet through a TTL cache",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to the YAML config file",
				Sources: cli.EnvVars("SHEETCACHE_CONFIG"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the HTTP server",
				Action: serve,
			},
			{
				Name:   "dump",
				Usage:  "fetch the worksheet once and print its records as JSON",
				Action: dump,
			},
		},
	}
}

// logOutput is where the process logs go. Tests swap it for a buffer.
var logOutput io.Writer = os.Stderr

// app is everything a command needs once the config is loaded.
type app struct {
	cfg     config.Config
	fetcher *sheets.Fetcher
	cache   *cache.SheetCache
}

// setup loads the config and wires the cache the same way for every command.
// prom may be nil when no metrics are exported.
func setup(ctx context.Context, configPath string, prom *metrics.Prometheus) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	logging.InitTo(logOutput, cfg.Log.Level)
	if cfg.Source != "" {
		log.WithField("file", cfg.Source).Debug("using config file")
	}

	sc := sheets.Config{
		SpreadsheetID:   cfg.Sheets.SpreadsheetID,
		Worksheet:       cfg.Sheets.Worksheet,
		CredentialsFile: cfg.Sheets.CredentialsFile,
	}
	fetcher := sheets.New(ctx, sc)

	hooks := refresh.Hooks{refresh.LogHook{Source: sc.Source()}}
	var m types.Metrics
	if prom != nil {
		hooks = append(hooks, prom)
		m = prom
	}

	e := engine.NewCacheEngine(
		&expiration.ExpireAfterWrite{TTL: cfg.Cache.TTL},
		hooks,
		fetcher,
		m,
	)

	return &app{
		cfg:     cfg,
		fetcher: fetcher,
		cache:   cache.NewSheetCache(e, cache.WithFetchTimeout(cfg.Cache.FetchTimeout)),
	}, nil
}

func serve(ctx context.Context, cmd *cli.Command) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	a, err := setup(ctx, cmd.String("config"), metrics.NewPrometheus(reg))
	if err != nil {
		return err
	}
	cfg := a.cfg

	if err := a.fetcher.Err(); err != nil {
		log.WithError(err).Warn("serving without a sheet source, records will be empty until restart")
	}

	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           web.NewServer(a.cache, web.Options{PageSize: cfg.Server.PageSize, Gatherer: reg}).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithFields(log.Fields{
			"addr": cfg.Server.Addr,
			"ttl":  cfg.Cache.TTL.String(),
		}).Info("listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func dump(ctx context.Context, cmd *cli.Command) error {
	a, err := setup(ctx, cmd.String("config"), nil)
	if err != nil {
		return err
	}

	// No point calling Refresh: the client never came up.
	if err := a.fetcher.Err(); err != nil {
		return err
	}

	records, err := a.cache.Refresh(ctx)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}
