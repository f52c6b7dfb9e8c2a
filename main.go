package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"recarr/internal/app"
	"recarr/internal/cfg"
	"recarr/internal/contracts"
	"recarr/internal/database"
	"recarr/internal/domain/consts"
	"recarr/internal/domain/keys"
	"recarr/internal/jobs"
	"recarr/internal/jobs/downloaders"
	"recarr/internal/models"
	"recarr/internal/platform"
	"recarr/internal/repo"
	"recarr/internal/scheduler"
	"recarr/internal/scraper"
	"recarr/internal/storage"
	"recarr/internal/utils/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.InitDB(dbPathFromArgs())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.E("Failed to close database: %v", err)
		}
	}()

	store := repo.InitStores(db)

	if err := cfg.InitCommands(ctx, store); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize commands: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if !cfg.GetBool("execute") {
		return // a management subcommand ran
	}

	if err := logging.Setup(cfg.GetInt(keys.DebugLevel), cfg.GetString(keys.LogFile)); err != nil {
		fmt.Printf("Notice: log file was not created: %v\n", err)
	}

	logging.I("Recarr started at: %v", time.Now().Format("2006-01-02 15:04:05.00 MST"))

	if err := run(ctx, store); err != nil {
		logging.E("Recarr exited with error: %v", err)
		os.Exit(1)
	}
	logging.I("Recarr shut down cleanly")
}

// run wires the collaborators and supervises the control loops until
// shutdown.
func run(ctx context.Context, store *repo.Store) error {
	cookieMgr := scraper.NewCookieManager()
	if path := cfg.GetString(keys.CookiesFile); path != "" {
		if err := cookieMgr.SaveCookiesToFile(ctx, "https://www.youtube.com", path); err != nil {
			logging.W("Cookies file export failed, authenticated channels may not record: %v", err)
		}
	}

	notifier := app.NewWebhookNotifier()
	archive := storage.NewLocalDir(cfg.GetString(keys.ArchiveDir))

	ytFetcher := scraper.NewYoutubeFetcher(cookieMgr)
	registry := platform.NewRegistry(
		platform.NewYoutube(store, ytFetcher, archive, notifier),
		platform.NewTwitch(store, scraper.NewTwitchFetcher(cookieMgr), archive, notifier),
		platform.NewTwitcasting(store, scraper.NewTwitcastingFetcher(cookieMgr), archive, notifier),
		platform.NewFC2(store, scraper.NewFC2Fetcher(cookieMgr), archive, notifier),
	)

	// The in-memory backend tracks jobs for dry runs; a cluster-backed
	// JobService drops in behind the same naming convention.
	js := jobs.NewMemoryService()
	if !cfg.GetBool(keys.DryRun) {
		logging.W("No cluster job backend configured, using the in-memory backend")
	}

	primary := cfg.GetString(keys.RegistryPrimary)
	fallback := cfg.GetString(keys.RegistryFallback)

	recorders := map[string]contracts.Downloader{
		consts.SourceYoutube:     downloaders.NewYtarchive(js, primary, fallback),
		consts.SourceTwitch:      downloaders.NewStreamlink(js, primary, fallback),
		consts.SourceTwitcasting: downloaders.NewTwitcastingRecorder(js, primary, fallback),
		consts.SourceFC2:         downloaders.NewFC2LiveDL(js, primary, fallback),
	}
	vod := downloaders.NewYtdlp(js, primary, fallback, func(v *models.Video) string {
		p, err := registry.Get(v.Source)
		if err != nil {
			return ""
		}
		return p.SourceURL(v)
	})

	sched := scheduler.New(store, secondsFlag(keys.BaseTickSeconds, consts.DefaultBaseTick), registry.All()...)
	orch := app.NewOrchestrator(store, js, registry, notifier, recorders, vod, app.OrchestratorOpts{
		Tick:             secondsFlag(keys.OrchTickSeconds, consts.DefaultOrchTick),
		MonitorFloor:     time.Duration(cfg.GetInt(keys.MonitorFloorMinutes)) * time.Minute,
		RetireDelay:      secondsFlag(keys.RetireDelaySeconds, consts.DefaultRetireDelay),
		RegistryPrimary:  primary,
		RegistryFallback: fallback,
	})
	reval := app.NewRevalidateWorker(store, registry, secondsFlag(keys.RevalidateTick, 10*time.Minute))
	chInfo := app.NewChannelInfoWorker(store, registry,
		map[string]contracts.ChannelInfoFetcher{consts.SourceYoutube: ytFetcher},
		secondsFlag(keys.ChannelInfoTick, 24*time.Hour),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return sched.Run(gctx) })
	g.Go(func() error { return orch.Run(gctx) })
	g.Go(func() error { return reval.Run(gctx) })
	g.Go(func() error { return chInfo.Run(gctx) })

	return g.Wait()
}

// secondsFlag reads an integer seconds flag, falling back when unset or
// nonsensical.
func secondsFlag(key string, fallback time.Duration) time.Duration {
	if s := cfg.GetInt(key); s > 0 {
		return time.Duration(s) * time.Second
	}
	return fallback
}

// dbPathFromArgs pre-scans the arguments for the database path, which
// is needed before cobra parses the full flag set.
func dbPathFromArgs() string {
	for i, arg := range os.Args {
		if arg == "--"+keys.DBPath && i+1 < len(os.Args) {
			return os.Args[i+1]
		}
		if v, ok := strings.CutPrefix(arg, "--"+keys.DBPath+"="); ok {
			return v
		}
	}
	if env := os.Getenv("RECARR_DB_PATH"); env != "" {
		return env
	}
	return "recarr.db"
}
