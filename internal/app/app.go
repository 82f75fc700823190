package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"paramibot/internal/config"
	"paramibot/internal/dispatch"
	"paramibot/internal/eventbus"
	rtsup "paramibot/internal/runtime/supervisor"
	"paramibot/internal/schedule"
	"paramibot/internal/storage"
	kit "paramibot/internal/transport"
	telegram "paramibot/internal/transport/telegram/adapter"
	"paramibot/internal/transport/telegram/router"
	logx "paramibot/pkg/logx"
)

const broadcastJob = "daily_broadcast"

type App struct {
	cfgm *config.Manager
	cfg  *config.Config
	sup  *rtsup.Supervisor

	log  logx.Logger
	logs *logx.Service
	bus  eventbus.Bus

	store   storage.Store
	adapter *telegram.Adapter
	disp    *dispatch.Dispatcher
	router  *router.Router
	sched   *schedule.Service
	daily   schedule.Daily
	sd      sdNotifier

	updates chan kit.Update
}

// New loads and validates the config and wires every component. Nothing
// runs until Start.
func New(ctx context.Context, cfgPath string) (*App, error) {
	if err := config.LoadDotEnv(); err != nil {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	cfgm := config.NewManager(cfgPath)
	cfg, err := cfgm.Load()
	if err != nil {
		return nil, err
	}

	pollTimeout, err := config.ParseDurationOrDefault("telegram.poll_timeout", cfg.Telegram.PollTimeout, 10*time.Second)
	if err != nil {
		return nil, err
	}
	bootLog := logx.NewConsole(cfg.Logging.Level).With(logx.String("comp", "telegram"))
	ad, err := telegram.New(telegram.Config{
		Token:       cfg.Telegram.Token,
		PollTimeout: pollTimeout,
		RatePerSec:  cfg.Telegram.RatePerSec,
	}, bootLog)
	if err != nil {
		return nil, err
	}

	// The Telegram sink needs its target before it is enabled.
	logCfg := mapLogConfig(cfg)
	bootCfg := logCfg
	bootCfg.Telegram.Enabled = false
	logs, root := logx.New(bootCfg, ad)
	logs.SetTelegramTarget(logTarget(cfg))
	logs.Apply(logCfg)
	log := root.With(logx.String("comp", "app"))

	a := &App{
		cfgm:    cfgm,
		cfg:     cfg,
		log:     log,
		logs:    logs,
		bus:     eventbus.New(),
		adapter: ad,
		sd:      sdNotifier{log: root.With(logx.String("comp", "systemd"))},
		updates: make(chan kit.Update, 256),
	}
	if err := a.wire(ctx, root); err != nil {
		_ = logs.Close()
		return nil, err
	}
	return a, nil
}

func (a *App) wire(ctx context.Context, root logx.Logger) error {
	cfg := a.cfg

	sc, err := mapStorageConfig(cfg)
	if err != nil {
		return err
	}
	store, err := storage.Open(ctx, sc, root.With(logx.String("comp", "storage")))
	if err != nil {
		return fmt.Errorf("open content store: %w", err)
	}
	a.store = store
	a.log.Info("content store ready", logx.String("driver", sc.Driver), logx.Int("languages", len(sc.Handles)))

	routes, err := mapRoutes(cfg)
	if err != nil {
		return a.closeStore(err)
	}
	table, err := dispatch.NewTable(routes)
	if err != nil {
		return a.closeStore(err)
	}
	opts := append(mapDispatchOptions(cfg),
		dispatch.WithLogger(root.With(logx.String("comp", "dispatch"))),
		dispatch.WithBus(a.bus),
	)
	disp, err := dispatch.New(table, store, a.adapter, opts...)
	if err != nil {
		return a.closeStore(err)
	}
	a.disp = disp

	a.router = router.New(root.With(logx.String("comp", "commands")), a.adapter,
		router.WithBotUsername(a.adapter.Username()),
		router.WithUnknownText(textUnknown),
		router.WithWorkers(cfg.Telegram.Workers),
		router.WithQueueSize(cfg.Telegram.QueueSize),
	)
	if err := a.router.Register(buildCommands(disp, languageCommands(cfg), a.router.Commands)...); err != nil {
		return a.closeStore(fmt.Errorf("register commands: %w", err))
	}

	a.sched = schedule.New(root.With(logx.String("comp", "scheduler")))
	if cfg.Schedule.IsEnabled() {
		daily, err := schedule.ParseDaily(cfg.Schedule.Time, cfg.Schedule.UTCOffset)
		if err != nil {
			return a.closeStore(err)
		}
		timeout, err := config.ParseDurationField("schedule.timeout", cfg.Schedule.Timeout)
		if err != nil {
			return a.closeStore(err)
		}
		if err := a.sched.AddDaily(broadcastJob, daily, timeout, a.broadcast); err != nil {
			return a.closeStore(err)
		}
		a.daily = daily
	}
	return nil
}

func (a *App) closeStore(err error) error {
	if a.store != nil {
		_ = a.store.Close()
	}
	return err
}

// broadcast is the scheduled job. Per-language failures are already logged by
// the dispatcher; the job only fails when nothing was delivered.
func (a *App) broadcast(ctx context.Context) error {
	rep := a.disp.DailyBroadcast(ctx)
	failed := rep.Failed()
	if len(failed) == 0 {
		return nil
	}
	reasons := make([]string, 0, len(failed))
	for _, r := range failed {
		reasons = append(reasons, r.Language.String()+"="+r.Reason())
	}
	a.log.Warn("daily broadcast incomplete",
		logx.Int("sent", rep.SentCount()),
		logx.Int("failed", len(failed)),
		logx.String("reasons", strings.Join(reasons, ",")))
	if rep.SentCount() == 0 {
		return errors.New("daily broadcast: every language failed")
	}
	return nil
}

// Done is closed when the app stops or hits a fatal error.
func (a *App) Done() <-chan struct{} {
	if a.sup == nil {
		ch := make(chan struct{})
		close(ch)
		return ch
	}
	return a.sup.Context().Done()
}

func (a *App) Err() error {
	if a.sup == nil {
		return nil
	}
	return a.sup.Err()
}

func (a *App) Start(ctx context.Context) error {
	a.sup = rtsup.New(ctx, rtsup.WithLogger(a.log), rtsup.WithCancelOnError(true))
	a.cfgm.SetLogger(a.log.With(logx.String("comp", "config")))

	if err := a.adapter.Start(a.sup.Context(), a.updates); err != nil {
		return err
	}
	a.sup.Go("commands.dispatch", func(c context.Context) error {
		return a.router.DispatchLoop(c, a.updates)
	})
	a.sup.Go0("telegram.menu.update", func(c context.Context) {
		mctx, cancel := context.WithTimeout(c, 10*time.Second)
		defer cancel()
		if err := a.router.PublishMenu(mctx); err != nil {
			a.log.Warn("menu update failed", logx.Err(err))
		}
	})
	a.sup.Go0("eventbus.log", func(c context.Context) { logEvents(c, a.bus, a.log) })
	a.sup.GoRestart("config.watch", a.cfgm.Watch)
	a.sup.Go0("config.reload", a.reloadLoop)
	a.sup.Go0("systemd.watchdog", a.sd.Watchdog)

	if a.cfg.Schedule.IsEnabled() {
		a.sched.Start(a.sup.Context())
		if next, ok := a.sched.Next(broadcastJob); ok {
			a.log.Info("daily broadcast scheduled", logx.String("at", a.daily.String()), logx.Time("next", next))
		}
	} else {
		a.log.Info("daily broadcast disabled")
	}

	a.sd.Ready()
	a.log.Info("started", logx.Int("languages", len(a.disp.Table().Languages())), logx.Int("commands", len(a.router.Commands())))
	return nil
}

// Stop shuts down in reverse start order, bounded by ctx.
func (a *App) Stop(ctx context.Context) error {
	a.sd.Stopping()
	a.log.Info("stopping")

	if a.sched != nil {
		a.sched.Stop(ctx)
	}
	if a.adapter != nil {
		_ = a.adapter.Stop(ctx)
	}
	var err error
	if a.sup != nil {
		if werr := a.sup.Stop(ctx); werr != nil && !errors.Is(werr, context.Canceled) {
			err = werr
		}
	}
	if a.store != nil {
		if cerr := a.store.Close(); cerr != nil {
			a.log.Warn("content store close failed", logx.Err(cerr))
		}
	}
	a.log.Info("stopped")
	_ = a.logs.Close()
	return err
}

// reloadLoop applies the logging section of every reloaded config. Other
// sections are read once at startup.
func (a *App) reloadLoop(ctx context.Context) {
	sub := a.cfgm.Subscribe(4)
	defer a.cfgm.Unsubscribe(sub)
	last := a.cfgm.Get()
	for {
		select {
		case <-ctx.Done():
			return
		case next, ok := <-sub:
			if !ok {
				return
			}
			a.applyReload(last, next)
			last = next
		}
	}
}

func (a *App) applyReload(last, next *config.Config) {
	ch := config.SummarizeChange(last, next)
	if ch.Empty() {
		a.log.Debug("config reload received, but no effective changes detected")
		return
	}
	fields := append([]logx.Field{logx.String("changed", strings.Join(ch.Sections, ","))}, ch.Attrs...)
	a.log.Info("config reloaded", fields...)
	if len(ch.RestartRequired) > 0 {
		a.log.Warn("config changed; restart required for changes to take effect",
			logx.String("sections", strings.Join(ch.RestartRequired, ",")))
	}
	a.logs.SetTelegramTarget(logTarget(next))
	a.logs.Apply(mapLogConfig(next))
}
