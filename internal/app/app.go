package app

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/PresageLabs/PrediBench-sub000/internal/alerting"
	"github.com/PresageLabs/PrediBench-sub000/internal/analytics"
	"github.com/PresageLabs/PrediBench-sub000/internal/config"
	"github.com/PresageLabs/PrediBench-sub000/internal/fetcher"
	"github.com/PresageLabs/PrediBench-sub000/internal/market"
	"github.com/PresageLabs/PrediBench-sub000/internal/scheduler"
	"github.com/PresageLabs/PrediBench-sub000/internal/service"
	"github.com/PresageLabs/PrediBench-sub000/internal/storage"
)

// App aggregates configuration and shared dependencies for the CLI commands.
type App struct {
	Config *config.Config
	Logger zerolog.Logger
}

// NewApp constructs a new application handle.
func NewApp(cfg *config.Config, logger zerolog.Logger) *App {
	return &App{Config: cfg, Logger: logger.With().Str("component", "app").Logger()}
}

func (a *App) newClient() *fetcher.Client {
	return fetcher.NewClient(fetcher.Options{
		BaseURL:   a.Config.Service.BaseURL,
		Timeout:   a.Config.Service.RequestTimeout,
		UserAgent: a.Config.Service.UserAgent,
	}, a.Logger)
}

func (a *App) newNotifier() alerting.Notifier {
	if a.Config.Alerting.Enabled && a.Config.Alerting.Telegram.Enabled {
		cfg := a.Config.Alerting.Telegram
		return alerting.NewTelegramNotifier(cfg.BotToken, cfg.ChatID, cfg.APIBase, 10*time.Second, a.Logger)
	}
	return nil
}

func (a *App) openStore(ctx context.Context) (*storage.Store, func(), error) {
	if a.Config.Database.DSN == "" {
		return nil, nil, nil
	}

	pool, err := storage.NewPool(ctx, a.Config.Database)
	if err != nil {
		return nil, nil, err
	}

	store := storage.NewStore(pool)
	closer := func() {
		store.Close()
	}
	return store, closer, nil
}

func (a *App) curveMode() analytics.CurveMode {
	mode := analytics.CurveMode(a.Config.Portfolio.CurveMode)
	if !mode.Valid() {
		return analytics.CurveCompound
	}
	return mode
}

func (a *App) compositeSpec() analytics.CompositeSpec {
	return analytics.CompositeSpec{
		ModelID:   a.Config.Composite.ModelID,
		ModelName: a.Config.Composite.Name,
		Required:  a.Config.Composite.RequiredModels,
	}
}

// canonicalCurve picks the value curve matching the deployment's configured
// semantics.
func (a *App) canonicalCurve(entry market.LeaderboardEntry) market.Series {
	if a.curveMode() == analytics.CurveAdditive {
		return entry.AdditiveCurve
	}
	return entry.CompoundCurve
}

// Watch executes the long-running capture service until interrupted.
func (a *App) Watch(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	store, closeStore, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	if store == nil {
		a.Logger.Warn().Msg("database.dsn not configured; snapshots will not be archived")
	}
	if closeStore != nil {
		defer closeStore()
	}

	sched := scheduler.New(scheduler.Options{
		Interval:     a.Config.Watch.Interval,
		AlignToStart: a.Config.Watch.AlignToBucket,
		StartupDelay: a.Config.Watch.StartupDelay,
	}, a.Logger)

	client := a.newClient()
	notifier := a.newNotifier()

	var snapshots storage.SnapshotStore
	var archive storage.DecisionArchive
	if store != nil {
		snapshots = store
		archive = store
	}

	svc := service.New(sched, client, client, snapshots, archive, notifier, a.Logger)

	a.Logger.Info().Dur("interval", a.Config.Watch.Interval).Msg("starting capture service")
	err = svc.Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		a.Logger.Error().Err(err).Msg("capture service terminated with error")
		return err
	}

	a.Logger.Info().Msg("capture service stopped")
	return nil
}

// LeaderboardOptions configure the leaderboard command.
type LeaderboardOptions struct {
	Cutoff        *time.Time
	WithComposite bool
}

// ReturnsOptions configure the returns command.
type ReturnsOptions struct {
	ModelID string
	Limit   int
}

// ExportOptions hold parameters for exporting portfolio curves.
type ExportOptions struct {
	ModelIDs      []string
	WithComposite bool
	Cutoff        *time.Time
	PNGPath       string
	CSVPath       string
	MaxPoints     int
}

// ArchiveOptions configure the one-shot archive command.
type ArchiveOptions struct {
	At time.Time
}

// ShowOptions configure the show command.
type ShowOptions struct {
	Limit int
}
