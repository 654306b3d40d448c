package app

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/agenciau/leadrelay/app/waiter"
	"github.com/agenciau/leadrelay/internal/config"
	"github.com/agenciau/leadrelay/internal/forward"
	"github.com/agenciau/leadrelay/internal/meta"
	appServer "github.com/agenciau/leadrelay/internal/server/http"
	"github.com/agenciau/leadrelay/internal/service"
)

type LoadConfigFn func() (config.Config, error)

type App struct {
	cfg      config.Config
	logger   zerolog.Logger
	server   *appServer.Server
	waiter   waiter.Waiter
	ctx      context.Context
	cancelFn context.CancelFunc
}

func New(loadConfigFn LoadConfigFn) *App {
	ctx, cancelFn := context.WithCancel(context.Background())
	cfg, err := loadConfigFn()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	logger := NewZeroLogger(Level(cfg.LogLevel))

	w := waiter.NewWaiter(ctx, cancelFn)

	return &App{
		cfg:      cfg,
		logger:   logger,
		waiter:   w,
		ctx:      ctx,
		cancelFn: cancelFn,
	}
}

func (a *App) Start() {
	defer a.cancelFn()

	forwardPool := forward.New(a.ctx, a.cfg.Forward, a.logger.With().Str("WORKER", "FORWARD").Logger())
	webhookClient := forward.NewWebhookClient(a.cfg.Forward, a.logger)
	metaClient := meta.New(a.cfg.Meta, a.logger)

	conversions := service.New(metaClient, forwardPool, webhookClient, a.cfg.Thresholds, a.logger)
	handler := appServer.NewHandler(conversions, a.cfg.Meta, a.logger)

	a.server = appServer.New(handler)

	a.waitForServer()
	a.waitForWorker(forwardPool)

	if err := a.waiter.Wait(); err != nil {
		a.logger.Fatal().Err(err).Msg("App crash.")
	}
}

func (a *App) Stop() {
	a.cancelFn()
}

func (a *App) waitForServer() {
	a.waiter.Add(func(ctx context.Context) error {
		defer a.logger.Debug().Msg("server has been shutdown")

		group, gCtx := errgroup.WithContext(ctx)
		group.Go(func() error {
			defer a.logger.Debug().Msg("public server exited")
			a.logger.Info().Str("starting server at: ", a.cfg.Addr).Send()
			err := a.server.ServePublic(a.cfg.Addr)
			if err != nil && err != http.ErrServerClosed {
				return err
			}
			return nil
		})

		group.Go(func() error {
			<-gCtx.Done()
			log.Debug().Msg("shutting down the server")
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()

			if err := a.server.ShutdownPublic(ctx); err != nil {
				a.logger.Warn().Err(err).Msg("error while shutting down the server")
			}
			return nil
		})

		return group.Wait()
	})
}

func (a *App) waitForWorker(forwardPool forward.WorkerPool) {
	a.waiter.Add(func(ctx context.Context) error {
		group, gCtx := errgroup.WithContext(ctx)
		group.Go(func() error {
			<-gCtx.Done()
			forwardPool.GracefulStop()
			return nil
		})
		return group.Wait()
	})
}
