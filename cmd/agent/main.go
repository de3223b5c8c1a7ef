package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/de6igz/trend-agent/internal/adapters/api"
	"github.com/de6igz/trend-agent/internal/adapters/generator"
	"github.com/de6igz/trend-agent/internal/adapters/sources"
	"github.com/de6igz/trend-agent/internal/domain"
	"github.com/de6igz/trend-agent/internal/infra/config"
	httpinfra "github.com/de6igz/trend-agent/internal/infra/http"
	applog "github.com/de6igz/trend-agent/internal/infra/log"
	"github.com/de6igz/trend-agent/internal/infra/metrics"
	agentusecase "github.com/de6igz/trend-agent/internal/usecase/agent"
	"github.com/de6igz/trend-agent/internal/usecase/scheduleposts"
	"github.com/de6igz/trend-agent/internal/usecase/trends"
)

func main() {
	cfg := config.Load()
	logger := applog.NewLogger(cfg.AppEnv)

	metrics.MustRegister(prometheus.DefaultRegisterer)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srcs := []domain.Source{
		sources.NewGoogleNews(cfg.Sources.GoogleNewsURL, cfg.Sources.FetchTimeout),
		sources.NewReddit(cfg.Sources.RedditBase, cfg.Sources.FetchTimeout),
		sources.NewHackerNews(cfg.Sources.HackerNews, cfg.Sources.FetchTimeout),
	}

	trendsSvc := trends.NewService(srcs, applog.Component(logger, "trends"))
	scheduler := scheduleposts.NewService(applog.Component(logger, "schedule"))
	contentGen := generator.NewTemplate(time.Now().UnixNano())

	agent := agentusecase.New(trendsSvc, contentGen, scheduler, domain.AgentConfig{
		AutoRun:         cfg.Agent.AutoRun,
		IntervalHours:   cfg.Agent.IntervalHours,
		MaxTopicsPerRun: cfg.Agent.MaxTopicsPerRun,
		Platforms:       cfg.Agent.Platforms,
	}, applog.Component(logger, "agent"))

	metrics.StartServer(ctx, applog.Component(logger, "metrics"), cfg.MetricsAddr)

	server := httpinfra.NewServer(applog.Component(logger, "http"))
	handler := api.NewHandler(agent, applog.Component(logger, "api"))
	server.Router.Mount("/api/v1", handler.Routes())

	if cfg.Agent.AutoStart {
		go agent.Start()
	}

	go func() {
		if err := server.Start(fmt.Sprintf(":%d", cfg.Port)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("main: сервер остановлен")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("main: остановка")

	agent.Stop()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("main: остановка HTTP сервера")
	}
}
