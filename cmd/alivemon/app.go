package main

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/hamed0406/alivemon/internal/config"
	"github.com/hamed0406/alivemon/internal/logging"
	"github.com/hamed0406/alivemon/internal/notify"
	"github.com/hamed0406/alivemon/internal/probe"
	"github.com/hamed0406/alivemon/internal/scheduler"
)

type app struct {
	cfg    *config.Config
	logger *zap.Logger
	health *scheduler.Health
	cycle  *scheduler.Cycle
}

func newApp() (*app, error) {
	cfg, err := config.Load(settingsFile)
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(appName, cfg.LogDir, cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	checker := probe.NewRetryChecker(
		probe.NewHTTPChecker(cfg.RequestTimeout, logger.Named("probe")),
		cfg.MaxAttempts,
		cfg.RetryBackoff,
	)
	dispatcher := notify.NewDispatcher(
		logger.Named("notify"),
		notify.NewSMTPMailer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Timeout),
		notify.App{Name: appName, Version: version},
		notify.NewSlack(cfg.SlackWebhook),
	)

	health := &scheduler.Health{}
	return &app{
		cfg:    cfg,
		logger: logger,
		health: health,
		cycle: &scheduler.Cycle{
			Logger:      logger.Named("cycle"),
			SitesFile:   cfg.SitesFile,
			Checker:     checker,
			Notifier:    dispatcher,
			DNS:         probe.NewDNSDiagnoser(),
			Concurrency: cfg.MaxConcurrentChecks,
			Health:      health,
		},
	}, nil
}
