package cmd

import (
	"go.uber.org/zap"

	"droscher.com/BeerLog/configs"
	"droscher.com/BeerLog/pkg/imaging"
	"droscher.com/BeerLog/pkg/metrics"
	"droscher.com/BeerLog/pkg/publish"
	"droscher.com/BeerLog/pkg/repository"
	"droscher.com/BeerLog/pkg/site"
	"droscher.com/BeerLog/pkg/tasting"
)

type ConfigFlag struct {
	ConfigFile string `default:".BeerLog.toml" help:"Path to config file" short:"c"`
}

func newLogger(ctx *Context) *zap.Logger {
	logConfig := zap.NewDevelopmentConfig()
	logConfig.DisableStacktrace = true

	if !ctx.Debug {
		logConfig.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}

	logger, _ := logConfig.Build()

	return logger
}

func loadConfig(file string, logger *zap.Logger) (*configs.Config, error) {
	conf, err := configs.GetConfig(file, logger)
	if err != nil {
		logger.Error("error loading config", zap.Error(err))

		return nil, err
	}

	return conf, nil
}

// app holds everything a command needs once config is loaded.
type app struct {
	conf       *configs.Config
	repository repository.BeerRepository
	metrics    *metrics.Metrics
	logger     *zap.Logger
	closeStore func()
}

func openApp(conf *configs.Config, logger *zap.Logger) (*app, error) {
	repo, closeStore, err := repository.New(conf, logger)
	if err != nil {
		logger.Error("error opening beer store", zap.String("backend", conf.Store.Backend), zap.Error(err))

		return nil, err
	}

	return &app{conf: conf, repository: repo, metrics: metrics.New(), logger: logger, closeStore: closeStore}, nil
}

func (a *app) Close() {
	a.closeStore()
}

func (a *app) tasting() (*tasting.Service, error) {
	normalizer, err := imaging.NewNormalizer(a.conf, a.logger)
	if err != nil {
		return nil, err
	}

	return tasting.NewService(a.repository, normalizer, a.metrics, a.logger), nil
}

func (a *app) exporter() *site.Exporter {
	return site.NewExporter(a.conf, a.repository, a.logger)
}

func (a *app) publisher() *publish.Publisher {
	builder := publish.SelectBuilder(a.conf, a.exporter(), a.logger)

	return publish.NewPublisher(a.conf.Publish, builder, publish.NewGoGit(a.conf, a.logger), a.metrics, a.logger)
}
