package cmd

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"droscher.com/BeerLog/configs"
	"droscher.com/BeerLog/pkg/repository"
)

type MigrateCmd struct {
	ConfigFlag

	Import string `help:"JSONL beer file to copy into the database after migrating" type:"existingfile"`
}

func (m *MigrateCmd) Run(ctx *Context) error {
	logConfig := zap.NewDevelopmentConfig()
	logConfig.DisableStacktrace = true

	logger, _ := logConfig.Build()
	defer logger.Sync() //nolint:errcheck // we don't care about logger sync errors

	conf, err := loadConfig(m.ConfigFile, logger)
	if err != nil {
		return err
	}

	repo, err := repository.Open(conf, logger)
	if err != nil {
		logger.Error("error connecting to database", zap.Error(err))

		return err
	}
	defer repo.Close()

	if err = repo.Migrate(); err != nil {
		return err
	}

	if m.Import == "" {
		return nil
	}

	source := *conf
	source.Store = configs.Store{Backend: configs.BackendFile, DataFile: m.Import}

	file, err := repository.NewFileRepository(&source, logger)
	if err != nil {
		return err
	}

	beers, err := file.ReadAll(context.Background())
	if err != nil {
		return err
	}

	added, skipped, err := repo.Import(context.Background(), beers)
	if err != nil {
		return err
	}

	fmt.Fprintf(ctx.Stdout, "Imported %d beer(s), skipped %d already stored\n", added, skipped)

	return nil
}
