package cmd

import (
	"context"
	"fmt"
)

type ExportCmd struct {
	ConfigFlag
}

func (e *ExportCmd) Run(ctx *Context) error {
	logger := newLogger(ctx)
	defer logger.Sync() //nolint:errcheck // we don't care about logger sync errors

	conf, err := loadConfig(e.ConfigFile, logger)
	if err != nil {
		return err
	}

	beerApp, err := openApp(conf, logger)
	if err != nil {
		return err
	}
	defer beerApp.Close()

	summary, err := beerApp.exporter().Build(context.Background())
	if err != nil {
		return err
	}

	fmt.Fprintln(ctx.Stdout, summary)

	return nil
}
