package cmd

import (
	"context"
	"fmt"
)

type PublishCmd struct {
	ConfigFlag
}

func (p *PublishCmd) Run(ctx *Context) error {
	logger := newLogger(ctx)
	defer logger.Sync() //nolint:errcheck // we don't care about logger sync errors

	conf, err := loadConfig(p.ConfigFile, logger)
	if err != nil {
		return err
	}

	beerApp, err := openApp(conf, logger)
	if err != nil {
		return err
	}
	defer beerApp.Close()

	report, err := beerApp.publisher().Publish(context.Background())
	fmt.Fprintln(ctx.Stdout, report)

	return err
}
