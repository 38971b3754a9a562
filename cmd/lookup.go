package cmd

import (
	"errors"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"droscher.com/BeerLog/pkg/integrations"
)

var errNoIntegrations = errors.New("no lookup integrations configured, set Integrations.Beer")

type LookupCmd struct {
	ConfigFlag

	Query string `arg:"" help:"Beer name to search for"`
}

func (l *LookupCmd) Run(ctx *Context) error {
	logger := newLogger(ctx)
	defer logger.Sync() //nolint:errcheck // we don't care about logger sync errors

	conf, err := loadConfig(l.ConfigFile, logger)
	if err != nil {
		return err
	}

	if len(conf.Integrations.Beer) == 0 {
		return errNoIntegrations
	}

	suggestions, err := integrations.Lookup(conf.Integrations.Beer, l.Query, logger)
	if err != nil {
		logger.Warn("lookup incomplete", zap.Error(err))

		if len(suggestions) == 0 {
			return err
		}
	}

	rows := make([][]string, 0, len(suggestions))

	for _, suggestion := range suggestions {
		abv := "-"
		if suggestion.ABV != nil {
			abv = strconv.FormatFloat(*suggestion.ABV, 'f', 1, 64) + "%"
		}

		rows = append(rows, []string{suggestion.Name, suggestion.Brewery, suggestion.Style, abv, suggestion.Source})
	}

	fmt.Fprintln(ctx.Stdout, renderTable([]string{"Name", "Brewery", "Style", "ABV", "Source"}, rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft}))

	return nil
}
