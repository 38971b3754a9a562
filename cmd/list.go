package cmd

import (
	"context"
	"fmt"
	"strconv"

	"droscher.com/BeerLog/pkg/model"
	"droscher.com/BeerLog/pkg/tasting"
)

type ListCmd struct {
	ConfigFlag

	Sort  string `default:"date" enum:"date,maltiness,colorDepth,clarity,bitterness,otherAromas,overall" help:"Order by date (newest first) or by a score (highest first)"`
	Plain bool   `help:"Print the collection as text instead of a table"`
}

func (l *ListCmd) Run(ctx *Context) error {
	logger := newLogger(ctx)
	defer logger.Sync() //nolint:errcheck // we don't care about logger sync errors

	conf, err := loadConfig(l.ConfigFile, logger)
	if err != nil {
		return err
	}

	beerApp, err := openApp(conf, logger)
	if err != nil {
		return err
	}
	defer beerApp.Close()

	service := tasting.NewService(beerApp.repository, nil, beerApp.metrics, logger)

	if l.Plain {
		collection, err := service.Collection(context.Background())
		if err != nil {
			return err
		}

		fmt.Fprintln(ctx.Stdout, collection)

		return nil
	}

	beers, err := service.List(context.Background(), model.SortKey(l.Sort))
	if err != nil {
		return err
	}

	if len(beers) == 0 {
		fmt.Fprintln(ctx.Stdout, "No beers in collection yet. Add your first beer!")

		return nil
	}

	fmt.Fprintln(ctx.Stdout, renderBeers(beers))

	return nil
}

func renderBeers(beers []model.Beer) string {
	headers := []string{"Date", "Name", "Style", "ABV", "Price", "Malt", "Color", "Clarity", "Bitter", "Aroma", "Overall", "Notes"}
	aligns := []columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight, alignRight, alignRight, alignRight, alignLeft}
	rows := make([][]string, 0, len(beers))

	for _, beer := range beers {
		price := "-"
		if beer.Price != nil {
			price = strconv.FormatFloat(*beer.Price, 'f', 2, 64)
		}

		row := []string{beer.Date, beer.Name, beer.Style, fmt.Sprintf("%.1f%%", beer.ABV), price}
		for _, score := range beer.Scores.Values() {
			row = append(row, strconv.FormatFloat(score.Value, 'f', 1, 64))
		}

		rows = append(rows, append(row, tasting.Preview(beer.Notes)))
	}

	return renderTable(headers, rows, aligns)
}
