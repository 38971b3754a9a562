package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	"droscher.com/BeerLog/pkg/model"
	"droscher.com/BeerLog/pkg/tasting"
)

type AddCmd struct {
	ConfigFlag

	Name        string   `arg:"" help:"Beer name"`
	Style       string   `help:"Beer style; see 'beerlog styles', anything else is recorded as given" short:"s"`
	ABV         float64  `default:"6.5" help:"Alcohol by volume in percent (0-20)"`
	Price       *float64 `help:"Price paid (0-100)"`
	Notes       string   `help:"Tasting notes" required:"" short:"n"`
	Image       string   `help:"Photo of the beer" required:"" short:"i" type:"existingfile"`
	Maltiness   float64  `default:"7.5" help:"Malt character (1-10)"`
	ColorDepth  float64  `default:"7.5" help:"Darkness of the color (1-10)"`
	Clarity     float64  `default:"7.5" help:"Clear to hazy (1-10)"`
	Bitterness  float64  `default:"7.5" help:"Hop bitterness (1-10)"`
	OtherAromas float64  `default:"7.5" help:"Fruity, spicy and other aromas (1-10)"`
	Overall     float64  `default:"7.5" help:"Total experience (1-10)"`
}

func (a *AddCmd) Run(ctx *Context) error {
	logger := newLogger(ctx)
	defer logger.Sync() //nolint:errcheck // we don't care about logger sync errors

	conf, err := loadConfig(a.ConfigFile, logger)
	if err != nil {
		return err
	}

	beerApp, err := openApp(conf, logger)
	if err != nil {
		return err
	}
	defer beerApp.Close()

	service, err := beerApp.tasting()
	if err != nil {
		return err
	}

	photo, err := os.Open(a.Image)
	if err != nil {
		return err
	}
	defer photo.Close()

	if a.Style != "" && !model.IsKnownStyle(a.Style) {
		logger.Info("recording custom style", zap.String("style", a.Style))
	}

	beer, err := service.AddBeer(context.Background(), tasting.Entry{
		Name:  a.Name,
		Style: a.Style,
		ABV:   a.ABV,
		Price: a.Price,
		Notes: a.Notes,
		Scores: model.Scores{
			Maltiness:   a.Maltiness,
			ColorDepth:  a.ColorDepth,
			Clarity:     a.Clarity,
			Bitterness:  a.Bitterness,
			OtherAromas: a.OtherAromas,
			Overall:     a.Overall,
		},
		Image: photo,
	})
	if err != nil {
		logger.Debug("add beer failed", zap.Error(err))

		return errors.New(tasting.Describe(err))
	}

	fmt.Fprintln(ctx.Stdout, tasting.SuccessMessage(beer))

	return nil
}
