package untappdweb

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/gocolly/colly/v2"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

var errBreweryNotFound = errors.New("brewery page has no name")

type BreweryJSON struct {
	Name string `json:"name"`
}

func (u *UntappedWebIntegration) getBreweryName(uri string, collector *colly.Collector) (string, error) {
	var (
		errs error
		name string
	)

	collector.OnHTML("head script[type='application/ld+json']", func(element *colly.HTMLElement) {
		var breweryJSON BreweryJSON

		if err := json.Unmarshal([]byte(element.Text), &breweryJSON); err != nil {
			u.logger.Error("failed to parse brewery data", zap.String("uri", uri), zap.Error(err))

			return
		}

		name = strings.TrimSpace(breweryJSON.Name)
	})

	multierr.AppendInto(&errs, collector.Visit(u.url(uri, nil)))

	if errs == nil && name == "" {
		errs = errBreweryNotFound
	}

	return name, errs
}
