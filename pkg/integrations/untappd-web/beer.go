package untappdweb

import (
	"encoding/json"
	"net/url"
	"strconv"
	"strings"

	"github.com/gocolly/colly/v2"
	"go.openly.dev/pointy"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"droscher.com/BeerLog/pkg/model"
)

type BeerJSON struct {
	Description string `json:"description"`
	Image       struct {
		ContentURL string `json:"contentUrl"`
	} `json:"image"`
	Sku uint64 `json:"sku"`
}

type BeerScraped struct {
	IDLink        string `attr:"href"          selector:"a.label"`
	Name          string `selector:".name > a"`
	BreweryIDLink string `attr:"href"          selector:".brewery > a"`
	Brewery       string `selector:".brewery > a"`
	Style         string `selector:".style"`
	ABV           string `selector:".abv"`
	IBU           string `selector:".ibu"`
}

type BeerContent struct {
	Description string `selector:".beer-descrption-read-more"`
	ImageURL    string `attr:"src"                            selector:"a.label > img"`
}

type scrapeResults struct {
	suggestion model.Suggestion
	err        error
}

func (u *UntappedWebIntegration) newCollector() *colly.Collector {
	return colly.NewCollector(
		colly.AllowedDomains(u.baseURL.Hostname()),
		colly.UserAgent(userAgent),
	)
}

// FindBeer searches Untappd and follows every hit to its beer and brewery pages.
func (u *UntappedWebIntegration) FindBeer(name string) ([]model.Suggestion, error) {
	collector := u.newCollector()

	var (
		errs         error
		scrapedPages []BeerScraped
	)

	breweries := make(map[string]string)

	collector.OnHTML(".beer-item", func(element *colly.HTMLElement) {
		scraped := BeerScraped{}

		err := element.Unmarshal(&scraped)
		if multierr.AppendInto(&errs, err) {
			u.logger.Error("failed to unmarshal scraped beer", zap.Error(err))

			return
		}

		u.logger.Info("successfully scraped item from results", zap.String("id", lastSegment(scraped.IDLink)), zap.String("name", scraped.Name))

		if _, found := breweries[scraped.BreweryIDLink]; !found && scraped.BreweryIDLink != "" {
			brewery, err := u.getBreweryName(scraped.BreweryIDLink, collector.Clone())
			if err != nil {
				u.logger.Warn("falling back to listed brewery name", zap.String("brewery", scraped.BreweryIDLink), zap.Error(err))

				brewery = scraped.Brewery
			}

			breweries[scraped.BreweryIDLink] = brewery
		}

		scrapedPages = append(scrapedPages, scraped)
	})

	collector.OnError(func(response *colly.Response, err error) {
		u.logger.Error("error while scraping beer search results", zap.String("url", response.Request.URL.String()), zap.Error(err))
	})

	u.logger.Info("scraping query results", zap.String("query", name))
	multierr.AppendInto(&errs, collector.Visit(u.url("search", url.Values{"q": {name}})))

	beerChan := make(chan scrapeResults, len(scrapedPages))

	for _, scraped := range scrapedPages {
		go u.getBeerData(collector.Clone(), scraped, breweries[scraped.BreweryIDLink], beerChan)
	}

	results := make([]model.Suggestion, 0, len(scrapedPages))

	for range scrapedPages {
		scraped := <-beerChan
		results = append(results, scraped.suggestion)
		multierr.AppendInto(&errs, scraped.err)
	}

	u.logger.Info("finished scraping query results", zap.Int("results", len(results)), zap.Error(errs))

	return results, errs
}

func (u *UntappedWebIntegration) getBeerData(detailCollector *colly.Collector, scraped BeerScraped, brewery string, beerChan chan<- scrapeResults) {
	suggestion := model.Suggestion{
		Name:    strings.TrimSpace(scraped.Name),
		Brewery: brewery,
		Style:   strings.TrimSpace(scraped.Style),
		ABV:     extractABV(scraped),
		IBU:     extractIBU(scraped),
		Source:  IntegrationName,
	}

	detailCollector.OnHTML("head script[type='application/ld+json']", func(element *colly.HTMLElement) {
		var beerJSON BeerJSON
		_ = json.Unmarshal([]byte(element.Text), &beerJSON)

		u.logger.Info("successfully scraped beer from JSON data", zap.Uint64("id", beerJSON.Sku))

		suggestion.Description = beerJSON.Description
		suggestion.ImageURL = beerJSON.Image.ContentURL

		if beerJSON.Sku != 0 {
			suggestion.ExternalID = pointy.Uint64(beerJSON.Sku)
		}
	})

	detailCollector.OnHTML(".content", func(element *colly.HTMLElement) {
		beerContent := BeerContent{}

		if err := element.Unmarshal(&beerContent); err != nil {
			return
		}

		if len(suggestion.Description) == 0 {
			suggestion.Description = strings.TrimSpace(beerContent.Description)
		}

		if len(suggestion.ImageURL) == 0 {
			suggestion.ImageURL = beerContent.ImageURL
		}
	})

	idString := lastSegment(scraped.IDLink)
	u.logger.Info("scraping beer page", zap.String("id", idString))

	err := detailCollector.Visit(u.url("beer/"+idString, nil))
	if err == nil && suggestion.ExternalID == nil {
		externalID, err := strconv.ParseUint(idString, 10, 64)
		if err == nil {
			suggestion.ExternalID = pointy.Uint64(externalID)
		}
	}

	beerChan <- scrapeResults{suggestion: suggestion, err: err}
}

func lastSegment(link string) string {
	return link[strings.LastIndex(link, "/")+1:]
}

func extractABV(details BeerScraped) *float64 {
	if strings.Contains(details.ABV, "%") {
		abv, err := strconv.ParseFloat(strings.TrimSpace(details.ABV[:strings.Index(details.ABV, "%")]), 64) //nolint: gocritic // We know we won't get -1
		if err != nil {
			return nil
		}

		return &abv
	}

	return nil
}

func extractIBU(details BeerScraped) *uint64 {
	text := strings.TrimSpace(details.IBU)
	if text == "" || strings.HasPrefix(text, "N/A") {
		return nil
	}

	ibu, err := strconv.ParseUint(strings.Fields(text)[0], 0, 64)
	if err != nil {
		return nil
	}

	return pointy.Uint64(ibu)
}
