package model

import (
	"slices"
	"sort"
)

const OtherStyle = "Other"

var Styles = []string{
	"IPA (India Pale Ale)",
	"Imperial Stout",
	"Stout",
	"Lager",
	"Pilsner",
	"Wheat Beer",
	"Porter",
	"Sour Ale",
	"Amber Ale",
	"Pale Ale",
	"Belgian",
	"Brown Ale",
	"Barleywine",
	"Saison",
	OtherStyle,
}

func IsKnownStyle(style string) bool {
	return slices.Contains(Styles, style)
}

type Range struct {
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Step float64 `json:"step"`
}

func (r Range) Contains(value float64) bool {
	return value >= r.Min && value <= r.Max
}

var (
	ABVRange   = Range{Min: 0, Max: 20, Step: 0.1}
	ScoreRange = Range{Min: 1, Max: 10, Step: 0.5}
	PriceRange = Range{Min: 0, Max: 100, Step: 0.01}
)

type SortKey string

const (
	SortByDate        SortKey = "date"
	SortByMaltiness   SortKey = "maltiness"
	SortByColorDepth  SortKey = "colorDepth"
	SortByClarity     SortKey = "clarity"
	SortByBitterness  SortKey = "bitterness"
	SortByOtherAromas SortKey = "otherAromas"
	SortByOverall     SortKey = "overall"
)

var SortKeys = []SortKey{
	SortByDate, SortByMaltiness, SortByColorDepth, SortByClarity, SortByBitterness, SortByOtherAromas, SortByOverall,
}

func IsSortKey(key SortKey) bool {
	for _, known := range SortKeys {
		if known == key {
			return true
		}
	}

	return false
}

// SortBy orders beers newest first for SortByDate and highest first for score keys.
// The sort is stable, so ties keep their store order. Unknown keys leave the order untouched.
func SortBy(beers []Beer, key SortKey) {
	if key == SortByDate {
		sort.SliceStable(beers, func(i, j int) bool {
			return beers[i].Date > beers[j].Date
		})

		return
	}

	score := func(beer Beer) (float64, bool) {
		for _, value := range beer.Scores.Values() {
			if value.Key == string(key) {
				return value.Value, true
			}
		}

		return 0, false
	}

	if _, ok := score(Beer{}); !ok {
		return
	}

	sort.SliceStable(beers, func(i, j int) bool {
		left, _ := score(beers[i])
		right, _ := score(beers[j])

		return left > right
	})
}

// Suggestion is a beer found by an external lookup, used to prefill the form.
type Suggestion struct {
	Name        string   `json:"name"`
	Brewery     string   `json:"brewery"`
	Style       string   `json:"style"`
	ABV         *float64 `json:"abv,omitempty"`
	IBU         *uint64  `json:"ibu,omitempty"`
	Description string   `json:"description"`
	ImageURL    string   `json:"imageUrl"`
	ExternalID  *uint64  `json:"externalId,omitempty"`
	Source      string   `json:"source"`
}
