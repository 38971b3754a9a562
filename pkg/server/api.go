package server

import (
	"encoding/json"

	"droscher.com/BeerLog/pkg/model"
)

const (
	ServiceName = "beerlog.v1.BeerService"

	AddBeerProcedure   = "/" + ServiceName + "/AddBeer"
	ListBeersProcedure = "/" + ServiceName + "/ListBeers"
	GetStylesProcedure = "/" + ServiceName + "/GetStyles"
	PublishProcedure   = "/" + ServiceName + "/Publish"
	LookupProcedure    = "/" + ServiceName + "/Lookup"
)

type AddBeerRequest struct {
	Name   string       `json:"name"`
	Style  string       `json:"style"`
	ABV    float64      `json:"abv"`
	Price  *float64     `json:"price,omitempty"`
	Notes  string       `json:"notes"`
	Scores model.Scores `json:"scores"`
	Image  []byte       `json:"image"`
}

type AddBeerResponse struct {
	Beer    model.Beer `json:"beer"`
	Message string     `json:"message"`
}

type ListBeersRequest struct {
	Sort string `json:"sort,omitempty"`
}

type ListBeersResponse struct {
	Beers      []model.Beer `json:"beers"`
	Collection string       `json:"collection"`
}

type GetStylesRequest struct{}

type GetStylesResponse struct {
	Styles     []string    `json:"styles"`
	Other      string      `json:"other"`
	ABVRange   model.Range `json:"abvRange"`
	ScoreRange model.Range `json:"scoreRange"`
	PriceRange model.Range `json:"priceRange"`
}

type PublishRequest struct{}

type PublishResponse struct {
	Report string `json:"report"`
}

type LookupRequest struct {
	Query string `json:"query"`
}

type LookupResponse struct {
	Suggestions []model.Suggestion `json:"suggestions"`
}

// JSONCodec carries the plain Go messages above; there are no protobuf descriptors.
type JSONCodec struct{}

func (JSONCodec) Name() string {
	return "json"
}

func (JSONCodec) Marshal(message any) ([]byte, error) {
	return json.Marshal(message)
}

func (JSONCodec) Unmarshal(data []byte, message any) error {
	return json.Unmarshal(data, message)
}
