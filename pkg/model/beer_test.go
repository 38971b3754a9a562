package model_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.openly.dev/pointy"

	"droscher.com/BeerLog/pkg/model"
)

func TestNormalize_RoundsAndTrims(t *testing.T) {
	beer := model.Beer{
		Name:  "  Guinness Draught ",
		Notes: "\tcreamy\n",
		ABV:   4.24,
		Price: pointy.Float64(5.499),
		Scores: model.Scores{
			Maltiness: 7.46, ColorDepth: 9.04, Clarity: 3, Bitterness: 4.55, OtherAromas: 6.01, Overall: 8.25,
		},
	}.Normalize()

	assert.Equal(t, "Guinness Draught", beer.Name)
	assert.Equal(t, "creamy", beer.Notes)
	assert.InDelta(t, 4.2, beer.ABV, 1e-9)
	require.NotNil(t, beer.Price)
	assert.InDelta(t, 5.5, *beer.Price, 1e-9)
	assert.InDelta(t, 7.5, beer.Scores.Maltiness, 1e-9)
	assert.InDelta(t, 9.0, beer.Scores.ColorDepth, 1e-9)
	assert.InDelta(t, 6.0, beer.Scores.OtherAromas, 1e-9)
	assert.InDelta(t, 8.2, beer.Scores.Overall, 1e-9)
}

func TestRound_TiesToEven(t *testing.T) {
	tests := []struct {
		value    float64
		places   int
		expected float64
	}{
		{1.125, 2, 1.12},
		{1.135, 2, 1.14},
		{2.675, 2, 2.67},
		{0.25, 1, 0.2},
		{0.35, 1, 0.3},
		{8.25, 1, 8.2},
		{8.75, 1, 8.8},
		{4.24, 1, 4.2},
		{3.499, 2, 3.5},
		{10, 1, 10},
	}

	for _, test := range tests {
		assert.Equal(t, test.expected, model.Round(test.value, test.places), "Round(%v, %d)", test.value, test.places)
	}
}

func TestBeerJSON_UsesStoreFieldNames(t *testing.T) {
	beer := model.Beer{ID: "stout", Name: "Stout", Date: "2024-01-01", ImageURL: "assets/images/beers/stout.jpg"}

	data, err := json.Marshal(beer)
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(data, &fields))
	assert.Contains(t, fields, "imageUrl")
	assert.Contains(t, fields, "scores")
	assert.NotContains(t, fields, "price")
	assert.NotContains(t, fields, "CreatedAt")

	scores, ok := fields["scores"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, scores, "colorDepth")
	assert.Contains(t, scores, "otherAromas")
}

func TestSortBy_DateDescendingIsStable(t *testing.T) {
	beers := []model.Beer{
		{ID: "a", Date: "2024-01-01"},
		{ID: "b", Date: "2024-06-15"},
		{ID: "c", Date: "2024-03-10"},
		{ID: "d", Date: "2024-06-15"},
	}

	model.SortBy(beers, model.SortByDate)

	ids := make([]string, 0, len(beers))
	for _, beer := range beers {
		ids = append(ids, beer.ID)
	}

	assert.Equal(t, []string{"b", "d", "c", "a"}, ids)
}

func TestSortBy_Score(t *testing.T) {
	beers := []model.Beer{
		{ID: "low", Scores: model.Scores{Bitterness: 2}},
		{ID: "high", Scores: model.Scores{Bitterness: 9.5}},
	}

	model.SortBy(beers, model.SortByBitterness)
	assert.Equal(t, "high", beers[0].ID)

	model.SortBy(beers, model.SortKey("unknown"))
	assert.Equal(t, "high", beers[0].ID)

	assert.True(t, model.IsSortKey(model.SortByOverall))
	assert.False(t, model.IsSortKey("unknown"))
}

func TestStyles(t *testing.T) {
	assert.Len(t, model.Styles, 15)
	assert.True(t, model.IsKnownStyle("Saison"))
	assert.False(t, model.IsKnownStyle("Gose"))
	assert.True(t, model.ScoreRange.Contains(10))
	assert.False(t, model.ABVRange.Contains(20.1))
}
