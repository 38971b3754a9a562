package model

import (
	"strconv"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

type Beer struct {
	ID        string    `gorm:"primaryKey"                     json:"id"`
	Name      string    `json:"name"`
	Style     string    `json:"style"`
	ABV       float64   `json:"abv"`
	Price     *float64  `json:"price,omitempty"`
	Date      string    `gorm:"index"                          json:"date"`
	ImageURL  string    `json:"imageUrl"`
	Notes     string    `json:"notes"`
	Scores    Scores    `gorm:"embedded;embeddedPrefix:score_" json:"scores"`
	CreatedAt time.Time `json:"-"`
}

type Scores struct {
	Maltiness   float64 `json:"maltiness"`
	ColorDepth  float64 `json:"colorDepth"`
	Clarity     float64 `json:"clarity"`
	Bitterness  float64 `json:"bitterness"`
	OtherAromas float64 `json:"otherAromas"`
	Overall     float64 `json:"overall"`
}

type ScoreValue struct {
	Key   string
	Label string
	Value float64
}

// Values returns the scores in display order.
func (s Scores) Values() []ScoreValue {
	return []ScoreValue{
		{Key: "maltiness", Label: "Maltiness", Value: s.Maltiness},
		{Key: "colorDepth", Label: "Color Depth", Value: s.ColorDepth},
		{Key: "clarity", Label: "Clarity", Value: s.Clarity},
		{Key: "bitterness", Label: "Bitterness", Value: s.Bitterness},
		{Key: "otherAromas", Label: "Other Aromas", Value: s.OtherAromas},
		{Key: "overall", Label: "Overall", Value: s.Overall},
	}
}

func (s Scores) Rounded() Scores {
	return Scores{
		Maltiness:   Round(s.Maltiness, 1),
		ColorDepth:  Round(s.ColorDepth, 1),
		Clarity:     Round(s.Clarity, 1),
		Bitterness:  Round(s.Bitterness, 1),
		OtherAromas: Round(s.OtherAromas, 1),
		Overall:     Round(s.Overall, 1),
	}
}

// Normalize trims text fields and rounds the numeric ones to their stored precision.
func (b Beer) Normalize() Beer {
	b.Name = strings.TrimSpace(b.Name)
	b.Style = strings.TrimSpace(b.Style)
	b.Notes = strings.TrimSpace(b.Notes)
	b.ABV = Round(b.ABV, 1)
	b.Scores = b.Scores.Rounded()

	if b.Price != nil {
		price := Round(*b.Price, 2)
		b.Price = &price
	}

	return b
}

// Round rounds value to places decimals using the exact decimal value of the
// float and ties to even, so 1.125 becomes 1.12 and 2.675 becomes 2.67.
func Round(value float64, places int) float64 {
	rounded, err := strconv.ParseFloat(strconv.FormatFloat(value, 'f', places, 64), 64)
	if err != nil {
		return value
	}

	return rounded
}
