package slug_test

import (
	"regexp"
	"testing"
	"testing/quick"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"droscher.com/BeerLog/pkg/slug"
)

var canonical = regexp.MustCompile(`^([a-z0-9]+(-[a-z0-9]+)*)?$`)

func TestSanitize(t *testing.T) {
	cases := map[string]string{
		"Guinness Draught!":           "guinness-draught",
		"  Twin Sails -- Lights Out ": "twin-sails-lights-out",
		"Précieux Pari":               "prcieux-pari",
		"Ale\t\n2024":                 "ale-2024",
		"---":                         "",
		"!!!":                         "",
		"":                            "",
		"Stone IPA (2019 Vintage)":    "stone-ipa-2019-vintage",
		"a - b":                       "a-b",
		"-leading and trailing-":      "leading-and-trailing",
		"non\u00a0breaking":           "non-breaking",
	}

	for input, expected := range cases {
		assert.Equal(t, expected, slug.Sanitize(input), "input %q", input)
	}
}

func TestSanitize_OutputIsCanonical(t *testing.T) {
	property := func(input string) bool {
		return canonical.MatchString(slug.Sanitize(input))
	}

	require.NoError(t, quick.Check(property, &quick.Config{MaxCount: 2000}))
}

func TestSanitize_Idempotent(t *testing.T) {
	property := func(input string) bool {
		once := slug.Sanitize(input)

		return slug.Sanitize(once) == once
	}

	require.NoError(t, quick.Check(property, &quick.Config{MaxCount: 2000}))
}
