package site_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"droscher.com/BeerLog/configs"
	"droscher.com/BeerLog/pkg/model"
	"droscher.com/BeerLog/pkg/repository"
	"droscher.com/BeerLog/pkg/site"
)

const beersDeclaration = "const beers = "

func newConfig(t *testing.T) *configs.Config {
	t.Helper()

	return &configs.Config{
		Root:  t.TempDir(),
		Store: configs.Store{DataFile: "data/beer.jsonl"},
		Site:  configs.Site{Output: "js/beer.js", Template: "js/beer-template.js"},
	}
}

// embeddedBeers extracts the array literal assigned after declaration.
func embeddedBeers(t *testing.T, text, declaration string) []model.Beer {
	t.Helper()

	start := strings.Index(text, declaration)
	require.GreaterOrEqual(t, start, 0)

	start += len(declaration)
	end := strings.Index(text[start:], "];") + start + 1

	var beers []model.Beer
	require.NoError(t, json.Unmarshal([]byte(text[start:end]), &beers))

	return beers
}

func TestExport_WritesGalleryScript(t *testing.T) {
	conf := newConfig(t)
	logger := zaptest.NewLogger(t)

	repo, err := repository.NewFileRepository(conf, logger)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, repo.Append(ctx, model.Beer{ID: "first", Name: "First", Date: "2024-01-01"}))
	require.NoError(t, repo.Append(ctx, model.Beer{ID: "second", Name: "Second </script>", Date: "2024-06-15"}))

	exporter := site.NewExporter(conf, repo, logger)

	summary, err := exporter.Build(ctx)
	require.NoError(t, err)
	assert.Contains(t, summary, "Found 2 beer(s)")
	assert.Contains(t, summary, "Generated "+filepath.Join(conf.Root, "js", "beer.js"))

	content, err := os.ReadFile(filepath.Join(conf.Root, "js", "beer.js"))
	require.NoError(t, err)

	text := string(content)
	assert.True(t, strings.HasPrefix(text, "// Beer scoring data and functionality\n(function () {"))
	assert.Contains(t, text, "renderBeerGallery(beers);")
	assert.Contains(t, text, "const beers = [\n    {\n        \"id\": \"first\"")
	assert.NotContains(t, text, "{{BEERS_DATA}}")
	assert.NotContains(t, text, "</script>")

	beers := embeddedBeers(t, text, beersDeclaration)
	require.Len(t, beers, 2)
	assert.Equal(t, "first", beers[0].ID)
	assert.Equal(t, "Second </script>", beers[1].Name)
}

func TestExport_UsesSiteTemplate(t *testing.T) {
	conf := newConfig(t)
	logger := zaptest.NewLogger(t)

	template := "// custom gallery\nwindow.gallery({{BEERS_DATA}});\n// {{BEERS_DATA}} stays\n"
	require.NoError(t, os.MkdirAll(filepath.Join(conf.Root, "js"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(conf.Root, "js", "beer-template.js"), []byte(template), 0o644))

	repo, err := repository.NewFileRepository(conf, logger)
	require.NoError(t, err)
	require.NoError(t, repo.Append(context.Background(), model.Beer{ID: "stout", Name: "Stout", Date: "2024-01-01"}))

	count, err := site.NewExporter(conf, repo, logger).Export(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	content, err := os.ReadFile(filepath.Join(conf.Root, "js", "beer.js"))
	require.NoError(t, err)

	text := string(content)
	assert.True(t, strings.HasPrefix(text, "// custom gallery\nwindow.gallery([\n"))
	assert.True(t, strings.HasSuffix(text, "]);\n// {{BEERS_DATA}} stays\n"))
}

func TestRender_EmptyStore(t *testing.T) {
	content, err := site.Render(nil, nil)

	require.NoError(t, err)
	assert.Contains(t, string(content), "const beers = [];")
}

func TestRender_TemplateWithoutPlaceholder(t *testing.T) {
	_, err := site.Render([]byte("const beers = [];"), nil)

	assert.ErrorIs(t, err, site.ErrNoPlaceholder)
}
