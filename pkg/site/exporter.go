// Package site regenerates the static site's gallery script from the store.
//
// The records are embedded as a JSON array in place of the {{BEERS_DATA}}
// placeholder of the site's template, or of the bundled gallery script when
// the site has no template of its own.
package site

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"droscher.com/BeerLog/configs"
	"droscher.com/BeerLog/pkg/model"
	"droscher.com/BeerLog/pkg/repository"
)

const placeholder = "{{BEERS_DATA}}"

var ErrNoPlaceholder = errors.New("template has no " + placeholder + " placeholder")

//go:embed gallery.js
var galleryScript []byte

type Exporter struct {
	repository repository.BeerRepository
	template   string
	output     string
	logger     *zap.Logger
}

func NewExporter(conf *configs.Config, repo repository.BeerRepository, logger *zap.Logger) *Exporter {
	return &Exporter{
		repository: repo,
		template:   conf.Path(conf.Site.Template),
		output:     conf.Path(conf.Site.Output),
		logger:     logger,
	}
}

func (e *Exporter) Output() string {
	return e.output
}

// Export rewrites the gallery script with every stored beer in store order and returns how many were written.
func (e *Exporter) Export(ctx context.Context) (int, error) {
	beers, err := e.repository.ReadAll(ctx)
	if err != nil {
		return 0, err
	}

	template, err := e.loadTemplate()
	if err != nil {
		return 0, err
	}

	content, err := Render(template, beers)
	if err != nil {
		return 0, err
	}

	if err = writeAtomically(e.output, content); err != nil {
		return 0, err
	}

	e.logger.Info("exported beers", zap.Int("count", len(beers)), zap.String("file", e.output))

	return len(beers), nil
}

func (e *Exporter) loadTemplate() ([]byte, error) {
	template, err := os.ReadFile(e.template)
	if errors.Is(err, fs.ErrNotExist) {
		return galleryScript, nil
	}

	return template, err
}

// Build satisfies the publish build step.
func (e *Exporter) Build(ctx context.Context) (string, error) {
	count, err := e.Export(ctx)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("Found %d beer(s)\nGenerated %s", count, e.output), nil
}

// Render replaces the first {{BEERS_DATA}} in template with beers as an indented JSON array.
// A nil template renders the bundled gallery script.
func Render(template []byte, beers []model.Beer) ([]byte, error) {
	if template == nil {
		template = galleryScript
	}

	if !bytes.Contains(template, []byte(placeholder)) {
		return nil, ErrNoPlaceholder
	}

	if beers == nil {
		beers = []model.Beer{}
	}

	data, err := json.MarshalIndent(beers, "", "    ")
	if err != nil {
		return nil, err
	}

	return bytes.Replace(template, []byte(placeholder), data, 1), nil
}

func writeAtomically(path string, content []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+"-*")
	if err != nil {
		return err
	}

	if _, err = tmp.Write(content); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())

		return err
	}

	if err = tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())

		return err
	}

	if err = os.Chmod(tmp.Name(), 0o644); err != nil {
		_ = os.Remove(tmp.Name())

		return err
	}

	return os.Rename(tmp.Name(), path)
}
