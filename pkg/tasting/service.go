// Package tasting is the form controller: it turns a filled-in tasting form
// into a stored record and renders the status and collection texts.
package tasting

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"droscher.com/BeerLog/pkg/imaging"
	"droscher.com/BeerLog/pkg/metrics"
	"droscher.com/BeerLog/pkg/model"
	"droscher.com/BeerLog/pkg/repository"
	"droscher.com/BeerLog/pkg/slug"
)

const notesPreviewLength = 100

type Entry struct {
	Name   string
	Style  string
	ABV    float64
	Price  *float64
	Notes  string
	Scores model.Scores
	Image  io.Reader
}

type ImageNormalizer interface {
	Normalize(ctx context.Context, source io.Reader, slug string) (*imaging.Staged, error)
}

type Service struct {
	repository repository.BeerRepository
	images     ImageNormalizer
	metrics    *metrics.Metrics
	logger     *zap.Logger
	now        func() time.Time
}

func NewService(repo repository.BeerRepository, images ImageNormalizer, m *metrics.Metrics, logger *zap.Logger) *Service {
	return &Service{repository: repo, images: images, metrics: m, logger: logger, now: time.Now}
}

// WithClock replaces the clock used to date new records.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now

	return s
}

// AddBeer validates the entry, rejects duplicates, normalizes the photo and appends the record.
// Nothing is written unless every check passes.
func (s *Service) AddBeer(ctx context.Context, entry Entry) (*model.Beer, error) {
	beer, err := s.validate(entry)
	if err != nil {
		s.metrics.AddRejected("validation")
		s.logger.Info("rejected invalid beer", zap.String("name", entry.Name), zap.Error(err))

		return nil, err
	}

	exists, err := s.repository.Exists(ctx, beer.ID)
	if err != nil {
		return nil, err
	}

	if exists {
		s.metrics.AddRejected("duplicate")

		return nil, &DuplicateError{Name: beer.Name, ID: beer.ID}
	}

	started := time.Now()

	staged, err := s.images.Normalize(ctx, entry.Image, beer.ID)
	if err != nil {
		if errors.Is(err, imaging.ErrDecode) {
			s.metrics.AddRejected("image")
		}

		return nil, err
	}

	// The photo only replaces <slug>.<ext> once the record owning it is stored.
	defer staged.Discard()

	s.metrics.ObserveImage(time.Since(started).Seconds())

	beer.ImageURL = staged.Path

	if err = s.repository.Append(ctx, beer); err != nil {
		if errors.Is(err, repository.ErrDuplicateIdentifier) {
			s.metrics.AddRejected("duplicate")

			return nil, &DuplicateError{Name: beer.Name, ID: beer.ID}
		}

		return nil, err
	}

	if err = staged.Commit(); err != nil {
		s.logger.Error("stored beer without its image", zap.String("id", beer.ID), zap.Error(err))

		return nil, fmt.Errorf("saving image for %s: %w", beer.ID, err)
	}

	s.metrics.BeerAdded()
	s.logger.Info("added beer", zap.String("id", beer.ID), zap.String("image", beer.ImageURL))

	return &beer, nil
}

func (s *Service) validate(entry Entry) (model.Beer, error) {
	beer := model.Beer{
		Name:   entry.Name,
		Style:  entry.Style,
		ABV:    entry.ABV,
		Price:  entry.Price,
		Notes:  entry.Notes,
		Scores: entry.Scores,
	}.Normalize()

	var problems error

	if beer.Name == "" {
		problems = multierr.Append(problems, ErrNameRequired)
	} else if beer.ID = slug.Sanitize(beer.Name); beer.ID == "" {
		problems = multierr.Append(problems, ErrNameInvalid)
	}

	if beer.Notes == "" {
		problems = multierr.Append(problems, ErrNotesRequired)
	}

	if entry.Image == nil {
		problems = multierr.Append(problems, ErrImageRequired)
	}

	if beer.Style == "" {
		beer.Style = model.OtherStyle
	}

	problems = multierr.Append(problems, checkRange("ABV", beer.ABV, model.ABVRange))

	if beer.Price != nil {
		problems = multierr.Append(problems, checkRange("price", *beer.Price, model.PriceRange))
	}

	for _, score := range beer.Scores.Values() {
		problems = multierr.Append(problems, checkRange(score.Label+" score", score.Value, model.ScoreRange))
	}

	if problems != nil {
		return model.Beer{}, &ValidationError{problems: problems}
	}

	beer.Date = s.now().Format(model.DateLayout)

	return beer, nil
}

func checkRange(field string, value float64, allowed model.Range) error {
	if allowed.Contains(value) {
		return nil
	}

	return fmt.Errorf("%w: %s must be between %g and %g, got %g", ErrOutOfRange, field, allowed.Min, allowed.Max, value)
}

// List returns the stored beers ordered by key.
func (s *Service) List(ctx context.Context, key model.SortKey) ([]model.Beer, error) {
	if key == "" || key == model.SortByDate {
		return s.repository.ListSortedByDateDescending(ctx)
	}

	beers, err := s.repository.ReadAll(ctx)
	if err != nil {
		return nil, err
	}

	model.SortBy(beers, key)

	return beers, nil
}

// Collection renders every stored beer, newest first.
func (s *Service) Collection(ctx context.Context) (string, error) {
	beers, err := s.repository.ListSortedByDateDescending(ctx)
	if err != nil {
		return "", err
	}

	if len(beers) == 0 {
		return "No beers in collection yet. Add your first beer!", nil
	}

	var out strings.Builder

	fmt.Fprintf(&out, "Your Beer Collection (%d beers)\n\n", len(beers))

	for _, beer := range beers {
		fmt.Fprintf(&out, "%s (%s, %.1f%% ABV)\n", beer.Name, beer.Style, beer.ABV)
		fmt.Fprintf(&out, "   Overall: %.1f/10 | Added: %s\n", beer.Scores.Overall, beer.Date)
		fmt.Fprintf(&out, "   %s\n\n", Preview(beer.Notes))
	}

	return out.String(), nil
}

// Preview shortens notes to their first hundred characters.
func Preview(notes string) string {
	if utf8.RuneCountInString(notes) <= notesPreviewLength {
		return notes
	}

	return string([]rune(notes)[:notesPreviewLength]) + "..."
}

func SuccessMessage(beer *model.Beer) string {
	var out strings.Builder

	fmt.Fprintf(&out, "Success! '%s' has been added to your beer collection!\n\n", beer.Name)
	fmt.Fprintf(&out, "Overall Score: %.1f/10\n", beer.Scores.Overall)
	fmt.Fprintf(&out, "Style: %s\n", beer.Style)
	fmt.Fprintf(&out, "ABV: %.1f%%\n", beer.ABV)

	if beer.Price != nil {
		fmt.Fprintf(&out, "Price: %.2f\n", *beer.Price)
	}

	out.WriteString("\nNext steps:\n")
	out.WriteString("1. Run 'beerlog export' to update the website data\n")
	out.WriteString("2. Run 'beerlog publish' to build, commit and push the site")

	return out.String()
}
