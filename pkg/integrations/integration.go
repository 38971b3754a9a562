package integrations

import (
	"fmt"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"droscher.com/BeerLog/pkg/integrations/untappd-web"
	"droscher.com/BeerLog/pkg/model"
)

type Integration interface {
	FindBeer(name string) ([]model.Suggestion, error)
}

func GetIntegration(name string, logger *zap.Logger) Integration {
	if name == untappdweb.IntegrationName {
		return untappdweb.NewUntappedWebIntegration(logger)
	}

	return nil
}

// Lookup asks each named integration in turn and keeps whatever they found,
// so one failing source does not hide another's suggestions.
func Lookup(names []string, query string, logger *zap.Logger) ([]model.Suggestion, error) {
	var (
		errs    error
		results []model.Suggestion
	)

	for _, name := range names {
		integration := GetIntegration(name, logger)
		if integration == nil {
			multierr.AppendInto(&errs, fmt.Errorf("%w: %q", ErrUnknownIntegration, name))

			continue
		}

		found, err := integration.FindBeer(query)
		if err != nil {
			logger.Warn("lookup failed", zap.String("integration", name), zap.Error(err))
			multierr.AppendInto(&errs, err)
		}

		results = append(results, found...)
	}

	return results, errs
}
