package untappdweb

import (
	"net/url"

	"go.uber.org/zap"
)

const (
	IntegrationName = "untappd_web"
	defaultBaseURL  = "https://untappd.com"
	userAgent       = "Mozilla/5.0 (X11; Ubuntu; Linux x86_64; rv:15.0) Gecko/20100101 Firefox/15.0.1"
)

type UntappedWebIntegration struct {
	logger  *zap.Logger
	baseURL *url.URL
}

func NewUntappedWebIntegration(logger *zap.Logger) *UntappedWebIntegration {
	base, _ := url.Parse(defaultBaseURL)

	return &UntappedWebIntegration{logger: logger, baseURL: base}
}

// WithBaseURL points the scraper at a different host, such as a mirror or a test server.
func (u *UntappedWebIntegration) WithBaseURL(raw string) (*UntappedWebIntegration, error) {
	base, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}

	u.baseURL = base

	return u, nil
}

func (u *UntappedWebIntegration) url(path string, query url.Values) string {
	target := u.baseURL.JoinPath(path)
	target.RawQuery = query.Encode()

	return target.String()
}
