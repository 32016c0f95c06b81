package services

import (
	"context"

	"codeclub/clubhouse/internal/metrics"
	"codeclub/clubhouse/internal/providers"

	"github.com/prometheus/client_golang/prometheus"
)

// staticTokens satisfies providers.TokenSource for tests.
type staticTokens struct{}

func (staticTokens) Token(ctx context.Context) (string, error) {
	return "test-token", nil
}

func newTestProvider(baseURL string) *providers.ClubAPIProvider {
	return providers.NewClubAPIProvider(baseURL, staticTokens{}, nil)
}

func newTestMetrics() *metrics.Registry {
	return metrics.NewRegistry(prometheus.NewRegistry())
}
