// Package remote provides a DataSource that fetches listings from another
// listings service over HTTP.
package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/wanderlust/travel-listing-service/internal/domain"
	"github.com/wanderlust/travel-listing-service/internal/infrastructure/logger"
	"github.com/wanderlust/travel-listing-service/internal/infrastructure/retry"
)

// maxBodyBytes bounds how much of a response body is read.
const maxBodyBytes = 1 << 20

// DefaultHTTPTimeout is the per-attempt timeout of the default HTTP client.
const DefaultHTTPTimeout = 10 * time.Second

// errorBody is the error payload returned by the listings API.
type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Option configures a Source.
type Option func(*Source)

// WithHTTPClient sets the HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(s *Source) {
		if client != nil {
			s.client = client
		}
	}
}

// WithRetry sets the retry configuration.
func WithRetry(cfg retry.Config) Option {
	return func(s *Source) {
		s.retry = cfg
	}
}

// WithLogger sets the source logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Source) {
		s.log = l
	}
}

// Source fetches one listing kind from GET {base}/api/v1/listings/{kind}.
type Source struct {
	endpoint string
	name     string
	client   *http.Client
	retry    retry.Config
	log      zerolog.Logger
}

// NewSource creates a remote source for kind ("deals" or "destinations").
func NewSource(baseURL, kind string, opts ...Option) (*Source, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid base URL %q: scheme must be http or https", baseURL)
	}
	if kind == "" {
		return nil, errors.New("listing kind is required")
	}

	s := &Source{
		endpoint: u.String() + "/api/v1/listings/" + url.PathEscape(kind),
		name:     "remote_" + kind,
		client:   &http.Client{Timeout: DefaultHTTPTimeout},
		retry:    retry.SourceConfig,
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = logger.ForSource(s.log, s.name)
	if s.retry.OnRetry == nil {
		s.retry = s.retry.WithOnRetry(func(attempt int, err error, delay time.Duration) {
			s.log.Warn().Err(err).Int("attempt", attempt).Dur("backoff", delay).Msg("Retrying listings request")
		})
	}
	return s, nil
}

// Name returns the source name.
func (s *Source) Name() string {
	return s.name
}

// FetchPage requests one page. 5xx responses and transport failures are retried;
// 4xx responses and malformed payloads are not.
func (s *Source) FetchPage(ctx context.Context, filters domain.FilterSet, page int, variant domain.FetchVariant) (*domain.ListingResult, error) {
	q := filters.Values()
	q.Set("page", strconv.Itoa(page))
	q.Set("variant", string(variant))
	target := s.endpoint + "?" + q.Encode()

	start := time.Now()
	result, err := retry.DoWithResult(ctx, func() (*domain.ListingResult, error) {
		return s.do(ctx, target)
	}, s.retry)
	if err != nil {
		return nil, s.mapError(ctx, err)
	}

	s.log.Debug().
		Int("items", len(result.Items)).
		Dur("latency", time.Since(start)).
		Msg("Fetched listings")
	return result, nil
}

func (s *Source) do(ctx context.Context, target string) (*domain.ListingResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, retry.NewPermanent(domain.NewFetchError(s.name, err))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, retry.NewPermanent(ctx.Err())
		}
		return nil, domain.NewRetryableFetchError(s.name, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, domain.NewRetryableFetchError(s.name, fmt.Errorf("reading response: %w", err))
	}

	if resp.StatusCode != http.StatusOK {
		return nil, s.statusError(resp.StatusCode, body)
	}

	var result domain.ListingResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, retry.NewPermanent(domain.NewFetchError(s.name, fmt.Errorf("decoding response: %w", err)))
	}
	if err := domain.ValidateItems(result.Items); err != nil {
		return nil, retry.NewPermanent(domain.NewFetchError(s.name, err))
	}
	if err := result.Page.Validate(); err != nil {
		return nil, retry.NewPermanent(domain.NewFetchError(s.name, err))
	}
	return domain.NewListingResult(result.Items, result.Page), nil
}

func (s *Source) statusError(status int, body []byte) error {
	msg := http.StatusText(status)
	var eb errorBody
	if json.Unmarshal(body, &eb) == nil && eb.Message != "" {
		msg = eb.Message
	}
	cause := fmt.Errorf("status %d: %s", status, msg)

	switch {
	case status == http.StatusServiceUnavailable:
		return domain.NewRetryableFetchError(s.name, fmt.Errorf("%w: %v", domain.ErrSourceUnavailable, cause))
	case status == http.StatusTooManyRequests || status >= 500:
		return domain.NewRetryableFetchError(s.name, cause)
	default:
		return retry.NewPermanent(domain.NewFetchError(s.name, cause))
	}
}

// mapError strips retry wrappers and reports expired deadlines as timeouts.
func (s *Source) mapError(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return domain.NewFetchTimeoutError(s.name)
	}
	var perm *retry.Permanent
	if errors.As(err, &perm) {
		err = perm.Err
	}
	if domain.IsFetchError(err) {
		return err
	}
	return domain.NewFetchError(s.name, err)
}

// Ensure Source implements domain.DataSource at compile time.
var _ domain.DataSource = (*Source)(nil)
