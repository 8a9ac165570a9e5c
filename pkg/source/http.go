package source

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mfriedel/vsimap/pkg/cache"
	"github.com/mfriedel/vsimap/pkg/errors"
	"github.com/mfriedel/vsimap/pkg/httputil"
	"github.com/mfriedel/vsimap/pkg/vsi"
)

// DefaultCacheTTL is how long controller responses stay fresh in the cache.
const DefaultCacheTTL = 5 * time.Minute

// HTTPSource fetches the record collection from the controller's REST
// endpoint. Transient failures (transport errors, 5xx) are retried with
// exponential backoff; 4xx responses fail immediately.
//
// Safe for concurrent use.
type HTTPSource struct {
	url     string
	http    *http.Client
	cache   cache.Cache
	ttl     time.Duration
	refresh bool
}

// HTTPOption configures an HTTPSource.
type HTTPOption func(*HTTPSource)

// WithHTTPClient replaces the default HTTP client (10 second timeout).
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(s *HTTPSource) { s.http = c }
}

// WithCache enables response caching with the given TTL.
func WithCache(c cache.Cache, ttl time.Duration) HTTPOption {
	return func(s *HTTPSource) { s.cache, s.ttl = c, ttl }
}

// WithRefresh bypasses the cache on every fetch.
func WithRefresh(refresh bool) HTTPOption {
	return func(s *HTTPSource) { s.refresh = refresh }
}

// NewHTTPSource creates a source for the given records URL.
func NewHTTPSource(url string, opts ...HTTPOption) *HTTPSource {
	s := &HTTPSource{
		url:   url,
		http:  &http.Client{Timeout: 10 * time.Second},
		cache: cache.NewNullCache(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name identifies the source for logs.
func (s *HTTPSource) Name() string { return s.url }

// Fetch retrieves and decodes the record collection.
//
// Cached responses are served until their TTL expires unless the source was
// built with [WithRefresh]. Fresh responses are cached only after they
// decode and validate, so a corrupt upstream payload never poisons the
// cache.
func (s *HTTPSource) Fetch(ctx context.Context) ([]vsi.Record, error) {
	key := cache.Key("records", s.url)

	if !s.refresh {
		if data, ok, _ := s.cache.Get(ctx, key); ok {
			return DecodeRecords(bytes.NewReader(data))
		}
	}

	var body []byte
	err := httputil.RetryWithBackoff(ctx, func() error {
		var fetchErr error
		body, fetchErr = s.get(ctx)
		return fetchErr
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFetchFailed, err, "fetch %s", s.url)
	}

	records, err := DecodeRecords(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	_ = s.cache.Set(ctx, key, body, s.ttl)
	return records, nil
}

func (s *HTTPSource) get(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.http.Do(req)
	if err != nil {
		return nil, httputil.Retryable(fmt.Errorf("request: %w", err))
	}
	defer resp.Body.Close()

	if err := checkStatus(resp.StatusCode); err != nil {
		return nil, err
	}
	return io.ReadAll(resp.Body)
}

func checkStatus(code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code >= 500:
		return httputil.Retryable(fmt.Errorf("status %d", code))
	default:
		return fmt.Errorf("status %d", code)
	}
}

// Ensure HTTPSource implements Source.
var _ Source = (*HTTPSource)(nil)
