package manifest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/folioview/pkg/cache"
	"github.com/matzehuels/folioview/pkg/errors"
	"github.com/matzehuels/folioview/pkg/observability"
)

// maxManifestSize bounds the body read from a manifest server.
const maxManifestSize = 32 << 20

// Fetcher loads manifests from local paths or http(s) URLs. Remote documents
// are stored in a cache keyed by URL.
type Fetcher struct {
	Client *http.Client
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// Backoff governs retries of transient failures (5xx, 429 and
	// transport errors).
	Backoff cache.Backoff

	// Refresh bypasses cached copies (they are still rewritten).
	Refresh bool
}

// NewFetcher returns a Fetcher with a 30 second HTTP timeout. A nil cache
// disables caching and a nil logger discards output.
func NewFetcher(c cache.Cache, logger *log.Logger) *Fetcher {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Fetcher{
		Client:  &http.Client{Timeout: 30 * time.Second},
		Cache:   c,
		Keyer:   cache.NewDefaultKeyer(),
		Logger:  logger,
		Backoff: cache.DefaultBackoff,
	}
}

// IsRemote reports whether source is an http or https URL.
func IsRemote(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// Load resolves source to a Document.
func (f *Fetcher) Load(ctx context.Context, source string) (*Document, error) {
	if !IsRemote(source) {
		return LoadFile(source)
	}

	key := f.Keyer.ManifestKey(source)
	if !f.Refresh {
		if data, hit, err := f.Cache.Get(ctx, key); err == nil && hit {
			if doc, err := DecodeBytes(data); err == nil {
				observability.Cache().OnCacheHit(ctx, "manifest")
				f.Logger.Debug("manifest cache hit", "source", source)
				return doc, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "manifest")
	}

	var data []byte
	err := f.Backoff.Do(ctx, func(attempt int) error {
		var err error
		data, err = f.get(ctx, source)
		if err != nil && cache.IsRetryable(err) {
			f.Logger.Debug("manifest fetch failed", "source", source, "attempt", attempt, "err", err)
		}
		return err
	})
	if err != nil {
		if ctx.Err() != nil || errors.GetCode(err) != "" {
			return nil, err
		}
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "fetch manifest %s", source)
	}

	doc, err := DecodeBytes(data)
	if err != nil {
		return nil, err
	}

	if err := f.Cache.Set(ctx, key, data, cache.TTLManifest); err != nil {
		f.Logger.Warn("cache manifest", "source", source, "err", err)
	} else {
		observability.Cache().OnCacheSet(ctx, "manifest", len(data))
	}
	f.Logger.Debug("fetched manifest", "source", source, "pages", doc.PageCount(), "bytes", len(data))
	return doc, nil
}

func (f *Fetcher) get(ctx context.Context, source string) ([]byte, error) {
	u, err := url.Parse(source)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse manifest url")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "build manifest request")
	}
	req.Header.Set("Accept", "application/json, application/toml;q=0.9, */*;q=0.5")

	hooks := observability.HTTP()
	hooks.OnRequest(ctx, req.Method, u.Host, u.Path)
	start := time.Now()

	resp, err := f.Client.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, u.Host, u.Path, err)
		return nil, cache.Retryable(fmt.Errorf("%w: %v", cache.ErrNetwork, err))
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, req.Method, u.Host, u.Path, resp.StatusCode, time.Since(start))

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, errors.Wrap(errors.ErrCodeNotFound, cache.ErrNotFound, "manifest %s", source)
	case resp.StatusCode == http.StatusTooManyRequests, resp.StatusCode >= 500:
		err := fmt.Errorf("%w: %s returned %d", cache.ErrNetwork, source, resp.StatusCode)
		return nil, cache.RetryableAfter(err, retryAfter(resp.Header.Get("Retry-After")))
	case resp.StatusCode != http.StatusOK:
		return nil, errors.New(errors.ErrCodeNetwork, "%s returned %d", source, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxManifestSize))
	if err != nil {
		return nil, cache.Retryable(fmt.Errorf("%w: read body: %v", cache.ErrNetwork, err))
	}
	return data, nil
}

// retryAfter parses a Retry-After header given in seconds or as an HTTP date.
// Missing or malformed values yield zero.
func retryAfter(v string) time.Duration {
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return max(time.Duration(secs)*time.Second, 0)
	}
	if t, err := http.ParseTime(v); err == nil {
		return max(time.Until(t), 0)
	}
	return 0
}
