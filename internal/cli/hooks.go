package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/folioview/pkg/observability"
)

// debugHooks logs every observability event at debug level. They are
// installed by --verbose.
type debugHooks struct {
	logger *log.Logger
}

func installDebugHooks(l *log.Logger) {
	h := debugHooks{logger: l}
	observability.SetViewerHooks(h)
	observability.SetCacheHooks(h)
	observability.SetHTTPHooks(h)
}

func (h debugHooks) OnHashApplied(fragment string, invalid int) {
	h.logger.Debug("hash applied", "fragment", fragment, "invalid", invalid)
}

func (h debugHooks) OnInvalidHashValue(key, value string) {
	h.logger.Debug("invalid hash value", "key", key, "value", value)
}

func (h debugHooks) OnLayout(mode string, pageCount int, d time.Duration) {
	h.logger.Debug("layout", "mode", mode, "pages", pageCount, "took", d)
}

func (h debugHooks) OnScroll(top, left int) {
	h.logger.Debug("scroll", "top", top, "left", left)
}

func (h debugHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h debugHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h debugHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h debugHooks) OnRequest(_ context.Context, method, host, path string) {
	h.logger.Debug("http request", "method", method, "host", host, "path", path)
}

func (h debugHooks) OnResponse(_ context.Context, method, host, path string, status int, d time.Duration) {
	h.logger.Debug("http response", "method", method, "host", host, "path", path, "status", status, "took", d)
}

func (h debugHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.logger.Warn("http error", "method", method, "host", host, "path", path, "err", err)
}
