package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks forwards pipeline and cache events to a logger at debug level.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks returns hooks that log to logger.
func NewLogHooks(logger *log.Logger) *LogHooks {
	return &LogHooks{logger: logger}
}

func (h *LogHooks) OnAggregateStart(_ context.Context, repos int) {
	h.logger.Debug("aggregate start", "repos", repos)
}

func (h *LogHooks) OnAggregateComplete(_ context.Context, repos, commits int, d time.Duration, err error) {
	h.logger.Debug("aggregate done", "repos", repos, "commits", commits, "duration", d, "err", err)
}

func (h *LogHooks) OnBuildStart(_ context.Context, days int) {
	h.logger.Debug("build start", "days", days)
}

func (h *LogHooks) OnBuildComplete(_ context.Context, faces int, d time.Duration, err error) {
	h.logger.Debug("build done", "faces", faces, "duration", d, "err", err)
}

func (h *LogHooks) OnExportStart(_ context.Context, formats []string) {
	h.logger.Debug("export start", "formats", formats)
}

func (h *LogHooks) OnExportComplete(_ context.Context, formats []string, d time.Duration, err error) {
	h.logger.Debug("export done", "formats", formats, "duration", d, "err", err)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

var (
	_ PipelineHooks = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
)
