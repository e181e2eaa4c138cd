package sparse

import (
	"log/slog"

	"github.com/hupe1980/sparse/codec"
	"github.com/hupe1980/sparse/dtype"
	"github.com/hupe1980/sparse/index"
	"github.com/hupe1980/sparse/internal/compress"
	"github.com/hupe1980/sparse/internal/resource"
)

type options struct {
	fill    any
	hasFill bool
	dtype   dtype.DType
	kind    index.Kind
	copy    bool
}

// Option configures array construction.
type Option func(*options)

// WithFillValue sets the value implied at every unstored position. Without
// it the dtype default is used: NaN for floats, false for bool, zero
// otherwise.
func WithFillValue(v any) Option {
	return func(o *options) {
		o.fill = v
		o.hasFill = true
	}
}

// WithDType casts the input to dt before compaction. Floating input cannot
// be cast to a non-floating dtype.
func WithDType(dt dtype.DType) Option {
	return func(o *options) {
		o.dtype = dt
	}
}

// WithIndexKind forces the index encoding. The default, index.KindAuto,
// picks one from the occupancy pattern.
func WithIndexKind(k index.Kind) Option {
	return func(o *options) {
		o.kind = k
	}
}

// WithCopy controls whether construction from another *Array duplicates
// its values. The default shares them.
func WithCopy(deep bool) Option {
	return func(o *options) {
		o.copy = deep
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		kind: index.KindAuto,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}

type archiveOptions struct {
	codec            codec.Codec
	compression      compress.Kind
	metricsCollector MetricsCollector
	logger           *Logger
	limits           resource.Config
	concurrency      int
}

// ArchiveOption configures an Archive.
type ArchiveOption func(*archiveOptions)

// WithCodec configures the codec used to encode arrays.
//
// If nil is passed, codec.Default is used. Loading always selects the codec
// recorded in the blob header.
func WithCodec(c codec.Codec) ArchiveOption {
	return func(o *archiveOptions) {
		if c == nil {
			c = codec.Default
		}
		o.codec = c
	}
}

// Compression selects the payload compression of saved arrays.
type Compression = compress.Kind

const (
	CompressionNone = compress.None
	CompressionLZ4  = compress.LZ4
	CompressionZstd = compress.Zstd
)

// WithCompression configures payload compression for saved arrays.
func WithCompression(k Compression) ArchiveOption {
	return func(o *archiveOptions) {
		o.compression = k
	}
}

// WithMetricsCollector configures a metrics collector for archive calls.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &sparse.BasicMetricsCollector{}
//	ar := sparse.NewArchive(store, sparse.WithMetricsCollector(metrics))
//	// ... use ar ...
//	stats := metrics.GetStats()
//	fmt.Printf("Saves: %d, Avg latency: %dns\n", stats.SaveCount, stats.SaveAvgNanos)
func WithMetricsCollector(mc MetricsCollector) ArchiveOption {
	return func(o *archiveOptions) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for archive calls.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := sparse.NewJSONLogger(slog.LevelInfo)
//	ar := sparse.NewArchive(store, sparse.WithLogger(logger))
func WithLogger(logger *Logger) ArchiveOption {
	return func(o *archiveOptions) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) ArchiveOption {
	return func(o *archiveOptions) {
		o.logger = NewTextLogger(level)
	}
}

// WithRateLimit throttles store requests to r per second with the given
// burst. A non-positive r disables limiting.
func WithRateLimit(r float64, burst int) ArchiveOption {
	return func(o *archiveOptions) {
		o.limits.RequestsPerSec = max(r, 0)
		o.limits.RequestBurst = burst
	}
}

// WithIOLimit throttles the blob bytes written and read to bytesPerSec.
// Zero disables limiting.
func WithIOLimit(bytesPerSec int64) ArchiveOption {
	return func(o *archiveOptions) {
		o.limits.IOLimitBytesPerSec = bytesPerSec
	}
}

// WithMemoryLimit bounds the blob bytes held by saves and loads in flight.
// A save reserves its encoded blob until the store write returns; a load
// reserves the fetched blob while it is decoded. Calls block until their
// blob fits; a blob larger than the limit runs alone. Zero disables
// limiting.
func WithMemoryLimit(bytes int64) ArchiveOption {
	return func(o *archiveOptions) {
		o.limits.MemoryLimitBytes = bytes
	}
}

// WithConcurrency bounds the number of parallel store requests issued by
// the archive, including those of SaveAll and LoadAll.
func WithConcurrency(n int) ArchiveOption {
	return func(o *archiveOptions) {
		o.concurrency = n
	}
}

func applyArchiveOptions(optFns []ArchiveOption) archiveOptions {
	o := archiveOptions{
		codec:            codec.Default,
		compression:      compress.None,
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
		concurrency:      8,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.concurrency <= 0 {
		o.concurrency = 1
	}
	o.limits.MaxConcurrentRequests = int64(o.concurrency)
	return o
}
