package opc

import (
	"log/slog"

	"github.com/klauspost/compress/flate"
)

type config struct {
	limits        Limits
	logger        *slog.Logger
	compression   Compression
	marshallers   map[string]PartMarshaller
	unmarshallers map[string]PartUnmarshaller
}

// Option configures a Package created by New or one of the Open functions.
type Option func(*config)

func newConfig(opts []Option) config {
	cfg := config{
		limits:        defaultLimits(),
		compression:   CompNone,
		marshallers:   make(map[string]PartMarshaller),
		unmarshallers: make(map[string]PartUnmarshaller),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg.limits = cfg.limits.withDefaults()
	cfg.logger = loggerOrDiscard(cfg.logger)
	core := coreContentType.Key()
	if _, ok := cfg.marshallers[core]; !ok {
		cfg.marshallers[core] = PropertiesMarshaller{Logger: cfg.logger}
	}
	if _, ok := cfg.unmarshallers[core]; !ok {
		cfg.unmarshallers[core] = PropertiesUnmarshaller{}
	}
	return cfg
}

func WithLimits(l Limits) Option {
	return func(c *config) { c.limits = l }
}

// WithLogger sets the logger for package operations. By default nothing is
// logged.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) { c.logger = l }
}

// WithPartCompression makes opened packages hold part bytes in
// CompressedParts using comp.
func WithPartCompression(comp Compression) Option {
	return func(c *config) { c.compression = comp }
}

// WithMarshaller registers m for parts whose content type equals ct.
func WithMarshaller(ct ContentType, m PartMarshaller) Option {
	return func(c *config) { c.marshallers[ct.Key()] = m }
}

// WithUnmarshaller registers u for entries whose content type equals ct.
func WithUnmarshaller(ct ContentType, u PartUnmarshaller) Option {
	return func(c *config) { c.unmarshallers[ct.Key()] = u }
}

type writeConfig struct {
	deflateLevel int
}

type WriteOption func(*writeConfig)

// WithDeflateLevel sets the flate level for archive entries, from
// flate.NoCompression to flate.BestCompression.
func WithDeflateLevel(level int) WriteOption {
	return func(c *writeConfig) { c.deflateLevel = level }
}

func newWriteConfig(opts []WriteOption) writeConfig {
	cfg := writeConfig{deflateLevel: flate.DefaultCompression}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}
