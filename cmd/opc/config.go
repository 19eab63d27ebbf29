package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/logicossoftware/go-opc"
)

// Config is read from an optional YAML file and OPC_* environment variables;
// the environment wins.
type Config struct {
	LogLevel        string            `yaml:"log_level" env:"OPC_LOG_LEVEL" env-default:"info"`
	DeflateLevel    int               `yaml:"deflate_level" env:"OPC_DEFLATE_LEVEL" env-default:"-1"`
	PartCompression string            `yaml:"part_compression" env:"OPC_PART_COMPRESSION" env-default:"none"`
	ContentTypes    map[string]string `yaml:"content_types" env:"OPC_CONTENT_TYPES"`
	Limits          LimitsConfig      `yaml:"limits"`
}

// LimitsConfig mirrors opc.Limits. Zero keeps the library default.
type LimitsConfig struct {
	MaxArchiveSize      uint64 `yaml:"max_archive_size" env:"OPC_MAX_ARCHIVE_SIZE"`
	MaxParts            int    `yaml:"max_parts" env:"OPC_MAX_PARTS"`
	MaxPartSize         uint64 `yaml:"max_part_size" env:"OPC_MAX_PART_SIZE"`
	MaxTotalSize        uint64 `yaml:"max_total_size" env:"OPC_MAX_TOTAL_SIZE"`
	MaxContentTypesSize uint64 `yaml:"max_content_types_size" env:"OPC_MAX_CONTENT_TYPES_SIZE"`
}

func loadConfig(path string) (Config, error) {
	var cfg Config
	var err error
	if path != "" {
		err = cleanenv.ReadConfig(path, &cfg)
	} else {
		err = cleanenv.ReadEnv(&cfg)
	}
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	if _, err := cfg.compression(); err != nil {
		return Config{}, err
	}
	if _, err := cfg.level(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("log level %q: %w", c.LogLevel, err)
	}
	return l, nil
}

func (c Config) compression() (opc.Compression, error) {
	return opc.ParseCompression(strings.ToLower(c.PartCompression))
}

func (c Config) limits() opc.Limits {
	return opc.Limits{
		MaxArchiveSize:      c.Limits.MaxArchiveSize,
		MaxParts:            c.Limits.MaxParts,
		MaxPartSize:         c.Limits.MaxPartSize,
		MaxTotalSize:        c.Limits.MaxTotalSize,
		MaxContentTypesSize: c.Limits.MaxContentTypesSize,
	}
}

func (c Config) openOptions(logger *slog.Logger) []opc.Option {
	comp, _ := c.compression()
	return []opc.Option{
		opc.WithLimits(c.limits()),
		opc.WithLogger(logger),
		opc.WithPartCompression(comp),
	}
}

func (c Config) writeOptions() []opc.WriteOption {
	return []opc.WriteOption{opc.WithDeflateLevel(c.DeflateLevel)}
}

// contentTypeFor returns the configured content type for ext, matched
// case-insensitively.
func (c Config) contentTypeFor(ext string) (string, bool) {
	for k, v := range c.ContentTypes {
		if strings.EqualFold(strings.TrimPrefix(k, "."), ext) {
			return v, true
		}
	}
	return "", false
}
