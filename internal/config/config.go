package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/danmuck/pbdecode/internal/frame"
	"github.com/danmuck/pbdecode/internal/input"
	"github.com/danmuck/pbdecode/internal/render"
	"github.com/danmuck/pbdecode/internal/wire"
	"github.com/pelletier/go-toml/v2"
)

type ServerConfig struct {
	Name         string        `toml:"name"`
	Addr         string        `toml:"addr"`
	CorsOrigins  []string      `toml:"cors_origins"`
	MaxBodyBytes int64         `toml:"max_body_bytes"`
	Decoder      DecoderConfig `toml:"decoder"`
}

type DecoderConfig struct {
	MaxDepth    int    `toml:"max_depth"`
	ExactStride bool   `toml:"exact_stride"`
	Encoding    string `toml:"encoding"`
	Format      string `toml:"format"`
	Framing     string `toml:"framing"`
}

// DefaultServerConfig returns the settings used when no file is given.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Name:         "pbdecoded",
		Addr:         ":9300",
		CorsOrigins:  []string{"http://localhost:3000"},
		MaxBodyBytes: input.DefaultMaxBytes,
		Decoder:      DefaultDecoderConfig(),
	}
}

func DefaultDecoderConfig() DecoderConfig {
	return DecoderConfig{
		MaxDepth: wire.DefaultMaxDepth,
		Encoding: string(input.EncodingRaw),
		Format:   string(render.FormatJSON),
		Framing:  string(frame.FramingNone),
	}
}

func LoadServerConfig(path string) (ServerConfig, error) {
	cfg := DefaultServerConfig()
	if err := loadToml(path, &cfg); err != nil {
		return ServerConfig{}, err
	}
	if cfg.Name == "" {
		cfg.Name = "pbdecoded"
	}
	if cfg.Addr == "" {
		cfg.Addr = ":9300"
	}
	if cfg.MaxBodyBytes == 0 {
		cfg.MaxBodyBytes = input.DefaultMaxBytes
	}
	if cfg.Decoder.MaxDepth == 0 {
		cfg.Decoder.MaxDepth = wire.DefaultMaxDepth
	}
	if err := ValidateServerConfig(cfg); err != nil {
		return ServerConfig{}, err
	}
	return cfg, nil
}

func loadToml(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if err := toml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("config parse failed (%s): %w", path, err)
	}
	return nil
}

func ValidateServerConfig(cfg ServerConfig) error {
	if strings.TrimSpace(cfg.Name) == "" {
		return fmt.Errorf("server config missing name")
	}
	if strings.TrimSpace(cfg.Addr) == "" {
		return fmt.Errorf("server config missing addr")
	}
	if cfg.MaxBodyBytes < 0 {
		return fmt.Errorf("server config max_body_bytes must not be negative")
	}
	if err := ValidateDecoderConfig(cfg.Decoder); err != nil {
		return fmt.Errorf("decoder invalid: %w", err)
	}
	return nil
}

func ValidateDecoderConfig(cfg DecoderConfig) error {
	if cfg.MaxDepth < 0 {
		return fmt.Errorf("max_depth must not be negative")
	}
	if _, err := input.ParseEncoding(cfg.Encoding); err != nil {
		return err
	}
	if _, err := render.ParseFormat(cfg.Format); err != nil {
		return err
	}
	if _, err := frame.ParseFraming(cfg.Framing); err != nil {
		return err
	}
	return nil
}

// NewDecoder builds a wire.Decoder from cfg.
func (cfg DecoderConfig) NewDecoder() *wire.Decoder {
	return &wire.Decoder{MaxDepth: cfg.MaxDepth, ExactStride: cfg.ExactStride}
}
