package main

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/danmuck/pbdecode/internal/frame"
	"github.com/danmuck/pbdecode/internal/input"
	"github.com/danmuck/pbdecode/internal/logging"
	"github.com/danmuck/pbdecode/internal/render"
	"github.com/danmuck/pbdecode/internal/wire"
	"github.com/rs/zerolog"
)

type options struct {
	In          string
	Encoding    input.Encoding
	Format      render.Format
	Framing     frame.Framing
	MaxDepth    int
	ExactStride bool
	Indent      int
	// LogLevel is set only when the config file names one.
	LogLevel    *zerolog.Level
}

func defaultOptions() options {
	return options{
		In:       input.Stdin,
		Encoding: input.EncodingRaw,
		Format:   render.FormatText,
		Framing:  frame.FramingNone,
		MaxDepth: wire.DefaultMaxDepth,
		Indent:   render.DefaultIndent,
	}
}

type fileConfig struct {
	In          string `toml:"in"`
	Encoding    string `toml:"encoding"`
	Format      string `toml:"format"`
	Framing     string `toml:"framing"`
	MaxDepth    int    `toml:"max_depth"`
	ExactStride bool   `toml:"exact_stride"`
	Indent      int    `toml:"indent"`
	LogLevel    string `toml:"log_level"`
}

func loadOptions(path string, opts options) (options, error) {
	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return options{}, fmt.Errorf("load pbdecode config: %w", err)
	}

	if meta.IsDefined("in") {
		if in := strings.TrimSpace(raw.In); in != "" {
			opts.In = in
		}
	}

	if meta.IsDefined("encoding") {
		enc, err := input.ParseEncoding(raw.Encoding)
		if err != nil {
			return options{}, fmt.Errorf("parse encoding: %w", err)
		}
		opts.Encoding = enc
	}

	if meta.IsDefined("format") {
		f, err := render.ParseFormat(raw.Format)
		if err != nil {
			return options{}, fmt.Errorf("parse format: %w", err)
		}
		opts.Format = f
	}

	if meta.IsDefined("framing") {
		f, err := frame.ParseFraming(raw.Framing)
		if err != nil {
			return options{}, fmt.Errorf("parse framing: %w", err)
		}
		opts.Framing = f
	}

	if meta.IsDefined("max_depth") {
		if raw.MaxDepth < 1 {
			return options{}, fmt.Errorf("max_depth must be positive, got %d", raw.MaxDepth)
		}
		opts.MaxDepth = raw.MaxDepth
	}

	if meta.IsDefined("exact_stride") {
		opts.ExactStride = raw.ExactStride
	}

	if meta.IsDefined("indent") {
		if raw.Indent < 1 {
			return options{}, fmt.Errorf("indent must be positive, got %d", raw.Indent)
		}
		opts.Indent = raw.Indent
	}

	if meta.IsDefined("log_level") {
		lvl, ok := logging.ParseLevel(raw.LogLevel)
		if !ok {
			return options{}, fmt.Errorf("parse log_level: unknown level %q", raw.LogLevel)
		}
		opts.LogLevel = &lvl
	}

	return opts, nil
}
