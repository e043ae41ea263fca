package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/danmuck/pbdecode/internal/frame"
	"github.com/danmuck/pbdecode/internal/input"
	"github.com/danmuck/pbdecode/internal/logging"
	"github.com/danmuck/pbdecode/internal/render"
	"github.com/danmuck/pbdecode/internal/wire"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	logging.ConfigureRuntime()
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		log.Error().Err(err).Str("kind", wire.ErrorKind(err)).Msg("pbdecode failed")
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout io.Writer) error {
	fs := flag.NewFlagSet("pbdecode", flag.ContinueOnError)
	in := fs.String("in", input.Stdin, "capture file (or - for stdin)")
	encoding := fs.String("encoding", string(input.EncodingRaw), "capture encoding: raw|hex|base64")
	format := fs.String("format", string(render.FormatText), "output format: text|json")
	framing := fs.String("framing", string(frame.FramingNone), "capture framing: none|grpc")
	maxDepth := fs.Int("max-depth", wire.DefaultMaxDepth, "maximum embedded message depth")
	exactStride := fs.Bool("exact-stride", false, "advance length-delimited sub-values by length+1")
	indent := fs.Int("indent", render.DefaultIndent, "spaces per nesting level in text output")
	configPath := fs.String("config", "", "optional TOML config file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	opts := defaultOptions()
	if *configPath != "" {
		var err error
		if opts, err = loadOptions(*configPath, opts); err != nil {
			return err
		}
	}

	var flagErr error
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "in":
			opts.In = *in
		case "encoding":
			enc, err := input.ParseEncoding(*encoding)
			if err != nil {
				flagErr = err
			}
			opts.Encoding = enc
		case "format":
			fm, err := render.ParseFormat(*format)
			if err != nil {
				flagErr = err
			}
			opts.Format = fm
		case "framing":
			fr, err := frame.ParseFraming(*framing)
			if err != nil {
				flagErr = err
			}
			opts.Framing = fr
		case "max-depth":
			opts.MaxDepth = *maxDepth
		case "exact-stride":
			opts.ExactStride = *exactStride
		case "indent":
			opts.Indent = *indent
		}
	})
	if flagErr != nil {
		return flagErr
	}
	if opts.MaxDepth < 1 {
		return fmt.Errorf("max-depth must be positive, got %d", opts.MaxDepth)
	}
	if opts.LogLevel != nil {
		zerolog.SetGlobalLevel(*opts.LogLevel)
	}

	var data []byte
	var err error
	if fs.NArg() > 0 {
		data, err = input.DecodeHex(strings.Join(fs.Args(), " "))
	} else {
		data, err = input.Load(opts.In, stdin, opts.Encoding, 0)
	}
	if err != nil {
		return err
	}

	msgs, err := frame.Split(data, opts.Framing, frame.DefaultLimits())
	if err != nil {
		return err
	}

	var r render.Renderer
	switch opts.Format {
	case render.FormatJSON:
		r = render.JSON{Indent: "  "}
	default:
		r = render.Text{Indent: opts.Indent}
	}

	d := wire.Decoder{MaxDepth: opts.MaxDepth, ExactStride: opts.ExactStride, Logger: log.Logger}
	for i, payload := range msgs {
		msg, err := d.Decode(payload)
		if err != nil {
			return fmt.Errorf("decode message %d (%d bytes): %w", i, len(payload), err)
		}
		if msg.Incomplete > 0 {
			log.Warn().Int("message", i).Int("bytes", msg.Incomplete).Int("offset", len(payload)-msg.Incomplete).Msg("trailing record incomplete")
		}
		if opts.Framing == frame.FramingGRPC && opts.Format == render.FormatText {
			fmt.Fprintf(stdout, "# frame %d (%d bytes)\n", i, len(payload))
		}
		if err := r.Render(stdout, msg); err != nil {
			return err
		}
	}
	return nil
}
