// Package render turns decoded wire messages into output for people and tools.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/danmuck/pbdecode/internal/wire"
)

// Format names an output layout.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// Renderer writes msg to w.
type Renderer interface {
	Render(w io.Writer, msg *wire.Message) error
}

// ParseFormat accepts a format name, ignoring case and surrounding space.
func ParseFormat(raw string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(raw))); f {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("render: unknown format %q", raw)
	}
}

// New returns the renderer for f.
func New(f Format) (Renderer, error) {
	switch f {
	case FormatText, "":
		return Text{}, nil
	case FormatJSON:
		return JSON{Indent: "  "}, nil
	default:
		return nil, fmt.Errorf("render: unknown format %q", f)
	}
}
