// Package input acquires capture bytes for decoding.
package input

import (
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"
)

// Encoding is the textual form of a capture.
type Encoding string

const (
	EncodingRaw    Encoding = "raw"
	EncodingHex    Encoding = "hex"
	EncodingBase64 Encoding = "base64"
)

// Stdin is the path that selects standard input.
const Stdin = "-"

// DefaultMaxBytes caps a single capture.
const DefaultMaxBytes = 16 * 1024 * 1024

var (
	ErrUnknownEncoding = errors.New("input: unknown encoding")
	ErrTooLarge        = errors.New("input: capture too large")
)

// ParseEncoding accepts an encoding name, ignoring case and surrounding space.
func ParseEncoding(raw string) (Encoding, error) {
	switch e := Encoding(strings.ToLower(strings.TrimSpace(raw))); e {
	case "", EncodingRaw:
		return EncodingRaw, nil
	case EncodingHex, EncodingBase64:
		return e, nil
	case "b64":
		return EncodingBase64, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownEncoding, raw)
	}
}

// Read reads at most max bytes from r and decodes them as enc. A max of zero
// means DefaultMaxBytes.
func Read(r io.Reader, enc Encoding, max int64) ([]byte, error) {
	if max <= 0 {
		max = DefaultMaxBytes
	}
	data, err := io.ReadAll(io.LimitReader(r, max+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > max {
		return nil, ErrTooLarge
	}
	return Decode(data, enc)
}

// Load reads a capture from path, or from stdin when path is "-" or empty.
func Load(path string, stdin io.Reader, enc Encoding, max int64) ([]byte, error) {
	if path == "" || path == Stdin {
		data, err := Read(stdin, enc, max)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open capture (%s): %w", path, err)
	}
	defer f.Close()
	data, err := Read(f, enc, max)
	if err != nil {
		return nil, fmt.Errorf("read capture (%s): %w", path, err)
	}
	return data, nil
}

// Decode converts data from its textual encoding to raw bytes.
func Decode(data []byte, enc Encoding) ([]byte, error) {
	switch enc {
	case EncodingRaw, "":
		return data, nil
	case EncodingHex:
		return DecodeHex(string(data))
	case EncodingBase64:
		return DecodeBase64(string(data))
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEncoding, enc)
	}
}

// DecodeHex parses hex text. Whitespace, colons, dashes and 0x prefixes are
// ignored so dumps can be pasted as-is.
func DecodeHex(s string) ([]byte, error) {
	var b strings.Builder
	b.Grow(len(s))
	for _, tok := range strings.FieldsFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || r == ':' || r == '-' || r == ','
	}) {
		tok = strings.TrimPrefix(strings.TrimPrefix(tok, "0x"), "0X")
		b.WriteString(tok)
	}
	out, err := hex.DecodeString(b.String())
	if err != nil {
		return nil, fmt.Errorf("input: hex: %w", err)
	}
	return out, nil
}

// DecodeBase64 parses standard or URL-safe base64, padded or not.
func DecodeBase64(s string) ([]byte, error) {
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
	encs := []*base64.Encoding{base64.StdEncoding, base64.RawStdEncoding, base64.URLEncoding, base64.RawURLEncoding}
	var firstErr error
	for _, e := range encs {
		out, err := e.DecodeString(s)
		if err == nil {
			return out, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return nil, fmt.Errorf("input: base64: %w", firstErr)
}
