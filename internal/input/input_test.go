package input

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/danmuck/pbdecode/internal/testutil/testlog"
)

func TestDecodeHexTolerantFormatting(t *testing.T) {
	testlog.Start(t)
	cases := []string{
		"28ac02",
		"28 AC 02",
		"0x28 0xac 0x02",
		"28:ac:02\n",
		"28-AC-02",
		"0x28ac02",
	}
	for _, in := range cases {
		got, err := DecodeHex(in)
		if err != nil {
			t.Fatalf("DecodeHex(%q): %v", in, err)
		}
		if !bytes.Equal(got, []byte{0x28, 0xAC, 0x02}) {
			t.Fatalf("DecodeHex(%q) = % x", in, got)
		}
	}
	if _, err := DecodeHex("2"); err == nil {
		t.Fatalf("expected odd-length error")
	}
}

func TestDecodeBase64Variants(t *testing.T) {
	testlog.Start(t)
	want := []byte{0x0A, 0x05, 'h', 'e', 'l', 'l', 'o', 0xFF}
	for _, in := range []string{"CgVoZWxsb/8=", "CgVoZWxsb/8", "CgVoZWxsb_8=", "CgVo ZWxs\nb/8="} {
		got, err := DecodeBase64(in)
		if err != nil {
			t.Fatalf("DecodeBase64(%q): %v", in, err)
		}
		if !bytes.Equal(got, want) {
			t.Fatalf("DecodeBase64(%q) = % x", in, got)
		}
	}
	if _, err := DecodeBase64("!!"); err == nil {
		t.Fatalf("expected base64 error")
	}
}

func TestParseEncoding(t *testing.T) {
	for raw, want := range map[string]Encoding{"": EncodingRaw, "HEX": EncodingHex, "b64": EncodingBase64, " base64 ": EncodingBase64} {
		got, err := ParseEncoding(raw)
		if err != nil || got != want {
			t.Fatalf("ParseEncoding(%q) = %q, %v", raw, got, err)
		}
	}
	if _, err := ParseEncoding("octal"); !errors.Is(err, ErrUnknownEncoding) {
		t.Fatalf("expected ErrUnknownEncoding, got %v", err)
	}
}

func TestReadLimit(t *testing.T) {
	testlog.Start(t)
	if _, err := Read(strings.NewReader("abcdef"), EncodingRaw, 4); !errors.Is(err, ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge, got %v", err)
	}
	got, err := Read(strings.NewReader("abcd"), EncodingRaw, 4)
	if err != nil || string(got) != "abcd" {
		t.Fatalf("unexpected read: %q, %v", got, err)
	}
}

func TestLoadFileAndStdin(t *testing.T) {
	testlog.Start(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "capture.hex")
	if err := os.WriteFile(path, []byte("3a00\n"), 0o644); err != nil {
		t.Fatalf("write capture: %v", err)
	}
	got, err := Load(path, nil, EncodingHex, 0)
	if err != nil || !bytes.Equal(got, []byte{0x3A, 0x00}) {
		t.Fatalf("load file: % x, %v", got, err)
	}

	got, err = Load(Stdin, bytes.NewReader([]byte{0x08, 0x01}), EncodingRaw, 0)
	if err != nil || !bytes.Equal(got, []byte{0x08, 0x01}) {
		t.Fatalf("load stdin: % x, %v", got, err)
	}

	if _, err := Load(filepath.Join(dir, "missing"), nil, EncodingRaw, 0); err == nil {
		t.Fatalf("expected missing file error")
	}
}
