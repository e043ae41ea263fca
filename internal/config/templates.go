package config

import (
	"fmt"
	"os"
	"strings"
)

func Template(kind string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "server":
		return serverTemplate, nil
	case "cli":
		return cliTemplate, nil
	default:
		return "", fmt.Errorf("unknown config kind: %s", kind)
	}
}

func WriteTemplate(path, kind string, overwrite bool) error {
	template, err := Template(kind)
	if err != nil {
		return err
	}
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		}
	}
	return os.WriteFile(path, []byte(template), 0o600)
}

const serverTemplate = `name = "pbdecoded"
addr = ":9300"
cors_origins = ["http://localhost:3000"]
max_body_bytes = 16777216

[decoder]
max_depth = 64
exact_stride = false
encoding = "raw"
format = "json"
framing = "none"
`

const cliTemplate = `encoding = "hex"
format = "text"
framing = "none"
max_depth = 64
exact_stride = false
indent = 4
`
