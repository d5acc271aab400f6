package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// Format is a configuration file syntax
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// DefaultFileNames are searched, in order, when no config path is given
var DefaultFileNames = []string{
	".tplminrc.json",
	".tplminrc.jsonc",
	".tplminrc.yaml",
	".tplminrc.yml",
	".tplminrc.toml",
}

// FormatFor picks the syntax from a file extension
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
}

// Load reads options from a file
func Load(path string) (Options, error) {
	format, err := FormatFor(path)
	if err != nil {
		return Options{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Options{}, fmt.Errorf("failed to read config: %w", err)
	}
	opts, err := Parse(data, format)
	if err != nil {
		return Options{}, fmt.Errorf("%s: %w", path, err)
	}
	return opts, nil
}

// Find returns the first default config file present in dir, or "" if none
func Find(dir string) string {
	for _, name := range DefaultFileNames {
		candidate := filepath.Join(dir, name)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
	}
	return ""
}

// Parse decodes options. YAML and TOML are decoded into generic values and
// converted to JSON so that every format shares the JSON entry decoding.
func Parse(data []byte, format Format) (Options, error) {
	var opts Options

	var jsonBytes []byte
	switch format {
	case FormatJSON:
		jsonBytes = jsonc.ToJSON(data)
	case FormatYAML:
		var generic any
		if err := yaml.Unmarshal(data, &generic); err != nil {
			return opts, fmt.Errorf("failed to parse YAML: %w", err)
		}
		b, err := json.Marshal(generic)
		if err != nil {
			return opts, fmt.Errorf("failed to convert YAML: %w", err)
		}
		jsonBytes = b
	case FormatTOML:
		generic := map[string]any{}
		if _, err := toml.Decode(string(data), &generic); err != nil {
			return opts, fmt.Errorf("failed to parse TOML: %w", err)
		}
		b, err := json.Marshal(generic)
		if err != nil {
			return opts, fmt.Errorf("failed to convert TOML: %w", err)
		}
		jsonBytes = b
	default:
		return opts, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	if len(strings.TrimSpace(string(jsonBytes))) == 0 || string(jsonBytes) == "null" {
		return opts, nil
	}
	if err := json.Unmarshal(jsonBytes, &opts); err != nil {
		return opts, fmt.Errorf("failed to decode options: %w", err)
	}
	return opts, nil
}
