package settings

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"transit/domain/network/transport"

	"gopkg.in/yaml.v3"
)

// ListenerSettings names one listener of serve mode.
type ListenerSettings struct {
	Transport transport.Transport `json:"Transport" yaml:"transport"`
	Port      uint16              `json:"Port" yaml:"port"`
}

// File is the on-disk configuration of the transit command.
type File struct {
	Settings       `yaml:",inline"`
	Logger         string             `json:"Logger" yaml:"logger"`
	MetricsAddress string             `json:"MetricsAddress" yaml:"metrics_address"`
	Listeners      []ListenerSettings `json:"Listeners" yaml:"listeners"`
}

// Load reads a JSON or YAML file, chosen by extension, applies defaults and validates it.
func Load(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("read settings %s: %w", path, err)
	}
	f, err := Decode(data, filepath.Ext(path))
	if err != nil {
		return File{}, fmt.Errorf("parse settings %s: %w", path, err)
	}
	return f, nil
}

// Decode parses data in the format named by ext (".json", ".yaml" or ".yml").
func Decode(data []byte, ext string) (File, error) {
	var f File
	switch strings.ToLower(ext) {
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&f); err != nil {
			return File{}, err
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&f); err != nil {
			return File{}, err
		}
	default:
		return File{}, fmt.Errorf("%w: unsupported format %q", ErrInvalidSettings, ext)
	}

	f.Settings = f.Settings.WithDefaults()
	if err := f.Settings.Validate(); err != nil {
		return File{}, err
	}
	switch strings.ToLower(f.Logger) {
	case "", "log", "slog":
	default:
		return File{}, fmt.Errorf("%w: unknown logger %q", ErrInvalidSettings, f.Logger)
	}
	for _, l := range f.Listeners {
		if l.Transport == transport.Unknown {
			return File{}, fmt.Errorf("%w: listener on port %d has no transport", ErrInvalidSettings, l.Port)
		}
	}
	return f, nil
}
