package log

import (
	"fmt"
	"os"
	"reflect"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v2"
)

// LoadCfg reads a YAML configuration file and decodes it into a LogCfg.
// The file is first unmarshaled into a generic map and then decoded with
// mapstructure so the same struct tags serve both file-based and
// programmatic configuration. Level names may be given as strings
// ("info", "ERROR") and are parsed case-insensitively.
func LoadCfg(path string) (*LogCfg, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var parsed map[any]any
	if err := yaml.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg := &LogCfg{}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		DecodeHook:       levelDecodeHook,
		Result:           cfg,
	})
	if err != nil {
		return nil, fmt.Errorf("create config decoder: %w", err)
	}

	if err := decoder.Decode(normalizeKeys(parsed)); err != nil {
		return nil, fmt.Errorf("decode config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config %s: %w", path, err)
	}

	return cfg, nil
}

// levelDecodeHook converts string level names to Level values during
// mapstructure decoding.
func levelDecodeHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || to != reflect.TypeOf(Level(0)) {
		return data, nil
	}
	return ParseLevel(data.(string)), nil
}

// normalizeKeys converts yaml.v2's map[any]any trees into map[string]any so
// mapstructure can traverse them.
func normalizeKeys(v any) any {
	switch m := v.(type) {
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			out[fmt.Sprintf("%v", k)] = normalizeKeys(val)
		}
		return out
	case []any:
		for i, val := range m {
			m[i] = normalizeKeys(val)
		}
		return m
	default:
		return v
	}
}
