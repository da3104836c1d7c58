package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/alnah/go-eqnos/internal/ast"
	"github.com/alnah/go-eqnos/internal/fileutil"
)

// MaxInputSize limits defaults files to prevent memory exhaustion (default 1MB).
var MaxInputSize = 1 << 20

// ErrInputTooLarge is returned for defaults files above MaxInputSize.
var ErrInputTooLarge = errors.New("config exceeds maximum size")

// configDirName is the directory searched under the user config dir.
const configDirName = "go-eqnos"

// LoadDefaults reads a YAML file of option defaults keyed by metadata name,
// for example:
//
//	eqnos-cleveref: true
//	eqnos-plus-name: [eqn., eqns.]
//	xnos-number-offset: 2
//
// nameOrPath containing a path separator is read directly; otherwise it is
// searched as name.yaml or name.yml in the current directory, then in the
// user config directory. A missing file is an error (no silent fallback).
func LoadDefaults(nameOrPath string) (ast.Meta, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !fileutil.IsFilePath(nameOrPath) {
		var err error
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	return ParseDefaults(data)
}

// ParseDefaults decodes YAML defaults into metadata values.
func ParseDefaults(data []byte) (ast.Meta, error) {
	if len(data) > MaxInputSize {
		return nil, fmt.Errorf("%w: %d bytes (max %d)", ErrInputTooLarge, len(data), MaxInputSize)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return ast.Meta{}, nil
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}
	return FromValues(raw)
}

// FromValues converts plain Go values keyed by metadata name, as decoded
// from YAML, to metadata values.
func FromValues(raw map[string]any) (ast.Meta, error) {
	meta := make(ast.Meta, len(raw))
	for name, v := range raw {
		mv, err := toMeta(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrConfigParse, name, err)
		}
		meta[name] = mv
	}
	return meta, nil
}

// toMeta converts a decoded YAML value to the metadata value pandoc would
// have produced for the same YAML block.
func toMeta(v any) (ast.MetaValue, error) {
	switch v := v.(type) {
	case nil:
		return &ast.MetaString{}, nil
	case bool:
		return &ast.MetaBool{Value: v}, nil
	case string:
		return &ast.MetaString{Text: v}, nil
	case int:
		return &ast.MetaString{Text: strconv.Itoa(v)}, nil
	case int64:
		return &ast.MetaString{Text: strconv.FormatInt(v, 10)}, nil
	case uint64:
		return &ast.MetaString{Text: strconv.FormatUint(v, 10)}, nil
	case float64:
		return &ast.MetaString{Text: strconv.FormatFloat(v, 'f', -1, 64)}, nil
	case []any:
		list := &ast.MetaList{Items: make([]ast.MetaValue, 0, len(v))}
		for _, item := range v {
			mv, err := toMeta(item)
			if err != nil {
				return nil, err
			}
			list.Items = append(list.Items, mv)
		}
		return list, nil
	case map[any]any:
		converted := make(map[string]any, len(v))
		for k, item := range v {
			converted[fmt.Sprint(k)] = item
		}
		return toMeta(converted)
	case map[string]any:
		m := &ast.MetaMap{Entries: make(map[string]ast.MetaValue, len(v))}
		for k, item := range v {
			mv, err := toMeta(item)
			if err != nil {
				return nil, err
			}
			m.Entries[k] = mv
		}
		return m, nil
	default:
		return nil, fmt.Errorf("unsupported value type %T", v)
	}
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, ~/.config/go-eqnos/
func resolveConfigPath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		localPath := name + ext
		if fileutil.FileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, configDirName, name+ext)
			if fileutil.FileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}
