package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type (
	// Project describes which services a deployment provisions. The zero
	// value of each optional section means "do not provision".
	Project struct {
		Name   string `json:"name" yaml:"name" toml:"name"`
		OutDir string `json:"out_dir" yaml:"out_dir" toml:"out_dir"`

		// Format is what format the file was originally in, kept so any
		// round-trip writes preserve it.
		Format string `json:"-" yaml:"-" toml:"-"`

		Storage   *Storage   `json:"storage,omitempty" yaml:"storage,omitempty" toml:"storage,omitempty"`
		Messaging *Messaging `json:"messaging,omitempty" yaml:"messaging,omitempty" toml:"messaging,omitempty"`
		Events    *Events    `json:"events,omitempty" yaml:"events,omitempty" toml:"events,omitempty"`
		KeyVault  *KeyVault  `json:"key_vault,omitempty" yaml:"key_vault,omitempty" toml:"key_vault,omitempty"`
		Search    *Search    `json:"search,omitempty" yaml:"search,omitempty" toml:"search,omitempty"`
		Host      *Host      `json:"host,omitempty" yaml:"host,omitempty" toml:"host,omitempty"`
	}

	Storage struct {
		Sku        string   `json:"sku,omitempty" yaml:"sku,omitempty" toml:"sku,omitempty"`
		Containers []string `json:"containers,omitempty" yaml:"containers,omitempty" toml:"containers,omitempty"`
	}

	Messaging struct {
		Topics []string `json:"topics,omitempty" yaml:"topics,omitempty" toml:"topics,omitempty"`
	}

	Events struct{}

	KeyVault struct{}

	Search struct {
		Sku string `json:"sku,omitempty" yaml:"sku,omitempty" toml:"sku,omitempty"`
	}

	Host struct {
		Runtime string `json:"runtime,omitempty" yaml:"runtime,omitempty" toml:"runtime,omitempty"`
	}
)

func ReadConfig(fpath string) (Project, error) {
	var cfg Project

	f, err := os.Open(fpath)
	if err != nil {
		return cfg, err
	}
	defer f.Close() // nolint:errcheck

	switch filepath.Ext(fpath) {
	case ".json":
		err = json.NewDecoder(f).Decode(&cfg)
		cfg.Format = "json"

	case ".yaml", ".yml":
		err = yaml.NewDecoder(f).Decode(&cfg)
		cfg.Format = "yaml"

	case ".toml":
		err = toml.NewDecoder(f).Decode(&cfg)
		cfg.Format = "toml"

	default:
		err = errors.Errorf("unsupported config format: %s", filepath.Ext(fpath))
	}
	return cfg, err
}
