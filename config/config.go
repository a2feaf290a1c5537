// Package config loads the rill.yml project file.
package config

import (
	"io/ioutil"
	"os"

	"github.com/coreos/pkg/capnslog"
	"github.com/ztrue/tracerr"
	"gopkg.in/yaml.v2"
)

// Filename is the name rill looks for in the working directory.
const Filename = "rill.yml"

type Config struct {
	// Entry is the source file run when no file is named on the command line.
	Entry      string `yaml:"Entry"`
	LogLevel   string `yaml:"LogLevel"`
	SkipCheck  bool   `yaml:"SkipCheck"`
	DumpScopes bool   `yaml:"DumpScopes"`
	// Freestanding makes emitted modules carry their own _rill_start entry point.
	Freestanding bool `yaml:"Freestanding"`
}

func Default() Config {
	return Config{
		Entry:    "main.rill",
		LogLevel: "WARNING",
	}
}

// Level parses LogLevel, falling back to the default level when it is unset.
func (c Config) Level() (capnslog.LogLevel, error) {
	if c.LogLevel == "" {
		return capnslog.ParseLevel(Default().LogLevel)
	}
	return capnslog.ParseLevel(c.LogLevel)
}

// Load reads the config at path. Fields missing from the file keep their default
// values, and a missing file yields Default().
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := ioutil.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, tracerr.Wrap(err)
	}

	if err := yaml.UnmarshalStrict(data, &cfg); err != nil {
		return Default(), tracerr.Wrap(err)
	}

	if _, err := cfg.Level(); err != nil {
		return Default(), tracerr.Wrap(err)
	}

	return cfg, nil
}

func Write(path string, cfg Config) error {
	out, err := yaml.Marshal(cfg)
	if err != nil {
		return tracerr.Wrap(err)
	}

	return tracerr.Wrap(ioutil.WriteFile(path, out, 0644))
}
