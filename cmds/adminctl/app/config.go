package app

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/drone/envsubst"
	"github.com/joho/godotenv"
	"github.com/mandelsoft/vfs/pkg/vfs"
	"sigs.k8s.io/yaml"

	"github.com/mandelsoft/admin/pkg/utils"
)

const (
	CONFIG_FILE = ".adminctl"
	DOTENV_FILE = ".env"
)

type Config struct {
	Server    *string  `json:"server,omitempty"`
	Token     *string  `json:"token,omitempty"`
	RateLimit *float64 `json:"rateLimit,omitempty"`
}

// LookupFunc looks up environment variables.
type LookupFunc func(string) (string, bool)

// GetConfig merges the config files found in the home directory,
// the user config directory and the current directory. Environment
// variables, optionally taken from a .env file, override them.
// String values may refer to environment variables with ${VAR}.
func GetConfig(fs vfs.FileSystem, lookup LookupFunc) *Config {
	var cfg Config

	env := Environment(fs, lookup)

	dir, err := os.UserHomeDir()
	if err == nil {
		MergeConfig(&cfg, ReadConfig(fs, filepath.Join(dir, CONFIG_FILE), env))
	}
	dir, err = os.UserConfigDir()
	if err == nil {
		MergeConfig(&cfg, ReadConfig(fs, filepath.Join(dir, CONFIG_FILE), env))
	}
	MergeConfig(&cfg, ReadConfig(fs, CONFIG_FILE, env))

	if v, ok := env(ENV_SERVER); ok && v != "" {
		cfg.Server = utils.Pointer(v)
	}
	if v, ok := env(ENV_TOKEN); ok && v != "" {
		cfg.Token = utils.Pointer(v)
	}
	if cfg.Server == nil || *cfg.Server == "" {
		cfg.Server = utils.Pointer(DEFAULT_SERVER)
	}
	return &cfg
}

// Environment provides a lookup preferring the process environment
// over the settings of a .env file in the current directory.
func Environment(fs vfs.FileSystem, lookup LookupFunc) LookupFunc {
	var dotenv map[string]string
	data, err := vfs.ReadFile(fs, DOTENV_FILE)
	if err == nil {
		dotenv, err = godotenv.Parse(bytes.NewReader(data))
		if err != nil {
			log.Info("ignoring invalid {{file}}", "file", DOTENV_FILE, "error", err)
		}
	}
	return func(name string) (string, bool) {
		if lookup != nil {
			if v, ok := lookup(name); ok {
				return v, true
			}
		}
		v, ok := dotenv[name]
		return v, ok
	}
}

func ReadConfig(fs vfs.FileSystem, path string, env LookupFunc) *Config {
	data, err := vfs.ReadFile(fs, path)
	if err != nil {
		return nil
	}

	var cfg Config
	err = yaml.Unmarshal(data, &cfg)
	if err != nil {
		log.Info("ignoring invalid config file {{file}}", "file", path, "error", err)
		return nil
	}
	cfg.Server = substitute(cfg.Server, env)
	cfg.Token = substitute(cfg.Token, env)
	return &cfg
}

func substitute(v *string, env LookupFunc) *string {
	if v == nil {
		return nil
	}
	s, err := envsubst.Eval(*v, func(name string) string {
		r, _ := env(name)
		return r
	})
	if err != nil {
		log.Info("cannot substitute {{value}}", "value", *v, "error", err)
		return v
	}
	return &s
}

func MergeConfig(cfg *Config, add *Config) {
	if add == nil {
		return
	}
	if add.Server != nil {
		cfg.Server = add.Server
	}
	if add.Token != nil {
		cfg.Token = add.Token
	}
	if add.RateLimit != nil {
		cfg.RateLimit = add.RateLimit
	}
}
