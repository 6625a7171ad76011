// ABOUTME: Layers CLI configuration from defaults, an optional YAML file, environment, and flags.
// ABOUTME: Flags win over AUTOMATIZER_* variables, which win over config.yaml, which wins over defaults.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/2389-research/automatizer/viewer"
	"gopkg.in/yaml.v3"
)

// Environment variables read by resolveConfig.
const (
	envPort     = "AUTOMATIZER_PORT"
	envCacheTTL = "AUTOMATIZER_CACHE_TTL"
)

// fileConfig is the on-disk shape of config.yaml. Durations use
// time.ParseDuration syntax.
type fileConfig struct {
	Port        int             `yaml:"port"`
	CacheTTL    string          `yaml:"cache_ttl"`
	SessionTTL  string          `yaml:"session_ttl"`
	MaxSessions int             `yaml:"max_sessions"`
	Options     *viewer.Options `yaml:"options"`
}

// loadConfigFile reads a YAML config. A missing file is an error only when
// required is set.
func loadConfigFile(path string, required bool) (fileConfig, error) {
	var fc fileConfig
	if path == "" {
		return fc, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if !required && errors.Is(err, fs.ErrNotExist) {
			return fc, nil
		}
		return fc, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fc, fmt.Errorf("parse config %s: %w", path, err)
	}
	return fc, nil
}

// resolveConfig fills every field the user did not set by flag from the
// config file and then the environment.
func resolveConfig(cfg config, getenv func(string) string) (config, error) {
	path, required := cfg.configPath, cfg.configPath != ""
	if !required {
		p, err := defaultConfigPath()
		if err != nil {
			log.Printf("component=cli action=config err=%q", err)
		}
		path = p
	}

	fc, err := loadConfigFile(path, required)
	if err != nil {
		return cfg, err
	}
	if err := cfg.applyFile(fc); err != nil {
		return cfg, err
	}
	if err := cfg.applyEnv(getenv); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (cfg *config) applyFile(fc fileConfig) error {
	if fc.Port != 0 && !cfg.setFlags["port"] {
		cfg.port = fc.Port
	}
	if fc.MaxSessions != 0 && !cfg.setFlags["max-sessions"] {
		cfg.maxSessions = fc.MaxSessions
	}
	if err := overrideDuration(&cfg.cacheTTL, fc.CacheTTL, "cache_ttl", cfg.setFlags["cache-ttl"]); err != nil {
		return err
	}
	if err := overrideDuration(&cfg.sessionTTL, fc.SessionTTL, "session_ttl", cfg.setFlags["session-ttl"]); err != nil {
		return err
	}
	if fc.Options != nil {
		if !cfg.setFlags["minimize"] {
			cfg.opts.Minimize = fc.Options.Minimize
		}
		if !cfg.setFlags["streaming"] {
			cfg.opts.Streaming = fc.Options.Streaming
		}
		if !cfg.setFlags["show-regexp"] {
			cfg.opts.ShowRegexp = fc.Options.ShowRegexp
		}
	}
	return nil
}

func (cfg *config) applyEnv(getenv func(string) string) error {
	if v := getenv(envPort); v != "" && !cfg.setFlags["port"] {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", envPort, err)
		}
		cfg.port = port
	}
	return overrideDuration(&cfg.cacheTTL, getenv(envCacheTTL), envCacheTTL, cfg.setFlags["cache-ttl"])
}

// overrideDuration parses raw into dst unless raw is empty or the flag was
// given explicitly.
func overrideDuration(dst *time.Duration, raw, name string, flagSet bool) error {
	if raw == "" || flagSet {
		return nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	*dst = d
	return nil
}
