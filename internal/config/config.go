/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package config

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// AppConfig is the user-editable configuration persisted as YAML in the user scope.
// Environment variables are read-only overrides applied at load time.
// The planner API token is not part of this struct; it lives in the OS keychain.

type PlannerConfig struct {
	BaseURL   string `yaml:"base_url"`
	TimeoutMs int    `yaml:"timeout_ms"`
}

type ExportConfig struct {
	PageFormat     string  `yaml:"page_format"` // "a4" | "letter"
	Scale          float64 `yaml:"scale"`
	ImageTimeoutMs int     `yaml:"image_timeout_ms"`
	PhotoLimit     int     `yaml:"photo_limit"`
	OutDir         string  `yaml:"out_dir"`
	FontDir        string  `yaml:"font_dir"` // optional TTFs overriding the bundled Go fonts
}

type StoreConfig struct {
	Driver string `yaml:"driver"` // "sqlite" | "postgres" | "redis"
	DSN    string `yaml:"dsn"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Source bool   `yaml:"source"`
	File   string `yaml:"file"`
}

type AppConfig struct {
	ConfigVersion int           `yaml:"config_version"`
	Planner       PlannerConfig `yaml:"planner"`
	Export        ExportConfig  `yaml:"export"`
	Store         StoreConfig   `yaml:"store"`
	Server        ServerConfig  `yaml:"server"`
	Logging       LoggingConfig `yaml:"logging"`
}

// Defaults returns the application defaults.
func Defaults() AppConfig {
	return AppConfig{
		ConfigVersion: 1,
		Planner:       PlannerConfig{BaseURL: "http://localhost:5000", TimeoutMs: 60000},
		Export:        ExportConfig{PageFormat: "a4", Scale: 2, ImageTimeoutMs: 4000, PhotoLimit: 3},
		Store:         StoreConfig{Driver: "sqlite"},
		Server:        ServerConfig{Addr: ":8080"},
		Logging:       LoggingConfig{Level: "info", Format: "console"},
	}
}

// Env var names used as overrides.
const (
	EnvPlannerURL       = "VIAJEIA_PLANNER_URL"
	EnvPlannerTimeoutMs = "VIAJEIA_PLANNER_TIMEOUT_MS"
	EnvPageFormat       = "VIAJEIA_PAGE_FORMAT"
	EnvExportDir        = "VIAJEIA_EXPORT_DIR"
	EnvStoreDriver      = "VIAJEIA_STORE_DRIVER"
	EnvStoreDSN         = "VIAJEIA_STORE_DSN"
	EnvServerAddr       = "VIAJEIA_ADDR"
	EnvLogLevel         = "VIAJEIA_LOG_LEVEL"
	EnvLogFormat        = "VIAJEIA_LOG_FORMAT"
	EnvLogSource        = "VIAJEIA_LOG_SOURCE"
	EnvLogFile          = "VIAJEIA_LOG_FILE"
	// EnvConfigPath points at an explicit config file, bypassing the per-user location.
	EnvConfigPath = "VIAJEIA_CONFIG"
)

// Dir returns the per-user application directory (config, data, crash reports).
func Dir() (string, error) {
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("AppData")
		if base == "" {
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		base = filepath.Join(base, "ViajeIA")
	case "darwin":
		base = filepath.Join(os.Getenv("HOME"), "Library", "Application Support", "ViajeIA")
	default:
		if x := os.Getenv("XDG_CONFIG_HOME"); x != "" {
			base = filepath.Join(x, "viajeia")
		} else {
			base = filepath.Join(os.Getenv("HOME"), ".config", "viajeia")
		}
	}
	if base == "" || base == "viajeia" {
		return "", errors.New("cannot resolve config directory")
	}
	return base, nil
}

// ConfigPath returns the config file path, honoring VIAJEIA_CONFIG.
func ConfigPath() (string, error) {
	if p := strings.TrimSpace(os.Getenv(EnvConfigPath)); p != "" {
		return p, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load reads the config file (if present), applies defaults and env overrides,
// and returns the planner token from the keychain separately.
func Load() (AppConfig, string, error) {
	cfg := Defaults()
	path, err := ConfigPath()
	if err != nil {
		return cfg, "", err
	}
	if data, err := os.ReadFile(path); err == nil {
		var fileCfg AppConfig
		if err := yaml.Unmarshal(data, &fileCfg); err != nil {
			return cfg, "", err
		}
		mergeInto(&cfg, &fileCfg)
	}
	applyEnvOverrides(&cfg)
	tok, _ := tokenStore.Get(keyringService, keyringToken)
	return cfg, tok, nil
}

// Save writes the YAML file and stores a non-empty token in the keychain.
func Save(cfg AppConfig, token string) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return err
	}
	if token != "" {
		return tokenStore.Set(keyringService, keyringToken, token)
	}
	return nil
}

func mergeInto(dst, src *AppConfig) {
	if src.ConfigVersion != 0 {
		dst.ConfigVersion = src.ConfigVersion
	}
	setStr(&dst.Planner.BaseURL, src.Planner.BaseURL)
	if src.Planner.TimeoutMs > 0 {
		dst.Planner.TimeoutMs = src.Planner.TimeoutMs
	}

	setStr(&dst.Export.PageFormat, strings.ToLower(src.Export.PageFormat))
	if src.Export.Scale > 0 {
		dst.Export.Scale = src.Export.Scale
	}
	if src.Export.ImageTimeoutMs > 0 {
		dst.Export.ImageTimeoutMs = src.Export.ImageTimeoutMs
	}
	if src.Export.PhotoLimit > 0 {
		dst.Export.PhotoLimit = src.Export.PhotoLimit
	}
	setStr(&dst.Export.OutDir, src.Export.OutDir)
	setStr(&dst.Export.FontDir, src.Export.FontDir)

	setStr(&dst.Store.Driver, strings.ToLower(src.Store.Driver))
	setStr(&dst.Store.DSN, src.Store.DSN)
	setStr(&dst.Server.Addr, src.Server.Addr)

	setStr(&dst.Logging.Level, strings.ToLower(src.Logging.Level))
	setStr(&dst.Logging.Format, strings.ToLower(src.Logging.Format))
	dst.Logging.Source = src.Logging.Source
	setStr(&dst.Logging.File, src.Logging.File)
}

func setStr(dst *string, v string) {
	if v = strings.TrimSpace(v); v != "" {
		*dst = v
	}
}

func applyEnvOverrides(cfg *AppConfig) {
	env := func(k string) string { return strings.TrimSpace(os.Getenv(k)) }
	setStr(&cfg.Planner.BaseURL, env(EnvPlannerURL))
	if n, err := strconv.Atoi(env(EnvPlannerTimeoutMs)); err == nil && n > 0 {
		cfg.Planner.TimeoutMs = n
	}
	setStr(&cfg.Export.PageFormat, strings.ToLower(env(EnvPageFormat)))
	setStr(&cfg.Export.OutDir, env(EnvExportDir))
	setStr(&cfg.Store.Driver, strings.ToLower(env(EnvStoreDriver)))
	setStr(&cfg.Store.DSN, env(EnvStoreDSN))
	setStr(&cfg.Server.Addr, env(EnvServerAddr))
	setStr(&cfg.Logging.Level, strings.ToLower(env(EnvLogLevel)))
	setStr(&cfg.Logging.Format, strings.ToLower(env(EnvLogFormat)))
	if v := strings.ToLower(env(EnvLogSource)); v != "" {
		cfg.Logging.Source = v == "1" || v == "true" || v == "on" || v == "yes"
	}
	setStr(&cfg.Logging.File, env(EnvLogFile))
}

// EnvOverrideFor reports which env var, if any, overrides the dotted config key.
func EnvOverrideFor(key string) (string, bool) {
	names := map[string]string{
		"planner.base_url":   EnvPlannerURL,
		"planner.timeout_ms": EnvPlannerTimeoutMs,
		"export.page_format": EnvPageFormat,
		"export.out_dir":     EnvExportDir,
		"store.driver":       EnvStoreDriver,
		"store.dsn":          EnvStoreDSN,
		"server.addr":        EnvServerAddr,
		"logging.level":      EnvLogLevel,
		"logging.format":     EnvLogFormat,
		"logging.source":     EnvLogSource,
		"logging.file":       EnvLogFile,
	}
	name, ok := names[key]
	if !ok || os.Getenv(name) == "" {
		return "", false
	}
	return name, true
}

// Timeout returns the planner request timeout, falling back to the default.
func (p PlannerConfig) Timeout() time.Duration {
	if p.TimeoutMs <= 0 {
		return time.Duration(Defaults().Planner.TimeoutMs) * time.Millisecond
	}
	return time.Duration(p.TimeoutMs) * time.Millisecond
}

// ImageTimeout bounds how long an export waits for photos to load.
func (e ExportConfig) ImageTimeout() time.Duration {
	if e.ImageTimeoutMs <= 0 {
		return time.Duration(Defaults().Export.ImageTimeoutMs) * time.Millisecond
	}
	return time.Duration(e.ImageTimeoutMs) * time.Millisecond
}
