// Copyright 2026 Dolthub, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config reads the gitrebase configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"github.com/sirupsen/logrus"
	goerrors "gopkg.in/src-d/go-errors.v1"
	"gopkg.in/yaml.v2"

	"github.com/dolthub/gitrebase/libraries/rebase"
)

// FileName is the name of the config file looked up in the git dir when no path is given.
const FileName = "gitrebase.yaml"

const (
	LogFormatText = "text"
	LogFormatJSON = "json"

	ConflictStyleMerge = "merge"
	ConflictStyleDiff3 = "diff3"

	defaultLogLevel    = "warning"
	defaultLockTimeout = 5 * time.Second
	defaultEditor      = "vim"
)

// ErrNoIdentity is returned when no committer name or email is configured anywhere.
var ErrNoIdentity = goerrors.NewKind("committer identity unknown; set user.name and user.email in %s or in your git config")

// UserYAMLConfig is the identity used for the commits a rebase creates.
type UserYAMLConfig struct {
	Name  *string `yaml:"name,omitempty"`
	Email *string `yaml:"email,omitempty"`
}

// CheckoutYAMLConfig controls how steps are written to the working tree.
type CheckoutYAMLConfig struct {
	ConflictStyle *string `yaml:"conflict_style,omitempty"`
	Force         *bool   `yaml:"force,omitempty"`
}

type FinishYAMLConfig struct {
	RecordOrigHead *bool `yaml:"record_orig_head,omitempty"`
}

// YAMLConfig is the configuration read from a yaml file. Every field is optional.
type YAMLConfig struct {
	LogLevelStr       *string            `yaml:"log_level,omitempty"`
	LogFormatStr      *string            `yaml:"log_format,omitempty"`
	UserConfig        UserYAMLConfig     `yaml:"user,omitempty"`
	CheckoutConfig    CheckoutYAMLConfig `yaml:"checkout,omitempty"`
	FinishConfig      FinishYAMLConfig   `yaml:"finish,omitempty"`
	LockTimeoutMillis *uint64            `yaml:"lock_timeout_millis,omitempty"`
	EditorStr         *string            `yaml:"editor,omitempty"`
}

// NewYamlConfig parses |data| after expanding environment placeholders. Unknown keys are an error.
func NewYamlConfig(data []byte) (*YAMLConfig, error) {
	return newYamlConfig(data, osLookup)
}

func newYamlConfig(data []byte, lookup func(string) (string, bool)) (*YAMLConfig, error) {
	expanded, err := interpolateEnv(data, lookup)
	if err != nil {
		return nil, err
	}

	var cfg YAMLConfig
	if err := yaml.UnmarshalStrict(expanded, &cfg); err != nil {
		return nil, err
	}
	if cfg.LogLevelStr != nil {
		lvl := strings.ToLower(*cfg.LogLevelStr)
		cfg.LogLevelStr = &lvl
	}
	return &cfg, cfg.Validate()
}

// YamlConfigFromFile reads the config at |path| on |fs|. A missing file yields the default configuration.
func YamlConfigFromFile(fs billy.Filesystem, path string) (*YAMLConfig, error) {
	data, err := util.ReadFile(fs, path)
	if errors.Is(err, os.ErrNotExist) {
		return &YAMLConfig{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read file '%s': %w", path, err)
	}

	cfg, err := NewYamlConfig(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse yaml file '%s': %w", path, err)
	}
	return cfg, nil
}

// Validate returns an error for values which are set but invalid.
func (cfg *YAMLConfig) Validate() error {
	if _, err := cfg.LogLevel(); err != nil {
		return err
	}
	switch f := cfg.LogFormat(); f {
	case LogFormatText, LogFormatJSON:
	default:
		return fmt.Errorf("invalid log_format %q: expected %s or %s", f, LogFormatText, LogFormatJSON)
	}
	if _, err := parseConflictStyle(cfg.conflictStyleStr()); err != nil {
		return err
	}
	return nil
}

func (cfg *YAMLConfig) LogLevel() (logrus.Level, error) {
	return logrus.ParseLevel(stringOrDefault(cfg.LogLevelStr, defaultLogLevel))
}

func (cfg *YAMLConfig) LogFormat() string {
	return strings.ToLower(stringOrDefault(cfg.LogFormatStr, LogFormatText))
}

// ConflictStyle returns the conflict marker style. Validate must have succeeded.
func (cfg *YAMLConfig) ConflictStyle() rebase.ConflictStyle {
	style, _ := parseConflictStyle(cfg.conflictStyleStr())
	return style
}

func (cfg *YAMLConfig) conflictStyleStr() string {
	return stringOrDefault(cfg.CheckoutConfig.ConflictStyle, ConflictStyleMerge)
}

func parseConflictStyle(s string) (rebase.ConflictStyle, error) {
	switch strings.ToLower(s) {
	case ConflictStyleMerge:
		return rebase.ConflictStyleMerge, nil
	case ConflictStyleDiff3:
		return rebase.ConflictStyleDiff3, nil
	}
	return 0, fmt.Errorf("invalid checkout.conflict_style %q: expected %s or %s", s, ConflictStyleMerge, ConflictStyleDiff3)
}

func (cfg *YAMLConfig) Force() bool {
	return boolOrDefault(cfg.CheckoutConfig.Force, false)
}

// RecordOrigHead defaults to true, matching git.
func (cfg *YAMLConfig) RecordOrigHead() bool {
	return boolOrDefault(cfg.FinishConfig.RecordOrigHead, true)
}

func (cfg *YAMLConfig) LockTimeout() time.Duration {
	if cfg.LockTimeoutMillis == nil {
		return defaultLockTimeout
	}
	return time.Duration(*cfg.LockTimeoutMillis) * time.Millisecond
}

// Editor returns the configured editor, then $EDITOR, then vim.
func (cfg *YAMLConfig) Editor() string {
	if cfg.EditorStr != nil && *cfg.EditorStr != "" {
		return *cfg.EditorStr
	}
	if ed, ok := os.LookupEnv("EDITOR"); ok && ed != "" {
		return ed
	}
	return defaultEditor
}

// CheckoutOptions returns the options every step of a run is applied with.
func (cfg *YAMLConfig) CheckoutOptions() rebase.CheckoutOptions {
	return rebase.CheckoutOptions{
		ConflictStyle: cfg.ConflictStyle(),
		Force:         cfg.Force(),
	}
}

func (cfg *YAMLConfig) FinishOptions() rebase.FinishOptions {
	return rebase.FinishOptions{RecordOrigHead: cfg.RecordOrigHead()}
}

// IdentitySource supplies a fallback identity, such as the user's git config.
type IdentitySource interface {
	Identity() (name, email string, err error)
}

// Identity resolves the committer name and email. Values in the config file take precedence, then the
// GIT_COMMITTER_NAME and GIT_COMMITTER_EMAIL environment variables, then |fallback|.
func (cfg *YAMLConfig) Identity(fallback IdentitySource) (name, email string, err error) {
	name = stringOrDefault(cfg.UserConfig.Name, os.Getenv("GIT_COMMITTER_NAME"))
	email = stringOrDefault(cfg.UserConfig.Email, os.Getenv("GIT_COMMITTER_EMAIL"))
	if (name == "" || email == "") && fallback != nil {
		fbName, fbEmail, err := fallback.Identity()
		if err != nil {
			return "", "", err
		}
		if name == "" {
			name = fbName
		}
		if email == "" {
			email = fbEmail
		}
	}
	if name == "" || email == "" {
		return "", "", ErrNoIdentity.New(FileName)
	}
	return name, email, nil
}

// ConfigureLogger applies the configured level and format to |lgr|.
func (cfg *YAMLConfig) ConfigureLogger(lgr *logrus.Logger) error {
	lvl, err := cfg.LogLevel()
	if err != nil {
		return err
	}
	lgr.SetLevel(lvl)
	if cfg.LogFormat() == LogFormatJSON {
		lgr.SetFormatter(&logrus.JSONFormatter{})
	} else {
		lgr.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	}
	return nil
}

// String renders the config as yaml.
func (cfg *YAMLConfig) String() string {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return "Failed to marshal as yaml: " + err.Error()
	}
	return string(data)
}

func stringOrDefault(s *string, def string) string {
	if s == nil || *s == "" {
		return def
	}
	return *s
}

func boolOrDefault(b *bool, def bool) bool {
	if b == nil {
		return def
	}
	return *b
}
