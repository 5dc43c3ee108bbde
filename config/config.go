// Licensed to the Apache Software Foundation (ASF) under one
// or more contributor license agreements.  See the NOTICE file
// distributed with this work for additional information
// regarding copyright ownership.  The ASF licenses this file
// to you under the Apache License, Version 2.0 (the
// "License"); you may not use this file except in compliance
// with the License.  You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.


package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"gopkg.in/yaml.v3"
)

const (
	cfgFile           = ".rgfilter.yaml"
	defaultMaxWorkers = 5
)

var ErrInvalidConfig = errors.New("invalid config")

var (
	outputs   = []string{"text", "json"}
	logLevels = []string{"debug", "info", "warn", "error"}
)

// Config is the content of the .rgfilter.yaml file:
//
//	case-sensitive: false
//	max-workers: 8
//	output: json
//	log-level: debug
//	rewrite-not: true
//	io:
//	  s3.region: us-east-1
type Config struct {
	CaseSensitive bool              `yaml:"case-sensitive"`
	MaxWorkers    int               `yaml:"max-workers"`
	Output        string            `yaml:"output"`
	LogLevel      string            `yaml:"log-level"`
	RewriteNot    bool              `yaml:"rewrite-not"`
	IO            map[string]string `yaml:"io"`
}

// Defaults is the configuration used when no file is present.
func Defaults() Config {
	return Config{
		CaseSensitive: true,
		MaxWorkers:    defaultMaxWorkers,
		Output:        "text",
		LogLevel:      "info",
		IO:            map[string]string{},
	}
}

// LoadConfig reads the file at configPath, or the default file in the
// home directory when configPath is empty. It returns nil when the file
// cannot be read.
func LoadConfig(configPath string) []byte {
	var path string
	if len(configPath) > 0 {
		path = configPath
	} else {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil
		}
		path = filepath.Join(homeDir, cfgFile)
	}
	file, err := os.ReadFile(path)
	if err != nil {
		return nil
	}

	return file
}

// Parse decodes a config file over the defaults. Keys missing from the
// file keep their default value.
func Parse(file []byte) (Config, error) {
	cfg := Defaults()
	if err := yaml.Unmarshal(file, &cfg); err != nil {
		return Defaults(), fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	if cfg.MaxWorkers <= 0 {
		cfg.MaxWorkers = defaultMaxWorkers
	}
	if cfg.IO == nil {
		cfg.IO = map[string]string{}
	}

	if !slices.Contains(outputs, cfg.Output) {
		return Defaults(), fmt.Errorf("%w: unknown output '%s'", ErrInvalidConfig, cfg.Output)
	}
	if !slices.Contains(logLevels, cfg.LogLevel) {
		return Defaults(), fmt.Errorf("%w: unknown log level '%s'", ErrInvalidConfig, cfg.LogLevel)
	}

	return cfg, nil
}

// ReadConfig parses the file at an explicitly requested path. Unlike
// LoadConfig a missing or unreadable file is an error.
func ReadConfig(path string) (Config, error) {
	file, err := os.ReadFile(path)
	if err != nil {
		return Defaults(), fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	return Parse(file)
}

func fromConfigFiles() Config {
	dir := os.Getenv("RGFILTER_HOME")
	if dir != "" {
		dir = filepath.Join(dir, cfgFile)
	}

	cfg, err := Parse(LoadConfig(dir))
	if err != nil {
		return Defaults()
	}

	return cfg
}

// EnvConfig is the configuration found in $RGFILTER_HOME or the home
// directory when the process started.
var EnvConfig = fromConfigFiles()
