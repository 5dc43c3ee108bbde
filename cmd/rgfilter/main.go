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


package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/docopt/docopt-go"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/tablestats/rgfilter"
	"github.com/tablestats/rgfilter/config"
)

const usage = `rgfilter.

Usage:
  rgfilter prune [options] --schema=SCHEMA --filter=FILTER FILE...
  rgfilter prune [options] --schema=SCHEMA --filter=FILTER --index=INDEX
  rgfilter stats [options] FILE...
  rgfilter index [options] --out=OUT FILE...
  rgfilter -h | --help | --version

Commands:
  prune   Decide which row groups of the files can match a filter.
  stats   Show the row group statistics of parquet files.
  index   Write the row group statistics of parquet files to an index.

Arguments:
  FILE    location of a parquet file (local path, file://, s3://, gs://, abfs://, mem://)

Options:
  -h --help           show this help messages and exit
  --schema SCHEMA     location of the table schema in json
  --filter FILTER     filter expression in json, or @location to read it
                      Ex: {"type":"lt","term":"id","value":5}
  --index INDEX       location of an index written by the index command
  --out OUT           location to write the index to
  --output TYPE       output type (json/text)
  --workers N         number of files handled concurrently
  --log-level LEVEL   log level (debug/info/warn/error)
  --name-mapping MAPPING  location of a json name mapping giving IDs to
                      columns written without one; prune defaults to
                      the names of the schema
  --case-insensitive  match column names ignoring case
  --rewrite-not       push negations down to the predicates before evaluating
  --metrics PATH      write planner metrics to PATH in the prometheus text format
  --config PATH       specify the path to the configuration file`

type Config struct {
	Prune bool `docopt:"prune"`
	Stats bool `docopt:"stats"`
	Index bool `docopt:"index"`

	Files []string `docopt:"FILE"`

	Schema          string `docopt:"--schema"`
	Filter          string `docopt:"--filter"`
	IndexPath       string `docopt:"--index"`
	Out             string `docopt:"--out"`
	NameMapping     string `docopt:"--name-mapping"`
	Output          string `docopt:"--output"`
	Workers         string `docopt:"--workers"`
	LogLevel        string `docopt:"--log-level"`
	CaseInsensitive bool   `docopt:"--case-insensitive"`
	RewriteNot      bool   `docopt:"--rewrite-not"`
	Metrics         string `docopt:"--metrics"`
	Config          string `docopt:"--config"`

	maxWorkers int
	props      map[string]string
}

func main() {
	ctx := context.Background()
	args, err := docopt.ParseArgs(usage, os.Args[1:], rgfilter.Version())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	cfg := Config{}
	if err := args.Bind(&cfg); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	fileCfg := config.EnvConfig
	if cfg.Config != "" {
		if fileCfg, err = config.ReadConfig(cfg.Config); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}

	output, err := mergeConf(fileCfg, &cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger := newLogger(os.Stderr, cfg.LogLevel)
	if err := run(ctx, cfg, output, logger); err != nil {
		output.Error(err)
		os.Exit(1)
	}
}

// mergeConf fills the options not given on the command line from the
// config file and picks the output implementation.
func mergeConf(fileConf config.Config, cfg *Config) (Output, error) {
	if len(cfg.Output) == 0 {
		cfg.Output = fileConf.Output
	}
	if len(cfg.LogLevel) == 0 {
		cfg.LogLevel = fileConf.LogLevel
	}
	if !fileConf.CaseSensitive {
		cfg.CaseInsensitive = true
	}
	if fileConf.RewriteNot {
		cfg.RewriteNot = true
	}
	cfg.props = fileConf.IO

	cfg.maxWorkers = fileConf.MaxWorkers
	if len(cfg.Workers) > 0 {
		n, err := strconv.Atoi(cfg.Workers)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid --workers '%s': must be a positive integer", cfg.Workers)
		}
		cfg.maxWorkers = n
	}

	switch strings.ToLower(cfg.Output) {
	case "text":
		return textOutput{}, nil
	case "json":
		return jsonOutput{}, nil
	}

	return nil, fmt.Errorf("unimplemented output type '%s'", cfg.Output)
}

func levelOption(lvl string) level.Option {
	switch strings.ToLower(lvl) {
	case "debug":
		return level.AllowDebug()
	case "warn":
		return level.AllowWarn()
	case "error":
		return level.AllowError()
	}

	return level.AllowInfo()
}

func newLogger(w io.Writer, lvl string) log.Logger {
	logger := level.NewFilter(log.NewLogfmtLogger(log.NewSyncWriter(w)), levelOption(lvl))

	return log.With(logger, "ts", log.DefaultTimestampUTC)
}
