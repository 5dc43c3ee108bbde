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
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/tablestats/rgfilter"
	"github.com/tablestats/rgfilter/internal"
	iceio "github.com/tablestats/rgfilter/io"
	"github.com/tablestats/rgfilter/pqstats"
	"github.com/tablestats/rgfilter/rowgroup"
	"github.com/tablestats/rgfilter/stats"
	"golang.org/x/sync/errgroup"
)

func run(ctx context.Context, cfg Config, output Output, logger log.Logger) error {
	switch {
	case cfg.Prune:
		return prune(ctx, cfg, output, logger)
	case cfg.Stats:
		opts, err := mappingOptions(ctx, cfg.props, cfg.NameMapping, nil)
		if err != nil {
			return err
		}

		files, err := collectStats(ctx, cfg.props, cfg.Files, cfg.maxWorkers, opts...)
		if err != nil {
			return err
		}
		output.Stats(files)
	case cfg.Index:
		opts, err := mappingOptions(ctx, cfg.props, cfg.NameMapping, nil)
		if err != nil {
			return err
		}

		files, err := collectStats(ctx, cfg.props, cfg.Files, cfg.maxWorkers, opts...)
		if err != nil {
			return err
		}

		n, err := writeIndex(ctx, cfg.props, cfg.Out, files)
		if err != nil {
			return err
		}
		level.Debug(logger).Log("msg", "wrote index", "location", cfg.Out, "bytes", n)
		output.Text(fmt.Sprintf("Wrote statistics of %d blocks in %d files to %s",
			countBlocks(files), len(files), cfg.Out))
	}

	return nil
}

func prune(ctx context.Context, cfg Config, output Output, logger log.Logger) error {
	schema, err := loadSchema(ctx, cfg.props, cfg.Schema)
	if err != nil {
		return err
	}

	expr, err := loadFilter(ctx, cfg.props, cfg.Filter)
	if err != nil {
		return err
	}

	opts := []rowgroup.Option{rowgroup.WithCaseSensitive(!cfg.CaseInsensitive)}
	if cfg.RewriteNot {
		opts = append(opts, rowgroup.WithNotRewrite())
	}

	filter, err := rowgroup.NewFilter(schema, expr, opts...)
	if err != nil {
		return err
	}
	level.Debug(logger).Log("msg", "bound filter", "filter", filter)

	var files []stats.FileStats
	if cfg.IndexPath != "" {
		files, err = loadIndex(ctx, cfg.props, cfg.IndexPath)
	} else {
		var opts []pqstats.Option
		if opts, err = mappingOptions(ctx, cfg.props, cfg.NameMapping, schema); err == nil {
			files, err = collectStats(ctx, cfg.props, cfg.Files, cfg.maxWorkers, opts...)
		}
	}
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	planner := rowgroup.NewPlanner(filter,
		rowgroup.WithLogger(logger),
		rowgroup.WithRegisterer(reg),
		rowgroup.WithMaxWorkers(cfg.maxWorkers))

	decisions, err := planner.Plan(ctx, files)
	if err != nil {
		return err
	}

	summary := rowgroup.Summarize(decisions)
	level.Info(logger).Log("msg", "planned", "files", summary.Files, "blocks", summary.Blocks,
		"blocks_read", summary.BlocksRead, "rows_skipped", summary.RowsSkipped)

	if cfg.Metrics != "" {
		if err := prometheus.WriteToTextfile(cfg.Metrics, reg); err != nil {
			return fmt.Errorf("writing metrics: %w", err)
		}
	}

	output.Decisions(decisions, summary)

	return nil
}

func readLocation(ctx context.Context, props map[string]string, location string) (_ []byte, err error) {
	fsys, err := iceio.LoadFS(ctx, props, location)
	if err != nil {
		return nil, err
	}

	f, err := fsys.Open(location)
	if err != nil {
		return nil, err
	}
	defer internal.CheckedClose(f, &err)

	return io.ReadAll(f)
}

func loadSchema(ctx context.Context, props map[string]string, location string) (*rgfilter.Schema, error) {
	data, err := readLocation(ctx, props, location)
	if err != nil {
		return nil, fmt.Errorf("reading schema: %w", err)
	}

	return rgfilter.NewSchemaFromJSON(data)
}

// loadFilter parses the filter argument, which is either the expression
// itself or "@" followed by the location of a file holding it.
func loadFilter(ctx context.Context, props map[string]string, arg string) (rgfilter.BooleanExpression, error) {
	data := []byte(arg)
	if location, ok := strings.CutPrefix(arg, "@"); ok {
		var err error
		if data, err = readLocation(ctx, props, location); err != nil {
			return nil, fmt.Errorf("reading filter: %w", err)
		}
	}

	return rgfilter.ParseExpressionJSON(data)
}

// mappingOptions reads the name mapping at location. Without one, the
// mapping is derived from schema when it is given.
func mappingOptions(ctx context.Context, props map[string]string, location string, schema *rgfilter.Schema) ([]pqstats.Option, error) {
	switch {
	case location != "":
		data, err := readLocation(ctx, props, location)
		if err != nil {
			return nil, fmt.Errorf("reading name mapping: %w", err)
		}

		nm, err := rgfilter.ParseNameMapping(data)
		if err != nil {
			return nil, err
		}

		return []pqstats.Option{pqstats.WithNameMapping(nm)}, nil
	case schema != nil:
		return []pqstats.Option{pqstats.WithNameMapping(rgfilter.NameMappingFromSchema(schema))}, nil
	}

	return nil, nil
}

// collectStats reads the footers of the files, at most workers at a
// time. The result is in the order of locations.
func collectStats(ctx context.Context, props map[string]string, locations []string, workers int, opts ...pqstats.Option) ([]stats.FileStats, error) {
	if len(locations) == 0 {
		return nil, errors.New("no files given")
	}

	files := make([]stats.FileStats, len(locations))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(workers, 1))
	for i, location := range locations {
		g.Go(func() (err error) {
			fsys, err := iceio.LoadFS(ctx, props, location)
			if err != nil {
				return fmt.Errorf("%s: %w", location, err)
			}

			f, err := pqstats.Open(ctx, fsys, location, opts...)
			if err != nil {
				return err
			}
			defer internal.CheckedClose(f, &err)

			files[i], err = f.FileStats()

			return err
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return files, nil
}

func loadIndex(ctx context.Context, props map[string]string, location string) (_ []stats.FileStats, err error) {
	fsys, err := iceio.LoadFS(ctx, props, location)
	if err != nil {
		return nil, err
	}

	f, err := fsys.Open(location)
	if err != nil {
		return nil, err
	}
	defer internal.CheckedClose(f, &err)

	return stats.ReadIndex(f)
}

func writeIndex(ctx context.Context, props map[string]string, location string, files []stats.FileStats) (_ int64, err error) {
	fsys, err := iceio.LoadFS(ctx, props, location)
	if err != nil {
		return 0, err
	}

	wfs, ok := fsys.(iceio.WriteFileIO)
	if !ok {
		return 0, fmt.Errorf("%s: storage is read only", location)
	}

	w, err := wfs.Create(location)
	if err != nil {
		return 0, err
	}
	defer internal.CheckedClose(w, &err)

	cw := &internal.CountingWriter{W: w}
	if err := stats.WriteIndex(cw, files); err != nil {
		return 0, err
	}

	return cw.Count, nil
}

func countBlocks(files []stats.FileStats) (n int) {
	for _, f := range files {
		n += len(f.Blocks)
	}

	return n
}
