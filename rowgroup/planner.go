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

package rowgroup

import (
	"context"
	"fmt"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/tablestats/rgfilter/stats"
	"golang.org/x/sync/errgroup"
)

const defaultMaxWorkers = 5

// Decision is the outcome of evaluating the filter against one block.
type Decision struct {
	Path     string `json:"path"`
	Ordinal  int    `json:"block"`
	RowCount uint64 `json:"rows"`
	Read     bool   `json:"read"`
}

func (d Decision) String() string {
	action := "skip"
	if d.Read {
		action = "read"
	}

	return fmt.Sprintf("%s#%d (%d rows): %s", d.Path, d.Ordinal, d.RowCount, action)
}

// Summary aggregates a list of decisions.
type Summary struct {
	Files       int    `json:"files"`
	Blocks      int    `json:"blocks"`
	BlocksRead  int    `json:"blocks_read"`
	RowsRead    uint64 `json:"rows_read"`
	RowsSkipped uint64 `json:"rows_skipped"`
}

func Summarize(decisions []Decision) Summary {
	var (
		s     Summary
		files = make(map[string]struct{})
	)

	for _, d := range decisions {
		files[d.Path] = struct{}{}
		s.Blocks++
		if d.Read {
			s.BlocksRead++
			s.RowsRead += d.RowCount
		} else {
			s.RowsSkipped += d.RowCount
		}
	}
	s.Files = len(files)

	return s
}

type plannerMetrics struct {
	blocksEvaluated *prometheus.CounterVec
	rowsSkipped     prometheus.Counter
}

func newPlannerMetrics(reg prometheus.Registerer) *plannerMetrics {
	return &plannerMetrics{
		blocksEvaluated: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: "rgfilter",
			Name:      "blocks_evaluated_total",
			Help:      "Total number of blocks the row group filter was evaluated against, by decision.",
		}, []string{"decision"}),
		rowsSkipped: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Namespace: "rgfilter",
			Name:      "rows_skipped_total",
			Help:      "Total number of rows in blocks that were skipped.",
		}),
	}
}

type plannerConfig struct {
	logger     log.Logger
	reg        prometheus.Registerer
	maxWorkers int
}

type PlannerOption func(*plannerConfig)

func WithLogger(logger log.Logger) PlannerOption {
	return func(c *plannerConfig) { c.logger = logger }
}

// WithRegisterer registers the planner counters with reg. Without it the
// counters are kept but not registered anywhere.
func WithRegisterer(reg prometheus.Registerer) PlannerOption {
	return func(c *plannerConfig) { c.reg = reg }
}

// WithMaxWorkers bounds the number of files evaluated concurrently.
func WithMaxWorkers(n int) PlannerOption {
	return func(c *plannerConfig) {
		if n > 0 {
			c.maxWorkers = n
		}
	}
}

// Planner evaluates a Filter against every block of a set of files.
type Planner struct {
	filter     *Filter
	logger     log.Logger
	maxWorkers int
	metrics    *plannerMetrics
}

func NewPlanner(filter *Filter, opts ...PlannerOption) *Planner {
	cfg := plannerConfig{logger: log.NewNopLogger(), maxWorkers: defaultMaxWorkers}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Planner{
		filter:     filter,
		logger:     cfg.logger,
		maxWorkers: cfg.maxWorkers,
		metrics:    newPlannerMetrics(cfg.reg),
	}
}

// Plan returns one decision per block, in the order of the files and of
// the blocks within each file.
func (p *Planner) Plan(ctx context.Context, files []stats.FileStats) ([]Decision, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	offsets, total := make([]int, len(files)), 0
	for i, f := range files {
		offsets[i] = total
		total += len(f.Blocks)
	}

	out := make([]Decision, total)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.maxWorkers)

	for i := range files {
		f := &files[i]
		g.Go(func() error {
			for j := range f.Blocks {
				if err := ctx.Err(); err != nil {
					return err
				}

				out[offsets[i]+j] = p.decide(f, &f.Blocks[j])
			}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return out, nil
}

func (p *Planner) decide(f *stats.FileStats, block *stats.BlockMetadata) Decision {
	read, err := p.filter.Evaluate(f.Schema, block)
	if err != nil {
		level.Warn(p.logger).Log("msg", "could not evaluate row group filter, reading block",
			"path", f.Path, "block", block.Ordinal, "err", err)
	}

	d := Decision{Path: f.Path, Ordinal: block.Ordinal, RowCount: block.RowCount, Read: read}
	if read {
		p.metrics.blocksEvaluated.WithLabelValues("read").Inc()
	} else {
		p.metrics.blocksEvaluated.WithLabelValues("skip").Inc()
		p.metrics.rowsSkipped.Add(float64(block.RowCount))
		level.Debug(p.logger).Log("msg", "skipping block", "path", f.Path,
			"block", block.Ordinal, "rows", block.RowCount)
	}

	return d
}
