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

package rowgroup_test

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/go-kit/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tablestats/rgfilter"
	"github.com/tablestats/rgfilter/rowgroup"
	"github.com/tablestats/rgfilter/stats"
)

// idBlock is a block of the id column holding the values lo..hi.
func idBlock(path string, ordinal int, lo, hi int32) stats.BlockMetadata {
	n := uint64(hi - lo + 1)

	return stats.BlockMetadata{
		Path: path, Ordinal: ordinal, RowCount: n,
		Columns: map[int]stats.ColumnMetrics{
			1: {ValueCount: n, HasNullCount: true, Min: rgfilter.Int32Literal(lo), Max: rgfilter.Int32Literal(hi)},
		},
	}
}

func plannerFiles(numFiles int) []stats.FileStats {
	files := make([]stats.FileStats, numFiles)
	for i := range files {
		path := fmt.Sprintf("data/%03d.parquet", i)
		files[i] = stats.FileStats{
			Path:   path,
			Schema: fileSchema,
			Blocks: []stats.BlockMetadata{
				idBlock(path, 0, 0, 9),
				idBlock(path, 1, 10, 19),
				idBlock(path, 2, 20, 29),
			},
		}
	}

	return files
}

func TestPlannerPreservesOrder(t *testing.T) {
	f, err := rowgroup.NewFilter(tableSchema, rgfilter.NewAnd(
		rgfilter.GreaterThanEqual(ref("id"), int32(12)),
		rgfilter.LessThan(ref("id"), int32(15))))
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	var logs bytes.Buffer
	p := rowgroup.NewPlanner(f,
		rowgroup.WithRegisterer(reg),
		rowgroup.WithLogger(log.NewLogfmtLogger(log.NewSyncWriter(&logs))),
		rowgroup.WithMaxWorkers(3))

	files := plannerFiles(10)
	decisions, err := p.Plan(context.Background(), files)
	require.NoError(t, err)
	require.Len(t, decisions, 30)

	for i, d := range decisions {
		assert.Equal(t, files[i/3].Path, d.Path)
		assert.Equal(t, i%3, d.Ordinal)
		assert.EqualValues(t, 10, d.RowCount)
		assert.Equal(t, i%3 == 1, d.Read, d.String())
	}

	assert.Equal(t, rowgroup.Summary{
		Files: 10, Blocks: 30, BlocksRead: 10, RowsRead: 100, RowsSkipped: 200,
	}, rowgroup.Summarize(decisions))

	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(`
# HELP rgfilter_blocks_evaluated_total Total number of blocks the row group filter was evaluated against, by decision.
# TYPE rgfilter_blocks_evaluated_total counter
rgfilter_blocks_evaluated_total{decision="read"} 10
rgfilter_blocks_evaluated_total{decision="skip"} 20
# HELP rgfilter_rows_skipped_total Total number of rows in blocks that were skipped.
# TYPE rgfilter_rows_skipped_total counter
rgfilter_rows_skipped_total 200
`)))

	assert.Contains(t, logs.String(), "msg=\"skipping block\"")
	assert.Contains(t, logs.String(), "path=data/007.parquet")
}

func TestPlannerCancelled(t *testing.T) {
	f, err := rowgroup.NewFilter(tableSchema, rgfilter.AlwaysTrue{})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = rowgroup.NewPlanner(f).Plan(ctx, plannerFiles(4))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPlannerEmpty(t *testing.T) {
	f, err := rowgroup.NewFilter(tableSchema, rgfilter.AlwaysTrue{})
	require.NoError(t, err)

	decisions, err := rowgroup.NewPlanner(f, rowgroup.WithMaxWorkers(0)).Plan(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, decisions)
	assert.Equal(t, rowgroup.Summary{}, rowgroup.Summarize(decisions))
}

func TestDecisionString(t *testing.T) {
	d := rowgroup.Decision{Path: "a.parquet", Ordinal: 2, RowCount: 100, Read: false}
	assert.Equal(t, "a.parquet#2 (100 rows): skip", d.String())

	d.Read = true
	assert.Equal(t, "a.parquet#2 (100 rows): read", d.String())
}
