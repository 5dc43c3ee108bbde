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


package io

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultKeyExtractor(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expectedKey string
		shouldError bool
	}{
		{
			name:        "s3 URI with path",
			input:       "s3://my-bucket/path/to/file.parquet",
			expectedKey: "path/to/file.parquet",
		},
		{
			name:        "s3a URI with path",
			input:       "s3a://my-bucket/path/to/file.parquet",
			expectedKey: "path/to/file.parquet",
		},
		{
			name:        "gs URI with path",
			input:       "gs://my-bucket/path/to/file.parquet",
			expectedKey: "path/to/file.parquet",
		},
		{
			name:        "URI with query and fragment",
			input:       "s3://my-bucket/path/to/file.parquet?param=value#fragment",
			expectedKey: "path/to/file.parquet?param=value#fragment",
		},
		{
			name:        "bare key",
			input:       "/path/to/file.parquet",
			expectedKey: "path/to/file.parquet",
		},
		{
			name:        "URI with empty path",
			input:       "s3://my-bucket/",
			shouldError: true,
		},
		{
			name:        "other bucket",
			input:       "s3://other-bucket/file.parquet",
			shouldError: true,
		},
	}

	extractor := defaultKeyExtractor("my-bucket")
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			key, err := extractor(test.input)

			if test.shouldError {
				assert.Error(t, err, "expected error for input: %s", test.input)
			} else {
				assert.NoError(t, err, "unexpected error for input: %s", test.input)
				assert.Equal(t, test.expectedKey, key)
			}
		})
	}
}

func TestAdlsKeyExtractor(t *testing.T) {
	extractor := adlsKeyExtractor()

	key, err := extractor("abfs://container@account.dfs.core.windows.net/dir/file.parquet")
	require.NoError(t, err)
	assert.Equal(t, "dir/file.parquet", key)

	_, err = extractor("abfs://container@account.dfs.core.windows.net/")
	assert.Error(t, err)
}

func TestMemIO(t *testing.T) {
	ctx := context.Background()

	fsys, err := LoadFS(ctx, nil, "mem://blob-test/")
	require.NoError(t, err)

	writeIO, ok := fsys.(WriteFileIO)
	require.True(t, ok, "mem IO should implement WriteFileIO")

	w, err := writeIO.Create("mem://blob-test/dir/data.bin")
	require.NoError(t, err)
	_, err = w.Write([]byte("0123456789"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	// a second load of the same bucket sees the object
	again, err := LoadFS(ctx, nil, "mem://blob-test/dir/data.bin")
	require.NoError(t, err)

	f, err := again.Open("mem://blob-test/dir/data.bin")
	require.NoError(t, err)
	defer f.Close()

	info, err := f.Stat()
	require.NoError(t, err)
	assert.Equal(t, "data.bin", info.Name())
	assert.EqualValues(t, 10, info.Size())
	assert.False(t, info.IsDir())

	buf := make([]byte, 4)
	n, err := f.ReadAt(buf, 3)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, "3456", string(buf))

	n, err = f.ReadAt(buf, 8)
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, 2, n)
	assert.Equal(t, "89", string(buf[:n]))

	_, err = f.Seek(5, io.SeekStart)
	require.NoError(t, err)
	rest, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, "56789", string(rest))

	require.NoError(t, writeIO.Remove("mem://blob-test/dir/data.bin"))
	_, err = fsys.Open("mem://blob-test/dir/data.bin")
	assert.Error(t, err)
}
