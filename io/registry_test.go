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
	"maps"
	"net/url"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func saveRegistry(t *testing.T) {
	t.Helper()

	regMutex.Lock()
	original := maps.Clone(defaultRegistry)
	regMutex.Unlock()

	t.Cleanup(func() {
		regMutex.Lock()
		defer regMutex.Unlock()
		defaultRegistry = original
	})
}

func TestRegister(t *testing.T) {
	saveRegistry(t)

	Register("test", func(context.Context, *url.URL, map[string]string) (IO, error) {
		return LocalFS{}, nil
	})
	assert.Contains(t, GetRegisteredSchemes(), "test")

	fsys, err := LoadFS(context.Background(), nil, "test://anything/at/all")
	require.NoError(t, err)
	assert.IsType(t, LocalFS{}, fsys)
}

func TestUnregister(t *testing.T) {
	saveRegistry(t)

	Register("test", func(context.Context, *url.URL, map[string]string) (IO, error) {
		return LocalFS{}, nil
	})
	assert.Contains(t, GetRegisteredSchemes(), "test")

	Unregister("test")
	assert.NotContains(t, GetRegisteredSchemes(), "test")

	_, err := LoadFS(context.Background(), nil, "test://bucket/key")
	assert.ErrorIs(t, err, ErrIONotFound)
}

func TestDefaultRegisteredSchemes(t *testing.T) {
	schemes := GetRegisteredSchemes()

	for _, expected := range []string{"", "file", "mem", "s3", "s3a", "s3n", "gs", "abfs", "abfss", "wasb", "wasbs", "azblob"} {
		assert.Contains(t, schemes, expected, "scheme %q should be registered", expected)
	}
	assert.IsIncreasing(t, schemes)
}

func TestLoadFSLocal(t *testing.T) {
	ctx := context.Background()

	fsys, err := LoadFS(ctx, map[string]string{}, "file:///tmp/test.parquet")
	require.NoError(t, err)
	assert.IsType(t, LocalFS{}, fsys)

	fsys, err = LoadFS(ctx, map[string]string{}, "/tmp/test.parquet")
	require.NoError(t, err)
	assert.IsType(t, LocalFS{}, fsys)

	fsys, err = LoadFS(ctx, map[string]string{}, "mem://bucket/path")
	require.NoError(t, err)
	assert.Implements(t, (*WriteFileIO)(nil), fsys)
}

func TestLoadFSUnknownScheme(t *testing.T) {
	_, err := LoadFS(context.Background(), map[string]string{}, "unknown://bucket/path")
	assert.ErrorIs(t, err, ErrIONotFound)
	assert.ErrorContains(t, err, "unknown")
}

func TestRegisterPanic(t *testing.T) {
	assert.Panics(t, func() {
		Register("test", nil)
	})
}

func TestConcurrentAccess(t *testing.T) {
	ctx := context.Background()

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()

			GetRegisteredSchemes()
			_, err := LoadFS(ctx, map[string]string{}, "file:///tmp")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
}
