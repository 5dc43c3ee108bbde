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


// Package io is the storage layer used to reach parquet files and
// statistics indexes. Implementations are chosen from the scheme of a
// location through a registry, so that "s3://bucket/key", "gs://..." and
// plain local paths are all opened the same way.
package io

import (
	"context"
	"errors"
	"io"
	"io/fs"
)

var ErrIONotFound = errors.New("io scheme not registered")

// IO is an interface to a storage backend which can open files for
// reading.
type IO interface {
	// Open opens the named file.
	//
	// When Open returns an error, it should be of type *PathError
	// with the Op field set to "open", the Path field set to name,
	// and the Err field describing the problem.
	Open(name string) (File, error)
}

// WriteFileIO is an IO which can also create and remove files.
type WriteFileIO interface {
	IO

	// Create creates (or truncates) the named file. The file is only
	// guaranteed to be visible to readers once the writer is closed.
	Create(name string) (FileWriter, error)
	Remove(name string) error
}

// A File provides access to a single file. The parquet reader needs
// random access to the footer so ReaderAt and Seeker are both required.
type File interface {
	io.ReadSeekCloser
	io.ReaderAt

	Stat() (fs.FileInfo, error)
}

// A FileWriter is an open file being written. Close publishes it.
type FileWriter interface {
	io.WriteCloser
}

// LoadFS returns the IO implementation registered for the scheme of
// location, configured with props. An empty scheme resolves to the
// local file system.
func LoadFS(ctx context.Context, props map[string]string, location string) (IO, error) {
	return inferFileIOFromScheme(ctx, location, props)
}
