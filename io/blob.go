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
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"strings"
	"sync"
	"time"

	"gocloud.dev/blob"
	"gocloud.dev/blob/memblob"
)

// KeyExtractor maps a location such as "s3://bucket/dir/file.parquet"
// to the key of the object inside its bucket.
type KeyExtractor func(location string) (string, error)

func defaultKeyExtractor(bucket string) KeyExtractor {
	return func(location string) (string, error) {
		_, after, found := strings.Cut(location, "://")
		if !found {
			return nonEmptyKey(location, strings.TrimPrefix(location, "/"))
		}

		key, ok := strings.CutPrefix(after, bucket+"/")
		if !ok {
			return "", fmt.Errorf("location %s is not in bucket %s", location, bucket)
		}

		return nonEmptyKey(location, key)
	}
}

// adlsKeyExtractor handles "abfs://container@account.dfs.core.windows.net/key"
// where the host names the account rather than the bucket.
func adlsKeyExtractor() KeyExtractor {
	return func(location string) (string, error) {
		_, after, found := strings.Cut(location, "://")
		if !found {
			return nonEmptyKey(location, strings.TrimPrefix(location, "/"))
		}

		_, key, _ := strings.Cut(after, "/")

		return nonEmptyKey(location, key)
	}
}

func nonEmptyKey(location, key string) (string, error) {
	if key == "" {
		return "", fmt.Errorf("location %s does not name an object", location)
	}

	return key, nil
}

var memBuckets = struct {
	sync.Mutex
	m map[string]*blob.Bucket
}{m: make(map[string]*blob.Bucket)}

// memBucket returns the process wide in-memory bucket with the given
// name so that separate loads of "mem://name" see the same objects.
func memBucket(name string) *blob.Bucket {
	memBuckets.Lock()
	defer memBuckets.Unlock()

	b, ok := memBuckets.m[name]
	if !ok {
		b = memblob.OpenBucket(nil)
		memBuckets.m[name] = b
	}

	return b
}

// blobOpenFile describes a single open blob as a File. Reads through
// ReadAt use their own range reader so the file can be shared by
// concurrent column chunk readers.
type blobOpenFile struct {
	*blob.Reader

	b    *blobFileIO
	key  string
	name string
}

func (f *blobOpenFile) ReadAt(p []byte, off int64) (int, error) {
	if off >= f.Size() {
		return 0, io.EOF
	}

	r, err := f.b.NewRangeReader(f.b.ctx, f.key, off, int64(len(p)), nil)
	if err != nil {
		return 0, err
	}
	defer r.Close()

	n, err := io.ReadFull(r, p)
	if errors.Is(err, io.ErrUnexpectedEOF) {
		err = io.EOF
	}

	return n, err
}

func (f *blobOpenFile) Name() string               { return f.name }
func (f *blobOpenFile) Mode() fs.FileMode          { return fs.ModeIrregular }
func (f *blobOpenFile) ModTime() time.Time         { return f.Reader.ModTime() }
func (f *blobOpenFile) Sys() interface{}           { return f.Reader }
func (f *blobOpenFile) IsDir() bool                { return false }
func (f *blobOpenFile) Stat() (fs.FileInfo, error) { return f, nil }

// blobFileIO is a WriteFileIO backed by a bucket in an object store.
type blobFileIO struct {
	*blob.Bucket

	ctx    context.Context
	keyFor KeyExtractor
}

func createBlobFileIO(ctx context.Context, bucket *blob.Bucket, keyFor KeyExtractor) *blobFileIO {
	return &blobFileIO{Bucket: bucket, ctx: context.WithoutCancel(ctx), keyFor: keyFor}
}

func (b *blobFileIO) Open(name string) (File, error) {
	key, err := b.keyFor(name)
	if err != nil {
		return nil, &fs.PathError{Op: "open", Path: name, Err: err}
	}

	r, err := b.NewReader(b.ctx, key, nil)
	if err != nil {
		return nil, &fs.PathError{Op: "open", Path: name, Err: err}
	}

	return &blobOpenFile{Reader: r, b: b, key: key, name: path.Base(key)}, nil
}

func (b *blobFileIO) Create(name string) (FileWriter, error) {
	key, err := b.keyFor(name)
	if err != nil {
		return nil, &fs.PathError{Op: "create", Path: name, Err: err}
	}

	w, err := b.NewWriter(b.ctx, key, nil)
	if err != nil {
		return nil, &fs.PathError{Op: "create", Path: name, Err: err}
	}

	return w, nil
}

func (b *blobFileIO) Remove(name string) error {
	key, err := b.keyFor(name)
	if err != nil {
		return &fs.PathError{Op: "remove", Path: name, Err: err}
	}

	return b.Delete(b.ctx, key)
}
