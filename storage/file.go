// Copyright 2018 Google Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package storage

import (
	"context"
	"io"
	"io/ioutil"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// FileClient is a Client backed by a local directory tree.  Buckets map
// to directories directly under the root and objects to files inside
// them.
type FileClient struct {
	root string
}

// NewFileClient returns a Client that serves objects from directories
// under root.
func NewFileClient(root string) FileClient {
	return FileClient{root: root}
}

// NewLocalClientFunc adapts a FileClient to the NewClientFunc shape
// used by the server.
func NewLocalClientFunc(root string) NewClientFunc {
	return func(_ *http.Request) (Client, http.Header, error) {
		return NewFileClient(root), nil, nil
	}
}

// NewObjectHandle returns a handle to a specified object in the
// storage engine.
func (c FileClient) NewObjectHandle(bucket, object string) ObjectHandle {
	return fileObjectHandle{path: filepath.Join(c.root, bucket, object)}
}

// ListObjects returns the names of the regular files in bucket that
// start with prefix.
func (c FileClient) ListObjects(_ context.Context, bucket, prefix string) ([]string, error) {
	entries, err := ioutil.ReadDir(filepath.Join(c.root, bucket))
	if err != nil {
		return nil, err
	}
	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.HasPrefix(entry.Name(), prefix) {
			names = append(names, entry.Name())
		}
	}
	return names, nil
}

type fileObjectHandle struct {
	path string
}

func (h fileObjectHandle) NewRangeReader(_ context.Context, offset, length int64) (io.ReadCloser, error) {
	f, err := os.Open(h.path)
	if err != nil {
		return nil, err
	}
	if _, err := f.Seek(offset, io.SeekStart); err != nil {
		f.Close()
		return nil, err
	}
	if length < 0 {
		return f, nil
	}
	return &limitedReadCloser{Reader: io.LimitReader(f, length), file: f}, nil
}

type limitedReadCloser struct {
	io.Reader
	file *os.File
}

func (r *limitedReadCloser) Close() error {
	return r.file.Close()
}
