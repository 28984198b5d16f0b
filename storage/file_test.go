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
	"io/ioutil"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func fileTestClient(t *testing.T) (FileClient, func()) {
	t.Helper()

	dir, err := ioutil.TempDir("", "storage")
	if err != nil {
		t.Fatalf("Failed to create temporary directory: %v", err)
	}
	if err := os.MkdirAll(filepath.Join(dir, "bucket", "subdir"), 0755); err != nil {
		t.Fatalf("Failed to create bucket: %v", err)
	}
	files := map[string]string{
		"sample.bam":     "0123456789",
		"sample.bam.bai": "index",
		"other.txt":      "text",
	}
	for name, content := range files {
		if err := ioutil.WriteFile(filepath.Join(dir, "bucket", name), []byte(content), 0644); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
	}
	return NewFileClient(dir), func() { os.RemoveAll(dir) }
}

func TestFileClient_NewRangeReader(t *testing.T) {
	client, cleanup := fileTestClient(t)
	defer cleanup()

	testCases := []struct {
		name           string
		offset, length int64
		want           string
	}{
		{"whole object", 0, -1, "0123456789"},
		{"offset to end", 4, -1, "456789"},
		{"offset and length", 2, 3, "234"},
		{"length past end", 8, 100, "89"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r, err := client.NewObjectHandle("bucket", "sample.bam").NewRangeReader(context.Background(), tc.offset, tc.length)
			if err != nil {
				t.Fatalf("NewRangeReader failed: %v", err)
			}
			defer r.Close()

			got, err := ioutil.ReadAll(r)
			if err != nil {
				t.Fatalf("Read failed: %v", err)
			}
			if string(got) != tc.want {
				t.Fatalf("Wrong data: got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestFileClient_NewRangeReader_MissingObject(t *testing.T) {
	client, cleanup := fileTestClient(t)
	defer cleanup()

	_, err := client.NewObjectHandle("bucket", "missing.bam").NewRangeReader(context.Background(), 0, -1)
	if !os.IsNotExist(err) {
		t.Errorf("NewRangeReader returned %v, want a not-exist error", err)
	}
}

func TestFileClient_ListObjects(t *testing.T) {
	client, cleanup := fileTestClient(t)
	defer cleanup()

	names, err := client.ListObjects(context.Background(), "bucket", "")
	if err != nil {
		t.Fatalf("ListObjects failed: %v", err)
	}
	want := []string{"other.txt", "sample.bam", "sample.bam.bai"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("Wrong objects: got %v, want %v", names, want)
	}

	names, err = client.ListObjects(context.Background(), "bucket", "sample")
	if err != nil {
		t.Fatalf("ListObjects failed: %v", err)
	}
	want = []string{"sample.bam", "sample.bam.bai"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("Wrong objects: got %v, want %v", names, want)
	}
}

func TestNewLocalClientFunc(t *testing.T) {
	dir, err := ioutil.TempDir("", "storage")
	if err != nil {
		t.Fatalf("Failed to create temporary directory: %v", err)
	}
	defer os.RemoveAll(dir)
	if err := os.MkdirAll(filepath.Join(dir, "bucket"), 0755); err != nil {
		t.Fatalf("Failed to create bucket: %v", err)
	}
	if err := ioutil.WriteFile(filepath.Join(dir, "bucket", "sample.bam"), []byte("x"), 0644); err != nil {
		t.Fatalf("Failed to write object: %v", err)
	}

	newClient := NewLocalClientFunc(dir)
	client, headers, err := newClient(nil)
	if err != nil {
		t.Fatalf("Client construction failed: %v", err)
	}
	if headers != nil {
		t.Errorf("Unexpected forwarded headers: %v", headers)
	}

	names, err := client.ListObjects(context.Background(), "bucket", "")
	if err != nil {
		t.Fatalf("ListObjects failed: %v", err)
	}
	want := []string{"sample.bam"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("Wrong objects: got %v, want %v", names, want)
	}
}

func TestFileClient_ListObjects_MissingBucket(t *testing.T) {
	client, cleanup := fileTestClient(t)
	defer cleanup()

	if _, err := client.ListObjects(context.Background(), "missing", ""); err == nil {
		t.Error("ListObjects succeeded on a missing bucket")
	}
}
