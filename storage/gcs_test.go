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
	"net/http/httptest"
	"testing"
)

func TestNewClientFromBearerToken(t *testing.T) {
	req := httptest.NewRequest("POST", "/reads/search", nil)
	req.Header.Set("Authorization", "Bearer token123")

	client, headers, err := NewClientFromBearerToken(req)
	if err != nil {
		t.Fatalf("NewClientFromBearerToken failed: %v", err)
	}
	if client == nil {
		t.Fatal("NewClientFromBearerToken returned a nil client")
	}
	if got, want := headers.Get("Authorization"), "Bearer token123"; got != want {
		t.Errorf("Wrong forwarded authorization: got %q, want %q", got, want)
	}
}

func TestNewClientFromBearerToken_MissingOrMalformed(t *testing.T) {
	testCases := []struct {
		name          string
		authorization string
	}{
		{"no header", ""},
		{"wrong scheme", "Basic dXNlcjpwYXNz"},
		{"missing token", "Bearer"},
		{"extra fields", "Bearer token with spaces"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/reads/search", nil)
			if tc.authorization != "" {
				req.Header.Set("Authorization", tc.authorization)
			}

			if _, _, err := NewClientFromBearerToken(req); err != ErrMissingOrInvalidToken {
				t.Fatalf("NewClientFromBearerToken returned %v, want ErrMissingOrInvalidToken", err)
			}
		})
	}
}
