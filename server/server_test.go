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

package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/googlegenomics/ga4gh/protocol"
)

func testRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewServer(testBackend()).Export(router)
	return router
}

func postJSON(t *testing.T, router *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	encoded, err := json.Marshal(body)
	require.NoError(t, err, "failed to encode request body")

	req := httptest.NewRequest("POST", path, bytes.NewReader(encoded))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeException(t *testing.T, w *httptest.ResponseRecorder) protocol.GAException {
	t.Helper()
	var exception protocol.GAException
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &exception), "failed to decode exception")
	return exception
}

func TestServer_SearchReads(t *testing.T) {
	w := postJSON(t, testRouter(), "/reads/search", &protocol.SearchReadsRequest{
		ReadGroupIDs: []string{"alpha:one"},
	})
	require.Equal(t, http.StatusOK, w.Code, "wrong status: %s", w.Body)

	var response protocol.SearchReadsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Len(t, response.Alignments, 5)
	assert.Empty(t, response.NextPageToken)
}

func TestServer_SearchReads_Pagination(t *testing.T) {
	router := testRouter()

	w := postJSON(t, router, "/reads/search", &protocol.SearchReadsRequest{
		ReadGroupIDs: []string{"alpha:one"},
		PageSize:     3,
	})
	require.Equal(t, http.StatusOK, w.Code, "wrong status: %s", w.Body)

	var first protocol.SearchReadsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &first))
	require.Len(t, first.Alignments, 3)
	require.NotEmpty(t, first.NextPageToken)

	w = postJSON(t, router, "/reads/search", &protocol.SearchReadsRequest{
		ReadGroupIDs: []string{"alpha:one"},
		PageSize:     3,
		PageToken:    first.NextPageToken,
	})
	require.Equal(t, http.StatusOK, w.Code, "wrong status: %s", w.Body)

	var second protocol.SearchReadsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &second))
	assert.Len(t, second.Alignments, 2)
	assert.Empty(t, second.NextPageToken)
}

func TestServer_SearchReads_UnknownReadGroup(t *testing.T) {
	w := postJSON(t, testRouter(), "/reads/search", &protocol.SearchReadsRequest{
		ReadGroupIDs: []string{"gamma:one"},
	})
	assert.Equal(t, http.StatusNotFound, w.Code)

	exception := decodeException(t, w)
	assert.Equal(t, int32(http.StatusNotFound), exception.ErrorCode)
	assert.Contains(t, exception.Message, "NotFound")
}

func TestServer_SearchReads_WrongMediaType(t *testing.T) {
	req := httptest.NewRequest("POST", "/reads/search", strings.NewReader("readGroupIds=alpha"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	testRouter().ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
	exception := decodeException(t, w)
	assert.Equal(t, int32(http.StatusUnsupportedMediaType), exception.ErrorCode)
}

func TestServer_SearchReads_MalformedBody(t *testing.T) {
	req := httptest.NewRequest("POST", "/reads/search", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	testRouter().ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestServer_SearchReadGroupSets(t *testing.T) {
	w := postJSON(t, testRouter(), "/readgroupsets/search", &protocol.SearchReadGroupSetsRequest{})
	require.Equal(t, http.StatusOK, w.Code, "wrong status: %s", w.Body)

	var response protocol.SearchReadGroupSetsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Len(t, response.ReadGroupSets, 2)
	assert.Equal(t, "alpha", response.ReadGroupSets[0].ID)
	assert.Equal(t, "beta", response.ReadGroupSets[1].ID)
}

func TestServer_UnimplementedPaths(t *testing.T) {
	router := testRouter()
	for _, path := range []string{
		"/",
		"/references/chr1",
		"/references/chr1/bases",
		"/referencesets/set1",
		"/no/such/path",
	} {
		req := httptest.NewRequest("GET", path, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code, "path %s", path)
		exception := decodeException(t, w)
		assert.Equal(t, int32(http.StatusNotFound), exception.ErrorCode, "path %s", path)
	}
}

func TestServer_UnimplementedSearches(t *testing.T) {
	router := testRouter()
	for _, path := range []string{"/variantsets/search", "/variants/search"} {
		w := postJSON(t, router, path, &protocol.SearchVariantsRequest{})
		assert.Equal(t, http.StatusNotImplemented, w.Code, "path %s", path)

		exception := decodeException(t, w)
		assert.Equal(t, int32(http.StatusNotImplemented), exception.ErrorCode, "path %s", path)
	}
	for _, path := range []string{"/callsets/search", "/references/search", "/referencesets/search"} {
		w := postJSON(t, router, path, struct{}{})
		assert.Equal(t, http.StatusNotFound, w.Code, "path %s", path)
	}
}

func TestServer_VariantSearch_WrongMediaType(t *testing.T) {
	req := httptest.NewRequest("POST", "/variants/search", strings.NewReader("referenceName=chr1"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	testRouter().ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
	exception := decodeException(t, w)
	assert.Equal(t, int32(http.StatusUnsupportedMediaType), exception.ErrorCode)
}

func TestServer_VariantSearch_MalformedBody(t *testing.T) {
	req := httptest.NewRequest("POST", "/variants/search", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	testRouter().ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestServer_Options(t *testing.T) {
	router := testRouter()
	req := httptest.NewRequest("OPTIONS", "/reads/search", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "GET,POST,OPTIONS", w.Header().Get("Access-Control-Request-Methods"))
}

func TestServer_ForwardsOrigin(t *testing.T) {
	router := testRouter()

	req := httptest.NewRequest("OPTIONS", "/reads/search", nil)
	req.Header.Set("Origin", "https://example.com")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, "https://example.com", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "Content-Type", w.Header().Get("Access-Control-Allow-Headers"))

	req = httptest.NewRequest("OPTIONS", "/reads/search", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
