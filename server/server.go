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

// Package server implements the GA4GH JSON-over-HTTP frontend.
//
// Search operations are accepted as JSON POST bodies and dispatched to
// a Backend.  Routes defined by the GA4GH schema but not served by this
// backend render protocol exceptions instead of HTML error pages.
package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/googlegenomics/ga4gh/analytics"
	"github.com/googlegenomics/ga4gh/protocol"
)

// Server routes GA4GH API requests to backend search operations.
// Must be created with NewServer.
type Server struct {
	backend *Backend
}

// NewServer returns a Server that serves data from backend.
func NewServer(backend *Backend) *Server {
	return &Server{backend: backend}
}

// Export registers the GA4GH API endpoints with router.
func (server *Server) Export(router *gin.Engine) {
	router.Use(forwardOrigin)

	router.GET("/", unimplementedPath)
	router.GET("/references/:id", unimplementedPath)
	router.GET("/references/:id/bases", unimplementedPath)
	router.GET("/referencesets/:id", unimplementedPath)

	for _, path := range []string{
		"/callsets/search",
		"/references/search",
		"/referencesets/search",
	} {
		router.POST(path, unimplementedPath)
		router.OPTIONS(path, handleOptions)
	}

	for _, route := range []struct {
		path    string
		handler gin.HandlerFunc
	}{
		{"/readgroupsets/search", server.searchReadGroupSets},
		{"/reads/search", server.searchReads},
	} {
		router.POST(route.path, route.handler)
		router.OPTIONS(route.path, handleOptions)
	}

	router.POST("/variants/search", unimplementedVariantSearch)
	router.OPTIONS("/variants/search", handleOptions)
	router.POST("/variantsets/search", unimplementedSearch)
	router.OPTIONS("/variantsets/search", handleOptions)

	router.NoRoute(unimplementedPath)
}

func (server *Server) searchReads(c *gin.Context) {
	ctx := c.Request.Context()

	track := analytics.TrackerFromContext(ctx)
	track(analytics.Event("Reads", "Reads Search Received", "", nil))

	var req protocol.SearchReadsRequest
	if err := bindJSON(c, &req); err != nil {
		writeError(c, err)
		return
	}

	response, err := server.backend.SearchReads(ctx, &req)
	if err != nil {
		track(analytics.Event("Reads", "Reads Search Error", "", nil))
		writeError(c, err)
		return
	}

	count := int64(len(response.Alignments))
	track(analytics.Event("Reads", "Reads Search Alignment Count", "", &count))
	c.JSON(http.StatusOK, response)
}

func (server *Server) searchReadGroupSets(c *gin.Context) {
	ctx := c.Request.Context()

	track := analytics.TrackerFromContext(ctx)
	track(analytics.Event("Reads", "Read Group Set Search Received", "", nil))

	var req protocol.SearchReadGroupSetsRequest
	if err := bindJSON(c, &req); err != nil {
		writeError(c, err)
		return
	}

	response, err := server.backend.SearchReadGroupSets(ctx, &req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response)
}

// bindJSON decodes a JSON request body, insisting on the JSON media
// type the way the protocol requires.
func bindJSON(c *gin.Context, v interface{}) error {
	if contentType := c.ContentType(); contentType != "application/json" {
		return newUnsupportedMediaTypeError(fmt.Errorf("unsupported media type %q", contentType))
	}
	if err := json.NewDecoder(c.Request.Body).Decode(v); err != nil {
		return newInvalidInputError("decoding request", err)
	}
	return nil
}

func unimplementedPath(c *gin.Context) {
	writeError(c, newPathNotFoundError(c.Request.URL.Path))
}

func unimplementedSearch(c *gin.Context) {
	writeError(c, newNotImplementedError(c.Request.URL.Path))
}

// unimplementedVariantSearch parses the request like a served search
// operation would, then rejects it: clients get media type and JSON
// errors before learning the operation is unavailable.
func unimplementedVariantSearch(c *gin.Context) {
	var req protocol.SearchVariantsRequest
	if err := bindJSON(c, &req); err != nil {
		writeError(c, err)
		return
	}
	writeError(c, newNotImplementedError(c.Request.URL.Path))
}

func handleOptions(c *gin.Context) {
	c.Header("Access-Control-Request-Methods", "GET,POST,OPTIONS")
	c.Status(http.StatusOK)
}

// forwardOrigin reflects the request origin so that browser clients on
// other origins can call the API.
func forwardOrigin(c *gin.Context) {
	if origin := c.GetHeader("Origin"); origin != "" {
		c.Header("Access-Control-Allow-Origin", origin)
		c.Header("Access-Control-Allow-Headers", "Content-Type")
	}
	c.Next()
}
