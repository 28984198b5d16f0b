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
	"context"
	"net/http"
	"testing"

	"github.com/googlegenomics/ga4gh/protocol"
	"github.com/googlegenomics/ga4gh/reads"
)

func testBackend() *Backend {
	return NewBackend(
		reads.NewSimulatedReadGroupSet("alpha", 5),
		reads.NewSimulatedReadGroupSet("beta", 3),
	)
}

func apiErrorCode(t *testing.T, err error) int {
	t.Helper()
	if err == nil {
		t.Fatal("Expected an error")
	}
	apiErr, ok := err.(*apiError)
	if !ok {
		t.Fatalf("Got %T (%v), want *apiError", err, err)
	}
	return apiErr.code
}

func TestSearchReads(t *testing.T) {
	response, err := testBackend().SearchReads(context.Background(), &protocol.SearchReadsRequest{
		ReadGroupIDs: []string{"alpha:one"},
	})
	if err != nil {
		t.Fatalf("SearchReads failed: %v", err)
	}
	if len(response.Alignments) != 5 {
		t.Fatalf("Wrong number of alignments: got %d, want 5", len(response.Alignments))
	}
	if response.NextPageToken != "" {
		t.Errorf("Unexpected page token %q", response.NextPageToken)
	}
	for i, alignment := range response.Alignments {
		if got, want := alignment.ReadGroupID, "alpha:one"; got != want {
			t.Errorf("Alignment %d: wrong read group %q, want %q", i, got, want)
		}
	}
}

func TestSearchReads_MultipleGroups(t *testing.T) {
	response, err := testBackend().SearchReads(context.Background(), &protocol.SearchReadsRequest{
		ReadGroupIDs: []string{"beta:one", "alpha:one"},
	})
	if err != nil {
		t.Fatalf("SearchReads failed: %v", err)
	}
	if len(response.Alignments) != 8 {
		t.Fatalf("Wrong number of alignments: got %d, want 8", len(response.Alignments))
	}
	// Groups are drained in request order.
	if got, want := response.Alignments[0].ReadGroupID, "beta:one"; got != want {
		t.Errorf("Wrong first read group: got %q, want %q", got, want)
	}
	if got, want := response.Alignments[7].ReadGroupID, "alpha:one"; got != want {
		t.Errorf("Wrong last read group: got %q, want %q", got, want)
	}
}

func TestSearchReads_Pagination(t *testing.T) {
	backend := testBackend()

	var (
		token string
		ids   []string
		pages int
	)
	for {
		response, err := backend.SearchReads(context.Background(), &protocol.SearchReadsRequest{
			ReadGroupIDs: []string{"alpha:one"},
			PageSize:     2,
			PageToken:    token,
		})
		if err != nil {
			t.Fatalf("SearchReads failed: %v", err)
		}
		for _, alignment := range response.Alignments {
			ids = append(ids, alignment.ID)
		}
		pages++
		if response.NextPageToken == "" {
			break
		}
		token = response.NextPageToken
	}

	if pages != 3 {
		t.Errorf("Wrong number of pages: got %d, want 3", pages)
	}
	if len(ids) != 5 {
		t.Fatalf("Wrong number of alignments: got %d, want 5", len(ids))
	}
	for i, id := range ids {
		for j := 0; j < i; j++ {
			if ids[j] == id {
				t.Errorf("Alignment %q appeared on more than one page", id)
			}
		}
	}
}

func TestSearchReads_Errors(t *testing.T) {
	testCases := []struct {
		name string
		req  *protocol.SearchReadsRequest
		code int
	}{
		{
			"no read groups",
			&protocol.SearchReadsRequest{},
			http.StatusBadRequest,
		},
		{
			"start past end",
			&protocol.SearchReadsRequest{ReadGroupIDs: []string{"alpha:one"}, Start: 100, End: 50},
			http.StatusBadRequest,
		},
		{
			"unknown read group",
			&protocol.SearchReadsRequest{ReadGroupIDs: []string{"gamma:one"}},
			http.StatusNotFound,
		},
		{
			"one unknown among known",
			&protocol.SearchReadsRequest{ReadGroupIDs: []string{"alpha:one", "gamma:one"}},
			http.StatusNotFound,
		},
		{
			"bad page token",
			&protocol.SearchReadsRequest{ReadGroupIDs: []string{"alpha:one"}, PageToken: "banana"},
			http.StatusBadRequest,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := testBackend().SearchReads(context.Background(), tc.req)
			if got := apiErrorCode(t, err); got != tc.code {
				t.Fatalf("Wrong error code: got %d, want %d", got, tc.code)
			}
		})
	}
}

func TestSearchReadGroupSets(t *testing.T) {
	response, err := testBackend().SearchReadGroupSets(context.Background(), &protocol.SearchReadGroupSetsRequest{})
	if err != nil {
		t.Fatalf("SearchReadGroupSets failed: %v", err)
	}
	if len(response.ReadGroupSets) != 2 {
		t.Fatalf("Wrong number of sets: got %d, want 2", len(response.ReadGroupSets))
	}
	if got, want := response.ReadGroupSets[0].ID, "alpha"; got != want {
		t.Errorf("Wrong first set: got %q, want %q", got, want)
	}
}

func TestSearchReadGroupSets_NameFilter(t *testing.T) {
	response, err := testBackend().SearchReadGroupSets(context.Background(), &protocol.SearchReadGroupSetsRequest{
		Name: "beta",
	})
	if err != nil {
		t.Fatalf("SearchReadGroupSets failed: %v", err)
	}
	if len(response.ReadGroupSets) != 1 {
		t.Fatalf("Wrong number of sets: got %d, want 1", len(response.ReadGroupSets))
	}
	if got, want := response.ReadGroupSets[0].ID, "beta"; got != want {
		t.Errorf("Wrong set: got %q, want %q", got, want)
	}
}

func TestSearchReadGroupSets_Pagination(t *testing.T) {
	backend := testBackend()

	first, err := backend.SearchReadGroupSets(context.Background(), &protocol.SearchReadGroupSetsRequest{
		PageSize: 1,
	})
	if err != nil {
		t.Fatalf("SearchReadGroupSets failed: %v", err)
	}
	if len(first.ReadGroupSets) != 1 || first.NextPageToken == "" {
		t.Fatalf("Wrong first page: %+v", first)
	}

	second, err := backend.SearchReadGroupSets(context.Background(), &protocol.SearchReadGroupSetsRequest{
		PageSize:  1,
		PageToken: first.NextPageToken,
	})
	if err != nil {
		t.Fatalf("SearchReadGroupSets failed: %v", err)
	}
	if len(second.ReadGroupSets) != 1 || second.NextPageToken != "" {
		t.Fatalf("Wrong second page: %+v", second)
	}
	if first.ReadGroupSets[0].ID == second.ReadGroupSets[0].ID {
		t.Errorf("Set %q appeared on both pages", first.ReadGroupSets[0].ID)
	}
}

func TestPageSize(t *testing.T) {
	testCases := []struct {
		requested, want int32
	}{
		{0, defaultPageSize},
		{-5, defaultPageSize},
		{10, 10},
		{maximumPageSize + 1, maximumPageSize},
	}
	for _, tc := range testCases {
		if got := pageSize(tc.requested); got != tc.want {
			t.Errorf("pageSize(%d) = %d, want %d", tc.requested, got, tc.want)
		}
	}
}
