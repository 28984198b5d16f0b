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
	"errors"
	"fmt"
	"strconv"

	"github.com/googlegenomics/ga4gh/protocol"
	"github.com/googlegenomics/ga4gh/reads"
)

const (
	defaultPageSize = 256
	maximumPageSize = 2048
)

// Backend executes search operations over a set of read group sets.
type Backend struct {
	sets []*reads.ReadGroupSet
}

// NewBackend returns a backend serving the provided read group sets.
func NewBackend(sets ...*reads.ReadGroupSet) *Backend {
	return &Backend{sets: sets}
}

// AddReadGroupSet adds a read group set to the backend.
func (b *Backend) AddReadGroupSet(set *reads.ReadGroupSet) {
	b.sets = append(b.sets, set)
}

func (b *Backend) readGroup(id string) (reads.ReadGroup, bool) {
	for _, set := range b.sets {
		for _, rg := range set.ReadGroups() {
			if rg.ID() == id {
				return rg, true
			}
		}
	}
	return nil, false
}

// SearchReadGroupSets returns the read group sets matching the request,
// optionally filtered by exact set ID.
func (b *Backend) SearchReadGroupSets(_ context.Context, req *protocol.SearchReadGroupSetsRequest) (*protocol.SearchReadGroupSetsResponse, error) {
	skip, err := parsePageToken(req.PageToken)
	if err != nil {
		return nil, newInvalidInputError("parsing page token", err)
	}
	limit := pageSize(req.PageSize)

	response := &protocol.SearchReadGroupSetsResponse{
		ReadGroupSets: []protocol.ReadGroupSet{},
	}
	seen := 0
	for _, set := range b.sets {
		if req.Name != "" && req.Name != set.ID() {
			continue
		}
		if seen++; seen <= skip {
			continue
		}
		if len(response.ReadGroupSets) == int(limit) {
			response.NextPageToken = strconv.Itoa(seen - 1)
			break
		}
		response.ReadGroupSets = append(response.ReadGroupSets, set.ToProtocol())
	}
	return response, nil
}

// SearchReads returns one page of alignments from the requested read
// groups that overlap the requested region.  Alignments are emitted in
// the order the underlying readers yield them, read group by read
// group.
func (b *Backend) SearchReads(ctx context.Context, req *protocol.SearchReadsRequest) (*protocol.SearchReadsResponse, error) {
	if len(req.ReadGroupIDs) == 0 {
		return nil, newInvalidInputError("validating request", errors.New("no read group IDs specified"))
	}
	if req.End > 0 && req.Start > req.End {
		return nil, newInvalidInputError("validating request",
			fmt.Errorf("start %d is past end %d", req.Start, req.End))
	}

	groups := make([]reads.ReadGroup, 0, len(req.ReadGroupIDs))
	for _, id := range req.ReadGroupIDs {
		rg, ok := b.readGroup(id)
		if !ok {
			return nil, newNotFoundError("resolving read group", fmt.Errorf("no read group with ID %q", id))
		}
		groups = append(groups, rg)
	}

	skip, err := parsePageToken(req.PageToken)
	if err != nil {
		return nil, newInvalidInputError("parsing page token", err)
	}
	limit := pageSize(req.PageSize)

	response := &protocol.SearchReadsResponse{
		Alignments: []*protocol.ReadAlignment{},
	}
	seen := 0
	for _, rg := range groups {
		it := rg.Alignments(ctx, req.ReferenceName, req.Start, req.End)
		for it.Next() {
			if seen++; seen <= skip {
				continue
			}
			if len(response.Alignments) == int(limit) {
				response.NextPageToken = strconv.Itoa(seen - 1)
				return response, nil
			}
			response.Alignments = append(response.Alignments, it.Alignment())
		}
		if err := it.Err(); err != nil {
			return nil, newSearchError("searching reads", err)
		}
	}
	return response, nil
}

func pageSize(requested int32) int32 {
	switch {
	case requested <= 0:
		return defaultPageSize
	case requested > maximumPageSize:
		return maximumPageSize
	}
	return requested
}

func parsePageToken(token string) (int, error) {
	if token == "" {
		return 0, nil
	}
	skip, err := strconv.Atoi(token)
	if err != nil || skip < 0 {
		return 0, fmt.Errorf("malformed page token %q", token)
	}
	return skip, nil
}
