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

package protocol

// SearchReadsRequest asks for reads from a set of read groups that
// overlap a reference region.
type SearchReadsRequest struct {
	ReadGroupIDs  []string `json:"readGroupIds"`
	ReferenceName string   `json:"referenceName"`
	Start         int64    `json:"start"`
	End           int64    `json:"end"`
	PageSize      int32    `json:"pageSize"`
	PageToken     string   `json:"pageToken"`
}

// SearchReadsResponse carries one page of matching alignments.
type SearchReadsResponse struct {
	Alignments    []*ReadAlignment `json:"alignments"`
	NextPageToken string           `json:"nextPageToken"`
}

// SearchReadGroupSetsRequest asks for read group sets, optionally
// filtered by exact name.
type SearchReadGroupSetsRequest struct {
	DatasetIDs []string `json:"datasetIds"`
	Name       string   `json:"name"`
	PageSize   int32    `json:"pageSize"`
	PageToken  string   `json:"pageToken"`
}

// SearchReadGroupSetsResponse carries one page of read group sets.
type SearchReadGroupSetsResponse struct {
	ReadGroupSets []ReadGroupSet `json:"readGroupSets"`
	NextPageToken string         `json:"nextPageToken"`
}

// SearchVariantsRequest is parsed by the variant search route, which
// always responds that the operation is not implemented.
type SearchVariantsRequest struct {
	VariantSetIDs []string `json:"variantSetIds"`
	ReferenceName string   `json:"referenceName"`
	Start         int64    `json:"start"`
	End           int64    `json:"end"`
	PageSize      int32    `json:"pageSize"`
	PageToken     string   `json:"pageToken"`
}
