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

// Package protocol defines the GA4GH wire objects served by this
// repository.
//
// The field set follows the GA4GH reads schema:
// https://github.com/ga4gh/schemas.  Nullable schema fields are
// represented as pointers so that JSON output distinguishes "absent"
// from zero values.
package protocol

// Strand indicates the DNA strand an alignment refers to.
type Strand string

const (
	StrandUnspecified Strand = "STRAND_UNSPECIFIED"
	PosStrand         Strand = "POS_STRAND"
	NegStrand         Strand = "NEG_STRAND"
)

// CigarOperation describes a single kind of CIGAR edit operation.
type CigarOperation string

const (
	AlignmentMatch   CigarOperation = "ALIGNMENT_MATCH"
	Insert           CigarOperation = "INSERT"
	Delete           CigarOperation = "DELETE"
	Skip             CigarOperation = "SKIP"
	ClipSoft         CigarOperation = "CLIP_SOFT"
	ClipHard         CigarOperation = "CLIP_HARD"
	Pad              CigarOperation = "PAD"
	SequenceMatch    CigarOperation = "SEQUENCE_MATCH"
	SequenceMismatch CigarOperation = "SEQUENCE_MISMATCH"
)

// CigarUnit is a single CIGAR operation together with its length.
type CigarUnit struct {
	Operation       CigarOperation `json:"operation"`
	OperationLength int64          `json:"operationLength"`
	// ReferenceSequence is the reference text matched by this unit.  It
	// is never populated by the current converter.
	ReferenceSequence *string `json:"referenceSequence"`
}

// Position is a 0-based location on a named reference sequence.
type Position struct {
	ReferenceName string `json:"referenceName"`
	Position      int64  `json:"position"`
	Strand        Strand `json:"strand"`
}

// LinearAlignment describes the placement of a read against a single
// reference sequence.
type LinearAlignment struct {
	Position       Position    `json:"position"`
	MappingQuality int32       `json:"mappingQuality"`
	Cigar          []CigarUnit `json:"cigar"`
}

// ReadAlignment is one aligned (or unaligned) read.
type ReadAlignment struct {
	ID                        string              `json:"id"`
	ReadGroupID               string              `json:"readGroupId"`
	FragmentName              string              `json:"fragmentName"`
	FragmentLength            int32               `json:"fragmentLength"`
	ProperPlacement           bool                `json:"properPlacement"`
	DuplicateFragment         bool                `json:"duplicateFragment"`
	FailedVendorQualityChecks bool                `json:"failedVendorQualityChecks"`
	SecondaryAlignment        bool                `json:"secondaryAlignment"`
	SupplementaryAlignment    bool                `json:"supplementaryAlignment"`
	NumberReads               *int32              `json:"numberReads"`
	ReadNumber                *int32              `json:"readNumber"`
	Alignment                 *LinearAlignment    `json:"alignment"`
	NextMatePosition          *Position           `json:"nextMatePosition"`
	AlignedSequence           string              `json:"alignedSequence"`
	AlignedQuality            []int32             `json:"alignedQuality"`
	Info                      map[string][]string `json:"info"`
}

// Program describes one entry of the processing chain recorded in a
// read group's header.
type Program struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	CommandLine   string `json:"commandLine"`
	Version       string `json:"version"`
	PrevProgramID string `json:"prevProgramId"`
}

// ReadGroup is the protocol view of one read group.
type ReadGroup struct {
	ID                  string              `json:"id"`
	Name                string              `json:"name"`
	DatasetID           *string             `json:"datasetId"`
	Description         *string             `json:"description"`
	SampleID            *string             `json:"sampleId"`
	PredictedInsertSize *int32              `json:"predictedInsertSize"`
	Created             int64               `json:"created"`
	Updated             int64               `json:"updated"`
	Programs            []Program           `json:"programs"`
	ReferenceSetID      *string             `json:"referenceSetId"`
	Info                map[string][]string `json:"info"`
}

// ReadGroupSet is the protocol view of a collection of read groups.
type ReadGroupSet struct {
	ID         string      `json:"id"`
	Name       *string     `json:"name"`
	DatasetID  *string     `json:"datasetId"`
	ReadGroups []ReadGroup `json:"readGroups"`
}

// GAException is the error body returned for failed API calls.
type GAException struct {
	ErrorCode int32  `json:"errorCode"`
	Message   string `json:"message"`
}
