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

package reads

import (
	"fmt"

	"github.com/googlegenomics/ga4gh/internal/bam"
	"github.com/googlegenomics/ga4gh/protocol"
)

// ReferenceNamer resolves a reference sequence index to the name
// declared in the source file's reference table.
type ReferenceNamer interface {
	NameForReferenceIndex(index int32) (string, error)
}

// UnknownReferenceIDError indicates a reference sequence index that is
// absent from the source file's reference table.
type UnknownReferenceIDError struct {
	ID int32
}

func (e *UnknownReferenceIDError) Error() string {
	return fmt.Sprintf("unknown reference sequence index %d", e.ID)
}

// Convert translates a single raw alignment record into its protocol
// representation, owned by the read group identified by readGroupID.
//
// The conversion is pure: it depends only on the record, the read group
// ID and the reference table behind refs, and it is safe to call
// concurrently over independent records.
//
// Known incompleteness carried over from the reference implementation,
// kept deliberately: strand is always reported as the positive strand,
// CIGAR units never carry reference sequence text, tag values are
// flattened to strings and the read number derivation assumes
// templates of at most two segments.
func Convert(rec *bam.Record, readGroupID string, refs ReferenceNamer) (*protocol.ReadAlignment, error) {
	position, err := convertPosition(rec.ReferenceID, rec.Position, refs)
	if err != nil {
		return nil, err
	}

	cigar := make([]protocol.CigarUnit, len(rec.Cigar))
	for i, op := range rec.Cigar {
		operation, err := CigarOperationFromCode(op.Code())
		if err != nil {
			return nil, fmt.Errorf("converting CIGAR unit %d: %v", i, err)
		}
		cigar[i] = protocol.CigarUnit{
			Operation:       operation,
			OperationLength: int64(op.Length()),
		}
	}

	quality := make([]int32, len(rec.Qualities))
	for i, q := range rec.Qualities {
		quality[i] = int32(q)
	}

	info := make(map[string][]string, len(rec.Tags))
	for _, tag := range rec.Tags {
		info[tag.Key] = []string{fmt.Sprint(tag.Value)}
	}

	flags := Flags(rec.Flags)
	alignment := &protocol.ReadAlignment{
		ID:              fmt.Sprintf("%s:%s", readGroupID, rec.Name),
		ReadGroupID:     readGroupID,
		FragmentName:    rec.Name,
		FragmentLength:  rec.TemplateLength,
		AlignedSequence: rec.Sequence,
		AlignedQuality:  quality,
		Alignment: &protocol.LinearAlignment{
			Position:       *position,
			MappingQuality: int32(rec.MappingQuality),
			Cigar:          cigar,
		},
		ProperPlacement:           IsSet(flags, FlagProperPlacement),
		DuplicateFragment:         IsSet(flags, FlagDuplicateFragment),
		FailedVendorQualityChecks: IsSet(flags, FlagFailedVendorQualityChecks),
		SecondaryAlignment:        IsSet(flags, FlagSecondaryAlignment),
		SupplementaryAlignment:    IsSet(flags, FlagSupplementaryAlignment),
		Info:                      info,
	}

	if rec.NextReferenceID != -1 {
		mate, err := convertPosition(rec.NextReferenceID, rec.NextPosition, refs)
		if err != nil {
			return nil, err
		}
		alignment.NextMatePosition = mate
	}

	// The read number derivation below assumes exactly two segments per
	// template; reads split into more segments are not represented
	// faithfully.
	if IsSet(flags, FlagMultipleSegments) {
		numberReads := int32(2)
		alignment.NumberReads = &numberReads
		if IsSet(flags, FlagReadNumberOne) {
			readNumber := int32(0)
			alignment.ReadNumber = &readNumber
		} else if IsSet(flags, FlagReadNumberTwo) {
			readNumber := int32(1)
			alignment.ReadNumber = &readNumber
		}
	}

	return alignment, nil
}

func convertPosition(referenceID, position int32, refs ReferenceNamer) (*protocol.Position, error) {
	name, err := refs.NameForReferenceIndex(referenceID)
	if err != nil {
		return nil, err
	}
	return &protocol.Position{
		ReferenceName: name,
		Position:      int64(position),
		Strand:        protocol.PosStrand, // Strand is not derived from flags yet.
	}, nil
}
