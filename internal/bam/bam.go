// Copyright 2017 Google Inc.
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

// Package bam provides support for parsing BAM files.
package bam

import (
	"compress/gzip"
	"fmt"
	"io"

	"github.com/googlegenomics/ga4gh/internal/binary"
)

const (
	baiMagic = "BAI\x01"
	bamMagic = "BAM\x01"

	// This ID is used as a virtual bin ID for (unused) chunk metadata.
	metadataID = 37450

	// This is just to prevent arbitrarily long allocations due to malformed
	// data.  No reference name should be longer than this in practice.
	maximumNameLength = 1024

	// The maximum SAM header text length accepted before the input is
	// considered malformed.
	maximumHeaderLength = 1 << 26

	// The maximum read length as constrained by the size of the level zero bin
	// in the SAM specification, section 5.1.1.
	maximumReadLength = 1 << 29

	// The size of each tiling window from the linear index, as specified in the
	// SAM specification section 5.1.3.
	linearWindowSize = 1 << 14
)

// Reference is one entry of the reference sequence table stored in a
// BAM header.
type Reference struct {
	Name   string
	Length int32
}

// ReadHeader reads the header of the BAM archive in r and returns the
// embedded SAM header text and the reference sequence table.
func ReadHeader(r io.Reader) (string, []Reference, error) {
	bam, err := gzip.NewReader(r)
	if err != nil {
		return "", nil, fmt.Errorf("opening archive: %v", err)
	}

	if err := binary.ExpectBytes(bam, []byte(bamMagic)); err != nil {
		return "", nil, fmt.Errorf("reading magic: %v", err)
	}

	var length int32
	if err := binary.Read(bam, &length); err != nil {
		return "", nil, fmt.Errorf("reading SAM header length: %v", err)
	}
	if length < 0 || length > maximumHeaderLength {
		return "", nil, fmt.Errorf("invalid SAM header length (%d bytes)", length)
	}
	text := make([]byte, length)
	if _, err := io.ReadFull(bam, text); err != nil {
		return "", nil, fmt.Errorf("reading SAM header: %v", err)
	}

	var count int32
	if err := binary.Read(bam, &count); err != nil {
		return "", nil, fmt.Errorf("reading references count: %v", err)
	}
	if count < 0 {
		return "", nil, fmt.Errorf("invalid reference count (%d references)", count)
	}

	references := make([]Reference, 0, count)
	for i := int32(0); i < count; i++ {
		if err := binary.Read(bam, &length); err != nil {
			return "", nil, fmt.Errorf("reading name length: %v", err)
		}
		// The name length includes a null terminating character.
		if length < 1 || length > maximumNameLength {
			return "", nil, fmt.Errorf("invalid name length (%d bytes)", length)
		}
		name := make([]byte, length)
		if _, err := io.ReadFull(bam, name); err != nil {
			return "", nil, fmt.Errorf("reading name: %v", err)
		}
		var size int32
		if err := binary.Read(bam, &size); err != nil {
			return "", nil, fmt.Errorf("reading reference length: %v", err)
		}
		references = append(references, Reference{
			Name:   string(name[:length-1]),
			Length: size,
		})
	}
	return string(text), references, nil
}
