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

// Package reads translates alignment data into GA4GH protocol objects.
//
// A ReadGroupSet owns one ReadGroup per source object.  Read groups
// yield alignments for a genomic region through an AlignmentIterator;
// each raw record is converted independently by Convert.
package reads

import (
	"context"

	"github.com/googlegenomics/ga4gh/protocol"
)

// ReadGroup is all the data processed the same way by the sequencer.
// There are typically 1-10 read groups in a read group set.
type ReadGroup interface {
	// ID returns the read group identifier.
	ID() string

	// ToProtocol returns the protocol representation of the read group.
	ToProtocol() protocol.ReadGroup

	// Alignments returns an iterator over the alignments that overlap
	// the region [start, end) on the named reference.  An empty
	// reference name matches all mapped reads.  The iterator must be
	// consumed from a single goroutine.
	Alignments(ctx context.Context, referenceName string, start, end int64) *AlignmentIterator
}

// AlignmentIterator is a single-consumer, non-restartable iterator over
// converted alignments.  Callers must check Err after Next returns
// false to distinguish normal exhaustion from an aborted sequence.
type AlignmentIterator struct {
	next    func() (*protocol.ReadAlignment, error)
	current *protocol.ReadAlignment
	err     error
	done    bool
}

// NewAlignmentIterator returns an iterator that pulls alignments from
// next.  A (nil, nil) return from next ends the iteration.
func NewAlignmentIterator(next func() (*protocol.ReadAlignment, error)) *AlignmentIterator {
	return &AlignmentIterator{next: next}
}

// ErrorIterator returns an iterator that fails immediately with err.
func ErrorIterator(err error) *AlignmentIterator {
	return &AlignmentIterator{err: err, done: true}
}

// Next advances the iterator.  It returns false when the sequence is
// exhausted or an error occurred.
func (it *AlignmentIterator) Next() bool {
	if it.done {
		return false
	}
	alignment, err := it.next()
	if err != nil {
		it.err = err
		it.done = true
		return false
	}
	if alignment == nil {
		it.done = true
		return false
	}
	it.current = alignment
	return true
}

// Alignment returns the alignment read by the last successful call to
// Next.
func (it *AlignmentIterator) Alignment() *protocol.ReadAlignment { return it.current }

// Err returns the error that aborted the iteration, if any.
func (it *AlignmentIterator) Err() error { return it.err }
