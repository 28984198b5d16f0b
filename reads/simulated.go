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
	"context"
	"fmt"
	"time"

	"github.com/googlegenomics/ga4gh/protocol"
)

// SimulatedReadGroup is a read group that fabricates a fixed number of
// alignments.  It exists so that the server can be exercised without
// real sequencing data.
type SimulatedReadGroup struct {
	id      string
	count   int
	created int64
}

// NewSimulatedReadGroup returns a read group yielding count synthetic
// alignments for any queried region.
func NewSimulatedReadGroup(id string, count int) *SimulatedReadGroup {
	return &SimulatedReadGroup{
		id:      id,
		count:   count,
		created: time.Now().UnixNano() / int64(time.Millisecond),
	}
}

// NewSimulatedReadGroupSet returns a set holding one simulated read
// group identified as "{id}:one".
func NewSimulatedReadGroupSet(id string, count int) *ReadGroupSet {
	return NewReadGroupSet(id, NewSimulatedReadGroup(fmt.Sprintf("%s:one", id), count))
}

// ID returns the read group identifier.
func (rg *SimulatedReadGroup) ID() string { return rg.id }

// ToProtocol returns the protocol representation of the read group.
func (rg *SimulatedReadGroup) ToProtocol() protocol.ReadGroup {
	return protocol.ReadGroup{
		ID:      rg.id,
		Name:    rg.id,
		Created: rg.created,
		Updated: rg.created,
		Info:    map[string][]string{},
	}
}

// Alignments yields the group's synthetic alignments regardless of the
// queried region.
func (rg *SimulatedReadGroup) Alignments(_ context.Context, _ string, _, _ int64) *AlignmentIterator {
	i := 0
	return NewAlignmentIterator(func() (*protocol.ReadAlignment, error) {
		if i >= rg.count {
			return nil, nil
		}
		id := fmt.Sprintf("%s:simulated%d", rg.id, i)
		i++
		return &protocol.ReadAlignment{
			ID:              id,
			ReadGroupID:     rg.id,
			FragmentName:    id,
			FragmentLength:  3,
			AlignedSequence: "ACT",
			AlignedQuality:  []int32{1, 2, 3},
			Alignment: &protocol.LinearAlignment{
				Position: protocol.Position{
					ReferenceName: "simulated",
					Position:      0,
					Strand:        protocol.PosStrand,
				},
			},
			Info: map[string][]string{},
		}, nil
	})
}
