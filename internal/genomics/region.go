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

// Package genomics contains definitions related to genomic data.
package genomics

import "fmt"

// AllMappedReads defines a Region that matches all mapped reads.
var AllMappedReads = Region{ReferenceID: -1}

// Region defines a region of genomic interest.
type Region struct {
	// ReferenceID specifies the reference to match.  If it is negative,
	// any reference matches the region.
	ReferenceID int32
	// Start and End specify the range (in base pairs) relative to the
	// reference.  If End is zero, it is treated as though it was set to
	// the last possible read position.
	Start, End uint32
}

// Overlaps reports whether a read placed at [start, end) on the
// reference identified by referenceID intersects the region.
func (region Region) Overlaps(referenceID int32, start, end uint32) bool {
	if region.ReferenceID >= 0 && referenceID != region.ReferenceID {
		return false
	}
	if region.End > 0 && start >= region.End {
		return false
	}
	return end > region.Start
}

func (region Region) String() string {
	return fmt.Sprintf("[region:%d, start:%d, end:%d]", region.ReferenceID, region.Start, region.End)
}
