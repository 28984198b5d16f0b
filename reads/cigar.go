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

	"github.com/googlegenomics/ga4gh/protocol"
)

// cigarOperations lists the protocol operation kinds in the order the
// BAM format assigns their numeric codes (MIDNSHP=X, SAM specification
// section 4.2).
var cigarOperations = [...]protocol.CigarOperation{
	protocol.AlignmentMatch,
	protocol.Insert,
	protocol.Delete,
	protocol.Skip,
	protocol.ClipSoft,
	protocol.ClipHard,
	protocol.Pad,
	protocol.SequenceMatch,
	protocol.SequenceMismatch,
}

var cigarCodes = map[protocol.CigarOperation]int{}

func init() {
	for code, op := range cigarOperations {
		cigarCodes[op] = code
	}
}

// CigarCodeError indicates a numeric CIGAR operation code outside the
// range defined by the BAM format.
type CigarCodeError struct {
	Code int
}

func (e *CigarCodeError) Error() string {
	return fmt.Sprintf("invalid CIGAR operation code %d", e.Code)
}

// CigarOperationError indicates a protocol CIGAR operation kind with no
// BAM numeric code.
type CigarOperationError struct {
	Operation protocol.CigarOperation
}

func (e *CigarOperationError) Error() string {
	return fmt.Sprintf("unknown CIGAR operation kind %q", e.Operation)
}

// CigarOperationFromCode returns the protocol operation kind for a
// numeric BAM CIGAR code.
func CigarOperationFromCode(code int) (protocol.CigarOperation, error) {
	if code < 0 || code >= len(cigarOperations) {
		return "", &CigarCodeError{Code: code}
	}
	return cigarOperations[code], nil
}

// CodeForCigarOperation returns the numeric BAM code for a protocol
// operation kind.
func CodeForCigarOperation(op protocol.CigarOperation) (int, error) {
	code, ok := cigarCodes[op]
	if !ok {
		return 0, &CigarOperationError{Operation: op}
	}
	return code, nil
}
