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

// Flags is a SAM-style alignment flag bitmask.
type Flags uint16

// The flag bits defined by the SAM specification that the converter
// inspects.
const (
	FlagMultipleSegments          Flags = 0x1
	FlagProperPlacement           Flags = 0x2
	FlagReadNumberOne             Flags = 0x40
	FlagReadNumberTwo             Flags = 0x80
	FlagSecondaryAlignment        Flags = 0x100
	FlagFailedVendorQualityChecks Flags = 0x200
	FlagDuplicateFragment         Flags = 0x400
	FlagSupplementaryAlignment    Flags = 0x800
)

// IsSet reports whether every bit of bit is set in flags.
func IsSet(flags, bit Flags) bool {
	return flags&bit == bit
}

// Set returns flags with bit set.  The input value is not modified.
func Set(flags, bit Flags) Flags {
	return flags | bit
}
