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

package bam

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"strings"
)

// Marshal encodes the record into BAM wire format, including the
// leading block_size field.  Tag values are written using the widest
// matching type ('i' for integers), so Marshal(Decode(x)) is not
// byte-identical for narrower inputs, but decodes to the same record.
func (rec *Record) Marshal() ([]byte, error) {
	var body bytes.Buffer
	le := binary.LittleEndian

	var fixed [32]byte
	le.PutUint32(fixed[refIDOffset:], uint32(rec.ReferenceID))
	le.PutUint32(fixed[posOffset:], uint32(rec.Position))
	fixed[lReadNameOffset] = byte(len(rec.Name) + 1)
	fixed[mapqOffset] = rec.MappingQuality
	le.PutUint16(fixed[nCigarOpOffset:], uint16(len(rec.Cigar)))
	le.PutUint16(fixed[flagOffset:], rec.Flags)
	le.PutUint32(fixed[lSeqOffset:], uint32(len(rec.Sequence)))
	le.PutUint32(fixed[nextRefIDOffset:], uint32(rec.NextReferenceID))
	le.PutUint32(fixed[nextPosOffset:], uint32(rec.NextPosition))
	le.PutUint32(fixed[tlenOffset:], uint32(rec.TemplateLength))
	body.Write(fixed[:])

	if len(rec.Name) > 254 {
		return nil, fmt.Errorf("read name too long (%d bytes)", len(rec.Name))
	}
	body.WriteString(rec.Name)
	body.WriteByte(0)

	for _, op := range rec.Cigar {
		var buf [4]byte
		le.PutUint32(buf[:], uint32(op))
		body.Write(buf[:])
	}

	for i := 0; i < len(rec.Sequence); i += 2 {
		b := sequenceCode(rec.Sequence[i]) << 4
		if i+1 < len(rec.Sequence) {
			b |= sequenceCode(rec.Sequence[i+1])
		}
		body.WriteByte(b)
	}

	if len(rec.Qualities) != len(rec.Sequence) {
		return nil, fmt.Errorf("quality length %d does not match sequence length %d",
			len(rec.Qualities), len(rec.Sequence))
	}
	body.Write(rec.Qualities)

	for _, tag := range rec.Tags {
		if len(tag.Key) != 2 {
			return nil, fmt.Errorf("invalid tag key %q", tag.Key)
		}
		body.WriteString(tag.Key)
		if err := marshalTagValue(&body, tag.Value); err != nil {
			return nil, fmt.Errorf("tag %s: %v", tag.Key, err)
		}
	}

	out := make([]byte, 4+body.Len())
	le.PutUint32(out, uint32(body.Len()))
	copy(out[4:], body.Bytes())
	return out, nil
}

func sequenceCode(base byte) byte {
	if i := strings.IndexByte(sequenceCodes, base); i >= 0 {
		return byte(i)
	}
	return 15 // N
}

func marshalTagValue(body *bytes.Buffer, value interface{}) error {
	le := binary.LittleEndian
	switch v := value.(type) {
	case string:
		body.WriteByte('Z')
		body.WriteString(v)
		body.WriteByte(0)
	case int64:
		if v < math.MinInt32 || v > math.MaxInt32 {
			return fmt.Errorf("integer value %d out of range", v)
		}
		var buf [5]byte
		buf[0] = 'i'
		le.PutUint32(buf[1:], uint32(int32(v)))
		body.Write(buf[:])
	case float32:
		var buf [5]byte
		buf[0] = 'f'
		le.PutUint32(buf[1:], math.Float32bits(v))
		body.Write(buf[:])
	case []int64:
		var buf [6]byte
		buf[0] = 'B'
		buf[1] = 'i'
		le.PutUint32(buf[2:], uint32(len(v)))
		body.Write(buf[:])
		for _, n := range v {
			var e [4]byte
			le.PutUint32(e[:], uint32(int32(n)))
			body.Write(e[:])
		}
	case []float32:
		var buf [6]byte
		buf[0] = 'B'
		buf[1] = 'f'
		le.PutUint32(buf[2:], uint32(len(v)))
		body.Write(buf[:])
		for _, f := range v {
			var e [4]byte
			le.PutUint32(e[:], math.Float32bits(f))
			body.Write(e[:])
		}
	default:
		return fmt.Errorf("unsupported value type %T", value)
	}
	return nil
}
