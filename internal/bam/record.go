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
)

// The fixed portion of an alignment record, after the block_size field.
// See the SAM specification, section 4.2.
const (
	refIDOffset     = 0
	posOffset       = 4
	lReadNameOffset = 8
	mapqOffset      = 9
	nCigarOpOffset  = 12
	flagOffset      = 14
	lSeqOffset      = 16
	nextRefIDOffset = 20
	nextPosOffset   = 24
	tlenOffset      = 28
	readNameOffset  = 32
)

// Bases used to decode the 4-bit encoded query sequence.
const sequenceCodes = "=ACMGRSVTWYHKDBN"

// CigarOp is a single BAM-encoded CIGAR operation: the length in the
// upper 28 bits and the operation code in the lower 4 bits.
type CigarOp uint32

// NewCigarOp returns a CigarOp with the given code and length.
func NewCigarOp(code int, length int32) CigarOp {
	return CigarOp(uint32(length)<<4 | uint32(code)&0xf)
}

// Code returns the numeric operation code in [0, 15].
func (op CigarOp) Code() int { return int(op & 0xf) }

// Length returns the number of bases the operation covers.
func (op CigarOp) Length() int32 { return int32(op >> 4) }

// Codes that consume reference bases (M, D, N, = and X).
var consumesReference = [16]int32{0: 1, 2: 1, 3: 1, 7: 1, 8: 1}

// Tag is one optional field of an alignment record.  Value holds a
// string, an int64, a float32 or a numeric slice depending on the tag
// type in the source file.
type Tag struct {
	Key   string
	Value interface{}
}

// Record is a single alignment record as stored in a BAM file.
// Positions are 0-based and reference indexes of -1 mean "unmapped".
type Record struct {
	ReferenceID     int32
	Position        int32
	MappingQuality  uint8
	Flags           uint16
	NextReferenceID int32
	NextPosition    int32
	TemplateLength  int32
	Name            string
	Cigar           []CigarOp
	Sequence        string
	Qualities       []uint8
	Tags            []Tag
}

// ReferenceEnd returns the 0-based position one past the last reference
// base covered by the record's CIGAR.  Records that consume no
// reference bases are treated as covering a single position so that
// overlap tests remain meaningful.
func (rec *Record) ReferenceEnd() int32 {
	end := rec.Position
	for _, op := range rec.Cigar {
		end += consumesReference[op.Code()] * op.Length()
	}
	if end == rec.Position {
		end++
	}
	return end
}

// DecodeRecord decodes a single alignment record from the start of
// data and returns it along with the number of bytes consumed.  An
// empty input yields (nil, 0, nil); a truncated or malformed record
// yields an error.
func DecodeRecord(data []byte) (*Record, int, error) {
	if len(data) == 0 {
		return nil, 0, nil
	}
	if len(data) < 4 {
		return nil, 0, fmt.Errorf("truncated block size (%d bytes)", len(data))
	}
	size := int32(binary.LittleEndian.Uint32(data))
	if size < readNameOffset {
		return nil, 0, fmt.Errorf("invalid record size (%d bytes)", size)
	}
	if len(data) < 4+int(size) {
		return nil, 0, fmt.Errorf("truncated record (%d of %d bytes)", len(data)-4, size)
	}
	body := data[4 : 4+int(size)]

	rec := &Record{
		ReferenceID:     int32(binary.LittleEndian.Uint32(body[refIDOffset:])),
		Position:        int32(binary.LittleEndian.Uint32(body[posOffset:])),
		MappingQuality:  body[mapqOffset],
		Flags:           binary.LittleEndian.Uint16(body[flagOffset:]),
		NextReferenceID: int32(binary.LittleEndian.Uint32(body[nextRefIDOffset:])),
		NextPosition:    int32(binary.LittleEndian.Uint32(body[nextPosOffset:])),
		TemplateLength:  int32(binary.LittleEndian.Uint32(body[tlenOffset:])),
	}

	var (
		lReadName = int(body[lReadNameOffset])
		nCigarOp  = int(binary.LittleEndian.Uint16(body[nCigarOpOffset:]))
		lSeq      = int(int32(binary.LittleEndian.Uint32(body[lSeqOffset:])))
	)
	if lReadName < 1 || lSeq < 0 {
		return nil, 0, fmt.Errorf("invalid name or sequence length")
	}

	index := readNameOffset
	if index+lReadName > len(body) {
		return nil, 0, fmt.Errorf("truncated read name")
	}
	rec.Name = string(body[index : index+lReadName-1])
	index += lReadName

	if index+4*nCigarOp > len(body) {
		return nil, 0, fmt.Errorf("truncated CIGAR")
	}
	rec.Cigar = make([]CigarOp, nCigarOp)
	for i := 0; i < nCigarOp; i, index = i+1, index+4 {
		rec.Cigar[i] = CigarOp(binary.LittleEndian.Uint32(body[index:]))
	}

	packed := (lSeq + 1) / 2
	if index+packed+lSeq > len(body) {
		return nil, 0, fmt.Errorf("truncated sequence data")
	}
	seq := make([]byte, lSeq)
	for i := 0; i < lSeq; i++ {
		b := body[index+i/2]
		if i%2 == 0 {
			b >>= 4
		}
		seq[i] = sequenceCodes[b&0xf]
	}
	rec.Sequence = string(seq)
	index += packed

	rec.Qualities = append([]uint8(nil), body[index:index+lSeq]...)
	index += lSeq

	for index < len(body) {
		tag, next, err := decodeTag(body, index)
		if err != nil {
			return nil, 0, fmt.Errorf("record %q: %v", rec.Name, err)
		}
		rec.Tags = append(rec.Tags, tag)
		index = next
	}

	return rec, 4 + int(size), nil
}

func decodeTag(body []byte, index int) (Tag, int, error) {
	if index+3 > len(body) {
		return Tag{}, 0, fmt.Errorf("truncated tag header")
	}
	key := string(body[index : index+2])
	kind := body[index+2]
	index += 3

	value, index, err := decodeTagValue(body, index, kind)
	if err != nil {
		return Tag{}, 0, fmt.Errorf("tag %s: %v", key, err)
	}
	return Tag{Key: key, Value: value}, index, nil
}

func decodeTagValue(body []byte, index int, kind byte) (interface{}, int, error) {
	need := func(n int) error {
		if index+n > len(body) {
			return fmt.Errorf("truncated value of type %c", kind)
		}
		return nil
	}

	switch kind {
	case 'A':
		if err := need(1); err != nil {
			return nil, 0, err
		}
		return string(body[index]), index + 1, nil
	case 'c':
		if err := need(1); err != nil {
			return nil, 0, err
		}
		return int64(int8(body[index])), index + 1, nil
	case 'C':
		if err := need(1); err != nil {
			return nil, 0, err
		}
		return int64(body[index]), index + 1, nil
	case 's':
		if err := need(2); err != nil {
			return nil, 0, err
		}
		return int64(int16(binary.LittleEndian.Uint16(body[index:]))), index + 2, nil
	case 'S':
		if err := need(2); err != nil {
			return nil, 0, err
		}
		return int64(binary.LittleEndian.Uint16(body[index:])), index + 2, nil
	case 'i':
		if err := need(4); err != nil {
			return nil, 0, err
		}
		return int64(int32(binary.LittleEndian.Uint32(body[index:]))), index + 4, nil
	case 'I':
		if err := need(4); err != nil {
			return nil, 0, err
		}
		return int64(binary.LittleEndian.Uint32(body[index:])), index + 4, nil
	case 'f':
		if err := need(4); err != nil {
			return nil, 0, err
		}
		return math.Float32frombits(binary.LittleEndian.Uint32(body[index:])), index + 4, nil
	case 'Z', 'H':
		end := bytes.IndexByte(body[index:], 0)
		if end < 0 {
			return nil, 0, fmt.Errorf("unterminated string value")
		}
		return string(body[index : index+end]), index + end + 1, nil
	case 'B':
		if err := need(5); err != nil {
			return nil, 0, err
		}
		sub := body[index]
		count := int(int32(binary.LittleEndian.Uint32(body[index+1:])))
		if count < 0 {
			return nil, 0, fmt.Errorf("invalid array count (%d)", count)
		}
		index += 5
		if sub == 'f' {
			if err := need(4 * count); err != nil {
				return nil, 0, err
			}
			values := make([]float32, count)
			for i := 0; i < count; i++ {
				values[i] = math.Float32frombits(binary.LittleEndian.Uint32(body[index+4*i:]))
			}
			return values, index + 4*count, nil
		}
		width, ok := map[byte]int{'c': 1, 'C': 1, 's': 2, 'S': 2, 'i': 4, 'I': 4}[sub]
		if !ok {
			return nil, 0, fmt.Errorf("unknown array subtype %c", sub)
		}
		if err := need(width * count); err != nil {
			return nil, 0, err
		}
		values := make([]int64, count)
		for i := 0; i < count; i++ {
			switch sub {
			case 'c':
				values[i] = int64(int8(body[index+i]))
			case 'C':
				values[i] = int64(body[index+i])
			case 's':
				values[i] = int64(int16(binary.LittleEndian.Uint16(body[index+2*i:])))
			case 'S':
				values[i] = int64(binary.LittleEndian.Uint16(body[index+2*i:]))
			case 'i':
				values[i] = int64(int32(binary.LittleEndian.Uint32(body[index+4*i:])))
			case 'I':
				values[i] = int64(binary.LittleEndian.Uint32(body[index+4*i:]))
			}
		}
		return values, index + width*count, nil
	default:
		return nil, 0, fmt.Errorf("unknown value type %c", kind)
	}
}

// Records iterates over the alignment records stored in a decompressed
// BAM data block.  Callers must check Err after Next returns false to
// distinguish normal exhaustion from a decoding failure.
type Records struct {
	data []byte
	rec  *Record
	err  error
}

// NewRecords returns an iterator over the records in data, which must
// start at a record boundary.
func NewRecords(data []byte) *Records {
	return &Records{data: data}
}

// Next advances the iterator.  It returns false when no further record
// is available.
func (r *Records) Next() bool {
	if r.err != nil {
		return false
	}
	rec, n, err := DecodeRecord(r.data)
	if err != nil {
		r.err = err
		return false
	}
	if rec == nil {
		return false
	}
	r.rec, r.data = rec, r.data[n:]
	return true
}

// Record returns the record read by the last successful call to Next.
func (r *Records) Record() *Record { return r.rec }

// Err returns the first decoding error encountered, if any.
func (r *Records) Err() error { return r.err }
