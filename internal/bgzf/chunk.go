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

package bgzf

import (
	"bytes"
	"fmt"
	"io"
	"io/ioutil"
)

// RangeReader returns a reader over length bytes of an archive starting
// at offset.  A length of -1 means to read everything until the end.
// The returned reader may yield fewer bytes if the archive ends early.
type RangeReader func(offset, length int64) (io.ReadCloser, error)

// DecodeChunk reads the compressed blocks addressed by chunk using read
// and returns the uncompressed bytes between the chunk's virtual start
// and end addresses.  Blocks are decoded one at a time so that the data
// offsets of the first and last block can be honored.
func DecodeChunk(read RangeReader, chunk Chunk) ([]byte, error) {
	var (
		first = chunk.Start.BlockOffset()
		last  = chunk.End.BlockOffset()
	)
	if first > last {
		return nil, fmt.Errorf("chunk %v: start block past end block", &chunk)
	}

	src, err := read(int64(first), int64(last-first)+MaximumBlockSize)
	if err != nil {
		return nil, fmt.Errorf("reading compressed blocks: %v", err)
	}
	defer src.Close()

	compressed, err := ioutil.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("reading compressed blocks: %v", err)
	}

	var decoded bytes.Buffer
	for offset, block := 0, first; block <= last && offset < len(compressed); {
		data, size, err := DecodeBlock(bytes.NewReader(compressed[offset:]))
		if err != nil {
			return nil, fmt.Errorf("decoding block at %d: %v", block, err)
		}

		lo := 0
		if block == first {
			lo = int(chunk.Start.DataOffset())
		}
		hi := len(data)
		if block == last {
			hi = int(chunk.End.DataOffset())
		}
		if lo > len(data) {
			lo = len(data)
		}
		if hi < lo {
			hi = lo
		}
		decoded.Write(data[lo:hi])

		offset += int(size)
		block += uint64(size)
	}
	return decoded.Bytes(), nil
}
