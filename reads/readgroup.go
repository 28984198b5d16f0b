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
	"io"
	"log"
	"path"
	"strings"
	"time"

	"github.com/googlegenomics/ga4gh/internal/bam"
	"github.com/googlegenomics/ga4gh/internal/bgzf"
	"github.com/googlegenomics/ga4gh/internal/genomics"
	"github.com/googlegenomics/ga4gh/internal/sam"
	"github.com/googlegenomics/ga4gh/protocol"
	"github.com/googlegenomics/ga4gh/storage"
)

// Merging index chunks up to this size bounds the amount of compressed
// data decoded at once while iterating alignments.
const chunkSizeLimit = 16 * 1024 * 1024

// FileOpenFailedError indicates that the data behind a read group could
// not be opened.
type FileOpenFailedError struct {
	Object string
	Err    error
}

func (e *FileOpenFailedError) Error() string {
	return fmt.Sprintf("opening %s: %v", e.Object, e.Err)
}

// UnknownReferenceNameError indicates a query for a reference sequence
// name that the read group's file does not declare.
type UnknownReferenceNameError struct {
	Name string
}

func (e *UnknownReferenceNameError) Error() string {
	return fmt.Sprintf("no reference named %q found", e.Name)
}

// StoredReadGroup is a read group backed by an indexed BAM object in a
// storage engine.
type StoredReadGroup struct {
	id      string
	localID string
	object  string
	data    storage.ObjectHandle
	indexes []storage.ObjectHandle
	header  *sam.Header
	refs    []bam.Reference
	created int64
}

// NewStoredReadGroup opens the named BAM object and reads its header.
// The BAM index is looked up next to the data object under both
// "<object>.bai" and "<object minus .bam>.bai".
func NewStoredReadGroup(ctx context.Context, client storage.Client, id, bucket, object string) (*StoredReadGroup, error) {
	data := client.NewObjectHandle(bucket, object)

	r, err := data.NewRangeReader(ctx, 0, -1)
	if err != nil {
		return nil, &FileOpenFailedError{Object: object, Err: err}
	}
	defer r.Close()

	text, refs, err := bam.ReadHeader(r)
	if err != nil {
		return nil, &FileOpenFailedError{Object: object, Err: err}
	}
	header, err := sam.ParseHeader(text)
	if err != nil {
		return nil, &FileOpenFailedError{Object: object, Err: err}
	}

	return &StoredReadGroup{
		id:      id,
		localID: strings.TrimSuffix(path.Base(object), ".bam"),
		object:  object,
		data:    data,
		indexes: []storage.ObjectHandle{
			client.NewObjectHandle(bucket, object+".bai"),
			client.NewObjectHandle(bucket, strings.TrimSuffix(object, ".bam")+".bai"),
		},
		header:  header,
		refs:    refs,
		created: time.Now().UnixNano() / int64(time.Millisecond),
	}, nil
}

// ID returns the read group identifier.
func (rg *StoredReadGroup) ID() string { return rg.id }

// NameForReferenceIndex resolves a reference index against the file's
// reference table.
func (rg *StoredReadGroup) NameForReferenceIndex(index int32) (string, error) {
	if index < 0 || int(index) >= len(rg.refs) {
		return "", &UnknownReferenceIDError{ID: index}
	}
	return rg.refs[index].Name, nil
}

func (rg *StoredReadGroup) referenceIDForName(name string) (int32, error) {
	for i, ref := range rg.refs {
		if ref.Name == name {
			return int32(i), nil
		}
	}
	return 0, &UnknownReferenceNameError{Name: name}
}

// ToProtocol returns the protocol representation of the read group.
// Metadata comes from the @RG and @PG lines of the file's header when
// present.
func (rg *StoredReadGroup) ToProtocol() protocol.ReadGroup {
	out := protocol.ReadGroup{
		ID:      rg.id,
		Name:    rg.id,
		Created: rg.created,
		Updated: rg.created,
		Info:    map[string][]string{},
	}
	if line := rg.headerLine(); line != nil {
		if line.Sample != "" {
			sample := line.Sample
			out.SampleID = &sample
		}
		if line.Description != "" {
			description := line.Description
			out.Description = &description
		}
		if line.PredictedInsertSize != 0 {
			size := line.PredictedInsertSize
			out.PredictedInsertSize = &size
		}
	}
	for _, pg := range rg.header.Programs {
		out.Programs = append(out.Programs, protocol.Program{
			ID:            pg.ID,
			Name:          pg.Name,
			CommandLine:   pg.CommandLine,
			Version:       pg.Version,
			PrevProgramID: pg.Previous,
		})
	}
	return out
}

// headerLine returns the @RG line matching the read group's local ID,
// or the only @RG line when the header declares exactly one.
func (rg *StoredReadGroup) headerLine() *sam.ReadGroupLine {
	for i := range rg.header.ReadGroups {
		if rg.header.ReadGroups[i].ID == rg.localID {
			return &rg.header.ReadGroups[i]
		}
	}
	if len(rg.header.ReadGroups) == 1 {
		return &rg.header.ReadGroups[0]
	}
	return nil
}

// Alignments returns an iterator over the alignments overlapping the
// region [start, end) on the named reference, in file order.
func (rg *StoredReadGroup) Alignments(ctx context.Context, referenceName string, start, end int64) *AlignmentIterator {
	region := genomics.AllMappedReads
	if referenceName != "" {
		id, err := rg.referenceIDForName(referenceName)
		if err != nil {
			return ErrorIterator(err)
		}
		region = genomics.Region{ReferenceID: id, Start: uint32(start), End: uint32(end)}
	}

	chunks, err := rg.chunksForRegion(ctx, region)
	if err != nil {
		return ErrorIterator(err)
	}

	read := func(offset, length int64) (io.ReadCloser, error) {
		return rg.data.NewRangeReader(ctx, offset, length)
	}

	var records *bam.Records
	return NewAlignmentIterator(func() (*protocol.ReadAlignment, error) {
		for {
			for records == nil || !records.Next() {
				if records != nil {
					if err := records.Err(); err != nil {
						return nil, fmt.Errorf("reading records: %v", err)
					}
				}
				if len(chunks) == 0 {
					return nil, nil
				}
				data, err := bgzf.DecodeChunk(read, *chunks[0])
				if err != nil {
					return nil, fmt.Errorf("decoding chunk %v: %v", chunks[0], err)
				}
				chunks = chunks[1:]
				records = bam.NewRecords(data)
			}

			rec := records.Record()
			if !region.Overlaps(rec.ReferenceID, uint32(rec.Position), uint32(rec.ReferenceEnd())) {
				continue
			}
			return Convert(rec, rg.id, rg)
		}
	})
}

func (rg *StoredReadGroup) chunksForRegion(ctx context.Context, region genomics.Region) ([]*bgzf.Chunk, error) {
	var lastErr error
	for _, index := range rg.indexes {
		r, err := index.NewRangeReader(ctx, 0, -1)
		if err != nil {
			lastErr = err
			continue
		}
		chunks, err := bam.ReadIndex(r, region)
		r.Close()
		if err != nil {
			lastErr = err
			continue
		}
		// The first chunk covers the header, which holds no records.
		return bgzf.Merge(chunks[1:], chunkSizeLimit), nil
	}
	return nil, &FileOpenFailedError{Object: rg.object, Err: lastErr}
}

// ReadGroupSet is a logical collection of read groups.
type ReadGroupSet struct {
	id         string
	readGroups []ReadGroup
}

// NewReadGroupSet returns a set with the provided read groups.
func NewReadGroupSet(id string, readGroups ...ReadGroup) *ReadGroupSet {
	return &ReadGroupSet{id: id, readGroups: readGroups}
}

// NewStoredReadGroupSet scans bucket for BAM objects and builds one
// read group per object, identified as "{setID}:{base name}".  Objects
// whose header cannot be opened are skipped so that one bad file does
// not take down its siblings.
func NewStoredReadGroupSet(ctx context.Context, client storage.Client, id, bucket string) (*ReadGroupSet, error) {
	objects, err := client.ListObjects(ctx, bucket, "")
	if err != nil {
		return nil, fmt.Errorf("scanning bucket %q: %v", bucket, err)
	}

	set := &ReadGroupSet{id: id}
	for _, object := range objects {
		if !strings.HasSuffix(object, ".bam") {
			continue
		}
		readGroupID := fmt.Sprintf("%s:%s", id, strings.TrimSuffix(path.Base(object), ".bam"))
		rg, err := NewStoredReadGroup(ctx, client, readGroupID, bucket, object)
		if err != nil {
			log.Printf("Skipping read group %s: %v", readGroupID, err)
			continue
		}
		set.readGroups = append(set.readGroups, rg)
	}
	return set, nil
}

// ID returns the read group set identifier.
func (set *ReadGroupSet) ID() string { return set.id }

// ReadGroups returns the read groups in this read group set.
func (set *ReadGroupSet) ReadGroups() []ReadGroup { return set.readGroups }

// ToProtocol returns the protocol representation of the set.
func (set *ReadGroupSet) ToProtocol() protocol.ReadGroupSet {
	groups := make([]protocol.ReadGroup, 0, len(set.readGroups))
	for _, rg := range set.readGroups {
		groups = append(groups, rg.ToProtocol())
	}
	return protocol.ReadGroupSet{ID: set.id, ReadGroups: groups}
}
