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

package sam

import (
	"reflect"
	"testing"
)

func TestParseHeader(t *testing.T) {
	text := "@HD\tVN:1.6\tSO:coordinate\n" +
		"@SQ\tSN:chr1\tLN:248956422\n" +
		"@RG\tID:rg1\tSM:frog\tDS:test data\tPI:350\n" +
		"@RG\tID:rg2\tSM:toad\n" +
		"@PG\tID:bwa\tPN:bwa\tCL:bwa mem ref.fa\tVN:0.7.17\n" +
		"@PG\tID:sort\tPN:samtools\tPP:bwa\n" +
		"@CO\tfree text comment\n"

	header, err := ParseHeader(text)
	if err != nil {
		t.Fatalf("ParseHeader failed: %v", err)
	}

	wantGroups := []ReadGroupLine{
		{ID: "rg1", Sample: "frog", Description: "test data", PredictedInsertSize: 350},
		{ID: "rg2", Sample: "toad"},
	}
	if !reflect.DeepEqual(header.ReadGroups, wantGroups) {
		t.Errorf("Wrong read groups: got %v, want %v", header.ReadGroups, wantGroups)
	}

	wantPrograms := []ProgramLine{
		{ID: "bwa", Name: "bwa", CommandLine: "bwa mem ref.fa", Version: "0.7.17"},
		{ID: "sort", Name: "samtools", Previous: "bwa"},
	}
	if !reflect.DeepEqual(header.Programs, wantPrograms) {
		t.Errorf("Wrong programs: got %v, want %v", header.Programs, wantPrograms)
	}
}

func TestParseHeader_Empty(t *testing.T) {
	header, err := ParseHeader("")
	if err != nil {
		t.Fatalf("ParseHeader failed: %v", err)
	}
	if len(header.ReadGroups) != 0 || len(header.Programs) != 0 {
		t.Errorf("Wrong header for empty text: %+v", header)
	}
}

func TestParseHeader_IgnoresUnknownTags(t *testing.T) {
	header, err := ParseHeader("@RG\tID:rg1\tXX:ignored\tPI:bogus\n")
	if err != nil {
		t.Fatalf("ParseHeader failed: %v", err)
	}
	want := []ReadGroupLine{{ID: "rg1"}}
	if !reflect.DeepEqual(header.ReadGroups, want) {
		t.Errorf("Wrong read groups: got %v, want %v", header.ReadGroups, want)
	}
}
