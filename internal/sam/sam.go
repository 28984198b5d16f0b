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

// Package sam provides support for parsing SAM header text.
package sam

import (
	"bufio"
	"strconv"
	"strings"
)

// ReadGroupLine holds the fields of one @RG header line.
type ReadGroupLine struct {
	ID                  string
	Sample              string
	Description         string
	PredictedInsertSize int32
}

// ProgramLine holds the fields of one @PG header line.
type ProgramLine struct {
	ID          string
	Name        string
	CommandLine string
	Version     string
	Previous    string
}

// Header is the metadata extracted from a SAM text header.
type Header struct {
	ReadGroups []ReadGroupLine
	Programs   []ProgramLine
}

// ParseHeader extracts @RG and @PG metadata from SAM header text.
// Unknown lines and tags are ignored.
func ParseHeader(text string) (*Header, error) {
	var header Header

	// @RG	ID:foo	SM:sample	DS:description ...
	scanner := bufio.NewScanner(strings.NewReader(text))
	for scanner.Scan() {
		fields := strings.Split(scanner.Text(), "\t")
		switch fields[0] {
		case "@RG":
			var rg ReadGroupLine
			for _, field := range fields[1:] {
				tag, value := splitTag(field)
				switch tag {
				case "ID":
					rg.ID = value
				case "SM":
					rg.Sample = value
				case "DS":
					rg.Description = value
				case "PI":
					if n, err := strconv.ParseInt(value, 10, 32); err == nil {
						rg.PredictedInsertSize = int32(n)
					}
				}
			}
			header.ReadGroups = append(header.ReadGroups, rg)
		case "@PG":
			var pg ProgramLine
			for _, field := range fields[1:] {
				tag, value := splitTag(field)
				switch tag {
				case "ID":
					pg.ID = value
				case "PN":
					pg.Name = value
				case "CL":
					pg.CommandLine = value
				case "VN":
					pg.Version = value
				case "PP":
					pg.Previous = value
				}
			}
			header.Programs = append(header.Programs, pg)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return &header, nil
}

func splitTag(field string) (string, string) {
	if i := strings.Index(field, ":"); i > 0 {
		return field[:i], field[i+1:]
	}
	return field, ""
}
