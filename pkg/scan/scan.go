/*
 Licensed under the Apache License, Version 2.0 (the "License");
 you may not use this file except in compliance with the License.
 You may obtain a copy of the License at

     https://www.apache.org/licenses/LICENSE-2.0

 Unless required by applicable law or agreed to in writing, software
 distributed under the License is distributed on an "AS IS" BASIS,
 WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 See the License for the specific language governing permissions and
 limitations under the License.
*/

// Package scan collects LWL message definitions and fault record fields from
// firmware C sources.
//
// A file using LWL declares its id range before any statement:
//
//	#define LWL_BASE_ID 10
//	#define LWL_NUM 5
//
// and then records messages like:
//
//	LWL("Trace fmt %d", 2, LWL_2(abc));
//	LWL("Simple trace", 0);
//
// A statement may span lines. All lines but the last end with a comma and
// the last one ends with ");". Fault fields are single line annotations:
//
//	uint32_t fault_type; //@fault_data,fault_type,4
package scan

import (
	"bufio"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"jinr.ru/greenlab/go-lwl/pkg/catalog"
	"jinr.ru/greenlab/go-lwl/pkg/log"
)

// DefaultExtensions are the file extensions scanned when none are given.
var DefaultExtensions = []string{".c"}

// MaxWireID is the largest id that fits in the id byte of a message.
const MaxWireID = 0xff

var (
	faultDataPattern = regexp.MustCompile(`//@fault_data,([^,]+),(\d+)`)
	baseIDPattern    = regexp.MustCompile(`^\s*#define\s+LWL_BASE_ID\s+(\d+)`)
	numIDsPattern    = regexp.MustCompile(`^\s*#define\s+LWL_NUM\s+(\d+)`)
	detectPattern    = regexp.MustCompile(`^\s*LWL\(`)
	fmtPattern       = regexp.MustCompile(`^\s*LWL\("([^"]*)"`)
	numArgsPattern   = regexp.MustCompile(`^\s*,\s*([0-9]+)`)
	argPattern       = regexp.MustCompile(`,\s*LWL_(\d)\(`)
)

// Result is what was found in the scanned sources. Messages and Fields are
// in scan order, Errors are the problems reported along the way.
type Result struct {
	Messages []*catalog.MessageDescriptor
	Fields   []catalog.FieldSpec
	Errors   []error
}

func (r *Result) errorf(file string, line int, what string) {
	err := ErrSource{File: file, Line: line, What: what}
	log.Error("%s", err)
	r.Errors = append(r.Errors, err)
}

// Catalog builds the catalog from the result. Errors from the build are
// added to r.Errors.
func (r *Result) Catalog() *catalog.Catalog {
	cat, errs := catalog.Build(r.Messages, r.Fields)
	r.Errors = append(r.Errors, errs...)
	return cat
}

// Scanner walks source trees. The zero value scans .c files.
type Scanner struct {
	Extensions []string
}

func New(extensions ...string) (*Scanner, error) {
	for _, ext := range extensions {
		if !strings.HasPrefix(ext, ".") {
			return nil, ErrUnknownExtension{Extension: ext}
		}
	}
	return &Scanner{Extensions: extensions}, nil
}

func (s *Scanner) wanted(path string) bool {
	exts := s.Extensions
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	ext := filepath.Ext(path)
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}

// ScanDirs scans every matching file under the directories, in lexical
// order. Fault field offsets keep accumulating from one file to the next.
// The returned error is a file system error, source problems are in
// Result.Errors.
func (s *Scanner) ScanDirs(dirs ...string) (*Result, error) {
	result := &Result{}
	for _, dir := range dirs {
		log.Debug("Scanning source dir %s", dir)
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			if !s.wanted(path) {
				log.Debug("Skip parsing for %s", path)
				return nil
			}
			return s.scanFile(path, result)
		})
		if err != nil {
			return result, err
		}
	}
	log.Info("Found %d LWL messages and %d fault fields, %d errors",
		len(result.Messages), len(result.Fields), len(result.Errors))
	return result, nil
}

// ScanFile scans a single file regardless of its extension.
func (s *Scanner) ScanFile(path string) (*Result, error) {
	result := &Result{}
	if err := s.scanFile(path, result); err != nil {
		return result, err
	}
	return result, nil
}

func (s *Scanner) scanFile(path string, result *Result) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return Scan(f, path, result)
}

// fileState is what is known while going through one file.
type fileState struct {
	name       string
	baseID     int
	haveBase   bool
	numIDs     int
	idOffset   int
	statement  string
	stmtLine   int
	inProgress bool
}

// Scan reads one source and appends what it finds to result.
func Scan(r io.Reader, name string, result *Result) error {
	st := &fileState{name: name, idOffset: -1}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if m := faultDataPattern.FindStringSubmatch(line); m != nil {
			width, _ := strconv.Atoi(m[2])
			result.Fields = append(result.Fields, catalog.FieldSpec{
				Name:       m[1],
				Width:      width,
				Provenance: catalog.Provenance{File: name, Line: lineNum, Statement: line},
			})
			log.Debug("%s:%d fault field %s (%d bytes)", name, lineNum, m[1], width)
			continue
		}

		if m := baseIDPattern.FindStringSubmatch(line); m != nil {
			st.baseID, _ = strconv.Atoi(m[1])
			st.haveBase = true
			log.Debug("%s:%d LWL_BASE_ID=%d", name, lineNum, st.baseID)
			if st.baseID == 0 {
				result.errorf(name, lineNum, "Invalid LWL base ID 0")
			}
			continue
		}
		if m := numIDsPattern.FindStringSubmatch(line); m != nil {
			st.numIDs, _ = strconv.Atoi(m[1])
			log.Debug("%s:%d LWL_NUM=%d", name, lineNum, st.numIDs)
			continue
		}

		if st.inProgress {
			if !strings.HasSuffix(line, ",") && !strings.HasSuffix(line, ");") {
				result.errorf(name, lineNum, "Invalid LWL continuation line: "+line)
				st.inProgress = false
				continue
			}
			st.statement += line
		} else if detectPattern.MatchString(line) {
			if !strings.HasSuffix(line, ",") && !strings.HasSuffix(line, ");") {
				result.errorf(name, lineNum, "Invalid LWL line ending: "+line)
				continue
			}
			st.statement = line
			st.stmtLine = lineNum
			st.inProgress = true
		}
		if !st.inProgress || !strings.HasSuffix(st.statement, ");") {
			continue
		}
		st.inProgress = false
		st.idOffset++
		st.statementDone(result)
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	if st.inProgress {
		result.errorf(name, st.stmtLine, "Unterminated LWL statement: "+st.statement)
	}
	return nil
}

// statementDone parses a complete LWL statement.
func (st *fileState) statementDone(result *Result) {
	stmt, line := st.statement, st.stmtLine
	log.Debug("Got statement: %s", stmt)

	m := fmtPattern.FindStringSubmatchIndex(stmt)
	if m == nil {
		result.errorf(st.name, line, "Cannot parse LWL fmt in "+stmt)
		return
	}
	format := stmt[m[2]:m[3]]
	remain := stmt[m[1]:]

	m = numArgsPattern.FindStringSubmatchIndex(remain)
	if m == nil {
		result.errorf(st.name, line, "Cannot parse LWL num arg bytes parameter in "+stmt)
		return
	}
	declared, _ := strconv.Atoi(remain[m[2]:m[3]])
	remain = remain[m[1]:]

	var widths []int
	sum := 0
	for _, a := range argPattern.FindAllStringSubmatch(remain, -1) {
		w, _ := strconv.Atoi(a[1])
		widths = append(widths, w)
		sum += w
	}
	if sum != declared {
		result.errorf(st.name, line,
			"Inconsistent num arg bytes ("+strconv.Itoa(sum)+" vs "+strconv.Itoa(declared)+") in "+stmt)
	}

	if !st.haveBase {
		result.errorf(st.name, line, "No #define LWL_BASE_ID present")
		return
	}
	if st.numIDs > 0 && st.idOffset >= st.numIDs {
		result.errorf(st.name, line,
			"LWL id offset "+strconv.Itoa(st.idOffset)+" exceeds LWL_NUM "+strconv.Itoa(st.numIDs))
	}
	id := st.baseID + st.idOffset
	if id > MaxWireID {
		result.errorf(st.name, line, "LWL id "+strconv.Itoa(id)+" does not fit in the id byte")
		return
	}

	result.Messages = append(result.Messages, &catalog.MessageDescriptor{
		ID:         uint32(id),
		Format:     format,
		ArgWidths:  widths,
		Provenance: catalog.Provenance{File: st.name, Line: line, Statement: stmt},
	})
}
